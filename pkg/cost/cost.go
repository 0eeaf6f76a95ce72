// Package cost implements the closed-form Toffoli-equivalent cost
// estimators: adder passes, population counters, and single-gate
// exclusion rotations.
package cost

import "math"

// Toffoli is the fixed per-Toffoli T-count, injected as a named
// immutable value rather than a process-wide mutable.
const Toffoli = 4

// NCr returns the binomial coefficient C(n, k), computed with the
// symmetric form and integer accumulation. All inputs in this system
// are small (<= precision r), so overflow is not a concern.
func NCr(n, k int) int {
	if n < k {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	ans := 1
	for i := 1; i <= k; i++ {
		ans *= n
		ans /= i
		n--
	}
	return ans
}

// Adder returns the T-count of one ripple-carry adder pass whose
// lowest involved bit position is minBit. Derived from a ripple adder
// using one Toffoli per bit above position 0.
func Adder(minBit int) int {
	nToffoli := minBit
	return nToffoli * Toffoli
}

// Counter returns the T-count of a population-counter circuit reducing
// counterSize same-column inputs, given disToHead (the distance from
// the counter's LSB row to row 0, bounding how many output bits
// actually fit before running off the table).
func Counter(counterSize, disToHead int) int {
	nToffoli := 0
	for comb, dist := 2, disToHead; comb <= counterSize && dist > 0; comb, dist = comb*2, dist-1 {
		nToffoli += NCr(counterSize, comb)
	}
	return nToffoli * Toffoli
}

// Single returns the cost of applying one independent single-gate
// rotation in place of additive synthesis, for precision bits of
// fractional precision. It is the minimum of three standard formulas:
// HST (Hadamard/Solovay-Kitaev-style table), RUS (repeat-until-success),
// and PQF (phase-quantization / Fourier) — used only when the caller
// does not supply an explicit cost override.
func Single(precision int) int {
	p1 := float64(precision + 1)
	hst := 3.0*p1 + math.Log2(p1)
	rus := 1.149*p1 + 9.2
	pqf := 1.0*p1 + 4*math.Log2(p1) + 1.187
	return int(math.Floor(math.Min(hst, math.Min(rus, pqf))))
}
