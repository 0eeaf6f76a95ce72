package bits

import "fmt"

// Accounting is the TableAccounting view the optimizer reasons about
// between iterations — distinct from the concrete BitTable, and made
// consistent with it only by concretization. Mid-optimization,
// |BitTable.Row(i)| == Height[i] does NOT generally hold; that equality
// is a postcondition of concretization only.
type Accounting struct {
	R            int
	Height       []int   // budgeted column height, per row
	NCarry       []int   // carry slots pending concretization, per row
	NCounter     []int   // counter-input bits pending compression, per row
	NSplitFrom   []int   // bits migrating out of this row, pending concretization
	NSplitTo     []int   // bits migrating into this row, pending concretization
	CounterSizes [][]int // non-increasing list of pending counter sizes, LSB-output row keyed
	MaxHeight    int
}

// NewAccounting creates a zeroed accounting view for r rows.
func NewAccounting(r int) *Accounting {
	return &Accounting{
		R:            r,
		Height:       make([]int, r),
		NCarry:       make([]int, r),
		NCounter:     make([]int, r),
		NSplitFrom:   make([]int, r),
		NSplitTo:     make([]int, r),
		CounterSizes: make([][]int, r),
	}
}

// Clone returns a deep copy, used for speculative trials (doCounter,
// doSingle) that must be cheaply rolled back on rejection: mutate the
// clone, measure its cost, and only fold it back into the caller's
// accounting once the move is accepted.
func (a *Accounting) Clone() *Accounting {
	c := &Accounting{
		R:          a.R,
		Height:     append([]int(nil), a.Height...),
		NCarry:     append([]int(nil), a.NCarry...),
		NCounter:   append([]int(nil), a.NCounter...),
		NSplitFrom: append([]int(nil), a.NSplitFrom...),
		NSplitTo:   append([]int(nil), a.NSplitTo...),
		MaxHeight:  a.MaxHeight,
	}
	c.CounterSizes = make([][]int, len(a.CounterSizes))
	for i, sizes := range a.CounterSizes {
		c.CounterSizes[i] = append([]int(nil), sizes...)
	}
	return c
}

// UpdatePeaks sets MaxHeight and returns every row index with that
// height, ordered from low-weight (high index) to high-weight (low
// index) — the order the driver processes peaks in.
func (a *Accounting) UpdatePeaks() []int {
	a.MaxHeight = 0
	for _, h := range a.Height {
		if h > a.MaxHeight {
			a.MaxHeight = h
		}
	}
	if a.MaxHeight == 0 {
		return nil
	}
	var peaks []int
	for i := a.R - 1; i >= 0; i-- {
		if a.Height[i] == a.MaxHeight {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// CheckInvariants verifies the accounting-level invariants: each row's
// budgeted height covers its pending carries and counters, each row's
// counter sizes sum to its counter count, counter sizes within a row
// are non-increasing, and MaxHeight matches the tallest row. A
// separate invariant — every carry debit has a matching counter entry
// in a higher-indexed row — is enforced structurally by construction in
// pkg/optimize (NCarry is only ever incremented in the same step a
// CounterSizes entry is recorded at a higher row) and is exercised by
// the concretization round-trip test instead.
// It returns the first violated invariant as an error, or nil if all hold.
func (a *Accounting) CheckInvariants() error {
	for i := 0; i < a.R; i++ {
		nonSplittable := a.NCarry[i] + len(a.CounterSizes[i])
		if a.Height[i] < nonSplittable {
			return fmt.Errorf("invariant 1 violated at row %d: height %d < n_carry+|counter_sizes| %d", i, a.Height[i], nonSplittable)
		}
	}
	for i := 0; i < a.R; i++ {
		sum := 0
		for _, s := range a.CounterSizes[i] {
			sum += s
		}
		if sum != a.NCounter[i] {
			return fmt.Errorf("invariant 2 violated at row %d: sum(counter_sizes)=%d != n_counter=%d", i, sum, a.NCounter[i])
		}
	}
	for i := 0; i < a.R; i++ {
		for j := 1; j < len(a.CounterSizes[i]); j++ {
			if a.CounterSizes[i][j] > a.CounterSizes[i][j-1] {
				return fmt.Errorf("invariant 4 violated at row %d: counter sizes not non-increasing", i)
			}
		}
	}
	maxH := 0
	for _, h := range a.Height {
		if h > maxH {
			maxH = h
		}
	}
	if maxH != a.MaxHeight {
		return fmt.Errorf("invariant 5 violated: max_height=%d but max(height)=%d", a.MaxHeight, maxH)
	}
	return nil
}
