package optimize

import (
	stdbits "math/bits"
	"sort"

	"github.com/oisee/qrotsynth/pkg/bits"
	"github.com/oisee/qrotsynth/pkg/cost"
)

// doCounter walks the remaining peaks in order, attempting
// create/grow/merge counter moves at each, committing a move only when
// it costs no more than the adder pass it avoids. It mutates acc in
// place — callers pass a speculative Accounting.Clone() and only fold
// it back into the live accounting on acceptance.
//
// Each peak's move is tried against its own Accounting.Clone() first:
// tryCounterMove mutates unconditionally on success, so a move whose
// cost later fails the avoided-cost check must never reach acc — only
// a clone that is discarded with it.
//
// Returns the total cost (including one adder-pass charge for the
// unfinished tail, if processing stopped early) and the index into
// remaining at which processing stopped (len(remaining) if every peak
// was handled).
func doCounter(t *bits.Table, acc *bits.Accounting, remaining []int) (totalCost, dealingIndex int) {
	for j, peak := range remaining {
		trial := acc.Clone()
		moveCost, ok := tryCounterMove(trial, peak)
		if !ok {
			return totalCost + cost.Adder(peak), j
		}

		var avoided int
		if j+1 < len(remaining) {
			avoided = cost.Adder(peak) - cost.Adder(remaining[j+1])
		} else {
			avoided = cost.Adder(peak)
		}

		// A tie is resolved in the counter's favor: two identical
		// pi/2 rotations with no split capacity make the first counter
		// creation exactly as expensive as the adder pass it replaces,
		// and the driver still prefers forming the counter.
		if moveCost > avoided {
			return totalCost + cost.Adder(peak), j
		}
		copyAccountingFields(acc, trial)
		totalCost += moveCost
	}
	return totalCost, len(remaining)
}

// tryCounterMove attempts, in priority order, to create a fresh
// counter at peak, grow its smallest existing counter, or merge its
// smallest counter into the others. Returns the move's Toffoli cost
// and whether any move was possible.
func tryCounterMove(acc *bits.Accounting, peak int) (int, bool) {
	free := acc.Height[peak] - acc.NCarry[peak] - len(acc.CounterSizes[peak])
	if peak-1 >= 0 && free >= 2 {
		return createCounter(acc, peak), true
	}
	if len(acc.CounterSizes[peak]) > 0 {
		if c, ok := growCounter(acc, peak); ok {
			return c, true
		}
	}
	if len(acc.CounterSizes[peak]) >= 2 {
		if c, ok := mergeCounters(acc, peak); ok {
			return c, true
		}
	}
	return 0, false
}

// createCounter opens a fresh 2-input population counter at peak,
// spending one carry slot at row peak-1 for its first output bit above
// the LSB.
func createCounter(acc *bits.Accounting, peak int) int {
	acc.Height[peak]--
	acc.NCounter[peak] += 2
	acc.CounterSizes[peak] = insertSortedDesc(acc.CounterSizes[peak], 2)
	acc.Height[peak-1]++
	acc.NCarry[peak-1]++
	return cost.Counter(2, peak)
}

// growCounter grows the smallest pending counter at peak by one input,
// adding a further carry row only when bitlength(size) crosses a power
// of two boundary. Fails without mutating acc if the new carry row
// would breach max_height.
func growCounter(acc *bits.Accounting, peak int) (int, bool) {
	sizes := acc.CounterSizes[peak]
	idx := len(sizes) - 1
	oldSize := sizes[idx]
	newSize := oldSize + 1

	oldPow := stdbits.Len(uint(oldSize)) - 1
	newPow := stdbits.Len(uint(newSize)) - 1

	carryRow := -1
	if newPow > oldPow {
		carryRow = peak - newPow
		if carryRow < 0 || acc.Height[carryRow] >= acc.MaxHeight {
			return 0, false
		}
	}

	disToHead := peak
	delta := cost.Counter(newSize, disToHead) - cost.Counter(oldSize, disToHead)

	sizes[idx] = newSize
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	acc.CounterSizes[peak] = sizes
	acc.NCounter[peak]++

	if carryRow >= 0 {
		acc.Height[carryRow]++
		acc.NCarry[carryRow]++
	}
	return delta, true
}

// mergeCounters removes the smallest counter at peak and re-inserts
// its inputs one by one into the remaining counters via growCounter,
// on a trial clone so a mid-merge carry overflow leaves acc untouched.
func mergeCounters(acc *bits.Accounting, peak int) (int, bool) {
	if len(acc.CounterSizes[peak]) < 2 {
		return 0, false
	}
	trial := acc.Clone()
	sizes := trial.CounterSizes[peak]
	removed := sizes[len(sizes)-1]
	trial.CounterSizes[peak] = sizes[:len(sizes)-1]
	trial.NCounter[peak] -= removed

	total := 0
	for i := 0; i < removed; i++ {
		c, ok := growCounter(trial, peak)
		if !ok {
			return 0, false
		}
		total += c
	}

	copyAccountingFields(acc, trial)
	return total, true
}

// copyAccountingFields overwrites dst's mutable vectors with src's,
// used to fold an accepted trial clone back into the live accounting.
func copyAccountingFields(dst, src *bits.Accounting) {
	copy(dst.Height, src.Height)
	copy(dst.NCarry, src.NCarry)
	copy(dst.NCounter, src.NCounter)
	dst.CounterSizes = make([][]int, len(src.CounterSizes))
	for i, s := range src.CounterSizes {
		dst.CounterSizes[i] = append([]int(nil), s...)
	}
}

func insertSortedDesc(sizes []int, v int) []int {
	sizes = append(sizes, v)
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}
