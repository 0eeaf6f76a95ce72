package optimize

import (
	"math"
	"sort"

	"github.com/oisee/qrotsynth/pkg/bits"
)

// doSingle runs a greedy set cover: repeatedly exclude the gate
// touching the most still-uncovered peaks, until every peak has at
// least one excluded gate. Returns +Inf cost (via
// math.MaxInt) when some peak has no excludable bit at all (every bit
// there is a carry), matching the infeasible-move contract used by the
// driver's cost_counter/cost_single comparison.
func doSingle(t *bits.Table, acc *bits.Accounting, peaks []int, costSingle int) (int, map[int]bool) {
	for _, p := range peaks {
		if acc.Height[p]-acc.NCarry[p] <= 0 {
			return math.MaxInt, nil
		}
	}

	uncovered := make(map[int]bool, len(peaks))
	for _, p := range peaks {
		uncovered[p] = true
	}

	excluded := map[int]bool{}
	for len(uncovered) > 0 {
		counts := map[int]int{}
		for p := range uncovered {
			pos, neg := t.Bits.GateIDsInRow(p)
			touched := map[int]bool{}
			for g := range pos {
				touched[g] = true
			}
			for g := range neg {
				touched[g] = true
			}
			for g := range touched {
				counts[g]++
			}
		}

		ids := make([]int, 0, len(counts))
		for g := range counts {
			ids = append(ids, g)
		}
		sort.Ints(ids)

		best, bestCount := -1, -1
		for _, g := range ids {
			if counts[g] > bestCount {
				best, bestCount = g, counts[g]
			}
		}
		if best < 0 {
			break
		}
		excluded[best] = true

		for p := range uncovered {
			pos, neg := t.Bits.GateIDsInRow(p)
			if pos[best] || neg[best] {
				delete(uncovered, p)
			}
		}
	}

	return costSingle * len(excluded), excluded
}
