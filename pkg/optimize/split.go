package optimize

import (
	"sort"

	"github.com/oisee/qrotsynth/pkg/bits"
)

// anyGate is the synthetic "any gate" sentinel id findSplittedGate
// falls back to when no single gate's own bits can complete a split:
// it tracks a pooled "needed" count across whichever gates happen to
// land in the discharge row, rather than insisting on one gate's id.
const anyGate = -1

// splitCandidate tracks one splittable slot's running "needed" unit
// count as findSplittedGate scans rows away from the peak.
type splitCandidate struct {
	gateID int
	sign   int // +1 or -1; 0 for the synthetic any-gate slot
	needed int
}

// split attempts to reduce height[index] by one by migrating one
// gate-bit from row index into lower-weight rows. Returns false if
// there is no splittable bit, or if no discharge row is found within
// indexBound.
func split(t *bits.Table, acc *bits.Accounting, index, indexBound int) bool {
	splittable := acc.Height[index] - acc.NCarry[index] - len(acc.CounterSizes[index])
	if splittable <= 0 {
		return false
	}

	gateID, dischargeRow, ok := findSplittedGate(t, acc, index, indexBound)
	if !ok {
		return false
	}

	if gateID == anyGate {
		acc.NSplitFrom[index]++
		acc.Height[index]--
		acc.NSplitTo[dischargeRow]++
		return true
	}

	splitGate(t, acc, index, dischargeRow, gateID)
	return true
}

// findSplittedGate scans rows below index for a place to discharge a
// gate-bit. For every gate id with a bit at row index (and the
// synthetic any-gate slot) it tracks
// how many further same-sign bits would still be needed to complete
// the split if the migration stopped at each successive lower row,
// doubling the requirement each row, discharging early via
// opposite-sign in-place flips and via empty row capacity. Ties are
// broken by lowest gate id; the synthetic any-gate slot is only
// returned when no concrete gate discharges at that row.
func findSplittedGate(t *bits.Table, acc *bits.Accounting, index, indexBound int) (gateID, dischargeRow int, ok bool) {
	pos, neg := t.Bits.GateIDsInRow(index)

	ids := make([]int, 0, len(pos)+len(neg))
	for g := range pos {
		ids = append(ids, g)
	}
	for g := range neg {
		if !pos[g] {
			ids = append(ids, g)
		}
	}
	sort.Ints(ids)

	cands := make([]*splitCandidate, 0, len(ids))
	for _, g := range ids {
		sign := 1
		if !pos[g] {
			sign = -1
		}
		cands = append(cands, &splitCandidate{gateID: g, sign: sign, needed: 2})
	}
	any := &splitCandidate{gateID: anyGate, needed: 2}

	bound := acc.R
	if indexBound < bound {
		bound = indexBound
	}

	for end := index + 1; end < bound; end++ {
		capacity := acc.MaxHeight - 1 - acc.Height[end]
		if capacity < 0 {
			capacity = 0
		}
		endPos, endNeg := t.Bits.GateIDsInRow(end)

		var discharged []*splitCandidate
		for _, c := range cands {
			if c.sign == 1 && endNeg[c.gateID] {
				c.needed -= 2
			} else if c.sign == -1 && endPos[c.gateID] {
				c.needed -= 2
			}
			c.needed -= capacity
			if c.needed <= 0 {
				discharged = append(discharged, c)
			}
		}
		if len(discharged) > 0 {
			sort.Slice(discharged, func(i, j int) bool { return discharged[i].gateID < discharged[j].gateID })
			return discharged[0].gateID, end, true
		}

		any.needed -= capacity
		if any.needed <= 0 {
			return anyGate, end, true
		}

		minNeeded := any.needed
		for _, c := range cands {
			if c.needed < minNeeded {
				minNeeded = c.needed
			}
		}
		if minNeeded > acc.MaxHeight {
			return 0, 0, false
		}

		for _, c := range cands {
			c.needed *= 2
		}
		any.needed *= 2
	}
	return 0, 0, false
}

// splitGate mutates the table for a concrete gate's split: it removes
// the bit at index and places the migrated value in rows index+1..to,
// flipping an opposite-sign bit of the same gate in place where
// found and appending new same-sign bits otherwise.
func splitGate(t *bits.Table, acc *bits.Accounting, index, to, gateID int) {
	acc.Height[index]--

	row := t.Bits.Row(index)
	sign, pos := 0, -1
	for i, b := range row {
		if b.Kind != bits.Carry && b.GateID == gateID {
			sign, pos = b.Sign(), i
			break
		}
	}
	t.Bits.EraseAt(index, pos)

	placeSplitBits(t, acc, index, to, gateID, sign)
}

// placeSplitBits executes the concrete bit migration: starting at
// row+1, walk down to row `to`, flipping an opposite-sign bit of
// gateID in place where found (consuming 2 units of the doubling
// "needed" quota at no bit-count cost) and otherwise appending new
// same-sign bits at the final row to satisfy the remaining quota.
func placeSplitBits(t *bits.Table, acc *bits.Accounting, from, to, gateID, sign int) {
	needed := 2
	for row := from + 1; row <= to; row++ {
		r := t.Bits.Row(row)
		flipIdx := -1
		for i, b := range r {
			if b.Kind != bits.Carry && b.GateID == gateID && b.Sign() == -sign {
				flipIdx = i
				break
			}
		}
		if flipIdx >= 0 {
			if sign == 1 {
				t.Bits.SetKind(row, flipIdx, bits.PosGate)
			} else {
				t.Bits.SetKind(row, flipIdx, bits.NegGate)
			}
			needed -= 2
		}

		if row == to {
			for needed > 0 {
				if sign == 1 {
					t.Bits.Append(row, bits.NewPosGate(gateID))
				} else {
					t.Bits.Append(row, bits.NewNegGate(gateID))
				}
				acc.Height[row]++
				needed--
			}
		} else {
			needed *= 2
		}
	}
}
