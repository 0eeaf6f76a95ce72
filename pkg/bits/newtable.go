package bits

import "github.com/oisee/qrotsynth/pkg/angle"

// Table bundles the concrete BitTable with its TableAccounting view.
// Between optimizer iterations the two are not required to agree —
// Accounting tracks mid-optimization bookkeeping that hasn't been
// materialized into physical bits yet; FromEncoded constructs both in
// lockstep at ingestion time, when they do agree by construction.
type Table struct {
	Bits       *BitTable
	Accounting *Accounting
	R          int
}

// FromEncoded builds the initial table from one angle.Result per gate,
// exactly mirroring original_source/src/io.cpp's importQasm bit
// placement. In SameAngle mode, rows below the shared least-significant
// set bit are provably always empty and are truncated away, matching
// the original's post-ingestion _r shrink.
func FromEncoded(results []angle.Result, r int, mode angle.Mode) *Table {
	bt := NewBitTable(r)
	acc := NewAccounting(r)

	for _, res := range results {
		if mode == angle.SameAngle {
			if res.LSB < 0 {
				continue // angle is exactly zero: no bit to place
			}
			bt.Append(res.LSB, NewPosGate(res.GateID))
			acc.Height[res.LSB]++
			continue
		}
		for i, v := range res.Bits {
			switch v {
			case 1:
				bt.Append(i, NewPosGate(res.GateID))
				acc.Height[i]++
			case -1:
				bt.Append(i, NewNegGate(res.GateID))
				acc.Height[i]++
			}
		}
	}

	tbl := &Table{Bits: bt, Accounting: acc, R: r}
	if mode == angle.SameAngle {
		tbl.truncateToFirstNonEmpty()
	}
	return tbl
}

// truncateToFirstNonEmpty shrinks the table to keep rows 0..i where i
// is the first row with any bits, per original_source's importQasm:
//
//	for (int i = 0; i < _r; ++i) {
//	    if (_bit_table[i].size() != 0) { _r = i + 1; ...shrink...; break; }
//	}
func (t *Table) truncateToFirstNonEmpty() {
	for i := 0; i < t.R; i++ {
		if t.Bits.Len(i) != 0 {
			newR := i + 1
			t.Bits.TruncateTo(newR)
			t.Accounting.Height = t.Accounting.Height[:newR]
			t.Accounting.NCarry = t.Accounting.NCarry[:newR]
			t.Accounting.NCounter = t.Accounting.NCounter[:newR]
			t.Accounting.NSplitFrom = t.Accounting.NSplitFrom[:newR]
			t.Accounting.NSplitTo = t.Accounting.NSplitTo[:newR]
			t.Accounting.CounterSizes = t.Accounting.CounterSizes[:newR]
			t.Accounting.R = newR
			t.R = newR
			return
		}
	}
}
