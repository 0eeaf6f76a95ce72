package optimize

import (
	"testing"

	"github.com/oisee/qrotsynth/pkg/bits"
	"github.com/oisee/qrotsynth/pkg/gate"
)

func newOptimizerForConcretize(t *testing.T, tbl *bits.BitTable, acc *bits.Accounting, r int) *Optimizer {
	t.Helper()
	table := &bits.Table{Bits: tbl, Accounting: acc, R: r}
	return &Optimizer{Table: table, Gates: gate.NewRegistry(), Excluded: map[int]float64{}}
}

func TestResolveSplitsMigratesAnyGatePlaceholder(t *testing.T) {
	acc := bits.NewAccounting(3)
	acc.NSplitFrom[0] = 1
	acc.NSplitTo[1] = 1
	tbl := bits.NewBitTable(3)
	tbl.Append(0, bits.NewPosGate(9))

	o := newOptimizerForConcretize(t, tbl, acc, 3)
	if err := o.resolveSplits(); err != nil {
		t.Fatalf("resolveSplits: %v", err)
	}
	if tbl.Len(0) != 0 {
		t.Fatalf("row 0 should be empty after migrating its only bit, got %d", tbl.Len(0))
	}
	if tbl.Len(1) != 2 {
		t.Fatalf("row 1 should gain 2 bits, got %d", tbl.Len(1))
	}
	for i := 0; i < tbl.Len(1); i++ {
		b := tbl.BitAt(1, i)
		if b.Kind != bits.PosGate || b.GateID != 9 {
			t.Fatalf("row 1 bit %d = %+v, want PosGate of gate 9", i, b)
		}
	}
	if acc.NSplitFrom[0] != 0 || acc.NSplitTo[1] != 0 {
		t.Fatalf("split obligations should be cleared: from=%v to=%v", acc.NSplitFrom, acc.NSplitTo)
	}
}

func TestResolveSplitsErrorsWithNoDestination(t *testing.T) {
	acc := bits.NewAccounting(2)
	acc.NSplitFrom[0] = 1
	tbl := bits.NewBitTable(2)
	tbl.Append(0, bits.NewPosGate(1))

	o := newOptimizerForConcretize(t, tbl, acc, 2)
	if err := o.resolveSplits(); err == nil {
		t.Fatal("expected an error when no row owes an NSplitTo credit")
	}
}

func TestResolveCountersBuildsCarryTree(t *testing.T) {
	acc := bits.NewAccounting(2)
	acc.Height[1] = 1
	acc.NCarry[0] = 1
	acc.CounterSizes[1] = []int{2}
	acc.NCounter[1] = 2
	tbl := bits.NewBitTable(2)
	tbl.Append(1, bits.NewPosGate(1))
	tbl.Append(1, bits.NewPosGate(2))

	o := newOptimizerForConcretize(t, tbl, acc, 2)
	o.resolveCounters()

	if len(acc.CounterSizes[1]) != 0 || acc.NCounter[1] != 0 {
		t.Fatalf("row 1's counter should be fully resolved: sizes=%v n=%d", acc.CounterSizes[1], acc.NCounter[1])
	}
	if tbl.Len(1) != 1 || tbl.BitAt(1, 0).Kind != bits.Carry || tbl.BitAt(1, 0).Power != 0 {
		t.Fatalf("row 1 should hold one power-0 carry bit, got %+v", tbl.Row(1))
	}
	if tbl.Len(0) != 1 || tbl.BitAt(0, 0).Kind != bits.Carry || tbl.BitAt(0, 0).Power != 1 {
		t.Fatalf("row 0 should hold one power-1 carry bit, got %+v", tbl.Row(0))
	}
	if acc.NCarry[0] != 0 {
		t.Fatalf("NCarry[0] = %d, want 0", acc.NCarry[0])
	}
}
