package qasm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/oisee/qrotsynth/pkg/bits"
	"github.com/oisee/qrotsynth/pkg/cost"
	"github.com/oisee/qrotsynth/pkg/gate"
)

func TestEmitSingleBitNoCost(t *testing.T) {
	reg := gate.NewRegistry()
	g, err := reg.Add(gate.Rz, []int{0}, 0.1)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	bt := bits.NewBitTable(1)
	bt.Append(0, bits.NewPosGate(g.ID))
	tbl := &bits.Table{Bits: bt, Accounting: bits.NewAccounting(1), R: 1}

	em := &Emitter{Table: tbl, Gates: reg, Excluded: map[int]float64{}}
	var buf bytes.Buffer
	gotCost, err := em.Emit(&buf)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if gotCost != 0 {
		t.Fatalf("cost = %d, want 0 (single bit, no ripple step crosses a Toffoli)", gotCost)
	}
	if !strings.Contains(buf.String(), "cx q[0], add[0];") {
		t.Fatalf("output missing the load of row 0's bit into add[0]:\n%s", buf.String())
	}
}

func TestEmitChargesToffoliPerMAJStep(t *testing.T) {
	reg := gate.NewRegistry()
	g0, _ := reg.Add(gate.Rz, []int{0}, 0.1)
	g1, _ := reg.Add(gate.Rz, []int{1}, 0.2)
	bt := bits.NewBitTable(3)
	bt.Append(1, bits.NewPosGate(g0.ID))
	bt.Append(2, bits.NewPosGate(g1.ID))
	tbl := &bits.Table{Bits: bt, Accounting: bits.NewAccounting(3), R: 3}

	em := &Emitter{Table: tbl, Gates: reg, Excluded: map[int]float64{}}
	var buf bytes.Buffer
	gotCost, err := em.Emit(&buf)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	want := 2 * cost.Toffoli
	if gotCost != want {
		t.Fatalf("cost = %d, want %d (two MAJ steps, rows 1 and 2 down to row 1)", gotCost, want)
	}
}

func TestSetAncChargesToffoliForControlledPhase(t *testing.T) {
	reg := gate.NewRegistry()
	if _, err := reg.Add(gate.CP, []int{0, 1}, 0.3); err != nil {
		t.Fatalf("Add: %v", err)
	}
	tbl := &bits.Table{Bits: bits.NewBitTable(1), Accounting: bits.NewAccounting(1), R: 1}

	em := &Emitter{Table: tbl, Gates: reg, Excluded: map[int]float64{}}
	var buf bytes.Buffer
	gotCost, err := em.Emit(&buf)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if gotCost != cost.Toffoli {
		t.Fatalf("cost = %d, want %d (one cp ancilla Toffoli, charged once on the forward pass)", gotCost, cost.Toffoli)
	}
	if strings.Count(buf.String(), "ccx q[0], q[1], anc[0];") != 2 {
		t.Fatalf("expected the ccx ancilla setup/teardown pair, got:\n%s", buf.String())
	}
}

func TestWriteSingleChargesCostSinglePerExcludedGate(t *testing.T) {
	reg := gate.NewRegistry()
	g0, _ := reg.Add(gate.Rz, []int{0}, 0.1)
	g1, _ := reg.Add(gate.Rz, []int{1}, 0.2)
	g0.SetCarrier("q[0]")
	g1.SetCarrier("q[1]")

	tbl := &bits.Table{Bits: bits.NewBitTable(1), Accounting: bits.NewAccounting(1), R: 1}
	em := &Emitter{
		Table:      tbl,
		Gates:      reg,
		Excluded:   map[int]float64{g0.ID: 0.5, g1.ID: -0.5},
		CostSingle: 7,
	}
	var buf bytes.Buffer
	em.writeSingle(&buf)
	if em.cost != 14 {
		t.Fatalf("cost = %d, want 14 (two excluded gates at 7 each)", em.cost)
	}
	out := buf.String()
	if !strings.Contains(out, "rz(0.5) q[0];") || !strings.Contains(out, "rz(-0.5) q[1];") {
		t.Fatalf("output missing expected single-gate rotations:\n%s", out)
	}
}

func TestEmitCounterCancelsSameGateOppositeSign(t *testing.T) {
	reg := gate.NewRegistry()
	g, _ := reg.Add(gate.Rz, []int{0}, 0.1)
	g.SetCarrier("q[0]")

	em := &Emitter{Gates: reg}
	inputs := []bits.Bit{bits.NewPosGate(g.ID), bits.NewNegGate(g.ID)}
	var buf bytes.Buffer
	em.emitCounter(&buf, inputs, nil, 2, "add[3]", false)

	if buf.Len() != 0 {
		t.Fatalf("a same-gate +/- pair should fully cancel and emit nothing, got:\n%s", buf.String())
	}
	if em.cost != 0 {
		t.Fatalf("cost = %d, want 0 after full cancellation", em.cost)
	}
}

func TestEmitCounterCombinesDistinctGatesIntoToffoli(t *testing.T) {
	reg := gate.NewRegistry()
	gA, _ := reg.Add(gate.Rz, []int{0}, 0.1)
	gB, _ := reg.Add(gate.Rz, []int{1}, 0.2)
	gA.SetCarrier("q[0]")
	gB.SetCarrier("q[1]")

	em := &Emitter{Gates: reg}
	inputs := []bits.Bit{bits.NewPosGate(gA.ID), bits.NewPosGate(gB.ID)}
	var buf bytes.Buffer
	em.emitCounter(&buf, inputs, nil, 2, "add[3]", false)

	if em.cost != cost.Toffoli {
		t.Fatalf("cost = %d, want %d for a 2-input, no-cancellation subset", em.cost, cost.Toffoli)
	}
	out := buf.String()
	if !strings.Contains(out, "ccx q[0], q[1], add[3];") {
		t.Fatalf("expected a ccx combining both carriers onto the target, got:\n%s", out)
	}
}
