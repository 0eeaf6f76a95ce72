package report

import (
	"path/filepath"
	"testing"

	"github.com/oisee/qrotsynth/pkg/bits"
	"github.com/oisee/qrotsynth/pkg/gate"
)

func TestSaveLoadCheckpointRoundTrip(t *testing.T) {
	acc := *bits.NewAccounting(2)
	acc.Height[0] = 1
	ckpt := &Checkpoint{
		Gates: []GateSnapshot{
			{ID: 0, Axis: gate.Rz, Qubits: []int{0}, AngleRad: 0.5},
		},
		Rows:       [][]bits.Bit{{bits.NewPosGate(0)}, {}},
		Accounting: acc,
		Excluded:   map[int]float64{},
		TotalCost:  7,
		CostSingle: 1000,
		SameAngle:  false,
		LastAngle:  0.25,
	}

	path := filepath.Join(t.TempDir(), "ckpt.gob")
	if err := SaveCheckpoint(path, ckpt); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	got, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if got.TotalCost != 7 || got.CostSingle != 1000 || got.LastAngle != 0.25 {
		t.Fatalf("scalar fields did not round-trip: %+v", got)
	}
	if len(got.Gates) != 1 || got.Gates[0].Axis != gate.Rz {
		t.Fatalf("gate snapshots did not round-trip: %+v", got.Gates)
	}
	if len(got.Rows) != 2 || len(got.Rows[0]) != 1 || got.Rows[0][0].GateID != 0 {
		t.Fatalf("rows did not round-trip: %+v", got.Rows)
	}
	if got.Accounting.Height[0] != 1 {
		t.Fatalf("accounting did not round-trip: %+v", got.Accounting)
	}
}

func TestCheckpointTableRebuildsFromRows(t *testing.T) {
	acc := *bits.NewAccounting(2)
	acc.Height[0] = 2
	ckpt := &Checkpoint{
		Rows:       [][]bits.Bit{{bits.NewPosGate(1), bits.NewNegGate(2)}, {}},
		Accounting: acc,
	}
	tbl := ckpt.Table()
	if tbl.R != 2 {
		t.Fatalf("R = %d, want 2", tbl.R)
	}
	if tbl.Bits.Len(0) != 2 {
		t.Fatalf("row 0 should have 2 bits, got %d", tbl.Bits.Len(0))
	}
	if tbl.Accounting.Height[0] != 2 {
		t.Fatalf("Accounting should be the checkpoint's, got Height=%v", tbl.Accounting.Height)
	}
}

func TestCheckpointRegistryPreservesIDsAndAxisViolations(t *testing.T) {
	ckpt := &Checkpoint{
		Gates: []GateSnapshot{
			{ID: 0, Axis: gate.Rz, Qubits: []int{0}, AngleRad: 0.1},
			{ID: 1, Axis: gate.Rx, Qubits: []int{1}, AngleRad: 0.2},
		},
	}
	reg, err := ckpt.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}
	if reg.Get(0).ID != 0 || reg.Get(1).ID != 1 {
		t.Fatalf("ids were not preserved in order: %+v", reg.All())
	}
	if _, err := reg.Add(gate.Ry, []int{1}, 0.3); err == nil {
		t.Fatal("rebuilt registry lost qubit 1's rx axis class: an ry on it should be a violation")
	}
}

func TestCheckpointRegistryPropagatesAxisViolation(t *testing.T) {
	ckpt := &Checkpoint{
		Gates: []GateSnapshot{
			{ID: 0, Axis: gate.Rx, Qubits: []int{0}, AngleRad: 0.1},
			{ID: 1, Axis: gate.Rz, Qubits: []int{0}, AngleRad: 0.2},
		},
	}
	if _, err := ckpt.Registry(); err == nil {
		t.Fatal("expected an axis-violation error replaying conflicting gates on qubit 0")
	}
}
