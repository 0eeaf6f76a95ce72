package report

import (
	"encoding/gob"
	"os"

	"github.com/oisee/qrotsynth/pkg/bits"
	"github.com/oisee/qrotsynth/pkg/gate"
)

// GateSnapshot is the gob-friendly projection of a gate.Gate (which
// itself is not directly encodable: its carrier fields are private and
// only meaningful mid-emission, long after a checkpoint would resume).
type GateSnapshot struct {
	ID       int
	Axis     gate.Axis
	Qubits   []int
	AngleRad float64
}

// Checkpoint holds everything needed to resume a synthesis run:
// the gate list, the in-progress bit table and accounting, the
// exclusions applied so far, and the running cost total.
type Checkpoint struct {
	Gates      []GateSnapshot
	Rows       [][]bits.Bit
	Accounting bits.Accounting
	Excluded   map[int]float64
	TotalCost  int
	CostSingle int
	SameAngle  bool
	LastAngle  float64
}

// SaveCheckpoint writes resumable synthesis state to path.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(ckpt)
}

// LoadCheckpoint reads resumable synthesis state from path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}

// Table rebuilds a *bits.Table from the checkpoint's raw rows and
// accounting vectors.
func (c *Checkpoint) Table() *bits.Table {
	acc := c.Accounting
	return &bits.Table{
		Bits:       bits.NewBitTableFromRows(c.Rows),
		Accounting: &acc,
		R:          c.Accounting.R,
	}
}

// Registry rebuilds a *gate.Registry from the checkpoint's gate
// snapshots, preserving ids and axis-class bookkeeping.
func (c *Checkpoint) Registry() (*gate.Registry, error) {
	reg := gate.NewRegistry()
	for _, gs := range c.Gates {
		if _, err := reg.Add(gs.Axis, gs.Qubits, gs.AngleRad); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
