// Package optimize implements the greedy bit-table reduction driver:
// split, counter, and single-gate-exclusion engines, the outer
// iteration loop, and final concretization into carry bits.
package optimize

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/oisee/qrotsynth/pkg/bits"
	"github.com/oisee/qrotsynth/pkg/cost"
	"github.com/oisee/qrotsynth/pkg/gate"
)

// Config holds the knobs the CLI exposes for a synthesis run.
type Config struct {
	Precision  int  // r, the fixed-point fractional bit count
	CostSingle int  // Toffoli cost charged per excluded gate; 0 selects cost.Single of the table's row count (Table.R)
	SameAngle  bool // every gate shares one angle; Booth encoding is skipped
}

// Result is the outcome of a completed synthesis run.
type Result struct {
	TotalCost int
	NAdders   int
	Excluded  map[int]float64 // gate id -> residual angle, radians, owed to a direct single-qubit rotation
	Table     *bits.Table
}

// Optimizer drives one synthesis run over a single Table.
type Optimizer struct {
	Table      *bits.Table
	Gates      *gate.Registry
	CostSingle int
	SameAngle  bool
	Excluded   map[int]float64
	Log        zerolog.Logger
}

// New builds an Optimizer ready to Run.
func New(t *bits.Table, gates *gate.Registry, cfg Config, logger zerolog.Logger) *Optimizer {
	costSingle := cfg.CostSingle
	if costSingle == 0 {
		costSingle = cost.Single(t.R)
	}
	return &Optimizer{
		Table:      t,
		Gates:      gates,
		CostSingle: costSingle,
		SameAngle:  cfg.SameAngle,
		Excluded:   map[int]float64{},
		Log:        logger,
	}
}

// Synthesize is the public, panic-free entry point: it recovers any
// internal invariant panic raised during Run or Concretize and
// reports it as a wrapped error instead, so malformed-but-structurally-
// valid inputs never crash the process.
func Synthesize(t *bits.Table, gates *gate.Registry, cfg Config, logger zerolog.Logger) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("optimize: internal invariant violation: %v", r)
		}
	}()

	o := New(t, gates, cfg, logger)
	res, err = o.Run()
	if err != nil {
		return res, err
	}
	if err := o.Concretize(); err != nil {
		return res, err
	}
	return res, nil
}

// Run executes the outer greedy loop until every row's height reaches
// zero or the counter engine leaves a peak unhandled, then charges the
// final adder pass for whatever heights remain.
func (o *Optimizer) Run() (Result, error) {
	totalCost := 0
	for _, g := range o.Gates.All() {
		if g.Axis == gate.CP {
			totalCost += cost.Toffoli
		}
	}
	if o.SameAngle {
		totalCost += o.CostSingle * o.Table.R
	}
	return o.RunFrom(totalCost)
}

// RunFrom executes the outer greedy loop starting from an already-
// accrued cost, used by cmd/qrotsynth's resume subcommand to continue
// a checkpointed run without re-charging the CP/same-angle preamble.
func (o *Optimizer) RunFrom(totalCost int) (Result, error) {
	acc := o.Table.Accounting
	t := o.Table

	for {
		peaks := acc.UpdatePeaks()
		if acc.MaxHeight == 0 {
			break
		}

		indexBound := secondHeightIndex(acc, peaks) * 2

		var remaining []int
		for _, p := range peaks {
			if !split(t, acc, p, indexBound) {
				remaining = append(remaining, p)
			}
		}
		if len(remaining) == 0 {
			continue
		}

		counterTrial := acc.Clone()
		costCounter, dealingIndex := doCounter(t, counterTrial, remaining)
		costSingleMove, excluded := doSingle(t, acc, remaining, o.CostSingle)

		if costCounter <= costSingleMove {
			totalCost += costCounter
			copyAccountingFields(acc, counterTrial)
			if dealingIndex < len(remaining) {
				totalCost -= cost.Adder(remaining[dealingIndex])
				o.Log.Debug().Int("cost", totalCost).Msg("counter engine exhausted a peak; falling through to final adder pass")
				break
			}
		} else {
			totalCost += costSingleMove
			o.applyExclusion(excluded)
		}
	}

	nAdder := 0
	for i := acc.R - 1; i >= 0; i-- {
		if acc.Height[i] > nAdder {
			totalCost += cost.Adder(i) * (acc.Height[i] - nAdder)
			nAdder = acc.Height[i]
		}
	}

	return Result{TotalCost: totalCost, NAdders: nAdder, Excluded: o.Excluded, Table: o.Table}, nil
}

// secondHeightIndex returns the highest row index whose height is at
// least the greatest height among rows not already at max_height (a
// peak row qualifies too). The driver doubles
// this to get index_bound, the split-eligibility cap for the current
// iteration.
func secondHeightIndex(acc *bits.Accounting, peaks []int) int {
	second := -1
	for i := 0; i < acc.R; i++ {
		if acc.Height[i] != acc.MaxHeight && acc.Height[i] > second {
			second = acc.Height[i]
		}
	}
	idx := peaks[0]
	for i := 0; i < acc.R; i++ {
		if acc.Height[i] >= second {
			idx = i
		}
	}
	return idx
}

// applyExclusion marks every bit of every excluded gate inactive,
// accrues its residual angle contribution, and purges the inactive
// bits from the table.
func (o *Optimizer) applyExclusion(excluded map[int]bool) {
	if len(excluded) == 0 {
		return
	}
	acc := o.Table.Accounting
	t := o.Table.Bits
	for i := 0; i < acc.R; i++ {
		n := t.Len(i)
		for k := 0; k < n; k++ {
			b := t.BitAt(i, k)
			if b.Kind == bits.Carry || !excluded[b.GateID] || !b.Active {
				continue
			}
			t.SetActive(i, k, false)
			o.Excluded[b.GateID] += float64(b.Sign()) * math.Pow(2, float64(-1-i)) * 2 * math.Pi
			acc.Height[i]--
		}
	}
	t.RemoveInactive()
}
