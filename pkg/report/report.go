// Package report holds the synthesis report and gob-based checkpoint,
// serializing the outcome of a synthesis run and resumable search state
// to disk.
package report

import (
	"encoding/json"
	"io"
	"sort"
)

// ExcludedGate is one single-gate-rotation exclusion surviving into the
// final circuit.
type ExcludedGate struct {
	GateID       int     `json:"gate_id"`
	ResidualRads float64 `json:"residual_rads"`
}

// IterationCost records the running T-count after one driver iteration,
// for diagnosing where cost was spent.
type IterationCost struct {
	Iteration int `json:"iteration"`
	Cost      int `json:"cost"`
}

// Report is the JSON-serializable outcome of one synthesis run.
type Report struct {
	TotalCost      int             `json:"total_cost"`
	NAdders        int             `json:"n_adders"`
	Precision      int             `json:"precision"`
	SameAngle      bool            `json:"same_angle"`
	ExcludedGates  []ExcludedGate  `json:"excluded_gates"`
	IterationCosts []IterationCost `json:"iteration_costs,omitempty"`
}

// NewReport builds a Report from a completed run's excluded-gate map,
// sorted by gate id for deterministic output.
func NewReport(totalCost, nAdders, precision int, sameAngle bool, excluded map[int]float64) *Report {
	ids := make([]int, 0, len(excluded))
	for id := range excluded {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	r := &Report{
		TotalCost: totalCost,
		NAdders:   nAdders,
		Precision: precision,
		SameAngle: sameAngle,
	}
	for _, id := range ids {
		r.ExcludedGates = append(r.ExcludedGates, ExcludedGate{GateID: id, ResidualRads: excluded[id]})
	}
	return r
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ReadJSON reads a report previously written by WriteJSON.
func ReadJSON(r io.Reader) (*Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
