package qasm

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/oisee/qrotsynth/pkg/bits"
	"github.com/oisee/qrotsynth/pkg/cost"
	"github.com/oisee/qrotsynth/pkg/gate"
)

// Emitter writes a synthesized Table back out as OpenQASM, following
// io.cpp's exportQasm* family step for step: Fourier-state prep (same-
// angle mode only), x/y-to-z basis rotation, ancilla setup for two-
// qubit gates, the ripple-adder passes (with population-counter
// subtrees expanded combinatorially), ancilla/basis teardown, the
// excluded single-gate rotations, and last the inverse Fourier-state
// prep (same-angle mode only).
type Emitter struct {
	Table      *bits.Table
	Gates      *gate.Registry
	Excluded   map[int]float64
	SameAngle  bool
	LastAngle  float64 // normalized fraction of the shared angle, same-angle mode only
	CostSingle int     // Toffoli cost charged per independent single-gate rotation

	Headers []string

	cost int
}

// Emit writes the full program to w and returns the accumulated
// T-count — the synthesis run's reported final cost.
func (e *Emitter) Emit(w io.Writer) (int, error) {
	e.cost = 0
	nAncilla := 0
	for _, g := range e.Gates.All() {
		if g.Axis.IsTwoQubit() {
			nAncilla++
		}
	}

	for _, h := range e.Headers {
		fmt.Fprintln(w, h)
	}
	fmt.Fprintf(w, "qreg anc[%d];\n", nAncilla)
	fmt.Fprintf(w, "qreg add[%d];\n", e.Table.R+1)
	fmt.Fprintf(w, "qreg frs[%d];\n", e.Table.R)
	fmt.Fprintln(w)

	if e.SameAngle {
		e.fourierTrans(w, false)
	}
	e.rotTypeTrans(w, false)
	e.setAnc(w, false)
	e.writeAdders(w)
	e.setAnc(w, true)
	e.rotTypeTrans(w, true)
	e.writeSingle(w)
	if e.SameAngle {
		e.fourierTrans(w, true)
	}

	return e.cost, nil
}

// fourierTrans implements exportQasmFourierTrans: a ladder of phase
// rotations preparing (or unpreparing) the Fourier-basis accumulator
// used to realize the shared angle under same-angle mode.
func (e *Emitter) fourierTrans(w io.Writer, reverted bool) {
	c := 1 - math.Floor(e.LastAngle*math.Pow(2, float64(e.Table.R)))
	for i := 0; i < e.Table.R; i++ {
		angle := math.Pi * c
		if reverted {
			fmt.Fprintf(w, "p(%v) frs[%d];\n", -angle, i)
		} else {
			fmt.Fprintf(w, "p(%v) frs[%d];\n", angle, i)
			e.costSingle()
		}
		c /= 2
	}
}

// rotTypeTrans implements exportQasmRotTypeTrans: basis-change gates
// taking x/y-axis rotations into the z-axis frame the adder passes
// operate in, and back.
func (e *Emitter) rotTypeTrans(w io.Writer, reverted bool) {
	for _, q := range sortedQubits(e.qubitsByAxisClass(classX)) {
		fmt.Fprintf(w, "h q[%d];\n", q)
	}
	for _, q := range sortedQubits(e.qubitsByAxisClass(classY)) {
		if reverted {
			fmt.Fprintf(w, "h q[%d];\n", q)
			fmt.Fprintf(w, "s q[%d];\n", q)
		} else {
			fmt.Fprintf(w, "sdg q[%d];\n", q)
			fmt.Fprintf(w, "h q[%d];\n", q)
		}
	}
}

type axisQubitClass int

const (
	classX axisQubitClass = iota
	classY
)

func (e *Emitter) qubitsByAxisClass(c axisQubitClass) map[int]bool {
	out := map[int]bool{}
	for _, g := range e.Gates.All() {
		var want bool
		switch g.Axis {
		case gate.Rx, gate.Rxx:
			want = c == classX
		case gate.Ry, gate.Ryy:
			want = c == classY
		}
		if want {
			for _, q := range g.Qubits {
				out[q] = true
			}
		}
	}
	return out
}

func sortedQubits(set map[int]bool) []int {
	qs := make([]int, 0, len(set))
	for q := range set {
		qs = append(qs, q)
	}
	sort.Ints(qs)
	return qs
}

// setAnc implements exportQasmSetAnc: two-qubit gates are represented
// downstream by a single ancilla wire, computed here via CNOT (for
// rxx/ryy/rzz, a parity ancilla) or Toffoli (for cp, a genuine AND).
// Assigns each gate's carrier wire name on the forward pass.
func (e *Emitter) setAnc(w io.Writer, reverted bool) {
	anc := 0
	for _, g := range e.Gates.All() {
		switch {
		case g.Axis == gate.Rxx || g.Axis == gate.Ryy || g.Axis == gate.Rzz:
			fmt.Fprintf(w, "cx q[%d], anc[%d];\n", g.Qubits[0], anc)
			fmt.Fprintf(w, "cx q[%d], anc[%d];\n", g.Qubits[1], anc)
			if !reverted {
				g.SetCarrier(fmt.Sprintf("anc[%d]", anc))
			}
			anc++
		case g.Axis == gate.CP:
			fmt.Fprintf(w, "ccx q[%d], q[%d], anc[%d];\n", g.Qubits[0], g.Qubits[1], anc)
			if !reverted {
				e.cost += cost.Toffoli
				g.SetCarrier(fmt.Sprintf("anc[%d]", anc))
			}
			anc++
		default:
			if !reverted {
				g.SetCarrier(fmt.Sprintf("q[%d]", g.Qubit0()))
			}
		}
	}
}

// setAdderBits implements exportQasmSetAdderBits: for the ith_adder-th
// bit of every row (rows with fewer than ith_adder+1 residual bits
// contribute nothing), load the running accumulator add[i] from the
// gate/carry bit stored there. Returns the deepest row touched, or -1
// if ith_adder exceeds every row's remaining bits.
func (e *Emitter) setAdderBits(w io.Writer, ithAdder int, reverted bool) int {
	lastBit := -1
	for i := 0; i < e.Table.R; i++ {
		if e.Table.Bits.Len(i) <= ithAdder {
			continue
		}
		lastBit = i
		b := e.Table.Bits.BitAt(i, ithAdder)
		switch b.Kind {
		case bits.PosGate:
			fmt.Fprintf(w, "cx %s, add[%d];\n", e.Gates.Get(b.GateID).Carrier(), i)
		case bits.NegGate:
			fmt.Fprintf(w, "x add[%d];\n", i)
			fmt.Fprintf(w, "cx %s, add[%d];\n", e.Gates.Get(b.GateID).Carrier(), i)
		case bits.Carry:
			target := fmt.Sprintf("add[%d]", i)
			k := 1 << uint(b.Power)
			e.emitCounter(w, b.Inputs, nil, k, target, reverted)
		}
	}
	return lastBit
}

// emitCounter implements exportCounter: a combinatorial enumeration of
// every k-subset of the counter's input bits, each subset contributing
// one multi-controlled Toffoli onto target, after positive/negative
// same-gate pairs within the subset cancel (a carry_in bit and its
// logical negation, from the same original gate, never both fire).
func (e *Emitter) emitCounter(w io.Writer, carryIns []bits.Bit, selected []int, k int, target string, reverted bool) {
	if len(selected) == k {
		pos, neg := map[string]bool{}, map[string]bool{}
		for _, idx := range selected {
			b := carryIns[idx]
			name := e.Gates.Get(b.GateID).Carrier()
			if b.Kind == bits.PosGate {
				pos[name] = true
			} else {
				neg[name] = true
			}
		}
		excluded := map[string]bool{}
		for s := range pos {
			if neg[s] {
				excluded[s] = true
			}
		}
		n := len(pos) + len(neg) - 2*len(excluded)
		if n == 0 {
			return
		}

		negNames := sortedStrings(neg, excluded)
		for _, s := range negNames {
			fmt.Fprintf(w, "x %s;\n", s)
		}

		switch {
		case n == 1:
			fmt.Fprint(w, "cx ")
		case n == 2:
			fmt.Fprint(w, "ccx ")
		default:
			fmt.Fprint(w, "mcx ")
		}
		if !reverted && n > 1 {
			e.cost += cost.Toffoli
		}

		for _, s := range sortedStrings(pos, nil) {
			fmt.Fprintf(w, "%s, ", s)
		}
		for _, s := range negNames {
			fmt.Fprintf(w, "%s, ", s)
		}
		fmt.Fprintf(w, "%s;\n", target)

		for _, s := range negNames {
			fmt.Fprintf(w, "x %s;\n", s)
		}
		return
	}

	start := 0
	if len(selected) > 0 {
		start = selected[len(selected)-1] + 1
	}
	for i := start; i < len(carryIns); i++ {
		e.emitCounter(w, carryIns, append(selected, i), k, target, reverted)
	}
}

func sortedStrings(set map[string]bool, exclude map[string]bool) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		if exclude[s] {
			continue
		}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// writeAdders implements exportQasmWriteAdder: repeatedly drains one
// "layer" of residual bits (ith_adder) into a fresh ripple-carry adder
// (MAJ then UMS passes against the frs Fourier-basis register), until
// no row has a deeper layer left.
func (e *Emitter) writeAdders(w io.Writer) {
	for ithAdder := 0; ; ithAdder++ {
		lastBit := e.setAdderBits(w, ithAdder, false)
		if lastBit == -1 {
			break
		}

		for i := lastBit; i > 0; i-- { // MAJ
			fmt.Fprintf(w, "cx add[%d], frs[%d];\n", i, i)
			fmt.Fprintf(w, "cx add[%d], add[%d];\n", i, i+1)
			fmt.Fprintf(w, "ccx add[%d], frs[%d], add[%d]; \n", i+1, i, i)
			e.cost += cost.Toffoli
		}
		fmt.Fprintf(w, "cx add[0], frs[0];\n")
		fmt.Fprintf(w, "cx add[1], frs[0];\n")
		for i := 1; i <= lastBit; i++ { // UMS
			fmt.Fprintf(w, "ccx add[%d], frs[%d], add[%d]; \n", i+1, i, i)
			fmt.Fprintf(w, "cx add[%d], add[%d];\n", i, i+1)
			fmt.Fprintf(w, "cx add[%d], frs[%d];\n", i+1, i)
		}

		e.setAdderBits(w, ithAdder, true)
	}
}

// writeSingle implements exportQasmWriteSingle: every excluded gate is
// realized directly as its own rz rotation, at CostSingle each.
func (e *Emitter) writeSingle(w io.Writer) {
	ids := make([]int, 0, len(e.Excluded))
	for id := range e.Excluded {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "rz(%v) %s;\n", e.Excluded[id], e.Gates.Get(id).Carrier())
		e.costSingle()
	}
}

func (e *Emitter) costSingle() {
	e.cost += e.CostSingle
}
