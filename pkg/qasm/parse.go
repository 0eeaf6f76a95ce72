// Package qasm implements the OpenQASM-flavored input parser and the
// optimized-circuit emitter, grounded on
// original_source/src/io.cpp's importQasm/importBitList/exportQasm*
// family.
package qasm

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/oisee/qrotsynth/pkg/bits"
	"github.com/oisee/qrotsynth/pkg/gate"
	"github.com/oisee/qrotsynth/pkg/qerr"
)

var qubitRE = regexp.MustCompile(`\[(\d+)\]`)

var axisWords = map[string]gate.Axis{
	"rx": gate.Rx, "ry": gate.Ry, "rz": gate.Rz,
	"rxx": gate.Rxx, "ryy": gate.Ryy, "rzz": gate.Rzz,
	"p": gate.P, "cp": gate.CP,
}

// Parsed bundles a parsed program's gate registry and passthrough
// header lines (qreg/creg/OPENQASM/include), which the emitter writes
// back verbatim ahead of the synthesized circuit.
type Parsed struct {
	Gates   *gate.Registry
	Headers []string
}

// ParseAssembly reads one rotation-gate program line by line, in the
// style of io.cpp's importQasm: strip comments, flatten parens to
// spaces, skip blank lines, recognize rotation-gate mnemonics and
// qreg/creg/OPENQASM/include passthrough lines, and reject anything
// else as a parse error.
func ParseAssembly(r io.Reader) (*Parsed, error) {
	p := &Parsed{Gates: gate.NewRegistry()}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.NewReplacer("(", " ", ")", " ").Replace(line)
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		word := fields[0]

		if word == "qreg" || word == "creg" || word == "OPENQASM" || word == "include" {
			p.Headers = append(p.Headers, sc.Text())
			continue
		}

		axis, ok := axisWords[word]
		if !ok {
			return nil, qerr.Parsef(qerr.ErrParse, "line %d: unsupported syntax %q", lineNo, word)
		}
		if len(fields) < 2 {
			return nil, qerr.Parsef(qerr.ErrParse, "line %d: %s missing angle operand", lineNo, word)
		}
		angle, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, qerr.Parsef(qerr.ErrParse, "line %d: invalid angle %q: %v", lineNo, fields[1], err)
		}

		matches := qubitRE.FindAllStringSubmatch(line, -1)
		if len(matches) == 0 {
			return nil, qerr.Parsef(qerr.ErrParse, "line %d: %s has no qubit operand", lineNo, word)
		}
		qubits := make([]int, 0, len(matches))
		for _, m := range matches {
			q, _ := strconv.Atoi(m[1])
			qubits = append(qubits, q)
		}
		if axis.IsTwoQubit() != (len(qubits) == 2) {
			return nil, qerr.Parsef(qerr.ErrParse, "line %d: %s expects %d qubit operand(s), got %d", lineNo, word, qubitCountFor(axis), len(qubits))
		}

		if _, err := p.Gates.Add(axis, qubits, angle); err != nil {
			return nil, qerr.Wrap(qerr.ErrSemantic, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, qerr.Wrap(qerr.ErrIO, err)
	}
	return p, nil
}

func qubitCountFor(a gate.Axis) int {
	if a.IsTwoQubit() {
		return 2
	}
	return 1
}

// ParseBitList reads the line-oriented debug format of io.cpp's
// importBitList: one line per gate, each a space-separated sequence of
// "1"/"-1"/"0" tokens giving that gate's pre-encoded signed bit string
// directly, bypassing angle encoding entirely. Every gate is recorded
// as an Rz with angle 0 on its own qubit, q[gate id] (diagnostic
// placeholder only — the table built here already carries the real
// synthesis input).
func ParseBitList(r io.Reader, precision int, sameAngle bool) (*gate.Registry, *bits.Table, error) {
	gates := gate.NewRegistry()
	bt := bits.NewBitTable(precision)
	acc := bits.NewAccounting(precision)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		g, err := gates.Add(gate.Rz, []int{gates.Len()}, 0)
		if err != nil {
			return nil, nil, qerr.Wrap(qerr.ErrSemantic, err)
		}

		tokens := strings.Fields(line)
		lsb := 0
		for i, tok := range tokens {
			if i >= precision {
				break
			}
			switch tok {
			case "1":
				if !sameAngle {
					bt.Append(i, bits.NewPosGate(g.ID))
					acc.Height[i]++
				}
				lsb = i
			case "-1":
				if !sameAngle {
					bt.Append(i, bits.NewNegGate(g.ID))
					acc.Height[i]++
				}
				lsb = i
			case "0":
			default:
				return nil, nil, qerr.Parsef(qerr.ErrParse, "line %d: invalid bit token %q", lineNo, tok)
			}
		}
		if sameAngle {
			bt.Append(lsb, bits.NewPosGate(g.ID))
			acc.Height[lsb]++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, qerr.Wrap(qerr.ErrIO, err)
	}

	tbl := &bits.Table{Bits: bt, Accounting: acc, R: precision}
	if sameAngle {
		truncateBitListTable(tbl)
	}
	return gates, tbl, nil
}

// truncateBitListTable mirrors importBitList's post-ingestion same-angle
// row shrink (identical in spirit to bits.FromEncoded's, duplicated here
// since ParseBitList builds its table directly rather than through
// angle.Result).
func truncateBitListTable(t *bits.Table) {
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
