package qasm

import (
	"strings"
	"testing"

	"github.com/oisee/qrotsynth/pkg/gate"
	"github.com/oisee/qrotsynth/pkg/qerr"
)

func TestParseAssemblyRecognizesRotationMnemonics(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[3];
rz(1.5707963267948966) q[0];
rxx(0.5) q[1],q[2];
`
	p, err := ParseAssembly(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseAssembly: %v", err)
	}
	if len(p.Headers) != 2 {
		t.Fatalf("Headers = %v, want 2 passthrough lines", p.Headers)
	}
	if p.Gates.Len() != 2 {
		t.Fatalf("Gates.Len() = %d, want 2", p.Gates.Len())
	}
	gates := p.Gates.All()
	if gates[0].Axis != gate.Rz || len(gates[0].Qubits) != 1 || gates[0].Qubits[0] != 0 {
		t.Fatalf("gate 0 = %+v, want rz q[0]", gates[0])
	}
	if gates[1].Axis != gate.Rxx || len(gates[1].Qubits) != 2 {
		t.Fatalf("gate 1 = %+v, want rxx on 2 qubits", gates[1])
	}
}

func TestParseAssemblyStripsCommentsAndBlankLines(t *testing.T) {
	src := "// a leading comment\n\nrz(0.1) q[0]; // trailing comment\n"
	p, err := ParseAssembly(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseAssembly: %v", err)
	}
	if p.Gates.Len() != 1 {
		t.Fatalf("Gates.Len() = %d, want 1", p.Gates.Len())
	}
}

func TestParseAssemblyRejectsUnknownMnemonic(t *testing.T) {
	_, err := ParseAssembly(strings.NewReader("barrier q[0];\n"))
	if err == nil {
		t.Fatal("expected a parse error for an unsupported mnemonic")
	}
	if qerr.KindOf(err) != qerr.ErrParse {
		t.Fatalf("KindOf(err) = %v, want ErrParse", qerr.KindOf(err))
	}
}

func TestParseAssemblyRejectsMissingAngle(t *testing.T) {
	_, err := ParseAssembly(strings.NewReader("rz q[0];\n"))
	if err == nil {
		t.Fatal("expected a parse error for a missing angle operand")
	}
}

func TestParseAssemblyRejectsMissingQubitOperand(t *testing.T) {
	_, err := ParseAssembly(strings.NewReader("rz(0.1);\n"))
	if err == nil {
		t.Fatal("expected a parse error for a missing qubit operand")
	}
}

func TestParseAssemblyRejectsWrongQubitArity(t *testing.T) {
	_, err := ParseAssembly(strings.NewReader("rzz(0.1) q[0];\n"))
	if err == nil {
		t.Fatal("expected a parse error: rzz needs two qubit operands")
	}
}

// S6: an rx and an rz on the same qubit conflict — caught by gate.Registry.Add,
// surfaced through ParseAssembly as a wrapped semantic error.
func TestParseAssemblyRejectsAxisViolationAcrossLines(t *testing.T) {
	src := "rx(0.1) q[0];\nrz(0.2) q[0];\n"
	_, err := ParseAssembly(strings.NewReader(src))
	if err == nil {
		t.Fatal("expected an axis-violation error mixing rx and rz on q[0]")
	}
	if qerr.KindOf(err) != qerr.ErrSemantic {
		t.Fatalf("KindOf(err) = %v, want ErrSemantic", qerr.KindOf(err))
	}
}

func TestParseBitListBuildsTableDirectly(t *testing.T) {
	src := "1 0 -1 0\n0 1 0 0\n"
	gates, tbl, err := ParseBitList(strings.NewReader(src), 4, false)
	if err != nil {
		t.Fatalf("ParseBitList: %v", err)
	}
	if gates.Len() != 2 {
		t.Fatalf("gates.Len() = %d, want 2", gates.Len())
	}
	if tbl.Bits.Len(0) != 1 || tbl.Bits.Len(1) != 1 || tbl.Bits.Len(2) != 1 {
		t.Fatalf("expected one bit in rows 0,1,2: lens=%d,%d,%d", tbl.Bits.Len(0), tbl.Bits.Len(1), tbl.Bits.Len(2))
	}
	if tbl.Bits.BitAt(2, 0).GateID != gates.All()[0].ID {
		t.Fatalf("row 2's bit should belong to the first gate")
	}
}

func TestParseBitListRejectsInvalidToken(t *testing.T) {
	_, _, err := ParseBitList(strings.NewReader("1 2 0\n"), 4, false)
	if err == nil {
		t.Fatal("expected a parse error for an invalid bit token")
	}
}

func TestParseBitListSameAngleKeepsOnlyLSB(t *testing.T) {
	gates, tbl, err := ParseBitList(strings.NewReader("1 0 1 0\n"), 4, true)
	if err != nil {
		t.Fatalf("ParseBitList: %v", err)
	}
	if gates.Len() != 1 {
		t.Fatalf("gates.Len() = %d, want 1", gates.Len())
	}
	// same-angle mode places exactly one bit, at the line's last set index (lsb=2),
	// then truncates the table to lsb+1 rows.
	if tbl.R != 3 {
		t.Fatalf("R = %d, want 3 (truncated to lsb+1)", tbl.R)
	}
	if tbl.Bits.Len(2) != 1 {
		t.Fatalf("row 2 should hold the single same-angle bit, got %d", tbl.Bits.Len(2))
	}
}
