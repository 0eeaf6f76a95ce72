// Package bits implements the bit table: the tagged-variant Bit type,
// the mutable BitTable container, and the Accounting view the
// optimizer reasons about between iterations.
package bits

// Kind distinguishes the three Bit variants.
type Kind int

const (
	PosGate Kind = iota // +2^-(i+1), references one gate by id
	NegGate              // -2^-(i+1), references one gate by id
	Carry                // 2^p-weighted output bit of a population counter
)

// Bit is a tagged-variant value. For PosGate/NegGate, GateID and
// Active are meaningful; Power and Inputs are zero. For Carry, Power
// and Inputs are meaningful; GateID/Active are zero/unused.
//
// A gate-bit never holds a pointer to its gate — only its stable
// integer id — so the gate table can stay a flat, independently owned
// slice.
type Bit struct {
	Kind   Kind
	GateID int  // valid when Kind != Carry
	Active bool // valid when Kind != Carry; false means "erase at next sweep"

	Power  int   // valid when Kind == Carry: bit's position within the counter's output
	Inputs []Bit // valid when Kind == Carry: the counter's input gate-bits, owned by value
}

// NewPosGate creates an active positive gate-bit for gateID.
func NewPosGate(gateID int) Bit { return Bit{Kind: PosGate, GateID: gateID, Active: true} }

// NewNegGate creates an active negative gate-bit for gateID.
func NewNegGate(gateID int) Bit { return Bit{Kind: NegGate, GateID: gateID, Active: true} }

// NewCarry creates a carry bit of the given power with the given input
// gate-bits (copied by value).
func NewCarry(power int, inputs []Bit) Bit {
	cp := make([]Bit, len(inputs))
	copy(cp, inputs)
	return Bit{Kind: Carry, Power: power, Inputs: cp}
}

// Sign returns +1 for a positive gate-bit, -1 for a negative gate-bit.
// Panics for carry bits, which have no single sign.
func (b Bit) Sign() int {
	switch b.Kind {
	case PosGate:
		return 1
	case NegGate:
		return -1
	default:
		panic("bits: Sign called on a carry bit")
	}
}

// TypeChr returns a one-character glyph for diagnostic table dumps,
// mirroring the original's printInfo glyph-per-bit rendering.
func (b Bit) TypeChr() byte {
	switch b.Kind {
	case PosGate:
		return '+'
	case NegGate:
		return '-'
	default:
		return 'C'
	}
}
