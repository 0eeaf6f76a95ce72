// Package gate holds the rotation-gate value type and the axis-class
// bookkeeping that enforces the input's one-axis-per-qubit rule.
package gate

import "fmt"

// Axis identifies a rotation gate's axis/kind.
type Axis int

const (
	Rx Axis = iota
	Ry
	Rz
	Rxx
	Ryy
	Rzz
	P
	CP
)

func (a Axis) String() string {
	switch a {
	case Rx:
		return "rx"
	case Ry:
		return "ry"
	case Rz:
		return "rz"
	case Rxx:
		return "rxx"
	case Ryy:
		return "ryy"
	case Rzz:
		return "rzz"
	case P:
		return "p"
	case CP:
		return "cp"
	default:
		return "?"
	}
}

// IsTwoQubit reports whether the axis acts on two qubits (rxx/ryy/rzz/cp).
func (a Axis) IsTwoQubit() bool {
	switch a {
	case Rxx, Ryy, Rzz, CP:
		return true
	}
	return false
}

// class groups axes into the three mutually-exclusive qubit classes.
type class int

const (
	classX class = iota
	classY
	classZ
)

func axisClass(a Axis) class {
	switch a {
	case Rx, Rxx:
		return classX
	case Ry, Ryy:
		return classY
	default: // Rz, Rzz, P, CP
		return classZ
	}
}

// Gate is an immutable rotation gate record. Id is the stable key used
// throughout the optimizer; it is dense and assigned in input order.
type Gate struct {
	ID         int
	Axis       Axis
	Qubits     []int
	AngleRad   float64 // original input angle, radians (diagnostic only)
	carrierSet bool
	carrier    string // symbolic wire name, assigned during emission prep
}

// Carrier returns the symbolic carrier name assigned by SetCarrier.
func (g *Gate) Carrier() string {
	if !g.carrierSet {
		panic(fmt.Sprintf("gate %d: carrier requested before assignment", g.ID))
	}
	return g.carrier
}

// SetCarrier assigns the symbolic wire name representing this gate for
// downstream control lines. Called once during emission preparation.
func (g *Gate) SetCarrier(name string) {
	g.carrier = name
	g.carrierSet = true
}

// Qubit0 returns the first (or only) qubit a gate acts on.
func (g *Gate) Qubit0() int { return g.Qubits[0] }

// Registry owns the flat, id-indexed gate table and the per-axis-class
// qubit sets used to detect the "one axis class per qubit" violation:
// a qubit that has already been rotated about one axis class can't
// also be rotated about a conflicting one.
type Registry struct {
	gates   []*Gate
	classOf map[int]class
}

// NewRegistry creates an empty gate registry.
func NewRegistry() *Registry {
	return &Registry{classOf: make(map[int]class)}
}

// Add creates and registers a new gate with the next dense id. It
// returns a *ViolationError if any of the gate's qubits have already
// been used by a gate of a different axis class.
func (r *Registry) Add(axis Axis, qubits []int, angleRad float64) (*Gate, error) {
	c := axisClass(axis)
	for _, q := range qubits {
		if existing, ok := r.classOf[q]; ok && existing != c {
			return nil, &ViolationError{Qubit: q, NewAxis: axis}
		}
	}
	g := &Gate{ID: len(r.gates), Axis: axis, Qubits: append([]int(nil), qubits...), AngleRad: angleRad}
	r.gates = append(r.gates, g)
	for _, q := range qubits {
		r.classOf[q] = c
	}
	return g, nil
}

// Len returns the number of registered gates.
func (r *Registry) Len() int { return len(r.gates) }

// Get returns the gate with the given id.
func (r *Registry) Get(id int) *Gate { return r.gates[id] }

// All returns every registered gate, in id order.
func (r *Registry) All() []*Gate { return r.gates }

// ViolationError reports a qubit used by gates of more than one axis class.
type ViolationError struct {
	Qubit   int
	NewAxis Axis
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("qubit %d appears in gates with different rotation-axis type (conflicting gate: %s)", e.Qubit, e.NewAxis)
}
