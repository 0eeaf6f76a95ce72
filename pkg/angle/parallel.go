package angle

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/oisee/qrotsynth/pkg/gate"
)

// parallelThreshold is the gate count below which EncodeAll runs
// sequentially — pool setup isn't worth it for a handful of gates.
const parallelThreshold = 64

// Mode selects general (Booth-encoded, multi-bit) or same-angle
// (single-LSB-bit) encoding.
type Mode int

const (
	General Mode = iota
	SameAngle
)

// EncodeAll encodes every gate's angle at precision r and mode. Each
// gate's encoding depends only on that gate's own angle, so the work
// fans out across a worker pool; results are collected into a slice
// indexed by gate id before being merged into a BitTable, so the merge
// order is deterministic regardless of which worker finishes first.
//
// In SameAngle mode, every gate must normalize to the same fraction;
// EncodeAll returns a *MismatchError otherwise.
func EncodeAll(gates []*gate.Gate, r int, mode Mode) ([]Result, error) {
	n := len(gates)
	results := make([]Result, n)

	encodeOne := func(g *gate.Gate) Result {
		if mode == SameAngle {
			return EncodeSameAngle(g.ID, g.AngleRad, r)
		}
		return EncodeGeneral(g.ID, g.AngleRad, r)
	}

	if n < parallelThreshold {
		for _, g := range gates {
			results[g.ID] = encodeOne(g)
		}
	} else {
		numWorkers := runtime.NumCPU()
		if numWorkers > n {
			numWorkers = n
		}
		ch := make(chan *gate.Gate, n)
		for _, g := range gates {
			ch <- g
		}
		close(ch)

		var wg sync.WaitGroup
		for w := 0; w < numWorkers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for g := range ch {
					results[g.ID] = encodeOne(g)
				}
			}()
		}
		wg.Wait()
	}

	if mode == SameAngle && n > 0 {
		first := results[0].Fraction
		for _, res := range results[1:] {
			if res.Fraction != first {
				return nil, &MismatchError{Expected: first, Got: res.Fraction, GateID: res.GateID}
			}
		}
	}

	return results, nil
}

// MismatchError reports an angle that disagrees with the first seen
// angle while same-angle mode is active.
type MismatchError struct {
	Expected, Got float64
	GateID        int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("gate %d: angle %.10f does not match required same-angle value %.10f", e.GateID, e.Got, e.Expected)
}
