package optimize

import (
	"fmt"
	stdbits "math/bits"

	"github.com/oisee/qrotsynth/pkg/bits"
)

// Concretize resolves every remaining accounting-only obligation into
// real bits: first the "any gate" split placeholders, then the
// population counters into concrete carry-bit trees. After it
// returns, |BitTable.Row(i)| == Height[i] for every row, and
// NSplitFrom, NSplitTo, NCarry, NCounter, and CounterSizes are all
// zero/empty.
func (o *Optimizer) Concretize() error {
	if err := o.resolveSplits(); err != nil {
		return err
	}
	o.resolveCounters()
	return nil
}

// resolveSplits discharges every pending n_split_from unit by popping
// the last bit of its row and migrating it — via the same flip/append
// procedure the concrete split engine uses — to the nearest lower row
// still owed an n_split_to credit.
func (o *Optimizer) resolveSplits() error {
	acc := o.Table.Accounting
	t := o.Table

	for i := 0; i < acc.R; i++ {
		for acc.NSplitFrom[i] > 0 {
			to := -1
			for j := i + 1; j < acc.R; j++ {
				if acc.NSplitTo[j] > 0 {
					to = j
					break
				}
			}
			if to < 0 {
				return fmt.Errorf("concretize: no pending split-to destination for row %d", i)
			}

			b := t.Bits.PopBack(i)
			placeSplitBits(t, acc, i, to, b.GateID, b.Sign())

			acc.NSplitFrom[i]--
			acc.NSplitTo[to]--
		}
	}
	return nil
}

// resolveCounters compresses every pending population counter into a
// concrete carry-bit tree, processing rows from the least significant
// (r-1) up to the most significant (0) so that by the time a row's own
// counters are processed, every carry a higher-index row owed it has
// already landed.
func (o *Optimizer) resolveCounters() {
	acc := o.Table.Accounting
	t := o.Table

	for i := acc.R - 1; i >= 0; i-- {
		for len(acc.CounterSizes[i]) > 0 {
			s := acc.CounterSizes[i][0]
			acc.CounterSizes[i] = acc.CounterSizes[i][1:]
			acc.NCounter[i] -= s

			inputs := make([]bits.Bit, 0, s)
			for k := 0; k < s; k++ {
				inputs = append(inputs, t.Bits.PopFront(i))
			}
			t.Bits.Append(i, bits.NewCarry(0, inputs))

			maxPow := stdbits.Len(uint(s)) - 1
			for k := 1; k <= maxPow; k++ {
				if i-k < 0 {
					break
				}
				t.Bits.Append(i-k, bits.NewCarry(k, inputs))
				acc.NCarry[i-k]--
			}
		}
	}
}
