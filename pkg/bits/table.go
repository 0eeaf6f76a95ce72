package bits

// BitTable is the pure container: r rows, each an ordered sequence of
// Bits. Order within a row is not semantically meaningful, but is kept
// deterministic (append order) so output is reproducible.
type BitTable struct {
	rows [][]Bit
}

// NewBitTable creates an empty table with r rows.
func NewBitTable(r int) *BitTable {
	return &BitTable{rows: make([][]Bit, r)}
}

// NewBitTableFromRows wraps an existing row slice, taking ownership of
// it (used by report.Checkpoint.Table to rehydrate a saved table).
func NewBitTableFromRows(rows [][]Bit) *BitTable {
	return &BitTable{rows: rows}
}

// Rows returns the table's rows, exposed for gob-encoding a checkpoint.
// Must not be mutated by callers outside this package.
func (t *BitTable) Rows() [][]Bit { return t.rows }

// R returns the number of rows.
func (t *BitTable) R() int { return len(t.rows) }

// Row returns the bits of row i, in order. The returned slice must not
// be mutated directly by callers outside this package.
func (t *BitTable) Row(i int) []Bit { return t.rows[i] }

// Len returns the number of bits currently in row i.
func (t *BitTable) Len(i int) int { return len(t.rows[i]) }

// Append adds a bit to the end of row i.
func (t *BitTable) Append(i int, b Bit) { t.rows[i] = append(t.rows[i], b) }

// EraseAt removes the k-th bit of row i, preserving the order of the
// remaining bits.
func (t *BitTable) EraseAt(i, k int) {
	row := t.rows[i]
	t.rows[i] = append(row[:k], row[k+1:]...)
}

// SetKind flips the k-th bit of row i between PosGate and NegGate
// in place (used by the split engine's opposite-sign cancellation).
// No-op for carry bits.
func (t *BitTable) SetKind(i, k int, kind Kind) {
	if t.rows[i][k].Kind == Carry {
		return
	}
	t.rows[i][k].Kind = kind
}

// SetActive sets the active flag of the k-th bit of row i. No-op for
// carry bits.
func (t *BitTable) SetActive(i, k int, active bool) {
	if t.rows[i][k].Kind == Carry {
		return
	}
	t.rows[i][k].Active = active
}

// BitAt returns the k-th bit of row i.
func (t *BitTable) BitAt(i, k int) Bit { return t.rows[i][k] }

// PopFront removes and returns the first bit of row i.
func (t *BitTable) PopFront(i int) Bit {
	b := t.rows[i][0]
	t.rows[i] = t.rows[i][1:]
	return b
}

// PopBack removes and returns the last bit of row i.
func (t *BitTable) PopBack(i int) Bit {
	row := t.rows[i]
	b := row[len(row)-1]
	t.rows[i] = row[:len(row)-1]
	return b
}

// RemoveInactive bulk-erases every inactive gate-bit from every row.
func (t *BitTable) RemoveInactive() {
	for i, row := range t.rows {
		kept := row[:0]
		for _, b := range row {
			if b.Kind == Carry || b.Active {
				kept = append(kept, b)
			}
		}
		t.rows[i] = kept
	}
}

// TruncateTo shrinks the table to the first n rows (used by
// same-angle-mode ingestion to drop provably-empty trailing rows,
// per original_source/src/io.cpp's importQasm truncation).
func (t *BitTable) TruncateTo(n int) {
	t.rows = t.rows[:n]
}

// GateIDsInRow returns the sets of gate ids whose positive and
// negative bits occupy row i (carry bits are ignored).
func (t *BitTable) GateIDsInRow(i int) (pos, neg map[int]bool) {
	pos, neg = map[int]bool{}, map[int]bool{}
	for _, b := range t.rows[i] {
		switch b.Kind {
		case PosGate:
			pos[b.GateID] = true
		case NegGate:
			neg[b.GateID] = true
		}
	}
	return pos, neg
}
