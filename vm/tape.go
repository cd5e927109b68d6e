package vm

// Tape is the byte-cell storage an execution operates on. It is bounded on
// the left at cell 0 and grows to the right on demand, with new cells zeroed.
//
// A Tape is owned by one VirtualMachine at a time. Reusing a tape across
// runs (see WithTape) keeps its contents.
type Tape struct {
	cells []byte
}

// NewTape returns a zeroed tape with size cells. Sizes below one are raised
// to one, since the data pointer always addresses a cell.
func NewTape(size int) *Tape {
	if size < 1 {
		size = 1
	}
	return &Tape{cells: make([]byte, size)}
}

// NewTapeFrom returns a tape initialized with a copy of cells.
func NewTapeFrom(cells []byte) *Tape {
	t := NewTape(len(cells))
	copy(t.cells, cells)
	return t
}

// Len returns the number of cells currently allocated.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Get returns the value of cell i. Cells beyond the current length read as
// zero, matching what growth would produce.
func (t *Tape) Get(i int) byte {
	if i < 0 || i >= len(t.cells) {
		return 0
	}
	return t.cells[i]
}

// Set stores v in cell i, growing the tape if needed. Negative indexes are
// ignored.
func (t *Tape) Set(i int, v byte) {
	if i < 0 {
		return
	}
	t.ensure(i+1, 0)
	t.cells[i] = v
}

// Cells returns a copy of the tape contents.
func (t *Tape) Cells() []byte {
	out := make([]byte, len(t.cells))
	copy(out, t.cells)
	return out
}

// ensure grows the tape to at least n cells. Capacity at least doubles so a
// pointer sweeping right pays amortized constant cost per cell. When limit
// is positive the tape never exceeds limit cells and ensure reports false if
// n does not fit.
func (t *Tape) ensure(n, limit int) bool {
	if n <= len(t.cells) {
		return true
	}
	if limit > 0 && n > limit {
		return false
	}
	if n <= cap(t.cells) {
		// Cells past len were zeroed on allocation and never written.
		t.cells = t.cells[:n]
		return true
	}
	size := 2 * cap(t.cells)
	if size < n {
		size = n
	}
	if limit > 0 && size > limit {
		size = limit
	}
	grown := make([]byte, n, size)
	copy(grown, t.cells)
	t.cells = grown
	return true
}
