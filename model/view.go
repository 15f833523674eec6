package model

import (
	"fmt"
	"unsafe"
)

// CellsView is a borrowed, read-only alias of a universe's current
// generation. It is valid until the universe is next mutated; reading a
// stale view panics instead of returning a recycled or half-written buffer.
type CellsView struct {
	owner   *Universe
	cells   []Cell
	version uint64
}

// Valid reports whether the universe has not been mutated since the view was taken
func (v CellsView) Valid() bool {
	return v.owner != nil && v.owner.version == v.version
}

// Len returns the number of cells, width*height
func (v CellsView) Len() int {
	return len(v.cells)
}

// Cells returns the aliased buffer. Callers must not write to it.
func (v CellsView) Cells() []Cell {
	v.mustBeValid()
	return v.cells
}

// Bytes returns the buffer as a contiguous run of bytes, 0 for Dead and 1 for
// Alive, without copying.
func (v CellsView) Bytes() []byte {
	v.mustBeValid()
	if len(v.cells) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(v.cells))), len(v.cells))
}

// At returns the cell at row, column
func (v CellsView) At(row, column uint32) Cell {
	v.mustBeValid()
	v.owner.checkBounds(row, column)
	return v.cells[v.owner.indexOf(row, column)]
}

func (v CellsView) mustBeValid() {
	if !v.Valid() {
		panic(fmt.Sprintf("model: stale cells view (version %d)", v.version))
	}
}
