package model

import (
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol-torus/rules"
	"github.com/sheikhrachel/go-gol-torus/utils"
)

const (
	liveSymbol = "◼"
	deadSymbol = "◻"

	historySize = 5
)

// Universe is a fixed-size toroidal Game of Life grid. Cells are stored row
// major, index = row*width + column. A Universe is not safe for concurrent
// use; callers serialize Tick, ToggleCell and Set.
type Universe struct {
	width  uint32
	height uint32
	cells  []Cell

	generation uint64
	version    uint64 // bumped on every mutation, checked by CellsView

	workers int
	pool    *BufferPool
	history []string // recent grid hashes for stagnation detection
}

// New creates the reference universe: DefaultWidth x DefaultHeight seeded with
// the modulo pattern. It cannot fail.
func New() *Universe {
	u := newUniverse(utils.DefaultWidth, utils.DefaultHeight)
	u.seedModulo()
	return u
}

// NewUniverse creates a universe from config
func NewUniverse(config utils.Config) (*Universe, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "[NewUniverse] bad config")
	}

	u := newUniverse(config.Width, config.Height)
	u.workers = config.Workers
	if config.UseMemoryPool {
		u.pool = NewBufferPool()
	}
	if err := u.Reseed(config.Seed); err != nil {
		return nil, errors.Wrap(err, "[NewUniverse] failed to seed")
	}
	return u, nil
}

func newUniverse(width, height uint32) *Universe {
	return &Universe{
		width:   width,
		height:  height,
		cells:   make([]Cell, int(width)*int(height)),
		workers: 1,
	}
}

// Width returns the number of columns
func (u *Universe) Width() uint32 {
	return u.width
}

// Height returns the number of rows
func (u *Universe) Height() uint32 {
	return u.height
}

// Generation returns the number of ticks applied since construction or the last reseed
func (u *Universe) Generation() uint64 {
	return u.generation
}

// Cells borrows the current generation's buffer without copying. The view
// goes stale on the next Tick, ToggleCell, Set or Reseed.
func (u *Universe) Cells() CellsView {
	return CellsView{owner: u, cells: u.cells, version: u.version}
}

// Get returns the state of the cell at row, column
func (u *Universe) Get(row, column uint32) Cell {
	u.checkBounds(row, column)
	return u.cells[u.indexOf(row, column)]
}

// Set overwrites the cell at row, column
func (u *Universe) Set(row, column uint32, cell Cell) {
	u.checkBounds(row, column)
	u.cells[u.indexOf(row, column)] = cell
	u.version++
}

// ToggleCell flips the cell at row, column. Coordinates must be in range;
// anything else panics. Neighbours are not recounted until the next Tick.
func (u *Universe) ToggleCell(row, column uint32) {
	u.checkBounds(row, column)
	u.cells[u.indexOf(row, column)].Toggle()
	u.version++
}

// Tick advances the universe by one generation. The next generation is
// computed entirely from the current buffer and swapped in once complete.
func (u *Universe) Tick() {
	next := u.nextBuffer()

	if u.workers > 1 && u.height > 1 {
		u.tickParallel(next)
	} else {
		u.computeRows(next, 0, u.height)
	}

	prev := u.cells
	u.cells = next
	u.version++
	u.generation++

	bufferToPool(prev, u.pool)
}

// tickParallel evaluates row bands concurrently. Bands only read u.cells and
// write disjoint ranges of next.
func (u *Universe) tickParallel(next []Cell) {
	var (
		eg            errgroup.Group
		numWorkers    = uint32(min(u.workers, int(u.height)))
		rowsPerWorker = (u.height + numWorkers - 1) / numWorkers // Ceiling division
	)

	for i := range numWorkers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, u.height)
		)
		if startRow >= u.height {
			break
		}

		eg.Go(func() error {
			u.computeRows(next, startRow, endRow)
			return nil
		})
	}

	// bands never fail; Wait is the barrier before the swap
	_ = eg.Wait()
}

func (u *Universe) computeRows(next []Cell, startRow, endRow uint32) {
	for row := startRow; row < endRow; row++ {
		for column := range u.width {
			idx := u.indexOf(row, column)
			alive := rules.ApplyConwayRules(u.liveNeighborCount(row, column), u.cells[idx].IsAlive())
			if alive {
				next[idx] = Alive
			} else {
				next[idx] = Dead
			}
		}
	}
}

func (u *Universe) nextBuffer() []Cell {
	if u.pool != nil {
		return u.pool.Get(len(u.cells))
	}
	return make([]Cell, len(u.cells))
}

// indexOf maps in-range coordinates to the linear buffer index
func (u *Universe) indexOf(row, column uint32) int {
	return int(row)*int(u.width) + int(column)
}

func (u *Universe) checkBounds(row, column uint32) {
	if row >= u.height || column >= u.width {
		panic(fmt.Sprintf("model: cell (%d, %d) out of range for %dx%d universe", row, column, u.width, u.height))
	}
}

// liveNeighborCount counts live cells in the Moore neighbourhood, wrapping at
// the edges. Directions are computed explicitly to avoid a modulo per lookup.
func (u *Universe) liveNeighborCount(row, column uint32) uint8 {
	north := row - 1
	if row == 0 {
		north = u.height - 1
	}
	south := row + 1
	if row == u.height-1 {
		south = 0
	}
	west := column - 1
	if column == 0 {
		west = u.width - 1
	}
	east := column + 1
	if column == u.width-1 {
		east = 0
	}

	return uint8(u.cells[u.indexOf(north, west)]) +
		uint8(u.cells[u.indexOf(north, column)]) +
		uint8(u.cells[u.indexOf(north, east)]) +
		uint8(u.cells[u.indexOf(row, west)]) +
		uint8(u.cells[u.indexOf(row, east)]) +
		uint8(u.cells[u.indexOf(south, west)]) +
		uint8(u.cells[u.indexOf(south, column)]) +
		uint8(u.cells[u.indexOf(south, east)])
}

// liveNeighborCountModulo is the nested delta loop form of liveNeighborCount.
// Offsets are shifted by the dimension before the modulo so they stay
// unsigned, and a 1-wide axis still yields its wrapped self-neighbours.
func (u *Universe) liveNeighborCountModulo(row, column uint32) uint8 {
	var (
		count  uint8
		height = int64(u.height)
		width  = int64(u.width)
	)
	for deltaRow := int64(-1); deltaRow <= 1; deltaRow++ {
		for deltaCol := int64(-1); deltaCol <= 1; deltaCol++ {
			if deltaRow == 0 && deltaCol == 0 {
				continue
			}
			neighborRow := uint32((int64(row) + height + deltaRow) % height)
			neighborCol := uint32((int64(column) + width + deltaCol) % width)
			count += uint8(u.cells[u.indexOf(neighborRow, neighborCol)])
		}
	}
	return count
}

// LivingCells returns the total number of living cells
func (u *Universe) LivingCells() (count int) {
	for _, c := range u.cells {
		count += int(c)
	}
	return
}

// Hash returns an MD5 hash of the current generation
func (u *Universe) Hash() string {
	return fmt.Sprintf("%x", md5.Sum(u.Cells().Bytes()))
}

// UpdateHistory adds the current state to history and maintains size
func (u *Universe) UpdateHistory() {
	u.history = append(u.history, u.Hash())

	// Keep only the last few states to detect cycles
	if len(u.history) > historySize {
		u.history = u.history[1:]
	}
}

// IsStagnant reports whether the current state repeats one of the last three
// recorded states, covering still lifes and period 2 and 3 oscillators. Call
// it before UpdateHistory records the current state.
func (u *Universe) IsStagnant() bool {
	if len(u.history) < 3 {
		return false
	}

	currentHash := u.Hash()
	for i := 1; i <= 3; i++ {
		if u.history[len(u.history)-i] == currentHash {
			return true
		}
	}
	return false
}

// String renders the grid one row per line
func (u *Universe) String() string {
	var b strings.Builder
	b.Grow(len(u.cells)*len(liveSymbol) + int(u.height))
	for row := range u.height {
		for column := range u.width {
			if u.cells[u.indexOf(row, column)].IsAlive() {
				b.WriteString(liveSymbol)
			} else {
				b.WriteString(deadSymbol)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
