package model

import (
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-torus/utils"
)

// Pattern is a set of live cell offsets as {row, column} pairs
type Pattern [][2]uint32

var (
	// Blinker is the period 2 oscillator in its horizontal phase
	Blinker = Pattern{{0, 0}, {0, 1}, {0, 2}}

	// Glider travels one cell diagonally (south east) every 4 generations
	Glider = Pattern{
		{0, 1},
		{1, 2},
		{2, 0}, {2, 1}, {2, 2},
	}
)

// Place sets the cells of p alive with its origin at row, column. Offsets
// wrap around the torus.
func (u *Universe) Place(row, column uint32, p Pattern) {
	u.checkBounds(row, column)
	for _, off := range p {
		r := uint32((uint64(row) + uint64(off[0])) % uint64(u.height))
		c := uint32((uint64(column) + uint64(off[1])) % uint64(u.width))
		u.cells[u.indexOf(r, c)] = Alive
	}
	u.version++
}

// Clear kills every cell
func (u *Universe) Clear() {
	clear(u.cells)
	u.history = nil
	u.version++
}

// Reseed clears the universe, resets the generation counter and applies the
// named seed.
func (u *Universe) Reseed(seed string) error {
	switch seed {
	case utils.SeedModulo:
		u.seedModulo()
	case utils.SeedEmpty:
		u.Clear()
	case utils.SeedBlinker:
		u.Clear()
		u.Place(u.height/2, u.width/2-min(u.width/2, 1), Blinker)
	case utils.SeedGlider:
		u.Clear()
		u.Place(0, 0, Glider)
	default:
		return errors.Wrapf(utils.ErrInvalidConfig, "[Reseed] unknown seed %q", seed)
	}
	u.generation = 0
	return nil
}

// seedModulo makes cell i alive when i is divisible by 2 or by 7
func (u *Universe) seedModulo() {
	for i := range u.cells {
		if i%2 == 0 || i%7 == 0 {
			u.cells[i] = Alive
		} else {
			u.cells[i] = Dead
		}
	}
	u.history = nil
	u.version++
}
