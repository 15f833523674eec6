package model

// Cell is the state of a single grid position. It is one byte wide so a
// buffer of cells can be handed to a host as a plain byte run.
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

// Toggle flips the cell in place
func (c *Cell) Toggle() {
	if *c == Alive {
		*c = Dead
		return
	}
	*c = Alive
}

// IsAlive reports whether the cell is Alive
func (c Cell) IsAlive() bool {
	return c == Alive
}

func (c Cell) String() string {
	if c == Alive {
		return "Alive"
	}
	return "Dead"
}
