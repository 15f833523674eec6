package rules

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

	alive with fewer than 2 or more than 3 neighbors -> dead
	dead with exactly 3 neighbors                    -> alive
	anything else keeps its state
*/
func ApplyConwayRules(neighbors uint8, alive bool) bool {
	switch {
	case alive && (neighbors < 2 || neighbors > 3):
		return false
	case !alive && neighbors == 3:
		return true
	default:
		return alive
	}
}
