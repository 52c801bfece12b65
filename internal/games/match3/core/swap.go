package core

import "errors"

var (
	// ErrOutOfBounds is returned when a coordinate is not on the grid.
	ErrOutOfBounds = errors.New("match3: coordinate out of bounds")
	// ErrNotAdjacent is returned when a swap names two cells that do not share an edge.
	ErrNotAdjacent = errors.New("match3: cells are not adjacent")
)

// Swap exchanges the payloads of two adjacent cells. Positions are fixed;
// only color and occupancy move.
func (g *Grid) Swap(a, b Coord) error {
	if !g.InBounds(a) || !g.InBounds(b) {
		return ErrOutOfBounds
	}
	if !AreAdjacent(a, b) {
		return ErrNotAdjacent
	}
	ia, ib := g.index(a), g.index(b)
	g.Cells[ia], g.Cells[ib] = g.Cells[ib], g.Cells[ia]
	return nil
}

// TrySwap swaps a and b and keeps the swap only if it produces a match.
// A swap that produces no match is reverted and reported as not accepted.
func (g *Grid) TrySwap(a, b Coord) (bool, error) {
	if err := g.Swap(a, b); err != nil {
		return false, err
	}
	if g.HasAnyMatch() {
		return true, nil
	}
	// Reverting an in-bounds adjacent pair cannot fail.
	_ = g.Swap(a, b)
	return false, nil
}
