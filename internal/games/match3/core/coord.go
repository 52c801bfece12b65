package core

import "fmt"

// Coord addresses a grid cell by row and column.
// Row increases downward, Col increases to the right.
type Coord struct {
	Row int
	Col int
}

// C is a convenience constructor for Coord.
func C(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Add returns a new Coord offset by (drow, dcol).
func (c Coord) Add(drow, dcol int) Coord {
	return Coord{Row: c.Row + drow, Col: c.Col + dcol}
}

// Step returns a new Coord one step in the given direction.
func (c Coord) Step(d Dir) Coord {
	drow, dcol := d.Delta()
	return c.Add(drow, dcol)
}

// Manhattan returns the Manhattan distance to another coordinate.
func (c Coord) Manhattan(other Coord) int {
	dr := c.Row - other.Row
	dc := c.Col - other.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// AreAdjacent reports whether a and b share an edge (never diagonal).
func AreAdjacent(a, b Coord) bool {
	return a.Manhattan(b) == 1
}
