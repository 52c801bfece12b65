// Package core provides the rules of the match-3 board: the grid model,
// run detection, swaps, gravity and refill.
// This package is UI-agnostic and deterministic for a given random source.
package core

// Color is a token color index in [0, colorCount).
type Color int

// NoColor marks a hole in fixtures and text dumps.
const NoColor Color = -1

// Dir represents one of the four grid-adjacent directions.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Delta returns the (drow, dcol) offset for moving one step in this direction.
// Up decreases Row, Down increases Row (screen coordinates).
func (d Dir) Delta() (drow, dcol int) {
	switch d {
	case DirUp:
		return -1, 0
	case DirRight:
		return 0, 1
	case DirDown:
		return 1, 0
	case DirLeft:
		return 0, -1
	default:
		return 0, 0
	}
}

// Opposite returns the opposite direction.
func (d Dir) Opposite() Dir {
	switch d {
	case DirUp:
		return DirDown
	case DirRight:
		return DirLeft
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return d
	}
}

// Cell is the payload stored at one grid position.
// Cells have no identity of their own: when a token moves, the value moves.
type Cell struct {
	Color    Color // Valid only when Occupied is true
	Occupied bool  // False means the cell is a hole awaiting refill
}

// Hole returns an unoccupied cell.
func Hole() Cell {
	return Cell{Color: NoColor}
}

// Token returns an occupied cell of the given color.
func Token(c Color) Cell {
	return Cell{Color: c, Occupied: true}
}

// Rand is the random source the board draws colors from.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}
