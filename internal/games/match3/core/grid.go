package core

import (
	"fmt"
	"strings"
)

// Grid is the square board of cells.
// Cells are stored in row-major order: index = row*Size + col.
type Grid struct {
	Size  int    // Width and height of the board
	Cells []Cell // Flat array of cells, length Size*Size
}

// NewGrid creates a size x size grid where every cell is a hole.
func NewGrid(size int) *Grid {
	g := &Grid{
		Size:  size,
		Cells: make([]Cell, size*size),
	}
	for i := range g.Cells {
		g.Cells[i] = Hole()
	}
	return g
}

// ParseGrid builds a grid from text rows: 'A'..'Z' are colors 0..25 and
// '.' is a hole. Every row must be as long as the number of rows.
func ParseGrid(rows ...string) (*Grid, error) {
	size := len(rows)
	g := NewGrid(size)
	for r, line := range rows {
		runes := []rune(line)
		if len(runes) != size {
			return nil, fmt.Errorf("match3: row %d has %d cells, want %d", r, len(runes), size)
		}
		for c, ch := range runes {
			switch {
			case ch == '.':
				// hole
			case ch >= 'A' && ch <= 'Z':
				g.Set(C(r, c), Token(Color(ch-'A')))
			default:
				return nil, fmt.Errorf("match3: invalid cell %q at %v", ch, C(r, c))
			}
		}
	}
	return g, nil
}

// index converts a coordinate to a flat array index.
func (g *Grid) index(c Coord) int {
	return c.Row*g.Size + c.Col
}

// InBounds returns true if the coordinate addresses a cell of the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.Size && c.Col >= 0 && c.Col < g.Size
}

// Get returns the cell at the given coordinate.
// The second result is false when the coordinate is out of range.
func (g *Grid) Get(c Coord) (Cell, bool) {
	if !g.InBounds(c) {
		return Cell{}, false
	}
	return g.Cells[g.index(c)], true
}

// Set stores a cell at the given coordinate.
// Returns false, leaving the grid untouched, when the coordinate is out of range.
func (g *Grid) Set(c Coord, cell Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	g.Cells[g.index(c)] = cell
	return true
}

// IsOccupied reports whether the cell holds a token.
// Out-of-range coordinates are never occupied.
func (g *Grid) IsOccupied(c Coord) bool {
	cell, ok := g.Get(c)
	return ok && cell.Occupied
}

// ColorAt returns the token color at c, or false for holes and
// out-of-range coordinates.
func (g *Grid) ColorAt(c Coord) (Color, bool) {
	cell, ok := g.Get(c)
	if !ok || !cell.Occupied {
		return NoColor, false
	}
	return cell.Color, true
}

// HoleCount returns the number of unoccupied cells.
func (g *Grid) HoleCount() int {
	count := 0
	for _, cell := range g.Cells {
		if !cell.Occupied {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{
		Size:  g.Size,
		Cells: cells,
	}
}

// Equal returns true if two grids have the same size and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.Size != other.Size {
		return false
	}
	for i, cell := range g.Cells {
		if cell != other.Cells[i] {
			return false
		}
	}
	return true
}

// String dumps the grid in the ParseGrid format, one row per line.
func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.Size; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < g.Size; c++ {
			cell := g.Cells[g.index(C(r, c))]
			switch {
			case !cell.Occupied:
				sb.WriteByte('.')
			case cell.Color >= 0 && cell.Color < 26:
				sb.WriteByte(byte('A' + cell.Color))
			default:
				sb.WriteByte('?')
			}
		}
	}
	return sb.String()
}
