package core

// MinRun is the shortest line of equal colors that counts as a match.
const MinRun = 3

// Axis is the orientation of a run.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

// String returns the string representation of an axis.
func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Run is a maximal line of at least MinRun occupied cells sharing one color.
type Run struct {
	Start  Coord // Leftmost (horizontal) or topmost (vertical) cell
	Axis   Axis
	Length int
	Color  Color
}

// Cells returns the coordinates covered by the run.
func (r Run) Cells() []Coord {
	cells := make([]Coord, r.Length)
	for i := range cells {
		if r.Axis == Horizontal {
			cells[i] = r.Start.Add(0, i)
		} else {
			cells[i] = r.Start.Add(i, 0)
		}
	}
	return cells
}

// IsMatchAt reports whether the token at c completes a run looking backward
// only: c and its two left neighbors share a color, or c and its two upper
// neighbors do. Holes and out-of-range cells never match.
func (g *Grid) IsMatchAt(c Coord) bool {
	color, ok := g.ColorAt(c)
	if !ok {
		return false
	}
	return g.sameColor(color, c.Add(0, -1), c.Add(0, -2)) ||
		g.sameColor(color, c.Add(-1, 0), c.Add(-2, 0))
}

// sameColor reports whether every coordinate holds a token of the given color.
func (g *Grid) sameColor(color Color, coords ...Coord) bool {
	for _, c := range coords {
		got, ok := g.ColorAt(c)
		if !ok || got != color {
			return false
		}
	}
	return true
}

// HasAnyMatch reports whether any cell satisfies IsMatchAt.
// It is the fast settle check run after every swap and refill.
func (g *Grid) HasAnyMatch() bool {
	for r := 0; r < g.Size; r++ {
		for c := 0; c < g.Size; c++ {
			if g.IsMatchAt(C(r, c)) {
				return true
			}
		}
	}
	return false
}

// FindRuns scans every row left-to-right and then every column
// top-to-bottom and returns all runs of at least MinRun cells.
func (g *Grid) FindRuns() []Run {
	var runs []Run
	for r := 0; r < g.Size; r++ {
		runs = g.scanLine(runs, C(r, 0), Horizontal)
	}
	for c := 0; c < g.Size; c++ {
		runs = g.scanLine(runs, C(0, c), Vertical)
	}
	return runs
}

// scanLine walks one row or column tracking the current color and run
// length; a color change or a hole ends the run, and a finished run of
// MinRun or more is appended. The trailing run is flushed at the line end.
func (g *Grid) scanLine(runs []Run, start Coord, axis Axis) []Run {
	dr, dc := 0, 1
	if axis == Vertical {
		dr, dc = 1, 0
	}

	runStart := start
	runColor := NoColor
	runLen := 0

	flush := func() {
		if runLen >= MinRun {
			runs = append(runs, Run{Start: runStart, Axis: axis, Length: runLen, Color: runColor})
		}
	}

	for i := 0; i < g.Size; i++ {
		pos := start.Add(i*dr, i*dc)
		color, ok := g.ColorAt(pos)
		switch {
		case !ok:
			flush()
			runColor, runLen = NoColor, 0
		case runLen > 0 && color == runColor:
			runLen++
		default:
			flush()
			runStart, runColor, runLen = pos, color, 1
		}
	}
	flush()
	return runs
}

// Mask counts, per cell, how many matching runs cover it.
// A cell on both a horizontal and a vertical run counts 2.
type Mask struct {
	Size   int
	Counts []int // row-major, same layout as Grid.Cells
}

// NewMask creates an empty mask for a size x size grid.
func NewMask(size int) Mask {
	return Mask{Size: size, Counts: make([]int, size*size)}
}

func (m Mask) inBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < m.Size && c.Col >= 0 && c.Col < m.Size
}

// At returns the run count for c, 0 when out of range.
func (m Mask) At(c Coord) int {
	if !m.inBounds(c) {
		return 0
	}
	return m.Counts[c.Row*m.Size+c.Col]
}

// Mark increments the run count of c.
func (m Mask) Mark(c Coord) {
	if m.inBounds(c) {
		m.Counts[c.Row*m.Size+c.Col]++
	}
}

// Any reports whether at least one cell is marked.
func (m Mask) Any() bool {
	for _, n := range m.Counts {
		if n > 0 {
			return true
		}
	}
	return false
}

// Len returns the number of marked cells.
func (m Mask) Len() int {
	count := 0
	for _, n := range m.Counts {
		if n > 0 {
			count++
		}
	}
	return count
}

// Coords returns the marked cells in row-major order.
func (m Mask) Coords() []Coord {
	coords := make([]Coord, 0, m.Len())
	for i, n := range m.Counts {
		if n > 0 {
			coords = append(coords, C(i/m.Size, i%m.Size))
		}
	}
	return coords
}

// MaskFromRuns marks every cell of every run.
func MaskFromRuns(size int, runs []Run) Mask {
	mask := NewMask(size)
	for _, run := range runs {
		for _, c := range run.Cells() {
			mask.Mark(c)
		}
	}
	return mask
}

// FindAllMatches scans the whole board and returns the removal mask.
func (g *Grid) FindAllMatches() Mask {
	return MaskFromRuns(g.Size, g.FindRuns())
}
