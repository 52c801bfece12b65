package core

// Removal records a token cleared from the board.
type Removal struct {
	At    Coord
	Color Color
}

// Fall records a token moving down its column during compaction.
type Fall struct {
	From Coord
	To   Coord
	Cell Cell
}

// Distance returns how many rows the token fell.
func (f Fall) Distance() int {
	return f.To.Row - f.From.Row
}

// Spawn records a token created by refill.
type Spawn struct {
	At    Coord
	Color Color
	Drop  int // Rows above its destination the token enters from
}

// Origin returns the off-board position the spawned token falls from.
func (s Spawn) Origin() Coord {
	return s.At.Add(-s.Drop, 0)
}

// Destroy clears every occupied cell the mask marks and returns them in
// row-major order.
func (g *Grid) Destroy(m Mask) []Removal {
	var removed []Removal
	for _, c := range m.Coords() {
		color, ok := g.ColorAt(c)
		if !ok {
			continue
		}
		g.Set(c, Hole())
		removed = append(removed, Removal{At: c, Color: color})
	}
	return removed
}

// Compact applies gravity column by column. Each column is processed
// bottom-to-top against a snapshot taken before any move: every token falls
// by the number of holes strictly below it, so tokens keep their relative
// order and no two tokens target the same cell. Columns without holes are
// skipped.
func (g *Grid) Compact() []Fall {
	var falls []Fall
	column := make([]Cell, g.Size)

	for c := 0; c < g.Size; c++ {
		for r := 0; r < g.Size; r++ {
			column[r] = g.Cells[g.index(C(r, c))]
		}

		holesBelow := 0
		for r := g.Size - 1; r >= 0; r-- {
			cell := column[r]
			if !cell.Occupied {
				holesBelow++
				continue
			}
			if holesBelow == 0 {
				continue
			}
			from, to := C(r, c), C(r+holesBelow, c)
			g.Set(to, cell)
			g.Set(from, Hole())
			falls = append(falls, Fall{From: from, To: to, Cell: cell})
		}
	}
	return falls
}

// Refill fills every hole with an unconstrained random color, top of each
// column downward. New tokens may complete runs immediately; that is what
// keeps a cascade going.
func (g *Grid) Refill(colors int, rng Rand) []Spawn {
	var spawns []Spawn
	for c := 0; c < g.Size; c++ {
		holes := g.columnHoles(c)
		if holes == 0 {
			continue
		}
		for r := 0; r < g.Size; r++ {
			pos := C(r, c)
			if g.IsOccupied(pos) {
				continue
			}
			color := Color(rng.Intn(colors))
			g.Set(pos, Token(color))
			spawns = append(spawns, Spawn{At: pos, Color: color, Drop: holes})
		}
	}
	return spawns
}

// RefillGuarded fills every hole like Refill but only with colors that do
// not complete a run through the new token, given the tokens already in
// place. Holes are filled bottom-up so a column's upper neighbors are still
// empty when a cell is chosen; with four or more colors the result never
// contains a match.
func (g *Grid) RefillGuarded(colors int, rng Rand) []Spawn {
	var spawns []Spawn
	for c := 0; c < g.Size; c++ {
		holes := g.columnHoles(c)
		if holes == 0 {
			continue
		}
		var column []Spawn
		for r := g.Size - 1; r >= 0; r-- {
			pos := C(r, c)
			if g.IsOccupied(pos) {
				continue
			}
			color := g.pickColor(colors, rng, func(color Color) bool {
				return !g.completesRun(pos, color)
			})
			g.Set(pos, Token(color))
			column = append(column, Spawn{At: pos, Color: color, Drop: holes})
		}
		// Report top-down like Refill.
		for i := len(column) - 1; i >= 0; i-- {
			spawns = append(spawns, column[i])
		}
	}
	return spawns
}

// columnHoles counts the unoccupied cells in column c.
func (g *Grid) columnHoles(c int) int {
	holes := 0
	for r := 0; r < g.Size; r++ {
		if !g.IsOccupied(C(r, c)) {
			holes++
		}
	}
	return holes
}

// completesRun reports whether placing color at pos would form a run of
// MinRun or more through pos along either axis.
func (g *Grid) completesRun(pos Coord, color Color) bool {
	return g.lineThrough(pos, color, 0, 1) >= MinRun || g.lineThrough(pos, color, 1, 0) >= MinRun
}

// lineThrough counts pos plus the same-colored tokens extending from it in
// both directions along (dr, dc).
func (g *Grid) lineThrough(pos Coord, color Color, dr, dc int) int {
	n := 1
	for p := pos.Add(dr, dc); g.sameColor(color, p); p = p.Add(dr, dc) {
		n++
	}
	for p := pos.Add(-dr, -dc); g.sameColor(color, p); p = p.Add(-dr, -dc) {
		n++
	}
	return n
}
