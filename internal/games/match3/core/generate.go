package core

// Generate creates a settled size x size board with colors drawn from
// [0, colors). See Fill.
func Generate(size, colors int, rng Rand) *Grid {
	g := NewGrid(size)
	g.Fill(colors, rng)
	return g
}

// Fill overwrites every cell in row-major order with a random token.
// A color that would complete a run with the already placed left or upper
// neighbors is never kept, so the filled board has no match. Picking
// uniformly among the remaining colors gives the same distribution as
// redrawing until the cell no longer completes a run.
func (g *Grid) Fill(colors int, rng Rand) {
	for i := range g.Cells {
		g.Cells[i] = Hole()
	}
	for r := 0; r < g.Size; r++ {
		for c := 0; c < g.Size; c++ {
			pos := C(r, c)
			g.Set(pos, Token(g.pickColor(colors, rng, func(color Color) bool {
				g.Set(pos, Token(color))
				return !g.IsMatchAt(pos)
			})))
		}
	}
}

// pickColor draws uniformly among the colors accepted by ok. When no color
// is acceptable (fewer colors than the board can tolerate) it falls back to
// an unconstrained draw.
func (g *Grid) pickColor(colors int, rng Rand, ok func(Color) bool) Color {
	allowed := make([]Color, 0, colors)
	for color := Color(0); int(color) < colors; color++ {
		if ok(color) {
			allowed = append(allowed, color)
		}
	}
	if len(allowed) == 0 {
		return Color(rng.Intn(colors))
	}
	return allowed[rng.Intn(len(allowed))]
}
