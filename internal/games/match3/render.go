package match3

import (
	"fmt"

	"github.com/vovakirdan/tui-match3/internal/core"
	m3core "github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// Alpha cut-offs for fading tiles.
const (
	alphaGlyph = 0.66
	alphaDim   = 0.33
)

// Render draws the HUD, the board frame and every visible tile.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.screenW, g.screenH = dst.Width(), dst.Height()
	if g.grid == nil {
		return
	}

	l := g.layout()
	g.renderHUD(dst)
	if l.tooSmall {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small")
		return
	}

	dst.DrawBox(l.frame, core.ColorGray)
	g.renderTiles(dst, l)
	g.renderCursor(dst, l)

	if g.paused {
		dst.DrawTextCentered(l.frame.Y+l.frame.H/2, " PAUSED ")
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	stats := g.resolver.Stats()
	hud := fmt.Sprintf("%s  moves %d  cascades %d  destroyed %d  [%s]",
		g.variant.Title, stats.SwapsAccepted, stats.Cascades, stats.Destroyed, g.resolver.State())
	dst.DrawTextColored(0, 0, hud, core.ColorBrightWhite)
	status := fmt.Sprintf("cursor %d,%d", g.cursor.Row+1, g.cursor.Col+1)
	if sel, ok := g.input.Selection(); ok {
		status += fmt.Sprintf("  selected %d,%d", sel.Row+1, sel.Col+1)
	}
	if pass := g.resolver.Pass(); pass > 0 {
		status += fmt.Sprintf("  pass %d", pass)
	}
	dst.DrawTextColored(0, 1, status, core.ColorGray)
}

func (g *Game) renderTiles(dst *core.Screen, l boardLayout) {
	for _, v := range g.anim.visuals {
		if !v.Visible || v.Alpha < alphaDim {
			continue
		}
		x, y := l.tileOrigin(v.At.Row, v.At.Col)
		x += l.tileW / 2
		y += (l.tileH - 1) / 2
		if !l.inner.Contains(x, y) {
			continue
		}
		glyph := core.TokenGlyph(int(v.Color))
		if v.Alpha < alphaGlyph {
			glyph = '∙'
		}
		dst.SetColored(x, y, glyph, core.TokenColor(int(v.Color)))
	}
}

func (g *Game) renderCursor(dst *core.Screen, l boardLayout) {
	if sel, ok := g.input.Selection(); ok {
		g.drawMarker(dst, l, sel, '<', '>', core.ColorBrightYellow)
	}
	g.drawMarker(dst, l, g.cursor, '[', ']', core.ColorBrightWhite)
}

func (g *Game) drawMarker(dst *core.Screen, l boardLayout, c m3core.Coord, left, right rune, color core.Color) {
	x, y := l.tileOrigin(float64(c.Row), float64(c.Col))
	x += l.tileW / 2
	y += (l.tileH - 1) / 2
	if l.inner.Contains(x-1, y) {
		dst.SetColored(x-1, y, left, color)
	}
	if l.inner.Contains(x+1, y) {
		dst.SetColored(x+1, y, right, color)
	}
}
