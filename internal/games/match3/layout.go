package match3

import "github.com/vovakirdan/tui-match3/internal/core"

const hudHeight = 2

// boardLayout places the board frame on the screen.
type boardLayout struct {
	frame    core.Rect // Border included
	inner    core.Rect // Tile area
	tileW    int
	tileH    int
	tooSmall bool
}

// computeLayout centers a size x size board of tileW x tileH tiles below the HUD.
func computeLayout(screenW, screenH, size, tileW, tileH int) boardLayout {
	innerW, innerH := size*tileW, size*tileH
	frameW, frameH := innerW+2, innerH+2

	frame := core.NewRect(0, hudHeight, frameW, frameH).CenterX(screenW)

	return boardLayout{
		frame:    frame,
		inner:    frame.Inset(1),
		tileW:    tileW,
		tileH:    tileH,
		tooSmall: !frame.Fits(screenW, screenH),
	}
}

func (g *Game) layout() boardLayout {
	return computeLayout(g.screenW, g.screenH, g.grid.Size, g.cfg.Input.TileWidth, g.cfg.Input.TileHeight)
}

// toBoard converts screen coordinates to tile-area coordinates.
func (l boardLayout) toBoard(x, y float64) (float64, float64) {
	return x - float64(l.inner.X), y - float64(l.inner.Y)
}

// tileOrigin returns the screen cell of the top-left corner of a tile at a
// continuous board position.
func (l boardLayout) tileOrigin(row, col float64) (int, int) {
	x := l.inner.X + int(col*float64(l.tileW)+0.5)
	y := l.inner.Y + int(row*float64(l.tileH)+0.5)
	return x, y
}
