// Package input turns taps, drags and keyboard picks into swap proposals
// for the cascade engine.
package input

import (
	"fmt"
	"math"

	platformcore "github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// Config sizes the tiles in pointer units and sets the drag thresholds.
// Thresholds are fractions of a tile along each axis.
type Config struct {
	TileWidth      float64
	TileHeight     float64
	DragThreshold  float64 // Minimum travel along the dominant axis
	CrossThreshold float64 // Maximum travel along the other axis
}

// DefaultConfig returns the terminal defaults: tiles are 4 columns by 2 rows.
func DefaultConfig() Config {
	return Config{
		TileWidth:      4,
		TileHeight:     2,
		DragThreshold:  0.5,
		CrossThreshold: 0.5,
	}
}

// Validate checks that the tile size is positive and thresholds are not negative.
func (c Config) Validate() error {
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		return fmt.Errorf("input: tile size must be positive, got %gx%g", c.TileWidth, c.TileHeight)
	}
	if c.DragThreshold < 0 || c.CrossThreshold < 0 {
		return fmt.Errorf("input: thresholds must not be negative")
	}
	return nil
}

// Proposal is a swap the player asked for.
type Proposal struct {
	A, B core.Coord
}

// Interpreter tracks the selection and the gesture in progress.
// Callers pass whether the engine is idle; nothing is recorded otherwise.
type Interpreter struct {
	cfg  Config
	size int

	selected     core.Coord
	hasSelection bool

	// gesture state between PointerDown and PointerUp
	pressed        bool
	pressCell      core.Coord
	pressX, pressY float64
	consumed       bool // the gesture already produced a proposal
	deselectOnUp   bool // pressed on the selected cell; a plain click deselects
}

// New creates an interpreter for a size x size board.
func New(size int, cfg Config) *Interpreter {
	return &Interpreter{cfg: cfg, size: size}
}

// Config returns the interpreter configuration.
func (in *Interpreter) Config() Config {
	return in.cfg
}

// Selection returns the selected cell, if any.
func (in *Interpreter) Selection() (core.Coord, bool) {
	return in.selected, in.hasSelection
}

// ClearSelection drops the selection. The game calls it when a swap settles.
func (in *Interpreter) ClearSelection() {
	in.hasSelection = false
}

// Reset drops the selection and any gesture in progress.
func (in *Interpreter) Reset() {
	*in = Interpreter{cfg: in.cfg, size: in.size}
}

func (in *Interpreter) inBounds(c core.Coord) bool {
	return c.Row >= 0 && c.Row < in.size && c.Col >= 0 && c.Col < in.size
}

// CellAt maps a board-local pointer position to a cell by flooring it
// against the tile size.
func (in *Interpreter) CellAt(x, y float64) (core.Coord, bool) {
	c := core.C(
		int(math.Floor(y/in.cfg.TileHeight)),
		int(math.Floor(x/in.cfg.TileWidth)),
	)
	return c, in.inBounds(c)
}

// Tap applies one pick: select, deselect the same cell, propose a swap with
// an adjacent selection, or move the selection to a non-adjacent cell.
func (in *Interpreter) Tap(c core.Coord, idle bool) (Proposal, bool) {
	if !idle || !in.inBounds(c) {
		return Proposal{}, false
	}
	switch {
	case !in.hasSelection:
		in.selected, in.hasSelection = c, true
	case in.selected == c:
		in.hasSelection = false
	case core.AreAdjacent(in.selected, c):
		return Proposal{A: in.selected, B: c}, true
	default:
		in.selected = c
	}
	return Proposal{}, false
}

// Pointer feeds one board-local pointer sample.
func (in *Interpreter) Pointer(ev platformcore.PointerEvent, idle bool) (Proposal, bool) {
	switch ev.Kind {
	case platformcore.PointerDown:
		return in.down(ev.X, ev.Y, idle)
	case platformcore.PointerMove:
		return in.move(ev.X, ev.Y, idle)
	case platformcore.PointerUp:
		in.up(idle)
	}
	return Proposal{}, false
}

func (in *Interpreter) down(x, y float64, idle bool) (Proposal, bool) {
	in.pressed = false
	if !idle {
		return Proposal{}, false
	}
	c, ok := in.CellAt(x, y)
	if !ok {
		return Proposal{}, false
	}

	in.pressed = true
	in.pressCell = c
	in.pressX, in.pressY = x, y
	in.consumed = false
	in.deselectOnUp = false

	if in.hasSelection && in.selected == c {
		// Keep the selection so the press can still turn into a drag.
		in.deselectOnUp = true
		return Proposal{}, false
	}
	p, proposed := in.Tap(c, idle)
	in.consumed = proposed
	return p, proposed
}

func (in *Interpreter) move(x, y float64, idle bool) (Proposal, bool) {
	if !in.pressed || in.consumed || !idle {
		return Proposal{}, false
	}
	dir, ok := in.dragDir((x-in.pressX)/in.cfg.TileWidth, (y-in.pressY)/in.cfg.TileHeight)
	if !ok {
		return Proposal{}, false
	}
	target := in.pressCell.Step(dir)
	if !in.inBounds(target) {
		return Proposal{}, false
	}
	in.consumed = true
	in.deselectOnUp = false
	in.selected, in.hasSelection = in.pressCell, true
	return Proposal{A: in.pressCell, B: target}, true
}

// dragDir picks the direction of a drag measured in tiles. The travel must
// reach the drag threshold on exactly one axis and stay within the cross
// threshold on the other.
func (in *Interpreter) dragDir(dx, dy float64) (core.Dir, bool) {
	ax, ay := math.Abs(dx), math.Abs(dy)
	horizontal := ax >= in.cfg.DragThreshold && ay <= in.cfg.CrossThreshold
	vertical := ay >= in.cfg.DragThreshold && ax <= in.cfg.CrossThreshold
	if horizontal == vertical || ax == ay {
		return 0, false
	}
	switch {
	case horizontal && dx > 0:
		return core.DirRight, true
	case horizontal:
		return core.DirLeft, true
	case dy > 0:
		return core.DirDown, true
	default:
		return core.DirUp, true
	}
}

func (in *Interpreter) up(idle bool) {
	if in.pressed && in.deselectOnUp && !in.consumed && idle {
		in.hasSelection = false
	}
	in.pressed = false
	in.consumed = false
	in.deselectOnUp = false
}
