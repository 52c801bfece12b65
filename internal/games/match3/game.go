// Package match3 is the playable match-3 game: it wires the rules, the
// cascade engine and the gesture interpreter to the platform's tick loop,
// input frames and screen buffer.
package match3

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	m3core "github.com/vovakirdan/tui-match3/internal/games/match3/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
	"github.com/vovakirdan/tui-match3/internal/games/match3/input"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/trace"
)

// Variant is a registered board shape.
type Variant struct {
	ID     string
	Title  string
	Size   int // 0 keeps the configured board
	Colors int
}

// Variants lists every registered variant.
var Variants = []Variant{
	{ID: "match3", Title: "Match-3"},
	{ID: "match3_compact", Title: "Match-3 (Compact)", Size: 7, Colors: 6},
	{ID: "match3_large", Title: "Match-3 (Large)", Size: 10, Colors: 7},
}

func init() {
	for _, v := range Variants {
		registry.Register(registry.Info{ID: v.ID, Title: v.Title}, func() registry.Game { return New(v) })
	}
}

// configPath is the --config override; empty searches the default locations.
var configPath string

// SetConfigPath sets the config file every later Reset loads.
func SetConfigPath(path string) {
	configPath = path
}

// switchSink forwards to a sink that can be replaced after the resolver
// has been built.
type switchSink struct {
	target trace.Sink
}

func (s *switchSink) Emit(e trace.Event) {
	if s.target != nil {
		s.target.Emit(e)
	}
}

// Game implements registry.Game for one variant.
type Game struct {
	variant Variant
	runtime core.RuntimeConfig
	cfg     config.Match3Config

	rng      *rand.Rand
	grid     *m3core.Grid
	resolver *engine.Resolver
	anim     *TweenAnimator
	input    *input.Interpreter
	sink     *switchSink

	cursor  m3core.Coord
	paused  bool
	screenW int
	screenH int
}

// New creates a game for the given variant. Call Reset before use.
func New(v Variant) *Game {
	return &Game{variant: v, sink: &switchSink{}}
}

// ID returns the unique identifier for this variant.
func (g *Game) ID() string {
	return g.variant.ID
}

// Title returns the display name for this variant.
func (g *Game) Title() string {
	return g.variant.Title
}

// SetTraceSink routes the engine's trace events to sink. Nil disables tracing.
func (g *Game) SetTraceSink(sink trace.Sink) {
	g.sink.target = sink
}

// Board returns the board size and color count of the current session.
func (g *Game) Board() (size, colors int) {
	return g.cfg.Board.Size, g.cfg.Board.Colors
}

// Reset starts a new session with a fresh settled board. A variant board the
// config rejects falls back to the default configuration.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime.WithDefaults(time.Now())
	g.screenW, g.screenH = runtime.ScreenW, runtime.ScreenH

	cfg, err := config.LoadMatch3(configPath)
	if err != nil {
		cfg = config.DefaultMatch3Config()
	}
	if g.variant.Size > 0 {
		cfg = cfg.WithBoard(g.variant.Size, g.variant.Colors)
	}
	if err := g.start(cfg); err != nil {
		// The built-in defaults always validate and build.
		_ = g.start(config.DefaultMatch3Config())
	}

	g.cursor = m3core.C(g.grid.Size/2, g.grid.Size/2)
	g.paused = false
}

// start builds the board, engine and interpreter for cfg.
func (g *Game) start(cfg config.Match3Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(g.runtime.Seed))
	size := cfg.Board.Size
	grid := m3core.Generate(size, cfg.Board.Colors, rng)
	anim := NewTweenAnimator(size * size)

	resolver, err := engine.New(grid, engine.Options{
		Colors: cfg.Board.Colors,
		Rand:   rng,
		Timing: engine.Timing{
			Swap:       cfg.Timing.Swap(),
			FallPerRow: cfg.Timing.FallPerRow(),
			Destroy:    cfg.Timing.Destroy(),
		},
		MaxPasses: cfg.MaxPasses(),
		Sink:      g.sink,
		Animator:  anim,
	})
	if err != nil {
		return err
	}

	g.cfg, g.rng, g.grid, g.anim, g.resolver = cfg, rng, grid, anim, resolver
	g.input = input.New(size, input.Config{
		TileWidth:      float64(cfg.Input.TileWidth),
		TileHeight:     float64(cfg.Input.TileHeight),
		DragThreshold:  cfg.Input.DragThreshold,
		CrossThreshold: cfg.Input.CrossThreshold,
	})
	g.resolver.OnSettle(g.input.ClearSelection)
	return nil
}

// Step advances the simulation by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}
	g.handleKeys(in)
	g.handlePointer(in.Pointer)

	g.anim.Advance(g.runtime.TickInterval())
	return core.StepResult{State: g.State()}
}

// handleKeys applies key actions in the order they arrived, so a tap always
// lands on the cell the cursor was on when the key was pressed.
func (g *Game) handleKeys(in core.InputFrame) {
	last := g.grid.Size - 1
	for _, a := range in.Actions {
		switch a {
		case core.ActionUp:
			g.cursor.Row = core.Clamp(g.cursor.Row-1, 0, last)
		case core.ActionDown:
			g.cursor.Row = core.Clamp(g.cursor.Row+1, 0, last)
		case core.ActionLeft:
			g.cursor.Col = core.Clamp(g.cursor.Col-1, 0, last)
		case core.ActionRight:
			g.cursor.Col = core.Clamp(g.cursor.Col+1, 0, last)
		case core.ActionSelect:
			if p, ok := g.input.Tap(g.cursor, g.resolver.Idle()); ok {
				g.propose(p)
			}
		case core.ActionBack:
			g.input.ClearSelection()
		case core.ActionRestart:
			if g.resolver.Reshuffle() == nil {
				g.input.Reset()
			}
		}
	}
}

// handlePointer feeds screen-space pointer samples to the interpreter.
func (g *Game) handlePointer(events []core.PointerEvent) {
	l := g.layout()
	for _, ev := range events {
		local := ev
		local.X, local.Y = l.toBoard(ev.X, ev.Y)
		if ev.Kind == core.PointerDown {
			if c, ok := g.input.CellAt(local.X, local.Y); ok {
				g.cursor = c
			}
		}
		if p, ok := g.input.Pointer(local, g.resolver.Idle()); ok {
			g.propose(p)
		}
	}
}

// propose hands a swap to the engine. Rejections leave the board as it is.
func (g *Game) propose(p input.Proposal) {
	if err := g.resolver.RequestSwap(p.A, p.B); err != nil {
		g.input.ClearSelection()
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.resolver == nil {
		return core.GameState{}
	}
	return core.GameState{
		Phase:  g.resolver.State().String(),
		Locked: !g.resolver.Idle(),
		Paused: g.paused,
		Moves:  g.resolver.Stats().SwapsAccepted,
	}
}

// Stats returns the engine counters of the current session.
func (g *Game) Stats() engine.Stats {
	return g.resolver.Stats()
}

// Grid returns the board of the current session. Callers must not mutate it.
func (g *Game) Grid() *m3core.Grid {
	return g.grid
}

// Cursor returns the keyboard cursor cell.
func (g *Game) Cursor() m3core.Coord {
	return g.cursor
}

// Selection returns the selected cell, if any.
func (g *Game) Selection() (m3core.Coord, bool) {
	return g.input.Selection()
}
