package match3

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	m3core "github.com/vovakirdan/tui-match3/internal/games/match3/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/trace"
)

func newGame(t *testing.T, variant string, seed int64) *Game {
	t.Helper()
	g, err := registry.Create(variant)
	if err != nil {
		t.Fatalf("Create(%q): %v", variant, err)
	}
	game := g.(*Game)
	game.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 60, Seed: seed})
	return game
}

// findSwap returns the first adjacent pair whose swap forms a match.
func findSwap(t *testing.T, grid *m3core.Grid) (m3core.Coord, m3core.Coord) {
	t.Helper()
	for r := 0; r < grid.Size; r++ {
		for c := 0; c < grid.Size; c++ {
			a := m3core.C(r, c)
			for _, b := range []m3core.Coord{m3core.C(r, c+1), m3core.C(r+1, c)} {
				trial := grid.Clone()
				if ok, err := trial.TrySwap(a, b); err == nil && ok {
					return a, b
				}
			}
		}
	}
	t.Skip("board has no valid swap")
	return m3core.Coord{}, m3core.Coord{}
}

// runUntilIdle steps until the engine settles.
func runUntilIdle(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 100000; i++ {
		g.Step(core.NewInputFrame())
		if g.State().Phase == "idle" && !g.anim.Busy() {
			return
		}
	}
	t.Fatal("engine never settled")
}

func TestVariantsRegistered(t *testing.T) {
	for _, v := range Variants {
		if info, ok := registry.Lookup(v.ID); !ok || info.Title != v.Title {
			t.Errorf("variant %q not registered as %q", v.ID, v.Title)
		}
	}

	g := newGame(t, "match3_compact", 1)
	if size, colors := g.Board(); size != 7 || colors != 6 {
		t.Errorf("compact board = %dx%d colors, want 7/6", size, colors)
	}
	g = newGame(t, "match3_large", 1)
	if size, colors := g.Board(); size != 10 || colors != 7 {
		t.Errorf("large board = %d/%d, want 10/7", size, colors)
	}
}

func TestResetIsSettledAndDeterministic(t *testing.T) {
	a := newGame(t, "match3_compact", 42)
	b := newGame(t, "match3_compact", 42)

	if a.Grid().HasAnyMatch() {
		t.Error("fresh board must not contain a match")
	}
	if a.Grid().HoleCount() != 0 {
		t.Error("fresh board must be full")
	}
	if !a.Grid().Equal(b.Grid()) {
		t.Error("same seed should produce the same board")
	}
	st := a.State()
	if st.Phase != "idle" || st.Locked || st.Moves != 0 {
		t.Errorf("unexpected initial state %+v", st)
	}
}

func TestKeyboardSwapResolves(t *testing.T) {
	g := newGame(t, "match3_compact", 7)
	a, b := findSwap(t, g.Grid())

	rec := &trace.Recorder{}
	g.SetTraceSink(rec)

	g.cursor = a
	in := core.NewInputFrame()
	in.Set(core.ActionSelect)
	g.Step(in)
	if sel, ok := g.Selection(); !ok || sel != a {
		t.Fatalf("selection = %v %v, want %v", sel, ok, a)
	}

	g.cursor = b
	g.Step(in)
	if !g.State().Locked {
		t.Fatal("engine should be busy after a valid swap")
	}

	runUntilIdle(t, g)
	if g.State().Moves != 1 {
		t.Errorf("moves = %d, want 1", g.State().Moves)
	}
	if g.Grid().HasAnyMatch() || g.Grid().HoleCount() != 0 {
		t.Error("settled board must be full and match-free")
	}
	if _, ok := g.Selection(); ok {
		t.Error("selection should clear once the board settles")
	}
	if rec.Count(trace.KindSwapAccepted) != 1 || rec.Count(trace.KindSettled) != 1 {
		t.Errorf("unexpected trace: %v", rec.Events)
	}
}

func TestResetFallsBackOnInvalidBoard(t *testing.T) {
	g := New(Variant{ID: "broken", Title: "Broken", Size: 5, Colors: 0})
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 30, Seed: 3})

	def := config.DefaultMatch3Config()
	if size, colors := g.Board(); size != def.Board.Size || colors != def.Board.Colors {
		t.Errorf("board = %dx%d/%d, want the defaults", size, size, colors)
	}
	if g.State().Phase != "idle" || g.Grid().HasAnyMatch() {
		t.Errorf("fallback board not settled: %+v", g.State())
	}
}

func TestKeysApplyInArrivalOrder(t *testing.T) {
	g := newGame(t, "match3_compact", 7)

	g.cursor = m3core.C(1, 2)
	in := core.NewInputFrame()
	in.Set(core.ActionSelect)
	in.Set(core.ActionRight)
	g.Step(in)

	if sel, ok := g.Selection(); !ok || sel != m3core.C(1, 2) {
		t.Errorf("select then right: selection = %v %v, want (1,2)", sel, ok)
	}
	if g.Cursor() != m3core.C(1, 3) {
		t.Errorf("cursor = %v, want (1,3)", g.Cursor())
	}

	in.Clear()
	in.Set(core.ActionRight)
	in.Set(core.ActionSelect)
	g.Step(in)

	if sel, ok := g.Selection(); !ok || sel != m3core.C(1, 4) {
		t.Errorf("right then select: selection = %v %v, want (1,4)", sel, ok)
	}
	if g.State().Locked {
		t.Error("a non-adjacent pick must not start a swap")
	}
}

func TestInputIgnoredWhileBusy(t *testing.T) {
	g := newGame(t, "match3_compact", 7)
	a, b := findSwap(t, g.Grid())
	if err := g.resolver.RequestSwap(a, b); err != nil {
		t.Fatalf("RequestSwap: %v", err)
	}

	g.cursor = m3core.C(0, 0)
	in := core.NewInputFrame()
	in.Set(core.ActionSelect)
	g.Step(in)
	if _, ok := g.Selection(); ok {
		t.Error("taps during a cascade must not select")
	}
	runUntilIdle(t, g)
}

func TestPointerDragSwap(t *testing.T) {
	g := newGame(t, "match3_compact", 11)
	a, b := findSwap(t, g.Grid())

	l := g.layout()
	x, y := l.tileOrigin(float64(a.Row), float64(a.Col))
	x += l.tileW / 2
	dx := float64((b.Col - a.Col) * l.tileW)
	dy := float64((b.Row - a.Row) * l.tileH)

	in := core.NewInputFrame()
	in.AddPointer(core.PointerEvent{Kind: core.PointerDown, X: float64(x), Y: float64(y)})
	in.AddPointer(core.PointerEvent{Kind: core.PointerMove, X: float64(x) + dx, Y: float64(y) + dy})
	in.AddPointer(core.PointerEvent{Kind: core.PointerUp, X: float64(x) + dx, Y: float64(y) + dy})
	g.Step(in)

	if g.Cursor() != a {
		t.Errorf("pointer down should move the cursor to %v, got %v", a, g.Cursor())
	}
	if !g.State().Locked {
		t.Fatal("drag should request the swap")
	}
	runUntilIdle(t, g)
	if g.State().Moves != 1 {
		t.Errorf("moves = %d, want 1", g.State().Moves)
	}
}

func TestPauseFreezesAnimation(t *testing.T) {
	g := newGame(t, "match3_compact", 7)
	a, b := findSwap(t, g.Grid())
	if err := g.resolver.RequestSwap(a, b); err != nil {
		t.Fatalf("RequestSwap: %v", err)
	}

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	if !g.State().Paused {
		t.Fatal("game should be paused")
	}

	before := g.State().Phase
	for i := 0; i < 120; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.State().Phase != before || !g.anim.Busy() {
		t.Error("paused game must not advance animations")
	}

	g.Step(pause)
	runUntilIdle(t, g)
}

func TestRestartReshufflesWhenIdle(t *testing.T) {
	g := newGame(t, "match3_large", 3)
	before := g.Grid().Clone()

	in := core.NewInputFrame()
	in.Set(core.ActionRestart)
	g.Step(in)

	if g.Grid().Equal(before) {
		t.Error("restart should deal a new board")
	}
	if g.Grid().HasAnyMatch() {
		t.Error("reshuffled board must be settled")
	}
}

func TestRenderDrawsEveryTile(t *testing.T) {
	g := newGame(t, "match3_compact", 5)
	screen := core.NewScreen(80, 30)
	g.Render(screen)

	l := g.layout()
	if screen.Get(l.frame.X, l.frame.Y) != '┌' {
		t.Errorf("frame corner missing at %d,%d", l.frame.X, l.frame.Y)
	}

	glyphs := 0
	for i := 0; i < core.PaletteSize; i++ {
		glyphs += strings.Count(screen.String(), string(core.TokenGlyph(i)))
	}
	if glyphs != 49 {
		t.Errorf("rendered %d tiles, want 49", glyphs)
	}
	if !strings.Contains(screen.Row(0), "Match-3 (Compact)") {
		t.Errorf("HUD missing title: %q", screen.Row(0))
	}
}

func TestRenderFollowsResize(t *testing.T) {
	g := newGame(t, "match3_compact", 5)
	board := g.Grid().Clone()

	small := core.NewScreen(20, 6)
	g.Render(small)
	if !strings.Contains(small.String(), "Terminal too small") {
		t.Error("small screens should show a notice")
	}

	big := core.NewScreen(100, 40)
	g.Render(big)
	l := g.layout()
	if want := (100 - l.frame.W) / 2; l.frame.X != want {
		t.Errorf("frame x = %d, want %d", l.frame.X, want)
	}
	if !g.Grid().Equal(board) {
		t.Error("resizing must not reset the board")
	}
}
