package engine

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
	"github.com/vovakirdan/tui-match3/internal/trace"
)

// seqRand returns the configured values in order, wrapping around.
type seqRand struct {
	values []int
	next   int
}

func (r *seqRand) Intn(n int) int {
	v := r.values[r.next%len(r.values)] % n
	r.next++
	return v
}

func mustParse(t *testing.T, rows ...string) *core.Grid {
	t.Helper()
	g, err := core.ParseGrid(rows...)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	return g
}

func mustResolver(t *testing.T, g *core.Grid, opts Options) *Resolver {
	t.Helper()
	r, err := New(g, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

// swapFixture is settled; swapping (0,2) and (1,2) completes "AAA" in row 0.
func swapFixture(t *testing.T) *core.Grid {
	t.Helper()
	return mustParse(t,
		"AABC",
		"BCAD",
		"CDBA",
		"DACB",
	)
}

// checkVisuals verifies every token has a visible visual resting on its cell
// with the token's color.
func checkVisuals(t *testing.T, r *Resolver, anim *ManualAnimator) {
	t.Helper()
	g := r.Grid()
	seen := make(map[Handle]core.Coord)
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			c := core.C(row, col)
			h, ok := r.HandleAt(c)
			if !ok {
				t.Fatalf("no visual bound to %v", c)
			}
			if prev, dup := seen[h]; dup {
				t.Fatalf("handle %d bound to both %v and %v", h, prev, c)
			}
			seen[h] = c

			v, ok := anim.Visual(h)
			if !ok {
				t.Fatalf("%v: handle %d never placed", c, h)
			}
			color, _ := g.ColorAt(c)
			if v.At != PosOf(c) || v.Color != color || !v.Visible || v.Alpha != 1 {
				t.Fatalf("%v: visual %+v does not match token color %d", c, v, color)
			}
		}
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(nil, Options{Colors: 4}); err == nil {
		t.Error("expected error for nil grid")
	}
	if _, err := New(core.NewGrid(4), Options{}); err == nil {
		t.Error("expected error for zero colors")
	}
}

func TestNewPlacesEveryToken(t *testing.T) {
	anim := NewManualAnimator()
	r := mustResolver(t, swapFixture(t), Options{Colors: 4, Animator: anim})

	if !r.Idle() {
		t.Fatalf("expected idle, got %v", r.State())
	}
	checkVisuals(t, r, anim)
}

func TestSwapOrderingAndCascade(t *testing.T) {
	anim := NewManualAnimator()
	rec := &trace.Recorder{}
	timing := DefaultTiming()
	r := mustResolver(t, swapFixture(t), Options{
		Colors:   4,
		Rand:     &seqRand{values: []int{3, 0, 2}}, // refill row 0 with D A C
		Timing:   timing,
		Sink:     rec,
		Animator: anim,
	})
	settled := 0
	r.OnSettle(func() { settled++ })

	if err := r.RequestSwap(core.C(0, 2), core.C(1, 2)); err != nil {
		t.Fatalf("RequestSwap: %v", err)
	}
	if r.State() != StateSwapping || anim.Len() != 2 {
		t.Fatalf("expected swapping with 2 moves, got %v with %d", r.State(), anim.Len())
	}
	for _, a := range anim.Pending() {
		if a.Kind != AnimMove || a.Duration != timing.Swap {
			t.Errorf("unexpected swap animation %+v", a)
		}
	}

	// Both swap tweens must finish before match checking.
	anim.Complete(0)
	if r.State() != StateSwapping {
		t.Fatalf("advanced after one swap tween: %v", r.State())
	}
	anim.Complete(0)
	if r.State() != StateMatching || anim.Len() != 3 {
		t.Fatalf("expected matching with 3 fades, got %v with %d", r.State(), anim.Len())
	}

	// All destroy fades must finish before compaction and refill.
	anim.Complete(0)
	anim.Complete(0)
	if r.State() != StateMatching {
		t.Fatalf("advanced before every fade finished: %v", r.State())
	}
	if r.Grid().HoleCount() != 3 {
		t.Fatalf("expected 3 holes while fading, got %d", r.Grid().HoleCount())
	}
	anim.Complete(0)
	if r.State() != StateFalling || anim.Len() != 3 {
		t.Fatalf("expected falling with 3 spawns, got %v with %d", r.State(), anim.Len())
	}
	for _, a := range anim.Pending() {
		if a.From.Row != -1 || a.To.Row != 0 || a.Duration != timing.FallPerRow {
			t.Errorf("unexpected spawn animation %+v", a)
		}
	}

	// All fall and spawn tweens must finish before the re-check.
	anim.Complete(0)
	anim.Complete(0)
	if r.State() != StateFalling || settled != 0 {
		t.Fatalf("re-checked before every spawn landed: %v", r.State())
	}
	anim.Complete(0)
	if !r.Idle() || settled != 1 {
		t.Fatalf("expected one settle, got state %v and %d settles", r.State(), settled)
	}

	want := mustParse(t,
		"DACC",
		"BCBD",
		"CDBA",
		"DACB",
	)
	if !r.Grid().Equal(want) {
		t.Errorf("unexpected board:\n%s", r.Grid())
	}
	checkVisuals(t, r, anim)

	stats := r.Stats()
	if stats.SwapsAccepted != 1 || stats.Passes != 1 || stats.Destroyed != 3 || stats.Spawned != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if rec.Count(trace.KindSwapAccepted) != 1 || rec.Count(trace.KindSettled) != 1 {
		t.Errorf("unexpected trace: %v", rec.Events)
	}
	if rec.Count(trace.KindWarning) != 0 {
		t.Errorf("unexpected warnings: %v", rec.Events)
	}
}

func TestRejectedSwapReverts(t *testing.T) {
	anim := NewManualAnimator()
	rec := &trace.Recorder{}
	g := swapFixture(t)
	before := g.Clone()
	r := mustResolver(t, g, Options{Colors: 4, Sink: rec, Animator: anim})
	settled := 0
	r.OnSettle(func() { settled++ })

	if err := r.RequestSwap(core.C(3, 0), core.C(3, 1)); err != nil {
		t.Fatalf("RequestSwap: %v", err)
	}
	anim.CompleteAll()
	if r.State() != StateReverting || anim.Len() != 2 {
		t.Fatalf("expected reverting with 2 moves, got %v with %d", r.State(), anim.Len())
	}
	if !r.Grid().Equal(before) {
		t.Error("grid should already be restored while the revert animates")
	}
	if err := r.RequestSwap(core.C(0, 0), core.C(0, 1)); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while reverting, got %v", err)
	}

	anim.CompleteAll()
	if !r.Idle() || settled != 1 {
		t.Fatalf("expected idle after revert, got %v (%d settles)", r.State(), settled)
	}
	if !r.Grid().Equal(before) {
		t.Errorf("rejected swap changed the board:\n%s", r.Grid())
	}
	checkVisuals(t, r, anim)
	if r.Stats().SwapsRejected != 1 || rec.Count(trace.KindSwapRejected) != 1 {
		t.Errorf("expected one rejected swap, got %+v", r.Stats())
	}
}

func TestRequestSwapValidation(t *testing.T) {
	anim := NewManualAnimator()
	r := mustResolver(t, swapFixture(t), Options{Colors: 4, Animator: anim})

	testCases := []struct {
		name string
		a, b core.Coord
		want error
	}{
		{"not adjacent", core.C(0, 0), core.C(2, 0), core.ErrNotAdjacent},
		{"diagonal", core.C(0, 0), core.C(1, 1), core.ErrNotAdjacent},
		{"out of bounds", core.C(0, 3), core.C(0, 4), core.ErrOutOfBounds},
	}
	for _, tc := range testCases {
		if err := r.RequestSwap(tc.a, tc.b); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if !r.Idle() || anim.Len() != 0 {
		t.Errorf("invalid swaps must not start animations, got %v with %d pending", r.State(), anim.Len())
	}

	if err := r.RequestSwap(core.C(0, 2), core.C(1, 2)); err != nil {
		t.Fatalf("RequestSwap: %v", err)
	}
	if err := r.RequestSwap(core.C(3, 0), core.C(3, 1)); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy during a swap, got %v", err)
	}
	if err := r.Reshuffle(); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy for reshuffle during a swap, got %v", err)
	}
}

// scenarioRows builds a 7x7, 6-color settled board whose column 3 reads
// A A B A from the top; swapping rows 2 and 3 there completes a vertical run.
func scenarioRows() []string {
	rows := make([]string, 7)
	for r := 0; r < 7; r++ {
		var sb strings.Builder
		for c := 0; c < 7; c++ {
			color := (r + 2*c) % 6
			if c == 3 && r < 4 {
				color = []int{0, 0, 1, 0}[r]
			}
			sb.WriteByte(byte('A' + color))
		}
		rows[r] = sb.String()
	}
	return rows
}

func TestEndToEndColumnScenario(t *testing.T) {
	g := mustParse(t, scenarioRows()...)
	if g.HasAnyMatch() {
		t.Fatalf("scenario must start settled:\n%s", g)
	}

	swapped := g.Clone()
	if err := swapped.Swap(core.C(2, 3), core.C(3, 3)); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	marked := swapped.FindAllMatches().Coords()
	want := []core.Coord{core.C(0, 3), core.C(1, 3), core.C(2, 3)}
	if len(marked) != len(want) {
		t.Fatalf("expected exactly %v marked, got %v", want, marked)
	}
	for i := range want {
		if marked[i] != want[i] {
			t.Fatalf("expected exactly %v marked, got %v", want, marked)
		}
	}

	anim := NewManualAnimator()
	rec := &trace.Recorder{}
	timing := DefaultTiming()
	r := mustResolver(t, g, Options{
		Colors:   6,
		Rand:     rand.New(rand.NewSource(99)),
		Timing:   timing,
		Sink:     rec,
		Animator: anim,
	})
	if err := r.RequestSwap(core.C(2, 3), core.C(3, 3)); err != nil {
		t.Fatalf("RequestSwap: %v", err)
	}
	anim.CompleteAll()
	if r.State() != StateMatching || anim.Len() != 3 {
		t.Fatalf("expected 3 destroy fades, got %v with %d", r.State(), anim.Len())
	}

	anim.CompleteAll()
	if r.State() != StateFalling {
		t.Fatalf("expected falling, got %v", r.State())
	}
	pending := anim.Pending()
	if len(pending) != 3 {
		t.Fatalf("expected 3 spawns and no falls, got %+v", pending)
	}
	for i, p := range pending {
		if p.To != PosOf(core.C(i, 3)) || p.From.Row != float64(i-3) {
			t.Errorf("spawn %d: unexpected tween %+v", i, p)
		}
		if p.Duration != 3*timing.FallPerRow {
			t.Errorf("spawn %d: expected %v, got %v", i, 3*timing.FallPerRow, p.Duration)
		}
	}
	if c, _ := r.Grid().ColorAt(core.C(3, 3)); c != 1 {
		t.Errorf("the swapped B should rest at (3,3), got %d", c)
	}
	if r.Grid().HoleCount() != 0 {
		t.Errorf("expected the column refilled, got %d holes", r.Grid().HoleCount())
	}

	anim.Drain()
	if !r.Idle() {
		t.Fatalf("expected the cascade to settle, got %v", r.State())
	}
	if r.Grid().HasAnyMatch() || r.Grid().HoleCount() != 0 {
		t.Errorf("board not settled:\n%s", r.Grid())
	}
	checkVisuals(t, r, anim)

	destroyed := 0
	for _, e := range rec.Events {
		if e.Kind == trace.KindDestroyed && e.Pass == 1 {
			destroyed += e.Count
		}
	}
	if destroyed != 3 {
		t.Errorf("expected the first pass to destroy 3, traced %d", destroyed)
	}
}

func TestSettledInvariantRandomPlay(t *testing.T) {
	timing := DefaultTiming()
	for seed := int64(1); seed <= 15; seed++ {
		rng := rand.New(rand.NewSource(seed))
		size := 5 + int(seed%4)
		colors := 4 + int(seed%3)
		anim := NewManualAnimator()
		g := core.Generate(size, colors, rng)
		r := mustResolver(t, g, Options{Colors: colors, Rand: rng, Timing: timing, Animator: anim})

		for move := 0; move < 40; move++ {
			a := core.C(rng.Intn(size), rng.Intn(size))
			b := a.Step(core.Dir(rng.Intn(4)))
			if !g.InBounds(b) {
				continue
			}
			if err := r.RequestSwap(a, b); err != nil {
				t.Fatalf("seed %d: RequestSwap(%v, %v): %v", seed, a, b, err)
			}
			for anim.Len() > 0 {
				if r.State() == StateFalling {
					for _, p := range anim.Pending() {
						want := timing.FallPerRow * time.Duration(p.To.Row-p.From.Row)
						if p.Duration != want {
							t.Fatalf("seed %d: fall %+v should take %v", seed, p, want)
						}
					}
				}
				anim.CompleteAll()
			}

			if !r.Idle() {
				t.Fatalf("seed %d: not idle after draining, state %v", seed, r.State())
			}
			if g.HasAnyMatch() || g.HoleCount() != 0 {
				t.Fatalf("seed %d move %d: board not settled:\n%s", seed, move, g)
			}
			checkVisuals(t, r, anim)
		}
		if r.Stats().Warnings != 0 {
			t.Errorf("seed %d: unexpected warnings %+v", seed, r.Stats())
		}
	}
}

func TestCascadeGuardBoundsPasses(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := core.Generate(8, 4, rng)
		r := mustResolver(t, g, Options{Colors: 4, Rand: rng, MaxPasses: 1})

		for move := 0; move < 30; move++ {
			a := core.C(rng.Intn(8), rng.Intn(7))
			if err := r.RequestSwap(a, a.Add(0, 1)); err != nil {
				t.Fatalf("RequestSwap: %v", err)
			}
			if g.HasAnyMatch() {
				t.Fatalf("seed %d: board not settled:\n%s", seed, g)
			}
		}
		if st := r.Stats(); st.MaxPasses > 1+64 || st.Warnings != st.GuardedRefills {
			t.Errorf("seed %d: unexpected stats %+v", seed, st)
		}
	}
}

func TestCascadeTerminatesWithOneColor(t *testing.T) {
	g := mustParse(t,
		"AAAA",
		"AAAA",
		"AAAA",
		"AAAA",
	)
	r := mustResolver(t, g, Options{Colors: 1, Rand: rand.New(rand.NewSource(1))})

	if err := r.RequestSwap(core.C(0, 0), core.C(0, 1)); err != nil {
		t.Fatalf("RequestSwap: %v", err)
	}
	if !r.Idle() {
		t.Fatalf("expected cascade to stop, got %v", r.State())
	}
	if got := r.Stats().LastPasses; got != 2*16 {
		t.Errorf("expected the cascade to stop at %d passes, got %d", 2*16, got)
	}
	if r.Stats().Warnings == 0 {
		t.Error("expected a warning for the forced stop")
	}
}

func TestReshuffle(t *testing.T) {
	anim := NewManualAnimator()
	g := swapFixture(t)
	before := g.Clone()
	r := mustResolver(t, g, Options{Colors: 4, Rand: rand.New(rand.NewSource(5)), Animator: anim})

	if err := r.Reshuffle(); err != nil {
		t.Fatalf("Reshuffle: %v", err)
	}
	if g.Equal(before) {
		t.Log("reshuffle produced the same board; unlikely but legal")
	}
	if g.HasAnyMatch() || g.HoleCount() != 0 {
		t.Errorf("reshuffled board not settled:\n%s", g)
	}
	checkVisuals(t, r, anim)
}

func TestEmptyPassWarnsAndSettles(t *testing.T) {
	g := swapFixture(t)
	before := g.Clone()
	rec := &trace.Recorder{}
	r := mustResolver(t, g, Options{Colors: 4, Sink: rec})

	r.beginPass()

	if !r.Idle() {
		t.Fatalf("state = %v, want idle", r.State())
	}
	if !g.Equal(before) {
		t.Errorf("an empty pass changed the board:\n%v", g)
	}
	if r.Stats().Warnings != 1 || rec.Count(trace.KindWarning) != 1 {
		t.Errorf("warnings = %d, events %v", r.Stats().Warnings, rec.Events)
	}
	if rec.Count(trace.KindDestroyed) != 0 || rec.Count(trace.KindSettled) != 1 {
		t.Errorf("unexpected trace: %v", rec.Events)
	}
}

func TestPoolExhaustionStillRefills(t *testing.T) {
	g := swapFixture(t)
	rec := &trace.Recorder{}
	r := mustResolver(t, g, Options{Colors: 4, Sink: rec, Rand: &seqRand{values: []int{2}}})
	if r.pool.Available() != 0 {
		t.Fatalf("a full board should hold every handle, %d free", r.pool.Available())
	}

	g.Set(core.C(0, 3), core.Hole())
	r.collapse()

	if !r.Idle() {
		t.Fatalf("state = %v, want idle", r.State())
	}
	if g.HoleCount() != 0 {
		t.Errorf("column left under-populated:\n%v", g)
	}
	if color, ok := g.ColorAt(core.C(0, 3)); !ok || color != 2 {
		t.Errorf("refilled cell = %v %v, want color 2", color, ok)
	}
	if r.Stats().Warnings != 1 || r.Stats().Spawned != 1 {
		t.Errorf("stats %+v", r.Stats())
	}
	found := false
	for _, e := range rec.Events {
		if e.Kind == trace.KindWarning && strings.Contains(e.Detail, "pool exhausted") {
			found = true
		}
	}
	if !found {
		t.Errorf("no pool warning in %v", rec.Events)
	}
}
