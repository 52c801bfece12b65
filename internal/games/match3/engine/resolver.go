// Package engine runs the cascade state machine on top of the match-3 rules:
// swap, destroy, fall and refill, each phase gated on the completion of its
// animations.
package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
	"github.com/vovakirdan/tui-match3/internal/trace"
)

// ErrBusy is returned when a swap is requested while a cascade is running.
var ErrBusy = errors.New("engine: resolver is not idle")

// Timing holds animation durations.
type Timing struct {
	Swap       time.Duration
	FallPerRow time.Duration // Fall time scales with rows fallen
	Destroy    time.Duration
}

// DefaultTiming returns the stock animation durations.
func DefaultTiming() Timing {
	return Timing{
		Swap:       200 * time.Millisecond,
		FallPerRow: 100 * time.Millisecond,
		Destroy:    200 * time.Millisecond,
	}
}

// Options configures a Resolver.
type Options struct {
	Colors    int       // Number of token colors, at least 1
	Rand      core.Rand // Refill source; seeded from the clock when nil
	Timing    Timing
	MaxPasses int        // Unguarded passes per cascade; 0 means Size*Size
	Sink      trace.Sink // Nil disables tracing
	Animator  Animator   // Nil completes every animation immediately
}

// Stats accumulates resolver activity.
type Stats struct {
	SwapsAccepted  int
	SwapsRejected  int
	Cascades       int
	Passes         int
	Destroyed      int
	Spawned        int
	GuardedRefills int
	LastPasses     int // Passes of the most recent cascade
	MaxPasses      int // Longest cascade seen
	Warnings       int
}

// Resolver owns the board while a cascade runs and hands it back to the
// player once it settles. It is single-threaded: all calls, including
// animation callbacks, must come from one goroutine.
type Resolver struct {
	grid      *core.Grid
	colors    int
	rng       core.Rand
	timing    Timing
	maxPasses int
	sink      trace.Sink
	anim      Animator

	pool    *Pool
	handles map[core.Coord]Handle

	state    State
	pass     int
	stats    Stats
	onSettle func()
}

// New creates a resolver for grid and places a visual for every token.
func New(grid *core.Grid, opts Options) (*Resolver, error) {
	if grid == nil || grid.Size <= 0 {
		return nil, fmt.Errorf("engine: empty grid")
	}
	if opts.Colors < 1 {
		return nil, fmt.Errorf("engine: colors must be positive, got %d", opts.Colors)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = grid.Size * grid.Size
	}
	if opts.Sink == nil {
		opts.Sink = trace.Nop{}
	}
	if opts.Animator == nil {
		opts.Animator = ImmediateAnimator{}
	}

	r := &Resolver{
		grid:      grid,
		colors:    opts.Colors,
		rng:       opts.Rand,
		timing:    opts.Timing,
		maxPasses: opts.MaxPasses,
		sink:      opts.Sink,
		anim:      opts.Animator,
		pool:      NewPool(grid.Size * grid.Size),
		handles:   make(map[core.Coord]Handle, grid.Size*grid.Size),
	}
	r.placeAll()
	return r, nil
}

// placeAll binds a visual to every occupied cell at rest.
func (r *Resolver) placeAll() {
	for c, h := range r.handles {
		r.anim.SetVisible(h, false)
		r.pool.Release(h)
		delete(r.handles, c)
	}
	for row := 0; row < r.grid.Size; row++ {
		for col := 0; col < r.grid.Size; col++ {
			c := core.C(row, col)
			color, occupied := r.grid.ColorAt(c)
			if !occupied {
				continue
			}
			h, ok := r.pool.Acquire()
			if !ok {
				r.warn("visual pool exhausted while placing the board")
				continue
			}
			r.handles[c] = h
			r.anim.Place(h, PosOf(c), color)
			r.anim.SetVisible(h, true)
		}
	}
}

// Grid returns the board. Callers must not mutate it.
func (r *Resolver) Grid() *core.Grid {
	return r.grid
}

// Colors returns the number of token colors.
func (r *Resolver) Colors() int {
	return r.colors
}

// State returns the current phase.
func (r *Resolver) State() State {
	return r.state
}

// Idle reports whether the resolver accepts input.
func (r *Resolver) Idle() bool {
	return r.state == StateIdle
}

// Pass returns the current cascade pass, 0 when no cascade is running.
func (r *Resolver) Pass() int {
	return r.pass
}

// Stats returns a snapshot of the counters.
func (r *Resolver) Stats() Stats {
	return r.stats
}

// HandleAt returns the visual bound to the token at c.
func (r *Resolver) HandleAt(c core.Coord) (Handle, bool) {
	h, ok := r.handles[c]
	return h, ok
}

// OnSettle registers fn to run every time the resolver returns to idle
// after a swap, whether it was accepted or reverted.
func (r *Resolver) OnSettle(fn func()) {
	r.onSettle = fn
}

// Reshuffle replaces the board with a fresh settled one.
func (r *Resolver) Reshuffle() error {
	if r.state != StateIdle {
		return ErrBusy
	}
	r.grid.Fill(r.colors, r.rng)
	r.placeAll()
	return nil
}

// RequestSwap starts a swap of two adjacent cells. The swap is applied to
// the grid at once; whether it is kept is decided after both tiles finish
// moving.
func (r *Resolver) RequestSwap(a, b core.Coord) error {
	if r.state != StateIdle {
		return ErrBusy
	}
	if err := r.grid.Swap(a, b); err != nil {
		return err
	}

	r.swapHandles(a, b)
	r.enter(StateSwapping)
	r.animateSwap(a, b, func() { r.afterSwap(a, b) })
	return nil
}

// swapHandles keeps the handle map following the tokens.
func (r *Resolver) swapHandles(a, b core.Coord) {
	ha, okA := r.handles[a]
	hb, okB := r.handles[b]
	delete(r.handles, a)
	delete(r.handles, b)
	if okA {
		r.handles[b] = ha
	}
	if okB {
		r.handles[a] = hb
	}
}

// animateSwap tweens the tokens now at a and b from their previous cells.
func (r *Resolver) animateSwap(a, b core.Coord, next func()) {
	bar := newBarrier(next)
	if h, ok := r.handles[a]; ok {
		r.anim.AnimateMove(h, PosOf(b), PosOf(a), r.timing.Swap, bar.add())
	}
	if h, ok := r.handles[b]; ok {
		r.anim.AnimateMove(h, PosOf(a), PosOf(b), r.timing.Swap, bar.add())
	}
	bar.release()
}

func (r *Resolver) afterSwap(a, b core.Coord) {
	if !r.grid.HasAnyMatch() {
		r.stats.SwapsRejected++
		r.emit(trace.KindSwapRejected, 0, fmt.Sprintf("%v<->%v", a, b))

		// Reverting an adjacent in-bounds pair cannot fail.
		_ = r.grid.Swap(a, b)
		r.swapHandles(a, b)
		r.enter(StateReverting)
		r.animateSwap(a, b, r.settle)
		return
	}

	r.stats.SwapsAccepted++
	r.stats.Cascades++
	r.emit(trace.KindSwapAccepted, 0, fmt.Sprintf("%v<->%v", a, b))
	r.pass = 0
	r.beginPass()
}

// beginPass destroys every matched token and fades its visual out.
func (r *Resolver) beginPass() {
	r.pass++
	r.stats.Passes++
	r.enter(StateMatching)

	runs := r.grid.FindRuns()
	mask := core.MaskFromRuns(r.grid.Size, runs)
	if !mask.Any() {
		r.warn("cascade pass started with an empty removal mask")
		r.collapse()
		return
	}
	r.emit(trace.KindMatchFound, len(runs), "")

	removed := r.grid.Destroy(mask)
	r.stats.Destroyed += len(removed)
	r.emit(trace.KindDestroyed, len(removed), "")

	bar := newBarrier(r.collapse)
	for _, rm := range removed {
		h, ok := r.handles[rm.At]
		if !ok {
			continue
		}
		delete(r.handles, rm.At)
		done := bar.add()
		r.anim.AnimateFade(h, 0, r.timing.Destroy, func() {
			r.anim.SetVisible(h, false)
			r.pool.Release(h)
			done()
		})
	}
	bar.release()
}

// collapse compacts the columns, refills the holes and animates both.
func (r *Resolver) collapse() {
	r.enter(StateFalling)

	falls := r.grid.Compact()
	// Falls come bottom-up per column, so each destination is already vacated.
	moved := make([]Handle, len(falls))
	hasVisual := make([]bool, len(falls))
	for i, f := range falls {
		h, ok := r.handles[f.From]
		if ok {
			delete(r.handles, f.From)
			r.handles[f.To] = h
		}
		moved[i], hasVisual[i] = h, ok
	}

	var spawns []core.Spawn
	if r.pass > r.maxPasses {
		spawns = r.grid.RefillGuarded(r.colors, r.rng)
		r.stats.GuardedRefills++
		r.warn(fmt.Sprintf("cascade exceeded %d passes, refilling without matches", r.maxPasses))
	} else {
		spawns = r.grid.Refill(r.colors, r.rng)
	}
	r.stats.Spawned += len(spawns)
	if len(spawns) > 0 {
		r.emit(trace.KindReplenished, len(spawns), "")
	}

	bar := newBarrier(r.afterCollapse)
	for i, f := range falls {
		if !hasVisual[i] {
			continue
		}
		r.anim.AnimateMove(moved[i], PosOf(f.From), PosOf(f.To), r.fallTime(f.Distance()), bar.add())
	}
	for _, s := range spawns {
		h, ok := r.pool.Acquire()
		if !ok {
			// The cell is filled either way; only its animation is lost.
			r.warn(fmt.Sprintf("visual pool exhausted, %v spawns without animation", s.At))
			continue
		}
		r.handles[s.At] = h
		from := PosOf(s.Origin())
		r.anim.Place(h, from, s.Color)
		r.anim.SetVisible(h, true)
		r.anim.AnimateMove(h, from, PosOf(s.At), r.fallTime(s.Drop), bar.add())
	}
	bar.release()
}

func (r *Resolver) afterCollapse() {
	if !r.grid.HasAnyMatch() {
		r.settle()
		return
	}
	// Guarded refills never complete a run with four or more colors, but
	// compaction alone can still line tokens up.
	if r.pass >= r.maxPasses+r.grid.Size*r.grid.Size {
		r.warn(fmt.Sprintf("cascade stopped after %d passes with matches left", r.pass))
		r.settle()
		return
	}
	r.beginPass()
}

func (r *Resolver) fallTime(rows int) time.Duration {
	return r.timing.FallPerRow * time.Duration(rows)
}

// settle returns to idle and notifies the settle hook.
func (r *Resolver) settle() {
	if r.pass > 0 {
		r.stats.LastPasses = r.pass
		if r.pass > r.stats.MaxPasses {
			r.stats.MaxPasses = r.pass
		}
		r.emit(trace.KindSettled, r.pass, "")
	}
	r.pass = 0
	r.enter(StateIdle)
	if r.onSettle != nil {
		r.onSettle()
	}
}

func (r *Resolver) enter(s State) {
	r.state = s
	r.emit(trace.KindStateEnter, 0, "")
}

func (r *Resolver) emit(kind trace.Kind, count int, detail string) {
	r.sink.Emit(trace.Event{
		Kind:   kind,
		State:  r.state.String(),
		Pass:   r.pass,
		Count:  count,
		Detail: detail,
	})
}

func (r *Resolver) warn(msg string) {
	r.stats.Warnings++
	r.emit(trace.KindWarning, 0, msg)
}
