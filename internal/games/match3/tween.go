package match3

import (
	"time"

	m3core "github.com/vovakirdan/tui-match3/internal/games/match3/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

// tileVisual is what the board renderer draws for one handle.
type tileVisual struct {
	At      engine.Pos
	Color   m3core.Color
	Alpha   float64
	Visible bool
}

type tweenKind uint8

const (
	tweenMove tweenKind = iota
	tweenFade
)

// tween is one running animation.
type tween struct {
	kind      tweenKind
	handle    engine.Handle
	from, to  engine.Pos
	fromAlpha float64
	toAlpha   float64
	elapsed   time.Duration
	duration  time.Duration
	done      func()
}

// TweenAnimator implements engine.Animator on simulation ticks: Advance
// moves every running tween forward by the tick duration and then reports
// the tweens that finished.
type TweenAnimator struct {
	visuals []tileVisual
	active  []tween
}

// NewTweenAnimator creates an animator with room for capacity handles.
func NewTweenAnimator(capacity int) *TweenAnimator {
	return &TweenAnimator{visuals: make([]tileVisual, capacity)}
}

func (a *TweenAnimator) visual(h engine.Handle) *tileVisual {
	for int(h) >= len(a.visuals) {
		a.visuals = append(a.visuals, tileVisual{})
	}
	return &a.visuals[h]
}

// Place implements engine.Animator.
func (a *TweenAnimator) Place(h engine.Handle, at engine.Pos, color m3core.Color) {
	v := a.visual(h)
	v.At, v.Color, v.Alpha = at, color, 1
}

// AnimateMove implements engine.Animator.
func (a *TweenAnimator) AnimateMove(h engine.Handle, from, to engine.Pos, d time.Duration, done func()) {
	a.visual(h).At = from
	a.active = append(a.active, tween{kind: tweenMove, handle: h, from: from, to: to, duration: d, done: done})
}

// AnimateFade implements engine.Animator.
func (a *TweenAnimator) AnimateFade(h engine.Handle, alpha float64, d time.Duration, done func()) {
	v := a.visual(h)
	a.active = append(a.active, tween{kind: tweenFade, handle: h, fromAlpha: v.Alpha, toAlpha: alpha, duration: d, done: done})
}

// SetVisible implements engine.Animator.
func (a *TweenAnimator) SetVisible(h engine.Handle, visible bool) {
	a.visual(h).Visible = visible
}

// Busy reports whether any tween is running.
func (a *TweenAnimator) Busy() bool {
	return len(a.active) > 0
}

// Advance moves every running tween forward by dt. Callbacks of finished
// tweens run after the update, so tweens they start begin on the next tick.
// Returns how many tweens finished.
func (a *TweenAnimator) Advance(dt time.Duration) int {
	var finished []func()
	running := a.active[:0]
	for _, tw := range a.active {
		tw.elapsed += dt
		progress := 1.0
		if tw.duration > 0 && tw.elapsed < tw.duration {
			progress = float64(tw.elapsed) / float64(tw.duration)
		}

		v := a.visual(tw.handle)
		switch tw.kind {
		case tweenMove:
			v.At = tw.from.Lerp(tw.to, easeOutQuad(progress))
		case tweenFade:
			v.Alpha = tw.fromAlpha + (tw.toAlpha-tw.fromAlpha)*progress
		}

		if progress >= 1 {
			finished = append(finished, tw.done)
			continue
		}
		running = append(running, tw)
	}
	// Clear the tail so finished callbacks can be collected.
	for i := len(running); i < len(a.active); i++ {
		a.active[i] = tween{}
	}
	a.active = running

	for _, done := range finished {
		done()
	}
	return len(finished)
}

// Flush finishes every tween, including the ones started by callbacks.
func (a *TweenAnimator) Flush() {
	for a.Busy() {
		a.Advance(time.Hour)
	}
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}
