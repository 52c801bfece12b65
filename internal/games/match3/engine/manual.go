package engine

import (
	"time"

	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// AnimKind distinguishes queued animations.
type AnimKind uint8

const (
	AnimMove AnimKind = iota
	AnimFade
)

// String returns the string representation of an animation kind.
func (k AnimKind) String() string {
	if k == AnimFade {
		return "fade"
	}
	return "move"
}

// Anim is an animation queued on a ManualAnimator.
type Anim struct {
	Kind     AnimKind
	Handle   Handle
	From, To Pos
	Alpha    float64
	Duration time.Duration
	done     func()
}

// Visual is the state a ManualAnimator tracks per handle.
type Visual struct {
	At      Pos
	Color   core.Color
	Alpha   float64
	Visible bool
}

// ManualAnimator queues every animation until the caller completes it, so
// tests can release completions one by one and observe the resolver in
// between. It also tracks where each visual ends up.
type ManualAnimator struct {
	pending []Anim
	visuals map[Handle]*Visual
}

// NewManualAnimator creates an animator with an empty queue.
func NewManualAnimator() *ManualAnimator {
	return &ManualAnimator{visuals: make(map[Handle]*Visual)}
}

func (m *ManualAnimator) visual(h Handle) *Visual {
	v, ok := m.visuals[h]
	if !ok {
		v = &Visual{Alpha: 1}
		m.visuals[h] = v
	}
	return v
}

// Place implements Animator.
func (m *ManualAnimator) Place(h Handle, at Pos, color core.Color) {
	v := m.visual(h)
	v.At, v.Color, v.Alpha = at, color, 1
}

// AnimateMove implements Animator.
func (m *ManualAnimator) AnimateMove(h Handle, from, to Pos, d time.Duration, done func()) {
	m.visual(h).At = from
	m.pending = append(m.pending, Anim{Kind: AnimMove, Handle: h, From: from, To: to, Duration: d, done: done})
}

// AnimateFade implements Animator.
func (m *ManualAnimator) AnimateFade(h Handle, alpha float64, d time.Duration, done func()) {
	m.pending = append(m.pending, Anim{Kind: AnimFade, Handle: h, Alpha: alpha, Duration: d, done: done})
}

// SetVisible implements Animator.
func (m *ManualAnimator) SetVisible(h Handle, visible bool) {
	m.visual(h).Visible = visible
}

// Len returns the number of queued animations.
func (m *ManualAnimator) Len() int {
	return len(m.pending)
}

// Pending returns a copy of the queue.
func (m *ManualAnimator) Pending() []Anim {
	out := make([]Anim, len(m.pending))
	copy(out, m.pending)
	return out
}

// Visual returns the tracked state of a handle.
func (m *ManualAnimator) Visual(h Handle) (Visual, bool) {
	v, ok := m.visuals[h]
	if !ok {
		return Visual{}, false
	}
	return *v, true
}

// Complete finishes the i-th queued animation and runs its callback.
// Returns false when i is out of range.
func (m *ManualAnimator) Complete(i int) bool {
	if i < 0 || i >= len(m.pending) {
		return false
	}
	a := m.pending[i]
	m.pending = append(m.pending[:i], m.pending[i+1:]...)

	v := m.visual(a.Handle)
	switch a.Kind {
	case AnimMove:
		v.At = a.To
	case AnimFade:
		v.Alpha = a.Alpha
	}
	a.done()
	return true
}

// CompleteAll finishes the animations queued at call time, oldest first.
// Animations queued by their callbacks stay pending. Returns how many ran.
func (m *ManualAnimator) CompleteAll() int {
	n := len(m.pending)
	for i := 0; i < n; i++ {
		m.Complete(0)
	}
	return n
}

// Drain completes animations until the queue stays empty.
func (m *ManualAnimator) Drain() int {
	total := 0
	for m.Len() > 0 {
		total += m.CompleteAll()
	}
	return total
}
