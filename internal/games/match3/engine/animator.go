package engine

import (
	"time"

	"github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// Handle identifies one pooled tile visual.
type Handle int

// Pos is a continuous board position measured in cells.
// Rows above the board are negative.
type Pos struct {
	Row float64
	Col float64
}

// PosOf returns the resting position of the cell at c.
func PosOf(c core.Coord) Pos {
	return Pos{Row: float64(c.Row), Col: float64(c.Col)}
}

// Lerp interpolates between p and q; t=0 gives p, t=1 gives q.
func (p Pos) Lerp(q Pos, t float64) Pos {
	return Pos{
		Row: p.Row + (q.Row-p.Row)*t,
		Col: p.Col + (q.Col-p.Col)*t,
	}
}

// Animator renders tile transitions and reports their completion.
// The resolver never assumes a done callback runs synchronously, and every
// callback it passes must be invoked exactly once.
type Animator interface {
	// Place positions a visual at rest with the given token color and full opacity.
	Place(h Handle, at Pos, color core.Color)
	// AnimateMove tweens a visual from one position to another.
	AnimateMove(h Handle, from, to Pos, d time.Duration, done func())
	// AnimateFade tweens a visual's opacity toward alpha.
	AnimateFade(h Handle, alpha float64, d time.Duration, done func())
	// SetVisible shows or hides a visual.
	SetVisible(h Handle, visible bool)
}

// ImmediateAnimator completes every animation at once, inside the call.
// It drives the resolver headless, as the simulator does.
type ImmediateAnimator struct{}

// Place implements Animator.
func (ImmediateAnimator) Place(Handle, Pos, core.Color) {}

// AnimateMove implements Animator.
func (ImmediateAnimator) AnimateMove(_ Handle, _, _ Pos, _ time.Duration, done func()) {
	done()
}

// AnimateFade implements Animator.
func (ImmediateAnimator) AnimateFade(_ Handle, _ float64, _ time.Duration, done func()) {
	done()
}

// SetVisible implements Animator.
func (ImmediateAnimator) SetVisible(Handle, bool) {}
