// Package registry is the catalog of playable board variants. Game packages
// register their variants from init so commands and menus can find them by ID.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/trace"
)

// ErrUnknown is returned by Create for an ID nobody registered.
var ErrUnknown = errors.New("registry: unknown variant")

// Game is what the platform drives each tick. Implementations hold no
// terminal state; the platform maps input, keeps time and paints the screen.
type Game interface {
	// ID is the variant identifier used on the command line and in the journal.
	ID() string
	Title() string

	// Reset starts a new session with a fresh settled board.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick with the input gathered since the last one.
	Step(in core.InputFrame) core.StepResult

	// Render paints into dst. The layout follows dst's size, so a resize
	// never resets the session.
	Render(dst *core.Screen)

	State() core.GameState
}

// Traceable games emit engine trace events. The platform attaches a sink
// after Reset and records the board shape with the journal session.
type Traceable interface {
	SetTraceSink(sink trace.Sink)
	Board() (size, colors int)
}

// Info describes a registered variant.
type Info struct {
	ID    string
	Title string
}

// Factory builds a fresh, not yet Reset, game.
type Factory func() Game

type entry struct {
	info    Info
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = map[string]entry{}
	order   []string
)

// Register adds a variant. It panics on an empty or duplicate ID.
func Register(info Info, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if info.ID == "" {
		panic("registry: empty variant id")
	}
	if _, dup := entries[info.ID]; dup {
		panic(fmt.Sprintf("registry: variant %q already registered", info.ID))
	}
	entries[info.ID] = entry{info: info, factory: f}
	order = append(order, info.ID)
}

// List returns every variant in registration order.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Info, 0, len(order))
	for _, id := range order {
		out = append(out, entries[id].info)
	}
	return out
}

// Lookup returns the variant registered under id.
func Lookup(id string) (Info, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	return e.info, ok
}

// Create builds a new game for id.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, id)
	}
	return e.factory(), nil
}
