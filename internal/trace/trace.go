// Package trace carries the diagnostic events the cascade engine emits and
// the sinks that consume them. Sinks are purely informational: the engine
// never looks at what a sink does with an event.
package trace

import (
	"fmt"
	"strings"
)

// Kind identifies what happened.
type Kind string

const (
	KindStateEnter   Kind = "state_enter"
	KindSwapAccepted Kind = "swap_accepted"
	KindSwapRejected Kind = "swap_rejected"
	KindMatchFound   Kind = "match_found"
	KindDestroyed    Kind = "destroyed"
	KindReplenished  Kind = "replenished"
	KindSettled      Kind = "settled"
	KindWarning      Kind = "warning"
)

// Event is one structured trace record.
type Event struct {
	Kind   Kind
	State  string // Resolver state when the event was emitted
	Pass   int    // Cascade pass number, 0 outside a cascade
	Count  int    // Runs found, tokens destroyed or spawned, depending on Kind
	Detail string
}

// IsWarning reports whether the event signals an invariant or resource problem.
func (e Event) IsWarning() bool {
	return e.Kind == KindWarning
}

// String renders the event on one line.
func (e Event) String() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.State != "" {
		fmt.Fprintf(&sb, " state=%s", e.State)
	}
	if e.Pass > 0 {
		fmt.Fprintf(&sb, " pass=%d", e.Pass)
	}
	if e.Count > 0 {
		fmt.Fprintf(&sb, " count=%d", e.Count)
	}
	if e.Detail != "" {
		fmt.Fprintf(&sb, " %s", e.Detail)
	}
	return sb.String()
}

// Sink receives trace events.
type Sink interface {
	Emit(e Event)
}

// Nop discards every event.
type Nop struct{}

// Emit implements Sink.
func (Nop) Emit(Event) {}

// multi fans one event out to several sinks.
type multi []Sink

func (m multi) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

// Multi returns a sink that forwards to every non-nil sink in order.
// With no sinks left it returns Nop.
func Multi(sinks ...Sink) Sink {
	var out multi
	for _, s := range sinks {
		if s == nil {
			continue
		}
		if _, ok := s.(Nop); ok {
			continue
		}
		out = append(out, s)
	}
	switch len(out) {
	case 0:
		return Nop{}
	case 1:
		return out[0]
	}
	return out
}

// Recorder collects events in memory. Useful for tests and the simulator.
type Recorder struct {
	Events []Event
}

// Emit implements Sink.
func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

// Count returns how many recorded events have the given kind.
func (r *Recorder) Count(kind Kind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}
