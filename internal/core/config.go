package core

import "time"

// DefaultTickRate is the simulation rate used when none is configured.
const DefaultTickRate = 60

// RuntimeConfig is what the platform hands a game on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in cells
	ScreenH  int   // Screen height in cells
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 asks the platform to pick one
}

// DefaultConfig returns an 80x24 runtime at DefaultTickRate.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: DefaultTickRate}
}

// TickInterval is the simulated time covered by one Step.
func (c RuntimeConfig) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return time.Second / time.Duration(rate)
}

// WithDefaults fills in a missing tick rate and, when seed is zero, a
// time-based seed.
func (c RuntimeConfig) WithDefaults(now time.Time) RuntimeConfig {
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.Seed == 0 {
		c.Seed = now.UnixNano()
	}
	return c
}

// GameState is the status a game reports to the platform after each tick.
type GameState struct {
	Phase  string // Engine phase name, e.g. "idle" or "falling"
	Locked bool   // A swap or cascade is in flight
	Paused bool
	Moves  int // Accepted swaps this session
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State GameState
}
