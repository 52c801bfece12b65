package engine

// State is a phase of the cascade state machine.
type State uint8

const (
	// StateIdle accepts input; the board is settled.
	StateIdle State = iota
	// StateSwapping waits for the two swap tweens.
	StateSwapping
	// StateReverting waits for a rejected swap to tween back.
	StateReverting
	// StateMatching waits for the destroy fades of one pass.
	StateMatching
	// StateFalling waits for the fall and spawn tweens of one pass.
	StateFalling
)

// String returns the string representation of a state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSwapping:
		return "swapping"
	case StateReverting:
		return "reverting"
	case StateMatching:
		return "matching"
	case StateFalling:
		return "falling"
	default:
		return "unknown"
	}
}
