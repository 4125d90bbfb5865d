package room

// State is the lifecycle stage of the room's session.
type State int

const (
	// StateEmpty means no player is registered.
	StateEmpty State = iota
	// StateWaiting means one player is registered and waits for an opponent.
	StateWaiting
	// StateInProgress means both players are registered and moves are accepted.
	StateInProgress
	// StateEnded means the last game finished and the room waits for both
	// players to ask for a new one.
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateWaiting:
		return "waiting"
	case StateInProgress:
		return "in_progress"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// idleState is the state of a room without a running game holding n players.
func idleState(n int) State {
	if n == 0 {
		return StateEmpty
	}
	return StateWaiting
}
