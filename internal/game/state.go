package game

// State is the lobby lifecycle phase.
type State string

const (
	StateLobby       State = "lobby"
	StateCountdown   State = "countdown"
	StateRunning     State = "running"
	StateRoundOver   State = "round_over"
	StateRoundFailed State = "round_failed"
	StateGameOver    State = "game_over"
)

// Idle reports whether the lobby is waiting for players rather than playing.
func (s State) Idle() bool {
	return s == StateLobby
}

func (s State) String() string {
	return string(s)
}
