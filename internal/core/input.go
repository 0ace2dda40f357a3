package core

// Action is a semantic client intent, abstracted from physical key presses.
// The terminal client maps keys to actions and actions to manager calls.
type Action int

const (
	ActionNone   Action = iota
	ActionUp            // W, Up arrow
	ActionDown          // S, Down arrow
	ActionLeft          // A, Left arrow
	ActionRight         // D, Right arrow
	ActionReady         // R - toggle ready while in a lobby
	ActionSpeed         // F - cycle the lobby speed
	ActionCreate        // N - create a lobby
	ActionJoin          // Enter - join the selected lobby
	ActionClose         // X - close the selected lobby
	ActionRename        // C - change display name
	ActionBack          // B, Esc - leave the lobby
	ActionQuit          // Q, Ctrl+C - end the session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionReady:
		return "Ready"
	case ActionSpeed:
		return "Speed"
	case ActionCreate:
		return "Create"
	case ActionJoin:
		return "Join"
	case ActionClose:
		return "Close"
	case ActionRename:
		return "Rename"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Direction returns the steering direction for movement actions.
// ok is false for every non-movement action.
func (a Action) Direction() (d Direction, ok bool) {
	switch a {
	case ActionUp:
		return DirUp, true
	case ActionDown:
		return DirDown, true
	case ActionLeft:
		return DirLeft, true
	case ActionRight:
		return DirRight, true
	}
	return 0, false
}
