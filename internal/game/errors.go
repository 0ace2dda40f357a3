package game

import "errors"

// Error taxonomy shared by the lobby, the manager and the transports.
// Call sites wrap these with context; callers match with errors.Is.
var (
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrNameConflict        = errors.New("name already in use")
	ErrInvalidName         = errors.New("name must not be empty")
	ErrNotFound            = errors.New("not found")
	ErrNotEmpty            = errors.New("lobby still has players")
	ErrGameInProgress      = errors.New("game in progress")
	ErrInsufficientPlayers = errors.New("not enough players")
	ErrNotReady            = errors.New("not every player is ready")
	ErrNotInLobby          = errors.New("player is not in a lobby")
	ErrInvalidDirection    = errors.New("invalid direction")
)
