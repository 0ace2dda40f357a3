package multiplayer

import "github.com/vovakirdan/pacsnake/internal/core"

// Command is an inbound request from a session. The set is closed: every
// implementation lives in this file and Dispatch handles each one.
type Command interface {
	command()
}

// CreateLobbyCmd creates an empty lobby.
type CreateLobbyCmd struct {
	Name string
}

// JoinLobbyCmd joins a lobby, leaving the current one first.
type JoinLobbyCmd struct {
	Lobby string
}

// LeaveLobbyCmd leaves the current lobby.
type LeaveLobbyCmd struct{}

// SetReadyCmd sets the ready flag.
type SetReadyCmd struct {
	Ready bool
}

// ToggleReadyCmd flips the ready flag.
type ToggleReadyCmd struct{}

// SetDirectionCmd steers the player's snake.
type SetDirectionCmd struct {
	Direction core.Direction
}

// ChangeSpeedCmd cycles the speed of a lobby. An empty Lobby means the
// sender's current lobby.
type ChangeSpeedCmd struct {
	Lobby string
}

// CloseLobbyCmd deletes an empty, idle lobby.
type CloseLobbyCmd struct {
	Name string
}

// RenameCmd changes the sender's display name.
type RenameCmd struct {
	Name string
}

// LobbyListCmd asks for the lobby directory.
type LobbyListCmd struct{}

// LobbyHeaderCmd asks which lobby the sender is in.
type LobbyHeaderCmd struct{}

func (CreateLobbyCmd) command()  {}
func (JoinLobbyCmd) command()    {}
func (LeaveLobbyCmd) command()   {}
func (SetReadyCmd) command()     {}
func (ToggleReadyCmd) command()  {}
func (SetDirectionCmd) command() {}
func (ChangeSpeedCmd) command()  {}
func (CloseLobbyCmd) command()   {}
func (RenameCmd) command()       {}
func (LobbyListCmd) command()    {}
func (LobbyHeaderCmd) command()  {}
