package multiplayer

import "github.com/vovakirdan/pacsnake/internal/game"

// SessionEvent represents an event sent from the manager to a session.
// The set is closed: every implementation lives in this file.
type SessionEvent interface {
	sessionEvent()
}

// GameEvent carries a lobby state change and the snapshot that goes with it.
type GameEvent struct {
	Kind     game.EventKind
	Lobby    string
	Snapshot game.Snapshot
}

func (GameEvent) sessionEvent() {}

// LobbyListEvent carries the current lobby directory.
type LobbyListEvent struct {
	Lobbies []game.Summary
}

func (LobbyListEvent) sessionEvent() {}

// JoinedLobbyEvent confirms a join.
type JoinedLobbyEvent struct {
	Lobby string
}

func (JoinedLobbyEvent) sessionEvent() {}

// LeftLobbyEvent confirms a leave.
type LeftLobbyEvent struct {
	Lobby string
}

func (LeftLobbyEvent) sessionEvent() {}

// LobbyHeaderEvent tells the client which lobby it is in; empty when none.
type LobbyHeaderEvent struct {
	Lobby string
}

func (LobbyHeaderEvent) sessionEvent() {}

// NameUpdatedEvent confirms a display name change.
type NameUpdatedEvent struct {
	Name string
}

func (NameUpdatedEvent) sessionEvent() {}

// MessageEvent is a human-readable notice or error for one session.
type MessageEvent struct {
	Message string
}

func (MessageEvent) sessionEvent() {}

// SessionOpenedEvent tells a client the id it was bound to.
type SessionOpenedEvent struct {
	ID   SessionID
	Name string
}

func (SessionOpenedEvent) sessionEvent() {}
