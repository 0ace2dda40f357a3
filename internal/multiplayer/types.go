// Package multiplayer connects transports to lobbies. It owns the lobby
// directory, the table of connected sessions, and the routing of lobby
// events to the sessions that should see them.
package multiplayer

import (
	"fmt"

	"github.com/vovakirdan/pacsnake/internal/game"
)

// SessionID uniquely identifies a connected client (a websocket or an SSH
// session). It doubles as the player's id in whatever lobby they join and
// stays the same when the client reconnects.
type SessionID = game.PlayerID

// DefaultName derives a display name for a session that never set one.
func DefaultName(id SessionID) string {
	s := string(id)
	if len(s) > 4 {
		s = s[:4]
	}
	return fmt.Sprintf("Player-%s", s)
}
