package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/pacsnake/internal/core"
	"github.com/vovakirdan/pacsnake/internal/game"
	"github.com/vovakirdan/pacsnake/internal/multiplayer"
)

// Inbound message types handled by the connection itself rather than the
// manager.
const (
	typeOpened = "opened"
	typeClosed = "closed"
)

// ErrUnknownType is returned for an inbound message with an unrecognized type.
var ErrUnknownType = errors.New("unknown message type")

// inbound is the union of every field the browser client sends.
type inbound struct {
	Type       string `json:"type"`
	UUID       string `json:"uuid,omitempty"`
	LobbyName  string `json:"lobby_name,omitempty"`
	ClientName string `json:"client_name,omitempty"`
	Ready      *bool  `json:"ready,omitempty"`
	Direction  string `json:"direction,omitempty"`
}

func decode(data []byte) (inbound, error) {
	var in inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("decode message: %w", err)
	}
	if in.Type == "" {
		return in, fmt.Errorf("decode message: missing type")
	}
	return in, nil
}

// command maps a decoded message to the manager command it requests.
func (in inbound) command() (multiplayer.Command, error) {
	switch in.Type {
	case "new_lobby_requested":
		return multiplayer.CreateLobbyCmd{Name: in.LobbyName}, nil
	case "player_join_lobby_request":
		return multiplayer.JoinLobbyCmd{Lobby: in.LobbyName}, nil
	case "player_leave_lobby_request":
		return multiplayer.LeaveLobbyCmd{}, nil
	case "player_ready_changed":
		if in.Ready == nil {
			return nil, fmt.Errorf("%s: missing ready", in.Type)
		}
		return multiplayer.SetReadyCmd{Ready: *in.Ready}, nil
	case "player_ready_toggled":
		return multiplayer.ToggleReadyCmd{}, nil
	case "player_direction_changed":
		dir, err := core.ParseDirection(in.Direction)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.Type, game.ErrInvalidDirection)
		}
		return multiplayer.SetDirectionCmd{Direction: dir}, nil
	case "change_lobby_speed_request":
		return multiplayer.ChangeSpeedCmd{Lobby: in.LobbyName}, nil
	case "close_lobby_request":
		return multiplayer.CloseLobbyCmd{Name: in.LobbyName}, nil
	case "name_change_requested":
		return multiplayer.RenameCmd{Name: in.ClientName}, nil
	case "lobby_list_update_request":
		return multiplayer.LobbyListCmd{}, nil
	case "lobby_header_update_request":
		return multiplayer.LobbyHeaderCmd{}, nil
	}
	return nil, fmt.Errorf("%q: %w", in.Type, ErrUnknownType)
}

type gameMessage struct {
	Type      string        `json:"type"`
	LobbyName string        `json:"lobby_name"`
	GameState game.Snapshot `json:"game_state"`
}

type lobbyListMessage struct {
	Type    string         `json:"type"`
	Lobbies []game.Summary `json:"lobbies"`
}

type lobbyMessage struct {
	Type      string `json:"type"`
	LobbyName string `json:"lobby_name"`
}

type nameMessage struct {
	Type       string `json:"type"`
	ClientName string `json:"client_name"`
}

type textMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type openedMessage struct {
	Type       string `json:"type"`
	UUID       string `json:"uuid"`
	ClientName string `json:"client_name"`
}

// encode renders a session event as the JSON envelope the browser expects.
func encode(evt multiplayer.SessionEvent) ([]byte, error) {
	var msg any
	switch e := evt.(type) {
	case multiplayer.GameEvent:
		msg = gameMessage{Type: string(e.Kind), LobbyName: e.Lobby, GameState: e.Snapshot}
	case multiplayer.LobbyListEvent:
		lobbies := e.Lobbies
		if lobbies == nil {
			lobbies = []game.Summary{}
		}
		msg = lobbyListMessage{Type: "lobby_list_updated", Lobbies: lobbies}
	case multiplayer.JoinedLobbyEvent:
		msg = lobbyMessage{Type: "joined_lobby", LobbyName: e.Lobby}
	case multiplayer.LeftLobbyEvent:
		msg = lobbyMessage{Type: "left_lobby", LobbyName: e.Lobby}
	case multiplayer.LobbyHeaderEvent:
		msg = lobbyMessage{Type: "lobby_header_updated", LobbyName: e.Lobby}
	case multiplayer.NameUpdatedEvent:
		msg = nameMessage{Type: "name_updated", ClientName: e.Name}
	case multiplayer.MessageEvent:
		msg = textMessage{Type: "message_received", Message: e.Message}
	case multiplayer.SessionOpenedEvent:
		msg = openedMessage{Type: "session_opened", UUID: string(e.ID), ClientName: e.Name}
	default:
		return nil, fmt.Errorf("encode: unsupported event %T", evt)
	}
	return json.Marshal(msg)
}
