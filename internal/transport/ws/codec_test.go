package ws

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/pacsnake/internal/core"
	"github.com/vovakirdan/pacsnake/internal/game"
	"github.com/vovakirdan/pacsnake/internal/multiplayer"
)

func TestDecodeCommands(t *testing.T) {
	tests := []struct {
		name string
		json string
		want multiplayer.Command
	}{
		{"create", `{"type":"new_lobby_requested","lobby_name":"den"}`, multiplayer.CreateLobbyCmd{Name: "den"}},
		{"join", `{"type":"player_join_lobby_request","lobby_name":"den"}`, multiplayer.JoinLobbyCmd{Lobby: "den"}},
		{"leave", `{"type":"player_leave_lobby_request"}`, multiplayer.LeaveLobbyCmd{}},
		{"ready", `{"type":"player_ready_changed","ready":true}`, multiplayer.SetReadyCmd{Ready: true}},
		{"not ready", `{"type":"player_ready_changed","ready":false}`, multiplayer.SetReadyCmd{Ready: false}},
		{"toggle", `{"type":"player_ready_toggled"}`, multiplayer.ToggleReadyCmd{}},
		{"steer", `{"type":"player_direction_changed","direction":"left"}`, multiplayer.SetDirectionCmd{Direction: core.DirLeft}},
		{"speed", `{"type":"change_lobby_speed_request","lobby_name":"den"}`, multiplayer.ChangeSpeedCmd{Lobby: "den"}},
		{"close", `{"type":"close_lobby_request","lobby_name":"den"}`, multiplayer.CloseLobbyCmd{Name: "den"}},
		{"rename", `{"type":"name_change_requested","client_name":"Viper"}`, multiplayer.RenameCmd{Name: "Viper"}},
		{"list", `{"type":"lobby_list_update_request"}`, multiplayer.LobbyListCmd{}},
		{"header", `{"type":"lobby_header_update_request"}`, multiplayer.LobbyHeaderCmd{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := decode([]byte(tt.json))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			got, err := in.command()
			if err != nil {
				t.Fatalf("command: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("command = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr error
	}{
		{"unknown type", `{"type":"fly"}`, ErrUnknownType},
		{"bad direction", `{"type":"player_direction_changed","direction":"north"}`, game.ErrInvalidDirection},
		{"ready missing", `{"type":"player_ready_changed"}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := decode([]byte(tt.json))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			_, err = in.command()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	for _, raw := range []string{`not json`, `{}`, `{"lobby_name":"x"}`} {
		if _, err := decode([]byte(raw)); err == nil {
			t.Errorf("decode(%s) succeeded", raw)
		}
	}
}

func TestDecodeOpened(t *testing.T) {
	in, err := decode([]byte(`{"type":"opened","uuid":"6f1c9d8e-3b7a-4c2e-9f10-2a5b8c7d4e3f"}`))
	if err != nil {
		t.Fatal(err)
	}
	if in.Type != typeOpened || in.UUID != "6f1c9d8e-3b7a-4c2e-9f10-2a5b8c7d4e3f" {
		t.Errorf("decoded %+v", in)
	}
}

func TestEncodeEnvelopes(t *testing.T) {
	snap := game.Snapshot{Lobby: "den", State: game.StateRunning, BoardSize: 10, FoodPickups: []core.Point{{X: 2, Y: 3}}}

	tests := []struct {
		name string
		evt  multiplayer.SessionEvent
		want map[string]any
	}{
		{
			"game event",
			multiplayer.GameEvent{Kind: game.EventStateUpdated, Lobby: "den", Snapshot: snap},
			map[string]any{"type": "game_state_updated", "lobby_name": "den"},
		},
		{
			"lobby list",
			multiplayer.LobbyListEvent{},
			map[string]any{"type": "lobby_list_updated", "lobbies": []any{}},
		},
		{
			"joined",
			multiplayer.JoinedLobbyEvent{Lobby: "den"},
			map[string]any{"type": "joined_lobby", "lobby_name": "den"},
		},
		{
			"left",
			multiplayer.LeftLobbyEvent{Lobby: "den"},
			map[string]any{"type": "left_lobby", "lobby_name": "den"},
		},
		{
			"header",
			multiplayer.LobbyHeaderEvent{Lobby: "den"},
			map[string]any{"type": "lobby_header_updated", "lobby_name": "den"},
		},
		{
			"name",
			multiplayer.NameUpdatedEvent{Name: "Viper"},
			map[string]any{"type": "name_updated", "client_name": "Viper"},
		},
		{
			"message",
			multiplayer.MessageEvent{Message: "hi"},
			map[string]any{"type": "message_received", "message": "hi"},
		},
		{
			"opened",
			multiplayer.SessionOpenedEvent{ID: "abc", Name: "Player-abc"},
			map[string]any{"type": "session_opened", "uuid": "abc", "client_name": "Player-abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := encode(tt.evt)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			for k, v := range tt.want {
				if !reflect.DeepEqual(got[k], v) {
					t.Errorf("%s = %#v, want %#v", k, got[k], v)
				}
			}
		})
	}
}

func TestEncodeGameState(t *testing.T) {
	snap := game.Snapshot{
		Lobby:       "den",
		State:       game.StateRunning,
		BoardSize:   10,
		RoundsToWin: 3,
		FoodPickups: []core.Point{{X: 2, Y: 3}},
	}
	data, err := encode(multiplayer.GameEvent{Kind: game.EventStateUpdated, Lobby: "den", Snapshot: snap})
	if err != nil {
		t.Fatal(err)
	}

	var msg struct {
		GameState struct {
			State       string `json:"state"`
			BoardSize   int    `json:"boardSize"`
			RoundsToWin int    `json:"roundsToWin"`
			Food        []struct {
				X int `json:"x"`
				Y int `json:"y"`
			} `json:"foodPickups"`
		} `json:"game_state"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	gs := msg.GameState
	if gs.State != "running" || gs.BoardSize != 10 || gs.RoundsToWin != 3 {
		t.Errorf("game_state = %+v", gs)
	}
	if len(gs.Food) != 1 || gs.Food[0].X != 2 || gs.Food[0].Y != 3 {
		t.Errorf("foodPickups = %+v", gs.Food)
	}
}
