package game

import "github.com/vovakirdan/pacsnake/internal/core"

// EventKind names an outbound lobby event.
type EventKind string

const (
	EventGameStarted           EventKind = "game_started"
	EventRoundCountdownStarted EventKind = "game_round_countdown_started"
	EventRoundCountdownUpdated EventKind = "game_round_countdown_updated"
	EventRoundStarted          EventKind = "game_round_started"
	EventStateUpdated          EventKind = "game_state_updated"
	EventRoundEnded            EventKind = "game_round_ended"
	EventRoundFailed           EventKind = "game_round_failed"
	EventGameOver              EventKind = "game_over"
	EventSinglePlayerGameOver  EventKind = "single_player_game_over"
	EventGameEnded             EventKind = "game_ended"
	EventLobbyUpdated          EventKind = "lobby_updated"
)

// Event is a state change addressed to lobby members. Recipients travel
// alongside the payload and are never serialized.
type Event struct {
	Kind       EventKind
	Lobby      string
	Recipients []PlayerID
	Snapshot   Snapshot
}

// EventSink receives lobby events in the order the lobby produced them.
// Publish runs outside the lobby mutex and must not block.
type EventSink interface {
	Publish(evt Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

func (f SinkFunc) Publish(evt Event) { f(evt) }

type discardSink struct{}

func (discardSink) Publish(Event) {}

// Snapshot is everything a client needs to draw the lobby.
type Snapshot struct {
	Lobby           string       `json:"lobby_name"`
	State           State        `json:"state"`
	BoardSize       int          `json:"boardSize"`
	Speed           SpeedView    `json:"speed"`
	Countdown       int          `json:"countdown"`
	CurrentRound    int          `json:"currentRound"`
	RoundsToWin     int          `json:"roundsToWin"`
	LastRoundWinner string       `json:"lastRoundWinner"`
	FoodPickups     []core.Point `json:"foodPickups"`
	Players         []PlayerData `json:"players"`
}

// Player returns the packaged data for name.
func (s Snapshot) Player(name string) (PlayerData, bool) {
	for _, p := range s.Players {
		if p.Name == name {
			return p, true
		}
	}
	return PlayerData{}, false
}

// Summary is a lobby's entry in the lobby list.
type Summary struct {
	Name        string       `json:"lobby_name"`
	State       State        `json:"lobby_state"`
	Speed       SpeedView    `json:"lobby_speed"`
	PlayerCount int          `json:"player_count"`
	MaxPlayers  int          `json:"max_players"`
	Players     []PlayerData `json:"players"`
}
