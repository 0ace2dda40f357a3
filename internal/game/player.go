package game

import "github.com/vovakirdan/pacsnake/internal/core"

// PlayerID is the stable identity of a connected client. Transports mint it
// (a session uuid) and it survives reconnects.
type PlayerID string

// Player is one lobby member. The connection that reaches this player lives
// in the session registry, keyed by ID, so nothing here refers to a transport.
type Player struct {
	ID    PlayerID
	Name  string
	Ready bool
	Slot  int

	RoundsWon     int
	Kills         int
	Deaths        int
	LongestLength int

	Snake *Snake
}

func newPlayer(id PlayerID, name string, slot int) *Player {
	return &Player{ID: id, Name: name, Slot: slot}
}

// ResetStatsForNewGame zeroes the per-game counters.
func (p *Player) ResetStatsForNewGame(startLength int) {
	p.RoundsWon = 0
	p.Kills = 0
	p.Deaths = 0
	p.LongestLength = startLength
}

// Alive reports whether the player has a living snake.
func (p *Player) Alive() bool {
	return p.Snake != nil && p.Snake.Alive()
}

func (p *Player) recordLength(n int) {
	if n > p.LongestLength {
		p.LongestLength = n
	}
}

// PlayerData is the client-safe view of a player.
type PlayerData struct {
	Name               string     `json:"name"`
	Color              core.RGBA  `json:"color"`
	Ready              bool       `json:"ready"`
	RoundsWon          int        `json:"roundsWon"`
	KillCount          int        `json:"killCount"`
	DeathCount         int        `json:"deathCount"`
	LongestSnakeLength int        `json:"longestSnakeLength"`
	Snake              *SnakeView `json:"snake"`

	// Slot is kept for terminal rendering; browsers use Color.
	Slot int `json:"slot"`
}

// PackageData returns the view sent to clients.
func (p *Player) PackageData() PlayerData {
	d := PlayerData{
		Name:               p.Name,
		Color:              core.SlotPalette(p.Slot).RGBA,
		Ready:              p.Ready,
		RoundsWon:          p.RoundsWon,
		KillCount:          p.Kills,
		DeathCount:         p.Deaths,
		LongestSnakeLength: p.LongestLength,
		Slot:               p.Slot,
	}
	if p.Snake != nil {
		v := p.Snake.View()
		d.Snake = &v
	}
	return d
}
