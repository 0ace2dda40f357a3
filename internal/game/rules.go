package game

import (
	"fmt"
	"time"

	"github.com/vovakirdan/pacsnake/internal/core"
)

// Speed is a named tick interval.
type Speed struct {
	Name     string        `yaml:"name"`
	Interval time.Duration `yaml:"interval"`
}

// SpeedView is the client form of a speed.
type SpeedView struct {
	Name       string `json:"name"`
	IntervalMs int64  `json:"intervalMs"`
}

// View packages the speed for clients.
func (s Speed) View() SpeedView {
	return SpeedView{Name: s.Name, IntervalMs: s.Interval.Milliseconds()}
}

// DefaultSpeeds is the ordered cycle used by ChangeSpeed.
var DefaultSpeeds = []Speed{
	{Name: "Slow", Interval: 600 * time.Millisecond},
	{Name: "Normal", Interval: 400 * time.Millisecond},
	{Name: "Fast", Interval: 250 * time.Millisecond},
	{Name: "Insane", Interval: 150 * time.Millisecond},
}

// Rules holds every tunable of a lobby. The config package builds one from
// YAML; tests usually start from DefaultRules and tweak a field or two.
type Rules struct {
	BoardSize         int
	StartLength       int
	MinPlayers        int
	MaxPlayers        int
	RoundsToWin       int
	Countdown         int           // countdown steps before a round starts
	CountdownInterval time.Duration // time between countdown steps
	FoodRespawnDelay  time.Duration
	RoundDelay        time.Duration // round_over/round_failed -> next countdown
	GameOverDelay     time.Duration // game_over -> lobby
	Speeds            []Speed
	DefaultSpeed      int // index into Speeds
	Seed              int64
}

// DefaultRules is the stock ruleset: a 10x10 board, four players,
// three round wins.
func DefaultRules() Rules {
	speeds := make([]Speed, len(DefaultSpeeds))
	copy(speeds, DefaultSpeeds)
	return Rules{
		BoardSize:         10,
		StartLength:       3,
		MinPlayers:        1,
		MaxPlayers:        4,
		RoundsToWin:       3,
		Countdown:         3,
		CountdownInterval: time.Second,
		FoodRespawnDelay:  2 * time.Second,
		RoundDelay:        3 * time.Second,
		GameOverDelay:     5 * time.Second,
		Speeds:            speeds,
		DefaultSpeed:      1,
	}
}

// Validate rejects rules the lobby cannot run with.
func (r Rules) Validate() error {
	switch {
	case r.BoardSize < 4:
		return fmt.Errorf("game: board size %d is below 4", r.BoardSize)
	case r.StartLength < 1 || r.StartLength > r.BoardSize-1:
		return fmt.Errorf("game: start length %d out of range", r.StartLength)
	case r.MaxPlayers < 1 || r.MaxPlayers > len(core.Palette):
		return fmt.Errorf("game: max players %d outside 1..%d", r.MaxPlayers, len(core.Palette))
	case r.MinPlayers < 1 || r.MinPlayers > r.MaxPlayers:
		return fmt.Errorf("game: min players %d outside 1..%d", r.MinPlayers, r.MaxPlayers)
	case r.RoundsToWin < 1:
		return fmt.Errorf("game: rounds to win must be positive")
	case r.Countdown < 0:
		return fmt.Errorf("game: countdown must not be negative")
	case r.CountdownInterval <= 0, r.FoodRespawnDelay <= 0, r.RoundDelay <= 0, r.GameOverDelay <= 0:
		return fmt.Errorf("game: delays must be positive")
	case len(r.Speeds) == 0:
		return fmt.Errorf("game: at least one speed is required")
	case r.DefaultSpeed < 0 || r.DefaultSpeed >= len(r.Speeds):
		return fmt.Errorf("game: default speed index %d out of range", r.DefaultSpeed)
	}
	for _, s := range r.Speeds {
		if s.Name == "" || s.Interval <= 0 {
			return fmt.Errorf("game: invalid speed %q (%s)", s.Name, s.Interval)
		}
	}
	return nil
}

// spawn is the per-slot starting position and heading.
type spawn struct {
	origin core.Point
	dir    core.Direction
}

// spawnFor returns the spawn of a slot on an n-sized board: the corners one
// cell in from the edge, each heading along the border.
func spawnFor(slot, n int) spawn {
	far := n - 2
	switch slot % 4 {
	case 0:
		return spawn{origin: core.Pt(1, 1), dir: core.DirUp}
	case 1:
		return spawn{origin: core.Pt(far, far), dir: core.DirDown}
	case 2:
		return spawn{origin: core.Pt(far, 1), dir: core.DirLeft}
	default:
		return spawn{origin: core.Pt(1, far), dir: core.DirRight}
	}
}
