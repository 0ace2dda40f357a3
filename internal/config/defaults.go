package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/pacsnake/internal/game"
)

//go:embed defaults/server.yaml
var defaultServerYAML []byte

// Default returns the hardcoded configuration, used when no file and no
// embedded default can be read.
func Default() Config {
	r := game.DefaultRules()
	return Config{
		Server: ServerConfig{
			WSAddr:      ":3000",
			SSHAddr:     ":23234",
			IdleTimeout: 30 * time.Minute,
			LogLevel:    "info",
		},
		Lobby: LobbyConfig{
			MaxLobbies: 4,
			MinPlayers: r.MinPlayers,
			MaxPlayers: r.MaxPlayers,
		},
		Game: GameConfig{
			BoardSize:         r.BoardSize,
			StartLength:       r.StartLength,
			RoundsToWin:       r.RoundsToWin,
			Countdown:         r.Countdown,
			CountdownInterval: r.CountdownInterval,
			FoodRespawnDelay:  r.FoodRespawnDelay,
			RoundDelay:        r.RoundDelay,
			GameOverDelay:     r.GameOverDelay,
			Speeds:            r.Speeds,
			DefaultSpeed:      r.Speeds[r.DefaultSpeed].Name,
		},
		Source: "builtin",
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultServerYAML
}
