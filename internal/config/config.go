// Package config provides YAML-based server configuration: listen addresses,
// lobby limits and the game rules every lobby is created with.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pacsnake/internal/game"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Lobby  LobbyConfig  `yaml:"lobby"`
	Game   GameConfig   `yaml:"game"`

	// Source records where the configuration was loaded from.
	Source string `yaml:"-"`
}

// ServerConfig defines the transports.
type ServerConfig struct {
	WSAddr      string        `yaml:"ws_addr"`       // websocket listener, empty disables it
	SSHAddr     string        `yaml:"ssh_addr"`      // SSH listener, empty disables it
	HostKeyPath string        `yaml:"host_key_path"` // generated when missing
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	LogLevel    string        `yaml:"log_level"`
}

// LobbyConfig defines lobby limits.
type LobbyConfig struct {
	MaxLobbies int `yaml:"max_lobbies"`
	MinPlayers int `yaml:"min_players"`
	MaxPlayers int `yaml:"max_players"`
}

// GameConfig defines the rules of a game.
type GameConfig struct {
	BoardSize         int           `yaml:"board_size"`
	StartLength       int           `yaml:"start_length"`
	RoundsToWin       int           `yaml:"rounds_to_win"`
	Countdown         int           `yaml:"countdown"`
	CountdownInterval time.Duration `yaml:"countdown_interval"`
	FoodRespawnDelay  time.Duration `yaml:"food_respawn_delay"`
	RoundDelay        time.Duration `yaml:"round_delay"`
	GameOverDelay     time.Duration `yaml:"game_over_delay"`
	Speeds            []game.Speed  `yaml:"speeds"`
	DefaultSpeed      string        `yaml:"default_speed"`
	Seed              int64         `yaml:"seed"` // 0 = time based
}

// Rules converts the game and lobby sections into lobby rules.
func (c Config) Rules() (game.Rules, error) {
	idx := -1
	for i, s := range c.Game.Speeds {
		if s.Name == c.Game.DefaultSpeed {
			idx = i
			break
		}
	}
	if idx < 0 {
		return game.Rules{}, fmt.Errorf("config: default speed %q is not in the speed list", c.Game.DefaultSpeed)
	}

	speeds := make([]game.Speed, len(c.Game.Speeds))
	copy(speeds, c.Game.Speeds)

	r := game.Rules{
		BoardSize:         c.Game.BoardSize,
		StartLength:       c.Game.StartLength,
		MinPlayers:        c.Lobby.MinPlayers,
		MaxPlayers:        c.Lobby.MaxPlayers,
		RoundsToWin:       c.Game.RoundsToWin,
		Countdown:         c.Game.Countdown,
		CountdownInterval: c.Game.CountdownInterval,
		FoodRespawnDelay:  c.Game.FoodRespawnDelay,
		RoundDelay:        c.Game.RoundDelay,
		GameOverDelay:     c.Game.GameOverDelay,
		Speeds:            speeds,
		DefaultSpeed:      idx,
		Seed:              c.Game.Seed,
	}
	if err := r.Validate(); err != nil {
		return game.Rules{}, fmt.Errorf("config: %w", err)
	}
	return r, nil
}

// Validate rejects inconsistent values.
func (c Config) Validate() error {
	if c.Lobby.MaxLobbies < 1 {
		return fmt.Errorf("config: max_lobbies must be at least 1, got %d", c.Lobby.MaxLobbies)
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("config: idle_timeout must not be negative")
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	_, err := c.Rules()
	return err
}

// Level returns the parsed log level, defaulting to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
