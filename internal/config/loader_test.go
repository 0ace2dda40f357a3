package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultMatchesBuiltin(t *testing.T) {
	embedded, err := parse(DefaultYAML(), "embedded")
	if err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	builtin := Default()

	if embedded.Lobby != builtin.Lobby {
		t.Errorf("lobby = %+v, builtin %+v", embedded.Lobby, builtin.Lobby)
	}
	if embedded.Game.BoardSize != builtin.Game.BoardSize ||
		embedded.Game.DefaultSpeed != builtin.Game.DefaultSpeed ||
		len(embedded.Game.Speeds) != len(builtin.Game.Speeds) {
		t.Errorf("game = %+v, builtin %+v", embedded.Game, builtin.Game)
	}
	for i, s := range embedded.Game.Speeds {
		if s != builtin.Game.Speeds[i] {
			t.Errorf("speed %d = %+v, builtin %+v", i, s, builtin.Game.Speeds[i])
		}
	}
	if err := embedded.Validate(); err != nil {
		t.Errorf("embedded default invalid: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	data := `
lobby:
  max_lobbies: 9
game:
  board_size: 16
  food_respawn_delay: 750ms
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	// Environment overrides would leak in from the test runner.
	for _, k := range []string{"MAX_GAMES", "PORT", "SSH_ADDR", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != path {
		t.Errorf("source = %q, expected %q", cfg.Source, path)
	}
	if cfg.Lobby.MaxLobbies != 9 {
		t.Errorf("max lobbies = %d, expected 9", cfg.Lobby.MaxLobbies)
	}
	if cfg.Game.BoardSize != 16 {
		t.Errorf("board size = %d, expected 16", cfg.Game.BoardSize)
	}
	if cfg.Game.FoodRespawnDelay != 750*time.Millisecond {
		t.Errorf("food delay = %s, expected 750ms", cfg.Game.FoodRespawnDelay)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Game.StartLength != 3 || cfg.Server.SSHAddr != ":23234" {
		t.Errorf("defaults lost: start=%d ssh=%q", cfg.Game.StartLength, cfg.Server.SSHAddr)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("game: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("malformed file should fail")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("game:\n  board_size: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid); err == nil || !strings.Contains(err.Error(), "board size") {
		t.Errorf("tiny board: err = %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MAX_GAMES": "12",
		"PORT":      "8080",
		"SSH_ADDR":  "127.0.0.1:2222",
		"LOG_LEVEL": "debug",
	}
	cfg := Default()
	if err := ApplyEnv(&cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.Lobby.MaxLobbies != 12 {
		t.Errorf("max lobbies = %d", cfg.Lobby.MaxLobbies)
	}
	if cfg.Server.WSAddr != ":8080" {
		t.Errorf("ws addr = %q", cfg.Server.WSAddr)
	}
	if cfg.Server.SSHAddr != "127.0.0.1:2222" {
		t.Errorf("ssh addr = %q", cfg.Server.SSHAddr)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.Server.LogLevel)
	}

	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad max games", "MAX_GAMES", "many"},
		{"bad port", "PORT", "http"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := ApplyEnv(&cfg, func(k string) string {
				if k == tt.key {
					return tt.val
				}
				return ""
			})
			if err == nil {
				t.Errorf("%s=%q accepted", tt.key, tt.val)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no lobbies", func(c *Config) { c.Lobby.MaxLobbies = 0 }},
		{"too many players", func(c *Config) { c.Lobby.MaxPlayers = 5 }},
		{"min above max", func(c *Config) { c.Lobby.MinPlayers = 3; c.Lobby.MaxPlayers = 2 }},
		{"no speeds", func(c *Config) { c.Game.Speeds = nil }},
		{"unknown default speed", func(c *Config) { c.Game.DefaultSpeed = "Ludicrous" }},
		{"zero delay", func(c *Config) { c.Game.RoundDelay = 0 }},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default() invalid: %v", err)
	}
}

func TestRulesConversion(t *testing.T) {
	cfg := Default()
	cfg.Game.DefaultSpeed = "Fast"
	cfg.Lobby.MinPlayers = 2

	r, err := cfg.Rules()
	if err != nil {
		t.Fatal(err)
	}
	if r.Speeds[r.DefaultSpeed].Name != "Fast" {
		t.Errorf("default speed = %s", r.Speeds[r.DefaultSpeed].Name)
	}
	if r.MinPlayers != 2 || r.MaxPlayers != 4 {
		t.Errorf("players = %d..%d", r.MinPlayers, r.MaxPlayers)
	}
}

func TestPresets(t *testing.T) {
	if p, err := ParsePreset(""); err != nil || p != PresetClassic {
		t.Errorf("ParsePreset(\"\") = %q, %v", p, err)
	}
	if _, err := ParsePreset("hardcore"); err == nil {
		t.Error("unknown preset accepted")
	}

	cfg := Default()
	ApplyPreset(&cfg, PresetTournament)
	if cfg.Game.RoundsToWin != 5 || cfg.Game.DefaultSpeed != "Fast" {
		t.Errorf("tournament = rounds %d speed %s", cfg.Game.RoundsToWin, cfg.Game.DefaultSpeed)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("tournament config invalid: %v", err)
	}

	cfg = Default()
	ApplyPreset(&cfg, PresetClassic)
	if cfg.Game.RoundsToWin != Default().Game.RoundsToWin {
		t.Error("classic preset should not change the config")
	}
}
