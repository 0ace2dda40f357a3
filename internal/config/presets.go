package config

import "fmt"

// Preset is a named bundle of rule tweaks layered over the loaded config.
type Preset string

const (
	PresetClassic    Preset = "classic"    // config as loaded
	PresetCasual     Preset = "casual"     // slow start, first to two
	PresetTournament Preset = "tournament" // fast start, first to five, shorter breaks
)

// Presets lists the accepted preset names.
var Presets = []Preset{PresetClassic, PresetCasual, PresetTournament}

// ParsePreset validates a preset name. Empty means classic.
func ParsePreset(s string) (Preset, error) {
	if s == "" {
		return PresetClassic, nil
	}
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown preset %q (want one of %v)", s, Presets)
}

// ApplyPreset modifies the config based on a preset. Speeds the preset
// prefers are only selected if the speed list has them.
func ApplyPreset(cfg *Config, preset Preset) {
	switch preset {
	case PresetCasual:
		cfg.Game.RoundsToWin = 2
		selectSpeed(cfg, "Slow")
	case PresetTournament:
		cfg.Game.RoundsToWin = 5
		cfg.Game.RoundDelay = cfg.Game.RoundDelay * 2 / 3
		selectSpeed(cfg, "Fast")
	}
}

func selectSpeed(cfg *Config, name string) {
	for _, s := range cfg.Game.Speeds {
		if s.Name == name {
			cfg.Game.DefaultSpeed = name
			return
		}
	}
}
