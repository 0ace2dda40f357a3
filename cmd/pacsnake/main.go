// pacsnake is a multi-lobby multiplayer snake server with a terminal client.
//
// Usage:
//
//	pacsnake serve           - Start the websocket and SSH servers
//	pacsnake local           - Play against an in-process server
//	pacsnake config          - Print the effective configuration
//
// Global flags:
//
//	--config <path>    - Server config file (default: search ~/.pacsnake, ./configs)
//	--preset <name>    - Rule preset: classic, casual, tournament
//	--log-level <lvl>  - Override the configured log level
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pacsnake/internal/config"
	"github.com/vovakirdan/pacsnake/internal/multiplayer"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pacsnake",
	Short: "pacsnake - multiplayer snake lobbies",
	Long: `pacsnake runs lobbies of up to four snakes on a shared board.
Browser clients connect over websocket, terminal clients over SSH.

Available commands:
  serve    - Start the websocket and SSH servers
  local    - Play in this terminal against an in-process server
  config   - Print the effective configuration as YAML

Examples:
  pacsnake serve
  pacsnake serve --ws :8080 --ssh ""
  pacsnake local --name viper
  pacsnake config --preset tournament`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to server config file")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Rule preset (classic, casual, tournament)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(localCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the config file and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)
	if flagLogLevel != "" {
		cfg.Server.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pacsnake",
	})
	logger.SetLevel(cfg.Level())
	return logger
}

// newManager builds the lobby manager from the loaded config.
func newManager(cfg config.Config, logger *log.Logger) (*multiplayer.Manager, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}
	mcfg := multiplayer.DefaultManagerConfig()
	mcfg.MaxLobbies = cfg.Lobby.MaxLobbies
	mcfg.Rules = rules
	mcfg.Logger = logger
	return multiplayer.NewManager(mcfg, nil)
}
