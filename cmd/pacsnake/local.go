package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pacsnake/internal/platform/tui"
)

var flagName string

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Play in this terminal",
	Long: `Start an in-process server and play against it in this terminal.
Nobody else can join; use it to try out rules and presets.

Examples:
  pacsnake local
  pacsnake local --name viper --preset casual`,
	Run: runLocal,
}

func init() {
	localCmd.Flags().StringVar(&flagName, "name", "", "Display name (default: Player-<id>)")
}

func runLocal(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	// Logs would draw over the alt screen.
	logger := newLogger(cfg)
	logger.SetOutput(io.Discard)

	manager, err := newManager(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating manager: %v\n", err)
		os.Exit(1)
	}
	manager.Start()
	defer manager.Stop()

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 80, 24
	}

	if err := tui.Run(manager, flagName, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
