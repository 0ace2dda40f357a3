package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pacsnake/internal/platform/tui"
	"github.com/vovakirdan/pacsnake/internal/transport/ws"
)

var (
	flagWSAddr  string
	flagSSHAddr string
	flagHostKey string
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pacsnake servers",
	Long: `Start the websocket server for browser clients and the SSH server
for terminal clients. Both share one set of lobbies.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.pacsnake/host_key

Examples:
  pacsnake serve                      # Config file addresses
  pacsnake serve --ws :8080           # Websocket on port 8080
  pacsnake serve --ssh ""             # Websocket only

Terminal users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Websocket address (host:port), overrides config")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH address (host:port), overrides config; \"\" disables")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cmd.Flags().Changed("ws") {
		cfg.Server.WSAddr = flagWSAddr
	}
	if cmd.Flags().Changed("ssh") {
		cfg.Server.SSHAddr = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKeyPath = flagHostKey
	}
	if cfg.Server.WSAddr == "" && cfg.Server.SSHAddr == "" {
		fmt.Fprintln(os.Stderr, "Error: both websocket and SSH listeners are disabled")
		os.Exit(1)
	}

	logger := newLogger(cfg)
	manager, err := newManager(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating manager: %v\n", err)
		os.Exit(1)
	}
	manager.Start()
	defer manager.Stop()

	type server interface {
		ListenAndServe() error
		Shutdown(ctx context.Context) error
	}
	var servers []server

	if cfg.Server.WSAddr != "" {
		servers = append(servers, ws.NewServer(cfg.Server.WSAddr, manager, logger))
	}
	if cfg.Server.SSHAddr != "" {
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = cfg.Server.SSHAddr
		sshCfg.HostKeyPath = cfg.Server.HostKeyPath
		if cfg.Server.IdleTimeout > 0 {
			sshCfg.IdleTimeout = cfg.Server.IdleTimeout
		}
		sshSrv, err := tui.NewSSHServer(sshCfg, manager, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
			os.Exit(1)
		}
		servers = append(servers, sshSrv)
	}

	logger.Info("starting", "config", cfg.Source, "max_lobbies", cfg.Lobby.MaxLobbies)

	errCh := make(chan error, len(servers))
	for _, s := range servers {
		go func() { errCh <- s.ListenAndServe() }()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	exitCode := 0
	select {
	case s := <-sig:
		logger.Info("shutting down", "signal", s.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", "err", err)
			exitCode = 1
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, s := range servers {
		if err := s.Shutdown(ctx); err != nil {
			logger.Warn("shutdown", "err", err)
		}
	}
	if exitCode != 0 {
		manager.Stop()
		os.Exit(exitCode)
	}
}
