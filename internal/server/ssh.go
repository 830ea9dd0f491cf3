// Package server provides SSH server functionality for the forktile demo.
// Each connection gets its own window manager instance served through the
// wish bubbletea middleware.
package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"

	"github.com/forktile/forktile/internal/app"
	"github.com/forktile/forktile/internal/config"
)

// Config holds the SSH server settings.
type Config struct {
	Host    string
	Port    string
	KeyPath string
	Logger  *log.Logger
}

// Start runs the SSH server until ctx is canceled.
func Start(ctx context.Context, cfg *Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	hostKeyPath := cfg.KeyPath
	if hostKeyPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		hostKeyPath = filepath.Join(homeDir, ".ssh", "forktile_host_key")
	}

	srv, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(teaHandler(logger)),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("create SSH server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting SSH server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != ssh.ErrServerClosed {
			return fmt.Errorf("SSH server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down SSH server")
		return srv.Shutdown(context.Background())
	}
}

// teaHandler creates a fresh window manager for each SSH session.
func teaHandler(logger *log.Logger) bubbletea.Handler {
	return func(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
		_, _, active := sshSession.Pty()
		if !active {
			return nil, nil
		}
		cfg, err := config.LoadUserConfig()
		if err != nil {
			logger.Warn("failed to load config, using defaults", "err", err)
			cfg = config.DefaultConfig()
		}
		return app.New(cfg, logger), nil
	}
}
