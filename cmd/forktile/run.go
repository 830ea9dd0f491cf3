package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/forktile/forktile/internal/app"
	"github.com/forktile/forktile/internal/config"
	"github.com/forktile/forktile/internal/theme"
)

// newLogger builds the process logger, honoring --debug.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "forktile",
	})
	if debugMode {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func runLocal() error {
	logger := newLogger()

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				logger.Warn("failed to close CPU profile file", "err", closeErr)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	userConfig, err := config.LoadUserConfig()
	if err != nil {
		logger.Warn("failed to load config, using defaults", "err", err)
		userConfig = config.DefaultConfig()
	}
	if themeName != "" {
		userConfig.Appearance.Theme = themeName
	}
	theme.Initialize(userConfig.Appearance.Theme)

	wm := app.New(userConfig, logger)
	p := tea.NewProgram(wm)

	// Hot-reload appearance settings while the demo runs.
	stopWatch, err := config.Watch(func() {
		reloaded, err := config.LoadUserConfig()
		if err != nil {
			logger.Warn("config reload failed", "err", err)
			return
		}
		theme.Initialize(reloaded.Appearance.Theme)
		p.Send(app.ConfigReloadedMsg{})
	})
	if err != nil {
		logger.Debug("config watch unavailable", "err", err)
	} else {
		defer stopWatch()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
