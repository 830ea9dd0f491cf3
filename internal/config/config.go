// Package config handles loading, saving and watching the forktile
// configuration file. The file is TOML under the XDG config directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

// AppearanceConfig controls how the demo UI draws windows.
type AppearanceConfig struct {
	Theme      string `toml:"theme"`       // bubbletint tint id, empty disables theming
	ShowTitles bool   `toml:"show_titles"` // render window titles in the top border
}

// LayoutConfig controls the tiling engine's defaults.
type LayoutConfig struct {
	Workspaces      int     `toml:"workspaces"`        // workspaces per monitor, 1-9
	MinWindowWidth  int     `toml:"min_window_width"`  // placement fails below this
	MinWindowHeight int     `toml:"min_window_height"` // placement fails below this
	DefaultRatio    float64 `toml:"default_ratio"`     // initial split ratio
	ResizeStep      int     `toml:"resize_step"`       // cells per keyboard resize
}

// Config is the full user configuration.
type Config struct {
	Appearance AppearanceConfig `toml:"appearance"`
	Layout     LayoutConfig     `toml:"layout"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Appearance: AppearanceConfig{
			Theme:      "dracula",
			ShowTitles: true,
		},
		Layout: LayoutConfig{
			Workspaces:      9,
			MinWindowWidth:  10,
			MinWindowHeight: 4,
			DefaultRatio:    0.5,
			ResizeStep:      2,
		},
	}
}

// GetConfigPath returns the path of the configuration file, creating parent
// directories as needed.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("forktile", "config.toml"))
}

// LoadUserConfig reads and validates the user configuration. A missing file
// yields the defaults without error.
func LoadUserConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the config file.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate clamps out-of-range values to usable ones instead of failing.
func (c *Config) Validate() {
	if c.Layout.Workspaces < 1 {
		c.Layout.Workspaces = 1
	}
	if c.Layout.Workspaces > 9 {
		c.Layout.Workspaces = 9
	}
	if c.Layout.MinWindowWidth < 1 {
		c.Layout.MinWindowWidth = 1
	}
	if c.Layout.MinWindowHeight < 1 {
		c.Layout.MinWindowHeight = 1
	}
	if c.Layout.DefaultRatio < 0.05 || c.Layout.DefaultRatio > 0.95 {
		c.Layout.DefaultRatio = 0.5
	}
	if c.Layout.ResizeStep < 1 {
		c.Layout.ResizeStep = 1
	}
}

// Watch invokes onChange whenever the configuration file is written. The
// returned stop function releases the watcher.
func Watch(onChange func()) (func(), error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors replace the file on save, which would
	// drop a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name == path && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					onChange()
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() { _ = watcher.Close() }, nil
}
