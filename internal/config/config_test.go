package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// useTempConfigHome points XDG at a throwaway directory for the test.
func useTempConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Appearance.Theme != "dracula" {
		t.Errorf("default theme = %q", cfg.Appearance.Theme)
	}
	if !cfg.Appearance.ShowTitles {
		t.Error("titles should be shown by default")
	}
	if cfg.Layout.Workspaces != 9 {
		t.Errorf("default workspaces = %d", cfg.Layout.Workspaces)
	}
	if cfg.Layout.DefaultRatio != 0.5 {
		t.Errorf("default ratio = %v", cfg.Layout.DefaultRatio)
	}
}

func TestLoadUserConfigMissingFileYieldsDefaults(t *testing.T) {
	useTempConfigHome(t)

	cfg, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig: %v", err)
	}
	if cfg.Layout.Workspaces != DefaultConfig().Layout.Workspaces {
		t.Errorf("missing file did not fall back to defaults: %+v", cfg.Layout)
	}
}

func TestLoadUserConfigPartialFileKeepsDefaults(t *testing.T) {
	dir := useTempConfigHome(t)
	path := filepath.Join(dir, "forktile", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	content := "[layout]\nworkspaces = 4\nresize_step = 5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig: %v", err)
	}
	if cfg.Layout.Workspaces != 4 || cfg.Layout.ResizeStep != 5 {
		t.Errorf("overrides not applied: %+v", cfg.Layout)
	}
	// Untouched keys keep their defaults.
	if cfg.Appearance.Theme != "dracula" {
		t.Errorf("theme = %q, want default", cfg.Appearance.Theme)
	}
	if cfg.Layout.MinWindowWidth != 10 {
		t.Errorf("min width = %d, want default 10", cfg.Layout.MinWindowWidth)
	}
}

func TestLoadUserConfigRejectsBadTOML(t *testing.T) {
	dir := useTempConfigHome(t)
	path := filepath.Join(dir, "forktile", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[[[not toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadUserConfig(); err == nil {
		t.Error("malformed config must error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	useTempConfigHome(t)

	cfg := DefaultConfig()
	cfg.Appearance.Theme = "nord"
	cfg.Layout.Workspaces = 3
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig: %v", err)
	}
	if loaded.Appearance.Theme != "nord" || loaded.Layout.Workspaces != 3 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestValidateClamps(t *testing.T) {
	cfg := &Config{}
	if err := toml.Unmarshal([]byte(`
[layout]
workspaces = 40
min_window_width = 0
min_window_height = -2
default_ratio = 1.8
resize_step = 0
`), cfg); err != nil {
		t.Fatal(err)
	}

	cfg.Validate()

	if cfg.Layout.Workspaces != 9 {
		t.Errorf("workspaces = %d, want clamp to 9", cfg.Layout.Workspaces)
	}
	if cfg.Layout.MinWindowWidth != 1 || cfg.Layout.MinWindowHeight != 1 {
		t.Errorf("minimums = %d x %d, want 1 x 1", cfg.Layout.MinWindowWidth, cfg.Layout.MinWindowHeight)
	}
	if cfg.Layout.DefaultRatio != 0.5 {
		t.Errorf("ratio = %v, want reset to 0.5", cfg.Layout.DefaultRatio)
	}
	if cfg.Layout.ResizeStep != 1 {
		t.Errorf("resize step = %d, want 1", cfg.Layout.ResizeStep)
	}

	low := DefaultConfig()
	low.Layout.Workspaces = 0
	low.Validate()
	if low.Layout.Workspaces != 1 {
		t.Errorf("workspaces = %d, want clamp to 1", low.Layout.Workspaces)
	}
}
