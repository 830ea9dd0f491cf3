// Package theme provides color themes and styling for the forktile demo UI.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at application startup. An empty name disables theming and
// falls back to fixed colors.
func Initialize(themeName string) {
	if themeName == "" {
		enabled = false
		return
	}
	enabled = true
	tint.NewDefaultRegistry()
	if ok := tint.SetTintID(themeName); !ok {
		tint.SetTintID("default")
	}
}

// IsEnabled returns true if theming is enabled.
func IsEnabled() bool {
	return enabled
}

// Current returns the currently active theme, or nil when theming is
// disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// BorderFocused is the border color of the focused window.
func BorderFocused() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#00AAFF")
	}
	return t.Blue
}

// BorderUnfocused is the border color of unfocused windows.
func BorderUnfocused() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#555555")
	}
	return t.BrightBlack
}

// TitleText is the window title color.
func TitleText() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#e5e5e5")
	}
	return t.Fg
}

// StatusText is the status bar text color.
func StatusText() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#999999")
	}
	return t.BrightWhite
}

// OverlayBorder is the border color for the tree dump overlay.
func OverlayBorder() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#AA00FF")
	}
	return t.Purple
}
