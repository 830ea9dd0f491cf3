package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/forktile/forktile/internal/entity"
	"github.com/forktile/forktile/internal/theme"
	"github.com/forktile/forktile/internal/window"
)

// View implements tea.Model.
func (m *WM) View() tea.View {
	var view tea.View
	view.SetContent(lipgloss.Sprint(m.canvas().Render()))
	view.AltScreen = true
	return view
}

func (m *WM) canvas() *lipgloss.Canvas {
	canvas := lipgloss.NewCanvas(m.width, m.height)
	layers := m.windowLayers()
	layers = append(layers, m.statusLayer())
	if m.showTree {
		if overlay := m.treeLayer(); overlay != nil {
			layers = append(layers, overlay)
		}
	}
	if m.showQuitConfirm {
		layers = append(layers, m.quitLayer())
	}
	canvas.Compose(lipgloss.NewCompositor(layers...))
	return canvas
}

// windowLayers renders every window on the current workspace as a bordered
// box positioned on the canvas.
func (m *WM) windowLayers() []*lipgloss.Layer {
	id := m.workspaceID()
	var layers []*lipgloss.Layer
	m.windows.Each(func(h entity.Handle, w *window.Window) bool {
		if w.Workspace != id || w.Rect.IsEmpty() {
			return true
		}
		focused := h == m.focused
		layers = append(layers, m.windowLayer(h, w, focused))
		return true
	})
	return layers
}

func (m *WM) windowLayer(h entity.Handle, w *window.Window, focused bool) *lipgloss.Layer {
	borderColor := theme.BorderUnfocused()
	z := 0
	if focused {
		borderColor = theme.BorderFocused()
		z = 1
	}

	innerWidth := max(w.Rect.Width-2, 0)
	innerHeight := max(w.Rect.Height-2, 0)

	var body strings.Builder
	if m.cfg.Appearance.ShowTitles {
		body.WriteString(lipgloss.NewStyle().Foreground(theme.TitleText()).Render(w.Title))
		body.WriteString("\n")
	}
	fmt.Fprintf(&body, "#%d %s", h, w.Rect.String())

	box := lipgloss.NewStyle().
		Width(innerWidth).
		Height(innerHeight).
		Align(lipgloss.Left).
		AlignVertical(lipgloss.Top).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Render(body.String())

	return lipgloss.NewLayer(box).X(w.Rect.X).Y(w.Rect.Y).Z(z).ID(w.ID)
}

// statusLayer renders the one-row bar below the tiled area.
func (m *WM) statusLayer() *lipgloss.Layer {
	id := m.workspaceID()
	count := 0
	m.windows.Each(func(_ entity.Handle, w *window.Window) bool {
		if w.Workspace == id {
			count++
		}
		return true
	})

	status := fmt.Sprintf(
		" ws %d/%d · %d windows · n:new x:close tab:focus arrows:grow shift+arrows:shrink d:tree q:quit",
		m.workspace, m.cfg.Layout.Workspaces, count,
	)
	bar := lipgloss.NewStyle().
		Foreground(theme.StatusText()).
		Width(m.width).
		MaxHeight(1).
		Render(status)
	return lipgloss.NewLayer(bar).X(0).Y(m.height - statusBarHeight).Z(2).ID("statusbar")
}

// treeLayer renders the engine's indented dump of the current workspace
// tree in a centered overlay.
func (m *WM) treeLayer() *lipgloss.Layer {
	root := m.engine.FindToplevel(m.workspaceID())
	if !root.IsSome() {
		return nil
	}
	dump := strings.TrimRight(m.engine.Display(root), "\n")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.OverlayBorder()).
		Padding(0, 1).
		Render(dump)
	x := max((m.width-lipgloss.Width(box))/2, 0)
	y := max((m.height-lipgloss.Height(box))/2, 0)
	return lipgloss.NewLayer(box).X(x).Y(y).Z(3).ID("tree-overlay")
}

func (m *WM) quitLayer() *lipgloss.Layer {
	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.BorderFocused()).
		Padding(0, 2).
		Render("quit forktile? y/n")
	x := max((m.width-lipgloss.Width(box))/2, 0)
	y := max((m.height-lipgloss.Height(box))/2, 0)
	return lipgloss.NewLayer(box).X(x).Y(y).Z(4).ID("quit-confirm")
}
