// Package window provides the in-memory window objects the demo window
// manager tiles, and the Manager that implements the engine's placement
// contract over them.
package window

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/forktile/forktile/internal/entity"
	"github.com/forktile/forktile/internal/geometry"
	"github.com/forktile/forktile/internal/tiler"
)

// Window is one managed window.
type Window struct {
	ID        string // stable uuid, independent of the entity handle
	Title     string
	Rect      geometry.Rect
	MinWidth  int
	MinHeight int
	Workspace tiler.WorkspaceID
}

// Manager owns all windows by handle and applies tiling geometry to them.
// It is the engine's Placer: placement fails when a rectangle undercuts the
// window's minimum size.
type Manager struct {
	windows *entity.Store[Window]
	log     *log.Logger
}

// NewManager returns an empty window manager.
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{windows: entity.NewStore[Window](), log: logger}
}

// Create registers a new window and returns its handle.
func (m *Manager) Create(title string, rect geometry.Rect, minWidth, minHeight int, workspace tiler.WorkspaceID) entity.Handle {
	return m.windows.Create(Window{
		ID:        uuid.New().String(),
		Title:     title,
		Rect:      rect,
		MinWidth:  minWidth,
		MinHeight: minHeight,
		Workspace: workspace,
	})
}

// Get returns the window stored under h.
func (m *Manager) Get(h entity.Handle) (*Window, bool) {
	return m.windows.Get(h)
}

// Delete removes a window. The caller is responsible for detaching it from
// the tiling forest first.
func (m *Manager) Delete(h entity.Handle) {
	m.windows.Delete(h)
}

// Len returns the number of live windows.
func (m *Manager) Len() int {
	return m.windows.Len()
}

// Each visits every live window until fn returns false.
func (m *Manager) Each(fn func(entity.Handle, *Window) bool) {
	m.windows.Each(fn)
}

// WindowRect implements tiler.Placer.
func (m *Manager) WindowRect(h entity.Handle) (geometry.Rect, bool) {
	w, ok := m.windows.Get(h)
	if !ok {
		return geometry.Rect{}, false
	}
	return w.Rect, true
}

// PlaceWindow implements tiler.Placer. A rectangle below the window's
// minimum size is rejected unless failures are tolerated, in which case the
// undersized geometry is applied anyway and the failure still reported.
func (m *Manager) PlaceWindow(h entity.Handle, area geometry.Rect, workspace tiler.WorkspaceID, failureAllowed bool) bool {
	w, ok := m.windows.Get(h)
	if !ok {
		m.log.Error("place on unknown window", "window", h)
		return false
	}
	fits := area.Width >= w.MinWidth && area.Height >= w.MinHeight && !area.IsEmpty()
	if !fits && !failureAllowed {
		m.log.Debug("placement rejected", "window", h, "area", area, "min_w", w.MinWidth, "min_h", w.MinHeight)
		return false
	}
	w.Rect = area
	w.Workspace = workspace
	return fits
}
