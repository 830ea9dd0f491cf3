// Package app provides the forktile demo shell: a terminal UI that drives
// the tiling engine with keyboard events and renders the resulting forest.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/forktile/forktile/internal/config"
	"github.com/forktile/forktile/internal/entity"
	"github.com/forktile/forktile/internal/geometry"
	"github.com/forktile/forktile/internal/tiler"
	"github.com/forktile/forktile/internal/window"
)

// statusBarHeight is the number of rows reserved below the tiled area.
const statusBarHeight = 1

// WM is the bubbletea model: the engine, its windows, and the interaction
// state of the demo shell.
type WM struct {
	cfg     *config.Config
	logger  *log.Logger
	windows *window.Manager
	engine  *tiler.Tiler

	// windowFork tracks which fork each window hangs off, fed by the
	// engine's attachment hook and refreshed after detaches.
	windowFork map[entity.Handle]entity.Handle

	order     []entity.Handle // spawn order, used for focus cycling
	focused   entity.Handle
	workspace int
	monitor   int

	width  int
	height int

	showTree        bool
	showQuitConfirm bool
	spawned         int
}

// New builds the demo window manager.
func New(cfg *config.Config, logger *log.Logger) *WM {
	if logger == nil {
		logger = log.Default()
	}
	wm := &WM{
		cfg:        cfg,
		logger:     logger,
		windows:    window.NewManager(logger),
		windowFork: make(map[entity.Handle]entity.Handle),
		workspace:  1,
	}
	wm.engine = tiler.New(wm.windows,
		tiler.WithLogger(logger),
		tiler.WithAttachHook(wm.onAttach),
	)
	return wm
}

// Engine exposes the tiling engine, used by tests and the tree overlay.
func (m *WM) Engine() *tiler.Tiler {
	return m.engine
}

func (m *WM) onAttach(parent, child entity.Handle) {
	if _, ok := m.windows.Get(child); ok {
		m.windowFork[child] = parent
	}
}

func (m *WM) workspaceID() tiler.WorkspaceID {
	return tiler.WorkspaceID{Monitor: m.monitor, Workspace: m.workspace}
}

// usableArea is the screen region handed to the engine: everything above
// the status bar.
func (m *WM) usableArea() geometry.Rect {
	return geometry.NewRect(0, 0, m.width, m.height-statusBarHeight)
}

// Init implements tea.Model.
func (m *WM) Init() tea.Cmd {
	return nil
}

// ConfigReloadedMsg asks the model to repaint after an external config
// reload (theme changes take effect on the next render).
type ConfigReloadedMsg struct{}

// Update implements tea.Model.
func (m *WM) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ConfigReloadedMsg:
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.reflowAllRoots()
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *WM) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.showQuitConfirm {
		switch key {
		case "y", "enter":
			return m, tea.Quit
		default:
			m.showQuitConfirm = false
			return m, nil
		}
	}

	switch key {
	case "q", "ctrl+c":
		m.showQuitConfirm = true
	case "n":
		m.spawnWindow()
	case "x":
		m.closeFocused()
	case "tab":
		m.cycleFocus(1)
	case "shift+tab":
		m.cycleFocus(-1)
	case "d":
		m.showTree = !m.showTree
	case "left", "right", "up", "down":
		m.resizeFocused(key, false)
	case "shift+left", "shift+right", "shift+up", "shift+down":
		m.resizeFocused(key[len("shift+"):], true)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		ws := int(key[0] - '0')
		if ws <= m.cfg.Layout.Workspaces {
			m.workspace = ws
			m.focused = m.firstWindowOn(ws)
		}
	}
	return m, nil
}

// spawnWindow creates a window and attaches it to the current workspace
// tree: the first window founds the toplevel, later ones split the focused
// window (or the largest one when nothing is focused).
func (m *WM) spawnWindow() {
	if m.width == 0 || m.height <= statusBarHeight {
		return
	}
	m.spawned++
	id := m.workspaceID()
	area := m.usableArea()
	win := m.windows.Create(
		fmt.Sprintf("window %d", m.spawned),
		area,
		m.cfg.Layout.MinWindowWidth,
		m.cfg.Layout.MinWindowHeight,
		id,
	)
	m.order = append(m.order, win)

	root := m.engine.FindToplevel(id)
	if !root.IsSome() {
		forkH, _ := m.engine.CreateToplevel(win, area, id)
		m.engine.Tile(forkH, true)
		m.focused = win
		return
	}

	onto := m.focused
	if !onto.IsSome() || !m.onWorkspace(onto, id) {
		onto = m.engine.LargestWindowOn(root)
	}
	forkH, fork := m.engine.AttachWindow(onto, win)
	if !forkH.IsSome() {
		m.logger.Warn("attach point not found", "onto", onto, "window", win)
		m.windows.Delete(win)
		m.order = m.order[:len(m.order)-1]
		return
	}
	fork.Ratio = m.cfg.Layout.DefaultRatio
	m.engine.Tile(forkH, true)
	m.focused = win
}

// closeFocused detaches and destroys the focused window, then retiles
// whatever fork the engine reports as the reflow target.
func (m *WM) closeFocused() {
	win := m.focused
	if !win.IsSome() {
		return
	}
	forkH, ok := m.windowFork[win]
	if !ok {
		m.logger.Error("no fork recorded for window", "window", win)
		return
	}
	reflowH, _ := m.engine.Detach(forkH, win)
	delete(m.windowFork, win)
	m.windows.Delete(win)
	m.removeFromOrder(win)
	if reflowH.IsSome() {
		m.engine.Tile(reflowH, true)
		m.reindexWorkspace(m.workspaceID())
	}
	m.focused = m.firstWindowOn(m.workspace)
}

// resizeFocused applies a keyboard resize: plain arrows grow the window
// toward that edge, shifted arrows shrink it from that edge.
func (m *WM) resizeFocused(direction string, shrink bool) {
	win := m.focused
	if !win.IsSome() {
		return
	}
	forkH, ok := m.windowFork[win]
	if !ok {
		return
	}
	w, ok := m.windows.Get(win)
	if !ok {
		return
	}

	step := m.cfg.Layout.ResizeStep
	crect := w.Rect.Clone()
	var movement tiler.Movement

	if shrink {
		movement = tiler.MoveShrink
		switch direction {
		case "left": // right edge moves left
			movement |= tiler.MoveLeft
			crect.Width -= step
		case "right": // left edge moves right
			movement |= tiler.MoveRight
			crect.X += step
			crect.Width -= step
		case "up": // bottom edge moves up
			movement |= tiler.MoveUp
			crect.Height -= step
		case "down": // top edge moves down
			movement |= tiler.MoveDown
			crect.Y += step
			crect.Height -= step
		}
	} else {
		movement = tiler.MoveGrow
		switch direction {
		case "left":
			movement |= tiler.MoveLeft
			crect.X -= step
			crect.Width += step
		case "right":
			movement |= tiler.MoveRight
			crect.Width += step
		case "up":
			movement |= tiler.MoveUp
			crect.Y -= step
			crect.Height += step
		case "down":
			movement |= tiler.MoveDown
			crect.Height += step
		}
	}

	if crect.IsEmpty() {
		return
	}
	m.engine.Resize(forkH, win, movement, crect, false)
}

// reflowAllRoots resizes every workspace root to the new screen area.
func (m *WM) reflowAllRoots() {
	if m.width == 0 || m.height <= statusBarHeight {
		return
	}
	area := m.usableArea()
	for ws := 1; ws <= m.cfg.Layout.Workspaces; ws++ {
		id := tiler.WorkspaceID{Monitor: m.monitor, Workspace: ws}
		root := m.engine.FindToplevel(id)
		if !root.IsSome() {
			continue
		}
		if fork, ok := m.engine.Fork(root); ok {
			fork.Area = area
			m.engine.Tile(root, true)
		}
	}
}

// reindexWorkspace rebuilds the window-to-fork index for one workspace by
// walking its tree. Needed after detaches, which can promote a surviving
// branch into a different fork.
func (m *WM) reindexWorkspace(id tiler.WorkspaceID) {
	root := m.engine.FindToplevel(id)
	if !root.IsSome() {
		return
	}
	stack := []entity.Handle{root}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fork, ok := m.engine.Fork(h)
		if !ok {
			continue
		}
		branches := []tiler.Node{fork.Left}
		if fork.Right != nil {
			branches = append(branches, *fork.Right)
		}
		for _, branch := range branches {
			switch branch.Kind {
			case tiler.NodeWindow:
				m.windowFork[branch.Entity] = h
			case tiler.NodeFork:
				stack = append(stack, branch.Entity)
			}
		}
	}
}

func (m *WM) onWorkspace(win entity.Handle, id tiler.WorkspaceID) bool {
	w, ok := m.windows.Get(win)
	return ok && w.Workspace == id
}

func (m *WM) firstWindowOn(ws int) entity.Handle {
	id := tiler.WorkspaceID{Monitor: m.monitor, Workspace: ws}
	for _, h := range m.order {
		if m.onWorkspace(h, id) {
			return h
		}
	}
	return entity.None
}

func (m *WM) cycleFocus(delta int) {
	id := m.workspaceID()
	var visible []entity.Handle
	for _, h := range m.order {
		if m.onWorkspace(h, id) {
			visible = append(visible, h)
		}
	}
	if len(visible) == 0 {
		m.focused = entity.None
		return
	}
	current := 0
	for i, h := range visible {
		if h == m.focused {
			current = i
			break
		}
	}
	next := (current + delta + len(visible)) % len(visible)
	m.focused = visible[next]
}

func (m *WM) removeFromOrder(win entity.Handle) {
	for i, h := range m.order {
		if h == win {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}
