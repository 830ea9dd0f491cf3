package app

import (
	"testing"

	"github.com/forktile/forktile/internal/config"
	"github.com/forktile/forktile/internal/entity"
	"github.com/forktile/forktile/internal/geometry"
	"github.com/forktile/forktile/internal/tiler"
	"github.com/forktile/forktile/internal/window"
)

func newTestWM(t *testing.T) *WM {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Layout.MinWindowWidth = 1
	cfg.Layout.MinWindowHeight = 1
	wm := New(cfg, nil)
	wm.width = 120
	wm.height = 41 // 40 usable rows above the status bar
	return wm
}

func focusedRect(t *testing.T, wm *WM) geometry.Rect {
	t.Helper()
	w, ok := wm.windows.Get(wm.focused)
	if !ok {
		t.Fatal("no focused window")
	}
	return w.Rect
}

func TestSpawnFirstWindowFoundsToplevel(t *testing.T) {
	wm := newTestWM(t)

	wm.spawnWindow()

	root := wm.engine.FindToplevel(wm.workspaceID())
	if !root.IsSome() {
		t.Fatal("no toplevel after first spawn")
	}
	if wm.windows.Len() != 1 {
		t.Fatalf("window count = %d, want 1", wm.windows.Len())
	}
	if got := focusedRect(t, wm); !got.Eq(geometry.NewRect(0, 0, 120, 40)) {
		t.Errorf("first window rect = %s, want the full usable area", got)
	}
	if wm.windowFork[wm.focused] != root {
		t.Errorf("fork index = %d, want root %d", wm.windowFork[wm.focused], root)
	}
}

func TestSpawnSecondWindowSplitsScreen(t *testing.T) {
	wm := newTestWM(t)

	wm.spawnWindow()
	first := wm.focused
	wm.spawnWindow()
	second := wm.focused

	if first == second {
		t.Fatal("focus did not move to the new window")
	}
	fw, _ := wm.windows.Get(first)
	sw, _ := wm.windows.Get(second)
	if fw.Rect.Width+sw.Rect.Width != 120 {
		t.Errorf("widths %d + %d do not cover the screen", fw.Rect.Width, sw.Rect.Width)
	}
	if fw.Rect.Height != 40 || sw.Rect.Height != 40 {
		t.Errorf("heights %d, %d, want 40", fw.Rect.Height, sw.Rect.Height)
	}
}

func TestSpawnBeforeSizeIsIgnored(t *testing.T) {
	wm := New(config.DefaultConfig(), nil)

	wm.spawnWindow()

	if wm.windows.Len() != 0 {
		t.Errorf("window count = %d before the first size message, want 0", wm.windows.Len())
	}
}

func TestCloseFocusedReflows(t *testing.T) {
	wm := newTestWM(t)
	wm.spawnWindow()
	first := wm.focused
	wm.spawnWindow()

	wm.closeFocused()

	if wm.windows.Len() != 1 {
		t.Fatalf("window count = %d, want 1", wm.windows.Len())
	}
	if wm.focused != first {
		t.Errorf("focus = %d, want survivor %d", wm.focused, first)
	}
	if got := focusedRect(t, wm); !got.Eq(geometry.NewRect(0, 0, 120, 40)) {
		t.Errorf("survivor rect = %s, want the full usable area", got)
	}
}

func TestCloseLastWindowEmptiesWorkspace(t *testing.T) {
	wm := newTestWM(t)
	wm.spawnWindow()

	wm.closeFocused()

	if wm.focused.IsSome() {
		t.Errorf("focus = %d on an empty workspace, want none", wm.focused)
	}
	if wm.engine.FindToplevel(wm.workspaceID()).IsSome() {
		t.Error("toplevel survived the last close")
	}

	// The workspace is usable again.
	wm.spawnWindow()
	if wm.windows.Len() != 1 {
		t.Errorf("respawn after emptying failed, count = %d", wm.windows.Len())
	}
}

func TestCloseKeepsIndexCoherentAfterPromotion(t *testing.T) {
	wm := newTestWM(t)
	wm.spawnWindow()
	wm.spawnWindow()
	wm.spawnWindow() // splits the focused (second) window

	// Closing the third window dissolves the sub-fork and promotes the
	// second back up; its index entry must follow.
	wm.closeFocused()

	for win, forkH := range wm.windowFork {
		fork, ok := wm.engine.Fork(forkH)
		if !ok {
			t.Fatalf("index points window %d at dead fork %d", win, forkH)
		}
		if isLeft := fork.Left.IsWindow(win); !isLeft && (fork.Right == nil || !fork.Right.IsWindow(win)) {
			t.Errorf("fork %d does not hold window %d", forkH, win)
		}
	}
}

func TestCycleFocusWrapsWithinWorkspace(t *testing.T) {
	wm := newTestWM(t)
	wm.spawnWindow()
	first := wm.focused
	wm.spawnWindow()
	second := wm.focused

	wm.cycleFocus(1)
	if wm.focused != first {
		t.Errorf("focus = %d, want wrap to %d", wm.focused, first)
	}
	wm.cycleFocus(-1)
	if wm.focused != second {
		t.Errorf("focus = %d, want %d", wm.focused, second)
	}
}

func TestWorkspacesAreIndependent(t *testing.T) {
	wm := newTestWM(t)
	wm.spawnWindow()
	firstWS := wm.focused

	wm.workspace = 2
	wm.focused = entity.None
	wm.spawnWindow()

	one := wm.engine.FindToplevel(tiler.WorkspaceID{Workspace: 1})
	two := wm.engine.FindToplevel(tiler.WorkspaceID{Workspace: 2})
	if !one.IsSome() || !two.IsSome() || one == two {
		t.Fatalf("toplevels = %d, %d, want two distinct trees", one, two)
	}

	// Switching back finds the original window.
	wm.workspace = 1
	if got := wm.firstWindowOn(1); got != firstWS {
		t.Errorf("firstWindowOn(1) = %d, want %d", got, firstWS)
	}
}

func TestResizeFocusedGrowsIntoSibling(t *testing.T) {
	wm := newTestWM(t)
	wm.cfg.Layout.ResizeStep = 10
	wm.spawnWindow()
	wm.spawnWindow()
	second := wm.focused

	before, _ := wm.windows.Get(second)
	wantWidth := before.Rect.Width + 10

	// The second window sits on the right; growing left eats into the
	// first.
	wm.resizeFocused("left", false)

	after, _ := wm.windows.Get(second)
	if after.Rect.Width != wantWidth {
		t.Errorf("width = %d after grow, want %d", after.Rect.Width, wantWidth)
	}
}

func TestResizeFocusedShrinkReturnsSpace(t *testing.T) {
	wm := newTestWM(t)
	wm.cfg.Layout.ResizeStep = 10
	wm.spawnWindow()
	wm.spawnWindow()
	second := wm.focused

	wm.resizeFocused("left", false)
	wm.resizeFocused("right", true)

	after, _ := wm.windows.Get(second)
	if after.Rect.Width != 60 {
		t.Errorf("width = %d after grow+shrink, want the original 60", after.Rect.Width)
	}
}

func TestReflowAllRootsOnResize(t *testing.T) {
	wm := newTestWM(t)
	wm.spawnWindow()
	wm.spawnWindow()

	wm.width, wm.height = 200, 61
	wm.reflowAllRoots()

	total := 0
	wm.windows.Each(func(_ entity.Handle, w *window.Window) bool {
		total += w.Rect.Width
		if w.Rect.Height != 60 {
			t.Errorf("height = %d after reflow, want 60", w.Rect.Height)
		}
		return true
	})
	if total != 200 {
		t.Errorf("widths sum to %d after reflow, want 200", total)
	}
}
