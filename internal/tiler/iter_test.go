package tiler_test

import (
	"strings"
	"testing"

	"github.com/forktile/forktile/internal/entity"
	"github.com/forktile/forktile/internal/geometry"
	"github.com/forktile/forktile/internal/tiler"
)

// setupForest builds root{sub{w1,w3}, deep{w2,w4}} over 1600x1000.
func setupForest(t *testing.T) (*tiler.Tiler, *fakeDisplay, entity.Handle) {
	t.Helper()
	area := geometry.NewRect(0, 0, 1600, 1000)
	d := newFakeDisplay()
	d.rects[w1] = area
	eng := tiler.New(d)
	root, _ := eng.CreateToplevel(w1, area, ws)
	eng.AttachWindow(w1, w2)
	eng.Tile(root, true)
	eng.AttachWindow(w1, w3)
	eng.AttachWindow(w2, entity.Handle(104))
	eng.Tile(root, true)
	return eng, d, root
}

func collect(it *tiler.Iter) []tiler.Node {
	var nodes []tiler.Node
	for {
		n, ok := it.Next()
		if !ok {
			return nodes
		}
		nodes = append(nodes, n)
	}
}

func TestIterWindowsVisitsEveryWindowOnce(t *testing.T) {
	eng, _, root := setupForest(t)

	seen := make(map[entity.Handle]int)
	for _, n := range collect(eng.Iter(root, tiler.IterWindows)) {
		if n.Kind != tiler.NodeWindow {
			t.Fatalf("window iterator yielded %s", n)
		}
		seen[n.Entity]++
	}
	for _, h := range []entity.Handle{w1, w2, w3, 104} {
		if seen[h] != 1 {
			t.Errorf("window %d visited %d times, want 1", h, seen[h])
		}
	}
	if len(seen) != 4 {
		t.Errorf("visited %d windows, want 4", len(seen))
	}
}

func TestIterForksSkipsWindows(t *testing.T) {
	eng, _, root := setupForest(t)

	forks := collect(eng.Iter(root, tiler.IterForks))
	if len(forks) != 2 {
		t.Fatalf("fork iterator yielded %d nodes, want 2 sub-forks", len(forks))
	}
	for _, n := range forks {
		if n.Kind != tiler.NodeFork {
			t.Errorf("fork iterator yielded %s", n)
		}
	}
}

func TestIterAllCountsBranches(t *testing.T) {
	eng, _, root := setupForest(t)

	// Two fork branches plus four window leaves.
	if got := len(collect(eng.Iter(root, tiler.IterAll))); got != 6 {
		t.Errorf("full iterator yielded %d nodes, want 6", got)
	}
}

func TestIterExhaustion(t *testing.T) {
	eng, _, root := setupForest(t)

	it := eng.Iter(root, tiler.IterWindows)
	collect(it)
	if _, ok := it.Next(); ok {
		t.Error("exhausted iterator yielded another node")
	}
}

func TestIterDeadRoot(t *testing.T) {
	d := newFakeDisplay()
	eng := tiler.New(d)

	if _, ok := eng.Iter(entity.Handle(42), tiler.IterAll).Next(); ok {
		t.Error("iterator over an unknown root yielded a node")
	}
}

func TestLargestWindowOn(t *testing.T) {
	eng, d, root := setupForest(t)

	// All four quarters are 800x500; skew one.
	d.rects[w3] = geometry.NewRect(0, 0, 1200, 900)
	if got := eng.LargestWindowOn(root); got != w3 {
		t.Errorf("LargestWindowOn = %d, want %d", got, w3)
	}
}

func TestLargestWindowOnEmpty(t *testing.T) {
	d := newFakeDisplay()
	eng := tiler.New(d)

	if got := eng.LargestWindowOn(entity.Handle(42)); got.IsSome() {
		t.Errorf("LargestWindowOn over nothing = %d, want none", got)
	}
}

func TestDisplayDump(t *testing.T) {
	eng, _, root := setupForest(t)

	dump := eng.Display(root)
	for _, want := range []string{
		"toplevel(0:0)",
		"Window(101)",
		"Window(102)",
		"Window(103)",
		"Window(104)",
		"ratio=0.50",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump missing %q:\n%s", want, dump)
		}
	}
	if got := strings.Count(dump, "Fork("); got != 3 {
		t.Errorf("dump shows %d forks, want 3:\n%s", got, dump)
	}
}
