package tiler

import (
	"github.com/forktile/forktile/internal/entity"
)

// IterKind filters the nodes an Iter yields.
type IterKind int

const (
	// IterAll yields window and fork nodes alike.
	IterAll IterKind = iota
	// IterWindows yields only window nodes.
	IterWindows
	// IterForks yields only fork nodes.
	IterForks
)

// Iter walks every leaf node under a subtree exactly once. It is lazy and
// non-restartable; traversal is stack-based, so sibling order within a fork
// is preserved but no strict pre-order across levels is guaranteed.
type Iter struct {
	t     *Tiler
	kind  IterKind
	stack []entity.Handle
	queue []Node
}

// Iter returns an iterator over the subtree rooted at root.
func (t *Tiler) Iter(root entity.Handle, kind IterKind) *Iter {
	return &Iter{t: t, kind: kind, stack: []entity.Handle{root}}
}

// Next returns the next node, or ok=false when the traversal is exhausted.
func (it *Iter) Next() (Node, bool) {
	for len(it.queue) == 0 {
		if len(it.stack) == 0 {
			return Node{}, false
		}
		h := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		fork, ok := it.t.forks.Get(h)
		if !ok {
			continue
		}
		it.push(fork.Left)
		if fork.Right != nil {
			it.push(*fork.Right)
		}
	}
	n := it.queue[0]
	it.queue = it.queue[1:]
	return n, true
}

func (it *Iter) push(n Node) {
	if n.Kind == NodeFork {
		it.stack = append(it.stack, n.Entity)
	}
	switch it.kind {
	case IterWindows:
		if n.Kind != NodeWindow {
			return
		}
	case IterForks:
		if n.Kind != NodeFork {
			return
		}
	}
	it.queue = append(it.queue, n)
}

// LargestWindowOn returns the window with the largest rectangle area in the
// subtree rooted at root, or None when the subtree holds no windows.
func (t *Tiler) LargestWindowOn(root entity.Handle) entity.Handle {
	best := entity.None
	bestArea := -1
	it := t.Iter(root, IterWindows)
	for {
		n, ok := it.Next()
		if !ok {
			return best
		}
		rect, ok := t.placer.WindowRect(n.Entity)
		if !ok {
			continue
		}
		if area := rect.Area(); area > bestArea {
			best, bestArea = n.Entity, area
		}
	}
}
