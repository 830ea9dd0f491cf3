package tiler

import (
	"fmt"

	"github.com/forktile/forktile/internal/entity"
)

// NodeKind discriminates the two things a fork branch can point at.
type NodeKind int

const (
	// NodeWindow marks a branch holding a window handle.
	NodeWindow NodeKind = iota
	// NodeFork marks a branch holding a nested fork handle.
	NodeFork
)

// Node is a typed reference forming one branch of a fork. It never owns the
// entity it refers to.
type Node struct {
	Kind   NodeKind
	Entity entity.Handle
}

// WindowNode returns a branch referring to a window.
func WindowNode(window entity.Handle) Node {
	return Node{Kind: NodeWindow, Entity: window}
}

// ForkNode returns a branch referring to a nested fork.
func ForkNode(fork entity.Handle) Node {
	return Node{Kind: NodeFork, Entity: fork}
}

// IsWindow reports whether the node refers to the given window.
func (n Node) IsWindow(window entity.Handle) bool {
	return n.Kind == NodeWindow && n.Entity == window
}

// String formats the node for diagnostics.
func (n Node) String() string {
	if n.Kind == NodeWindow {
		return fmt.Sprintf("Window(%d)", n.Entity)
	}
	return fmt.Sprintf("Fork(%d)", n.Entity)
}
