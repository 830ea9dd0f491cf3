// Package tiler implements the automatic tiling layout engine: a forest of
// binary fork trees, one root per (monitor, workspace), describing how a
// screen area is recursively split between windows. The engine owns the tree
// surgery for attaching and detaching windows and the resize propagation
// that keeps the partition consistent; actual window placement is delegated
// to a Placer collaborator.
package tiler

import (
	"github.com/charmbracelet/log"
	"github.com/forktile/forktile/internal/entity"
	"github.com/forktile/forktile/internal/geometry"
)

// Placer applies computed geometry to real windows and answers rectangle
// queries. Placement may fail (for example below a window's minimum size)
// and reports so without panicking; the engine handles rollback.
type Placer interface {
	// WindowRect returns the current rectangle of a window, or ok=false
	// when the handle is unknown.
	WindowRect(window entity.Handle) (geometry.Rect, bool)
	// PlaceWindow moves a window to area on the given workspace. When
	// failureAllowed is true the placer should apply the geometry even if
	// it violates its own constraints.
	PlaceWindow(window entity.Handle, area geometry.Rect, workspace WorkspaceID, failureAllowed bool) bool
}

// AttachFunc is invoked once per newly created parent-child association so
// callers can maintain their own window-to-fork indexes.
type AttachFunc func(parent, child entity.Handle)

// Option configures a Tiler.
type Option func(*Tiler)

// WithLogger sets the logger used for integrity faults and debug traces.
func WithLogger(logger *log.Logger) Option {
	return func(t *Tiler) { t.log = logger }
}

// WithAttachHook registers the attachment notification callback.
func WithAttachHook(fn AttachFunc) Option {
	return func(t *Tiler) { t.onAttach = fn }
}

// Tiler is the engine state: the fork store and the toplevel registry. All
// operations are synchronous and must be serialized by the caller.
type Tiler struct {
	forks    *entity.Store[Fork]
	toplevel map[WorkspaceID]entity.Handle
	placer   Placer
	onAttach AttachFunc
	log      *log.Logger
}

// New returns an engine with an empty forest.
func New(placer Placer, opts ...Option) *Tiler {
	t := &Tiler{
		forks:    entity.NewStore[Fork](),
		toplevel: make(map[WorkspaceID]entity.Handle),
		placer:   placer,
		log:      log.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fork returns the fork stored under h.
func (t *Tiler) Fork(h entity.Handle) (*Fork, bool) {
	return t.forks.Get(h)
}

// ForkCount returns the number of live forks across all workspaces.
func (t *Tiler) ForkCount() int {
	return t.forks.Len()
}

// CreateFork stores a fork and returns its handle.
func (t *Tiler) CreateFork(fork Fork) entity.Handle {
	return t.forks.Create(fork)
}

// DeleteFork removes a fork from the store and, if it was a toplevel, from
// the registry. The caller must have already detached it from its parent.
func (t *Tiler) DeleteFork(h entity.Handle) {
	fork, ok := t.forks.Get(h)
	if !ok {
		return
	}
	if fork.IsToplevel {
		if registered, ok := t.toplevel[fork.Workspace]; ok && registered == h {
			delete(t.toplevel, fork.Workspace)
		}
	}
	t.forks.Delete(h)
}

// CreateToplevel creates the root fork for a workspace, holding window as
// its sole branch, and registers it. An existing registration for the same
// id is replaced; the engine guarantees at most one toplevel per id.
func (t *Tiler) CreateToplevel(window entity.Handle, area geometry.Rect, id WorkspaceID) (entity.Handle, *Fork) {
	fork := NewFork(WindowNode(window), area, id)
	fork.IsToplevel = true
	h := t.forks.Create(*fork)
	if prev, ok := t.toplevel[id]; ok && prev != h {
		t.log.Warn("replacing toplevel fork", "monitor", id.Monitor, "workspace", id.Workspace, "fork", prev)
		t.forks.Delete(prev)
	}
	t.toplevel[id] = h
	if t.onAttach != nil {
		t.onAttach(h, window)
	}
	stored, _ := t.forks.Get(h)
	return h, stored
}

// FindToplevel returns the root fork registered for id, or None.
func (t *Tiler) FindToplevel(id WorkspaceID) entity.Handle {
	if h, ok := t.toplevel[id]; ok {
		return h
	}
	return entity.None
}

// AttachWindow inserts the window new beside the window onto, wherever onto
// currently lives in the forest. If onto's fork has a free right slot the
// window drops straight in; otherwise onto's branch is split into a new
// sub-fork holding both windows. Returns the fork at the point of
// attachment, or None when onto is not in any fork.
func (t *Tiler) AttachWindow(onto, new entity.Handle) (entity.Handle, *Fork) {
	var (
		foundH entity.Handle
		found  *Fork
		isLeft bool
	)
	t.forks.Each(func(h entity.Handle, f *Fork) bool {
		if f.Left.IsWindow(onto) {
			foundH, found, isLeft = h, f, true
			return false
		}
		if f.Right != nil && f.Right.IsWindow(onto) {
			foundH, found, isLeft = h, f, false
			return false
		}
		return true
	})
	if found == nil {
		return entity.None, nil
	}

	if isLeft && found.Right == nil {
		right := WindowNode(new)
		found.Right = &right
		t.notifyAttach(foundH, new)
		return foundH, found
	}

	// The occupied branch is split: the old leaf and the new window become
	// children of a fresh sub-fork inheriting the leaf's rectangle.
	var branchArea geometry.Rect
	if isLeft {
		branchArea = found.AreaOfLeft()
	} else {
		branchArea = found.AreaOfRight()
	}

	sub := NewFork(WindowNode(onto), branchArea, found.Workspace)
	right := WindowNode(new)
	sub.Right = &right
	sub.Parent = foundH
	subH := t.forks.Create(*sub)

	if isLeft {
		found.Left = ForkNode(subH)
	} else {
		node := ForkNode(subH)
		found.Right = &node
	}

	t.notifyAttach(subH, onto)
	t.notifyAttach(subH, new)
	stored, _ := t.forks.Get(subH)
	return subH, stored
}

func (t *Tiler) notifyAttach(parent, child entity.Handle) {
	if t.onAttach != nil {
		t.onAttach(parent, child)
	}
}

// Detach removes window from the given fork, collapsing the tree as needed:
// a fork left with a single branch is replaced by that branch in its parent,
// and a root fork absorbs a lone fork child's branches to drop a level.
// Returns the fork that must be re-tiled, or None when the tree emptied.
func (t *Tiler) Detach(forkH, window entity.Handle) (entity.Handle, *Fork) {
	fork, ok := t.forks.Get(forkH)
	if !ok {
		t.log.Error("detach on dead fork", "fork", forkH, "window", window)
		return entity.None, nil
	}

	isLeft, ok := fork.branchOf(window)
	if !ok {
		t.log.Debug("detach miss", "fork", forkH, "window", window)
		return entity.None, nil
	}

	if isLeft {
		switch {
		case fork.Parent.IsSome() && fork.Right != nil:
			if !t.promoteBranch(forkH, fork, *fork.Right) {
				return entity.None, nil
			}
			reflowH := fork.Parent
			t.DeleteFork(forkH)
			reflow, _ := t.forks.Get(reflowH)
			return reflowH, reflow
		case fork.Right != nil:
			if !t.absorbOrPromoteRoot(forkH, fork, *fork.Right) {
				return entity.None, nil
			}
			return forkH, fork
		default:
			// Last branch gone; the tree for this workspace is empty.
			if fork.Parent.IsSome() {
				t.log.Error("integrity fault: childless fork below the root", "fork", forkH, "parent", fork.Parent)
			}
			t.DeleteFork(forkH)
			return entity.None, nil
		}
	}

	switch {
	case fork.Parent.IsSome():
		if !t.promoteBranch(forkH, fork, fork.Left) {
			return entity.None, nil
		}
		reflowH := fork.Parent
		t.DeleteFork(forkH)
		reflow, _ := t.forks.Get(reflowH)
		return reflowH, reflow
	case fork.Left.Kind == NodeFork:
		if !t.absorbOrPromoteRoot(forkH, fork, fork.Left) {
			return entity.None, nil
		}
		return forkH, fork
	default:
		fork.Right = nil
		return forkH, fork
	}
}

// promoteBranch moves the surviving branch of fork into the slot fork
// occupies in its parent and reparents the branch if it is itself a fork.
// The parent is updated before the caller deletes the fork.
func (t *Tiler) promoteBranch(forkH entity.Handle, fork *Fork, survivor Node) bool {
	parent, ok := t.forks.Get(fork.Parent)
	if !ok {
		t.log.Error("integrity fault: parent fork missing", "fork", forkH, "parent", fork.Parent)
		return false
	}
	if !parent.replaceChildFork(forkH, survivor) {
		t.log.Error("integrity fault: parent does not reference fork", "fork", forkH, "parent", fork.Parent)
		return false
	}
	if survivor.Kind == NodeFork {
		child, ok := t.forks.Get(survivor.Entity)
		if !ok {
			t.log.Error("integrity fault: promoted fork missing", "fork", survivor.Entity)
			return false
		}
		child.Parent = fork.Parent
	}
	return true
}

// absorbOrPromoteRoot collapses a root fork down to its surviving branch.
// A fork branch is absorbed: its children, ratio and orientation replace the
// root's and the branch fork is deleted. A window branch is promoted to the
// left slot.
func (t *Tiler) absorbOrPromoteRoot(rootH entity.Handle, root *Fork, survivor Node) bool {
	if survivor.Kind == NodeWindow {
		root.Left = survivor
		root.Right = nil
		return true
	}

	child, ok := t.forks.Get(survivor.Entity)
	if !ok {
		t.log.Error("integrity fault: absorbed fork missing", "fork", survivor.Entity)
		return false
	}
	root.Left = child.Left
	root.Right = child.Right
	root.Ratio = child.Ratio
	root.Orientation = child.Orientation
	if !t.reparentBranch(root.Left, rootH) {
		return false
	}
	if root.Right != nil && !t.reparentBranch(*root.Right, rootH) {
		return false
	}
	t.forks.Delete(survivor.Entity)
	return true
}

func (t *Tiler) reparentBranch(branch Node, parent entity.Handle) bool {
	if branch.Kind != NodeFork {
		return true
	}
	child, ok := t.forks.Get(branch.Entity)
	if !ok {
		t.log.Error("integrity fault: reparented fork missing", "fork", branch.Entity)
		return false
	}
	child.Parent = parent
	return true
}

// Tile re-applies geometry to the subtree rooted at forkH, keeping the
// fork's current area.
func (t *Tiler) Tile(forkH entity.Handle, failureAllowed bool) bool {
	fork, ok := t.forks.Get(forkH)
	if !ok {
		return false
	}
	return fork.Tile(t, fork.Area, failureAllowed)
}

// tileNode pushes a computed rectangle down one branch.
func (t *Tiler) tileNode(node Node, area geometry.Rect, workspace WorkspaceID, failureAllowed bool) bool {
	switch node.Kind {
	case NodeWindow:
		return t.placer.PlaceWindow(node.Entity, area, workspace, failureAllowed)
	default:
		child, ok := t.forks.Get(node.Entity)
		if !ok {
			t.log.Error("integrity fault: branch fork missing", "fork", node.Entity)
			return false
		}
		return child.Tile(t, area, failureAllowed)
	}
}
