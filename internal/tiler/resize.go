package tiler

import (
	"github.com/forktile/forktile/internal/entity"
	"github.com/forktile/forktile/internal/geometry"
)

// Movement describes how a window's geometry changed, as reported by the
// caller's event handler. Direction flags name the edge motion in reading
// order; Shrink distinguishes a shrinking resize from a growing one.
type Movement uint8

const (
	// MoveShrink marks the resize as shrinking the window.
	MoveShrink Movement = 1 << iota
	// MoveGrow marks the resize as growing the window.
	MoveGrow
	// MoveLeft is leftward edge motion.
	MoveLeft
	// MoveUp is upward edge motion.
	MoveUp
	// MoveRight is rightward edge motion.
	MoveRight
	// MoveDown is downward edge motion.
	MoveDown
)

// Resize adjusts the fork holding window after the window's rectangle
// changed to crect. Movement decides whether the sibling gives up or gains
// space and whether the adjustment resolves locally or walks the ancestors.
func (t *Tiler) Resize(forkH, window entity.Handle, movement Movement, crect geometry.Rect, failureAllowed bool) {
	fork, ok := t.forks.Get(forkH)
	if !ok {
		t.log.Error("resize on dead fork", "fork", forkH, "window", window)
		return
	}
	isLeft, ok := fork.branchOf(window)
	if !ok {
		t.log.Debug("resize miss", "fork", forkH, "window", window)
		return
	}

	if movement&MoveShrink != 0 {
		t.shrinkSibling(forkH, fork, isLeft, movement, crect, failureAllowed)
	} else {
		t.growSibling(forkH, fork, isLeft, movement, crect, failureAllowed)
	}
}

// growSibling handles the eight growing cases. Motion along the fork's own
// split axis toward the sibling is a plain ratio adjustment; motion away
// from the sibling or perpendicular to the split axis walks the ancestors
// for space. The eight shrink cases mirror these; the two sets are kept
// enumerated separately because edge semantics differ by branch identity.
func (t *Tiler) growSibling(forkH entity.Handle, fork *Fork, isLeft bool, movement Movement, crect geometry.Rect, failureAllowed bool) {
	if fork.IsHorizontal() {
		switch {
		case movement&(MoveUp|MoveDown) != 0:
			t.resizeForkInDirection(forkH, fork, isLeft, false, failureAllowed, crect, geometry.AxisHeight)
		case isLeft && movement&MoveRight != 0:
			t.readjustForkRatioByLeft(crect.Width, fork, fork.Area.Width, failureAllowed)
		case isLeft && movement&MoveLeft != 0:
			t.resizeForkInDirection(forkH, fork, isLeft, true, failureAllowed, crect, geometry.AxisWidth)
		case movement&MoveRight != 0:
			t.resizeForkInDirection(forkH, fork, isLeft, true, failureAllowed, crect, geometry.AxisWidth)
		case movement&MoveLeft != 0:
			t.readjustForkRatioByRight(crect.Width, fork, fork.Area.Width, failureAllowed)
		}
		return
	}

	switch {
	case movement&(MoveLeft|MoveRight) != 0:
		t.resizeForkInDirection(forkH, fork, isLeft, false, failureAllowed, crect, geometry.AxisWidth)
	case isLeft && movement&MoveDown != 0:
		t.readjustForkRatioByLeft(crect.Height, fork, fork.Area.Height, failureAllowed)
	case isLeft && movement&MoveUp != 0:
		t.resizeForkInDirection(forkH, fork, isLeft, true, failureAllowed, crect, geometry.AxisHeight)
	case movement&MoveDown != 0:
		t.resizeForkInDirection(forkH, fork, isLeft, true, failureAllowed, crect, geometry.AxisHeight)
	case movement&MoveUp != 0:
		t.readjustForkRatioByRight(crect.Height, fork, fork.Area.Height, failureAllowed)
	}
}

// shrinkSibling handles the eight shrinking cases, mirroring growSibling:
// the shared edge moving into the window is a plain ratio adjustment, the
// outer edge moving inward needs ancestor space accounting.
func (t *Tiler) shrinkSibling(forkH entity.Handle, fork *Fork, isLeft bool, movement Movement, crect geometry.Rect, failureAllowed bool) {
	if fork.IsHorizontal() {
		switch {
		case movement&(MoveUp|MoveDown) != 0:
			t.resizeForkInDirection(forkH, fork, isLeft, false, failureAllowed, crect, geometry.AxisHeight)
		case isLeft && movement&MoveLeft != 0:
			t.readjustForkRatioByLeft(crect.Width, fork, fork.Area.Width, failureAllowed)
		case isLeft && movement&MoveRight != 0:
			t.resizeForkInDirection(forkH, fork, isLeft, true, failureAllowed, crect, geometry.AxisWidth)
		case movement&MoveLeft != 0:
			t.resizeForkInDirection(forkH, fork, isLeft, true, failureAllowed, crect, geometry.AxisWidth)
		case movement&MoveRight != 0:
			t.readjustForkRatioByRight(crect.Width, fork, fork.Area.Width, failureAllowed)
		}
		return
	}

	switch {
	case movement&(MoveLeft|MoveRight) != 0:
		t.resizeForkInDirection(forkH, fork, isLeft, false, failureAllowed, crect, geometry.AxisWidth)
	case isLeft && movement&MoveUp != 0:
		t.readjustForkRatioByLeft(crect.Height, fork, fork.Area.Height, failureAllowed)
	case isLeft && movement&MoveDown != 0:
		t.resizeForkInDirection(forkH, fork, isLeft, true, failureAllowed, crect, geometry.AxisHeight)
	case movement&MoveUp != 0:
		t.resizeForkInDirection(forkH, fork, isLeft, true, failureAllowed, crect, geometry.AxisHeight)
	case movement&MoveDown != 0:
		t.readjustForkRatioByRight(crect.Height, fork, fork.Area.Height, failureAllowed)
	}
}

// resizeForkInDirection grows or shrinks the fork's extent along axis by
// walking toward the root. The candidate length comes from the triggering
// window rectangle, plus the sibling's current extent when the motion is
// along the fork's own split axis. At each level the parent's ratio is
// refreshed. Growth stops at the first ancestor whose area still contains
// the original rectangle, reclaiming space from it; a shrink keeps walking
// under containing ancestors so freed space can be reclaimed further up,
// but stops at the first ancestor that no longer contains the original.
// An ancestor that cannot contain a growing rectangle is expanded in place
// and the walk continues. The walk is iterative, bounded by tree depth.
func (t *Tiler) resizeForkInDirection(forkH entity.Handle, fork *Fork, isLeft, considerSibling, failureAllowed bool, crect geometry.Rect, axis geometry.Axis) {
	original := crect.Clone()
	length := crect.Side(axis)
	if considerSibling {
		if isLeft {
			length += fork.Area.Side(axis) - fork.LengthLeft()
		} else {
			length += fork.LengthLeft()
		}
	}

	delta := length - fork.Area.Side(axis)
	if delta == 0 {
		return
	}
	shrinking := delta < 0
	lastGood := fork.Area.Clone()

	childH, child := forkH, fork
	top := fork // the fork whose subtree gets retiled at the end
	done := false
	for !done {
		parentH := child.Parent
		if !parentH.IsSome() {
			break
		}
		parent, ok := t.forks.Get(parentH)
		if !ok {
			t.log.Error("integrity fault: resize walk lost parent", "fork", childH, "parent", parentH)
			return
		}

		switch {
		case parent.Area.Contains(original):
			child.Area.SetSide(axis, length)
			t.resizeParent(parent, child, childH, axis)
			if !shrinking {
				// Growing reclaims the space from this parent; nothing
				// above needs to move.
				done = true
			}
		case shrinking:
			t.resizeParent(parent, child, childH, axis)
			done = true
		default:
			// Growing past the parent: the parent itself must expand to
			// make room, then the walk continues upward.
			child.Area.SetSide(axis, length)
			parent.Area.SetSide(axis, parent.Area.Side(axis)+delta)
			t.resizeParent(parent, child, childH, axis)
		}

		top = parent
		if !done {
			childH, child = parentH, parent
			length = child.Area.Side(axis)
		}
	}

	if !top.Tile(t, top.Area, failureAllowed) && !failureAllowed {
		fork.Area = lastGood
		fork.Tile(t, lastGood, true)
	}
}

// resizeParent refreshes a parent's ratio after its child's extent changed.
// Nothing happens when the parent splits along a different axis or the
// child already spans the parent.
func (t *Tiler) resizeParent(parent, child *Fork, childH entity.Handle, axis geometry.Axis) {
	if parent.Orientation.LengthAxis() != axis || child.Area.Eq(parent.Area) {
		return
	}
	if parent.Left.Kind == NodeFork && parent.Left.Entity == childH {
		parent.SetRatio(child.Area.Side(axis), parent.Area.Side(axis))
	} else {
		parent.SetRatio(parent.Area.Side(axis)-child.Area.Side(axis), parent.Area.Side(axis))
	}
}

// readjustForkRatioByLeft sets the ratio from an absolute left-branch
// length and retiles. A placement failure, when not tolerated, restores the
// previous ratio and retiles with it.
func (t *Tiler) readjustForkRatioByLeft(leftLength int, fork *Fork, forkLength int, failureAllowed bool) {
	prev := fork.Ratio
	fork.SetRatio(leftLength, forkLength)
	if !fork.Tile(t, fork.Area, failureAllowed) && !failureAllowed {
		fork.Ratio = prev
		fork.Tile(t, fork.Area, true)
	}
}

// readjustForkRatioByRight is the right-branch form, defined in terms of
// the left variant.
func (t *Tiler) readjustForkRatioByRight(rightLength int, fork *Fork, forkLength int, failureAllowed bool) {
	t.readjustForkRatioByLeft(forkLength-rightLength, fork, forkLength, failureAllowed)
}
