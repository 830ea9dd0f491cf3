package tiler

import (
	"math"

	"github.com/forktile/forktile/internal/entity"
	"github.com/forktile/forktile/internal/geometry"
)

// Ratio clamp bounds. A fork never gives either branch less than five
// percent of its length, matching the minimum usable split.
const (
	minRatio = 0.05
	maxRatio = 0.95
)

// WorkspaceID identifies one workspace on one monitor. It is used directly
// as the toplevel registry key.
type WorkspaceID struct {
	Monitor   int
	Workspace int
}

// Fork is a binary split of a rectangular area. Left is always present;
// Right is optional. Parent is a back-reference into the fork store and
// confers no ownership.
type Fork struct {
	Left        Node
	Right       *Node
	Area        geometry.Rect
	Ratio       float64
	Orientation geometry.Orientation
	Parent      entity.Handle
	Workspace   WorkspaceID
	IsToplevel  bool
}

// NewFork creates a fork holding a single left branch over the given area.
// The split orientation follows the area's aspect ratio: wider than tall
// splits horizontally.
func NewFork(left Node, area geometry.Rect, workspace WorkspaceID) *Fork {
	return &Fork{
		Left:        left,
		Area:        area,
		Ratio:       0.5,
		Orientation: orientationFor(area),
		Workspace:   workspace,
	}
}

func orientationFor(area geometry.Rect) geometry.Orientation {
	if area.Width > area.Height {
		return geometry.Horizontal
	}
	return geometry.Vertical
}

// IsHorizontal reports whether the fork splits left/right rather than
// top/bottom.
func (f *Fork) IsHorizontal() bool {
	return f.Orientation == geometry.Horizontal
}

// SetRatio derives the split ratio from an absolute left-branch length
// within forkLength, clamped so neither branch collapses.
func (f *Fork) SetRatio(leftLength, forkLength int) {
	if forkLength <= 0 {
		return
	}
	ratio := float64(leftLength) / float64(forkLength)
	f.Ratio = math.Min(math.Max(ratio, minRatio), maxRatio)
}

// SetOrientation overrides the split orientation.
func (f *Fork) SetOrientation(o geometry.Orientation) {
	f.Orientation = o
}

// SetParent rewrites the parent back-reference.
func (f *Fork) SetParent(parent entity.Handle) {
	f.Parent = parent
}

// SetToplevel marks or unmarks the fork as a workspace root.
func (f *Fork) SetToplevel(toplevel bool) {
	f.IsToplevel = toplevel
}

// LengthLeft returns the left branch's extent along the split axis, derived
// from the current ratio.
func (f *Fork) LengthLeft() int {
	length := f.Area.Side(f.Orientation.LengthAxis())
	return int(math.Round(float64(length) * f.Ratio))
}

// AreaOfLeft returns the rectangle the left branch governs. With no right
// branch the left branch spans the whole fork.
func (f *Fork) AreaOfLeft() geometry.Rect {
	if f.Right == nil {
		return f.Area
	}
	left := f.Area.Clone()
	left.SetSide(f.Orientation.LengthAxis(), f.LengthLeft())
	return left
}

// AreaOfRight returns the rectangle the right branch governs, or an empty
// rectangle when there is no right branch.
func (f *Fork) AreaOfRight() geometry.Rect {
	if f.Right == nil {
		return geometry.Rect{}
	}
	leftLength := f.LengthLeft()
	right := f.Area.Clone()
	right.SetSide(f.Orientation.PositionAxis(), f.Area.Side(f.Orientation.PositionAxis())+leftLength)
	right.SetSide(f.Orientation.LengthAxis(), f.Area.Side(f.Orientation.LengthAxis())-leftLength)
	return right
}

// branchOf reports which branch holds the given window. ok is false when the
// window is in neither branch.
func (f *Fork) branchOf(window entity.Handle) (isLeft, ok bool) {
	if f.Left.IsWindow(window) {
		return true, true
	}
	if f.Right != nil && f.Right.IsWindow(window) {
		return false, true
	}
	return false, false
}

// replaceChildFork swaps the branch pointing at the fork handle old for the
// replacement node. Returns false when neither branch points at old.
func (f *Fork) replaceChildFork(old entity.Handle, replacement Node) bool {
	if f.Left.Kind == NodeFork && f.Left.Entity == old {
		f.Left = replacement
		return true
	}
	if f.Right != nil && f.Right.Kind == NodeFork && f.Right.Entity == old {
		r := replacement
		f.Right = &r
		return true
	}
	return false
}

// Tile applies area to the fork and pushes the resulting partition down to
// its branches: window branches are placed through the engine's Placer,
// fork branches recurse. Returns false if any placement failed. This is the
// fork's geometry primitive; callers decide whether failure triggers a
// rollback.
func (f *Fork) Tile(t *Tiler, area geometry.Rect, failureAllowed bool) bool {
	f.Area = area
	if f.Right == nil {
		return t.tileNode(f.Left, area, f.Workspace, failureAllowed)
	}

	ok := t.tileNode(f.Left, f.AreaOfLeft(), f.Workspace, failureAllowed)
	if !t.tileNode(*f.Right, f.AreaOfRight(), f.Workspace, failureAllowed) {
		ok = false
	}
	return ok
}
