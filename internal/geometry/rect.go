// Package geometry provides the rectangle and axis primitives shared by the
// tiling engine and the demo window manager. Coordinates are terminal cells,
// origin at the top-left.
package geometry

import "fmt"

// Axis indexes one of the four components of a Rect. The order matches the
// positional form [x, y, width, height] so an axis can be carried through the
// resize propagation code as a single value.
type Axis int

const (
	// AxisX is the horizontal position component.
	AxisX Axis = iota
	// AxisY is the vertical position component.
	AxisY
	// AxisWidth is the horizontal extent component.
	AxisWidth
	// AxisHeight is the vertical extent component.
	AxisHeight
)

// Orientation is the direction a fork splits its area.
type Orientation int

const (
	// Horizontal splits an area into a left and a right region.
	Horizontal Orientation = iota
	// Vertical splits an area into a top and a bottom region.
	Vertical
)

// String returns the lowercase name of the orientation.
func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// LengthAxis returns the extent component measured along this orientation:
// width for horizontal splits, height for vertical ones.
func (o Orientation) LengthAxis() Axis {
	if o == Horizontal {
		return AxisWidth
	}
	return AxisHeight
}

// PositionAxis returns the position component that moves along this
// orientation: x for horizontal splits, y for vertical ones.
func (o Orientation) PositionAxis() Axis {
	if o == Horizontal {
		return AxisX
	}
	return AxisY
}

// Rect is an axis-aligned rectangle in cell coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewRect constructs a rectangle from its four components.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Side returns the component selected by axis.
func (r Rect) Side(axis Axis) int {
	switch axis {
	case AxisX:
		return r.X
	case AxisY:
		return r.Y
	case AxisWidth:
		return r.Width
	default:
		return r.Height
	}
}

// SetSide overwrites the component selected by axis.
func (r *Rect) SetSide(axis Axis, value int) {
	switch axis {
	case AxisX:
		r.X = value
	case AxisY:
		r.Y = value
	case AxisWidth:
		r.Width = value
	default:
		r.Height = value
	}
}

// Contains reports whether other lies entirely inside r.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X &&
		other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// Eq reports whether both rectangles have identical components.
func (r Rect) Eq(other Rect) bool {
	return r == other
}

// Clone returns a copy of r. Rect is a value type, so this exists only to
// make call sites that capture a pre-mutation snapshot read explicitly.
func (r Rect) Clone() Rect {
	return r
}

// Area returns width times height.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// IsEmpty reports whether the rectangle has no extent.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// String formats the rectangle as "x,y w×h".
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}
