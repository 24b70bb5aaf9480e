// Package display defines the drawing surface the settings engine renders to,
// and a terminal cell buffer that implements it.
package display

import "fmt"

// Point is a cell coordinate. Origin (0,0) is top-left.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Size is a width and height in cells.
type Size struct {
	W int
	H int
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// NewRect creates a Rect, flooring negative sizes to zero.
func NewRect(x, y, w, h int) Rect {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether the cell (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlap of two rectangles.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	return NewRect(x0, y0, x1-x0, y1-y0)
}

// Union returns the smallest rectangle covering both.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom())
	return NewRect(x0, y0, x1-x0, y1-y0)
}

// Inner returns the rectangle shrunk by padding on each side.
func (r Rect) Inner(top, right, bottom, left int) Rect {
	return NewRect(r.X+left, r.Y+top, r.W-left-right, r.H-top-bottom)
}

// Alignment anchors text horizontally on its draw point.
type Alignment int

const (
	// AlignLeft starts the text at the point.
	AlignLeft Alignment = iota
	// AlignCenter centers the text on the point.
	AlignCenter
	// AlignRight ends the text just before the point.
	AlignRight
)
