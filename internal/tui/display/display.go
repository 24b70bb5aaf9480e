package display

import (
	"errors"

	"github.com/opencode-ai/allium/internal/models"
)

// ErrOutOfBounds is returned when a draw call misses the surface entirely.
var ErrOutOfBounds = errors.New("draw outside display bounds")

// TextStyle describes how a run of text is painted.
type TextStyle struct {
	Foreground     models.Color
	Background     models.Color
	DrawBackground bool
	Underline      bool
	Bold           bool
}

// Display is the drawing surface. Callers invalidate the minimal rectangle
// they are about to repaint; invalidation restores the surface background.
type Display interface {
	Size() Size
	Invalidate(rect Rect) error
	DrawText(at Point, text string, style TextStyle, align Alignment) (Rect, error)
	DrawFilledRect(rect Rect, color models.Color) error
}

// Bounds returns the full surface rectangle.
func Bounds(d Display) Rect {
	size := d.Size()
	return NewRect(0, 0, size.W, size.H)
}

// TextRect returns the rectangle text would occupy when drawn at a point.
func TextRect(at Point, text string, align Alignment) Rect {
	width := TextWidth(text)
	x := at.X
	switch align {
	case AlignRight:
		x -= width
	case AlignCenter:
		x -= width / 2
	}
	return NewRect(x, at.Y, width, 1)
}

// TextWidth returns the number of cells text occupies.
func TextWidth(text string) int {
	return len([]rune(text))
}
