package view

import (
	"context"
	"fmt"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
)

// Row lays out children horizontally from an anchor. With AlignRight the
// last child ends just before the anchor.
type Row[T Positioned] struct {
	at       display.Point
	align    display.Alignment
	spacing  int
	children []T
	prev     display.Rect
	dirty    bool
}

// NewRow creates a row and positions its children.
func NewRow[T Positioned](at display.Point, children []T, align display.Alignment, spacing int) *Row[T] {
	r := &Row[T]{at: at, align: align, spacing: spacing, children: children}
	r.layout()
	return r
}

// Len returns the number of children.
func (r *Row[T]) Len() int { return len(r.children) }

// Items returns the children in order.
func (r *Row[T]) Items() []T { return r.children }

// Insert places child at index i, clamped to the current length.
func (r *Row[T]) Insert(i int, child T) {
	i = max(0, min(i, len(r.children)))
	r.children = append(r.children, child)
	copy(r.children[i+1:], r.children[i:])
	r.children[i] = child
	r.layout()
}

// Remove takes out the child at index i.
func (r *Row[T]) Remove(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(r.children) {
		return zero, false
	}
	child := r.children[i]
	r.children = append(r.children[:i], r.children[i+1:]...)
	r.layout()
	return child, true
}

func (r *Row[T]) layout() {
	switch r.align {
	case display.AlignRight:
		x := r.at.X
		for i := len(r.children) - 1; i >= 0; i-- {
			x -= r.children[i].Width()
			r.children[i].SetPosition(display.Pt(x, r.at.Y))
			x -= r.spacing
		}
	default:
		x := r.at.X
		if r.align == display.AlignCenter {
			x -= r.totalWidth() / 2
		}
		for _, c := range r.children {
			c.SetPosition(display.Pt(x, r.at.Y))
			x += c.Width() + r.spacing
		}
	}
	r.dirty = true
}

func (r *Row[T]) totalWidth() int {
	w := 0
	for i, c := range r.children {
		if i > 0 {
			w += r.spacing
		}
		w += c.Width()
	}
	return w
}

// ShouldDraw implements View.
func (r *Row[T]) ShouldDraw() bool {
	if r.dirty {
		return true
	}
	for _, c := range r.children {
		if c.ShouldDraw() {
			return true
		}
	}
	return false
}

// SetShouldDraw implements View.
func (r *Row[T]) SetShouldDraw() {
	r.dirty = true
	for _, c := range r.children {
		c.SetShouldDraw()
	}
}

// Children implements View.
func (r *Row[T]) Children() []View {
	out := make([]View, len(r.children))
	for i, c := range r.children {
		out[i] = c
	}
	return out
}

// BoundingBox implements View.
func (r *Row[T]) BoundingBox(styles *models.Stylesheet) display.Rect {
	var rect display.Rect
	for _, c := range r.children {
		rect = rect.Union(c.BoundingBox(styles))
	}
	return rect
}

// Draw implements View. A layout change redraws the whole row, including the
// area a removed child used to cover.
func (r *Row[T]) Draw(d display.Display, styles *models.Stylesheet) (bool, error) {
	if !r.ShouldDraw() {
		return false, nil
	}
	rect := r.BoundingBox(styles)
	if r.dirty {
		if damage := rect.Union(r.prev); !damage.Empty() {
			if err := d.Invalidate(damage); err != nil {
				return false, fmt.Errorf("invalidate row: %w", err)
			}
		}
		for _, c := range r.children {
			c.SetShouldDraw()
		}
	}
	drawn := false
	for _, c := range r.children {
		ok, err := c.Draw(d, styles)
		if err != nil {
			return drawn, err
		}
		drawn = drawn || ok
	}
	r.prev = rect
	r.dirty = false
	return drawn, nil
}

// HandleKeyEvent implements View.
func (r *Row[T]) HandleKeyEvent(ctx context.Context, event input.KeyEvent, commands Sink, bubble *Bubble) (bool, error) {
	for _, c := range r.children {
		handled, err := c.HandleKeyEvent(ctx, event, commands, bubble)
		if err != nil || handled {
			return handled, err
		}
	}
	return false, nil
}
