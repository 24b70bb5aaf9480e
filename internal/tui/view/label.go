package view

import (
	"context"
	"fmt"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
)

// Label is a line of static text.
type Label struct {
	at    display.Point
	text  string
	align display.Alignment
	color *models.Color
	prev  display.Rect
	dirty bool
}

// NewLabel creates a label drawn in the foreground color.
func NewLabel(at display.Point, text string, align display.Alignment) *Label {
	return &Label{at: at, text: text, align: align, dirty: true}
}

// WithColor overrides the text color.
func (l *Label) WithColor(c models.Color) *Label {
	l.color = &c
	return l
}

// Text returns the current text.
func (l *Label) Text() string { return l.text }

// SetText replaces the text.
func (l *Label) SetText(text string) {
	if text == l.text {
		return
	}
	l.text = text
	l.dirty = true
}

// SetPosition implements Positioned.
func (l *Label) SetPosition(at display.Point) {
	l.at = at
	l.dirty = true
}

// Width implements Positioned.
func (l *Label) Width() int { return display.TextWidth(l.text) }

// ShouldDraw implements View.
func (l *Label) ShouldDraw() bool { return l.dirty }

// SetShouldDraw implements View.
func (l *Label) SetShouldDraw() { l.dirty = true }

// Children implements View.
func (l *Label) Children() []View { return nil }

// BoundingBox implements View.
func (l *Label) BoundingBox(*models.Stylesheet) display.Rect {
	return display.TextRect(l.at, l.text, l.align)
}

// Draw implements View. The previous text extent is cleared as well so a
// shorter replacement leaves no residue.
func (l *Label) Draw(d display.Display, styles *models.Stylesheet) (bool, error) {
	if !l.dirty {
		return false, nil
	}
	rect := l.BoundingBox(styles)
	if damage := rect.Union(l.prev); !damage.Empty() {
		if err := d.Invalidate(damage); err != nil {
			return false, fmt.Errorf("invalidate label: %w", err)
		}
	}
	fg := styles.ForegroundColor
	if l.color != nil {
		fg = *l.color
	}
	if _, err := d.DrawText(l.at, l.text, display.TextStyle{Foreground: fg}, l.align); err != nil {
		return false, fmt.Errorf("draw label %q: %w", l.text, err)
	}
	l.prev = rect
	l.dirty = false
	return true, nil
}

// HandleKeyEvent implements View. Labels never consume input.
func (l *Label) HandleKeyEvent(context.Context, input.KeyEvent, Sink, *Bubble) (bool, error) {
	return false, nil
}
