package view

import (
	"context"
	"fmt"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
)

// ButtonHint shows a face button glyph followed by what it does, e.g.
// "(A) Edit". It is always laid out left to right from its position.
type ButtonHint struct {
	at    display.Point
	key   input.Key
	text  string
	dirty bool
}

// NewButtonHint creates a hint for key.
func NewButtonHint(key input.Key, text string) *ButtonHint {
	return &ButtonHint{key: key, text: text, dirty: true}
}

// Key returns the hinted button.
func (h *ButtonHint) Key() input.Key { return h.key }

func (h *ButtonHint) icon() string {
	return "(" + h.key.String() + ")"
}

// SetPosition implements Positioned.
func (h *ButtonHint) SetPosition(at display.Point) {
	h.at = at
	h.dirty = true
}

// Width implements Positioned.
func (h *ButtonHint) Width() int {
	return display.TextWidth(h.icon()) + 1 + display.TextWidth(h.text)
}

// ShouldDraw implements View.
func (h *ButtonHint) ShouldDraw() bool { return h.dirty }

// SetShouldDraw implements View.
func (h *ButtonHint) SetShouldDraw() { h.dirty = true }

// Children implements View.
func (h *ButtonHint) Children() []View { return nil }

// BoundingBox implements View.
func (h *ButtonHint) BoundingBox(*models.Stylesheet) display.Rect {
	return display.NewRect(h.at.X, h.at.Y, h.Width(), 1)
}

// Draw implements View.
func (h *ButtonHint) Draw(d display.Display, styles *models.Stylesheet) (bool, error) {
	if !h.dirty {
		return false, nil
	}
	color, ok := styles.ButtonColor(h.key.String())
	if !ok {
		color = styles.ForegroundColor
	}
	icon, err := d.DrawText(h.at, h.icon(), display.TextStyle{Foreground: color, Bold: true}, display.AlignLeft)
	if err != nil {
		return false, fmt.Errorf("draw %s hint: %w", h.key, err)
	}
	if _, err := d.DrawText(display.Pt(icon.Right()+1, h.at.Y), h.text, display.TextStyle{Foreground: styles.ForegroundColor}, display.AlignLeft); err != nil {
		return false, fmt.Errorf("draw %s hint: %w", h.key, err)
	}
	h.dirty = false
	return true, nil
}

// HandleKeyEvent implements View.
func (h *ButtonHint) HandleKeyEvent(context.Context, input.KeyEvent, Sink, *Bubble) (bool, error) {
	return false, nil
}
