// Package widget provides the fixed set of value widgets shown in settings
// lists: Bool, Percentage, Color, Label and Action.
package widget

import (
	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
)

// Widget renders one editable quantity, right-aligned on its draw point.
type Widget interface {
	Draw(d display.Display, styles *models.Stylesheet, at display.Point, selected, editing bool) (display.Rect, error)
	Value() models.Value
}

// Adjustable widgets can be edited in place. Adjust applies delta gesture
// steps and reports whether the value changed.
type Adjustable interface {
	Widget
	Adjust(delta int) bool
}

// Toggler widgets flip on a single accept.
type Toggler interface {
	Widget
	Toggle()
}

// TextStyle returns the style for list text in the given state. Text on the
// highlight fill switches to black or white to stay readable.
func TextStyle(styles *models.Stylesheet, selected, editing bool) display.TextStyle {
	style := display.TextStyle{
		Foreground: styles.ForegroundColor,
		Background: styles.BackgroundColor,
	}
	if selected {
		style.Foreground = styles.HighlightColor.Contrast()
		style.Background = styles.HighlightColor
		style.DrawBackground = true
	}
	if editing {
		style.Bold = true
		style.Underline = true
	}
	return style
}

// Bool is a two-state toggle.
type Bool struct {
	value bool
}

// NewBool creates a toggle.
func NewBool(value bool) *Bool {
	return &Bool{value: value}
}

// Draw implements Widget.
func (w *Bool) Draw(d display.Display, styles *models.Stylesheet, at display.Point, selected, editing bool) (display.Rect, error) {
	text := "[ ]"
	if w.value {
		text = "[x]"
	}
	return d.DrawText(at, text, TextStyle(styles, selected, editing), display.AlignRight)
}

// Value implements Widget.
func (w *Bool) Value() models.Value { return models.BoolValue(w.value) }

// Toggle flips the value.
func (w *Bool) Toggle() { w.value = !w.value }

// Adjust flips the value for any non-zero delta.
func (w *Bool) Adjust(delta int) bool {
	if delta == 0 {
		return false
	}
	w.Toggle()
	return true
}

// Label is read-only text.
type Label struct {
	text string
}

// NewLabel creates a read-only label.
func NewLabel(text string) *Label {
	return &Label{text: text}
}

// Draw implements Widget.
func (w *Label) Draw(d display.Display, styles *models.Stylesheet, at display.Point, selected, editing bool) (display.Rect, error) {
	return d.DrawText(at, w.text, TextStyle(styles, selected, false), display.AlignRight)
}

// Value implements Widget.
func (w *Label) Value() models.Value { return models.StringValue(w.text) }

// Text returns the label text.
func (w *Label) Text() string { return w.text }

// Action is text whose accept triggers a side effect owned by the screen.
type Action struct {
	text string
}

// NewAction creates an action entry. Text may be empty.
func NewAction(text string) *Action {
	return &Action{text: text}
}

// Draw implements Widget.
func (w *Action) Draw(d display.Display, styles *models.Stylesheet, at display.Point, selected, editing bool) (display.Rect, error) {
	if w.text == "" {
		return display.NewRect(at.X, at.Y, 0, 1), nil
	}
	return d.DrawText(at, w.text, TextStyle(styles, selected, false), display.AlignRight)
}

// Value implements Widget.
func (w *Action) Value() models.Value { return models.ActionValue() }
