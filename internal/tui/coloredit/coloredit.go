// Package coloredit implements digit-wise editing of a 24-bit color.
//
// The six hex digits are addressed left to right: 0, 2 and 4 are the high
// nibbles of red, green and blue, 1, 3 and 5 the low nibbles. Stepping a
// digit wraps within that nibble and never carries into its neighbour.
package coloredit

import (
	"fmt"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
	"github.com/opencode-ai/allium/internal/tui/widget"
)

// Digits is the number of editable hex digits.
const Digits = 6

// Editor holds the transient state of a color edit.
type Editor struct {
	Color  models.Color
	Cursor int
}

// New starts editing c with the cursor on the first digit.
func New(c models.Color) *Editor {
	return &Editor{Color: c}
}

// StepNibble adds step to one nibble of b. The other nibble is unchanged.
func StepNibble(b uint8, high bool, step int) uint8 {
	if high {
		return uint8(mod(int(b)+16*step, 256))
	}
	hi := int(b) - int(b)%16
	lo := mod(int(b)%16+step, 16)
	return uint8(hi + lo)
}

// StepDigit changes digit i of c by step.
func StepDigit(c models.Color, i, step int) models.Color {
	high := i%2 == 0
	switch i / 2 {
	case 0:
		return c.WithR(StepNibble(c.R(), high, step))
	case 1:
		return c.WithG(StepNibble(c.G(), high, step))
	case 2:
		return c.WithB(StepNibble(c.B(), high, step))
	}
	return c
}

// Step changes the digit under the cursor.
func (e *Editor) Step(step int) {
	e.Color = StepDigit(e.Color, e.Cursor, step)
}

// MoveCursor moves the cursor by delta, clamped to the first and last digit.
func (e *Editor) MoveCursor(delta int) {
	e.Cursor += delta
	if e.Cursor < 0 {
		e.Cursor = 0
	}
	if e.Cursor > Digits-1 {
		e.Cursor = Digits - 1
	}
}

// Outcome is the result of feeding a key to the editor.
type Outcome int

const (
	Ignored Outcome = iota
	Updated
	Commit
	Cancel
)

func (o Outcome) String() string {
	switch o {
	case Updated:
		return "updated"
	case Commit:
		return "commit"
	case Cancel:
		return "cancel"
	default:
		return "ignored"
	}
}

// HandleKey applies one key press. Up and Down step the digit under the
// cursor, Left and Right move the cursor, A commits and B cancels.
func (e *Editor) HandleKey(event input.KeyEvent) Outcome {
	if event.Kind == input.Released {
		return Ignored
	}
	switch event.Key {
	case input.KeyUp:
		e.Step(1)
		return Updated
	case input.KeyDown:
		e.Step(-1)
		return Updated
	case input.KeyLeft:
		e.MoveCursor(-1)
		return Updated
	case input.KeyRight:
		e.MoveCursor(1)
		return Updated
	}
	if event.Kind != input.Pressed {
		return Ignored
	}
	switch event.Key {
	case input.KeyA:
		return Commit
	case input.KeyB:
		return Cancel
	}
	return Ignored
}

// Draw paints "#" and the six digits ending just before anchor. Digits are
// laid out right to left starting from the last one; the cursor digit is
// underlined.
func (e *Editor) Draw(d display.Display, styles *models.Stylesheet, anchor display.Point) (display.Rect, error) {
	base := widget.TextStyle(styles, true, false)
	rect := display.NewRect(anchor.X, anchor.Y, 0, 1)

	x := anchor.X
	for i := Digits - 1; i >= 0; i-- {
		style := base
		if i == e.Cursor {
			style.Underline = true
			style.Bold = true
		}
		r, err := d.DrawText(display.Pt(x, anchor.Y), e.Color.Digit(i), style, display.AlignRight)
		if err != nil {
			return rect, fmt.Errorf("draw digit %d: %w", i, err)
		}
		rect = rect.Union(r)
		x = r.X
	}
	r, err := d.DrawText(display.Pt(x, anchor.Y), "#", base, display.AlignRight)
	if err != nil {
		return rect, fmt.Errorf("draw color prefix: %w", err)
	}
	return rect.Union(r), nil
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
