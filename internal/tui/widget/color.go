package widget

import (
	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
)

// SwatchWidth is the width of the filled color sample.
const SwatchWidth = 4

// Color shows a swatch of its color. It is never edited in place; the owning
// screen opens the digit editor instead.
type Color struct {
	value models.Color
}

// NewColor creates a color swatch.
func NewColor(value models.Color) *Color {
	return &Color{value: value}
}

// Draw implements Widget. While editing only the swatch is drawn so the
// digit editor can paint the hex digits beside it.
func (w *Color) Draw(d display.Display, styles *models.Stylesheet, at display.Point, selected, editing bool) (display.Rect, error) {
	swatch := display.NewRect(at.X-SwatchWidth, at.Y, SwatchWidth, 1)
	if err := d.DrawFilledRect(swatch, w.value); err != nil {
		return swatch, err
	}
	if editing {
		return swatch, nil
	}
	text, err := d.DrawText(display.Pt(swatch.X-1, at.Y), w.value.Hex(), TextStyle(styles, selected, false), display.AlignRight)
	if err != nil {
		return swatch, err
	}
	return swatch.Union(text), nil
}

// Value implements Widget.
func (w *Color) Value() models.Value { return models.ColorValue(w.value) }
