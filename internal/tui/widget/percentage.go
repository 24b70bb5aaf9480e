package widget

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
)

const barCells = 10

// Percentage is an integer in 0..100 edited in fixed steps.
type Percentage struct {
	value int
	step  int
}

// NewPercentage creates a percentage widget stepping by 1.
func NewPercentage(value int) *Percentage {
	return &Percentage{value: clamp(value, 0, 100), step: 1}
}

// WithStep sets the gesture increment.
func (w *Percentage) WithStep(step int) *Percentage {
	if step > 0 {
		w.step = step
	}
	return w
}

// Draw implements Widget.
func (w *Percentage) Draw(d display.Display, styles *models.Stylesheet, at display.Point, selected, editing bool) (display.Rect, error) {
	filled := w.value * barCells / 100
	text := fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat(" ", barCells-filled), w.value)
	return d.DrawText(at, text, TextStyle(styles, selected, editing), display.AlignRight)
}

// Value implements Widget.
func (w *Percentage) Value() models.Value { return models.IntValue(w.value) }

// Adjust adds delta steps, saturating at the bounds.
func (w *Percentage) Adjust(delta int) bool {
	next := clamp(w.value+delta*w.step, 0, 100)
	if next == w.value {
		return false
	}
	w.value = next
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
