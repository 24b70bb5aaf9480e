package widget

import (
	"fmt"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
)

// RowHeight is the height of one settings row.
const RowHeight = 1

// Setting pairs a label with its widget. Screens rebuild settings from live
// state on every draw.
type Setting struct {
	Label  string
	Widget Widget
}

// RowRect returns the rectangle of row i inside area.
func RowRect(area display.Rect, i int) display.Rect {
	return display.NewRect(area.X, area.Y+i*RowHeight, area.W, RowHeight)
}

// DrawRow paints one labeled row. The selected row is filled with the
// highlight color first.
func DrawRow(d display.Display, styles *models.Stylesheet, row display.Rect, label string, w Widget, selected, editing bool) error {
	if selected {
		if err := d.DrawFilledRect(row, styles.HighlightColor); err != nil {
			return fmt.Errorf("draw row highlight: %w", err)
		}
	}
	if _, err := d.DrawText(display.Pt(row.X+1, row.Y), label, TextStyle(styles, selected, false), display.AlignLeft); err != nil {
		return fmt.Errorf("draw label %q: %w", label, err)
	}
	if w == nil {
		return nil
	}
	if _, err := w.Draw(d, styles, display.Pt(row.Right()-1, row.Y), selected, editing); err != nil {
		return fmt.Errorf("draw value for %q: %w", label, err)
	}
	return nil
}

// DrawSettings paints a whole list. Only the selected row may be editing.
func DrawSettings(d display.Display, styles *models.Stylesheet, area display.Rect, settings []Setting, selected int, editing bool) error {
	for i, s := range settings {
		isSelected := i == selected
		if err := DrawRow(d, styles, RowRect(area, i), s.Label, s.Widget, isSelected, isSelected && editing); err != nil {
			return err
		}
	}
	return nil
}
