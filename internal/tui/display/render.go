package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Render converts the buffer to a styled string, one line per row. Runs of
// identically styled cells are rendered together.
func (b *CellBuffer) Render() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	lines := make([]string, 0, b.height)
	var run strings.Builder
	for y := 0; y < b.height; y++ {
		var line strings.Builder
		row := b.cells[y*b.width : (y+1)*b.width]
		for x := 0; x < len(row); {
			style := row[x].Style
			run.Reset()
			for x < len(row) && row[x].Style == style {
				run.WriteRune(row[x].Rune)
				x++
			}
			line.WriteString(lipglossStyle(style).Render(run.String()))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func lipglossStyle(style TextStyle) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(style.Foreground.Hex()))
	if style.DrawBackground {
		s = s.Background(lipgloss.Color(style.Background.Hex()))
	}
	if style.Underline {
		s = s.Underline(true)
	}
	if style.Bold {
		s = s.Bold(true)
	}
	return s
}
