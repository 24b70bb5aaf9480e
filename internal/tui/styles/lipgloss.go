// Package styles derives the lipgloss styles used around the settings surface.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/allium/internal/models"
)

// Styles contains lipgloss styles derived from a stylesheet.
type Styles struct {
	Title   lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Frame   lipgloss.Style
	Key     lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles builds styles from the factory stylesheet.
func DefaultStyles() Styles {
	return FromStylesheet(models.DefaultStylesheet())
}

// FromStylesheet converts stylesheet colors into lipgloss styles.
func FromStylesheet(s models.Stylesheet) Styles {
	fg := color(s.ForegroundColor)
	bg := color(s.BackgroundColor)

	return Styles{
		Title:   lipgloss.NewStyle().Foreground(fg).Bold(true),
		Text:    lipgloss.NewStyle().Foreground(fg),
		Muted:   lipgloss.NewStyle().Foreground(color(s.DisabledColor)),
		Accent:  lipgloss.NewStyle().Foreground(color(s.HighlightColor)),
		Frame:   lipgloss.NewStyle().Background(bg).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(color(s.HighlightColor)),
		Key:     lipgloss.NewStyle().Foreground(color(s.ButtonAColor)).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(color(s.ButtonBColor)),
		Error:   lipgloss.NewStyle().Foreground(color(s.ButtonAColor)).Bold(true),
	}
}

func color(c models.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
