// Package components provides text blocks rendered around the settings surface.
package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/styles"
)

// Notice replaces the settings surface when it cannot be shown.
type Notice struct {
	Title    string
	Subtitle string
	// Suggestions are commands the user can run to recover.
	Suggestions []Suggestion
	Error       bool
}

// Suggestion is a command with a short description.
type Suggestion struct {
	Command     string
	Description string
}

// Render renders the notice with the given styles.
func (n Notice) Render(styleSet styles.Styles) string {
	var lines []string

	title := styleSet.Warning
	if n.Error {
		title = styleSet.Error
	}
	lines = append(lines, title.Render(n.Title))

	if n.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(n.Subtitle))
	}

	if len(n.Suggestions) > 0 {
		lines = append(lines, "")
		for _, s := range n.Suggestions {
			line := fmt.Sprintf("  %s", styleSet.Accent.Render(s.Command))
			if s.Description != "" {
				line += styleSet.Muted.Render(fmt.Sprintf("  # %s", s.Description))
			}
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

// TooSmall is shown while the terminal cannot fit the configured surface.
// smallest is the smallest surface the views accept.
func TooSmall(width, height, minWidth, minHeight int, smallest display.Size) Notice {
	return Notice{
		Title:    fmt.Sprintf("Terminal too small (%dx%d).", width, height),
		Subtitle: fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight),
		Suggestions: []Suggestion{
			{Command: fmt.Sprintf("allium ui --width %d --height %d", smallest.W, smallest.H), Description: "run with a smaller surface"},
		},
	}
}

// Failed is shown when the settings views hit an unrecoverable error.
func Failed(err error) Notice {
	return Notice{
		Title:    "Settings stopped.",
		Subtitle: err.Error(),
		Error:    true,
		Suggestions: []Suggestion{
			{Command: "allium log --type error", Description: "inspect recent failures"},
		},
	}
}
