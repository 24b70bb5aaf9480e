package components

import (
	"strings"

	"github.com/opencode-ai/allium/internal/tui/styles"
)

// LegendEntry pairs a terminal key with the keypad button it stands for.
type LegendEntry struct {
	Key    string
	Action string
}

// RenderLegend renders entries on one line, separated by " | ".
func RenderLegend(entries []LegendEntry, styleSet styles.Styles) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Key == "" {
			continue
		}
		parts = append(parts, styleSet.Key.Render(e.Key)+" "+styleSet.Muted.Render(e.Action))
	}
	return strings.Join(parts, styleSet.Muted.Render(" | "))
}
