package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/styles"
)

func TestNoticeRender(t *testing.T) {
	styleSet := styles.DefaultStyles()

	tests := []struct {
		name     string
		notice   Notice
		expected []string
	}{
		{
			name:     "title only",
			notice:   Notice{Title: "Nothing here"},
			expected: []string{"Nothing here"},
		},
		{
			name:     "subtitle",
			notice:   Notice{Title: "Paused", Subtitle: "Check back later"},
			expected: []string{"Paused", "Check back later"},
		},
		{
			name:     "too small",
			notice:   TooSmall(20, 5, 60, 24, display.Size{W: 47, H: 12}),
			expected: []string{"20x5", "60x24", "allium ui --width 47 --height 12"},
		},
		{
			name:     "failed",
			notice:   Failed(errors.New("draw settings row 3: boom")),
			expected: []string{"Settings stopped", "boom", "allium log"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.notice.Render(styleSet)
			for _, exp := range tt.expected {
				if !strings.Contains(result, exp) {
					t.Errorf("Expected %q in output, got: %s", exp, result)
				}
			}
		})
	}
}

func TestRenderLegend(t *testing.T) {
	styleSet := styles.DefaultStyles()

	result := RenderLegend([]LegendEntry{
		{Key: "enter", Action: "accept"},
		{Key: "", Action: "unbound"},
		{Key: "esc", Action: "back"},
	}, styleSet)

	if !strings.Contains(result, "enter") || !strings.Contains(result, "back") {
		t.Errorf("Expected both bound entries, got: %s", result)
	}
	if strings.Contains(result, "unbound") {
		t.Errorf("Unbound entry should be skipped, got: %s", result)
	}
	if strings.Count(result, "|") != 1 {
		t.Errorf("Expected one separator, got: %s", result)
	}
}
