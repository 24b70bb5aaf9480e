// Package state holds self-contained modal screens. A screen returns at most
// one command per key event instead of bubbling it through a view tree.
package state

import (
	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
)

// State is a modal screen.
type State interface {
	Enter() error
	Leave() error
	Draw(d display.Display, styles *models.Stylesheet) error
	// HandleKeyEvent returns the command to dispatch, if any, and whether
	// the screen needs a redraw.
	HandleKeyEvent(event input.KeyEvent) (*models.Command, bool, error)
}

// Translator resolves localized strings.
type Translator interface {
	T(id string) string
}
