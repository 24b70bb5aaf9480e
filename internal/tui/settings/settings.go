// Package settings composes the settings screens: a section menu hosting one
// child at a time, the display child view and the theme editor.
package settings

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/state"
	"github.com/opencode-ai/allium/internal/tui/view"
)

// Loader reads persisted settings when a screen is constructed.
type Loader interface {
	LoadStylesheet(ctx context.Context) (models.Stylesheet, error)
	LoadDisplaySettings(ctx context.Context) (models.DisplaySettings, error)
}

// Resources are the shared collaborators handed to every screen.
type Resources struct {
	Locale state.Translator
	// Size is the screen resolution reported by the display surface.
	Size display.Size
	Log  zerolog.Logger
}

// ChildState is what a child remembers between openings.
type ChildState struct {
	Selected int
}

// Child is a section hosted by the menu.
type Child interface {
	view.View
	Save() ChildState
	Close() error
}

// Section identifies a settings section.
type Section int

const (
	SectionTheme Section = iota
	SectionDisplay
)

// Sections lists the menu entries in order.
var Sections = []Section{SectionTheme, SectionDisplay}

func (s Section) String() string {
	switch s {
	case SectionTheme:
		return "theme"
	case SectionDisplay:
		return "display"
	default:
		return fmt.Sprintf("section(%d)", int(s))
	}
}

func (s Section) labelID() string {
	return "settings-" + s.String()
}

// ParseSection resolves a section by name.
func ParseSection(name string) (Section, bool) {
	for _, s := range Sections {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// NewChild builds the view for section inside rect, restoring saved state.
func NewChild(ctx context.Context, section Section, rect display.Rect, res Resources, loader Loader, saved *ChildState) (Child, error) {
	switch section {
	case SectionTheme:
		return newThemeChild(ctx, rect, res, loader, saved)
	case SectionDisplay:
		return NewDisplay(ctx, rect, res, loader, saved)
	}
	return nil, fmt.Errorf("unknown settings section %d", int(section))
}

// themeChild hosts the theme editor screen in the view tree.
type themeChild struct {
	*view.StateView
	theme *state.ThemeState
}

func newThemeChild(ctx context.Context, rect display.Rect, res Resources, loader Loader, saved *ChildState) (*themeChild, error) {
	stylesheet, err := loader.LoadStylesheet(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stylesheet: %w", err)
	}
	log := res.Log.With().Str("screen", "theme").Logger()
	theme := state.NewThemeState(stylesheet, rect, res.Locale, log)
	if saved != nil {
		theme.Select(saved.Selected)
	}
	c := &themeChild{StateView: view.NewStateView(theme, rect, log), theme: theme}
	if err := c.Enter(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *themeChild) Save() ChildState {
	return ChildState{Selected: c.theme.Selected()}
}

func (c *themeChild) Close() error {
	return c.Leave()
}
