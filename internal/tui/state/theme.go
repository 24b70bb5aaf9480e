package state

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/coloredit"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
	"github.com/opencode-ai/allium/internal/tui/widget"
)

// ThemeSetting is an entry of the theme editor, in display order.
type ThemeSetting int

const (
	ThemeDarkMode ThemeSetting = iota
	ThemeEnableBoxArt
	ThemeHighlightColor
	ThemeForegroundColor
	ThemeBackgroundColor
	ThemeButtonAColor
	ThemeButtonBColor
	ThemeButtonXColor
	ThemeButtonYColor
	ThemeResetToDefault

	themeSettingCount
)

var themeLabelIDs = [themeSettingCount]string{
	ThemeDarkMode:        "settings-theme-dark-mode",
	ThemeEnableBoxArt:    "settings-theme-enable-box-art",
	ThemeHighlightColor:  "settings-theme-highlight-color",
	ThemeForegroundColor: "settings-theme-foreground-color",
	ThemeBackgroundColor: "settings-theme-background-color",
	ThemeButtonAColor:    "settings-theme-button-a-color",
	ThemeButtonBColor:    "settings-theme-button-b-color",
	ThemeButtonXColor:    "settings-theme-button-x-color",
	ThemeButtonYColor:    "settings-theme-button-y-color",
	ThemeResetToDefault:  "settings-theme-reset-to-default",
}

func (s ThemeSetting) String() string {
	if s < 0 || s >= themeSettingCount {
		return fmt.Sprintf("ThemeSetting(%d)", int(s))
	}
	return themeLabelIDs[s]
}

// color returns the stylesheet field edited by s, or nil for non-color entries.
func (s ThemeSetting) color(styles *models.Stylesheet) *models.Color {
	switch s {
	case ThemeHighlightColor:
		return &styles.HighlightColor
	case ThemeForegroundColor:
		return &styles.ForegroundColor
	case ThemeBackgroundColor:
		return &styles.BackgroundColor
	case ThemeButtonAColor:
		return &styles.ButtonAColor
	case ThemeButtonBColor:
		return &styles.ButtonBColor
	case ThemeButtonXColor:
		return &styles.ButtonXColor
	case ThemeButtonYColor:
		return &styles.ButtonYColor
	}
	return nil
}

// ThemeState edits a private copy of the stylesheet. Every committed change
// is returned as a SaveStylesheet command carrying a full snapshot.
type ThemeState struct {
	stylesheet   models.Stylesheet
	rect         display.Rect
	labels       [themeSettingCount]string
	toggleText   string
	confirmText  string
	selected     int
	editor       *coloredit.Editor
	confirmReset bool
	log          zerolog.Logger
}

// NewThemeState creates the theme editor over rect.
func NewThemeState(stylesheet models.Stylesheet, rect display.Rect, tr Translator, log zerolog.Logger) *ThemeState {
	s := &ThemeState{
		stylesheet:  stylesheet,
		rect:        rect,
		toggleText:  tr.T("settings-theme-dark-mode-toggle"),
		confirmText: tr.T("settings-theme-confirm-reset"),
		log:         log,
	}
	for i, id := range themeLabelIDs {
		s.labels[i] = tr.T(id)
	}
	return s
}

// Stylesheet returns a copy of the working stylesheet.
func (s *ThemeState) Stylesheet() models.Stylesheet { return s.stylesheet }

// Selected returns the selected entry.
func (s *ThemeState) Selected() int { return s.selected }

// Select restores a previously saved selection.
func (s *ThemeState) Select(i int) {
	if i < 0 || i >= int(themeSettingCount) {
		s.log.Warn().Int("index", i).Msg("invalid theme setting selected")
		return
	}
	s.selected = i
}

// EditingColor reports whether the digit editor is open.
func (s *ThemeState) EditingColor() bool { return s.editor != nil }

// ConfirmingReset reports whether the next accept resets the stylesheet.
func (s *ThemeState) ConfirmingReset() bool { return s.confirmReset }

// Enter implements State.
func (s *ThemeState) Enter() error { return nil }

// Leave implements State. An open color edit is discarded.
func (s *ThemeState) Leave() error {
	s.editor = nil
	s.confirmReset = false
	return nil
}

func (s *ThemeState) settings() []widget.Setting {
	out := make([]widget.Setting, themeSettingCount)
	for i := range out {
		setting := ThemeSetting(i)
		out[i].Label = s.labels[i]
		switch setting {
		case ThemeDarkMode:
			out[i].Widget = widget.NewAction(s.toggleText)
		case ThemeEnableBoxArt:
			out[i].Widget = widget.NewBool(s.stylesheet.EnableBoxArt)
		case ThemeResetToDefault:
			if s.confirmReset {
				out[i].Label = s.confirmText
			}
		default:
			c := *setting.color(&s.stylesheet)
			if s.editor != nil && i == s.selected {
				c = s.editor.Color
			}
			out[i].Widget = widget.NewColor(c)
		}
	}
	return out
}

// Draw implements State.
func (s *ThemeState) Draw(d display.Display, styles *models.Stylesheet) error {
	if err := d.Invalidate(s.rect); err != nil {
		return fmt.Errorf("invalidate theme settings: %w", err)
	}
	if err := widget.DrawSettings(d, styles, s.rect, s.settings(), s.selected, s.editor != nil); err != nil {
		return err
	}
	if s.editor == nil {
		return nil
	}

	row := widget.RowRect(s.rect, s.selected)
	anchor := display.Pt(row.Right()-1-widget.SwatchWidth-1, row.Y)
	if _, err := s.editor.Draw(d, styles, anchor); err != nil {
		return err
	}
	return nil
}

// HandleKeyEvent implements State.
func (s *ThemeState) HandleKeyEvent(event input.KeyEvent) (*models.Command, bool, error) {
	switch {
	case s.confirmReset:
		return s.handleConfirmReset(event)
	case s.editor != nil:
		return s.handleColorEdit(event)
	}

	switch {
	case event.IsPressedOrRepeat(input.KeyUp):
		s.selected = (s.selected - 1 + int(themeSettingCount)) % int(themeSettingCount)
		return nil, true, nil
	case event.IsPressedOrRepeat(input.KeyDown):
		s.selected = (s.selected + 1) % int(themeSettingCount)
		return nil, true, nil
	case event.IsPressed(input.KeyA):
		return s.selectEntry(), true, nil
	}
	return nil, false, nil
}

func (s *ThemeState) handleConfirmReset(event input.KeyEvent) (*models.Command, bool, error) {
	if event.Kind != input.Pressed {
		return nil, false, nil
	}
	if event.Key == input.KeyA {
		return s.selectEntry(), true, nil
	}
	s.confirmReset = false
	return nil, true, nil
}

func (s *ThemeState) handleColorEdit(event input.KeyEvent) (*models.Command, bool, error) {
	switch s.editor.HandleKey(event) {
	case coloredit.Updated:
		return nil, true, nil
	case coloredit.Commit:
		return s.selectEntry(), true, nil
	case coloredit.Cancel:
		s.editor = nil
		return nil, true, nil
	}
	return nil, false, nil
}

// selectEntry applies an accept on the selected entry. With the color
// editor open it commits the edited color instead.
func (s *ThemeState) selectEntry() *models.Command {
	setting := ThemeSetting(s.selected)

	if s.editor != nil {
		edited := s.editor.Color
		s.editor = nil
		field := setting.color(&s.stylesheet)
		if field == nil {
			s.log.Warn().Int("index", s.selected).Stringer("setting", setting).Msg("color commit on non-color setting")
			return nil
		}
		*field = edited
		return s.save()
	}

	switch setting {
	case ThemeDarkMode:
		s.stylesheet.ToggleDarkMode()
		return s.save()
	case ThemeEnableBoxArt:
		s.stylesheet.EnableBoxArt = !s.stylesheet.EnableBoxArt
		return s.save()
	case ThemeResetToDefault:
		if !s.confirmReset {
			s.confirmReset = true
			return nil
		}
		s.confirmReset = false
		s.stylesheet = models.DefaultStylesheet()
		return s.save()
	}

	if field := setting.color(&s.stylesheet); field != nil {
		s.editor = coloredit.New(*field)
		return nil
	}
	s.log.Warn().Int("index", s.selected).Msg("invalid theme setting selected")
	return nil
}

func (s *ThemeState) save() *models.Command {
	cmd := models.SaveStylesheet(s.stylesheet)
	return &cmd
}
