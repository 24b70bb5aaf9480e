package state

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/allium/internal/locale"
	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/coloredit"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
)

func newTheme(t *testing.T) *ThemeState {
	t.Helper()
	return NewThemeState(models.DefaultStylesheet(), display.NewRect(0, 0, 40, 10), locale.MustNew("en"), zerolog.Nop())
}

func key(t *testing.T, s *ThemeState, event input.KeyEvent) (*models.Command, bool) {
	t.Helper()
	cmd, redraw, err := s.HandleKeyEvent(event)
	require.NoError(t, err)
	return cmd, redraw
}

func TestThemeSelectionWraps(t *testing.T) {
	s := newTheme(t)

	_, redraw := key(t, s, input.Press(input.KeyUp))
	assert.True(t, redraw)
	assert.Equal(t, int(ThemeResetToDefault), s.Selected())

	key(t, s, input.Repeat(input.KeyDown))
	assert.Equal(t, int(ThemeDarkMode), s.Selected())

	cmd, redraw := key(t, s, input.Press(input.KeyX))
	assert.Nil(t, cmd)
	assert.False(t, redraw)
}

func TestThemeEnableBoxArtToggles(t *testing.T) {
	s := newTheme(t)
	s.Select(int(ThemeEnableBoxArt))
	before := s.Stylesheet()

	cmd, redraw := key(t, s, input.Press(input.KeyA))
	require.NotNil(t, cmd)
	assert.True(t, redraw)
	assert.Equal(t, models.CommandSaveStylesheet, cmd.Type)
	assert.Equal(t, !before.EnableBoxArt, cmd.Stylesheet.EnableBoxArt)

	want := before
	want.EnableBoxArt = !before.EnableBoxArt
	assert.Equal(t, want, *cmd.Stylesheet)
	assert.Equal(t, want, s.Stylesheet())
}

func TestThemeDarkModeInvertsColors(t *testing.T) {
	s := newTheme(t)
	before := s.Stylesheet()

	cmd, _ := key(t, s, input.Press(input.KeyA))
	require.NotNil(t, cmd)
	assert.Equal(t, before.ForegroundColor.Invert(), cmd.Stylesheet.ForegroundColor)
	assert.Equal(t, before.BackgroundColor.Invert(), cmd.Stylesheet.BackgroundColor)
	assert.Equal(t, !before.DarkMode, cmd.Stylesheet.DarkMode)
	assert.Equal(t, before.HighlightColor, cmd.Stylesheet.HighlightColor)
}

func TestThemeColorEditCancelDiscards(t *testing.T) {
	s := newTheme(t)
	s.Select(int(ThemeHighlightColor))
	before := s.Stylesheet()

	cmd, redraw := key(t, s, input.Press(input.KeyA))
	assert.Nil(t, cmd)
	assert.True(t, redraw)
	require.True(t, s.EditingColor())
	assert.Equal(t, before.HighlightColor, s.editor.Color)
	assert.Equal(t, 0, s.editor.Cursor)

	key(t, s, input.Press(input.KeyUp))
	assert.NotEqual(t, before.HighlightColor, s.editor.Color)

	cmd, redraw = key(t, s, input.Press(input.KeyB))
	assert.Nil(t, cmd)
	assert.True(t, redraw)
	assert.False(t, s.EditingColor())
	assert.Equal(t, before, s.Stylesheet())
}

func TestThemeColorEditCommit(t *testing.T) {
	s := newTheme(t)
	s.Select(int(ThemeForegroundColor))
	fg := s.Stylesheet().ForegroundColor

	key(t, s, input.Press(input.KeyA))
	key(t, s, input.Press(input.KeyRight))
	key(t, s, input.Repeat(input.KeyDown))

	cmd, redraw := key(t, s, input.Press(input.KeyA))
	require.NotNil(t, cmd)
	assert.True(t, redraw)
	assert.False(t, s.EditingColor())

	want := coloredit.StepDigit(fg, 1, -1)
	assert.Equal(t, want, cmd.Stylesheet.ForegroundColor)
	assert.Equal(t, want, s.Stylesheet().ForegroundColor)
	assert.Equal(t, models.RGB(0xEF, 0xFF, 0xFF), want)
}

func TestThemeColorEditIgnoresOtherKeys(t *testing.T) {
	s := newTheme(t)
	s.Select(int(ThemeButtonYColor))
	key(t, s, input.Press(input.KeyA))

	cmd, redraw := key(t, s, input.Press(input.KeyStart))
	assert.Nil(t, cmd)
	assert.False(t, redraw)
	assert.True(t, s.EditingColor())
}

func TestThemeResetRequiresConfirmation(t *testing.T) {
	s := newTheme(t)
	s.Select(int(ThemeEnableBoxArt))
	key(t, s, input.Press(input.KeyA))
	require.NotEqual(t, models.DefaultStylesheet(), s.Stylesheet())

	s.Select(int(ThemeResetToDefault))
	cmd, redraw := key(t, s, input.Press(input.KeyA))
	assert.Nil(t, cmd)
	assert.True(t, redraw)
	assert.True(t, s.ConfirmingReset())

	cmd, redraw = key(t, s, input.KeyEvent{Kind: input.Released, Key: input.KeyA})
	assert.Nil(t, cmd)
	assert.False(t, redraw)
	assert.True(t, s.ConfirmingReset())

	cmd, redraw = key(t, s, input.Press(input.KeyA))
	require.NotNil(t, cmd)
	assert.True(t, redraw)
	assert.Equal(t, models.DefaultStylesheet(), *cmd.Stylesheet)
	assert.Equal(t, models.DefaultStylesheet(), s.Stylesheet())
	assert.False(t, s.ConfirmingReset())
}

func TestThemeResetDisarmedByOtherKey(t *testing.T) {
	s := newTheme(t)
	s.Select(int(ThemeResetToDefault))
	key(t, s, input.Press(input.KeyA))
	require.True(t, s.ConfirmingReset())

	cmd, redraw := key(t, s, input.Press(input.KeyDown))
	assert.Nil(t, cmd)
	assert.True(t, redraw)
	assert.False(t, s.ConfirmingReset())
	assert.Equal(t, int(ThemeResetToDefault), s.Selected())

	cmd, _ = key(t, s, input.Press(input.KeyA))
	assert.Nil(t, cmd)
	assert.True(t, s.ConfirmingReset())
}

func TestThemeDraw(t *testing.T) {
	styles := models.DefaultStylesheet()
	buf := display.NewCellBuffer(40, 10, styles.ForegroundColor, styles.BackgroundColor)
	s := newTheme(t)

	require.NoError(t, s.Draw(buf, &styles))
	assert.Contains(t, buf.Line(0), "Dark Mode")
	assert.Contains(t, buf.Line(0), "Toggle")
	assert.Contains(t, buf.Line(1), "[x]")
	assert.Contains(t, buf.Line(2), "#7E4FD6")
	assert.Contains(t, buf.Line(9), "Reset to Default")
	assert.Equal(t, []display.Rect{display.NewRect(0, 0, 40, 10)}, buf.Damage())

	s.Select(int(ThemeResetToDefault))
	key(t, s, input.Press(input.KeyA))
	require.NoError(t, s.Draw(buf, &styles))
	assert.Contains(t, buf.Line(9), "Confirm Reset?")
}

func TestThemeDrawWhileEditingShowsEditedDigits(t *testing.T) {
	styles := models.DefaultStylesheet()
	buf := display.NewCellBuffer(40, 10, styles.ForegroundColor, styles.BackgroundColor)
	s := newTheme(t)
	s.Select(int(ThemeHighlightColor))
	key(t, s, input.Press(input.KeyA))
	key(t, s, input.Press(input.KeyUp))

	require.NoError(t, s.Draw(buf, &styles))
	assert.Contains(t, buf.Line(2), "#8E4FD6")
	assert.Equal(t, models.RGB(0x8E, 0x4F, 0xD6), buf.At(35, 2).Style.Background)
	assert.True(t, buf.At(28, 2).Style.Underline)
}

func TestThemeDrawSurfacesErrors(t *testing.T) {
	styles := models.DefaultStylesheet()
	buf := display.NewCellBuffer(10, 2, styles.ForegroundColor, styles.BackgroundColor)
	s := NewThemeState(styles, display.NewRect(0, 5, 40, 10), locale.MustNew("en"), zerolog.Nop())

	assert.ErrorIs(t, s.Draw(buf, &styles), display.ErrOutOfBounds)
}

func TestThemeSelectOutOfRange(t *testing.T) {
	s := newTheme(t)
	s.Select(3)
	s.Select(42)
	s.Select(-1)
	assert.Equal(t, 3, s.Selected())
}
