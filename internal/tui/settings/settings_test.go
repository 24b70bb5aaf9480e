package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/allium/internal/locale"
	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
	"github.com/opencode-ai/allium/internal/tui/view"
)

type fakeLoader struct {
	stylesheet models.Stylesheet
	display    models.DisplaySettings
	err        error
}

func (l *fakeLoader) LoadStylesheet(context.Context) (models.Stylesheet, error) {
	return l.stylesheet, l.err
}

func (l *fakeLoader) LoadDisplaySettings(context.Context) (models.DisplaySettings, error) {
	return l.display, l.err
}

type recordingSink struct {
	sent []models.Command
	err  error
}

func (s *recordingSink) Send(_ context.Context, cmd models.Command) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, cmd)
	return nil
}

func newLoader() *fakeLoader {
	return &fakeLoader{
		stylesheet: models.DefaultStylesheet(),
		display:    models.DisplaySettings{Luminance: 40, Hue: 50, Saturation: 60, Contrast: 70},
	}
}

func testResources() Resources {
	return Resources{
		Locale: locale.MustNew("en"),
		Size:   display.Size{W: 640, H: 480},
		Log:    zerolog.Nop(),
	}
}

func send(t *testing.T, v view.View, event input.KeyEvent, sink view.Sink, bubble *view.Bubble) bool {
	t.Helper()
	handled, err := v.HandleKeyEvent(context.Background(), event, sink, bubble)
	require.NoError(t, err)
	return handled
}

func newTestDisplay(t *testing.T, saved *ChildState) *Display {
	t.Helper()
	d, err := NewDisplay(context.Background(), display.NewRect(0, 0, 60, 12), testResources(), newLoader(), saved)
	require.NoError(t, err)
	return d
}

func TestDisplayValueChangePersists(t *testing.T) {
	d := newTestDisplay(t, nil)
	sink := &recordingSink{}
	bubble := &view.Bubble{}

	assert.True(t, send(t, d, input.Press(input.KeyA), sink, bubble))
	assert.Empty(t, sink.sent)

	assert.True(t, send(t, d, input.Press(input.KeyRight), sink, bubble))
	require.Len(t, sink.sent, 1)
	want := models.DisplaySettings{Luminance: 41, Hue: 50, Saturation: 60, Contrast: 70}
	assert.Equal(t, models.SaveDisplaySettings(want), sink.sent[0])
	assert.Equal(t, want, d.Settings())
	assert.Zero(t, bubble.Len())
}

func TestDisplayCancelBehaviour(t *testing.T) {
	d := newTestDisplay(t, nil)
	sink := &recordingSink{}
	bubble := &view.Bubble{}

	send(t, d, input.Press(input.KeyA), sink, bubble)
	assert.True(t, send(t, d, input.Press(input.KeyB), sink, bubble))
	assert.Zero(t, bubble.Len(), "cancel while editing only leaves editing")

	assert.True(t, send(t, d, input.Press(input.KeyB), sink, bubble))
	assert.Equal(t, []models.Command{models.CloseView()}, bubble.Drain())
	assert.Empty(t, sink.sent)
}

func TestDisplayEditHintFollowsSelection(t *testing.T) {
	d := newTestDisplay(t, nil)
	sink := &recordingSink{}
	bubble := &view.Bubble{}
	assert.Equal(t, 2, d.hints.Len())

	send(t, d, input.Press(input.KeyUp), sink, bubble)
	assert.Equal(t, resolutionIndex, d.list.Selected())
	assert.Equal(t, 1, d.hints.Len())
	assert.Equal(t, input.KeyB, d.hints.Items()[0].Key())

	send(t, d, input.Press(input.KeyA), sink, bubble)
	assert.Zero(t, bubble.Len())
	assert.Empty(t, sink.sent)

	send(t, d, input.Press(input.KeyDown), sink, bubble)
	assert.Equal(t, 2, d.hints.Len())
	assert.Equal(t, input.KeyA, d.hints.Items()[0].Key())
}

func TestDisplayRestoresSavedSelection(t *testing.T) {
	d := newTestDisplay(t, &ChildState{Selected: resolutionIndex})
	assert.Equal(t, ChildState{Selected: resolutionIndex}, d.Save())
	assert.Equal(t, 1, d.hints.Len())
}

func TestDisplayDrawsRestartNoticeAfterChange(t *testing.T) {
	styles := models.DefaultStylesheet()
	buf := display.NewCellBuffer(60, 12, styles.ForegroundColor, styles.BackgroundColor)
	d := newTestDisplay(t, nil)

	drawn, err := d.Draw(buf, &styles)
	require.NoError(t, err)
	assert.True(t, drawn)
	assert.Contains(t, buf.Line(1), "Luminance")
	assert.Contains(t, buf.Line(5), "640x480")
	assert.NotContains(t, buf.Line(9), "Restart")
	assert.Contains(t, buf.Line(11), "(A) Edit  (B) Back")
	assert.False(t, d.ShouldDraw())

	sink := &recordingSink{}
	send(t, d, input.Press(input.KeyA), sink, &view.Bubble{})
	send(t, d, input.Press(input.KeyLeft), sink, &view.Bubble{})
	require.True(t, d.ShouldDraw())

	buf.ResetDamage()
	_, err = d.Draw(buf, &styles)
	require.NoError(t, err)
	assert.Contains(t, buf.Line(9), "Restart to apply changes")
	assert.Equal(t, []display.Rect{display.NewRect(1, 1, 58, 7), display.NewRect(35, 9, 24, 1)}, buf.Damage())
}

func TestDisplayIgnoresUnknownIndex(t *testing.T) {
	d := newTestDisplay(t, nil)
	before := d.Settings()

	assert.False(t, d.apply(models.ValueChanged(9, models.IntValue(3))))
	assert.False(t, d.apply(models.ValueChanged(0, models.BoolValue(true))))
	assert.Equal(t, before, d.Settings())
	assert.False(t, d.hasChanged)
}

func TestDisplayPropagatesFailures(t *testing.T) {
	boom := errors.New("disk full")

	_, err := NewDisplay(context.Background(), display.NewRect(0, 0, 60, 12), testResources(), &fakeLoader{err: boom}, nil)
	assert.ErrorIs(t, err, boom)

	d := newTestDisplay(t, nil)
	bubble := &view.Bubble{}
	send(t, d, input.Press(input.KeyA), &recordingSink{}, bubble)
	_, err = d.HandleKeyEvent(context.Background(), input.Press(input.KeyUp), &recordingSink{err: boom}, bubble)
	assert.ErrorIs(t, err, boom)
}

func newTestMenu(t *testing.T) *Menu {
	t.Helper()
	return NewMenu(display.NewRect(0, 0, 80, 24), testResources(), newLoader())
}

func TestMenuOpensSectionAndGivesChildFirstRefusal(t *testing.T) {
	m := newTestMenu(t)
	sink := &recordingSink{}
	bubble := &view.Bubble{}

	assert.True(t, send(t, m, input.Press(input.KeyA), sink, bubble))
	section, open := m.Current()
	require.True(t, open)
	assert.Equal(t, SectionTheme, section)

	send(t, m, input.Press(input.KeyDown), sink, bubble)
	assert.Equal(t, 0, m.list.Selected(), "menu selection must not move while a child is open")
	assert.Equal(t, ChildState{Selected: 1}, m.child.Save())

	send(t, m, input.Press(input.KeyA), sink, bubble)
	require.Len(t, sink.sent, 1)
	assert.Equal(t, models.CommandSaveStylesheet, sink.sent[0].Type)
	assert.Zero(t, bubble.Len())
}

func TestMenuCloseSavesAndRestoresChildState(t *testing.T) {
	m := newTestMenu(t)
	sink := &recordingSink{}
	bubble := &view.Bubble{}

	send(t, m, input.Press(input.KeyDown), sink, bubble)
	send(t, m, input.Press(input.KeyA), sink, bubble)
	section, _ := m.Current()
	require.Equal(t, SectionDisplay, section)

	send(t, m, input.Press(input.KeyDown), sink, bubble)
	send(t, m, input.Press(input.KeyDown), sink, bubble)

	assert.True(t, send(t, m, input.Press(input.KeyB), sink, bubble))
	_, open := m.Current()
	assert.False(t, open)
	assert.Zero(t, bubble.Len(), "child close must not reach the driver")
	assert.Equal(t, ChildState{Selected: 2}, m.saved[SectionDisplay])

	send(t, m, input.Press(input.KeyA), sink, bubble)
	assert.Equal(t, ChildState{Selected: 2}, m.child.Save())

	send(t, m, input.Press(input.KeyB), sink, bubble)
	assert.True(t, send(t, m, input.Press(input.KeyB), sink, bubble))
	assert.Equal(t, []models.Command{models.CloseView()}, bubble.Drain())
}

func TestMenuReopenKeepsUnpersistedEdits(t *testing.T) {
	loader := newLoader()
	m := NewMenu(display.NewRect(0, 0, 80, 24), testResources(), loader)
	sink := &recordingSink{}
	bubble := &view.Bubble{}

	send(t, m, input.Press(input.KeyDown), sink, bubble)
	send(t, m, input.Press(input.KeyA), sink, bubble)
	send(t, m, input.Press(input.KeyA), sink, bubble)
	send(t, m, input.Press(input.KeyRight), sink, bubble)
	send(t, m, input.Press(input.KeyA), sink, bubble)
	require.Len(t, sink.sent, 1)
	require.Equal(t, uint8(41), m.child.(*Display).Settings().Luminance)

	// The sink never persists, so the store still holds the old value.
	loader.display.Luminance = 10
	send(t, m, input.Press(input.KeyB), sink, bubble)
	_, open := m.Current()
	require.False(t, open)

	send(t, m, input.Press(input.KeyA), sink, bubble)
	section, open := m.Current()
	require.True(t, open)
	require.Equal(t, SectionDisplay, section)
	assert.Equal(t, uint8(41), m.child.(*Display).Settings().Luminance)

	send(t, m, input.Press(input.KeyA), sink, bubble)
	send(t, m, input.Press(input.KeyRight), sink, bubble)
	require.Len(t, sink.sent, 2)
	assert.Equal(t, uint8(42), sink.sent[1].DisplaySettings.Luminance, "next save builds on the working copy")
	assert.Zero(t, bubble.Len())
}

func TestMenuReopenKeepsStylesheetEdits(t *testing.T) {
	loader := newLoader()
	m := NewMenu(display.NewRect(0, 0, 80, 24), testResources(), loader)
	sink := &recordingSink{}
	bubble := &view.Bubble{}

	send(t, m, input.Press(input.KeyA), sink, bubble)
	send(t, m, input.Press(input.KeyA), sink, bubble)
	require.Len(t, sink.sent, 1)
	dark := sink.sent[0].Stylesheet.DarkMode
	require.NotEqual(t, loader.stylesheet.DarkMode, dark)

	send(t, m, input.Press(input.KeyB), sink, bubble)
	send(t, m, input.Press(input.KeyA), sink, bubble)
	assert.Equal(t, dark, m.child.(*themeChild).theme.Stylesheet().DarkMode)
}

func TestWorkingCopyLoadsOnce(t *testing.T) {
	loader := newLoader()
	w := NewWorkingCopy(loader)

	first, err := w.LoadDisplaySettings(context.Background())
	require.NoError(t, err)
	loader.display.Hue = 1
	second, err := w.LoadDisplaySettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	w.record(models.SaveDisplaySettings(models.DisplaySettings{Luminance: 5}))
	third, err := w.LoadDisplaySettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DisplaySettings{Luminance: 5}, third)

	boom := errors.New("locked")
	_, err = NewWorkingCopy(&fakeLoader{err: boom}).LoadStylesheet(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestWorkingCopySurvivesMenuRebuild(t *testing.T) {
	loader := newLoader()
	working := NewWorkingCopy(loader)
	sink := &recordingSink{}
	bubble := &view.Bubble{}

	m := NewMenu(display.NewRect(0, 0, 80, 24), testResources(), working)
	send(t, m, input.Press(input.KeyDown), sink, bubble)
	send(t, m, input.Press(input.KeyA), sink, bubble)
	send(t, m, input.Press(input.KeyA), sink, bubble)
	send(t, m, input.Press(input.KeyLeft), sink, bubble)
	require.Len(t, sink.sent, 1)

	rebuilt := NewMenu(display.NewRect(0, 0, 70, 20), testResources(), working)
	require.NoError(t, rebuilt.Open(context.Background(), SectionDisplay))
	assert.Equal(t, uint8(39), rebuilt.child.(*Display).Settings().Luminance)
	assert.Same(t, working, rebuilt.working)
}

func TestTrackedSinkRecordsDirectChildSaves(t *testing.T) {
	working := NewWorkingCopy(newLoader())
	sink := &recordingSink{}
	tracked := working.Track(sink)
	assert.Equal(t, tracked, working.Track(tracked), "tracking twice wraps once")

	child, err := NewChild(context.Background(), SectionDisplay, display.NewRect(0, 0, 60, 12), testResources(), working, nil)
	require.NoError(t, err)
	send(t, child, input.Press(input.KeyA), tracked, &view.Bubble{})
	send(t, child, input.Press(input.KeyRight), tracked, &view.Bubble{})
	require.Len(t, sink.sent, 1)

	settings, err := working.LoadDisplaySettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint8(41), settings.Luminance)
}

func TestMenuClosesThemeOnCancel(t *testing.T) {
	m := newTestMenu(t)
	sink := &recordingSink{}
	bubble := &view.Bubble{}

	require.NoError(t, m.Open(context.Background(), SectionTheme))
	send(t, m, input.Press(input.KeyUp), sink, bubble)

	assert.True(t, send(t, m, input.Press(input.KeyB), sink, bubble))
	_, open := m.Current()
	assert.False(t, open)
	assert.Equal(t, ChildState{Selected: 9}, m.saved[SectionTheme])
}

func TestMenuOpenFailurePropagates(t *testing.T) {
	boom := errors.New("no database")
	m := NewMenu(display.NewRect(0, 0, 80, 24), testResources(), &fakeLoader{err: boom})

	_, err := m.HandleKeyEvent(context.Background(), input.Press(input.KeyA), &recordingSink{}, &view.Bubble{})
	assert.ErrorIs(t, err, boom)
	_, open := m.Current()
	assert.False(t, open)
}

func TestMenuDraw(t *testing.T) {
	styles := models.DefaultStylesheet()
	buf := display.NewCellBuffer(80, 24, styles.ForegroundColor, styles.BackgroundColor)
	m := newTestMenu(t)

	_, err := m.Draw(buf, &styles)
	require.NoError(t, err)
	assert.Contains(t, buf.Line(0), "Theme")
	assert.Contains(t, buf.Line(1), "Display")

	require.NoError(t, m.Open(context.Background(), SectionTheme))
	require.True(t, m.ShouldDraw())
	_, err = m.Draw(buf, &styles)
	require.NoError(t, err)
	assert.Contains(t, buf.Line(0), "Dark Mode")
	assert.False(t, m.ShouldDraw())
}

func TestMenuSectionsFitMinimumWidth(t *testing.T) {
	tests := []struct {
		name    string
		lang    string
		section Section
		line    int
		want    []string
	}{
		{name: "theme color row", lang: "en", section: SectionTheme, line: 4, want: []string{"Background Color", "#000000"}},
		{name: "theme color row de", lang: "de", section: SectionTheme, line: 4, want: []string{"Hintergrundfarbe", "#000000"}},
		{name: "display bar", lang: "en", section: SectionDisplay, line: 3, want: []string{"Saturation", "[######    ]  60%"}},
		{name: "resolution de", lang: "de", section: SectionDisplay, line: 5, want: []string{"Bildschirmauflösung", "640x480"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			styles := models.DefaultStylesheet()
			buf := display.NewCellBuffer(MinWidth, 12, styles.ForegroundColor, styles.BackgroundColor)
			res := testResources()
			res.Locale = locale.MustNew(tt.lang)
			m := NewMenu(display.NewRect(0, 0, MinWidth, 12), res, newLoader())

			require.NoError(t, m.Open(context.Background(), tt.section))
			_, err := m.Draw(buf, &styles)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, buf.Line(tt.line), want)
			}
		})
	}
}

func TestParseSection(t *testing.T) {
	s, ok := ParseSection("display")
	require.True(t, ok)
	assert.Equal(t, SectionDisplay, s)

	_, ok = ParseSection("audio")
	assert.False(t, ok)
}
