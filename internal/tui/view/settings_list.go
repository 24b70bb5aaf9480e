package view

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
	"github.com/opencode-ai/allium/internal/tui/widget"
)

// SettingsList is a vertical list of labeled value widgets with one
// selected row. Accept on an adjustable entry switches into editing, where
// directional keys change the value in place.
type SettingsList struct {
	rect     display.Rect
	labels   []string
	widgets  []widget.Widget
	selected int
	editing  bool
	dirty    bool
	log      zerolog.Logger
}

// NewSettingsList builds a list. labels and widgets must have equal length.
func NewSettingsList(rect display.Rect, labels []string, widgets []widget.Widget, log zerolog.Logger) *SettingsList {
	if len(labels) != len(widgets) {
		panic(fmt.Sprintf("settings list: %d labels for %d widgets", len(labels), len(widgets)))
	}
	return &SettingsList{
		rect:    rect,
		labels:  labels,
		widgets: widgets,
		dirty:   true,
		log:     log,
	}
}

// Len returns the number of entries.
func (l *SettingsList) Len() int { return len(l.widgets) }

// Selected returns the selected index.
func (l *SettingsList) Selected() int { return l.selected }

// Editing reports whether the selected entry is being edited.
func (l *SettingsList) Editing() bool { return l.editing }

// Select moves the selection to i. Out-of-range indices are logged and ignored.
func (l *SettingsList) Select(i int) {
	if i < 0 || i >= len(l.widgets) {
		l.log.Warn().Int("index", i).Int("len", len(l.widgets)).Msg("select out of range")
		return
	}
	l.selected = i
	l.dirty = true
}

// SetLabel replaces the label of entry i.
func (l *SettingsList) SetLabel(i int, label string) {
	if i < 0 || i >= len(l.labels) {
		l.log.Warn().Int("index", i).Msg("set label out of range")
		return
	}
	l.labels[i] = label
	l.dirty = true
}

// Widget returns entry i.
func (l *SettingsList) Widget(i int) widget.Widget {
	if i < 0 || i >= len(l.widgets) {
		return nil
	}
	return l.widgets[i]
}

// ShouldDraw implements View.
func (l *SettingsList) ShouldDraw() bool { return l.dirty }

// SetShouldDraw implements View.
func (l *SettingsList) SetShouldDraw() { l.dirty = true }

// Children implements View.
func (l *SettingsList) Children() []View { return nil }

// BoundingBox implements View.
func (l *SettingsList) BoundingBox(*models.Stylesheet) display.Rect { return l.rect }

// Draw implements View.
func (l *SettingsList) Draw(d display.Display, styles *models.Stylesheet) (bool, error) {
	if !l.dirty {
		return false, nil
	}
	if err := d.Invalidate(l.rect); err != nil {
		return false, fmt.Errorf("invalidate settings list: %w", err)
	}
	settings := make([]widget.Setting, len(l.widgets))
	for i := range l.widgets {
		settings[i] = widget.Setting{Label: l.labels[i], Widget: l.widgets[i]}
	}
	if err := widget.DrawSettings(d, styles, l.rect, settings, l.selected, l.editing); err != nil {
		return false, err
	}
	l.dirty = false
	return true, nil
}

// HandleKeyEvent implements View.
func (l *SettingsList) HandleKeyEvent(ctx context.Context, event input.KeyEvent, commands Sink, bubble *Bubble) (bool, error) {
	if len(l.widgets) == 0 {
		return false, nil
	}
	if l.editing {
		return l.handleEditing(event, bubble), nil
	}

	switch {
	case event.IsPressedOrRepeat(input.KeyUp):
		l.selected = wrap(l.selected-1, len(l.widgets))
		l.dirty = true
		return true, nil
	case event.IsPressedOrRepeat(input.KeyDown):
		l.selected = wrap(l.selected+1, len(l.widgets))
		l.dirty = true
		return true, nil
	case event.IsPressed(input.KeyA):
		l.activate(bubble)
		return true, nil
	}
	return false, nil
}

func (l *SettingsList) activate(bubble *Bubble) {
	i := l.selected
	switch w := l.widgets[i].(type) {
	case widget.Toggler:
		w.Toggle()
		l.dirty = true
		bubble.Push(models.ValueChanged(i, w.Value()))
	case widget.Adjustable:
		l.editing = true
		l.dirty = true
	case *widget.Action, *widget.Color:
		bubble.Push(models.ValueChanged(i, w.Value()))
	}
}

func (l *SettingsList) handleEditing(event input.KeyEvent, bubble *Bubble) bool {
	delta := 0
	switch {
	case event.IsPressedOrRepeat(input.KeyRight), event.IsPressedOrRepeat(input.KeyUp):
		delta = 1
	case event.IsPressedOrRepeat(input.KeyLeft), event.IsPressedOrRepeat(input.KeyDown):
		delta = -1
	case event.IsPressed(input.KeyA), event.IsPressed(input.KeyB):
		l.editing = false
		l.dirty = true
		return true
	default:
		return false
	}

	w, ok := l.widgets[l.selected].(widget.Adjustable)
	if !ok {
		l.log.Warn().Int("index", l.selected).Msg("editing a widget that cannot be adjusted")
		l.editing = false
		l.dirty = true
		return true
	}
	if w.Adjust(delta) {
		l.dirty = true
		bubble.Push(models.ValueChanged(l.selected, w.Value()))
	}
	return true
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
