package settings

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
	"github.com/opencode-ai/allium/internal/tui/view"
	"github.com/opencode-ai/allium/internal/tui/widget"
)

// resolutionIndex is the read-only row after the editable fields.
var resolutionIndex = len(models.DisplayFields)

// Display edits the panel settings. Every change is persisted immediately.
type Display struct {
	rect       display.Rect
	settings   models.DisplaySettings
	list       *view.SettingsList
	restart    *view.Label
	hints      *view.Row[*view.ButtonHint]
	editHint   *view.ButtonHint
	hasChanged bool
	log        zerolog.Logger
}

// NewDisplay loads the current settings and builds the view inside rect.
func NewDisplay(ctx context.Context, rect display.Rect, res Resources, loader Loader, saved *ChildState) (*Display, error) {
	settings, err := loader.LoadDisplaySettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load display settings: %w", err)
	}
	settings.Clamp()
	log := res.Log.With().Str("screen", "display").Logger()

	labels := []string{
		res.Locale.T("settings-display-luminance"),
		res.Locale.T("settings-display-hue"),
		res.Locale.T("settings-display-saturation"),
		res.Locale.T("settings-display-contrast"),
		res.Locale.T("settings-display-screen-resolution"),
	}
	widgets := make([]widget.Widget, 0, len(labels))
	for _, f := range models.DisplayFields {
		v, _ := settings.Get(f)
		widgets = append(widgets, widget.NewPercentage(v))
	}
	widgets = append(widgets, widget.NewLabel(fmt.Sprintf("%dx%d", res.Size.W, res.Size.H)))

	list := view.NewSettingsList(
		display.NewRect(rect.X+1, rect.Y+1, rect.W-2, rect.H-5),
		labels,
		widgets,
		log,
	)
	if saved != nil {
		list.Select(saved.Selected)
	}

	d := &Display{
		rect:     rect,
		settings: settings,
		list:     list,
		restart: view.NewLabel(
			display.Pt(rect.Right()-1, rect.Bottom()-3),
			res.Locale.T("settings-display-restart-to-apply-changes"),
			display.AlignRight,
		),
		hints: view.NewRow(
			display.Pt(rect.Right()-1, rect.Bottom()-1),
			[]*view.ButtonHint{
				view.NewButtonHint(input.KeyA, res.Locale.T("button-edit")),
				view.NewButtonHint(input.KeyB, res.Locale.T("button-back")),
			},
			display.AlignRight,
			2,
		),
		log: log,
	}
	d.syncHints()
	return d, nil
}

// Settings returns the live settings.
func (d *Display) Settings() models.DisplaySettings { return d.settings }

// Save implements Child.
func (d *Display) Save() ChildState {
	return ChildState{Selected: d.list.Selected()}
}

// Close implements Child.
func (d *Display) Close() error { return nil }

func (d *Display) hintsRect() display.Rect {
	return display.NewRect(d.rect.X, d.rect.Bottom()-1, d.rect.W, 1)
}

// Draw implements view.View.
func (d *Display) Draw(disp display.Display, styles *models.Stylesheet) (bool, error) {
	drawn := false

	if d.list.ShouldDraw() {
		ok, err := d.list.Draw(disp, styles)
		if err != nil {
			return drawn, err
		}
		drawn = drawn || ok
	}
	if d.hasChanged && d.restart.ShouldDraw() {
		ok, err := d.restart.Draw(disp, styles)
		if err != nil {
			return drawn, err
		}
		drawn = drawn || ok
	}
	if d.hints.ShouldDraw() {
		if err := disp.Invalidate(d.hintsRect()); err != nil {
			return drawn, fmt.Errorf("invalidate button hints: %w", err)
		}
		d.hints.SetShouldDraw()
		ok, err := d.hints.Draw(disp, styles)
		if err != nil {
			return drawn, err
		}
		drawn = drawn || ok
	}
	return drawn, nil
}

// ShouldDraw implements view.View.
func (d *Display) ShouldDraw() bool {
	return d.list.ShouldDraw() ||
		d.hasChanged && d.restart.ShouldDraw() ||
		d.hints.ShouldDraw()
}

// SetShouldDraw implements view.View.
func (d *Display) SetShouldDraw() {
	d.list.SetShouldDraw()
	d.restart.SetShouldDraw()
	d.hints.SetShouldDraw()
}

// Children implements view.View.
func (d *Display) Children() []view.View {
	return []view.View{d.list, d.restart, d.hints}
}

// BoundingBox implements view.View.
func (d *Display) BoundingBox(*models.Stylesheet) display.Rect { return d.rect }

// HandleKeyEvent implements view.View.
func (d *Display) HandleKeyEvent(ctx context.Context, event input.KeyEvent, commands view.Sink, bubble *view.Bubble) (bool, error) {
	handled, err := d.list.HandleKeyEvent(ctx, event, commands, bubble)
	if err != nil {
		return false, err
	}
	if handled {
		d.syncHints()
		return true, d.drain(ctx, commands, bubble)
	}

	if event.IsPressed(input.KeyB) {
		bubble.Push(models.CloseView())
		return true, nil
	}
	return false, nil
}

// syncHints hides the edit hint while the read-only resolution row is selected.
func (d *Display) syncHints() {
	if d.list.Selected() == resolutionIndex {
		if d.editHint == nil {
			if hint, ok := d.hints.Remove(0); ok {
				d.editHint = hint
			}
		}
		return
	}
	if d.editHint != nil {
		d.hints.Insert(0, d.editHint)
		d.editHint = nil
	}
}

func (d *Display) drain(ctx context.Context, commands view.Sink, bubble *view.Bubble) error {
	var unhandled []models.Command
	for _, cmd := range bubble.Drain() {
		if cmd.Type != models.CommandValueChanged {
			unhandled = append(unhandled, cmd)
			continue
		}
		if !d.apply(cmd) {
			continue
		}
		if err := commands.Send(ctx, models.SaveDisplaySettings(d.settings)); err != nil {
			return fmt.Errorf("save display settings: %w", err)
		}
	}
	for _, cmd := range unhandled {
		bubble.Push(cmd)
	}
	return nil
}

func (d *Display) apply(cmd models.Command) bool {
	if cmd.Index < 0 || cmd.Index >= len(models.DisplayFields) {
		d.log.Warn().Int("index", cmd.Index).Msg("value changed for unknown display setting")
		return false
	}
	v, ok := cmd.Value.AsInt()
	if !ok {
		d.log.Warn().Int("index", cmd.Index).Str("value", fmt.Sprintf("%#v", cmd.Value)).Msg("display setting value is not an integer")
		return false
	}
	d.settings.Set(models.DisplayFields[cmd.Index], v)
	if !d.hasChanged {
		d.hasChanged = true
		d.restart.SetShouldDraw()
	}
	return true
}
