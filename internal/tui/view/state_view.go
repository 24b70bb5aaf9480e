package view

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
)

// Screen is a self-contained modal screen that returns its effects directly
// instead of bubbling them.
type Screen interface {
	Enter() error
	Leave() error
	Draw(d display.Display, styles *models.Stylesheet) error
	HandleKeyEvent(event input.KeyEvent) (*models.Command, bool, error)
}

// StateView hosts a Screen inside the view tree. Persist commands returned
// by the screen go to the command sink; everything else is bubbled.
type StateView struct {
	screen Screen
	rect   display.Rect
	dirty  bool
	log    zerolog.Logger
}

// NewStateView wraps screen, which owns the whole of rect.
func NewStateView(screen Screen, rect display.Rect, log zerolog.Logger) *StateView {
	return &StateView{screen: screen, rect: rect, dirty: true, log: log}
}

// Screen returns the hosted screen.
func (v *StateView) Screen() Screen { return v.screen }

// Enter activates the screen and schedules a full redraw.
func (v *StateView) Enter() error {
	if err := v.screen.Enter(); err != nil {
		return fmt.Errorf("enter screen: %w", err)
	}
	v.dirty = true
	return nil
}

// Leave deactivates the screen.
func (v *StateView) Leave() error {
	if err := v.screen.Leave(); err != nil {
		return fmt.Errorf("leave screen: %w", err)
	}
	return nil
}

// ShouldDraw implements View.
func (v *StateView) ShouldDraw() bool { return v.dirty }

// SetShouldDraw implements View.
func (v *StateView) SetShouldDraw() { v.dirty = true }

// Children implements View.
func (v *StateView) Children() []View { return nil }

// BoundingBox implements View.
func (v *StateView) BoundingBox(*models.Stylesheet) display.Rect { return v.rect }

// Draw implements View. Screens clear their own area before drawing.
func (v *StateView) Draw(d display.Display, styles *models.Stylesheet) (bool, error) {
	if !v.dirty {
		return false, nil
	}
	if err := v.screen.Draw(d, styles); err != nil {
		return false, err
	}
	v.dirty = false
	return true, nil
}

// HandleKeyEvent implements View.
func (v *StateView) HandleKeyEvent(ctx context.Context, event input.KeyEvent, commands Sink, bubble *Bubble) (bool, error) {
	cmd, redraw, err := v.screen.HandleKeyEvent(event)
	if err != nil {
		return false, err
	}
	if redraw {
		v.dirty = true
	}
	if cmd != nil {
		v.log.Debug().Str("command", cmd.String()).Msg("screen emitted command")
		switch cmd.Type {
		case models.CommandSaveStylesheet, models.CommandSaveDisplaySettings:
			if err := commands.Send(ctx, *cmd); err != nil {
				return true, err
			}
		default:
			bubble.Push(*cmd)
		}
	}
	return redraw || cmd != nil, nil
}
