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

const (
	// SidebarWidth is the width of the section list.
	SidebarWidth = 14

	// MinSectionWidth fits the longest label next to a color swatch or a
	// percentage bar without the two overlapping.
	MinSectionWidth = 32

	// MinWidth is the narrowest surface the menu lays out cleanly on.
	MinWidth = SidebarWidth + 1 + MinSectionWidth
)

// Menu is the root settings view: a section list on the left and the open
// section on the right. The open section gets first refusal on every key.
type Menu struct {
	rect       display.Rect
	res        Resources
	working    *WorkingCopy
	list       *view.SettingsList
	child      Child
	section    Section
	saved      map[Section]ChildState
	clearChild bool
	log        zerolog.Logger
}

// NewMenu builds the menu with no section open. Sections read settings through
// loader once; pass the session's WorkingCopy to keep edits across rebuilds.
func NewMenu(rect display.Rect, res Resources, loader Loader) *Menu {
	working, ok := loader.(*WorkingCopy)
	if !ok {
		working = NewWorkingCopy(loader)
	}
	labels := make([]string, len(Sections))
	widgets := make([]widget.Widget, len(Sections))
	for i, s := range Sections {
		labels[i] = res.Locale.T(s.labelID())
		widgets[i] = widget.NewAction("")
	}
	log := res.Log.With().Str("view", "settings_menu").Logger()
	return &Menu{
		rect:    rect,
		res:     res,
		working: working,
		list:    view.NewSettingsList(display.NewRect(rect.X, rect.Y, SidebarWidth, rect.H), labels, widgets, log),
		saved:   make(map[Section]ChildState),
		log:     log,
	}
}

func (m *Menu) childRect() display.Rect {
	return display.NewRect(m.rect.X+SidebarWidth+1, m.rect.Y, m.rect.W-SidebarWidth-1, m.rect.H)
}

// Open shows section, restoring the selection it had when last closed.
func (m *Menu) Open(ctx context.Context, section Section) error {
	if m.child != nil {
		if err := m.closeChild(); err != nil {
			return err
		}
	}
	var saved *ChildState
	if s, ok := m.saved[section]; ok {
		saved = &s
	}
	child, err := NewChild(ctx, section, m.childRect(), m.res, m.working, saved)
	if err != nil {
		return fmt.Errorf("open %s: %w", section, err)
	}
	m.child = child
	m.section = section
	m.list.Select(int(section))
	m.clearChild = true
	m.log.Debug().Stringer("section", section).Msg("section opened")
	return nil
}

// Current returns the open section.
func (m *Menu) Current() (Section, bool) {
	return m.section, m.child != nil
}

func (m *Menu) closeChild() error {
	m.saved[m.section] = m.child.Save()
	err := m.child.Close()
	m.child = nil
	m.clearChild = true
	m.list.SetShouldDraw()
	m.log.Debug().Stringer("section", m.section).Int("selected", m.saved[m.section].Selected).Msg("section closed")
	if err != nil {
		return fmt.Errorf("close %s: %w", m.section, err)
	}
	return nil
}

// HandleKeyEvent implements view.View.
func (m *Menu) HandleKeyEvent(ctx context.Context, event input.KeyEvent, commands view.Sink, bubble *view.Bubble) (bool, error) {
	if m.child != nil {
		var local view.Bubble
		handled, err := m.child.HandleKeyEvent(ctx, event, m.working.Track(commands), &local)
		if err != nil {
			return false, err
		}
		if handled {
			return true, m.drainChild(&local, bubble)
		}
		if event.IsPressed(input.KeyB) {
			return true, m.closeChild()
		}
		return false, nil
	}

	var local view.Bubble
	handled, err := m.list.HandleKeyEvent(ctx, event, commands, &local)
	if err != nil {
		return false, err
	}
	if handled {
		for _, cmd := range local.Drain() {
			if cmd.Type == models.CommandValueChanged {
				if err := m.Open(ctx, Section(cmd.Index)); err != nil {
					return true, err
				}
				continue
			}
			bubble.Push(cmd)
		}
		return true, nil
	}

	if event.IsPressed(input.KeyB) {
		bubble.Push(models.CloseView())
		return true, nil
	}
	return false, nil
}

func (m *Menu) drainChild(local, bubble *view.Bubble) error {
	for _, cmd := range local.Drain() {
		if cmd.Type == models.CommandCloseView {
			if m.child == nil {
				continue
			}
			if err := m.closeChild(); err != nil {
				return err
			}
			continue
		}
		bubble.Push(cmd)
	}
	return nil
}

// Draw implements view.View.
func (m *Menu) Draw(d display.Display, styles *models.Stylesheet) (bool, error) {
	drawn := false
	if m.clearChild {
		if err := d.Invalidate(m.childRect()); err != nil {
			return false, fmt.Errorf("invalidate section area: %w", err)
		}
		if m.child != nil {
			m.child.SetShouldDraw()
		}
		m.clearChild = false
		drawn = true
	}
	if m.list.ShouldDraw() {
		ok, err := m.list.Draw(d, styles)
		if err != nil {
			return drawn, err
		}
		drawn = drawn || ok
	}
	if m.child != nil && m.child.ShouldDraw() {
		ok, err := m.child.Draw(d, styles)
		if err != nil {
			return drawn, err
		}
		drawn = drawn || ok
	}
	return drawn, nil
}

// ShouldDraw implements view.View.
func (m *Menu) ShouldDraw() bool {
	return m.clearChild || m.list.ShouldDraw() || m.child != nil && m.child.ShouldDraw()
}

// SetShouldDraw implements view.View.
func (m *Menu) SetShouldDraw() {
	m.clearChild = true
	m.list.SetShouldDraw()
	if m.child != nil {
		m.child.SetShouldDraw()
	}
}

// Children implements view.View.
func (m *Menu) Children() []view.View {
	if m.child == nil {
		return []view.View{m.list}
	}
	return []view.View{m.list, m.child}
}

// BoundingBox implements view.View.
func (m *Menu) BoundingBox(*models.Stylesheet) display.Rect { return m.rect }

// WorkingCopy loads each settings group from the store once and then serves
// the last snapshot a section sent. Saves are queued, so reading the store
// again on reopen could return values older than what the user already saw.
type WorkingCopy struct {
	loader     Loader
	stylesheet *models.Stylesheet
	display    *models.DisplaySettings
}

// NewWorkingCopy wraps loader for one settings session.
func NewWorkingCopy(loader Loader) *WorkingCopy {
	return &WorkingCopy{loader: loader}
}

// LoadStylesheet implements Loader.
func (w *WorkingCopy) LoadStylesheet(ctx context.Context) (models.Stylesheet, error) {
	if w.stylesheet == nil {
		s, err := w.loader.LoadStylesheet(ctx)
		if err != nil {
			return models.Stylesheet{}, err
		}
		w.stylesheet = &s
	}
	return *w.stylesheet, nil
}

// LoadDisplaySettings implements Loader.
func (w *WorkingCopy) LoadDisplaySettings(ctx context.Context) (models.DisplaySettings, error) {
	if w.display == nil {
		d, err := w.loader.LoadDisplaySettings(ctx)
		if err != nil {
			return models.DisplaySettings{}, err
		}
		w.display = &d
	}
	return *w.display, nil
}

// Track returns a sink that records every snapshot before forwarding it.
func (w *WorkingCopy) Track(sink view.Sink) view.Sink {
	if t, ok := sink.(trackingSink); ok && t.working == w {
		return t
	}
	return trackingSink{Sink: sink, working: w}
}

func (w *WorkingCopy) record(cmd models.Command) {
	switch {
	case cmd.Type == models.CommandSaveStylesheet && cmd.Stylesheet != nil:
		s := *cmd.Stylesheet
		w.stylesheet = &s
	case cmd.Type == models.CommandSaveDisplaySettings && cmd.DisplaySettings != nil:
		d := *cmd.DisplaySettings
		w.display = &d
	}
}

type trackingSink struct {
	view.Sink
	working *WorkingCopy
}

func (s trackingSink) Send(ctx context.Context, cmd models.Command) error {
	s.working.record(cmd)
	return s.Sink.Send(ctx, cmd)
}
