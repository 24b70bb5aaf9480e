// Package tui drives the settings views from a bubbletea program.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/components"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
	"github.com/opencode-ai/allium/internal/tui/settings"
	"github.com/opencode-ai/allium/internal/tui/styles"
	"github.com/opencode-ai/allium/internal/tui/view"
)

const (
	minWidth  = settings.MinWidth
	minHeight = 12

	// legendHeight is the space reserved below the surface in terminal-sized mode.
	legendHeight = 1
)

// RootFunc builds the root view for a surface of the given bounds.
type RootFunc func(ctx context.Context, rect display.Rect) (view.View, error)

// Options configures the driver.
type Options struct {
	// Size fixes the surface size. Zero means "follow the terminal".
	Size       display.Size
	Keys       input.KeyMap
	Legend     []components.LegendEntry
	Stylesheet models.Stylesheet
	Root       RootFunc
	Sink       view.Sink
	Log        zerolog.Logger
}

// Model is the bubbletea model hosting one view tree.
type Model struct {
	ctx        context.Context
	opts       Options
	stylesheet models.Stylesheet
	styles     styles.Styles
	buffer     *display.CellBuffer
	root       view.View
	width      int
	height     int
	err        error
	quitting   bool
	log        zerolog.Logger
}

// NewModel creates a model. The view tree is built on the first window size.
func NewModel(ctx context.Context, opts Options) *Model {
	return &Model{
		ctx:        ctx,
		opts:       opts,
		stylesheet: opts.Stylesheet,
		styles:     styles.FromStylesheet(opts.Stylesheet),
		log:        opts.Log,
	}
}

// Run launches the program and blocks until the user leaves the root view.
// Stylesheets published by pub are shown as soon as they are persisted.
func Run(ctx context.Context, opts Options, pub StylesheetPublisher) error {
	m := NewModel(ctx, opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if pub != nil {
		subscribeStylesheets(pub, program)
		defer pub.Unsubscribe(subscriberID)
	}

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return m.Err()
}

// Err returns the error that stopped the view tree, if any.
func (m *Model) Err() error {
	return m.err
}

// Root returns the current root view.
func (m *Model) Root() view.View {
	return m.root
}

// Surface returns the cell buffer the views draw into.
func (m *Model) Surface() *display.CellBuffer {
	return m.buffer
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || m.err != nil {
			m.quitting = true
			return m, tea.Quit
		}
		if m.root == nil {
			return m, nil
		}
		event, ok := m.opts.Keys.FromTeaKey(msg)
		if !ok {
			return m, nil
		}
		return m, m.dispatch(event)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case StylesheetMsg:
		m.publish(msg.Stylesheet)

	case ErrorMsg:
		m.fail(msg.Err)
	}
	return m, nil
}

func (m *Model) surfaceSize() display.Size {
	if m.opts.Size.W > 0 && m.opts.Size.H > 0 {
		return m.opts.Size
	}
	return display.Size{W: m.width, H: m.height - legendHeight}
}

func (m *Model) tooSmall() bool {
	size := m.surfaceSize()
	if size.W < minWidth || size.H < minHeight {
		return true
	}
	return m.width < size.W || m.height < size.H+legendHeight
}

// resize builds the view tree, or rebuilds it when the surface changed size.
func (m *Model) resize() {
	if m.err != nil || m.tooSmall() {
		return
	}
	size := m.surfaceSize()
	if m.root != nil && m.buffer.Size() == size {
		return
	}

	m.buffer = display.NewCellBuffer(size.W, size.H, m.stylesheet.ForegroundColor, m.stylesheet.BackgroundColor)
	root, err := m.opts.Root(m.ctx, display.NewRect(0, 0, size.W, size.H))
	if err != nil {
		m.fail(fmt.Errorf("build settings view: %w", err))
		return
	}
	m.root = root
	m.log.Debug().Int("width", size.W).Int("height", size.H).Msg("settings surface ready")
	m.redraw()
}

func (m *Model) dispatch(event input.KeyEvent) tea.Cmd {
	var bubble view.Bubble
	handled, err := m.root.HandleKeyEvent(m.ctx, event, m.opts.Sink, &bubble)
	if err != nil {
		m.fail(err)
		return nil
	}

	quit := !handled && event.IsPressed(input.KeyB)
	for _, cmd := range bubble.Drain() {
		switch cmd.Type {
		case models.CommandCloseView:
			quit = true
		default:
			m.log.Warn().Str("command", cmd.String()).Msg("unhandled command reached the root view")
		}
	}
	if quit {
		m.quitting = true
		return tea.Quit
	}

	m.redraw()
	return nil
}

// publish swaps in a persisted stylesheet and repaints the whole surface.
func (m *Model) publish(s models.Stylesheet) {
	m.stylesheet = s
	m.styles = styles.FromStylesheet(s)
	if m.buffer == nil {
		return
	}
	m.buffer.SetColors(s.ForegroundColor, s.BackgroundColor)
	if err := m.buffer.Invalidate(display.Bounds(m.buffer)); err != nil {
		m.fail(err)
		return
	}
	if m.root != nil {
		m.root.SetShouldDraw()
		m.redraw()
	}
}

func (m *Model) redraw() {
	if m.root == nil || !m.root.ShouldDraw() {
		return
	}
	if _, err := m.root.Draw(m.buffer, &m.stylesheet); err != nil {
		m.fail(fmt.Errorf("draw: %w", err))
		return
	}
	m.buffer.ResetDamage()
}

func (m *Model) fail(err error) {
	if err == nil || m.err != nil {
		return
	}
	m.err = err
	m.log.Error().Err(err).Msg("settings view failed")
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return components.Failed(m.err).Render(m.styles) + "\n"
	}
	if m.width > 0 && m.height > 0 && m.tooSmall() {
		size := m.surfaceSize()
		return components.TooSmall(m.width, m.height, max(size.W, minWidth), max(size.H, minHeight)+legendHeight, display.Size{W: minWidth, H: minHeight}).Render(m.styles) + "\n"
	}
	if m.root == nil {
		return ""
	}
	return m.buffer.Render() + "\n" + components.RenderLegend(m.opts.Legend, m.styles)
}
