// Package view implements the retained view tree used by composite settings
// screens. Every node tracks its own dirty state, invalidates exactly its
// bounding rectangle before redrawing, and reports effects either on the
// caller-owned bubble mailbox or on the asynchronous command sink.
package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
)

// ErrSinkClosed is returned when a command is sent after the sink was closed.
var ErrSinkClosed = errors.New("command sink closed")

// View is a node in the view tree.
type View interface {
	// ShouldDraw reports whether this node or any descendant is dirty.
	ShouldDraw() bool
	// SetShouldDraw marks this node and all descendants dirty.
	SetShouldDraw()
	// Draw renders the dirty parts and reports whether anything was drawn.
	Draw(d display.Display, styles *models.Stylesheet) (bool, error)
	// HandleKeyEvent reports whether the event was consumed.
	HandleKeyEvent(ctx context.Context, event input.KeyEvent, commands Sink, bubble *Bubble) (bool, error)
	Children() []View
	BoundingBox(styles *models.Stylesheet) display.Rect
}

// Positioned views can be moved and measured by a layout parent.
type Positioned interface {
	View
	SetPosition(at display.Point)
	Width() int
}

// Sink accepts commands for the command processor.
type Sink interface {
	Send(ctx context.Context, cmd models.Command) error
}

// ChannelSink sends commands into a buffered channel in order.
type ChannelSink struct {
	ch     chan models.Command
	closed chan struct{}
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{
		ch:     make(chan models.Command, buffer),
		closed: make(chan struct{}),
	}
}

// Send enqueues cmd, blocking only while the buffer is full.
func (s *ChannelSink) Send(ctx context.Context, cmd models.Command) error {
	select {
	case <-s.closed:
		return ErrSinkClosed
	default:
	}
	select {
	case s.ch <- cmd:
		return nil
	case <-s.closed:
		return ErrSinkClosed
	case <-ctx.Done():
		return fmt.Errorf("send %s: %w", cmd.Type, ctx.Err())
	}
}

// Commands returns the receive side for the processor.
func (s *ChannelSink) Commands() <-chan models.Command {
	return s.ch
}

// Close stops accepting commands. Already queued commands stay readable.
func (s *ChannelSink) Close() {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
}

// Bubble is the per-dispatch mailbox a child uses to report commands to its
// parent. The parent drains it before its own HandleKeyEvent returns.
type Bubble struct {
	queue []models.Command
}

// Push appends a command for the parent.
func (b *Bubble) Push(cmd models.Command) {
	b.queue = append(b.queue, cmd)
}

// Pop removes the oldest command.
func (b *Bubble) Pop() (models.Command, bool) {
	if len(b.queue) == 0 {
		return models.Command{}, false
	}
	cmd := b.queue[0]
	b.queue = b.queue[1:]
	return cmd, true
}

// Drain removes and returns all queued commands in order.
func (b *Bubble) Drain() []models.Command {
	out := b.queue
	b.queue = nil
	return out
}

// Len returns the number of queued commands.
func (b *Bubble) Len() int {
	return len(b.queue)
}

// AnyShouldDraw reports whether any of the views is dirty.
func AnyShouldDraw(views ...View) bool {
	for _, v := range views {
		if v.ShouldDraw() {
			return true
		}
	}
	return false
}
