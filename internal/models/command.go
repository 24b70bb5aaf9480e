package models

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// CommandType identifies a cross-boundary effect.
type CommandType string

const (
	CommandSaveStylesheet      CommandType = "save_stylesheet"
	CommandSaveDisplaySettings CommandType = "save_display_settings"
	CommandValueChanged        CommandType = "value_changed"
	CommandCloseView           CommandType = "close_view"
)

// Command is the only way a widget affects state outside its own subtree.
// Snapshots are copies; holders must not mutate them.
type Command struct {
	Type            CommandType
	Stylesheet      *Stylesheet
	DisplaySettings *DisplaySettings
	Index           int
	Value           Value
}

// SaveStylesheet carries a full stylesheet snapshot to persistence.
func SaveStylesheet(s Stylesheet) Command {
	return Command{Type: CommandSaveStylesheet, Stylesheet: &s}
}

// SaveDisplaySettings carries a full display settings snapshot to persistence.
func SaveDisplaySettings(d DisplaySettings) Command {
	return Command{Type: CommandSaveDisplaySettings, DisplaySettings: &d}
}

// ValueChanged reports a new value for the list entry at index.
func ValueChanged(index int, value Value) Command {
	return Command{Type: CommandValueChanged, Index: index, Value: value}
}

// CloseView asks the parent to close the view that emitted it.
func CloseView() Command {
	return Command{Type: CommandCloseView}
}

func (c Command) String() string {
	switch c.Type {
	case CommandValueChanged:
		return fmt.Sprintf("%s(%d, %#v)", c.Type, c.Index, c.Value)
	default:
		return string(c.Type)
	}
}

// NewCommandID returns a time-sortable identifier for a processed command.
func NewCommandID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// CommandTime extracts the time encoded in a command ID.
func CommandTime(id string) (time.Time, error) {
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid command id %q: %w", id, err)
	}
	return ulid.Time(parsed.Time()), nil
}
