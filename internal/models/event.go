package models

import (
	"encoding/json"
	"strings"
	"time"
)

// EventType categorizes entries in the command log.
type EventType string

const (
	EventTypeStylesheetSaved      EventType = "stylesheet.saved"
	EventTypeStylesheetReset      EventType = "stylesheet.reset"
	EventTypeDisplaySettingsSaved EventType = "display_settings.saved"
	EventTypeCommandDropped       EventType = "command.dropped"

	// System events
	EventTypeError   EventType = "error"
	EventTypeWarning EventType = "warning"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypeStylesheet      EntityType = "stylesheet"
	EntityTypeDisplaySettings EntityType = "display_settings"
	EntityTypeSystem          EntityType = "system"
)

// Event represents an append-only log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the ID of the related entity.
	EntityID string `json:"entity_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks if the event is valid.
func (e *Event) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(string(e.Type)) == "" {
		validation.AddMessage("type", "event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		validation.AddMessage("entity_type", "entity_type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		validation.AddMessage("entity_id", "entity_id is required")
	}
	return validation.Err()
}

// StylesheetSavedPayload is the payload for stylesheet.saved events.
type StylesheetSavedPayload struct {
	CommandID  string     `json:"command_id"`
	Stylesheet Stylesheet `json:"stylesheet"`
}

// DisplaySettingsSavedPayload is the payload for display_settings.saved events.
type DisplaySettingsSavedPayload struct {
	CommandID string          `json:"command_id"`
	Settings  DisplaySettings `json:"settings"`
}

// CommandDroppedPayload is the payload for command.dropped events.
type CommandDroppedPayload struct {
	CommandID   string      `json:"command_id"`
	CommandType CommandType `json:"command_type"`
	Reason      string      `json:"reason"`
}

// ErrorPayload is the payload for error events.
type ErrorPayload struct {
	Error   string `json:"error"`
	Context string `json:"context,omitempty"`
}
