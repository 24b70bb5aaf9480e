// Package events provides helpers for writing command-log entries.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opencode-ai/allium/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

// LogCommandDropped records a command the processor could not apply.
func LogCommandDropped(ctx context.Context, repo Repository, commandID string, commandType models.CommandType, reason string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if commandID == "" {
		return fmt.Errorf("command id is required")
	}

	payload, err := json.Marshal(models.CommandDroppedPayload{
		CommandID:   commandID,
		CommandType: commandType,
		Reason:      reason,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal dropped command payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeCommandDropped,
		EntityType: models.EntityTypeSystem,
		EntityID:   "processor",
		Payload:    payload,
		Metadata:   map[string]string{"command_id": commandID},
	})
}

// LogError records a failure to apply a command.
func LogError(ctx context.Context, repo Repository, where string, cause error) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if cause == nil {
		return nil
	}

	payload, err := json.Marshal(models.ErrorPayload{Error: cause.Error(), Context: where})
	if err != nil {
		return fmt.Errorf("failed to marshal error payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeError,
		EntityType: models.EntityTypeSystem,
		EntityID:   "processor",
		Payload:    payload,
	})
}
