package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/opencode-ai/allium/internal/models"
)

// Settings keys.
const (
	keyStylesheet      = "stylesheet"
	keyDisplaySettings = "display_settings"
)

// SettingsRepository stores whole settings snapshots. Each save replaces the
// stored snapshot and appends an entry to the command log atomically.
type SettingsRepository struct {
	db     *DB
	events *EventRepository
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db, events: NewEventRepository(db)}
}

func (r *SettingsRepository) load(ctx context.Context, key string, dest any) (bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value_json FROM settings WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// LoadStylesheet returns the stored stylesheet, or the default when none
// was saved yet.
func (r *SettingsRepository) LoadStylesheet(ctx context.Context) (models.Stylesheet, error) {
	stylesheet := models.DefaultStylesheet()
	found, err := r.load(ctx, keyStylesheet, &stylesheet)
	if err != nil {
		return models.DefaultStylesheet(), err
	}
	if !found {
		return stylesheet, nil
	}
	if err := stylesheet.Validate(); err != nil {
		return models.DefaultStylesheet(), fmt.Errorf("stored stylesheet is invalid: %w", err)
	}
	return stylesheet, nil
}

// LoadDisplaySettings returns the stored display settings clamped to range,
// or the defaults when none were saved yet.
func (r *SettingsRepository) LoadDisplaySettings(ctx context.Context) (models.DisplaySettings, error) {
	settings := models.DefaultDisplaySettings()
	if _, err := r.load(ctx, keyDisplaySettings, &settings); err != nil {
		return models.DefaultDisplaySettings(), err
	}
	settings.Clamp()
	return settings, nil
}

func (r *SettingsRepository) save(ctx context.Context, key string, value any, event *models.Event) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value_json, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at
		`, key, string(data), time.Now().UTC().Format(timeFormat))
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		return r.events.CreateWithTx(ctx, tx, event)
	})
}

func payloadEvent(eventType models.EventType, entityType models.EntityType, commandID string, payload any) (*models.Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &models.Event{
		Type:       eventType,
		EntityType: entityType,
		EntityID:   string(entityType),
		Payload:    data,
		Metadata:   map[string]string{"command_id": commandID},
	}, nil
}

// SaveStylesheet replaces the stored stylesheet.
func (r *SettingsRepository) SaveStylesheet(ctx context.Context, commandID string, stylesheet models.Stylesheet) error {
	return r.saveStylesheet(ctx, models.EventTypeStylesheetSaved, commandID, stylesheet)
}

// ResetStylesheet stores the default stylesheet and returns it.
func (r *SettingsRepository) ResetStylesheet(ctx context.Context, commandID string) (models.Stylesheet, error) {
	stylesheet := models.DefaultStylesheet()
	return stylesheet, r.saveStylesheet(ctx, models.EventTypeStylesheetReset, commandID, stylesheet)
}

func (r *SettingsRepository) saveStylesheet(ctx context.Context, eventType models.EventType, commandID string, stylesheet models.Stylesheet) error {
	if err := stylesheet.Validate(); err != nil {
		return err
	}
	event, err := payloadEvent(eventType, models.EntityTypeStylesheet, commandID, models.StylesheetSavedPayload{
		CommandID:  commandID,
		Stylesheet: stylesheet,
	})
	if err != nil {
		return err
	}
	return r.save(ctx, keyStylesheet, stylesheet, event)
}

// SaveDisplaySettings replaces the stored display settings.
func (r *SettingsRepository) SaveDisplaySettings(ctx context.Context, commandID string, settings models.DisplaySettings) error {
	settings.Clamp()
	event, err := payloadEvent(models.EventTypeDisplaySettingsSaved, models.EntityTypeDisplaySettings, commandID, models.DisplaySettingsSavedPayload{
		CommandID: commandID,
		Settings:  settings,
	})
	if err != nil {
		return err
	}
	return r.save(ctx, keyDisplaySettings, settings, event)
}
