package db

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/opencode-ai/allium/internal/models"
)

func TestLoadDefaultsWhenEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(openTestDB(t))

	stylesheet, err := repo.LoadStylesheet(ctx)
	if err != nil {
		t.Fatalf("LoadStylesheet: %v", err)
	}
	if stylesheet != models.DefaultStylesheet() {
		t.Fatalf("expected default stylesheet, got %+v", stylesheet)
	}

	settings, err := repo.LoadDisplaySettings(ctx)
	if err != nil {
		t.Fatalf("LoadDisplaySettings: %v", err)
	}
	if settings != models.DefaultDisplaySettings() {
		t.Fatalf("expected default display settings, got %+v", settings)
	}
}

func TestSaveStylesheetRoundTripAndLogs(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewSettingsRepository(database)

	stylesheet := models.DefaultStylesheet()
	stylesheet.HighlightColor = models.RGB(0x1A, 0x2B, 0x3C)
	stylesheet.EnableBoxArt = false

	if err := repo.SaveStylesheet(ctx, "cmd-1", stylesheet); err != nil {
		t.Fatalf("SaveStylesheet: %v", err)
	}
	stylesheet.ToggleDarkMode()
	if err := repo.SaveStylesheet(ctx, "cmd-2", stylesheet); err != nil {
		t.Fatalf("SaveStylesheet again: %v", err)
	}

	loaded, err := repo.LoadStylesheet(ctx)
	if err != nil {
		t.Fatalf("LoadStylesheet: %v", err)
	}
	if loaded != stylesheet {
		t.Fatalf("expected %+v, got %+v", stylesheet, loaded)
	}

	events := NewEventRepository(database)
	page, err := events.Query(ctx, EventQuery{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Events) != 2 {
		t.Fatalf("expected 2 logged saves, got %d", len(page.Events))
	}
	last := page.Events[1]
	if last.Type != models.EventTypeStylesheetSaved || last.Metadata["command_id"] != "cmd-2" {
		t.Fatalf("unexpected event %+v", last)
	}
	var payload models.StylesheetSavedPayload
	if err := json.Unmarshal(last.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Stylesheet.DarkMode != stylesheet.DarkMode {
		t.Fatalf("payload does not carry the snapshot: %+v", payload)
	}
}

func TestResetStylesheet(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewSettingsRepository(database)

	custom := models.DefaultStylesheet()
	custom.ButtonAColor = models.RGB(1, 2, 3)
	if err := repo.SaveStylesheet(ctx, "cmd-1", custom); err != nil {
		t.Fatalf("SaveStylesheet: %v", err)
	}

	reset, err := repo.ResetStylesheet(ctx, "cmd-2")
	if err != nil {
		t.Fatalf("ResetStylesheet: %v", err)
	}
	loaded, _ := repo.LoadStylesheet(ctx)
	if loaded != reset || loaded != models.DefaultStylesheet() {
		t.Fatalf("expected default after reset, got %+v", loaded)
	}

	resetType := models.EventTypeStylesheetReset
	page, err := NewEventRepository(database).Query(ctx, EventQuery{Type: &resetType})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Events) != 1 {
		t.Fatalf("expected one reset event, got %d", len(page.Events))
	}
}

func TestSaveStylesheetRejectsInvalid(t *testing.T) {
	repo := NewSettingsRepository(openTestDB(t))
	stylesheet := models.DefaultStylesheet()
	stylesheet.UIFont.Size = 0

	if err := repo.SaveStylesheet(context.Background(), "cmd-1", stylesheet); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDisplaySettingsAreClamped(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	repo := NewSettingsRepository(database)

	if err := repo.SaveDisplaySettings(ctx, "cmd-1", models.DisplaySettings{Luminance: 10, Hue: 20, Saturation: 30, Contrast: 40}); err != nil {
		t.Fatalf("SaveDisplaySettings: %v", err)
	}
	got, err := repo.LoadDisplaySettings(ctx)
	if err != nil {
		t.Fatalf("LoadDisplaySettings: %v", err)
	}
	if got.Contrast != 40 || got.Luminance != 10 {
		t.Fatalf("unexpected settings %+v", got)
	}

	if _, err := database.ExecContext(ctx, `UPDATE settings SET value_json = ? WHERE key = ?`,
		`{"luminance":250,"hue":20,"saturation":30,"contrast":40}`, keyDisplaySettings); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}
	got, err = repo.LoadDisplaySettings(ctx)
	if err != nil {
		t.Fatalf("LoadDisplaySettings: %v", err)
	}
	if got.Luminance != 100 {
		t.Fatalf("expected luminance clamped to 100, got %d", got.Luminance)
	}
}
