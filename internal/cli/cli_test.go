package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencode-ai/allium/internal/db"
	"github.com/opencode-ai/allium/internal/models"
)

func setupTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "allium.yaml")
	content := "database:\n  path: " + filepath.Join(dir, "settings.db") + "\n" +
		"logging:\n  level: error\n  file: \"\"\n" +
		"processor:\n  retention: 0s\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func resetFlags() {
	jsonOutput = false
	nonInteractive = false
	noProgress = true
	themeExportFile = ""
	for _, f := range themeColorFlags {
		*f = colorFlag{}
	}
	logType, logEntity, logCursor = "", "", ""
	logSince = 0
	logLimit = 50
	logPrune = false
}

func runCLI(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgPath, "--no-progress"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func showTheme(t *testing.T, cfgPath string) models.Stylesheet {
	t.Helper()
	out, err := runCLI(t, cfgPath, "--json", "theme", "show")
	if err != nil {
		t.Fatalf("theme show: %v", err)
	}
	var s models.Stylesheet
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("decode theme: %v\n%s", err, out)
	}
	return s
}

func TestThemeShowDefaults(t *testing.T) {
	cfg := setupTestConfig(t)

	if got := showTheme(t, cfg); got != models.DefaultStylesheet() {
		t.Fatalf("expected default stylesheet, got %+v", got)
	}

	out, err := runCLI(t, cfg, "theme", "show")
	if err != nil {
		t.Fatalf("theme show: %v", err)
	}
	if !strings.Contains(out, "highlight") || !strings.Contains(out, "#7E4FD6") {
		t.Fatalf("expected highlight row, got:\n%s", out)
	}
}

func TestThemeSet(t *testing.T) {
	cfg := setupTestConfig(t)

	tests := []struct {
		name  string
		args  []string
		check func(models.Stylesheet) bool
	}{
		{
			name:  "positional color",
			args:  []string{"theme", "set", "highlight", "#123456"},
			check: func(s models.Stylesheet) bool { return s.HighlightColor == models.RGB(0x12, 0x34, 0x56) },
		},
		{
			name:  "color flag",
			args:  []string{"theme", "set", "--button-a", "#00FF00"},
			check: func(s models.Stylesheet) bool { return s.ButtonAColor == models.RGB(0, 0xFF, 0) },
		},
		{
			name:  "box art",
			args:  []string{"theme", "set", "enable_box_art", "false"},
			check: func(s models.Stylesheet) bool { return !s.EnableBoxArt },
		},
		{
			name: "dark mode",
			args: []string{"theme", "set", "dark-mode", "false"},
			check: func(s models.Stylesheet) bool {
				return !s.DarkMode && s.BackgroundColor == models.RGB(0xFF, 0xFF, 0xFF)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, cfg, tt.args...); err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
			if got := showTheme(t, cfg); !tt.check(got) {
				t.Fatalf("unexpected stylesheet after %v: %+v", tt.args, got)
			}
		})
	}
}

func TestThemeSetErrors(t *testing.T) {
	cfg := setupTestConfig(t)

	tests := [][]string{
		{"theme", "set"},
		{"theme", "set", "border", "#000000"},
		{"theme", "set", "highlight", "purple"},
		{"theme", "set", "--highlight", "nope"},
		{"theme", "set", "highlight"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if _, err := runCLI(t, cfg, args...); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}

func TestThemeResetAndLog(t *testing.T) {
	cfg := setupTestConfig(t)

	if _, err := runCLI(t, cfg, "theme", "set", "highlight", "#000001"); err != nil {
		t.Fatalf("theme set: %v", err)
	}
	if _, err := runCLI(t, cfg, "theme", "reset"); err != nil {
		t.Fatalf("theme reset: %v", err)
	}
	if got := showTheme(t, cfg); got != models.DefaultStylesheet() {
		t.Fatalf("expected default after reset, got %+v", got)
	}

	out, err := runCLI(t, cfg, "--json", "log")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	var page db.EventPage
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode log: %v\n%s", err, out)
	}
	if len(page.Events) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(page.Events))
	}
	if page.Events[0].Type != models.EventTypeStylesheetSaved || page.Events[1].Type != models.EventTypeStylesheetReset {
		t.Fatalf("unexpected event types: %s, %s", page.Events[0].Type, page.Events[1].Type)
	}
	for _, e := range page.Events {
		if _, err := models.CommandTime(e.Metadata["command_id"]); err != nil {
			t.Fatalf("entry %s has no command id: %v", e.ID, err)
		}
	}

	out, err = runCLI(t, cfg, "log", "--type", "stylesheet.reset")
	if err != nil {
		t.Fatalf("log --type: %v", err)
	}
	if strings.Contains(out, "stylesheet.saved") || !strings.Contains(out, "stylesheet.reset") {
		t.Fatalf("type filter not applied:\n%s", out)
	}
}

func TestThemeExportImport(t *testing.T) {
	cfg := setupTestConfig(t)
	file := filepath.Join(t.TempDir(), "theme.yaml")

	if _, err := runCLI(t, cfg, "theme", "set", "foreground", "#ABCDEF"); err != nil {
		t.Fatalf("theme set: %v", err)
	}
	if _, err := runCLI(t, cfg, "theme", "export", "-o", file); err != nil {
		t.Fatalf("theme export: %v", err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "'#ABCDEF'") && !strings.Contains(string(data), `"#ABCDEF"`) {
		t.Fatalf("expected quoted hex color in export:\n%s", data)
	}

	if _, err := runCLI(t, cfg, "theme", "reset"); err != nil {
		t.Fatalf("theme reset: %v", err)
	}
	if _, err := runCLI(t, cfg, "theme", "import", file); err != nil {
		t.Fatalf("theme import: %v", err)
	}
	if got := showTheme(t, cfg); got.ForegroundColor != models.RGB(0xAB, 0xCD, 0xEF) {
		t.Fatalf("import did not restore foreground: %s", got.ForegroundColor)
	}
}

func TestThemeImportPartialFile(t *testing.T) {
	cfg := setupTestConfig(t)
	file := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(file, []byte("highlight_color: \"#010203\"\n"), 0o644); err != nil {
		t.Fatalf("write theme: %v", err)
	}

	if _, err := runCLI(t, cfg, "theme", "import", file); err != nil {
		t.Fatalf("theme import: %v", err)
	}
	got := showTheme(t, cfg)
	want := models.DefaultStylesheet()
	want.HighlightColor = models.RGB(1, 2, 3)
	if got != want {
		t.Fatalf("expected defaults plus highlight, got %+v", got)
	}
}

func TestDisplaySet(t *testing.T) {
	cfg := setupTestConfig(t)

	if _, err := runCLI(t, cfg, "display", "set", "luminance", "150"); err != nil {
		t.Fatalf("display set: %v", err)
	}
	out, err := runCLI(t, cfg, "--json", "display", "show")
	if err != nil {
		t.Fatalf("display show: %v", err)
	}
	var settings models.DisplaySettings
	if err := json.Unmarshal([]byte(out), &settings); err != nil {
		t.Fatalf("decode display: %v", err)
	}
	if settings.Luminance != 100 || settings.Hue != 50 {
		t.Fatalf("unexpected settings: %+v", settings)
	}

	if _, err := runCLI(t, cfg, "display", "set", "gamma", "10"); err == nil {
		t.Fatal("expected error for unknown field")
	}
	if _, err := runCLI(t, cfg, "display", "set", "hue", "high"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestLogPruneDisabled(t *testing.T) {
	cfg := setupTestConfig(t)

	out, err := runCLI(t, cfg, "log", "--prune")
	if err != nil {
		t.Fatalf("log --prune: %v", err)
	}
	if !strings.Contains(out, "Retention is disabled") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestUIRequiresTerminal(t *testing.T) {
	cfg := setupTestConfig(t)

	_, err := runCLI(t, cfg, "--non-interactive", "ui")
	var preflight *PreflightError
	if !errors.As(err, &preflight) {
		t.Fatalf("expected PreflightError, got %v", err)
	}

	if _, err := runCLI(t, cfg, "--non-interactive", "ui", "sound"); err == nil {
		t.Fatal("expected error for unknown section")
	}
}

func TestColorFlag(t *testing.T) {
	var f colorFlag
	if f.String() != "" || f.Type() != "color" {
		t.Fatalf("unexpected zero flag: %q %q", f.String(), f.Type())
	}
	if err := f.Set("#0a0B0c"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if f.String() != "#0A0B0C" {
		t.Fatalf("String() = %q", f.String())
	}
	if err := f.Set("zzz"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveStepReportsOutcome(t *testing.T) {
	resetFlags()
	noProgress = false
	t.Cleanup(resetFlags)
	t.Setenv("ALLIUM_NO_PROGRESS", "")
	os.Unsetenv("ALLIUM_NO_PROGRESS")

	var out bytes.Buffer
	beginSave(&out, "Saving %s", "theme").Done("saved")
	if !strings.HasPrefix(out.String(), "Saving theme... saved (") {
		t.Fatalf("unexpected progress line: %q", out.String())
	}

	out.Reset()
	beginSave(&out, "Pruning command log").Fail(errors.New("database is locked"))
	if out.String() != "Pruning command log... failed: database is locked\n" {
		t.Fatalf("unexpected failure line: %q", out.String())
	}

	noProgress = true
	out.Reset()
	step := beginSave(&out, "Saving %s", "display settings")
	step.Done("saved")
	if step != nil || out.Len() != 0 {
		t.Fatalf("progress must stay silent with --no-progress, got %q", out.String())
	}
}

func TestFieldTable(t *testing.T) {
	table := newFieldTable("FIELD", "VALUE")
	table.add("dark_mode", formatOnOff(true))
	table.add("enable_box_art", formatOnOff(false))

	var out bytes.Buffer
	if err := table.write(&out); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "FIELD           VALUE\ndark_mode       on\nenable_box_art  off\n"
	if out.String() != want {
		t.Fatalf("unexpected table:\n%s", out.String())
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a short row")
		}
	}()
	table.add("ui_font")
}
