package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/allium/internal/config"
	"github.com/opencode-ai/allium/internal/db"
	"github.com/opencode-ai/allium/internal/locale"
	"github.com/opencode-ai/allium/internal/logging"
	"github.com/opencode-ai/allium/internal/processor"
	"github.com/opencode-ai/allium/internal/tui"
	"github.com/opencode-ai/allium/internal/tui/components"
	"github.com/opencode-ai/allium/internal/tui/display"
	"github.com/opencode-ai/allium/internal/tui/input"
	"github.com/opencode-ai/allium/internal/tui/settings"
	"github.com/opencode-ai/allium/internal/tui/view"
)

func init() {
	rootCmd.AddCommand(uiCmd)

	uiCmd.Flags().Int("width", 0, "surface width in cells (0 follows the terminal)")
	uiCmd.Flags().Int("height", 0, "surface height in cells (0 follows the terminal)")
	mustBindPFlag("tui.width", uiCmd.Flags().Lookup("width"))
	mustBindPFlag("tui.height", uiCmd.Flags().Lookup("height"))
}

var uiCmd = &cobra.Command{
	Use:       "ui [theme|display]",
	Short:     "Open the settings screens",
	Long:      "Open the interactive settings menu, or go straight to one section.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{settings.SectionTheme.String(), settings.SectionDisplay.String()},
	RunE: func(cmd *cobra.Command, args []string) error {
		var section *settings.Section
		if len(args) == 1 {
			s, ok := settings.ParseSection(args[0])
			if !ok {
				return fmt.Errorf("unknown section %q (expected theme or display)", args[0])
			}
			section = &s
		}
		return runUI(cmd.Context(), section)
	},
}

func runUI(ctx context.Context, section *settings.Section) error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "the settings screens require an interactive terminal",
			Hint:     "run from a TTY without --non-interactive, or use the theme and display subcommands",
			NextStep: "allium theme show",
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := GetConfig()

	closeLog, err := redirectLogs(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	repo := db.NewSettingsRepository(database)
	eventRepo := db.NewEventRepository(database)

	loc, err := locale.New(cfg.Locale)
	if err != nil {
		return err
	}
	// Screens read the store once per session; rebuilds and reopened
	// sections see the working copy, not saves still in the queue.
	working := settings.NewWorkingCopy(repo)
	stylesheet, err := working.LoadStylesheet(ctx)
	if err != nil {
		return err
	}

	sink := view.NewChannelSink(cfg.TUI.CommandsBuf)
	proc := processor.New(processor.DefaultConfig(), repo, eventRepo)
	if err := proc.Start(ctx, sink.Commands()); err != nil {
		return err
	}

	pruner, err := processor.NewPruner(eventRepo, cfg.Processor.Retention, cfg.Processor.PruneSchedule)
	if err != nil {
		sink.Close()
		_ = proc.Stop()
		return err
	}
	if err := pruner.Start(ctx); err != nil {
		sink.Close()
		_ = proc.Stop()
		return err
	}

	runErr := tui.Run(ctx, tui.Options{
		Size:       display.Size{W: cfg.TUI.Width, H: cfg.TUI.Height},
		Keys:       keyMap(cfg.Keys),
		Legend:     legend(cfg.Keys),
		Stylesheet: stylesheet,
		Root:       rootView(section, loc, working),
		Sink:       working.Track(sink),
		Log:        logging.Component("tui"),
	}, proc)

	sink.Close()
	pruner.Stop()
	if err := proc.Stop(); err != nil {
		log := logging.Component("cli")
		log.Warn().Err(err).Msg("processor stop")
	}
	return runErr
}

func rootView(section *settings.Section, loc *locale.Locale, loader settings.Loader) tui.RootFunc {
	return func(ctx context.Context, rect display.Rect) (view.View, error) {
		res := settings.Resources{
			Locale: loc,
			Size:   display.Size{W: rect.W, H: rect.H},
			Log:    logging.Component("settings"),
		}
		if section != nil {
			return settings.NewChild(ctx, *section, rect, res, loader, nil)
		}
		return settings.NewMenu(rect, res, loader), nil
	}
}

func keyMap(keys config.KeysConfig) input.KeyMap {
	return input.NewKeyMap(input.Bindings{
		Accept: keys.Accept,
		Cancel: keys.Cancel,
		X:      keys.X,
		Y:      keys.Y,
		Start:  keys.Start,
		Select: keys.Select,
		Menu:   keys.Menu,
	})
}

func legend(keys config.KeysConfig) []components.LegendEntry {
	first := func(names []string) string {
		if len(names) == 0 {
			return ""
		}
		return names[0]
	}
	return []components.LegendEntry{
		{Key: "arrows", Action: "move"},
		{Key: first(keys.Accept), Action: "accept"},
		{Key: first(keys.Cancel), Action: "back"},
		{Key: "ctrl+c", Action: "quit"},
	}
}

// redirectLogs sends logs to the configured file while the TUI owns the
// terminal. An empty path discards them.
func redirectLogs(cfg *config.Config) (func(), error) {
	var out io.Writer = io.Discard
	closeFn := func() {}

	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	if err := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: out,
	}); err != nil {
		closeFn()
		return nil, err
	}
	return closeFn, nil
}
