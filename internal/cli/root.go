// Package cli implements the allium command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/opencode-ai/allium/internal/config"
	"github.com/opencode-ai/allium/internal/db"
	"github.com/opencode-ai/allium/internal/logging"
)

var (
	cfgFile        string
	jsonOutput     bool
	nonInteractive bool
	noProgress     bool

	appConfig    *config.Config
	flagBindings []config.LoadOption
)

var rootCmd = &cobra.Command{
	Use:   "allium",
	Short: "Launcher settings",
	Long: `allium edits the launcher's theme and display settings.

Run "allium ui" for the interactive settings screens, or use the theme and
display subcommands from scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/allium/config.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	flags.String("db", "", "settings database path")
	flags.String("locale", "", "interface language (en, de)")
	flags.BoolVar(&jsonOutput, "json", false, "write machine-readable JSON")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never prompt or start the TUI")
	flags.BoolVar(&noProgress, "no-progress", false, "suppress progress output")

	mustBindPFlag("logging.level", flags.Lookup("log-level"))
	mustBindPFlag("logging.format", flags.Lookup("log-format"))
	mustBindPFlag("database.path", flags.Lookup("db"))
	mustBindPFlag("locale", flags.Lookup("locale"))
}

// mustBindPFlag registers a flag override for a config key. It panics on a
// missing flag so a typo fails at start-up rather than silently.
func mustBindPFlag(key string, flag *pflag.Flag) {
	if flag == nil {
		panic(fmt.Sprintf("failed to bind config key %q: flag not defined", key))
	}
	flagBindings = append(flagBindings, config.WithFlag(key, flag))
}

// Execute runs the root command. Cancelling ctx stops the settings screens
// and any background work.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func initConfig() error {
	cfg, err := config.Load(cfgFile, flagBindings...)
	if err != nil {
		return err
	}
	appConfig = cfg

	return logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

// GetConfig returns the loaded configuration, or nil before start-up.
func GetConfig() *config.Config {
	return appConfig
}

// openDatabase opens the settings database and applies pending migrations.
func openDatabase(ctx context.Context) (*db.DB, error) {
	cfg := GetConfig()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	database, err := db.Open(db.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := database.MigrateUp(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}
