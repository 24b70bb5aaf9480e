// Package config loads launcher configuration from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides (ALLIUM_DATABASE_PATH, ...).
const EnvPrefix = "ALLIUM"

// Config is the top-level configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Locale    string          `mapstructure:"locale"`
	TUI       TUIConfig       `mapstructure:"tui"`
	Keys      KeysConfig      `mapstructure:"keys"`
	Processor ProcessorConfig `mapstructure:"processor"`
}

// DatabaseConfig locates the settings database.
type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

// ProcessorConfig controls command persistence and command-log retention.
// Retention of zero keeps every entry.
type ProcessorConfig struct {
	Retention     time.Duration `mapstructure:"retention"`
	PruneSchedule string        `mapstructure:"prune_schedule"`
}

// LoggingConfig controls log output. File is used while the TUI owns the terminal.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// TUIConfig sizes the emulated handheld screen. Zero means "use the terminal size".
type TUIConfig struct {
	Width       int `mapstructure:"width"`
	Height      int `mapstructure:"height"`
	CommandsBuf int `mapstructure:"commands_buffer"`
}

// KeysConfig maps terminal key names (as bubbletea reports them) to keypad buttons.
type KeysConfig struct {
	Accept []string `mapstructure:"accept"`
	Cancel []string `mapstructure:"cancel"`
	X      []string `mapstructure:"x"`
	Y      []string `mapstructure:"y"`
	Start  []string `mapstructure:"start"`
	Select []string `mapstructure:"select"`
	Menu   []string `mapstructure:"menu"`
}

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".", ".allium")
	}
	return filepath.Join(dir, "allium")
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	dir := DefaultConfigDir()
	return &Config{
		Database: DatabaseConfig{
			Path:        filepath.Join(dir, "settings.db"),
			BusyTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   filepath.Join(dir, "allium.log"),
		},
		Locale: "en",
		TUI: TUIConfig{
			Width:       64,
			Height:      20,
			CommandsBuf: 64,
		},
		Keys: KeysConfig{
			Accept: []string{"enter", " ", "a"},
			Cancel: []string{"esc", "backspace", "b"},
			X:      []string{"x"},
			Y:      []string{"y"},
			Start:  []string{"s"},
			Select: []string{"tab"},
			Menu:   []string{"m"},
		},
		Processor: ProcessorConfig{
			Retention:     30 * 24 * time.Hour,
			PruneSchedule: "@daily",
		},
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.busy_timeout", cfg.Database.BusyTimeout)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("locale", cfg.Locale)
	v.SetDefault("tui.width", cfg.TUI.Width)
	v.SetDefault("tui.height", cfg.TUI.Height)
	v.SetDefault("tui.commands_buffer", cfg.TUI.CommandsBuf)
	v.SetDefault("keys.accept", cfg.Keys.Accept)
	v.SetDefault("keys.cancel", cfg.Keys.Cancel)
	v.SetDefault("keys.x", cfg.Keys.X)
	v.SetDefault("keys.y", cfg.Keys.Y)
	v.SetDefault("keys.start", cfg.Keys.Start)
	v.SetDefault("keys.select", cfg.Keys.Select)
	v.SetDefault("keys.menu", cfg.Keys.Menu)
	v.SetDefault("processor.retention", cfg.Processor.Retention)
	v.SetDefault("processor.prune_schedule", cfg.Processor.PruneSchedule)
}

// LoadOption adjusts the viper instance before the config is decoded.
type LoadOption func(v *viper.Viper) error

// WithFlag lets a command-line flag override key when the flag was set.
func WithFlag(key string, flag *pflag.Flag) LoadOption {
	return func(v *viper.Viper) error {
		if flag == nil {
			return fmt.Errorf("bind %s: flag is nil", key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind %s to --%s: %w", key, flag.Name, err)
		}
		return nil
	}
}

// Load reads configuration. An explicit path must exist; otherwise config.yaml
// is searched in the user config dir and allium.yaml in the working directory.
// Precedence is flags, then ALLIUM_* environment, then file, then defaults.
func Load(path string, opts ...LoadOption) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Fall back to ./allium.yaml for portable installs.
		v.SetConfigName("allium")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the launcher cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Database.Path) == "" {
		problems = append(problems, "database.path is required")
	}
	if c.TUI.Width < 0 || c.TUI.Height < 0 {
		problems = append(problems, "tui.width and tui.height must not be negative")
	}
	if c.TUI.CommandsBuf <= 0 {
		problems = append(problems, "tui.commands_buffer must be positive")
	}
	if c.Processor.Retention < 0 {
		problems = append(problems, "processor.retention must not be negative")
	}
	if c.Processor.Retention > 0 && strings.TrimSpace(c.Processor.PruneSchedule) == "" {
		problems = append(problems, "processor.prune_schedule is required when retention is set")
	}
	if len(c.Keys.Accept) == 0 || len(c.Keys.Cancel) == 0 {
		problems = append(problems, "keys.accept and keys.cancel need at least one key")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
