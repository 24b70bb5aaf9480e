package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opencode-ai/allium/internal/db"
	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/processor"
)

// colorFlag is a pflag.Value holding an optional color.
type colorFlag struct {
	value models.Color
	set   bool
}

func (f *colorFlag) String() string {
	if !f.set {
		return ""
	}
	return f.value.Hex()
}

func (f *colorFlag) Set(s string) error {
	c, err := models.ParseColor(s)
	if err != nil {
		return err
	}
	f.value = c
	f.set = true
	return nil
}

func (f *colorFlag) Type() string {
	return "color"
}

var (
	themeColorFlags = map[string]*colorFlag{}
	themeExportFile string
)

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeShowCmd, themeSetCmd, themeResetCmd, themeExportCmd, themeImportCmd)

	for _, name := range models.ColorFields {
		f := &colorFlag{}
		themeColorFlags[name] = f
		themeSetCmd.Flags().Var(f, strings.ReplaceAll(name, "_", "-"), fmt.Sprintf("set the %s color (#RRGGBB)", strings.ReplaceAll(name, "_", " ")))
	}
	themeExportCmd.Flags().StringVarP(&themeExportFile, "output", "o", "", "write to file instead of stdout")
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show and edit the theme",
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		stylesheet, err := db.NewSettingsRepository(database).LoadStylesheet(ctx)
		if err != nil {
			return err
		}
		return WriteOutput(cmd.OutOrStdout(), stylesheet, func(out io.Writer) error {
			return writeStylesheet(out, stylesheet)
		})
	},
}

var themeSetCmd = &cobra.Command{
	Use:   "set [field value]",
	Short: "Change theme values",
	Long: `Change one or more theme values and save the theme.

Fields: highlight, foreground, background, disabled, button_a, button_b,
button_x, button_y (colors as #RRGGBB), dark_mode, enable_box_art (true/false).

Colors can also be given as flags, e.g. --highlight '#7E4FD6' --button-a '#EB1A1D'.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected a field and a value, got %d arguments", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewSettingsRepository(database)
		stylesheet, err := repo.LoadStylesheet(ctx)
		if err != nil {
			return err
		}

		changed := false
		for _, name := range models.ColorFields {
			f := themeColorFlags[name]
			if !f.set {
				continue
			}
			c, _ := stylesheet.ColorField(name)
			*c = f.value
			changed = true
		}
		if len(args) == 2 {
			if err := setThemeField(&stylesheet, args[0], args[1]); err != nil {
				return err
			}
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to set: pass a field and value or at least one color flag")
		}

		if err := saveCommand(cmd, repo, database, models.SaveStylesheet(stylesheet)); err != nil {
			return err
		}
		return WriteOutput(cmd.OutOrStdout(), stylesheet, func(out io.Writer) error {
			return writeStylesheet(out, stylesheet)
		})
	},
}

var themeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		stylesheet, err := db.NewSettingsRepository(database).ResetStylesheet(ctx, models.NewCommandID())
		if err != nil {
			return err
		}
		return WriteOutput(cmd.OutOrStdout(), stylesheet, func(out io.Writer) error {
			_, err := fmt.Fprintln(out, "Theme reset to default.")
			return err
		})
	},
}

var themeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the theme as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		stylesheet, err := db.NewSettingsRepository(database).LoadStylesheet(ctx)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(stylesheet)
		if err != nil {
			return fmt.Errorf("failed to encode theme: %w", err)
		}
		if themeExportFile == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(themeExportFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", themeExportFile, err)
		}
		return nil
	},
}

var themeImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a theme from YAML",
	Long:  "Import a theme from YAML. Fields missing from the file keep their default values.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stylesheet, err := readStylesheet(args[0])
		if err != nil {
			return err
		}

		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := saveCommand(cmd, db.NewSettingsRepository(database), database, models.SaveStylesheet(stylesheet)); err != nil {
			return err
		}
		return WriteOutput(cmd.OutOrStdout(), stylesheet, func(out io.Writer) error {
			return writeStylesheet(out, stylesheet)
		})
	},
}

func setThemeField(s *models.Stylesheet, field, value string) error {
	field = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(field)), "-", "_")
	switch field {
	case "dark_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("dark_mode: %w", err)
		}
		if b != s.DarkMode {
			s.ToggleDarkMode()
		}
		return nil
	case "enable_box_art":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("enable_box_art: %w", err)
		}
		s.EnableBoxArt = b
		return nil
	}

	c, ok := s.ColorField(field)
	if !ok {
		return fmt.Errorf("unknown theme field %q", field)
	}
	parsed, err := models.ParseColor(value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func readStylesheet(path string) (models.Stylesheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Stylesheet{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	stylesheet := models.DefaultStylesheet()
	if err := yaml.Unmarshal(data, &stylesheet); err != nil {
		return models.Stylesheet{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := stylesheet.Validate(); err != nil {
		return models.Stylesheet{}, err
	}
	return stylesheet, nil
}

func writeStylesheet(out io.Writer, s models.Stylesheet) error {
	t := newFieldTable("FIELD", "VALUE")
	t.add("dark_mode", formatOnOff(s.DarkMode))
	t.add("enable_box_art", formatOnOff(s.EnableBoxArt))
	for _, name := range models.ColorFields {
		c, _ := s.ColorField(name)
		t.add(name, c.Hex())
	}
	t.add("ui_font", fmt.Sprintf("%s %d", s.UIFont.Name, s.UIFont.Size))
	t.add("guide_font", fmt.Sprintf("%s %d", s.GuideFont.Name, s.GuideFont.Size))
	return t.write(out)
}

// saveCommand persists command through the processor so it lands in the
// command log like edits made from the settings screens.
func saveCommand(cmd *cobra.Command, store processor.Store, database *db.DB, command models.Command) error {
	step := beginSave(cmd.ErrOrStderr(), "Saving %s", savedGroup(command.Type))
	proc := processor.New(processor.DefaultConfig(), store, db.NewEventRepository(database))
	if err := proc.Process(cmd.Context(), command); err != nil {
		step.Fail(err)
		return err
	}
	step.Done("saved")
	return nil
}

func savedGroup(t models.CommandType) string {
	if t == models.CommandSaveDisplaySettings {
		return "display settings"
	}
	return "theme"
}
