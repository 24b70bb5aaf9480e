package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/allium/internal/db"
	"github.com/opencode-ai/allium/internal/models"
)

func init() {
	rootCmd.AddCommand(displayCmd)
	displayCmd.AddCommand(displayShowCmd, displaySetCmd)
}

var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Show and edit display settings",
}

var displayShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the display settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		settings, err := db.NewSettingsRepository(database).LoadDisplaySettings(ctx)
		if err != nil {
			return err
		}
		return WriteOutput(cmd.OutOrStdout(), settings, func(out io.Writer) error {
			return writeDisplaySettings(out, settings)
		})
	},
}

var displaySetCmd = &cobra.Command{
	Use:   "set <field> <0-100>",
	Short: "Change a display setting",
	Long:  "Change a display setting. Fields: luminance, hue, saturation, contrast. Values are clamped to 0..100.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		field, ok := models.ParseDisplayField(args[0])
		if !ok {
			return fmt.Errorf("unknown display field %q", args[0])
		}
		value, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", args[1], err)
		}

		ctx := cmd.Context()
		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewSettingsRepository(database)
		settings, err := repo.LoadDisplaySettings(ctx)
		if err != nil {
			return err
		}
		settings.Set(field, value)

		if err := saveCommand(cmd, repo, database, models.SaveDisplaySettings(settings)); err != nil {
			return err
		}
		return WriteOutput(cmd.OutOrStdout(), settings, func(out io.Writer) error {
			return writeDisplaySettings(out, settings)
		})
	},
}

func writeDisplaySettings(out io.Writer, s models.DisplaySettings) error {
	t := newFieldTable("FIELD", "VALUE")
	for _, f := range models.DisplayFields {
		v, _ := s.Get(f)
		t.add(f.String(), fmt.Sprintf("%d%%", v))
	}
	return t.write(out)
}
