package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/allium/internal/config"
	"github.com/opencode-ai/allium/internal/db"
	"github.com/opencode-ai/allium/internal/models"
	"github.com/opencode-ai/allium/internal/processor"
)

var (
	logType   string
	logEntity string
	logSince  time.Duration
	logLimit  int
	logCursor string
	logPrune  bool
)

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().StringVar(&logType, "type", "", "filter by event type (e.g. stylesheet.saved, error)")
	logCmd.Flags().StringVar(&logEntity, "entity", "", "filter by entity type (stylesheet, display_settings, system)")
	logCmd.Flags().DurationVar(&logSince, "since", 0, "only entries newer than this (e.g. 24h)")
	logCmd.Flags().IntVar(&logLimit, "limit", 50, "maximum entries to list")
	logCmd.Flags().StringVar(&logCursor, "cursor", "", "continue after this event ID")
	logCmd.Flags().BoolVar(&logPrune, "prune", false, "delete entries older than processor.retention and exit")
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List the command log",
	Long:  "List persisted settings changes and processor failures, oldest first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		repo := db.NewEventRepository(database)
		if logPrune {
			return runPrune(cmd, repo)
		}

		query := db.EventQuery{Cursor: logCursor, Limit: logLimit}
		if logType != "" {
			t := models.EventType(logType)
			query.Type = &t
		}
		if logEntity != "" {
			e := models.EntityType(logEntity)
			query.EntityType = &e
		}
		if logSince > 0 {
			since := time.Now().Add(-logSince)
			query.Since = &since
		}

		page, err := repo.Query(ctx, query)
		if err != nil {
			return err
		}
		return WriteOutput(cmd.OutOrStdout(), page, func(out io.Writer) error {
			return writeEvents(out, page)
		})
	},
}

func runPrune(cmd *cobra.Command, repo *db.EventRepository) error {
	cfg := GetConfig()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	pruner, err := processor.NewPruner(repo, cfg.Processor.Retention, cfg.Processor.PruneSchedule)
	if err != nil {
		return err
	}

	step := beginSave(cmd.ErrOrStderr(), "Pruning command log")
	n, err := pruner.PruneOnce(cmd.Context())
	if err != nil {
		step.Fail(err)
		return err
	}
	step.Done(fmt.Sprintf("%d removed", n))

	result := struct {
		Deleted   int64         `json:"deleted"`
		Retention time.Duration `json:"retention_ns"`
	}{n, cfg.Processor.Retention}
	return WriteOutput(cmd.OutOrStdout(), result, func(out io.Writer) error {
		if cfg.Processor.Retention == 0 {
			_, err := fmt.Fprintln(out, "Retention is disabled; nothing pruned.")
			return err
		}
		_, err := fmt.Fprintf(out, "Deleted %d entries older than %s.\n", n, cfg.Processor.Retention)
		return err
	})
}

func writeEvents(out io.Writer, page *db.EventPage) error {
	if len(page.Events) == 0 {
		_, err := fmt.Fprintln(out, "No entries.")
		return err
	}

	t := newFieldTable("TIME", "TYPE", "ENTITY", "COMMAND", "ID")
	for _, e := range page.Events {
		t.add(
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			string(e.Type),
			string(e.EntityType),
			e.Metadata["command_id"],
			e.ID,
		)
	}
	if err := t.write(out); err != nil {
		return err
	}
	if page.NextCursor != "" {
		_, err := fmt.Fprintf(out, "\nMore entries: allium log --cursor %s\n", page.NextCursor)
		return err
	}
	return nil
}
