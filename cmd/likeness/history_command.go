package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"likeness/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent classification runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Paths.HistoryDB) == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (paths.history_db is not set)")
				return nil
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}

			header := table.Row{"Started", "Duration", "Seen", "Matched", "Skipped", "Changed", "Published", "Status"}
			tw := newTable(cmd.OutOrStdout(), header, 2, 3, 4, 5)
			for _, run := range runs {
				status := "ok"
				if run.Error != "" {
					status = run.Error
				}
				tw.AppendRow(table.Row{
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.FinishedAt.Sub(run.StartedAt).Round(timeRounding).String(),
					run.ItemsSeen,
					run.ItemsMatched,
					run.ItemsSkipped,
					yesNo(run.Changed),
					yesNo(run.Published),
					status,
				})
			}
			tw.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}
