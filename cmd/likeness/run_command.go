package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"likeness/internal/history"
	"likeness/internal/runner"
)

const timeRounding = 10 * time.Millisecond

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify the collection once and publish the membership list if it changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			outcome, err := executeRun(signalCtx, ctx, dryRun)
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Rebuild and compare the membership list without publishing")
	return cmd
}

func executeRun(runCtx context.Context, ctx *commandContext, dryRun bool) (runner.Outcome, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return runner.Outcome{}, err
	}

	release, err := acquireLock(cfg.Paths.LockFile)
	if err != nil {
		return runner.Outcome{}, err
	}
	defer release()

	logger, err := ctx.ensureLogger()
	if err != nil {
		return runner.Outcome{}, fmt.Errorf("init logger: %w", err)
	}

	store, err := ctx.loadReferences()
	if err != nil {
		return runner.Outcome{}, err
	}

	hist, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		return runner.Outcome{}, fmt.Errorf("open history: %w", err)
	}
	if hist != nil {
		defer hist.Close()
	}

	coord := runner.New(cfg, logger, store, runner.WithHistory(hist))
	return coord.Run(runCtx, dryRun)
}

func acquireLock(path string) (func(), error) {
	if strings.TrimSpace(path) == "" {
		return func() {}, nil
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another likeness run is already in progress")
	}
	return func() { _ = lock.Unlock() }, nil
}

func printOutcome(out io.Writer, outcome runner.Outcome) {
	fmt.Fprintf(out, "Run %s finished in %s\n", outcome.RunID, outcome.FinishedAt.Sub(outcome.StartedAt).Round(timeRounding))
	fmt.Fprintf(out, "Items seen: %d, matched: %d, skipped: %d\n", outcome.ItemsSeen, outcome.ItemsMatched, len(outcome.Skips))
	for _, skip := range outcome.Skips {
		fmt.Fprintf(out, "  skipped %s: %s\n", skip.ID, skip.Reason)
	}
	switch {
	case !outcome.Decision.Changed:
		fmt.Fprintln(out, "Membership unchanged; nothing published")
	case outcome.DryRun:
		fmt.Fprintf(out, "Membership would change to %d item(s); publish suppressed by --dry-run\n", len(outcome.Decision.CurrentIDs))
	default:
		fmt.Fprintf(out, "Membership changed; published %d item(s)\n", len(outcome.Decision.CurrentIDs))
	}
}
