package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var intervalSeconds int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run classification on an interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			interval := time.Duration(cfg.Runner.IntervalSeconds) * time.Second
			if intervalSeconds > 0 {
				interval = time.Duration(intervalSeconds) * time.Second
			}
			if interval <= 0 {
				return fmt.Errorf("watch interval must be positive, got %s", interval)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching every %s; press Ctrl-C to stop\n", interval)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				outcome, err := executeRun(signalCtx, ctx, false)
				switch {
				case errors.Is(err, context.Canceled):
					return nil
				case err != nil:
					// A failed run does not stop the watch; the next tick retries.
					fmt.Fprintf(cmd.ErrOrStderr(), "run failed: %v\n", err)
				default:
					printOutcome(out, outcome)
				}

				select {
				case <-signalCtx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().IntVar(&intervalSeconds, "interval", 0, "Seconds between runs (overrides the configured interval)")
	return cmd
}
