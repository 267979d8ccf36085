package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"likeness/internal/classify"
	"likeness/internal/history"
	"likeness/internal/logging"
	"likeness/internal/membership"
	"likeness/internal/registry"
	"likeness/internal/signature"
)

// ItemSkip records why a single item was dropped from the current run.
type ItemSkip struct {
	ID     string
	Reason string
}

// Outcome summarises a completed run.
type Outcome struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Decision     membership.Decision
	ItemsSeen    int
	ItemsMatched int
	Skips        []ItemSkip
	Published    bool
	DryRun       bool
}

// Run executes one full reconciliation run. When dryRun is set the publish
// decision is computed and reported but nothing is written to the list
// store.
//
// The membership set is rebuilt from scratch: per-item failures drop just
// that item, the run continues, and no retries are attempted. A failure to
// publish a changed set is fatal.
func (c *Coordinator) Run(ctx context.Context, dryRun bool) (Outcome, error) {
	outcome := Outcome{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		DryRun:    dryRun,
	}
	logger := c.logger.With(logging.String(logging.FieldRunID, outcome.RunID))
	logger.Info("run started",
		logging.Args(
			logging.Int("references", c.store.Len()),
			logging.Int("threshold", c.cfg.References.Threshold),
			logging.Bool("dry_run", dryRun),
		)...)

	previous := c.list.Fetch(ctx)

	current := membership.NewSet()
	var (
		mu      sync.Mutex
		seen    int
		matched int
		skips   []ItemSkip
	)

	workers := c.cfg.Runner.Workers
	if workers <= 0 {
		workers = 1
	}

	grp, grpCtx := errgroup.WithContext(ctx)
	items := make(chan registry.Item)

	grp.Go(func() error {
		defer close(items)
		return c.enum.Enumerate(grpCtx, func(item registry.Item) error {
			select {
			case items <- item:
				return nil
			case <-grpCtx.Done():
				return grpCtx.Err()
			}
		})
	})

	for i := 0; i < workers; i++ {
		grp.Go(func() error {
			for item := range items {
				mu.Lock()
				seen++
				mu.Unlock()

				result, err := c.processItem(grpCtx, logger, item)
				if err != nil {
					// A store/item length mismatch poisons every
					// classification, not just this one.
					if errors.Is(err, signature.ErrLengthMismatch) {
						return err
					}
					logger.Warn("item skipped",
						logging.Args(
							logging.String(logging.FieldItemID, item.ID),
							logging.Error(err),
						)...)
					mu.Lock()
					skips = append(skips, ItemSkip{ID: item.ID, Reason: err.Error()})
					mu.Unlock()
					continue
				}

				if result.Matched {
					logger.Info("item matched",
						logging.Args(
							logging.String(logging.FieldItemID, item.ID),
							logging.String("reference", result.Reference),
							logging.Int("distance", result.Distance),
						)...)
					mu.Lock()
					matched++
					current.Record(item.ID)
					mu.Unlock()
				} else {
					logger.Debug("item did not match",
						logging.Args(logging.String(logging.FieldItemID, item.ID))...)
				}
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		outcome.FinishedAt = time.Now()
		c.recordHistory(logger, outcome, seen, matched, skips, err)
		return outcome, fmt.Errorf("runner: %w", err)
	}

	outcome.ItemsSeen = seen
	outcome.ItemsMatched = matched
	outcome.Skips = skips

	c.warnOnSkippedMembers(logger, previous, skips)

	outcome.Decision = membership.Reconcile(previous, current)
	if !outcome.Decision.Changed {
		logger.Info("membership unchanged, nothing to publish",
			logging.Args(logging.Int("members", current.Len()))...)
	} else if dryRun {
		logger.Info("membership changed, publish suppressed by dry run",
			logging.Args(
				logging.Int("previous_members", len(outcome.Decision.PreviousIDs)),
				logging.Int("current_members", len(outcome.Decision.CurrentIDs)),
			)...)
	} else {
		if err := c.list.Publish(ctx, current); err != nil {
			outcome.FinishedAt = time.Now()
			c.recordHistory(logger, outcome, seen, matched, skips, err)
			return outcome, fmt.Errorf("runner: %w", err)
		}
		outcome.Published = true
	}

	outcome.FinishedAt = time.Now()
	c.recordHistory(logger, outcome, seen, matched, skips, nil)

	logger.Info("run complete",
		logging.Args(
			logging.Int("items_seen", outcome.ItemsSeen),
			logging.Int("items_matched", outcome.ItemsMatched),
			logging.Int("items_skipped", len(outcome.Skips)),
			logging.Bool("changed", outcome.Decision.Changed),
			logging.Bool("published", outcome.Published),
		)...)
	return outcome, nil
}

func (c *Coordinator) processItem(ctx context.Context, logger *slog.Logger, item registry.Item) (classify.Result, error) {
	imageURL, err := c.resolver.Resolve(ctx, item.TokenURI)
	if err != nil {
		return classify.Result{}, err
	}

	sig, data, err := c.computer.Compute(ctx, imageURL)
	if err != nil {
		return classify.Result{}, err
	}

	// Caching is a side effect; a cache failure never costs the item its
	// classification.
	if !c.cache.Exists(item.ID) {
		if err := c.cache.Save(item.ID, data); err != nil {
			logger.Warn("image cache write failed",
				logging.Args(logging.String(logging.FieldItemID, item.ID), logging.Error(err))...)
		}
	}

	return classify.Classify(item.ID, sig, c.store, c.cfg.References.Threshold)
}

// warnOnSkippedMembers surfaces the known full-rebuild hazard: an item that
// was previously published but failed transiently this run silently drops
// from the republished list.
func (c *Coordinator) warnOnSkippedMembers(logger *slog.Logger, previous *membership.Set, skips []ItemSkip) {
	for _, skip := range skips {
		if previous.Contains(skip.ID) {
			logger.Warn("previously listed item skipped; it will drop from the published list until a later run re-evaluates it",
				logging.Args(
					logging.String(logging.FieldItemID, skip.ID),
					logging.String("reason", skip.Reason),
				)...)
		}
	}
}

func (c *Coordinator) recordHistory(logger *slog.Logger, outcome Outcome, seen, matched int, skips []ItemSkip, runErr error) {
	if c.history == nil {
		return
	}
	run := history.Run{
		ID:           outcome.RunID,
		StartedAt:    outcome.StartedAt,
		FinishedAt:   outcome.FinishedAt,
		ItemsSeen:    seen,
		ItemsMatched: matched,
		ItemsSkipped: len(skips),
		Changed:      outcome.Decision.Changed,
		Published:    outcome.Published,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := c.history.RecordRun(context.Background(), run); err != nil {
		logger.Warn("history record failed", logging.Args(logging.Error(err))...)
	}
}
