package preview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docnav/internal/eventstore"
	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// retentionScheduler periodically prunes the build history so long preview
// sessions do not grow the event log without bound.
type retentionScheduler struct {
	scheduler gocron.Scheduler
	pruner    eventstore.Pruner
	keep      int
	logger    *slog.Logger
}

// startRetention schedules a prune every interval, starting immediately.
func startRetention(ctx context.Context, pruner eventstore.Pruner, keep int, interval time.Duration, logger *slog.Logger) (*retentionScheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	r := &retentionScheduler{scheduler: s, pruner: pruner, keep: keep, logger: logger}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { r.prune(ctx) }),
		gocron.WithName("history-retention"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create history retention job: %w", err)
	}
	s.Start()
	logger.Debug("History retention scheduled", slog.Int("keep", keep), slog.Duration("interval", interval))
	return r, nil
}

func (r *retentionScheduler) prune(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	n, err := r.pruner.Prune(ctx, r.keep)
	if err != nil {
		r.logger.Warn("History prune failed", logfields.Error(err))
		return
	}
	if n > 0 {
		r.logger.Info("History pruned", logfields.Count(int(n)), slog.Int("keep", r.keep))
	}
}

// stop waits for a running prune to finish.
func (r *retentionScheduler) stop() error {
	return r.scheduler.Shutdown()
}
