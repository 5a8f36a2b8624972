package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type idleStore interface {
	DeleteIdle(ctx context.Context, before time.Time) int
}

// Janitor periodically drops sessions nobody touched for longer than ttl.
type Janitor struct {
	logger *slog.Logger
	store  idleStore
	ttl    time.Duration
	cron   *cron.Cron
	now    func() time.Time
}

func New(logger *slog.Logger, store idleStore, ttl time.Duration) *Janitor {
	return &Janitor{
		logger: logger.With("component", "janitor"),
		store:  store,
		ttl:    ttl,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// Start - schedules the sweep with a cron expression such as "@every 10m" and starts the scheduler.
func (that *Janitor) Start(ctx context.Context, schedule string) error {
	if _, err := that.cron.AddFunc(schedule, func() { that.Sweep(ctx) }); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}

	that.cron.Start()
	that.logger.Info("janitor started", "schedule", schedule, "ttl", that.ttl)

	return nil
}

// Stop - stops scheduling and waits for a running sweep to finish.
func (that *Janitor) Stop() {
	<-that.cron.Stop().Done()
}

// Sweep - removes idle sessions once.
func (that *Janitor) Sweep(ctx context.Context) int {
	removed := that.store.DeleteIdle(ctx, that.now().Add(-that.ttl))
	if removed > 0 {
		that.logger.Info("idle sessions removed", "count", removed)
	}

	return removed
}
