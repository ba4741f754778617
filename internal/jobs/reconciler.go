// Package jobs runs periodic maintenance over the booking data.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"legalbooking/internal/metrics"
	"legalbooking/internal/repository"
)

// Result counts the slots a reconciliation run repaired.
type Result struct {
	Released int64
	Blocked  int64
}

// Reconciler repairs slot availability flags that drifted from the
// reservations holding them.
type Reconciler struct {
	tx     repository.Transactor
	logger *slog.Logger
	cron   *cron.Cron
}

// NewReconciler builds a Reconciler.
func NewReconciler(tx repository.Transactor, logger *slog.Logger) *Reconciler {
	return &Reconciler{tx: tx, logger: logger}
}

// Reconcile frees unavailable slots no live reservation holds, and blocks
// available slots that one does.
func (r *Reconciler) Reconcile(ctx context.Context) (Result, error) {
	var res Result
	err := r.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		orphaned, err := repos.Slots.FindOrphaned(ctx)
		if err != nil {
			return fmt.Errorf("find orphaned slots: %w", err)
		}
		if res.Released, err = repos.Slots.SetAvailability(ctx, orphaned, true); err != nil {
			return fmt.Errorf("release slots: %w", err)
		}

		unblocked, err := repos.Slots.FindUnblocked(ctx)
		if err != nil {
			return fmt.Errorf("find unblocked slots: %w", err)
		}
		if res.Blocked, err = repos.Slots.SetAvailability(ctx, unblocked, false); err != nil {
			return fmt.Errorf("block slots: %w", err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	metrics.SlotsReconciled("released", res.Released)
	metrics.SlotsReconciled("blocked", res.Blocked)
	return res, nil
}

// Start schedules Reconcile on schedule, a cron expression or descriptor such as "@every 10m".
func (r *Reconciler) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, r.run); err != nil {
		return fmt.Errorf("schedule reconciler: %w", err)
	}
	r.cron = c
	c.Start()
	r.logger.Info("slot reconciler scheduled", slog.String("schedule", schedule))
	return nil
}

// Stop waits for a running reconciliation to finish.
func (r *Reconciler) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}

func (r *Reconciler) run() {
	res, err := r.Reconcile(context.Background())
	if err != nil {
		r.logger.Error("slot reconciliation failed", slog.Any("error", err))
		return
	}
	if res.Released > 0 || res.Blocked > 0 {
		r.logger.Warn("slot availability repaired",
			slog.Int64("released", res.Released),
			slog.Int64("blocked", res.Blocked),
		)
	}
}
