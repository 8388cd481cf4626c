package capacity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/logger"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/metrics"
)

const reconcileJobName = "capacity_reconcile"

// Reconciler periodically recomputes week counters from completed orders so
// manual order edits or crashed completions cannot leave the counters stale.
type Reconciler struct {
	db       *gorm.DB
	logg     *logger.Logger
	metrics  *metrics.JobMetrics
	interval time.Duration
}

// NewReconciler builds the reconcile job.
func NewReconciler(db *gorm.DB, logg *logger.Logger, jobMetrics *metrics.JobMetrics, interval time.Duration) (*Reconciler, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("reconcile interval must be positive, got %s", interval)
	}
	return &Reconciler{db: db, logg: logg, metrics: jobMetrics, interval: interval}, nil
}

// Start runs the reconcile loop until the context is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil && r.logg != nil {
				r.logg.Error(ctx, "capacity reconcile failed", err)
			}
		}
	}
}

type weekCount struct {
	TargetWeekStart time.Time
	Sets            int
}

// RunOnce recomputes every booked counter from the orders table. Each week
// is updated independently; one failing week does not stop the others.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	started := time.Now()

	var counts []weekCount
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("orders.target_week_start AS target_week_start, COALESCE(SUM(nail_sets.quantity), 0) AS sets").
		Joins("JOIN nail_sets ON nail_sets.order_id = orders.id").
		Where("orders.status = ? AND orders.target_week_start IS NOT NULL", enums.OrderStatusCompleted).
		Group("orders.target_week_start").
		Scan(&counts).Error
	if err != nil {
		r.observe(started, err)
		return fmt.Errorf("counting booked sets: %w", err)
	}

	var errs error
	repaired := 0
	for _, count := range counts {
		week := WeekStartFor(count.TargetWeekStart)
		result := r.db.WithContext(ctx).
			Model(&models.CapacityWeek{}).
			Where("week_start = ? AND booked_sets <> ?", week, count.Sets).
			Update("booked_sets", count.Sets)
		if result.Error != nil {
			errs = multierr.Append(errs, fmt.Errorf("week %s: %w", week.Format("2006-01-02"), result.Error))
			continue
		}
		repaired += int(result.RowsAffected)
	}

	r.observe(started, errs)
	if r.logg != nil && repaired > 0 {
		ctx = r.logg.WithField(ctx, "repaired_weeks", repaired)
		r.logg.Info(ctx, "capacity counters reconciled")
	}
	return errs
}

func (r *Reconciler) observe(started time.Time, err error) {
	if r.metrics == nil {
		return
	}
	r.metrics.ObserveDuration(reconcileJobName, time.Since(started))
	if err != nil {
		r.metrics.IncFailure(reconcileJobName)
	} else {
		r.metrics.IncSuccess(reconcileJobName)
	}
}
