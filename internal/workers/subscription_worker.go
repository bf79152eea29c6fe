package workers

import (
	"context"
	"time"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/metrics"
	"jobboard_backend/internal/repositories"

	"gorm.io/gorm"
)

// SubscriptionWorker downgrades paid subscriptions to past_due when the
// provider never reported a renewal for the ended period.
type SubscriptionWorker struct {
	db       *gorm.DB
	repo     repositories.SubscriptionRepository
	interval time.Duration
	grace    time.Duration
	now      func() time.Time
}

func NewSubscriptionWorker(db *gorm.DB, repo repositories.SubscriptionRepository, interval, grace time.Duration) *SubscriptionWorker {
	return &SubscriptionWorker{
		db:       db,
		repo:     repo,
		interval: interval,
		grace:    grace,
		now:      time.Now,
	}
}

// Start runs the sweep until ctx is cancelled.
func (w *SubscriptionWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *SubscriptionWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Subscription worker stopped")
			return
		case <-ticker.C:
			_, _ = w.SweepOnce(ctx)
		}
	}
}

// SweepOnce marks every lapsed subscription past_due.
func (w *SubscriptionWorker) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-w.grace)
	n, err := w.repo.MarkLapsed(w.db.WithContext(ctx), cutoff)
	metrics.SubscriptionsLapsed.Add(float64(n))
	if err != nil {
		logger.CtxWithError(ctx, "lapsed subscription sweep failed", err)
		return 0, err
	}
	if n > 0 {
		logger.CtxInfo(ctx, "marked lapsed subscriptions past_due", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
