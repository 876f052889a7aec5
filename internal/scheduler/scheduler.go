package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"gymconnect/internal/metrics"
	"gymconnect/internal/slot"

	"go.uber.org/zap"
)

const (
	taskExpireSubscriptions = "expire_subscriptions"
	taskCompleteBookings    = "complete_bookings"
)

type SubscriptionExpirer interface {
	ExpireDue(ctx context.Context, today slot.Date) (int, error)
}

type BookingCompleter interface {
	CompleteElapsed(ctx context.Context, now time.Time) (int, error)
}

// Scheduler runs the periodic sweeps that move records along on the clock.
type Scheduler struct {
	subscriptions SubscriptionExpirer
	bookings      BookingCompleter
	interval      time.Duration
	logger        *zap.Logger
	now           func() time.Time

	started  atomic.Bool
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

func NewScheduler(subscriptions SubscriptionExpirer, bookings BookingCompleter, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		subscriptions: subscriptions,
		bookings:      bookings,
		interval:      interval,
		logger:        logger,
		now:           time.Now,
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start runs one sweep immediately, then one per interval, until ctx is
// cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.logger.Info("starting background scheduler", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop signals the loop and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("stopping background scheduler")
		close(s.stopChan)
	})
	if s.started.Load() {
		<-s.done
	}
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("scheduler cancelled")
			return
		}
	}
}

// Sweep runs every task once. A failing task does not block the others.
func (s *Scheduler) Sweep(ctx context.Context) {
	now := s.now().UTC()

	expired, err := s.subscriptions.ExpireDue(ctx, slot.DateOf(now))
	s.record(taskExpireSubscriptions, expired, err)

	completed, err := s.bookings.CompleteElapsed(ctx, now)
	s.record(taskCompleteBookings, completed, err)
}

func (s *Scheduler) record(task string, affected int, err error) {
	metrics.RecordSweep(task, affected, err)
	if err != nil {
		s.logger.Error("sweep failed", zap.String("task", task), zap.Error(err))
		return
	}
	if affected > 0 {
		s.logger.Info("sweep finished", zap.String("task", task), zap.Int("affected", affected))
	}
}
