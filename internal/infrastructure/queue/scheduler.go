package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/boxwise/inventory/internal/core/domain"
)

const defaultScanInterval = 15 * time.Minute

// DueSource lists the reminders that should be announced as of now.
type DueSource interface {
	DueNotices(ctx context.Context, now time.Time) ([]domain.ReminderNotice, error)
}

// Enqueuer accepts notices for delivery.
type Enqueuer interface {
	EnqueueBatch(ctx context.Context, notices []domain.ReminderNotice) int
}

// Scheduler periodically sweeps due reminders into the dispatcher.
type Scheduler struct {
	source   DueSource
	queue    Enqueuer
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewScheduler(source DueSource, queue Enqueuer, interval time.Duration, log zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultScanInterval
	}
	return &Scheduler{
		source:   source,
		queue:    queue,
		interval: interval,
		now:      time.Now,
		log:      log,
	}
}

// Run scans once immediately and then on every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.Scan(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Scan(ctx)
		}
	}
}

// Scan enqueues the currently due notices and returns how many were queued.
func (s *Scheduler) Scan(ctx context.Context) int {
	notices, err := s.source.DueNotices(ctx, s.now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("reminder scan failed")
		return 0
	}
	if len(notices) == 0 {
		return 0
	}
	n := s.queue.EnqueueBatch(ctx, notices)
	s.log.Info().Int("due", len(notices)).Int("queued", n).Msg("reminder scan")
	return n
}
