package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/boxwise/inventory/internal/api/metrics"
	"github.com/boxwise/inventory/internal/core/domain"
	"github.com/boxwise/inventory/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes reminder notices to a fixed set of workers using
// consistent hashing on the group ID, so one group's notices are delivered
// one at a time and in order.
type Dispatcher struct {
	workers []chan domain.ReminderNotice
	service ports.NotificationService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ReminderNotice, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ReminderNotice, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a notice to the worker responsible for its group. It blocks
// while that worker's buffer is full and gives up when ctx is cancelled.
func (d *Dispatcher) Enqueue(ctx context.Context, notice domain.ReminderNotice) bool {
	idx := d.shardIndex(notice.GroupID)
	select {
	case d.workers[idx] <- notice:
		metrics.ReminderQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	case <-ctx.Done():
		return false
	}
}

// EnqueueBatch enqueues notices in order and returns how many were accepted.
func (d *Dispatcher) EnqueueBatch(ctx context.Context, notices []domain.ReminderNotice) int {
	n := 0
	for _, notice := range notices {
		if !d.Enqueue(ctx, notice) {
			break
		}
		n++
	}
	return n
}

// shardIndex maps a group ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(groupID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(groupID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ReminderNotice) {
	depth := metrics.ReminderQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case notice, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))

			start := time.Now()
			err := d.service.Notify(ctx, notice)
			metrics.ReminderNotifyDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.RemindersNotifiedTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("reminder_id", notice.ReminderID).
					Str("group_id", notice.GroupID).
					Int("worker_id", id).
					Msg("reminder notification failed")
				continue
			}
			metrics.RemindersNotifiedTotal.WithLabelValues("handled").Inc()
		}
	}
}
