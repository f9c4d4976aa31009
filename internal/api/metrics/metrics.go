// Package metrics defines and registers all custom Prometheus metrics for the
// Boxwise inventory API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "boxwise"

// ── Item metrics ──────────────────────────────────────────────────────────────

// ItemsCreatedTotal counts newly created items.
// Label:
//   - source: "api" for single creates, "import" for CSV rows
var ItemsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_created_total",
		Help:      "Total number of items created, by source.",
	},
	[]string{"source"},
)

// ImportRowsTotal counts CSV import rows.
// Label:
//   - result: "imported" or "failed"
var ImportRowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_total",
		Help:      "Total number of CSV rows processed by imports, labelled by result.",
	},
	[]string{"result"},
)

// ── Reminder metrics ──────────────────────────────────────────────────────────

// RemindersNotifiedTotal counts notification attempts.
// Label:
//   - result: "handled" or "failed"
var RemindersNotifiedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_notified_total",
		Help:      "Total number of reminder notifications handled, labelled by result.",
	},
	[]string{"result"},
)

// ReminderQueueDepth tracks the notices waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ReminderQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reminder_queue_depth",
		Help:      "Current number of reminder notices pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ReminderNotifyDuration measures how long a single notice takes to deliver.
var ReminderNotifyDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reminder_notify_duration_seconds",
		Help:      "Duration of reminder delivery from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
