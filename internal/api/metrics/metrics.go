// Package metrics defines and registers all custom Prometheus metrics for
// the request tracker. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracker"

// RecordsCreatedTotal counts successfully persisted records.
// Label:
//   - type: the record category (e.g. "Marketing")
var RecordsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_created_total",
		Help:      "Total number of records successfully created, by type.",
	},
	[]string{"type"},
)

// ValidationFailuresTotal counts rejected submissions.
// Label:
//   - transport: "http" or "ws"
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of submissions rejected by validation, by transport.",
	},
	[]string{"transport"},
)

// FanoutPublishedTotal counts records published to the fan-out channel.
var FanoutPublishedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fanout_published_total",
		Help:      "Total number of records published to the fan-out channel.",
	},
)

// FanoutDeliveredTotal counts per-session deliveries of fan-out frames.
var FanoutDeliveredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fanout_delivered_total",
		Help:      "Total number of fan-out frames delivered to viewer sessions.",
	},
)

// FanoutDroppedTotal counts per-session delivery failures. Drops are
// best-effort losses, never surfaced to the publisher.
var FanoutDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fanout_dropped_total",
		Help:      "Total number of fan-out frames that failed to reach a session.",
	},
)

// ConnectedSessions tracks the number of currently registered viewer sessions.
var ConnectedSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connected_sessions",
		Help:      "Current number of connected viewer sessions.",
	},
)

// NotificationsQueuedTotal counts notification stubs handed to the notifier.
// Label:
//   - channel: "team" or "initiator"
var NotificationsQueuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_queued_total",
		Help:      "Total number of notification stubs queued, by channel.",
	},
	[]string{"channel"},
)
