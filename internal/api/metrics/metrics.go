// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API and its client core. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Tracking event metrics ────────────────────────────────────────────────────

// EventsProcessedTotal counts tracking events that completed processing.
// Labels:
//   - status: the order status applied by the event (e.g. "shipped")
//   - source: the event source reported by the sender (e.g. "courier_app")
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_events_processed_total",
		Help:      "Total number of tracking events successfully processed.",
	},
	[]string{"status", "source"},
)

// EventsErrorsTotal counts tracking events that failed processing.
// Label:
//   - reason: "invalid_transition", "order_not_found", "update_failed"
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_events_errors_total",
		Help:      "Total number of tracking events that failed processing.",
	},
	[]string{"reason"},
)

// EventsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var EventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_events_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// EventsQueueDepth tracks the number of events waiting in each worker channel.
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracking_events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventProcessingDuration measures how long a single event takes to process.
// Label:
//   - status: the resulting order status, or "error" on failure
var EventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tracking_event_processing_duration_seconds",
		Help:      "Duration of event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders accepted by the API.
// Label:
//   - payment_method: e.g. "credit", "paypal"
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by payment method.",
	},
	[]string{"payment_method"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// ProductCacheTotal counts product list cache lookups.
// Label:
//   - result: "hit" or "miss"
var ProductCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_cache_total",
		Help:      "Product list cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts on the API.
// Labels:
//   - operation: "register" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Register and login attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Client metrics ────────────────────────────────────────────────────────────

// ClientFallbacksTotal counts client operations answered by the mock provider
// after the remote API failed.
// Label:
//   - operation: "register", "login", "me", "save_order", "user_orders", ...
var ClientFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_fallbacks_total",
		Help:      "Client operations served from mock data after a remote failure.",
	},
	[]string{"operation"},
)

// ClientRequestDuration measures remote API round-trips made by the client.
// Labels:
//   - operation: the client operation
//   - outcome: "ok", "auth", "server" or "network"
var ClientRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "client_request_duration_seconds",
		Help:      "Duration of remote API requests issued by the client core.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "outcome"},
)
