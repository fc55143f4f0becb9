// Package metrics defines and registers all custom Prometheus metrics for the
// FitProof API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fitproof"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsStartedTotal counts sessions created against an active device.
var SessionsStartedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Total number of workout sessions started.",
	},
)

// SetsLoggedTotal counts appended sets.
// Label:
//   - type: "strength" or "cardio"
var SetsLoggedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sets_logged_total",
		Help:      "Total number of sets appended to sessions, by set type.",
	},
	[]string{"type"},
)

// SetVolume observes the volume of each appended set.
// Label:
//   - type: "strength" or "cardio"
var SetVolume = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "set_volume",
		Help:      "Volume of logged sets (kg*reps*sets for strength, distance or seconds for cardio).",
		Buckets:   []float64{0, 100, 500, 1000, 2500, 5000, 10000, 25000},
	},
	[]string{"type"},
)

// IdempotentReplaysTotal counts log requests answered from a previously seen
// Idempotency-Key instead of appending.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of set log requests replayed from an idempotency key.",
	},
)

// SessionQueueDepth tracks pending mutations per serializer shard.
// Label:
//   - shard: numeric shard index (e.g. "0", "1", …)
var SessionQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_queue_depth",
		Help:      "Current number of session mutations waiting in each serializer shard.",
	},
	[]string{"shard"},
)

// SessionQueueWait measures how long a mutation waits before its shard runs it.
var SessionQueueWait = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "session_queue_wait_seconds",
		Help:      "Time a session mutation spends queued before execution.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts audited login attempts.
// Label:
//   - result: "success", "bad_password" or "unknown_email"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - backend: "redis" or "memory"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
	[]string{"backend"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts domain events handed to the broker.
// Labels:
//   - topic: event topic (e.g. "session.set_logged")
//   - result: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain events published, by topic and result.",
	},
	[]string{"topic", "result"},
)
