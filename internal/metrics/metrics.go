// Package metrics defines the Prometheus collectors for the vote and
// reputation ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Vote Transition Metrics
var (
	// VoteTransitionsTotal tracks vote transitions by entity kind, direction,
	// and outcome (applied/toggled_off/switched)
	VoteTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vote_transitions_total",
			Help: "Total vote transitions by entity kind, direction, and outcome",
		},
		[]string{"entity", "direction", "outcome"},
	)

	// VoteConflictRetriesTotal tracks optimistic-concurrency retries during voting
	VoteConflictRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vote_conflict_retries_total",
			Help: "Total vote commits retried after a concurrent update conflict",
		},
	)

	// VoteRateLimitedTotal tracks votes rejected by the rate limiter
	VoteRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vote_rate_limited_total",
			Help: "Total votes rejected by the per-user rate limiter",
		},
	)

	// VoteProcessingDuration tracks end-to-end vote processing latency
	VoteProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vote_processing_duration_seconds",
			Help:    "Vote processing duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5},
		},
	)
)

// Reputation Metrics
var (
	// ReputationDeltasTotal tracks applied reputation deltas by source
	// (vote/acceptance/answer_posted/deletion)
	ReputationDeltasTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reputation_deltas_total",
			Help: "Total reputation deltas applied by source",
		},
		[]string{"source"},
	)

	// AcceptanceTransitionsTotal tracks acceptance transitions by outcome
	// (accepted/switched/noop)
	AcceptanceTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acceptance_transitions_total",
			Help: "Total acceptance transitions by outcome",
		},
		[]string{"outcome"},
	)
)

// Database Metrics
var (
	// DBQueryDuration tracks database query duration by query name
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// DBErrorsTotal tracks database errors by query name
	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total database errors by query",
		},
		[]string{"query"},
	)
)

// Redis Metrics
var (
	// RateLimiterErrorsTotal tracks rate limiter failures (limiter fails open)
	RateLimiterErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limiter_errors_total",
			Help: "Total vote rate limiter errors (votes are allowed on error)",
		},
	)
)
