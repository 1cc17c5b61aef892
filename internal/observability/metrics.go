// Package observability provides metrics and tracing for the DeepDive API.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AI outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeFlagged  = "flagged"
	OutcomeError    = "error"
	OutcomeDisabled = "disabled"
)

var (
	// AIRequestsTotal counts calls to the AI collaborators by operation and outcome.
	AIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepdive_ai_requests_total",
		Help: "Total AI collaborator calls by operation and outcome",
	}, []string{"operation", "outcome"})

	// AIRequestLatency records AI call latency by operation.
	AIRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "deepdive_ai_request_latency_seconds",
		Help:    "AI collaborator call latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
	}, []string{"operation"})

	// ReactionTogglesTotal counts reaction toggles by resulting state.
	ReactionTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepdive_reaction_toggles_total",
		Help: "Total reaction toggles by resulting state",
	}, []string{"state"})

	// AttemptSubmissionsTotal counts attempt submissions by resulting status.
	AttemptSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepdive_attempt_submissions_total",
		Help: "Total attempt submissions by resulting status",
	}, []string{"status"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepdive_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheLookupsTotal counts cache-aside lookups by key family and result.
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepdive_cache_lookups_total",
		Help: "Cache-aside lookups by key family and result",
	}, []string{"family", "result"})

	// WebSocketConnectionsTotal is the gauge of open feed connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deepdive_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// FeedEventsTotal counts feed events fanned out to clients by type.
	FeedEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepdive_feed_events_total",
		Help: "Total feed events broadcast by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepdive_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// ObserveAI records one AI call.
func ObserveAI(operation, outcome string, start time.Time) {
	AIRequestsTotal.WithLabelValues(operation, outcome).Inc()
	AIRequestLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
