package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quad_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quad_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RelationMutations counts friend and follow edge changes.
	RelationMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quad_relation_mutations_total",
		Help: "Total number of social graph edge mutations",
	}, []string{"relation", "action"})

	// EngagementToggles counts like and bookmark flips by resulting state.
	EngagementToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quad_engagement_toggles_total",
		Help: "Total number of note engagement toggles",
	}, []string{"kind", "state"})

	// VoterImportRows counts imported voter rows by outcome.
	VoterImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quad_voter_import_rows_total",
		Help: "Total number of voter rows processed by the importer",
	}, []string{"outcome"})

	// CacheLookups counts cache-aside hits, misses and Redis errors.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quad_cache_lookups_total",
		Help: "Total number of cache-aside lookups by result",
	}, []string{"result"})

	// ActiveWebSockets tracks open notification streams.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quad_active_websockets",
		Help: "Number of open notification websocket connections",
	})

	// WebSocketDrops counts notifications that could not be queued for a client.
	WebSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quad_websocket_drops_total",
		Help: "Total number of notifications dropped before delivery",
	}, []string{"reason"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordToggle counts an engagement toggle.
func RecordToggle(kind string, active bool) {
	state := "removed"
	if active {
		state = "added"
	}
	EngagementToggles.WithLabelValues(kind, state).Inc()
}
