package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records repository query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tingle_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FollowsTotal counts follow edges created.
	FollowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tingle_follows_total",
		Help: "Total number of follow edges created",
	})

	// LikesTotal counts likes created.
	LikesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tingle_likes_total",
		Help: "Total number of likes created",
	})

	// NotificationsCreated counts notifications by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tingle_notifications_created_total",
		Help: "Total number of notifications created by type",
	}, []string{"type"})

	// MessagesSent counts direct messages sent.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tingle_messages_sent_total",
		Help: "Total number of direct messages sent",
	})

	// SuggestionTierFill observes how many candidates each suggestion tier contributed.
	SuggestionTierFill = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tingle_suggestion_tier_fill",
		Help:    "Number of suggestions contributed per tier",
		Buckets: []float64{0, 1, 2, 5, 10, 20},
	}, []string{"tier"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
