package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Marketplace API metrics
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "marketplace",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ConversationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "conversations",
			Name:      "created_total",
			Help:      "Total conversations created",
		},
	)

	// ConversationCreateRacesTotal counts inserts that lost the unique pair race and fell back to a read.
	ConversationCreateRacesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "conversations",
			Name:      "create_races_total",
			Help:      "Conversation inserts resolved by reading the concurrently created record",
		},
	)

	MessagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "conversations",
			Name:      "messages_sent_total",
			Help:      "Total messages persisted",
		},
		[]string{"kind"},
	)

	MessagesReadTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "conversations",
			Name:      "messages_read_total",
			Help:      "Total messages transitioned to read",
		},
	)

	DisplayRefreshFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "conversations",
			Name:      "display_refresh_failures_total",
			Help:      "Best-effort display field refreshes that failed",
		},
	)
)

// RecordRequest records HTTP request metrics.
func RecordRequest(method, endpoint, status string, durationSeconds float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordMessageSent counts a persisted message by kind ("user" or "contract").
func RecordMessageSent(kind string) {
	MessagesSentTotal.WithLabelValues(kind).Inc()
}

// RecordMessagesRead adds the number of messages moved to read.
func RecordMessagesRead(count int64) {
	if count > 0 {
		MessagesReadTotal.Add(float64(count))
	}
}
