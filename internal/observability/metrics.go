// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusgram_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campusgram_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// InteractionsTotal counts toggles and appends by kind and resulting state.
	InteractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusgram_interactions_total",
		Help: "Total interactions by kind (like, save, follow, comment, feedback) and state",
	}, []string{"kind", "state"})

	// NotificationsTotal counts notification rows written by type.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusgram_notifications_total",
		Help: "Total notifications created by type",
	}, []string{"type"})

	// NotificationPublishFailures counts Redis fan-out failures.
	NotificationPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusgram_notification_publish_failures_total",
		Help: "Total notification events that could not be published",
	})

	// NotificationSockets tracks open notification websocket connections.
	NotificationSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campusgram_notification_sockets",
		Help: "Open notification websocket connections",
	})

	// NotificationSocketDrops counts events dropped for slow or closed sockets.
	NotificationSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusgram_notification_socket_drops_total",
		Help: "Notification events dropped per reason (full, closed)",
	}, []string{"reason"})

	// UploadBytes records accepted upload sizes.
	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "campusgram_upload_bytes",
		Help:    "Size of accepted image uploads in bytes",
		Buckets: prometheus.ExponentialBuckets(16*1024, 4, 7),
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// ToggleState renders a toggle result as a metric label.
func ToggleState(active bool) string {
	if active {
		return "on"
	}
	return "off"
}
