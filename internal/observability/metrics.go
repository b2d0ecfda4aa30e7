// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	ReloadsTotal     *prometheus.CounterVec
	ReloadDuration   prometheus.Histogram
	SkippedEntries   prometheus.Counter
	ArchiveErrors    prometheus.Counter
	SnapshotsWritten prometheus.Counter

	// Snapshot state metrics
	LedgerRows     prometheus.Gauge
	Entities       prometheus.Gauge
	GameTime       prometheus.Gauge
	LastReloadUnix prometheus.Gauge

	// API metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ActiveWSClients prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "x4_ledger"
	}

	return &Metrics{
		ReloadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "reloads_total",
			Help:      "Total number of savegame reload attempts by status",
		}, []string{"status"}),
		ReloadDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "reload_duration_seconds",
			Help:      "Time spent extracting and reconstructing one savegame",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		SkippedEntries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "skipped_entries_total",
			Help:      "Total number of malformed log entries skipped during extraction",
		}),
		ArchiveErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "archive_errors_total",
			Help:      "Total number of failed ledger archive writes",
		}),
		SnapshotsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "snapshots_written_total",
			Help:      "Total number of snapshots written to the ledger archive",
		}),
		LedgerRows: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "ledger_rows",
			Help:      "Number of ledger rows in the current snapshot",
		}),
		Entities: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "entities",
			Help:      "Number of resolved player entities in the current snapshot",
		}),
		GameTime: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "game_time_seconds",
			Help:      "In-game clock of the current snapshot",
		}),
		LastReloadUnix: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "last_reload_timestamp_seconds",
			Help:      "Unix time of the last successful reload",
		}),
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests by route and status",
		}, []string{"route", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		ActiveWSClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "active_ws_clients",
			Help:      "Number of connected websocket clients",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordReload records one reload attempt and its duration.
func RecordReload(status string, seconds float64) {
	DefaultMetrics.ReloadsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.ReloadDuration.Observe(seconds)
}

// RecordSnapshot updates the snapshot state gauges after a successful reload.
func RecordSnapshot(rows, entities int, gameTime float64, loadedAtUnix int64) {
	DefaultMetrics.LedgerRows.Set(float64(rows))
	DefaultMetrics.Entities.Set(float64(entities))
	DefaultMetrics.GameTime.Set(gameTime)
	DefaultMetrics.LastReloadUnix.Set(float64(loadedAtUnix))
}

// AddSkippedEntries adds to the skipped entries counter.
func AddSkippedEntries(n int) {
	if n > 0 {
		DefaultMetrics.SkippedEntries.Add(float64(n))
	}
}

// RecordArchiveError increments the archive error counter.
func RecordArchiveError() {
	DefaultMetrics.ArchiveErrors.Inc()
}

// RecordSnapshotWritten increments the archived snapshots counter.
func RecordSnapshotWritten() {
	DefaultMetrics.SnapshotsWritten.Inc()
}

// RecordRequest records one API request.
func RecordRequest(route, status string, seconds float64) {
	DefaultMetrics.RequestsTotal.WithLabelValues(route, status).Inc()
	DefaultMetrics.RequestDuration.WithLabelValues(route).Observe(seconds)
}

// SetActiveWSClients updates the websocket client gauge.
func SetActiveWSClients(n int) {
	DefaultMetrics.ActiveWSClients.Set(float64(n))
}
