// Package metrics provides Prometheus metrics for the quote pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ExtractionsTotal counts quotes produced per source and extraction tier.
	ExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxquotes_extractions_total",
			Help: "Total number of quotes extracted, by source and provenance",
		},
		[]string{"source", "provenance"},
	)

	// AggregationDefectsTotal counts extractors dropped after a panic.
	AggregationDefectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxquotes_aggregation_defects_total",
			Help: "Total number of sources dropped from an aggregation due to a defect",
		},
		[]string{"source"},
	)

	// RefreshDuration is a histogram of snapshot refresh latencies.
	RefreshDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fxquotes_refresh_duration_seconds",
			Help:    "Duration of snapshot refreshes",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"region"},
	)

	// RefreshesTotal counts refresh cycles by outcome (ok, skipped, failed).
	RefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxquotes_refreshes_total",
			Help: "Total number of snapshot refresh cycles, by outcome",
		},
		[]string{"region", "outcome"},
	)

	// SnapshotQuotes is the number of quotes in the live snapshot.
	SnapshotQuotes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fxquotes_snapshot_quotes",
			Help: "Number of quotes in the live snapshot",
		},
		[]string{"region"},
	)

	// SnapshotLastUpdate is the unix timestamp of the last snapshot swap.
	SnapshotLastUpdate = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fxquotes_snapshot_last_update_timestamp",
			Help: "Unix timestamp of the last snapshot swap",
		},
		[]string{"region"},
	)

	// PersistenceErrorsTotal counts failed history writes.
	PersistenceErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxquotes_persistence_errors_total",
			Help: "Total number of quote history write failures",
		},
		[]string{"region", "op"},
	)
)

var registerOnce sync.Once

// Init registers all metrics with the default Prometheus registry.
// Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ExtractionsTotal,
			AggregationDefectsTotal,
			RefreshDuration,
			RefreshesTotal,
			SnapshotQuotes,
			SnapshotLastUpdate,
			PersistenceErrorsTotal,
		)
	})
}

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordExtraction records a quote produced by an extraction tier.
func RecordExtraction(source, provenance string) {
	ExtractionsTotal.WithLabelValues(source, provenance).Inc()
}

// RecordAggregationDefect records a source dropped from an aggregation.
func RecordAggregationDefect(source string) {
	AggregationDefectsTotal.WithLabelValues(source).Inc()
}

// RecordRefresh records a refresh cycle outcome and its duration.
func RecordRefresh(region, outcome string, duration time.Duration) {
	RefreshesTotal.WithLabelValues(region, outcome).Inc()

	if outcome == "ok" {
		RefreshDuration.WithLabelValues(region).Observe(duration.Seconds())
	}
}

// RecordSnapshot records a snapshot swap.
func RecordSnapshot(region string, quotes int) {
	SnapshotQuotes.WithLabelValues(region).Set(float64(quotes))
	SnapshotLastUpdate.WithLabelValues(region).SetToCurrentTime()
}

// RecordPersistenceError records a failed history write.
func RecordPersistenceError(region, op string) {
	PersistenceErrorsTotal.WithLabelValues(region, op).Inc()
}
