package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AggregationMetrics records catalog fan-out behavior per favorite type.
type AggregationMetrics struct {
	chunkDuration *prometheus.HistogramVec
	chunkFailure  *prometheus.CounterVec
	catalogCalls  *prometheus.CounterVec
}

// NewAggregationMetrics registers the aggregation metrics on the provided registerer.
func NewAggregationMetrics(reg prometheus.Registerer) *AggregationMetrics {
	if reg == nil {
		return &AggregationMetrics{}
	}
	chunkDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_chunk_duration_seconds",
		Help:    "Duration of batched catalog lookups in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	chunkFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_chunk_failure",
		Help: "Batched catalog lookups that failed and were skipped.",
	}, []string{"type"})
	catalogCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_requests",
		Help: "Requests issued to the upstream catalog.",
	}, []string{"type"})
	reg.MustRegister(chunkDuration, chunkFailure, catalogCalls)
	return &AggregationMetrics{
		chunkDuration: chunkDuration,
		chunkFailure:  chunkFailure,
		catalogCalls:  catalogCalls,
	}
}

// ObserveChunkDuration records how long a batched lookup took for the given type.
func (a *AggregationMetrics) ObserveChunkDuration(favoriteType string, duration time.Duration) {
	if a == nil || a.chunkDuration == nil {
		return
	}
	a.chunkDuration.WithLabelValues(normalizeLabel(favoriteType)).Observe(duration.Seconds())
}

// IncChunkFailure increments the skipped-chunk counter for the given type.
func (a *AggregationMetrics) IncChunkFailure(favoriteType string) {
	if a == nil || a.chunkFailure == nil {
		return
	}
	a.chunkFailure.WithLabelValues(normalizeLabel(favoriteType)).Inc()
}

// IncCatalogCall increments the upstream request counter for the given type.
func (a *AggregationMetrics) IncCatalogCall(favoriteType string) {
	if a == nil || a.catalogCalls == nil {
		return
	}
	a.catalogCalls.WithLabelValues(normalizeLabel(favoriteType)).Inc()
}

func normalizeLabel(favoriteType string) string {
	if favoriteType == "" {
		return "unknown"
	}
	return favoriteType
}
