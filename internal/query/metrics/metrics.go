// Package metrics exposes Prometheus metrics for the query façade.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the façade's Prometheus collectors.
type Metrics struct {
	QueriesServed *prometheus.CounterVec
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	RowsLoaded    prometheus.Counter
	RowsRejected  *prometheus.CounterVec
	LowCoverage   prometheus.Counter
}

// New creates and registers all façade metrics on the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates the metrics on a caller-supplied registerer; tests pass a
// fresh registry to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QueriesServed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rdhub_queries_served_total",
			Help: "Statistics queries served, by indicator family.",
		}, []string{"family"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "rdhub_cache_hits_total",
			Help: "Memoization cache hits.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "rdhub_cache_misses_total",
			Help: "Memoization cache misses.",
		}),
		RowsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "rdhub_rows_loaded_total",
			Help: "Source rows accepted into a frame.",
		}),
		RowsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rdhub_rows_rejected_total",
			Help: "Source rows rejected during loading, by reason.",
		}, []string{"reason"}),
		LowCoverage: factory.NewCounter(prometheus.CounterOpts{
			Name: "rdhub_low_coverage_responses_total",
			Help: "Responses flagged as computed over low country coverage.",
		}),
	}
}
