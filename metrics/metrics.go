// Package metrics defines the Prometheus collectors the core's ingest and
// search paths update, grounded on the pack's own pkg/metrics package: a
// struct of collectors built and registered in one constructor.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder holds the collectors named in SPEC_FULL.md's ambient stack:
// documents indexed, documents removed, search latency, and validation
// failures by error code.
type Recorder struct {
	DocumentsIndexedTotal   prometheus.Counter
	DocumentsRemovedTotal   prometheus.Counter
	ValidationFailuresTotal *prometheus.CounterVec
	SearchLatencySeconds    prometheus.Histogram
	SearchResultsCount      prometheus.Histogram
}

// New creates and registers every collector against reg. Passing a fresh
// prometheus.NewRegistry() (rather than the global default) keeps repeated
// test construction from panicking on duplicate registration.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		DocumentsIndexedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kestrel_documents_indexed_total",
			Help: "Total documents successfully indexed.",
		}),
		DocumentsRemovedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kestrel_documents_removed_total",
			Help: "Total documents removed from the index.",
		}),
		ValidationFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kestrel_validation_failures_total",
			Help: "Total document validation failures by error code.",
		}, []string{"code"}),
		SearchLatencySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kestrel_search_latency_seconds",
			Help:    "Search request latency in seconds.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SearchResultsCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kestrel_search_results_count",
			Help:    "Number of hits returned per search request.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
	}
	reg.MustRegister(
		r.DocumentsIndexedTotal,
		r.DocumentsRemovedTotal,
		r.ValidationFailuresTotal,
		r.SearchLatencySeconds,
		r.SearchResultsCount,
	)
	return r
}
