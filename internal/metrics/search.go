package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sift",
			Name:      "searches_total",
			Help:      "Total number of search requests by mode and engine",
		},
		[]string{"mode", "engine"},
	)

	SearchZeroResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sift",
			Name:      "search_zero_results_total",
			Help:      "Searches that matched no record",
		},
		[]string{"mode", "engine"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchZeroResultsTotal)
	searchMetricsRegistered = true
}
