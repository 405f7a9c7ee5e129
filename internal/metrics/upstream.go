package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream query and response cache metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewlens",
			Name:      "upstream_requests_total",
			Help:      "Total number of queries sent to the search service",
		},
		[]string{"variant", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewlens",
			Name:      "upstream_request_duration_seconds",
			Help:      "Search service query duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"variant"},
	)

	UpstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewlens",
			Name:      "upstream_errors_total",
			Help:      "Total search service errors",
		},
		[]string{"variant", "error_type"},
	)

	UpstreamSharedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reviewlens",
			Name:      "upstream_shared_total",
			Help:      "Queries answered by an identical in-flight query",
		},
	)

	ResponseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewlens",
			Name:      "response_cache_total",
			Help:      "Response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	FormatWarningsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reviewlens",
			Name:      "format_warnings_total",
			Help:      "Highlight snippets skipped while formatting results",
		},
	)
)

var registerUpstream sync.Once

// RegisterUpstreamMetrics registers the upstream and cache metrics. Safe to call more than once.
func RegisterUpstreamMetrics() {
	registerUpstream.Do(func() {
		prometheus.MustRegister(
			UpstreamRequestsTotal,
			UpstreamRequestDuration,
			UpstreamErrorsTotal,
			UpstreamSharedTotal,
			ResponseCacheTotal,
			FormatWarningsTotal,
		)
	})
}
