package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the weather lookup path.
type Metrics struct {
	CacheLookups      *prometheus.CounterVec   // labels: resource={current,hourly,daily}, result={hit,miss}
	UpstreamRequests  *prometheus.CounterVec   // labels: endpoint={weather,forecast}, outcome={success,error}
	UpstreamDuration  *prometheus.HistogramVec // labels: endpoint={weather,forecast}
	LookupFailures    *prometheus.CounterVec   // labels: code={notFound,invalidApiKey,rateLimit,generic}
	CacheSweepEvicted prometheus.Counter
}

// NewMetrics creates all instruments and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.CacheLookups,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.LookupFailures,
		m.CacheSweepEvicted,
	)
	return m
}

// NewMetricsForTesting creates unregistered instruments to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_web",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by sub-resource and result.",
		}, []string{"resource", "result"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_web",
			Name:      "upstream_requests_total",
			Help:      "Provider API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_web",
			Name:      "upstream_request_duration_seconds",
			Help:      "Provider API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		LookupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_web",
			Name:      "lookup_failures_total",
			Help:      "Failed aggregated lookups by classified error code.",
		}, []string{"code"}),
		CacheSweepEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_web",
			Name:      "cache_sweep_evicted_total",
			Help:      "Entries evicted by the periodic cache sweep.",
		}),
	}
}
