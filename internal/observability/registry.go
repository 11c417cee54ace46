package observability

import "time"

// MetricsRegistry provides an interface for recording client metrics so
// components receive metrics by dependency injection rather than touching
// the global Prometheus registry directly.
type MetricsRegistry interface {
	// Dispatch metrics
	IncrementDispatches(endpoint, method, outcome string)
	RecordDispatchLatency(endpoint string, duration time.Duration)

	// Score cache metrics
	IncrementScoreCache(result string)

	// Routing metrics
	IncrementRoutedEvents(platform, kind string)
	IncrementDroppedEntries()

	// Identity metrics
	IncrementIdentityFallbacks()
}

// Score cache result labels.
const (
	ScoreCacheHit           = "hit"
	ScoreCacheMiss          = "miss"
	ScoreCacheRefreshOK     = "refresh_ok"
	ScoreCacheRefreshFailed = "refresh_failed"
)

// PrometheusRegistry implements MetricsRegistry on the global Prometheus metrics.
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry.
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

func (r *PrometheusRegistry) IncrementDispatches(endpoint, method, outcome string) {
	DispatchCount.WithLabelValues(endpoint, method, outcome).Inc()
}

func (r *PrometheusRegistry) RecordDispatchLatency(endpoint string, duration time.Duration) {
	DispatchLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementScoreCache(result string) {
	ScoreCacheCount.WithLabelValues(result).Inc()
}

func (r *PrometheusRegistry) IncrementRoutedEvents(platform, kind string) {
	RoutedEventCount.WithLabelValues(platform, kind).Inc()
}

func (r *PrometheusRegistry) IncrementDroppedEntries() {
	DroppedEntryCount.Inc()
}

func (r *PrometheusRegistry) IncrementIdentityFallbacks() {
	IdentityFallbackCount.Inc()
}

// NoOpRegistry implements MetricsRegistry with no-op methods for tests and
// for embedders that do not run Prometheus.
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry.
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

func (r *NoOpRegistry) IncrementDispatches(endpoint, method, outcome string)          {}
func (r *NoOpRegistry) RecordDispatchLatency(endpoint string, duration time.Duration) {}
func (r *NoOpRegistry) IncrementScoreCache(result string)                             {}
func (r *NoOpRegistry) IncrementRoutedEvents(platform, kind string)                   {}
func (r *NoOpRegistry) IncrementDroppedEntries()                                      {}
func (r *NoOpRegistry) IncrementIdentityFallbacks()                                   {}
