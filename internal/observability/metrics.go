package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// collector dispatches per endpoint, method and outcome
	DispatchCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsignal_dispatches_total",
			Help: "Total collector dispatches issued",
		},
		[]string{"endpoint", "method", "outcome"},
	)

	// dispatch latency in seconds per endpoint
	DispatchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopsignal_dispatch_duration_seconds",
			Help:    "Histogram of collector dispatch latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// score cache outcomes: hit, miss, refresh_ok, refresh_failed
	ScoreCacheCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsignal_score_cache_total",
			Help: "Total score cache lookups by result",
		},
		[]string{"result"},
	)

	// events forwarded to ad-platform sinks, labelled by platform and kind
	RoutedEventCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsignal_routed_events_total",
			Help: "Total events forwarded to ad-platform sinks",
		},
		[]string{"platform", "kind"},
	)

	// score entries dropped for an unrecognized ad-platform tag
	DroppedEntryCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shopsignal_dropped_entries_total",
			Help: "Total score entries dropped for unknown ad platforms",
		},
	)

	// visitor identities generated in memory after a storage read failure
	IdentityFallbackCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shopsignal_identity_fallbacks_total",
			Help: "Total in-memory identity fallbacks after storage errors",
		},
	)
)

func init() {
	// register all metrics
	prometheus.MustRegister(
		DispatchCount,
		DispatchLatency,
		ScoreCacheCount,
		RoutedEventCount,
		DroppedEntryCount,
		IdentityFallbackCount,
	)
}
