package shopsignal

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shopsignal/sdk-go/device"
	"github.com/shopsignal/sdk-go/sink"
	"github.com/shopsignal/sdk-go/storage"
)

type options struct {
	collectorURL string
	scoreTTL     time.Duration
	store        storage.Store
	facebook     sink.Sink
	google       sink.Sink
	dev          *device.Info
	httpClient   *http.Client
	logger       *zap.Logger
	prometheus   bool
}

// Option customizes a Client beyond the environment-driven defaults.
type Option func(*options)

// WithCollectorURL overrides the collector base URL.
func WithCollectorURL(url string) Option {
	return func(o *options) { o.collectorURL = url }
}

// WithScoreTTL overrides the score cache freshness window.
func WithScoreTTL(ttl time.Duration) Option {
	return func(o *options) { o.scoreTTL = ttl }
}

// WithStore sets the durable key-value store backing the visitor identity
// and the score cache. Defaults to an in-process store.
func WithStore(s storage.Store) Option {
	return func(o *options) { o.store = s }
}

// WithFacebookSink sets the sink receiving Facebook-tagged score entries.
func WithFacebookSink(s sink.Sink) Option {
	return func(o *options) { o.facebook = s }
}

// WithGoogleSink sets the sink receiving Google-tagged score entries.
func WithGoogleSink(s sink.Sink) Option {
	return func(o *options) { o.google = s }
}

// WithDevice sets the device the tracked actions originate from. Defaults
// to the host process's own platform.
func WithDevice(d device.Info) Option {
	return func(o *options) { o.dev = &d }
}

// WithHTTPClient replaces the collector HTTP client, e.g. to share a pooled
// transport with the host application.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger attaches a structured logger. The client is silent by default.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPrometheusMetrics registers and records client metrics on the global
// Prometheus registry.
func WithPrometheusMetrics() Option {
	return func(o *options) { o.prometheus = true }
}
