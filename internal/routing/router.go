// Package routing fans a score response out to the configured ad-platform
// sinks. Routing is fire-and-forget: no sink acknowledgment, no retry, and
// a malformed response routes nothing.
package routing

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/shopsignal/sdk-go/internal/models"
	"github.com/shopsignal/sdk-go/internal/observability"
	"github.com/shopsignal/sdk-go/sink"
)

// googleValue is the fixed value parameter attached to Google events.
const googleValue = "1"

var whitespace = regexp.MustCompile(`\s`)

// Router classifies score entries by their ad-platform tag and forwards
// each to the matching sink. Entries with an unrecognized tag are dropped
// silently; that is filtering, not an error.
type Router struct {
	facebook sink.Sink
	google   sink.Sink
	logger   *zap.Logger
	metrics  observability.MetricsRegistry
}

// NewRouter creates a router over the two platform sinks.
func NewRouter(facebook, google sink.Sink, logger *zap.Logger, metrics observability.MetricsRegistry) *Router {
	return &Router{facebook: facebook, google: google, logger: logger, metrics: metrics}
}

// Route parses raw as a score response and forwards every audience and
// campaign entry to its platform sink. Empty or malformed input is a no-op.
func (r *Router) Route(raw string) {
	resp, err := models.ParseScore(raw)
	if err != nil {
		r.logger.Debug("score response malformed", zap.Error(err))
		return
	}

	for _, a := range resp.Audiences {
		r.forward("audience", a.AdPlatform, a.Name, a.EventID, nil)
	}
	for _, c := range resp.Campaigns {
		r.forward("campaign", c.AdPlatform, c.Name, c.EventID, c.Bundles)
	}
}

// forward sends one entry to its platform sink, flattening any campaign
// bundles into the outgoing parameter set.
func (r *Router) forward(kind string, platform models.AdPlatform, name, eventID string, bundles []models.Bundle) {
	switch platform {
	case models.PlatformFacebook:
		params := sink.Params{"eventID": eventID, "name": name}
		for _, b := range bundles {
			params[b.Name] = b.Value
		}
		r.facebook.LogEvent(name, params)
		r.metrics.IncrementRoutedEvents(string(platform), kind)

	case models.PlatformGoogle:
		params := sink.Params{"value": googleValue}
		for _, b := range bundles {
			params[b.Name] = b.Value
		}
		r.google.LogEvent(normalizeName(name), params)
		r.metrics.IncrementRoutedEvents(string(platform), kind)

	default:
		r.metrics.IncrementDroppedEntries()
		r.logger.Debug("score entry for unknown ad platform dropped",
			zap.String("platform", string(platform)), zap.String("name", name))
	}
}

// normalizeName rewrites an event name for Google: whitespace becomes
// underscores and the result is lowercased.
func normalizeName(name string) string {
	return strings.ToLower(whitespace.ReplaceAllString(name, "_"))
}
