// Package sink defines the outbound ad-platform collaborators that receive
// routed audience and campaign events. A sink is typically a thin wrapper
// over a platform SDK (Facebook App Events, Google Analytics); the client
// never waits on it and never observes its outcome.
package sink

import "go.uber.org/zap"

// Params is the flat parameter set attached to one forwarded event.
type Params map[string]string

// Sink receives one forwarded event. Implementations must not block for
// long and must not panic; the caller fires and forgets.
type Sink interface {
	LogEvent(name string, params Params)
}

// Nop discards every event. It is the default for both platforms so an
// unconfigured client routes nowhere without error.
type Nop struct{}

func (Nop) LogEvent(string, Params) {}

// LogSink writes every forwarded event to a zap logger. Useful while
// integrating, before real platform wrappers are in place.
type LogSink struct {
	Logger   *zap.Logger
	Platform string
}

func (l LogSink) LogEvent(name string, params Params) {
	fields := make([]zap.Field, 0, len(params)+2)
	fields = append(fields, zap.String("platform", l.Platform), zap.String("event", name))
	for k, v := range params {
		fields = append(fields, zap.String(k, v))
	}
	l.Logger.Info("ad platform event", fields...)
}
