package shopsignal

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopsignal/sdk-go/internal/config"
	"github.com/shopsignal/sdk-go/internal/observability"
)

// InitTracing initializes the OTLP trace exporter configured through the
// environment (OTLP_ENDPOINT, TRACING_SAMPLE_RATE, SERVICE_NAME). Call it
// once at host startup when TRACING_ENABLED is set so dispatch spans are
// exported; the returned shutdown function flushes pending spans.
func InitTracing(ctx context.Context, logger *zap.Logger) (func(), error) {
	cfg := config.Load()
	if logger == nil {
		logger = zap.NewNop()
	}
	return observability.InitTracing(ctx, logger, cfg.ServiceName, cfg.OTLPEndpoint, cfg.TracingSampleRate)
}
