// Package dispatch sends JSON payloads to the collector. Every failure is
// mapped to a typed error so callers can deliberately degrade to an empty
// result; nothing here retries or queues.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopsignal/sdk-go/internal/observability"
)

// Collector resource paths, relative to the configured base URL.
const (
	PathListings  = "listings/"
	PathProducts  = "products/"
	PathPurchases = "purchases/"
	PathCustomers = "customers/"
)

// ErrorKind classifies a dispatch failure.
type ErrorKind string

const (
	KindEncode    ErrorKind = "encode"    // payload could not be serialized
	KindTransport ErrorKind = "transport" // connection-level failure
	KindStatus    ErrorKind = "status"    // non-2xx response
	KindRead      ErrorKind = "read"      // response body could not be read
)

// Error is a typed dispatch failure. The dispatcher's callers map every
// kind to an empty result; the type exists so the swallow is explicit and
// observable in logs and metrics rather than an implicit catch-all.
type Error struct {
	Kind     ErrorKind
	Endpoint string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("dispatch %s: http %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("dispatch %s: %s: %v", e.Endpoint, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Dispatcher issues collector requests over a shared HTTP client.
type Dispatcher struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    observability.MetricsRegistry
}

// New creates a dispatcher for the collector at baseURL. The base URL must
// end with a slash so resource paths join cleanly.
func New(baseURL string, httpClient *http.Client, logger *zap.Logger, metrics observability.MetricsRegistry) *Dispatcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Dispatcher{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
	}
}

// Do serializes payload and issues one request to the given resource path.
// It returns the response body on a 2xx status and a *Error otherwise.
func (d *Dispatcher) Do(ctx context.Context, method, path string, payload any) (string, error) {
	endpoint := endpointLabel(path)
	start := time.Now()
	outcome := "success"
	defer func() {
		d.metrics.RecordDispatchLatency(endpoint, time.Since(start))
		d.metrics.IncrementDispatches(endpoint, method, outcome)
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		outcome = string(KindEncode)
		return "", &Error{Kind: KindEncode, Endpoint: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, bytes.NewReader(body))
	if err != nil {
		outcome = string(KindTransport)
		return "", &Error{Kind: KindTransport, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := d.httpClient.Do(req)
	if err != nil {
		outcome = string(KindTransport)
		return "", &Error{Kind: KindTransport, Endpoint: endpoint, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil && d.logger != nil {
			d.logger.Warn("failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		outcome = string(KindStatus)
		io.Copy(io.Discard, resp.Body)
		return "", &Error{Kind: KindStatus, Endpoint: endpoint, Status: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = string(KindRead)
		return "", &Error{Kind: KindRead, Endpoint: endpoint, Err: err}
	}

	return string(respBody), nil
}

// Send is the fire-and-forget form of Do: every failure collapses to an
// empty string after being logged, matching the tracking path's contract
// that network trouble is invisible to the caller.
func (d *Dispatcher) Send(ctx context.Context, method, path string, payload any) string {
	body, err := d.Do(ctx, method, path, payload)
	if err != nil {
		d.logger.Debug("dispatch failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	return body
}

// endpointLabel reduces a resource path to its family name for metrics, so
// per-visitor paths like customers/{id} share one label.
func endpointLabel(path string) string {
	if i := strings.IndexByte(path, '/'); i > 0 {
		return path[:i]
	}
	return strings.TrimSuffix(path, "/")
}
