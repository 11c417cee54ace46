// Command collector_stub is a local development collector. It accepts the
// four event resources, logs what it receives, and answers score requests
// with a configurable audience/campaign payload, so the SDK's full loop
// (dispatch, score refresh, fan-out) can be exercised without the real
// backend.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shopsignal/sdk-go/internal/observability"
)

var (
	addr      string
	scoreFile string
)

// defaultScore is returned when no -score file is given: one audience and
// one campaign per platform, enough to see fan-out working.
const defaultScore = `{
  "audiences": [
    {"name": "Stub Audience", "eventId": "stub-aud-1", "adPlatform": "Facebook"},
    {"name": "Stub Audience", "eventId": "stub-aud-1", "adPlatform": "Google"}
  ],
  "campaigns": [
    {"name": "Stub Campaign", "eventId": "stub-cmp-1", "adPlatform": "Facebook",
     "bundles": [{"name": "discount", "value": "10"}]}
  ]
}`

var eventsSeen uint64

func main() {
	flag.StringVar(&addr, "addr", ":4000", "listen address")
	flag.StringVar(&scoreFile, "score", "", "file with the score response to serve (defaults to a built-in payload)")
	flag.Parse()

	logger, err := observability.InitLoggerWithService("collector-stub")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	score := defaultScore
	if scoreFile != "" {
		raw, err := os.ReadFile(scoreFile)
		if err != nil {
			logger.Fatal("read score file", zap.Error(err))
		}
		score = string(raw)
	}

	r := mux.NewRouter()
	for _, resource := range []string{"listings", "products", "purchases", "customers"} {
		r.HandleFunc("/api/"+resource+"/", eventHandler(logger, resource)).Methods(http.MethodPost)
	}
	r.HandleFunc("/api/customers/{visitorID}", scoreHandler(logger, score)).Methods(http.MethodPut)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("collector stub listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}

// eventHandler logs one incoming action event and acknowledges it.
func eventHandler(logger *zap.Logger, resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}

		var ev map[string]any
		if err := json.Unmarshal(raw, &ev); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		n := atomic.AddUint64(&eventsSeen, 1)
		logger.Info("event received",
			zap.String("resource", resource),
			zap.Any("actionType", ev["actionType"]),
			zap.Any("visitorID", ev["visitorID"]),
			zap.Uint64("total", n))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}
}

// scoreHandler serves the configured score payload for any visitor.
func scoreHandler(logger *zap.Logger, score string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visitorID := mux.Vars(r)["visitorID"]
		logger.Info("score requested", zap.String("visitorID", visitorID))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(score))
	}
}
