package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultCollectorURL is the production collector; override with COLLECTOR_URL
// for staging or a local stub.
const DefaultCollectorURL = "https://collect.shopsignal.io/api/"

// DefaultScoreTTL is the freshness window of a cached score response.
// Score computation is rate-limited per visitor server-side; three days
// amortizes the cost without letting memberships go stale indefinitely.
const DefaultScoreTTL = 72 * time.Hour

// Config holds client configuration derived from environment variables.
type Config struct {
	CollectorURL      string
	ScoreTTL          time.Duration
	HTTPTimeout       time.Duration
	ServiceName       string
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load parses environment variables and returns a Config populated with
// defaults when variables are absent.
func Load() Config {
	cfg := Config{}

	cfg.CollectorURL = getenv("COLLECTOR_URL", DefaultCollectorURL)
	cfg.ScoreTTL = envDuration("SCORE_CACHE_TTL", DefaultScoreTTL)
	cfg.HTTPTimeout = envDuration("HTTP_TIMEOUT", 10*time.Second)
	cfg.ServiceName = getenv("SERVICE_NAME", "shopsignal")
	cfg.TracingEnabled = envBool("TRACING_ENABLED", false)
	cfg.OTLPEndpoint = getenv("OTLP_ENDPOINT", "localhost:4317")
	cfg.TracingSampleRate = envFloat("TRACING_SAMPLE_RATE", 1.0)

	if !strings.HasSuffix(cfg.CollectorURL, "/") {
		cfg.CollectorURL += "/"
	}

	return cfg
}

// getenv returns the value of the environment variable if set, otherwise def.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses an environment variable into a time.Duration.
// The value can be a duration string (e.g. "5s") or a number of seconds.
// If the variable is unset or invalid, def is returned.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// envBool parses a boolean environment variable. Accepted values are those
// supported by strconv.ParseBool. When unset or invalid, def is returned.
func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

// envFloat parses a float64 environment variable. When unset or invalid, def is returned.
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}
