// Package score wraps the collector's score endpoint with a TTL cache.
// Score computation is expensive and rate-limited per visitor server-side,
// so a fetched response is reused for the whole freshness window and a
// failed refresh degrades to "no new memberships" instead of a retry.
package score

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopsignal/sdk-go/device"
	"github.com/shopsignal/sdk-go/internal/dispatch"
	"github.com/shopsignal/sdk-go/internal/models"
	"github.com/shopsignal/sdk-go/internal/observability"
	"github.com/shopsignal/sdk-go/storage"
)

// Persistence keys for the cache entry. The timestamp is stored as unix
// milliseconds so the entry survives restarts with its age intact.
const (
	TimeKey     = "enh_last_score_time"
	ResponseKey = "enh_last_score_response"
)

// Cache is the score endpoint client. One instance serves one visitor.
type Cache struct {
	store      storage.Store
	dispatcher *dispatch.Dispatcher
	ttl        time.Duration
	dev        device.Info
	logger     *zap.Logger
	metrics    observability.MetricsRegistry

	// now is swapped in tests to step through the freshness window.
	now func() time.Time

	mu       sync.Mutex
	loaded   bool
	response string
	fetched  time.Time
}

// NewCache creates a score cache over the given store and dispatcher.
func NewCache(store storage.Store, d *dispatch.Dispatcher, ttl time.Duration, dev device.Info, logger *zap.Logger, metrics observability.MetricsRegistry) *Cache {
	return &Cache{
		store:      store,
		dispatcher: d,
		ttl:        ttl,
		dev:        dev,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Get returns the current score response for the visitor. While the cached
// entry is fresh it is returned with no network access and refreshed=false.
// Once stale or absent, one PUT is issued: a non-empty response replaces
// the cache entry and is returned with refreshed=true; a failure leaves
// the prior entry untouched and yields an empty result for this cycle.
func (c *Cache) Get(ctx context.Context, visitorID, userID string) (raw string, refreshed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.load(ctx)

	if c.response != "" && c.now().Sub(c.fetched) < c.ttl {
		c.metrics.IncrementScoreCache(observability.ScoreCacheHit)
		return c.response, false
	}
	c.metrics.IncrementScoreCache(observability.ScoreCacheMiss)

	req := models.ScoreRequest{
		Type:            models.EventType,
		VisitorID:       visitorID,
		UserID:          userID,
		ID:              visitorID,
		DeviceOsVersion: c.dev.OSVersion,
		DeviceType:      c.dev.CoarseType(),
	}

	resp := c.dispatcher.Send(ctx, http.MethodPut, dispatch.PathCustomers+visitorID, req)
	if resp == "" {
		// Stale or absent cache stays as it was; no retry this cycle.
		c.metrics.IncrementScoreCache(observability.ScoreCacheRefreshFailed)
		return "", false
	}

	c.response = resp
	c.fetched = c.now()
	c.persist(ctx)
	c.metrics.IncrementScoreCache(observability.ScoreCacheRefreshOK)
	return resp, true
}

// load pulls the persisted entry into memory once per process.
func (c *Cache) load(ctx context.Context) {
	if c.loaded {
		return
	}
	c.loaded = true

	resp, err := c.store.Get(ctx, ResponseKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Warn("score cache read failed", zap.Error(err))
		}
		return
	}
	rawTime, err := c.store.Get(ctx, TimeKey)
	if err != nil {
		return
	}
	ms, err := strconv.ParseInt(rawTime, 10, 64)
	if err != nil {
		c.logger.Warn("score cache timestamp malformed", zap.String("value", rawTime))
		return
	}

	c.response = resp
	c.fetched = time.UnixMilli(ms)
}

// persist writes the current entry through to storage. Write failures keep
// the in-memory entry; the next restart simply refetches.
func (c *Cache) persist(ctx context.Context) {
	if err := c.store.Set(ctx, ResponseKey, c.response); err != nil {
		c.logger.Warn("score cache persist failed", zap.Error(err))
		return
	}
	ts := strconv.FormatInt(c.fetched.UnixMilli(), 10)
	if err := c.store.Set(ctx, TimeKey, ts); err != nil {
		c.logger.Warn("score cache persist failed", zap.Error(err))
	}
}
