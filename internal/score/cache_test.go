package score

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopsignal/sdk-go/device"
	"github.com/shopsignal/sdk-go/internal/dispatch"
	"github.com/shopsignal/sdk-go/internal/observability"
	"github.com/shopsignal/sdk-go/storage"
)

const scoreBody = `{"audiences":[{"name":"Hot Leads","eventId":"ev-1","adPlatform":"Facebook"}]}`

func newCache(t *testing.T, baseURL string, store storage.Store, ttl time.Duration) *Cache {
	t.Helper()
	d := dispatch.New(baseURL, nil, zap.NewNop(), observability.NewNoOpRegistry())
	dev := device.Info{Platform: device.Android, OSVersion: "14"}
	return NewCache(store, d, ttl, dev, zap.NewNop(), observability.NewNoOpRegistry())
}

func TestGetFetchesAndPersists(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/customers/v1s1t0r1", r.URL.Path)
		w.Write([]byte(scoreBody))
	}))
	defer server.Close()

	store := storage.NewMemoryStore()
	c := newCache(t, server.URL+"/", store, 72*time.Hour)

	raw, refreshed := c.Get(context.Background(), "v1s1t0r1", "acct-1")
	require.Equal(t, scoreBody, raw)
	require.True(t, refreshed)
	require.EqualValues(t, 1, calls.Load())

	persisted, err := store.Get(context.Background(), ResponseKey)
	require.NoError(t, err)
	assert.Equal(t, scoreBody, persisted)

	rawTime, err := store.Get(context.Background(), TimeKey)
	require.NoError(t, err)
	_, err = strconv.ParseInt(rawTime, 10, 64)
	assert.NoError(t, err, "timestamp must be unix milliseconds")

	// Second call within the window is served from cache.
	raw, refreshed = c.Get(context.Background(), "v1s1t0r1", "acct-1")
	assert.Equal(t, scoreBody, raw)
	assert.False(t, refreshed)
	assert.EqualValues(t, 1, calls.Load())
}

func TestFreshnessWindow(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(scoreBody))
	}))
	defer server.Close()

	store := storage.NewMemoryStore()
	c := newCache(t, server.URL+"/", store, 72*time.Hour)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Get(context.Background(), "v1s1t0r1", "acct-1")
	require.EqualValues(t, 1, calls.Load())

	// Two days in: still fresh, no network.
	c.now = func() time.Time { return base.Add(48 * time.Hour) }
	raw, refreshed := c.Get(context.Background(), "v1s1t0r1", "acct-1")
	assert.Equal(t, scoreBody, raw)
	assert.False(t, refreshed)
	assert.EqualValues(t, 1, calls.Load())

	// Four days in: stale, refetch.
	c.now = func() time.Time { return base.Add(96 * time.Hour) }
	_, refreshed = c.Get(context.Background(), "v1s1t0r1", "acct-1")
	assert.True(t, refreshed)
	assert.EqualValues(t, 2, calls.Load())
}

func TestFailedRefreshLeavesCacheUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	store := storage.NewMemoryStore()
	stale := time.Now().Add(-96 * time.Hour)
	require.NoError(t, store.Set(context.Background(), ResponseKey, scoreBody))
	require.NoError(t, store.Set(context.Background(), TimeKey, strconv.FormatInt(stale.UnixMilli(), 10)))

	c := newCache(t, server.URL+"/", store, 72*time.Hour)

	raw, refreshed := c.Get(context.Background(), "v1s1t0r1", "acct-1")
	assert.Empty(t, raw, "failed refresh must yield an empty result")
	assert.False(t, refreshed)

	// Both persisted values survive the failed cycle unchanged.
	persisted, err := store.Get(context.Background(), ResponseKey)
	require.NoError(t, err)
	assert.Equal(t, scoreBody, persisted)
	rawTime, err := store.Get(context.Background(), TimeKey)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(stale.UnixMilli(), 10), rawTime)
}

func TestPersistedEntrySurvivesRestart(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(scoreBody))
	}))
	defer server.Close()

	store := storage.NewMemoryStore()
	first := newCache(t, server.URL+"/", store, 72*time.Hour)
	first.Get(context.Background(), "v1s1t0r1", "acct-1")
	require.EqualValues(t, 1, calls.Load())

	// A new cache over the same store models a process restart.
	second := newCache(t, server.URL+"/", store, 72*time.Hour)
	raw, refreshed := second.Get(context.Background(), "v1s1t0r1", "acct-1")
	assert.Equal(t, scoreBody, raw)
	assert.False(t, refreshed)
	assert.EqualValues(t, 1, calls.Load())
}

func TestScoreRequestBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type": "ecommerce",
			"visitorID": "v1s1t0r1",
			"userID": "acct-1",
			"id": "v1s1t0r1",
			"deviceOsVersion": "14",
			"deviceType": "a2"
		}`, string(body))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newCache(t, server.URL+"/", storage.NewMemoryStore(), 72*time.Hour)
	c.Get(context.Background(), "v1s1t0r1", "acct-1")
}
