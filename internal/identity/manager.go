// Package identity owns the anonymous visitor identifier: an 8-character
// alphanumeric value generated once per install and persisted for its
// lifetime.
package identity

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/shopsignal/sdk-go/internal/observability"
	"github.com/shopsignal/sdk-go/storage"
)

// StorageKey is the persistence key the visitor identity lives under.
const StorageKey = "enh_visitor_id"

const (
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength = 8
)

// Manager loads or creates the visitor identity and caches it in memory.
// Resolution is idempotent and safe for concurrent use.
type Manager struct {
	store   storage.Store
	logger  *zap.Logger
	metrics observability.MetricsRegistry

	mu sync.Mutex
	id string
}

// NewManager returns a manager backed by the given store.
func NewManager(store storage.Store, logger *zap.Logger, metrics observability.MetricsRegistry) *Manager {
	return &Manager{store: store, logger: logger, metrics: metrics}
}

// Resolve returns the visitor identity, loading or creating it on first
// call. A storage read failure falls back to a fresh in-memory identity for
// this session; the error is logged, never propagated.
func (m *Manager) Resolve(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.id != "" {
		return m.id
	}

	val, err := m.store.Get(ctx, StorageKey)
	switch {
	case err == nil && val != "":
		m.id = val
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		m.id = generate()
		m.metrics.IncrementIdentityFallbacks()
		m.logger.Warn("identity read failed, using in-memory identity", zap.Error(err))
	default:
		m.id = generate()
		if err := m.store.Set(ctx, StorageKey, m.id); err != nil {
			// Keep the generated value for this session anyway.
			m.logger.Warn("identity persist failed", zap.Error(err))
		}
	}

	return m.id
}

// Ensure returns the cached identity, resolving it first if this is the
// earliest use. Tracking methods call this before building any payload.
func (m *Manager) Ensure(ctx context.Context) string {
	m.mu.Lock()
	cached := m.id
	m.mu.Unlock()
	if cached != "" {
		return cached
	}
	return m.Resolve(ctx)
}

// generate draws an 8-character identity uniformly over the 62-symbol
// alphanumeric alphabet.
func generate() string {
	b := make([]byte, idLength)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}
