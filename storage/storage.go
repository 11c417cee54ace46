// Package storage defines the key-value persistence collaborator used for
// the visitor identity and the score cache. Host applications may plug in
// any durable store; MemoryStore and RedisStore are provided.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is persisted under the key.
var ErrNotFound = errors.New("storage: key not found")

// Store is the durable key-value collaborator. Implementations must treat
// an absent key as ErrNotFound, not as an empty value.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
