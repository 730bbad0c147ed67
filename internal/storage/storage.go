// Package storage abstracts the persistent key-value medium that both the
// session manager and the record store write through. Implementations hold
// one opaque blob per key; partial updates are never issued, callers always
// replace the whole value.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound keeps storage-specific not found errors consistent across
// implementations.
var ErrNotFound = errors.New("storage: key not found")

type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
