// Package storage defines the durable key-value contract used to persist the
// wishlist, plus the file and in-memory implementations.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written
var ErrNotFound = errors.New("storage: key not found")

// Store is a durable key-value store holding opaque values
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
