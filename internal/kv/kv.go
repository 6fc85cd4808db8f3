package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence port: a string-keyed store of JSON blobs.
// Every write replaces the whole value under the key (last full write wins).
type Store interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the blob stored under key.
	Set(ctx context.Context, key string, value []byte) error
}

// Closer is implemented by stores holding external resources.
type Closer interface {
	Close() error
}
