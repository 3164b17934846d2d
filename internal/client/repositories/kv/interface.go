package kv

import "context"

// Store is a get/set-by-key persistence backend.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; that is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// SetMany stores all pairs in one transaction: either every value is
	// replaced or none is.
	SetMany(ctx context.Context, values map[string]string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
