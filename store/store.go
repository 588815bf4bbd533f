package store

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the storage backend is unreachable. Callers treat
// reads that fail this way as absent and surface writes as a boolean failure.
var ErrUnavailable = errors.New("storage unavailable")

// KV is the persisted key/value store the engine operates on. Implementations
// must give whole-value overwrite semantics per key.
type KV interface {
	// Get returns the value under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the value under key.
	Set(ctx context.Context, key, value string) error
	// Del removes the given keys. Missing keys are not an error.
	Del(ctx context.Context, keys ...string) error
}
