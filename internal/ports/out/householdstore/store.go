package householdstore

import (
	"context"
	"errors"
)

// ErrNotFound indicates no value is stored under the requested key.
var ErrNotFound = errors.New("household not found")

// Store is an opaque string-keyed blob store.
//
// Implementations must:
// - return ErrNotFound from Get when the key is absent
// - overwrite existing values on Set (last write wins)
// - treat Delete of an absent key as success
//
// Values are returned as copies; callers may retain or mutate them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
