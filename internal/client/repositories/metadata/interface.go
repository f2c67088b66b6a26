// Package metadata persists small client-side key/value records, such as the
// session token, in the local SQLite database.
package metadata

import (
	"context"
)

// Repository is a durable key/value store.
//
// Get returns (nil, nil) when the key is absent. Delete of an absent key is
// not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
