// Package metadata is the key/value table of the local client database. It is
// the persisted client storage the dashboard keeps its bearer credential in.
package metadata

import (
	"context"
)

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes every listed key in one statement. Missing keys are
	// not an error.
	Delete(ctx context.Context, keys ...string) error
}
