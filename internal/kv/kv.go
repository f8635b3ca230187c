// Package kv is the key-value persistence layer every other component reads
// and writes through. Values are opaque strings; the adapter has no
// multi-key transactions.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStorageUnavailable wraps every backend failure so callers can tell a
// rejected write from a successful one.
var ErrStorageUnavailable = errors.New("storage unavailable")

// DefaultTimeout bounds a single operation against a networked backend.
const DefaultTimeout = 5 * time.Second

// Store is a string-keyed persistent store.
//
// Get reports a missing key with ok == false and a nil error.
// Remove of a missing key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

func unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %v", ErrStorageUnavailable, op, key, err)
}
