package persistence

import (
	"context"
	"strings"
)

// SessionSlot stores small opaque values under fixed keys. It backs the
// current-session record of the application store.
//
// Implementations must be safe for concurrent use. Get and Delete report
// ErrNotFound for absent keys; Put overwrites any previous value.
type SessionSlot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects blank keys.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
