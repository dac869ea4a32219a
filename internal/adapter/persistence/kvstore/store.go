// Package kvstore provides the byte-oriented key-value backends behind the
// persistence gateway: memory, DynamoDB, Redis and SQL through gorm.
package kvstore

import (
	"context"
	"errors"
)

var (
	ErrEmptyKey = errors.New("empty key")
	// ErrValueTooLarge is returned by backends that cap the size of a value.
	ErrValueTooLarge = errors.New("value too large")
)

// Store is a minimal key-value store. Get reports false when the key is absent.
// Deleting a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

func checkKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
