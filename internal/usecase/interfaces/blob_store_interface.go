package interfaces

import (
	"context"
	"errors"
)

// ErrBlobTooLarge is returned by PutBlob when the backend cannot hold the payload.
var ErrBlobTooLarge = errors.New("blob too large")

// IBlobStore keeps attachment payloads. Get reports false when the key is absent.
type IBlobStore interface {
	PutBlob(ctx context.Context, key string, data []byte) error
	GetBlob(ctx context.Context, key string) ([]byte, bool, error)
	DeleteBlob(ctx context.Context, key string) error
}
