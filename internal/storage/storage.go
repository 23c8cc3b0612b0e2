// Package storage holds note media blobs in object storage.
package storage

import (
	"context"
	"io"
	"time"
)

// Blob is the object storage the media service writes through.
type Blob interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error
	// PresignGet returns a time-limited URL for reading key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
