package storage

import (
	"context"
	"io"
	"time"
)

// FileStorage abstracts the object store holding body-progress photos.
type FileStorage interface {
	// Upload stores the object and returns the key it was stored under.
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error)
	// PresignedGetURL returns a time-limited download URL for the object.
	PresignedGetURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, objectKey string) error
}
