package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no blob exists for the requested key.
var ErrNotFound = errors.New("blobstore: blob not found")

// BlobStore persists raw asset bytes keyed by storage key. Implementations
// must be safe for concurrent use.
type BlobStore interface {
	// Put writes the full blob under key, replacing any existing blob.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	// Open returns a reader over the blob. The caller must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
