package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

// GCSStore keeps asset blobs in a single GCS bucket. Selected with
// STORAGE_PROVIDER=gcs; ASSET_GCS_BUCKET_NAME names the bucket and
// STORAGE_EMULATOR_HOST switches the client to a local emulator.
type GCSStore struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, baseLog *logger.Logger) (*GCSStore, error) {
	bucket := strings.TrimSpace(os.Getenv("ASSET_GCS_BUCKET_NAME"))
	if bucket == "" {
		return nil, fmt.Errorf("missing env var ASSET_GCS_BUCKET_NAME")
	}
	var opts []option.ClientOption
	if emulator := strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")); emulator != "" {
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{
		log:    baseLog.With("component", "GCSBlobStore"),
		client: client,
		bucket: bucket,
	}, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return 0, fmt.Errorf("write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("close writer for %q: %w", key, err)
	}
	return n, nil
}

// Keep the read context alive for the life of the reader; cancel on Close.
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (s *GCSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Minute)
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx2)
	if err != nil {
		cancel()
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open object %q: %w", key, err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}
