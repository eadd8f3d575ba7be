package render

import (
	"bytes"
	"context"
	"image"
	"io"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/sync/errgroup"
	_ "golang.org/x/image/webp"

	"github.com/stagekit/stageplot-backend/internal/blobstore"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

const fetchConcurrency = 4

// FetchImages loads asset images from the blob store in parallel, keyed
// by storage key. Keys whose blobs are missing or undecodable are simply
// absent from the result; the composer draws placeholders for them.
func FetchImages(ctx context.Context, store blobstore.BlobStore, log *logger.Logger, keys []string) (map[string]image.Image, error) {
	seen := make(map[string]bool, len(keys))
	unique := keys[:0:0]
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, k)
	}

	var mu sync.Mutex
	images := make(map[string]image.Image, len(unique))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for _, key := range unique {
		key := key
		g.Go(func() error {
			rc, err := store.Open(ctx, key)
			if err != nil {
				log.Warn("Skipping unreadable asset blob", "key", key, "error", err)
				return nil
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				log.Warn("Skipping truncated asset blob", "key", key, "error", err)
				return nil
			}
			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				log.Warn("Skipping undecodable asset blob", "key", key, "error", err)
				return nil
			}
			mu.Lock()
			images[key] = img
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}
