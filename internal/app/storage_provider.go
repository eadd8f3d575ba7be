package app

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/stagekit/stageplot-backend/internal/blobstore"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidProvider StorageProviderBootstrapErrorCode = "invalid_provider"
	StorageProviderBootstrapErrorConnectFailed   StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code     StorageProviderBootstrapErrorCode
	Provider string
	Cause    error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "blob storage bootstrap failed"
	}
	return fmt.Sprintf(
		"blob storage bootstrap failed (code=%s provider=%q): %v",
		e.Code,
		e.Provider,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveBlobStore picks the blob backend from STORAGE_PROVIDER. The
// default keeps asset bytes in chunked Postgres rows; "gcs" switches to
// a Cloud Storage bucket.
func resolveBlobStore(db *gorm.DB, log *logger.Logger, cfg Config) (blobstore.BlobStore, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.StorageProvider))
	if provider == "" {
		provider = "postgres"
	}

	log.Info("Selecting blob storage provider", "provider", provider)

	switch provider {
	case "postgres":
		return blobstore.NewPostgresStore(db, log), nil
	case "gcs":
		store, err := blobstore.NewGCSStore(context.Background(), log)
		if err != nil {
			bootErr := &StorageProviderBootstrapError{
				Code:     StorageProviderBootstrapErrorConnectFailed,
				Provider: provider,
				Cause:    err,
			}
			log.Error("Blob storage bootstrap failed",
				"provider", provider,
				"error_code", bootErr.Code,
				"error", bootErr,
			)
			return nil, bootErr
		}
		return store, nil
	default:
		bootErr := &StorageProviderBootstrapError{
			Code:     StorageProviderBootstrapErrorInvalidProvider,
			Provider: provider,
			Cause:    fmt.Errorf("unsupported blob storage provider %q", provider),
		}
		log.Error("Blob storage provider selection failed",
			"provider", provider,
			"error_code", bootErr.Code,
			"error", bootErr,
		)
		return nil, bootErr
	}
}
