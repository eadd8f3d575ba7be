package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stagekit/stageplot-backend/internal/blobstore"
	"github.com/stagekit/stageplot-backend/internal/data/repos"
	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/imaging"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

// AssetUpload is an admin request to add one image to the library.
type AssetUpload struct {
	Name         string
	CategoryName string
	SectionName  string
	ContentType  string
	Data         []byte
}

// AssetPatch renames an asset or moves it in the taxonomy; nil fields
// are left untouched.
type AssetPatch struct {
	Name         *string
	CategoryName *string
	SectionName  *string
}

type AssetService interface {
	List(ctx context.Context, filter repos.AssetListFilter) ([]*types.Asset, error)
	// OpenFile streams an asset's bytes; the caller closes the reader.
	OpenFile(ctx context.Context, id uuid.UUID) (io.ReadCloser, *types.Asset, error)
	Upload(ctx context.Context, upload AssetUpload) (*types.Asset, error)
	Patch(ctx context.Context, id uuid.UUID, patch AssetPatch) (*types.Asset, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type assetService struct {
	db              *gorm.DB
	log             *logger.Logger
	assetRepo       repos.AssetRepo
	taxonomyService TaxonomyService
	store           blobstore.BlobStore
}

func NewAssetService(
	db *gorm.DB,
	log *logger.Logger,
	assetRepo repos.AssetRepo,
	taxonomyService TaxonomyService,
	store blobstore.BlobStore,
) AssetService {
	return &assetService{
		db:              db,
		log:             log.With("service", "AssetService"),
		assetRepo:       assetRepo,
		taxonomyService: taxonomyService,
		store:           store,
	}
}

func (s *assetService) List(ctx context.Context, filter repos.AssetListFilter) ([]*types.Asset, error) {
	return s.assetRepo.List(ctx, nil, filter)
}

func (s *assetService) OpenFile(ctx context.Context, id uuid.UUID) (io.ReadCloser, *types.Asset, error) {
	assets, err := s.assetRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, nil, fmt.Errorf("lookup asset: %w", err)
	}
	if len(assets) == 0 {
		return nil, nil, blobstore.ErrNotFound
	}
	asset := assets[0]
	rc, err := s.store.Open(ctx, asset.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return rc, asset, nil
}

func (s *assetService) Upload(ctx context.Context, upload AssetUpload) (*types.Asset, error) {
	name := strings.TrimSpace(upload.Name)
	if name == "" {
		return nil, fmt.Errorf("asset name is required")
	}

	info, err := imaging.Inspect(upload.Data, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("inspect upload: %w", err)
	}

	var asset *types.Asset
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, section, err := s.taxonomyService.EnsurePath(ctx, tx, upload.CategoryName, upload.SectionName)
		if err != nil {
			return err
		}

		id := uuid.New()
		key := fmt.Sprintf("assets/%s%s", id.String(), extensionFor(info.ContentType))
		if _, err := s.store.Put(ctx, key, info.ContentType, bytes.NewReader(upload.Data)); err != nil {
			return fmt.Errorf("store asset blob: %w", err)
		}

		asset = &types.Asset{
			ID:          id,
			Name:        name,
			CategoryID:  category.ID,
			StorageKey:  key,
			ContentType: info.ContentType,
			HasAlpha:    info.HasAlpha,
			Width:       info.Width,
			Height:      info.Height,
			SizeBytes:   int64(len(upload.Data)),
		}
		if section != nil {
			asset.SectionID = section.ID
		}
		if _, err := s.assetRepo.Create(ctx, tx, []*types.Asset{asset}); err != nil {
			return fmt.Errorf("create asset row: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Asset uploaded", "asset_id", asset.ID.String(), "content_type", asset.ContentType, "bytes", asset.SizeBytes)
	return asset, nil
}

func (s *assetService) Patch(ctx context.Context, id uuid.UUID, patch AssetPatch) (*types.Asset, error) {
	var asset *types.Asset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assets, err := s.assetRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("lookup asset: %w", err)
		}
		if len(assets) == 0 {
			return blobstore.ErrNotFound
		}
		asset = assets[0]

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return fmt.Errorf("asset name cannot be empty")
			}
			asset.Name = name
		}
		if patch.CategoryName != nil {
			sectionName := ""
			if patch.SectionName != nil {
				sectionName = *patch.SectionName
			}
			category, section, err := s.taxonomyService.EnsurePath(ctx, tx, *patch.CategoryName, sectionName)
			if err != nil {
				return err
			}
			asset.CategoryID = category.ID
			asset.Category = nil
			asset.SectionID = uuid.Nil
			asset.Section = nil
			if section != nil {
				asset.SectionID = section.ID
			}
		}
		return s.assetRepo.Update(ctx, tx, asset)
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *assetService) Delete(ctx context.Context, id uuid.UUID) error {
	var storageKey string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		assets, err := s.assetRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("lookup asset: %w", err)
		}
		if len(assets) == 0 {
			return blobstore.ErrNotFound
		}
		storageKey = assets[0].StorageKey
		return s.assetRepo.HardDeleteByIDs(ctx, tx, []uuid.UUID{id})
	})
	if err != nil {
		return err
	}
	// Blob cleanup is best effort; plots referencing the asset render a
	// placeholder from here on.
	if err := s.store.Delete(ctx, storageKey); err != nil {
		s.log.Warn("Failed to delete asset blob", "key", storageKey, "error", err)
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
