package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

// AssetListFilter narrows List; zero values mean "any".
type AssetListFilter struct {
	CategoryID uuid.UUID
	SectionID  uuid.UUID
}

type AssetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assets []*types.Asset) ([]*types.Asset, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Asset, error)
	List(ctx context.Context, tx *gorm.DB, filter AssetListFilter) ([]*types.Asset, error)
	Update(ctx context.Context, tx *gorm.DB, asset *types.Asset) error
	HardDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type assetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetRepo(db *gorm.DB, baseLog *logger.Logger) AssetRepo {
	return &assetRepo{db: db, log: baseLog.With("repo", "AssetRepo")}
}

func (ar *assetRepo) Create(ctx context.Context, tx *gorm.DB, assets []*types.Asset) ([]*types.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(assets) == 0 {
		return []*types.Asset{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (ar *assetRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Asset
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Category").
		Preload("Section").
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assetRepo) List(ctx context.Context, tx *gorm.DB, filter AssetListFilter) ([]*types.Asset, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	q := transaction.WithContext(ctx).
		Preload("Category").
		Preload("Section").
		Order("name ASC")
	if filter.CategoryID != uuid.Nil {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SectionID != uuid.Nil {
		q = q.Where("section_id = ?", filter.SectionID)
	}
	var results []*types.Asset
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *assetRepo) Update(ctx context.Context, tx *gorm.DB, asset *types.Asset) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Save(asset).Error
}

func (ar *assetRepo) HardDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&types.Asset{}).Error
}
