package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

type TaxonomyRepo interface {
	CreateCategories(ctx context.Context, tx *gorm.DB, categories []*types.Category) ([]*types.Category, error)
	GetCategoriesByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Category, error)
	CreateSections(ctx context.Context, tx *gorm.DB, sections []*types.Section) ([]*types.Section, error)
	GetSectionsByCategoryIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uuid.UUID) ([]*types.Section, error)
	ListCategories(ctx context.Context, tx *gorm.DB) ([]*types.Category, error)
}

type taxonomyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaxonomyRepo(db *gorm.DB, baseLog *logger.Logger) TaxonomyRepo {
	return &taxonomyRepo{db: db, log: baseLog.With("repo", "TaxonomyRepo")}
}

func (r *taxonomyRepo) CreateCategories(ctx context.Context, tx *gorm.DB, categories []*types.Category) ([]*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(categories) == 0 {
		return []*types.Category{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *taxonomyRepo) GetCategoriesByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Category
	if len(names) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("name IN ?", names).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *taxonomyRepo) CreateSections(ctx context.Context, tx *gorm.DB, sections []*types.Section) ([]*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(sections) == 0 {
		return []*types.Section{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *taxonomyRepo) GetSectionsByCategoryIDs(ctx context.Context, tx *gorm.DB, categoryIDs []uuid.UUID) ([]*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Section
	if len(categoryIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("category_id IN ?", categoryIDs).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *taxonomyRepo) ListCategories(ctx context.Context, tx *gorm.DB) ([]*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Category
	if err := transaction.WithContext(ctx).
		Preload("Sections").
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
