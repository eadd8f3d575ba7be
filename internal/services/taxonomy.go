package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/stagekit/stageplot-backend/internal/data/repos"
	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

// TaxonomyService maintains the two-level category/section tree assets
// hang off of.
type TaxonomyService interface {
	// EnsurePath resolves or creates the category and, when sectionName
	// is non-empty, the section under it. Safe under concurrent creates.
	EnsurePath(ctx context.Context, tx *gorm.DB, categoryName, sectionName string) (*types.Category, *types.Section, error)
	ListTaxonomy(ctx context.Context) ([]*types.Category, error)
}

type taxonomyService struct {
	db           *gorm.DB
	log          *logger.Logger
	taxonomyRepo repos.TaxonomyRepo
}

func NewTaxonomyService(db *gorm.DB, log *logger.Logger, taxonomyRepo repos.TaxonomyRepo) TaxonomyService {
	return &taxonomyService{
		db:           db,
		log:          log.With("service", "TaxonomyService"),
		taxonomyRepo: taxonomyRepo,
	}
}

func (ts *taxonomyService) EnsurePath(ctx context.Context, tx *gorm.DB, categoryName, sectionName string) (*types.Category, *types.Section, error) {
	categoryName = strings.TrimSpace(categoryName)
	if categoryName == "" {
		return nil, nil, fmt.Errorf("category name is required")
	}

	category, err := ts.ensureCategory(ctx, tx, categoryName)
	if err != nil {
		return nil, nil, err
	}

	sectionName = strings.TrimSpace(sectionName)
	if sectionName == "" {
		return category, nil, nil
	}
	section, err := ts.ensureSection(ctx, tx, category.ID, sectionName)
	if err != nil {
		return nil, nil, err
	}
	return category, section, nil
}

func (ts *taxonomyService) ensureCategory(ctx context.Context, tx *gorm.DB, name string) (*types.Category, error) {
	found, err := ts.taxonomyRepo.GetCategoriesByNames(ctx, tx, []string{name})
	if err != nil {
		return nil, fmt.Errorf("lookup category: %w", err)
	}
	if len(found) > 0 {
		return found[0], nil
	}

	created, err := ts.taxonomyRepo.CreateCategories(ctx, tx, []*types.Category{{ID: uuid.New(), Name: name}})
	if err == nil {
		return created[0], nil
	}
	// A concurrent request may have won the unique-name race; re-read.
	if isUniqueViolation(err) {
		found, rerr := ts.taxonomyRepo.GetCategoriesByNames(ctx, tx, []string{name})
		if rerr == nil && len(found) > 0 {
			return found[0], nil
		}
	}
	return nil, fmt.Errorf("create category: %w", err)
}

func (ts *taxonomyService) ensureSection(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, name string) (*types.Section, error) {
	sections, err := ts.taxonomyRepo.GetSectionsByCategoryIDs(ctx, tx, []uuid.UUID{categoryID})
	if err != nil {
		return nil, fmt.Errorf("lookup sections: %w", err)
	}
	for _, s := range sections {
		if s.Name == name {
			return s, nil
		}
	}

	created, err := ts.taxonomyRepo.CreateSections(ctx, tx, []*types.Section{{ID: uuid.New(), CategoryID: categoryID, Name: name}})
	if err == nil {
		return created[0], nil
	}
	if isUniqueViolation(err) {
		sections, rerr := ts.taxonomyRepo.GetSectionsByCategoryIDs(ctx, tx, []uuid.UUID{categoryID})
		if rerr == nil {
			for _, s := range sections {
				if s.Name == name {
					return s, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("create section: %w", err)
}

func (ts *taxonomyService) ListTaxonomy(ctx context.Context) ([]*types.Category, error) {
	return ts.taxonomyRepo.ListCategories(ctx, nil)
}

// isUniqueViolation matches postgres unique-constraint errors and the
// sqlite equivalent used in tests.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
