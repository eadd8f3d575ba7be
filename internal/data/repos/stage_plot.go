package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

type StagePlotRepo interface {
	// Upsert writes the plot keyed by ID. Last write wins; there is no
	// version check.
	Upsert(ctx context.Context, tx *gorm.DB, plot *types.StagePlot) error
	GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.StagePlot, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StagePlot, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StagePlot, error)
	DeleteByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (bool, error)
}

type stagePlotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStagePlotRepo(db *gorm.DB, baseLog *logger.Logger) StagePlotRepo {
	return &stagePlotRepo{db: db, log: baseLog.With("repo", "StagePlotRepo")}
}

func (pr *stagePlotRepo) Upsert(ctx context.Context, tx *gorm.DB, plot *types.StagePlot) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "nodes", "inputs", "updated_at"}),
		}).
		Create(plot).Error
}

func (pr *stagePlotRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.StagePlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.StagePlot
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (pr *stagePlotRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StagePlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.StagePlot
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *stagePlotRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StagePlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.StagePlot
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *stagePlotRepo) DeleteByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.StagePlot{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
