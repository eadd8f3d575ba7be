package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

type FeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.Feedback) ([]*types.Feedback, error)
	ListByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Feedback, error)
	ListAll(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Feedback, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return &feedbackRepo{db: db, log: baseLog.With("repo", "FeedbackRepo")}
}

func (fr *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.Feedback) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(entries) == 0 {
		return []*types.Feedback{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (fr *feedbackRepo) ListByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Feedback
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *feedbackRepo) ListAll(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	q := transaction.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.Feedback
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
