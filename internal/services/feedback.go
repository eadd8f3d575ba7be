package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stagekit/stageplot-backend/internal/data/repos"
	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

const maxFeedbackLength = 4000

// FeedbackService captures free-form user feedback; entries are
// append-only.
type FeedbackService interface {
	Submit(ctx context.Context, message, page string) (*types.Feedback, error)
	ListRecent(ctx context.Context, limit int) ([]*types.Feedback, error)
}

type feedbackService struct {
	db           *gorm.DB
	log          *logger.Logger
	feedbackRepo repos.FeedbackRepo
}

func NewFeedbackService(db *gorm.DB, log *logger.Logger, feedbackRepo repos.FeedbackRepo) FeedbackService {
	return &feedbackService{
		db:           db,
		log:          log.With("service", "FeedbackService"),
		feedbackRepo: feedbackRepo,
	}
}

func (fs *feedbackService) Submit(ctx context.Context, message, page string) (*types.Feedback, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("feedback message is required")
	}
	if len(message) > maxFeedbackLength {
		return nil, fmt.Errorf("feedback message exceeds %d characters", maxFeedbackLength)
	}

	entry := &types.Feedback{
		ID:      uuid.New(),
		UserID:  userID,
		Message: message,
		Page:    strings.TrimSpace(page),
	}
	created, err := fs.feedbackRepo.Create(ctx, nil, []*types.Feedback{entry})
	if err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	fs.log.Info("Feedback submitted", "user_id", userID.String(), "page", entry.Page)
	return created[0], nil
}

func (fs *feedbackService) ListRecent(ctx context.Context, limit int) ([]*types.Feedback, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return fs.feedbackRepo.ListAll(ctx, nil, limit)
}
