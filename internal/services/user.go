package services

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stagekit/stageplot-backend/internal/blobstore"
	"github.com/stagekit/stageplot-backend/internal/data/repos"
	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	// OpenAvatar streams the current user's avatar PNG.
	OpenAvatar(ctx context.Context) (io.ReadCloser, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	store    blobstore.BlobStore
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, store blobstore.BlobStore) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
		store:    store,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user not found")
	}
	return users[0], nil
}

func (us *userService) OpenAvatar(ctx context.Context) (io.ReadCloser, error) {
	me, err := us.GetMe(ctx)
	if err != nil {
		return nil, err
	}
	if me.AvatarBucketKey == "" {
		return nil, blobstore.ErrNotFound
	}
	return us.store.Open(ctx, me.AvatarBucketKey)
}
