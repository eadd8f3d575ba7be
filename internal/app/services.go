package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/stagekit/stageplot-backend/internal/blobstore"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
	"github.com/stagekit/stageplot-backend/internal/platform/redis"
	"github.com/stagekit/stageplot-backend/internal/render"
	"github.com/stagekit/stageplot-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	Avatar    services.AvatarService
	User      services.UserService
	Taxonomy  services.TaxonomyService
	Asset     services.AssetService
	StagePlot services.StagePlotService
	Feedback  services.FeedbackService
	Export    services.ExportService

	BlobStore  blobstore.BlobStore
	TokenCache *redis.TokenCache
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	store, err := resolveBlobStore(db, log, cfg)
	if err != nil {
		return Services{}, err
	}

	tokenCache, err := redis.NewTokenCache(log)
	if err != nil {
		return Services{}, fmt.Errorf("init token cache: %w", err)
	}

	oidc, err := services.NewOIDCVerifier(nil, cfg.GoogleOIDCClientID)
	if err != nil {
		return Services{}, fmt.Errorf("init oidc verifier: %w", err)
	}

	avatarService, err := services.NewAvatarService(log, store)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	authService := services.NewAuthService(
		db,
		log,
		reposet.User,
		reposet.UserToken,
		avatarService,
		oidc,
		tokenCache,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	userService := services.NewUserService(db, log, reposet.User, store)
	taxonomyService := services.NewTaxonomyService(db, log, reposet.Taxonomy)
	assetService := services.NewAssetService(db, log, reposet.Asset, taxonomyService, store)
	plotService := services.NewStagePlotService(db, log, reposet.StagePlot)
	feedbackService := services.NewFeedbackService(db, log, reposet.Feedback)

	theme, err := render.LoadTheme()
	if err != nil {
		return Services{}, fmt.Errorf("load render theme: %w", err)
	}
	composer, err := render.NewComposer(log, theme)
	if err != nil {
		return Services{}, fmt.Errorf("init composer: %w", err)
	}
	exportService := services.NewExportService(db, log, plotService, reposet.Asset, store, composer)

	return Services{
		Auth:       authService,
		Avatar:     avatarService,
		User:       userService,
		Taxonomy:   taxonomyService,
		Asset:      assetService,
		StagePlot:  plotService,
		Feedback:   feedbackService,
		Export:     exportService,
		BlobStore:  store,
		TokenCache: tokenCache,
	}, nil
}
