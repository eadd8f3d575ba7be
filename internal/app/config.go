package app

import (
	"time"

	"github.com/stagekit/stageplot-backend/internal/pkg/env"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	GoogleOIDCClientID string
	AdminKeyHash       string

	StorageProvider string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := env.Get("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := env.GetAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := env.GetAsInt("REFRESH_TOKEN_TTL", 86400, log)
	googleClientID := env.Get("GOOGLE_OIDC_CLIENT_ID", "", log)
	adminKeyHash := env.Get("ADMIN_KEY_HASH", "", log)
	storageProvider := env.Get("STORAGE_PROVIDER", "postgres", log)
	return Config{
		JWTSecretKey:       jwtSecretKey,
		AccessTokenTTL:     time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:    time.Duration(refreshTokenTTLSeconds) * time.Second,
		GoogleOIDCClientID: googleClientID,
		AdminKeyHash:       adminKeyHash,
		StorageProvider:    storageProvider,
	}
}
