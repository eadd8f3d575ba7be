package app

import (
	httpMW "github.com/stagekit/stageplot-backend/internal/http/middleware"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, serviceset.Auth, cfg.AdminKeyHash),
	}
}
