package app

import (
	internalhttp "github.com/stagekit/stageplot-backend/internal/http"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, handlerset Handlers, middleware Middleware) *internalhttp.Server {
	log.Info("Wiring router...")
	return internalhttp.NewServer(internalhttp.RouterConfig{
		Log:             log,
		AuthHandler:     handlerset.Auth,
		AuthMiddleware:  middleware.Auth,
		UserHandler:     handlerset.User,
		AssetHandler:    handlerset.Asset,
		TaxonomyHandler: handlerset.Taxonomy,
		PlotHandler:     handlerset.Plot,
		ExportHandler:   handlerset.Export,
		FeedbackHandler: handlerset.Feedback,
		HealthHandler:   handlerset.Health,
	})
}
