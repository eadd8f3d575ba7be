package http

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/stagekit/stageplot-backend/internal/http/handlers"
	httpMW "github.com/stagekit/stageplot-backend/internal/http/middleware"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	UserHandler     *httpH.UserHandler
	AssetHandler    *httpH.AssetHandler
	TaxonomyHandler *httpH.TaxonomyHandler
	PlotHandler     *httpH.PlotHandler
	ExportHandler   *httpH.ExportHandler
	FeedbackHandler *httpH.FeedbackHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS())
	if strings.EqualFold(os.Getenv("OTEL_ENABLED"), "true") {
		r.Use(otelgin.Middleware("stageplot-backend"))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/google", cfg.AuthHandler.SignInWithGoogle)
			api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.GET("/me/avatar", cfg.UserHandler.GetAvatar)
		}

		// Asset library
		if cfg.AssetHandler != nil {
			protected.GET("/assets", cfg.AssetHandler.ListAssets)
			protected.GET("/assets/:id/file", cfg.AssetHandler.GetAssetFile)
		}

		// Taxonomy
		if cfg.TaxonomyHandler != nil {
			protected.GET("/taxonomy", cfg.TaxonomyHandler.ListTaxonomy)
		}

		// Stage plots
		if cfg.PlotHandler != nil {
			protected.GET("/plots", cfg.PlotHandler.ListPlots)
			protected.GET("/plots/:id", cfg.PlotHandler.GetPlot)
			protected.PUT("/plots/:id", cfg.PlotHandler.SavePlot)
			protected.DELETE("/plots/:id", cfg.PlotHandler.DeletePlot)
			protected.POST("/plots/:id/ops", cfg.PlotHandler.ApplyOps)
		}

		// Exports
		if cfg.ExportHandler != nil {
			protected.GET("/plots/:id/export/csv", cfg.ExportHandler.ExportCSV)
			protected.GET("/plots/:id/export/xlsx", cfg.ExportHandler.ExportXLSX)
			protected.GET("/plots/:id/export/pdf", cfg.ExportHandler.ExportPDF)
		}

		// Feedback
		if cfg.FeedbackHandler != nil {
			protected.POST("/feedback", cfg.FeedbackHandler.Submit)
		}
	}

	admin := protected.Group("/admin")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAdmin())
		}
		if cfg.AssetHandler != nil {
			admin.POST("/assets", cfg.AssetHandler.UploadAsset)
			admin.PATCH("/assets/:id", cfg.AssetHandler.PatchAsset)
			admin.DELETE("/assets/:id", cfg.AssetHandler.DeleteAsset)
		}
		if cfg.FeedbackHandler != nil {
			admin.GET("/feedback", cfg.FeedbackHandler.ListRecent)
		}
	}

	return r
}
