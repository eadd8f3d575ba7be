package app

import (
	httpH "github.com/stagekit/stageplot-backend/internal/http/handlers"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

type Handlers struct {
	Auth     *httpH.AuthHandler
	User     *httpH.UserHandler
	Asset    *httpH.AssetHandler
	Taxonomy *httpH.TaxonomyHandler
	Plot     *httpH.PlotHandler
	Export   *httpH.ExportHandler
	Feedback *httpH.FeedbackHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:     httpH.NewAuthHandler(serviceset.Auth),
		User:     httpH.NewUserHandler(serviceset.User),
		Asset:    httpH.NewAssetHandler(serviceset.Asset),
		Taxonomy: httpH.NewTaxonomyHandler(serviceset.Taxonomy),
		Plot:     httpH.NewPlotHandler(serviceset.StagePlot),
		Export:   httpH.NewExportHandler(serviceset.Export),
		Feedback: httpH.NewFeedbackHandler(serviceset.Feedback),
		Health:   httpH.NewHealthHandler(),
	}
}
