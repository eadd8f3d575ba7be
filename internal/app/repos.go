package app

import (
	"gorm.io/gorm"

	"github.com/stagekit/stageplot-backend/internal/data/repos"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Taxonomy  repos.TaxonomyRepo
	Asset     repos.AssetRepo
	StagePlot repos.StagePlotRepo
	Feedback  repos.FeedbackRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Taxonomy:  repos.NewTaxonomyRepo(db, log),
		Asset:     repos.NewAssetRepo(db, log),
		StagePlot: repos.NewStagePlotRepo(db, log),
		Feedback:  repos.NewFeedbackRepo(db, log),
	}
}
