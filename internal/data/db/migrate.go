package db

import (
	"gorm.io/gorm"

	types "github.com/stagekit/stageplot-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity + sessions
		&types.User{},
		&types.UserToken{},

		// Asset library + taxonomy
		&types.Category{},
		&types.Section{},
		&types.Asset{},
		&types.BlobChunk{},

		// Plots + feedback
		&types.StagePlot{},
		&types.Feedback{},
	)
}
