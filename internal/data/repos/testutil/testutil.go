package testutil

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/stagekit/stageplot-backend/internal/data/db"
	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

// OpenTestDB returns a migrated database for repo tests. By default it
// uses an in-memory sqlite database; set TEST_POSTGRES_DSN to run the
// same tests against postgres.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	var (
		gdb *gorm.DB
		err error
	)
	cfg := &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)}
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		gdb, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_fk=1"
		gdb, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// NewTestLogger builds a development logger for tests.
func NewTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new test logger: %v", err)
	}
	return log
}

// SeedUser inserts a user with sensible defaults.
func SeedUser(t *testing.T, gdb *gorm.DB) *types.User {
	t.Helper()
	u := &types.User{
		ID:        uuid.New(),
		GoogleSub: "sub-" + uuid.NewString(),
		Email:     uuid.NewString() + "@example.com",
		FirstName: "Test",
		LastName:  "User",
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedTaxonomy inserts one category with one section under it.
func SeedTaxonomy(t *testing.T, gdb *gorm.DB, category, section string) (*types.Category, *types.Section) {
	t.Helper()
	c := &types.Category{ID: uuid.New(), Name: category}
	if err := gdb.Create(c).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	s := &types.Section{ID: uuid.New(), CategoryID: c.ID, Name: section}
	if err := gdb.Create(s).Error; err != nil {
		t.Fatalf("seed section: %v", err)
	}
	return c, s
}

// SeedAsset inserts an asset under the given taxonomy pair.
func SeedAsset(t *testing.T, gdb *gorm.DB, categoryID, sectionID uuid.UUID, name string) *types.Asset {
	t.Helper()
	a := &types.Asset{
		ID:          uuid.New(),
		Name:        name,
		CategoryID:  categoryID,
		SectionID:   sectionID,
		StorageKey:  "assets/" + uuid.NewString() + ".png",
		ContentType: "image/png",
		Width:       64,
		Height:      64,
		SizeBytes:   128,
	}
	if err := gdb.Create(a).Error; err != nil {
		t.Fatalf("seed asset: %v", err)
	}
	return a
}
