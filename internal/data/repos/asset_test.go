package repos_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/stagekit/stageplot-backend/internal/data/repos"
	"github.com/stagekit/stageplot-backend/internal/data/repos/testutil"
)

func TestAssetListFiltersByTaxonomy(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewAssetRepo(gdb, log)
	ctx := context.Background()

	backline, amps := testutil.SeedTaxonomy(t, gdb, "Backline", "Amps")
	drums, kits := testutil.SeedTaxonomy(t, gdb, "Drums", "Kits")

	amp := testutil.SeedAsset(t, gdb, backline.ID, amps.ID, "Guitar Amp")
	testutil.SeedAsset(t, gdb, drums.ID, kits.ID, "Five Piece Kit")

	all, err := repo.List(ctx, nil, repos.AssetListFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("asset count: want=2 got=%d", len(all))
	}
	if all[0].Name != "Five Piece Kit" {
		t.Fatalf("expected name ordering, got first=%s", all[0].Name)
	}

	byCategory, err := repo.List(ctx, nil, repos.AssetListFilter{CategoryID: backline.ID})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].ID != amp.ID {
		t.Fatalf("unexpected category filter result: %+v", byCategory)
	}

	bySection, err := repo.List(ctx, nil, repos.AssetListFilter{SectionID: kits.ID})
	if err != nil {
		t.Fatalf("list by section: %v", err)
	}
	if len(bySection) != 1 || bySection[0].Name != "Five Piece Kit" {
		t.Fatalf("unexpected section filter result: %+v", bySection)
	}
}

func TestAssetHardDeleteRemovesRow(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewAssetRepo(gdb, log)
	ctx := context.Background()

	cat, sec := testutil.SeedTaxonomy(t, gdb, "Backline", "Amps")
	asset := testutil.SeedAsset(t, gdb, cat.ID, sec.ID, "Guitar Amp")

	if err := repo.HardDeleteByIDs(ctx, nil, []uuid.UUID{asset.ID}); err != nil {
		t.Fatalf("hard delete: %v", err)
	}

	found, err := repo.GetByIDs(ctx, nil, []uuid.UUID{asset.ID})
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("asset should be gone, got %+v", found)
	}
}
