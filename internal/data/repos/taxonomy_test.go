package repos_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/stagekit/stageplot-backend/internal/data/repos"
	"github.com/stagekit/stageplot-backend/internal/data/repos/testutil"
	types "github.com/stagekit/stageplot-backend/internal/domain"
)

func TestTaxonomyListCategoriesPreloadsSections(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewTaxonomyRepo(gdb, log)
	ctx := context.Background()

	cat, _ := testutil.SeedTaxonomy(t, gdb, "Backline", "Amps")
	if err := gdb.Create(&types.Section{ID: uuid.New(), CategoryID: cat.ID, Name: "Cabs"}).Error; err != nil {
		t.Fatalf("seed second section: %v", err)
	}
	testutil.SeedTaxonomy(t, gdb, "Drums", "Kits")

	categories, err := repo.ListCategories(ctx, nil)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("category count: want=2 got=%d", len(categories))
	}
	if categories[0].Name != "Backline" {
		t.Fatalf("expected name ordering, got first=%s", categories[0].Name)
	}
	if len(categories[0].Sections) != 2 {
		t.Fatalf("section count: want=2 got=%d", len(categories[0].Sections))
	}
}

func TestTaxonomyGetCategoriesByNames(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewTaxonomyRepo(gdb, log)
	ctx := context.Background()

	testutil.SeedTaxonomy(t, gdb, "Backline", "Amps")

	found, err := repo.GetCategoriesByNames(ctx, nil, []string{"Backline", "Missing"})
	if err != nil {
		t.Fatalf("get by names: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("category count: want=1 got=%d", len(found))
	}
	if found[0].Name != "Backline" {
		t.Fatalf("category name: want=Backline got=%s", found[0].Name)
	}
}

func TestTaxonomyGetSectionsByCategoryIDs(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewTaxonomyRepo(gdb, log)
	ctx := context.Background()

	cat, sec := testutil.SeedTaxonomy(t, gdb, "Backline", "Amps")

	sections, err := repo.GetSectionsByCategoryIDs(ctx, nil, []uuid.UUID{cat.ID})
	if err != nil {
		t.Fatalf("get sections: %v", err)
	}
	if len(sections) != 1 || sections[0].ID != sec.ID {
		t.Fatalf("unexpected sections: %+v", sections)
	}
}
