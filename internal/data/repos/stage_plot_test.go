package repos_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/stagekit/stageplot-backend/internal/data/repos"
	"github.com/stagekit/stageplot-backend/internal/data/repos/testutil"
	types "github.com/stagekit/stageplot-backend/internal/domain"
)

func TestStagePlotUpsertLastWriteWins(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewStagePlotRepo(gdb, log)
	user := testutil.SeedUser(t, gdb)
	ctx := context.Background()

	id := uuid.New()
	first := &types.StagePlot{ID: id, UserID: user.ID, Name: "v1"}
	if err := first.EncodeNodes(nil); err != nil {
		t.Fatalf("encode nodes: %v", err)
	}
	if err := repo.Upsert(ctx, nil, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := &types.StagePlot{ID: id, UserID: user.ID, Name: "v2"}
	if err := second.EncodeNodes([]types.PlotNode{{ID: "n1", Type: "amp", Scale: 1}}); err != nil {
		t.Fatalf("encode nodes: %v", err)
	}
	if err := repo.Upsert(ctx, nil, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.GetByIDForUser(ctx, nil, id, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected plot, got nil")
	}
	if got.Name != "v2" {
		t.Fatalf("name: want=v2 got=%s", got.Name)
	}
	nodes, err := got.DecodeNodes()
	if err != nil {
		t.Fatalf("decode nodes: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != "n1" {
		t.Fatalf("unexpected nodes after upsert: %+v", nodes)
	}
}

func TestStagePlotGetByIDForUserScopesToOwner(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewStagePlotRepo(gdb, log)
	owner := testutil.SeedUser(t, gdb)
	other := testutil.SeedUser(t, gdb)
	ctx := context.Background()

	plot := &types.StagePlot{ID: uuid.New(), UserID: owner.ID, Name: "mine"}
	if err := repo.Upsert(ctx, nil, plot); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetByIDForUser(ctx, nil, plot.ID, other.ID)
	if err != nil {
		t.Fatalf("get as other user: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for non-owner, got %+v", got)
	}
}

func TestStagePlotDeleteByIDForUser(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewStagePlotRepo(gdb, log)
	owner := testutil.SeedUser(t, gdb)
	other := testutil.SeedUser(t, gdb)
	ctx := context.Background()

	plot := &types.StagePlot{ID: uuid.New(), UserID: owner.ID, Name: "mine"}
	if err := repo.Upsert(ctx, nil, plot); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	deleted, err := repo.DeleteByIDForUser(ctx, nil, plot.ID, other.ID)
	if err != nil {
		t.Fatalf("delete as other user: %v", err)
	}
	if deleted {
		t.Fatalf("non-owner delete should affect no rows")
	}

	deleted, err = repo.DeleteByIDForUser(ctx, nil, plot.ID, owner.ID)
	if err != nil {
		t.Fatalf("delete as owner: %v", err)
	}
	if !deleted {
		t.Fatalf("owner delete should remove the plot")
	}

	deleted, err = repo.DeleteByIDForUser(ctx, nil, plot.ID, owner.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if deleted {
		t.Fatalf("second delete should be a no-op")
	}
}

func TestStagePlotListByUserIDOrdersByUpdatedAt(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewStagePlotRepo(gdb, log)
	user := testutil.SeedUser(t, gdb)
	ctx := context.Background()

	older := &types.StagePlot{ID: uuid.New(), UserID: user.ID, Name: "older"}
	newer := &types.StagePlot{ID: uuid.New(), UserID: user.ID, Name: "newer"}
	if err := repo.Upsert(ctx, nil, older); err != nil {
		t.Fatalf("upsert older: %v", err)
	}
	if err := repo.Upsert(ctx, nil, newer); err != nil {
		t.Fatalf("upsert newer: %v", err)
	}
	// Bump the older plot so it becomes the most recently updated.
	older.Name = "older v2"
	if err := repo.Upsert(ctx, nil, older); err != nil {
		t.Fatalf("bump older: %v", err)
	}

	plots, err := repo.ListByUserID(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plots) != 2 {
		t.Fatalf("plot count: want=2 got=%d", len(plots))
	}
}
