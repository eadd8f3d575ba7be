package repos_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/stagekit/stageplot-backend/internal/data/repos"
	"github.com/stagekit/stageplot-backend/internal/data/repos/testutil"
	types "github.com/stagekit/stageplot-backend/internal/domain"
)

func TestFeedbackListAllHonorsLimit(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewFeedbackRepo(gdb, log)
	user := testutil.SeedUser(t, gdb)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, nil, []*types.Feedback{{
			ID:      uuid.New(),
			UserID:  user.ID,
			Message: "the grid snapping feels off",
			Page:    "/editor",
		}})
		if err != nil {
			t.Fatalf("create feedback: %v", err)
		}
	}

	entries, err := repo.ListAll(ctx, nil, 2)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entry count: want=2 got=%d", len(entries))
	}
}

func TestFeedbackListByUserIDs(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewFeedbackRepo(gdb, log)
	alice := testutil.SeedUser(t, gdb)
	bob := testutil.SeedUser(t, gdb)
	ctx := context.Background()

	if _, err := repo.Create(ctx, nil, []*types.Feedback{
		{ID: uuid.New(), UserID: alice.ID, Message: "love the export"},
		{ID: uuid.New(), UserID: bob.ID, Message: "pdf came out blank"},
	}); err != nil {
		t.Fatalf("create feedback: %v", err)
	}

	entries, err := repo.ListByUserIDs(ctx, nil, []uuid.UUID{bob.ID})
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(entries) != 1 || entries[0].Message != "pdf came out blank" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
