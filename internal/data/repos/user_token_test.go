package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stagekit/stageplot-backend/internal/data/repos"
	"github.com/stagekit/stageplot-backend/internal/data/repos/testutil"
	types "github.com/stagekit/stageplot-backend/internal/domain"
)

func seedToken(t *testing.T, repo repos.UserTokenRepo, userID uuid.UUID, expiresAt time.Time) *types.UserToken {
	t.Helper()
	tok := &types.UserToken{
		ID:           uuid.New(),
		UserID:       userID,
		AccessToken:  "access-" + uuid.NewString(),
		RefreshToken: "refresh-" + uuid.NewString(),
		ExpiresAt:    expiresAt,
	}
	created, err := repo.Create(context.Background(), nil, []*types.UserToken{tok})
	if err != nil {
		t.Fatalf("seed token: %v", err)
	}
	return created[0]
}

func TestUserTokenLookupByAccessAndRefresh(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewUserTokenRepo(gdb, log)
	user := testutil.SeedUser(t, gdb)
	ctx := context.Background()

	tok := seedToken(t, repo, user.ID, time.Now().Add(time.Hour))

	byAccess, err := repo.GetByAccessTokens(ctx, nil, []string{tok.AccessToken})
	if err != nil {
		t.Fatalf("get by access: %v", err)
	}
	if len(byAccess) != 1 || byAccess[0].ID != tok.ID {
		t.Fatalf("unexpected access lookup: %+v", byAccess)
	}

	byRefresh, err := repo.GetByRefreshTokens(ctx, nil, []string{tok.RefreshToken})
	if err != nil {
		t.Fatalf("get by refresh: %v", err)
	}
	if len(byRefresh) != 1 || byRefresh[0].ID != tok.ID {
		t.Fatalf("unexpected refresh lookup: %+v", byRefresh)
	}
}

func TestUserTokenDeleteByIDs(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewUserTokenRepo(gdb, log)
	user := testutil.SeedUser(t, gdb)
	ctx := context.Background()

	tok := seedToken(t, repo, user.ID, time.Now().Add(time.Hour))

	if err := repo.DeleteByIDs(ctx, nil, []uuid.UUID{tok.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	left, err := repo.GetByUserIDs(ctx, nil, []uuid.UUID{user.ID})
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("token should be gone, got %+v", left)
	}
}

func TestUserTokenDeleteExpired(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := repos.NewUserTokenRepo(gdb, log)
	user := testutil.SeedUser(t, gdb)
	ctx := context.Background()

	seedToken(t, repo, user.ID, time.Now().Add(-time.Hour))
	live := seedToken(t, repo, user.ID, time.Now().Add(time.Hour))

	n, err := repo.DeleteExpired(ctx, nil, time.Now())
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted count: want=1 got=%d", n)
	}
	left, err := repo.GetByUserIDs(ctx, nil, []uuid.UUID{user.ID})
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if len(left) != 1 || left[0].ID != live.ID {
		t.Fatalf("expected only the live token, got %+v", left)
	}
}
