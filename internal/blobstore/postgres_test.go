package blobstore_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stagekit/stageplot-backend/internal/blobstore"
	"github.com/stagekit/stageplot-backend/internal/data/repos/testutil"
)

func TestPostgresStoreRoundTrip(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	store := blobstore.NewPostgresStore(gdb, log)
	ctx := context.Background()

	// Larger than one chunk so the write spans multiple rows.
	payload := bytes.Repeat([]byte{0xAB, 0xCD, 0xEF}, 120*1024)

	n, err := store.Put(ctx, "assets/test.bin", "application/octet-stream", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("written bytes: want=%d got=%d", len(payload), n)
	}

	rc, err := store.Open(ctx, "assets/test.bin")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: want=%d bytes got=%d bytes", len(payload), len(got))
	}
}

func TestPostgresStorePutReplacesExisting(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	store := blobstore.NewPostgresStore(gdb, log)
	ctx := context.Background()

	big := bytes.Repeat([]byte{0x01}, 300*1024)
	if _, err := store.Put(ctx, "assets/replace.bin", "application/octet-stream", bytes.NewReader(big)); err != nil {
		t.Fatalf("first put: %v", err)
	}
	small := []byte("tiny")
	if _, err := store.Put(ctx, "assets/replace.bin", "application/octet-stream", bytes.NewReader(small)); err != nil {
		t.Fatalf("second put: %v", err)
	}

	rc, err := store.Open(ctx, "assets/replace.bin")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, small) {
		t.Fatalf("stale chunks survived the rewrite: got %d bytes", len(got))
	}
}

func TestPostgresStoreOpenMissingKey(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	store := blobstore.NewPostgresStore(gdb, log)

	_, err := store.Open(context.Background(), "assets/nope.bin")
	if !errors.Is(err, blobstore.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPostgresStoreDeleteMissingKeyIsNoError(t *testing.T) {
	gdb := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	store := blobstore.NewPostgresStore(gdb, log)
	ctx := context.Background()

	if err := store.Delete(ctx, "assets/nope.bin"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}

	if _, err := store.Put(ctx, "assets/gone.bin", "application/octet-stream", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "assets/gone.bin"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, "assets/gone.bin"); !errors.Is(err, blobstore.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}
