package history

import (
	"context"
	"testing"
	"time"

	"reel/internal/config"
	"reel/internal/session"
)

func testStore(t *testing.T, keep int) *Store {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.History.KeepEntries = keep
	store, err := Open(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := testStore(t, 10)
	ctx := context.Background()

	err := store.Record(ctx, Entry{
		Key:      "https://example.com/v",
		Kind:     "download",
		Platform: "youtube",
		Quality:  "high",
		State:    session.StateCompleted,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = store.Record(ctx, Entry{
		Key:    "convert:/tmp/in.mkv",
		Kind:   "convert",
		Format: "mp4",
		State:  session.StateFailed,
		Detail: "transcode failed",
	})
	if err != nil {
		t.Fatal(err)
	}

	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	// Newest first.
	if entries[0].Kind != "convert" || entries[1].Kind != "download" {
		t.Fatalf("order: %q then %q", entries[0].Kind, entries[1].Kind)
	}
	if entries[1].Platform != "youtube" || entries[1].State != session.StateCompleted {
		t.Fatalf("entry fields lost: %+v", entries[1])
	}
	if entries[0].Detail != "transcode failed" {
		t.Fatalf("detail lost: %+v", entries[0])
	}
	if entries[0].FinishedAt.IsZero() {
		t.Fatal("finished timestamp not defaulted")
	}
}

func TestRecordRejectsEmptyKey(t *testing.T) {
	store := testStore(t, 10)
	if err := store.Record(context.Background(), Entry{Kind: "download"}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestPruneKeepsNewestEntries(t *testing.T) {
	store := testStore(t, 3)
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		err := store.Record(ctx, Entry{
			Key:       "k",
			Kind:      "download",
			State:     session.StateCompleted,
			StartedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	entries, err := store.List(ctx, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("retention kept %d entries, want 3", len(entries))
	}
	if entries[0].ID <= entries[1].ID {
		t.Fatal("entries not newest first")
	}
}

func TestListLimit(t *testing.T) {
	store := testStore(t, 10)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, Entry{Key: "k", Kind: "download", State: session.StateCompleted}); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := store.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("limit ignored: %d entries", len(entries))
	}
}
