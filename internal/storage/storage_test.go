package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rewired-gh/teamwrapped/internal/models"
)

func newTestStorage(t *testing.T, maxSnapshots int) *Storage {
	t.Helper()

	s, err := New(maxSnapshots, ":memory:")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	// Deterministic, strictly increasing ingest times.
	clock := time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func testSnapshot(id string) *models.Snapshot {
	created := time.Date(2024, 11, 30, 8, 0, 0, 0, time.UTC)
	return &models.Snapshot{
		ID:        id,
		CreatedOn: &created,
		People: models.Present([]models.Person{
			{Name: "Ada Lovelace", Photo: "ada.png", New: true},
		}),
		Slack: models.Present(models.SlackActivity{Channels: map[string]models.ChannelActivity{
			"general": {
				MessageCount: 42,
				Emojis: models.EmojiUsage{ByCount: models.NewHistogram(
					models.Bucket{Key: "wave", Count: 3},
					models.Bucket{Key: "bufo-hi", Count: 3},
				)},
			},
		}}),
	}
}

func TestStorage_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, 10)

	if err := s.Save(ctx, testSnapshot("snap-1")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Get(ctx, "snap-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.ID != "snap-1" {
		t.Errorf("Expected ID snap-1, got %s", got.ID)
	}
	if got.CreatedOn == nil || !got.CreatedOn.Equal(time.Date(2024, 11, 30, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected createdOn: %v", got.CreatedOn)
	}
	if _, ok := got.LifeMoments.Get(); ok {
		t.Errorf("Absent section should stay absent after a round trip")
	}

	slack, ok := got.Slack.Get()
	if !ok {
		t.Fatal("Expected slack section")
	}
	keys := slack.Channels["general"].Emojis.ByCount.Keys()
	if len(keys) != 2 || keys[0] != "wave" || keys[1] != "bufo-hi" {
		t.Errorf("Histogram order not preserved: %v", keys)
	}
}

func TestStorage_SaveAssignsID(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, 10)

	snap := testSnapshot("")
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if snap.ID == "" {
		t.Fatal("Expected an id to be assigned")
	}
	if _, err := s.Get(ctx, snap.ID); err != nil {
		t.Errorf("Get(%s) failed: %v", snap.ID, err)
	}
}

func TestStorage_SaveRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, 10)

	snap := testSnapshot("bad")
	snap.People = models.Present([]models.Person{{Name: " "}})

	if err := s.Save(ctx, snap); err == nil {
		t.Error("Expected error for invalid snapshot")
	}
	if _, err := s.Get(ctx, "bad"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Invalid snapshot should not be stored, got %v", err)
	}
}

func TestStorage_GetNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, 10)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, expected ErrNotFound", err)
	}
	if _, err := s.Latest(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() error = %v, expected ErrNotFound", err)
	}
}

func TestStorage_Latest(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, 10)

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, testSnapshot(id)); err != nil {
			t.Fatalf("Save(%s) failed: %v", id, err)
		}
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.ID != "c" {
		t.Errorf("Latest() = %s, expected c", latest.ID)
	}

	// Re-ingesting an older snapshot makes it the newest.
	if err := s.Save(ctx, testSnapshot("a")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	latest, err = s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.ID != "a" {
		t.Errorf("Latest() = %s, expected a", latest.ID)
	}
}

func TestStorage_ListAndRotate(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, 3)

	for i := 1; i <= 5; i++ {
		if err := s.Save(ctx, testSnapshot(fmt.Sprintf("snap-%d", i))); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	infos, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 5 {
		t.Fatalf("Expected 5 snapshots, got %d", len(infos))
	}
	if infos[0].ID != "snap-5" || infos[4].ID != "snap-1" {
		t.Errorf("Expected newest first, got %s..%s", infos[0].ID, infos[4].ID)
	}
	if infos[0].CreatedOn == nil {
		t.Errorf("Expected createdOn in listing")
	}

	removed, err := s.Rotate(ctx)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Rotate() removed %d, expected 2", removed)
	}

	infos, err = s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("Expected 3 snapshots after rotation, got %d", len(infos))
	}
	if infos[2].ID != "snap-3" {
		t.Errorf("Oldest kept snapshot = %s, expected snap-3", infos[2].ID)
	}
}

func TestStorage_PersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "teamwrapped.db")

	s, err := New(10, path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := s.Save(ctx, testSnapshot("persisted")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := New(10, path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer reopened.Close()

	latest, err := reopened.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.ID != "persisted" {
		t.Errorf("Expected persisted snapshot, got %s", latest.ID)
	}
}
