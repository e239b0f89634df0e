package imagecache

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/filerec/internal/domain"
)

func descriptor(url string, ts time.Time) domain.ImageDescriptor {
	return domain.ImageDescriptor{
		URL:       url,
		Alt:       "mobile suit lineup",
		Source:    "example.com",
		Title:     "Gundam wallpaper",
		Timestamp: ts,
	}
}

func TestLookup_Empty(t *testing.T) {
	repo, _ := newTestRepo(t, 0)

	got, err := repo.Lookup(context.Background(), "gundam", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestStoreAndLookup_NewestFirst(t *testing.T) {
	repo, _ := newTestRepo(t, 0)
	ctx := context.Background()

	base := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	descriptors := []domain.ImageDescriptor{
		descriptor("https://img.example.com/a.jpg", base),
		descriptor("https://img.example.com/b.jpg", base.Add(time.Hour)),
		descriptor("https://img.example.com/c.jpg", base.Add(2*time.Hour)),
		descriptor("https://img.example.com/d.jpg", base.Add(3*time.Hour)),
	}
	if err := repo.Store(ctx, "gundam", descriptors); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Lookup(ctx, "gundam", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(got))
	}
	if got[0].URL != "https://img.example.com/d.jpg" {
		t.Errorf("expected newest first, got %s", got[0].URL)
	}
	if got[2].URL != "https://img.example.com/b.jpg" {
		t.Errorf("expected b.jpg third, got %s", got[2].URL)
	}
}

func TestLookup_Idempotent(t *testing.T) {
	repo, _ := newTestRepo(t, 0)
	ctx := context.Background()

	ts := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	if err := repo.Store(ctx, "gundam", []domain.ImageDescriptor{
		descriptor("https://img.example.com/a.jpg", ts),
		descriptor("https://img.example.com/b.jpg", ts.Add(time.Minute)),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := repo.Lookup(ctx, "gundam", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := repo.Lookup(ctx, "gundam", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("lookup not idempotent: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].URL != second[i].URL {
			t.Errorf("order differs at %d: %s vs %s", i, first[i].URL, second[i].URL)
		}
	}
}

func TestStore_DuplicateURLIgnored(t *testing.T) {
	repo, ms := newTestRepo(t, 0)
	ctx := context.Background()

	ts := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	d := descriptor("https://img.example.com/a.jpg", ts)

	if err := repo.Store(ctx, "gundam", []domain.ImageDescriptor{d}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same URL under a different query must be a no-op.
	if err := repo.Store(ctx, "anime", []domain.ImageDescriptor{d}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ms.hashes) != 1 {
		t.Fatalf("expected exactly one descriptor hash, got %d", len(ms.hashes))
	}

	got, err := repo.Lookup(ctx, "anime", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("duplicate store must not index under the new query, got %d", len(got))
	}
}

func TestStore_RoundTripFields(t *testing.T) {
	repo, _ := newTestRepo(t, 0)
	ctx := context.Background()

	ts := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	d := domain.ImageDescriptor{
		URL:       "https://img.example.com/a.jpg",
		Alt:       "wing zero custom",
		Source:    "example.com",
		Title:     "Wing Gundam",
		Timestamp: ts,
	}
	if err := repo.Store(ctx, "gundam", []domain.ImageDescriptor{d}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Lookup(ctx, "gundam", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 descriptor, got %d", len(got))
	}
	if got[0] != d {
		t.Errorf("round-trip mismatch:\ngot:  %+v\nwant: %+v", got[0], d)
	}
}
