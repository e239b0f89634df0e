package prefs

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/filerec/internal/domain/tag"
)

type mockHistory struct {
	queries []string
	err     error
	lastN   int
}

func (m *mockHistory) Recent(_ context.Context, _ string, n int) ([]string, error) {
	m.lastN = n
	return m.queries, m.err
}

func newTestService(h *mockHistory) *Service {
	return New(h, tag.New(0), 10, zap.NewNop())
}

func TestTags_DeduplicatedUnion(t *testing.T) {
	history := &mockHistory{queries: []string{
		"gundam wallpapers",
		"anime gundam art",
		"the best anime",
	}}
	svc := newTestService(history)

	got := svc.Tags(context.Background(), "1")
	want := []string{"gundam", "wallpapers", "anime", "art", "best"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tags = %v, want %v", got, want)
	}
	if history.lastN != 10 {
		t.Errorf("expected history window 10, got %d", history.lastN)
	}
}

func TestTags_NoHistory(t *testing.T) {
	svc := newTestService(&mockHistory{})

	if got := svc.Tags(context.Background(), "1"); len(got) != 0 {
		t.Errorf("expected empty preferences, got %v", got)
	}
}

func TestTags_LookupFailure(t *testing.T) {
	svc := newTestService(&mockHistory{err: errors.New("store down")})

	if got := svc.Tags(context.Background(), "1"); len(got) != 0 {
		t.Errorf("lookup failure must degrade to empty, got %v", got)
	}
}

func TestTags_StopwordsFiltered(t *testing.T) {
	svc := newTestService(&mockHistory{queries: []string{"the is a"}})

	if got := svc.Tags(context.Background(), "1"); len(got) != 0 {
		t.Errorf("expected stopword-only history to yield nothing, got %v", got)
	}
}
