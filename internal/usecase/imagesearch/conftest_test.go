package imagesearch

import (
	"context"

	"github.com/kailas-cloud/filerec/internal/domain"
)

type mockCache struct {
	entries    map[string][]domain.ImageDescriptor
	lookups    int
	stores     int
	lookupErr  error
	storeErr   error
	lastStored []domain.ImageDescriptor
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]domain.ImageDescriptor)}
}

func (m *mockCache) Lookup(_ context.Context, query string, n int) ([]domain.ImageDescriptor, error) {
	m.lookups++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	out := m.entries[query]
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *mockCache) Store(_ context.Context, query string, descriptors []domain.ImageDescriptor) error {
	m.stores++
	if m.storeErr != nil {
		return m.storeErr
	}
	m.entries[query] = append(m.entries[query], descriptors...)
	m.lastStored = descriptors
	return nil
}

type mockSearcher struct {
	results   []domain.ImageDescriptor
	errs      []error
	calls     int
	resets    int
	lastQuery string
}

func (m *mockSearcher) Search(_ context.Context, query string, _ int) ([]domain.ImageDescriptor, error) {
	m.lastQuery = query
	idx := m.calls
	m.calls++
	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	return m.results, nil
}

func (m *mockSearcher) Reset() { m.resets++ }

type mockPrefs struct {
	tags []string
}

func (m *mockPrefs) Tags(context.Context, string) []string { return m.tags }
