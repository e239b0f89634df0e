package imagesearch

import (
	"context"

	"github.com/kailas-cloud/filerec/internal/domain"
)

// Cache is the persisted image descriptor store.
type Cache interface {
	Lookup(ctx context.Context, query string, n int) ([]domain.ImageDescriptor, error)
	Store(ctx context.Context, query string, descriptors []domain.ImageDescriptor) error
}

// Searcher performs one live search attempt. Reset discards the browsing
// session; the service calls it between retry attempts.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.ImageDescriptor, error)
	Reset()
}

// PreferenceSource provides a user's recent preference tags.
type PreferenceSource interface {
	Tags(ctx context.Context, userID string) []string
}
