package recommend

import (
	"context"
	"time"

	"github.com/kailas-cloud/filerec/internal/domain"
)

// FileReader lists a user's file records.
type FileReader interface {
	ListByUser(ctx context.Context, userID string) ([]domain.FileRecord, error)
}

// HistoryWriter records served queries for preference aggregation.
type HistoryWriter interface {
	Append(ctx context.Context, userID, query string, at time.Time) error
}

// ImageProvider supplies external images for a query. It never fails;
// degraded providers return nil.
type ImageProvider interface {
	Images(ctx context.Context, query, userID string) []domain.ImageDescriptor
}
