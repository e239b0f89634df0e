package history

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/filerec/internal/domain"
)

// store is the consumer interface for search history (ISP).
type store interface {
	ZAdd(ctx context.Context, key, member string, score float64) error
	ZRevRange(ctx context.Context, key string, count int) ([]string, error)
}

// Repo persists the per-user search history as a recency-scored sorted set.
// Repeating a query refreshes its recency rather than duplicating it; the
// preference aggregator deduplicates tokens anyway.
type Repo struct {
	store store
}

// New creates a history repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Recent returns up to n of the user's most recent queries, newest first.
func (r *Repo) Recent(ctx context.Context, userID string, n int) ([]string, error) {
	queries, err := r.store.ZRevRange(ctx, historyKey(userID), n)
	if err != nil {
		return nil, fmt.Errorf("recent history %s: %w", userID, err)
	}
	return queries, nil
}

// Append records a query at the given time. Entries are never mutated or
// deleted here; the score is the only thing a repeat updates.
func (r *Repo) Append(ctx context.Context, userID, query string, at time.Time) error {
	if err := r.store.ZAdd(ctx, historyKey(userID), query, float64(at.Unix())); err != nil {
		return fmt.Errorf("append history %s: %w", userID, err)
	}
	return nil
}

func historyKey(userID string) string {
	return fmt.Sprintf("%suser:%s:history", domain.KeyPrefix, userID)
}
