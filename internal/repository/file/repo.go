package file

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/filerec/internal/domain"
)

// store is the consumer interface for file metadata (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	SAdd(ctx context.Context, key string, members ...string) (int64, error)
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo persists FileRecord metadata keyed per user.
type Repo struct {
	store store
}

// New creates a file repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// ListByUser returns all file records of a user in filename order.
// Index entries whose hash is missing are skipped.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]domain.FileRecord, error) {
	names, err := r.store.SMembers(ctx, userFilesKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list user files %s: %w", userID, err)
	}
	if len(names) == 0 {
		return nil, nil
	}

	// SMEMBERS order is unspecified; sort for a stable candidate order.
	sort.Strings(names)

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = fileKey(userID, name)
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load user files %s: %w", userID, err)
	}

	records := make([]domain.FileRecord, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			// Index entry without a hash -- stale, skip.
			continue
		}
		records = append(records, parseHashFields(userID, names[i], m))
	}
	return records, nil
}

// Upsert stores a file record and registers it in the user's filename index.
// Idempotent per (user, filename): a duplicate insert overwrites with the
// same data and the SADD is a no-op.
func (r *Repo) Upsert(ctx context.Context, rec *domain.FileRecord) (bool, error) {
	if rec.UploadDate.IsZero() {
		rec.UploadDate = time.Now().UTC()
	}

	if err := r.store.HSet(ctx, fileKey(rec.UserID, rec.Filename), buildHashFields(rec)); err != nil {
		return false, fmt.Errorf("upsert file %s/%s: %w", rec.UserID, rec.Filename, err)
	}

	added, err := r.store.SAdd(ctx, userFilesKey(rec.UserID), rec.Filename)
	if err != nil {
		return false, fmt.Errorf("index file %s/%s: %w", rec.UserID, rec.Filename, err)
	}
	return added > 0, nil
}

func fileKey(userID, filename string) string {
	return fmt.Sprintf("%sfile:%s:%s", domain.KeyPrefix, userID, filename)
}

func userFilesKey(userID string) string {
	return fmt.Sprintf("%suser:%s:files", domain.KeyPrefix, userID)
}
