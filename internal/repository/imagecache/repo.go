package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/kailas-cloud/filerec/internal/domain"
)

// store is the consumer interface for the image cache (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	SAdd(ctx context.Context, key string, members ...string) (int64, error)
	ZAdd(ctx context.Context, key, member string, score float64) error
	ZRevRange(ctx context.Context, key string, count int) ([]string, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Repo persists externally fetched image descriptors keyed by query.
// URL uniqueness is enforced with an atomic SADD gate, so duplicate writes
// from concurrent requests converge to a single entry without error.
type Repo struct {
	store store
	ttl   time.Duration // 0 = no expiry
}

// New creates an image cache repository. ttl=0 keeps entries forever.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Lookup returns up to n cached descriptors for an exact query match,
// newest first. An empty result is a cache miss.
func (r *Repo) Lookup(ctx context.Context, query string, n int) ([]domain.ImageDescriptor, error) {
	urls, err := r.store.ZRevRange(ctx, queryKey(query), n)
	if err != nil {
		return nil, fmt.Errorf("image cache lookup %q: %w", query, err)
	}
	if len(urls) == 0 {
		return nil, nil
	}

	keys := make([]string, len(urls))
	for i, u := range urls {
		keys[i] = imageKey(u)
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("image cache load %q: %w", query, err)
	}

	descriptors := make([]domain.ImageDescriptor, 0, len(hashes))
	for _, m := range hashes {
		if len(m) == 0 {
			// Expired descriptor hash behind a live zset entry; skip.
			continue
		}
		descriptors = append(descriptors, parseHashFields(m))
	}
	return descriptors, nil
}

// Store persists descriptors for a query. Descriptors whose URL already
// exists anywhere in the cache are skipped (insert-or-ignore, never an error).
func (r *Repo) Store(ctx context.Context, query string, descriptors []domain.ImageDescriptor) error {
	for _, d := range descriptors {
		added, err := r.store.SAdd(ctx, urlSetKey(), d.URL)
		if err != nil {
			return fmt.Errorf("image cache gate %q: %w", d.URL, err)
		}
		if added == 0 {
			continue // URL already cached
		}

		ts := d.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}

		key := imageKey(d.URL)
		if err := r.store.HSet(ctx, key, buildHashFields(query, &d, ts)); err != nil {
			return fmt.Errorf("image cache store %q: %w", d.URL, err)
		}
		if err := r.store.ZAdd(ctx, queryKey(query), d.URL, float64(ts.Unix())); err != nil {
			return fmt.Errorf("image cache index %q: %w", d.URL, err)
		}

		if r.ttl > 0 {
			_ = r.store.Expire(ctx, key, r.ttl, false)
			_ = r.store.Expire(ctx, queryKey(query), r.ttl, false)
		}
	}
	return nil
}

func imageKey(url string) string {
	return domain.KeyPrefix + "img:" + shortHash(url)
}

func queryKey(query string) string {
	return domain.KeyPrefix + "imgq:" + shortHash(query)
}

func urlSetKey() string {
	return domain.KeyPrefix + "img:urls"
}

func shortHash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
