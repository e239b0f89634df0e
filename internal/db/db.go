package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers depend on narrow sub-interfaces (ISP); the facade exists for wiring.
type Store interface {
	Pinger
	HashStore
	KVStore
	SetStore
	SortedSetStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// SetStore provides unordered set operations.
type SetStore interface {
	// SAdd adds members to a set and returns how many were newly added.
	// A zero return for a single member means it already existed (insert-or-ignore).
	SAdd(ctx context.Context, key string, members ...string) (int64, error)
	SMembers(ctx context.Context, key string) ([]string, error)
}

// SortedSetStore provides score-ordered set operations.
type SortedSetStore interface {
	ZAdd(ctx context.Context, key, member string, score float64) error
	// ZRevRange returns up to count members ordered by score descending.
	ZRevRange(ctx context.Context, key string, count int) ([]string, error)
}
