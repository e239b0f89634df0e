package redis

import (
	"context"

	"github.com/kailas-cloud/filerec/internal/db"
)

// ZAdd adds a member to a sorted set with the given score.
func (s *Store) ZAdd(ctx context.Context, key, member string, score float64) error {
	cmd := s.b().Zadd().Key(key).ScoreMember().ScoreMember(score, member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZAdd, Err: err}
	}
	return nil
}

// ZRevRange returns up to count members ordered by score descending.
func (s *Store) ZRevRange(ctx context.Context, key string, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}
	cmd := s.b().Zrevrange().Key(key).Start(0).Stop(int64(count - 1)).Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRevRange, Err: err}
	}
	return members, nil
}
