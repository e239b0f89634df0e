package imagecache

import (
	"context"
	"sort"
	"testing"
	"time"
)

// memStore is an in-memory implementation of the consumer interface.
type memStore struct {
	hashes map[string]map[string]string
	sets   map[string]map[string]struct{}
	zsets  map[string]map[string]float64

	sAddErr error
	hSetErr error
}

func newMemStore() *memStore {
	return &memStore{
		hashes: make(map[string]map[string]string),
		sets:   make(map[string]map[string]struct{}),
		zsets:  make(map[string]map[string]float64),
	}
}

func (m *memStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.hSetErr != nil {
		return m.hSetErr
	}
	h := m.hashes[key]
	if h == nil {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *memStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.hashes[k]
	}
	return out, nil
}

func (m *memStore) SAdd(_ context.Context, key string, members ...string) (int64, error) {
	if m.sAddErr != nil {
		return 0, m.sAddErr
	}
	s := m.sets[key]
	if s == nil {
		s = make(map[string]struct{})
		m.sets[key] = s
	}
	var added int64
	for _, mem := range members {
		if _, ok := s[mem]; !ok {
			s[mem] = struct{}{}
			added++
		}
	}
	return added, nil
}

func (m *memStore) ZAdd(_ context.Context, key, member string, score float64) error {
	z := m.zsets[key]
	if z == nil {
		z = make(map[string]float64)
		m.zsets[key] = z
	}
	z[member] = score
	return nil
}

func (m *memStore) ZRevRange(_ context.Context, key string, count int) ([]string, error) {
	z := m.zsets[key]
	members := make([]string, 0, len(z))
	for mem := range z {
		members = append(members, mem)
	}
	sort.Slice(members, func(i, j int) bool {
		if z[members[i]] != z[members[j]] {
			return z[members[i]] > z[members[j]]
		}
		return members[i] > members[j] // Redis breaks score ties lexicographically
	})
	if len(members) > count {
		members = members[:count]
	}
	return members, nil
}

func (m *memStore) Expire(_ context.Context, _ string, _ time.Duration, _ bool) error {
	return nil
}

func newTestRepo(t *testing.T, ttl time.Duration) (*Repo, *memStore) {
	t.Helper()
	ms := newMemStore()
	return New(ms, ttl), ms
}
