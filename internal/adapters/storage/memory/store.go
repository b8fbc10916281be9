package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pet-adoption/internal/ports/kv"
)

// Store es un kv.Store en memoria. Se usa en dev, en tests y cuando no hay driver configurado.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ kv.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return clone(v), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = clone(value)
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0)
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Los callers no deben poder mutar lo guardado.
func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
