// Package redisx implementa kv.Store sobre Redis.
package redisx

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"pet-adoption/internal/ports/kv"
)

type Config struct {
	Addr     string
	DB       int
	Password string
	// Namespace se antepone a todas las claves (ej. "adopit:").
	Namespace string
}

type Store struct {
	rdb *redis.Client
	ns  string
}

var _ kv.Store = (*Store)(nil)

func New(cfg Config) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	return &Store{rdb: rdb, ns: cfg.Namespace}
}

func (s *Store) Ping(ctx context.Context) error {
	return errors.Wrap(s.rdb.Ping(ctx).Err(), "redis ping")
}

func (s *Store) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.ns+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "redis get %q", key)
	}
	return b, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.ns+key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %q", key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.ns+k)
	}
	if err := s.rdb.Del(ctx, full...).Err(); err != nil {
		return errors.Wrapf(err, "redis del %d keys", len(keys))
	}
	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	match := escapeGlob(s.ns+prefix) + "*"

	out := make([]string, 0)
	iter := s.rdb.Scan(ctx, 0, match, 200).Iterator()
	for iter.Next(ctx) {
		out = append(out, strings.TrimPrefix(iter.Val(), s.ns))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(err, "redis scan %q", prefix)
	}

	// SCAN puede repetir claves entre iteraciones.
	sort.Strings(out)
	return dedupSorted(out), nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

func dedupSorted(in []string) []string {
	if len(in) < 2 {
		return in
	}
	out := in[:1]
	for _, v := range in[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
