package redisad

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Store keeps cache entries under "namespace:key". Entries carry no TTL;
// staleness is handled by explicit write-time invalidation.
type Store struct{ c *redis.Client }

func New(addr, pass string, db int) *Store {
	return &Store{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (s *Store) Get(ctx context.Context, ns, key string) ([]byte, bool, error) {
	b, err := s.c.Get(ctx, ns+":"+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Store) Set(ctx context.Context, ns, key string, val []byte) error {
	return s.c.Set(ctx, ns+":"+key, val, 0).Err()
}

func (s *Store) Del(ctx context.Context, ns, key string) error {
	return s.c.Del(ctx, ns+":"+key).Err()
}

func (s *Store) Clear(ctx context.Context, ns string) error {
	iter := s.c.Scan(ctx, 0, ns+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.c.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *Store) Keys(ctx context.Context, ns string) ([]string, error) {
	var keys []string
	iter := s.c.Scan(ctx, 0, ns+":*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), ns+":"))
	}
	return keys, iter.Err()
}
