package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glodinasflexwork/flexwork-api/internal/domain"
)

type redisIdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore reserves submission tokens in redis. SETNX gives the
// first caller the reservation; later calls with the same token lose.
func NewIdempotencyStore(client *redis.Client) domain.IdempotencyStore {
	return &redisIdempotencyStore{client: client}
}

func (s *redisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, idempotencyKey(key), "1", ttl).Result()
}

func (s *redisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyKey(key)).Err()
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("idem:%s", key)
}

// memoryIdempotencyStore is the redis-less fallback used in tests and
// local development. Expired reservations are reclaimed lazily.
type memoryIdempotencyStore struct {
	mu       sync.Mutex
	reserved map[string]time.Time
}

func NewMemoryIdempotencyStore() domain.IdempotencyStore {
	return &memoryIdempotencyStore{reserved: make(map[string]time.Time)}
}

func (s *memoryIdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if expiry, ok := s.reserved[key]; ok && now.Before(expiry) {
		return false, nil
	}
	s.reserved[key] = now.Add(ttl)
	return true, nil
}

func (s *memoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.reserved, key)
	return nil
}
