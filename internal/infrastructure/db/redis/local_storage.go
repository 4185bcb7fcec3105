package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/work21/portal/internal/core/ports"
)

const keyPrefix = "work21:ls:"

// StorageProvider keeps the client-local storage of every browser session in
// Redis, one hash per session. Each write refreshes the hash TTL so abandoned
// sessions expire on their own.
//
// Key format: work21:ls:<namespace>
type StorageProvider struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.StorageProvider = (*StorageProvider)(nil)

// NewStorageProvider wraps client. A zero ttl keeps hashes forever.
func NewStorageProvider(client *redis.Client, ttl time.Duration) *StorageProvider {
	return &StorageProvider{client: client, ttl: ttl}
}

// Scope returns the storage of one browser session.
func (p *StorageProvider) Scope(namespace string) ports.LocalStorage {
	return &scopedStorage{client: p.client, key: HashKey(namespace), ttl: p.ttl}
}

// Ping reports whether Redis is reachable.
func (p *StorageProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// HashKey is the Redis key holding the storage of namespace.
func HashKey(namespace string) string {
	return keyPrefix + namespace
}

type scopedStorage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (s *scopedStorage) Get(ctx context.Context, field string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis storage get %s: %w", field, err)
	}
	return v, true, nil
}

func (s *scopedStorage) Set(ctx context.Context, field, value string) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key, field, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis storage set %s: %w", field, err)
	}
	return nil
}

func (s *scopedStorage) Remove(ctx context.Context, field string) error {
	if err := s.client.HDel(ctx, s.key, field).Err(); err != nil {
		return fmt.Errorf("redis storage remove %s: %w", field, err)
	}
	return nil
}
