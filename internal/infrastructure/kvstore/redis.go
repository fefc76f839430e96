package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ix-ath/shelf-sense/internal/domain"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "shelfsense:"

// RedisStore keeps key/value records in Redis, for setups that share
// preferences and history between devices of one user.
type RedisStore struct {
	client *redis.Client
}

// OpenRedis connects to the Redis server at url
func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get retrieves the value stored under key
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

// Set replaces the value stored under key. Records never expire.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete %q: %w", key, err)
	}
	return nil
}

// Close closes the client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
