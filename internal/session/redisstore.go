package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// RedisStore keeps the token under <prefix>token so several terminals share one slot.
// Clear deletes every key under the prefix.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore returns a RedisStore using client and key prefix.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key() string {
	return s.prefix + "token"
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) || (err == nil && token == "") {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token from redis: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key(), token, 0).Err(); err != nil {
		return fmt.Errorf("failed to write token to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan session keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete session keys: %w", err)
	}
	return nil
}
