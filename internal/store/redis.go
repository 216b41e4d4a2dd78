package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each collection under its own key, "<prefix>:<name>"
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an already connected client
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + ":" + name
}

// Load returns the raw JSON for one collection
func (s *RedisStore) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis store: get %s: %w", name, err)
	}
	return data, nil
}

// Save replaces one collection
func (s *RedisStore) Save(ctx context.Context, name string, data []byte) error {
	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("redis store: set %s: %w", name, err)
	}
	return nil
}

// SaveAll writes the batch inside MULTI/EXEC
func (s *RedisStore) SaveAll(ctx context.Context, batch map[string][]byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for name, data := range batch {
			pipe.Set(ctx, s.key(name), data, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis store: save batch: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
