// Package recovery provides the draft recovery cache backends: a Redis
// store for production and an in-memory store for tests and redis-less
// deployments.
package recovery

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"micropage/api/internal/site"
)

// Drafts that nobody touches for this long are dropped by Redis on its own.
const draftTTL = 7 * 24 * time.Hour

// RedisStore mirrors drafts into Redis, one key per microsite.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, prefix: "draft:"}, nil
}

// NewRedisStoreWithClient wraps an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "draft:"}
}

// key scopes each draft to its microsite. Sessions editing different
// microsites can never read each other's mirror.
func (s *RedisStore) key(micrositeID string) string {
	return s.prefix + micrositeID
}

func (s *RedisStore) Put(ctx context.Context, micrositeID string, cfg site.Config) error {
	raw, err := cfg.Encode()
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(micrositeID), raw, draftTTL).Err(); err != nil {
		return fmt.Errorf("mirror draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, micrositeID string) (site.Config, bool, error) {
	raw, err := s.client.Get(ctx, s.key(micrositeID)).Result()
	if err == redis.Nil {
		return site.Config{}, false, nil
	}
	if err != nil {
		return site.Config{}, false, fmt.Errorf("read draft mirror: %w", err)
	}
	cfg, err := site.Decode([]byte(raw))
	if err != nil {
		return site.Config{}, false, err
	}
	return cfg, true, nil
}

func (s *RedisStore) Clear(ctx context.Context, micrositeID string) error {
	if err := s.client.Del(ctx, s.key(micrositeID)).Err(); err != nil {
		return fmt.Errorf("clear draft mirror: %w", err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
