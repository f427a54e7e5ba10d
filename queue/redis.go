package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStopStoreConfig describes the Redis connection parameters.
type RedisStopStoreConfig struct {
	Address  string
	Password string
	DB       int
}

// RedisStopStore implements StopStore on a shared Redis instance, making
// cancellation visible across processes and restarts.
type RedisStopStore struct {
	client redis.UniversalClient
}

// NewRedisStopStore dials Redis and verifies the connection.
func NewRedisStopStore(ctx context.Context, cfg RedisStopStoreConfig) (*RedisStopStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisStopStore{client: client}, nil
}

// NewRedisStopStoreFromClient wraps an existing client, leaving connection
// lifecycle to the caller.
func NewRedisStopStoreFromClient(client redis.UniversalClient) *RedisStopStore {
	return &RedisStopStore{client: client}
}

// SetTaskBelong implements StopStore.
func (s *RedisStopStore) SetTaskBelong(ctx context.Context, taskID uuid.UUID, owner string, ttl time.Duration) error {
	if err := s.client.SetEx(ctx, TaskBelongKey(taskID), owner, ttl).Err(); err != nil {
		return fmt.Errorf("set task belong record: %w", err)
	}
	return nil
}

// Stop implements StopStore.
func (s *RedisStopStore) Stop(ctx context.Context, taskID uuid.UUID) error {
	if err := s.client.SetEx(ctx, TaskStoppedKey(taskID), "1", StopFlagTTL).Err(); err != nil {
		return fmt.Errorf("set task stopped flag: %w", err)
	}
	return nil
}

// IsStopped implements StopStore.
func (s *RedisStopStore) IsStopped(ctx context.Context, taskID uuid.UUID) (bool, error) {
	n, err := s.client.Exists(ctx, TaskStoppedKey(taskID)).Result()
	if err != nil {
		return false, fmt.Errorf("check task stopped flag: %w", err)
	}
	return n > 0, nil
}

// Close releases the underlying client.
func (s *RedisStopStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
