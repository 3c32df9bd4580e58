package cacheinfra

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	backendNameRedis = "redis"
	clearBatchSize   = 256
)

// RedisManager stores cache entries in Redis under a key prefix, so Clear
// only touches entries written by this manager.
type RedisManager struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisManager creates the client without contacting the server. Use
// Ping to check connectivity at startup.
func NewRedisManager(cfg Config) (*RedisManager, error) {
	cfg.Backend = BackendRedis
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
		MaxRetries:  cfg.Redis.MaxRetries,
	})

	return &RedisManager{
		client: client,
		prefix: cfg.Redis.Prefix,
		ttl:    cfg.TTL,
	}, nil
}

// Ping checks that the server is reachable.
func (m *RedisManager) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return backendUnavailable(backendNameRedis, "ping", err)
	}
	return nil
}

func (m *RedisManager) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := m.client.Get(ctx, m.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, backendUnavailable(backendNameRedis, "get", err)
	}
	return value, true, nil
}

func (m *RedisManager) Set(ctx context.Context, key string, value []byte) error {
	if err := m.client.Set(ctx, m.prefix+key, value, m.ttl).Err(); err != nil {
		return backendUnavailable(backendNameRedis, "set", err)
	}
	return nil
}

func (m *RedisManager) Remove(ctx context.Context, key string) error {
	if err := m.client.Del(ctx, m.prefix+key).Err(); err != nil {
		return backendUnavailable(backendNameRedis, "remove", err)
	}
	return nil
}

// Clear deletes every key under the manager prefix in batches.
func (m *RedisManager) Clear(ctx context.Context) error {
	iter := m.client.Scan(ctx, 0, m.prefix+"*", clearBatchSize).Iterator()

	batch := make([]string, 0, clearBatchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatchSize {
			if err := m.client.Del(ctx, batch...).Err(); err != nil {
				return backendUnavailable(backendNameRedis, "clear", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return backendUnavailable(backendNameRedis, "clear", err)
	}

	if len(batch) > 0 {
		if err := m.client.Del(ctx, batch...).Err(); err != nil {
			return backendUnavailable(backendNameRedis, "clear", err)
		}
	}
	return nil
}

func (m *RedisManager) Close() error {
	return m.client.Close()
}
