package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores each key as a plain Redis string under a prefix
type RedisKV struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisKV connects to url (redis://host:port/db) and pings the server
func NewRedisKV(ctx context.Context, url, keyPrefix string) (*RedisKV, error) {
	const op = "NewRedisKV"

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%s: parse url: %w", op, err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s: failed to connect to Redis: %w", op, err)
	}

	return NewRedisKVWithClient(client, keyPrefix), nil
}

// NewRedisKVWithClient wraps an existing client
func NewRedisKVWithClient(client *redis.Client, keyPrefix string) *RedisKV {
	return &RedisKV{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.keyPrefix+key, value, 0).Err()
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}
