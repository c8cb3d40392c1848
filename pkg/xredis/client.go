package xredis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rolewarden/backend/pkg/xcontext"
)

type Client interface {
	Exist(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	MGet(ctx context.Context, keys ...string) ([]any, error)
	MSet(ctx context.Context, kv map[string]any) error
	Del(ctx context.Context, keys ...string) error
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) Exist(ctx context.Context, key string) (bool, error) {
	n, err := c.redisClient.Exists(ctx, key).Uint64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	return c.redisClient.Get(ctx, key).Result()
}

func (c *client) Set(ctx context.Context, key, value string) error {
	return c.redisClient.Set(ctx, key, value, 0).Err()
}

func (c *client) MGet(ctx context.Context, keys ...string) ([]any, error) {
	return c.redisClient.MGet(ctx, keys...).Result()
}

func (c *client) MSet(ctx context.Context, kv map[string]any) error {
	return c.redisClient.MSet(ctx, kv).Err()
}

func (c *client) Del(ctx context.Context, keys ...string) error {
	return c.redisClient.Del(ctx, keys...).Err()
}
