package database

import (
	"context"
	"fmt"
	"time"

	"estimate-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the rate catalog cache.
type RedisClient struct {
	Client *redis.Client
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  ms(cfg.DialTimeout),
		ReadTimeout:  ms(cfg.ReadTimeout),
		WriteTimeout: ms(cfg.WriteTimeout),
	}
}

// NewRedis builds a pooled client from cfg. Zero pool and timeout values fall
// back to the go-redis defaults.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	return &RedisClient{Client: redis.NewClient(redisOptions(cfg))}, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s failed: %w", c.Client.Options().Addr, err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
