// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"address-validator/internal/common/config"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 3 * time.Second

// RedisClient holds the session store connection.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis builds a client whose dial, read and write each fail after the
// configured timeout. The command-level retry of go-redis is switched off.
func NewRedis(cfg config.RedisConfig) *RedisClient {
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   -1,
	})

	return &RedisClient{Client: rdb}
}

// Sessions is the command surface the session resolvers use.
func (c *RedisClient) Sessions() redis.Cmdable {
	return c.Client
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
