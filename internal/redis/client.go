package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/servicehq/servicehub/internal/config"
	"github.com/servicehq/servicehub/internal/logger"
)

// Client wraps the go-redis client with application configuration.
type Client struct {
	client *redis.Client
	log    *logger.Logger
}

// NewClient creates a Redis client and verifies connectivity.
func NewClient(cfg *config.Configuration, log *logger.Logger) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Infow("connected to redis", "host", cfg.Redis.Host, "port", cfg.Redis.Port)
	return &Client{client: client, log: log}, nil
}

// GetClient returns the underlying go-redis client.
func (c *Client) GetClient() *redis.Client {
	return c.client
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.client.Close()
}
