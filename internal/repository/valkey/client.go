package valkey

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/config"
)

const keyPrefix = "visapa:"

// Client wraps the Valkey connection shared by the cache, heartbeat and
// idempotency stores
type Client struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewClient connects to Valkey and verifies the connection
func NewClient(ctx context.Context, cfg *config.ValkeyConfig, log *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping Valkey: %w", err)
	}

	log.Info("Valkey connection established", zap.String("address", cfg.Addr()))

	return &Client{rdb: rdb, log: log}, nil
}

// Ping checks if the Valkey connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Valkey connection
func (c *Client) Close() error {
	if err := c.rdb.Close(); err != nil {
		c.log.Error("Error closing Valkey connection", zap.Error(err))
		return err
	}
	return nil
}
