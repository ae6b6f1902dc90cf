package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voteagora/agora-tally/internal/domain/models"
)

// RedisCache shares resolved results between agora processes
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisCache connects to the redis server at url, e.g. redis://localhost:6379/0
func NewRedisCache(ctx context.Context, url string, logger *slog.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	logger.Debug("connected to redis", "addr", opts.Addr, "db", opts.DB)
	return &RedisCache{client: rdb, logger: logger}, nil
}

// Get returns the cached view for key
func (c *RedisCache) Get(ctx context.Context, key string) (*models.ResultView, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var view models.ResultView
	if err := json.Unmarshal(raw, &view); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next Set
		c.logger.Warn("dropping undecodable cache entry", "key", key, "error", err)
		return nil, false, nil
	}
	return &view, true, nil
}

// Set stores view under key. A zero ttl never expires.
func (c *RedisCache) Set(ctx context.Context, key string, view *models.ResultView, ttl time.Duration) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close closes the redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
