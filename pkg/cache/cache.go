// Package cache provides a short-lived key/value cache with a Redis implementation
// and a no-op fallback used when no Redis address is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/redress/pkg/lifecycle"
)

// ErrMiss indicates the key is not cached.
var ErrMiss = errors.New("cache miss")

// System stores opaque values under string keys for a bounded time.
type System interface {
	// Get returns the cached value or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key for the configured TTL.
	Set(ctx context.Context, key string, value []byte) error
	// Delete evicts key; evicting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Start registers ping and close hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a cache from cfg. A disabled config yields a no-op cache.
func New(cfg *Config, logger *slog.Logger) System {
	if !cfg.Enabled() {
		logger.With("system", "cache").Info("cache disabled")
		return noop{}
	}

	return NewWithClient(
		redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		cfg.Prefix,
		cfg.TTLDuration(),
		logger,
	)
}

// NewWithClient wraps an existing Redis client.
func NewWithClient(client *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) System {
	return &redisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With("system", "cache"),
	}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return v, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting cache")

	// A cache outage only costs hits, so startup does not fail on it.
	lc.OnStartup("cache", func(ctx context.Context) error {
		if err := c.client.Ping(ctx).Err(); err != nil {
			c.logger.Warn("cache ping failed", "error", err)
			return nil
		}
		c.logger.Info("cache connection established")
		return nil
	})

	lc.OnShutdown("cache", func(context.Context) error {
		if err := c.client.Close(); err != nil {
			return fmt.Errorf("close cache: %w", err)
		}
		c.logger.Info("cache connection closed")
		return nil
	})

	return nil
}

type noop struct{}

func (noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (noop) Set(context.Context, string, []byte) error { return nil }
func (noop) Delete(context.Context, string) error { return nil }
func (noop) Start(*lifecycle.Coordinator) error { return nil }

// GetJSON decodes the cached value for key into T.
func GetJSON[T any](ctx context.Context, c System, key string) (T, error) {
	var v T
	raw, err := c.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return v, nil
}

// SetJSON encodes v and caches it under key.
func SetJSON(ctx context.Context, c System, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Set(ctx, key, raw)
}
