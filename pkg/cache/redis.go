package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
	"github.com/wms-platform/warehouse-ops/pkg/resilience"
)

// Config holds Redis connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache implements Cache using Redis behind a circuit breaker. While the
// breaker is open reads miss and writes are dropped.
type RedisCache struct {
	client  *redis.Client
	breaker *resilience.Breaker
	logger  *logging.Logger
}

// NewCache connects to Redis and falls back to an InMemoryCache when Redis
// cannot be reached
func NewCache(ctx context.Context, cfg Config, logger *logging.Logger, m *metrics.Metrics) Cache {
	logger = logger.WithComponent("cache")

	if cfg.Addr == "" {
		logger.Info("Redis address not configured, using in-memory cache")
		return NewInMemoryCache()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		MaxRetries:   1,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Failed to connect to Redis, using in-memory cache", "addr", cfg.Addr, "error", err)
		_ = rdb.Close()
		return NewInMemoryCache()
	}

	logger.Info("Redis cache initialized", "addr", cfg.Addr, "db", cfg.DB)
	return NewRedisCache(rdb, logger, m)
}

// NewRedisCache wraps an existing Redis client
func NewRedisCache(client *redis.Client, logger *logging.Logger, m *metrics.Metrics) *RedisCache {
	var observer resilience.StateObserver
	if m != nil {
		observer = m
	}

	return &RedisCache{
		client:  client,
		breaker: resilience.NewBreaker(resilience.CacheBreaker("redis-cache"), logger, observer),
		logger:  logger,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := resilience.Call(ctx, c.breaker, func(ctx context.Context) ([]byte, error) {
		val, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			// a miss is a healthy response for the breaker
			return nil, nil
		}
		return val, err
	})
	if err != nil {
		if !errors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.Warn("Redis Get error", "key", key, "error", err)
		}
		return nil, ErrCacheMiss
	}
	if val == nil {
		return nil, ErrCacheMiss
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.breaker.Run(ctx, func(ctx context.Context) error {
		return c.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil && !errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.breaker.Run(ctx, func(ctx context.Context) error {
		return c.client.Del(ctx, key).Err()
	})
	if err != nil {
		return fmt.Errorf("redis delete error: %w", err)
	}
	return nil
}

// DeleteByPattern scans for matching keys and deletes them
func (c *RedisCache) DeleteByPattern(ctx context.Context, pattern string) error {
	err := c.breaker.Run(ctx, func(ctx context.Context) error {
		iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return c.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		c.logger.Warn("Redis DeleteByPattern error", "pattern", pattern, "error", err)
		return fmt.Errorf("redis delete by pattern error: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
