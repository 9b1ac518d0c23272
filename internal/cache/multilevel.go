package cache

import (
	"context"
	"errors"
	"time"

	"task-tracker/internal/config"
)

// MultiLevelCache reads through an in-process layer before Redis. Redis is
// optional; without it the cache is purely local.
type MultiLevelCache struct {
	l1    *MemoryCache
	l2    *RedisCache
	l1TTL time.Duration
}

func NewMultiLevelCache(redisCache *RedisCache, l1TTL time.Duration) *MultiLevelCache {
	if l1TTL <= 0 {
		l1TTL = 5 * time.Minute
	}
	return &MultiLevelCache{
		l1:    NewMemoryCache(),
		l2:    redisCache,
		l1TTL: l1TTL,
	}
}

func (c *MultiLevelCache) l1TTLFor(ttl time.Duration) time.Duration {
	if ttl > 0 && ttl < c.l1TTL {
		return ttl
	}
	return c.l1TTL
}

func (c *MultiLevelCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := c.l1.Set(ctx, key, value, c.l1TTLFor(ttl)); err != nil {
		return err
	}

	if c.l2 != nil {
		return c.l2.Set(ctx, key, value, ttl)
	}

	return nil
}

func (c *MultiLevelCache) Get(ctx context.Context, key string, dest interface{}) error {
	err := c.l1.Get(ctx, key, dest)
	if err == nil || !errors.Is(err, ErrCacheMiss) || c.l2 == nil {
		return err
	}

	remaining, err := c.l2.get(ctx, key, dest)
	if err != nil {
		return err
	}

	_ = c.l1.Set(ctx, key, dest, c.l1TTLFor(remaining))
	return nil
}

// InvalidateAll always clears the local layer, even when Redis is down.
func (c *MultiLevelCache) InvalidateAll(ctx context.Context) error {
	_ = c.l1.InvalidateAll(ctx)

	if c.l2 != nil {
		return c.l2.InvalidateAll(ctx)
	}

	return nil
}

func (c *MultiLevelCache) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"l1": c.l1.Stats(),
	}

	if c.l2 != nil {
		stats["l2"] = c.l2.Stats()
	}

	return stats
}

func (c *MultiLevelCache) Health(ctx context.Context) error {
	if c.l2 != nil {
		return c.l2.Health(ctx)
	}

	return nil
}

func (c *MultiLevelCache) Close() error {
	if c.l2 != nil {
		return c.l2.Close()
	}

	return nil
}

// NewUserCache builds the user lookup cache described by cfg: always an
// in-process layer, plus Redis when enabled.
func NewUserCache(cfg *config.Config) *MultiLevelCache {
	if !cfg.Redis.Enabled {
		return NewMultiLevelCache(nil, cfg.Cache.UserTTL)
	}

	redisCache := NewRedisCache(&RedisConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		KeyPrefix:    cfg.Cache.KeyPrefix,
		OpTimeout:    cfg.Redis.ReadTimeout,
	})
	return NewMultiLevelCache(redisCache, cfg.Cache.UserTTL)
}
