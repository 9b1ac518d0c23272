package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// InvalidateAll only removes keys under KeyPrefix.
	KeyPrefix      string
	OpTimeout      time.Duration
	CircuitBreaker *CircuitBreakerConfig
}

func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         "localhost:6379",
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		KeyPrefix:    "task-tracker:users:",
		OpTimeout:    3 * time.Second,
	}
}

type RedisCache struct {
	client    *redis.Client
	prefix    string
	opTimeout time.Duration
	breaker   *CircuitBreaker
	stats     counters
}

func NewRedisCache(config *RedisConfig) *RedisCache {
	if config == nil {
		config = DefaultRedisConfig()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	return newRedisCache(rdb, config)
}

func newRedisCache(client *redis.Client, config *RedisConfig) *RedisCache {
	opTimeout := config.OpTimeout
	if opTimeout <= 0 {
		opTimeout = 3 * time.Second
	}

	return &RedisCache{
		client:    client,
		prefix:    config.KeyPrefix,
		opTimeout: opTimeout,
		breaker:   NewCircuitBreaker(config.CircuitBreaker),
	}
}

func (r *RedisCache) key(k string) string {
	return r.prefix + k
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		r.stats.errors.Add(1)
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	err = r.breaker.Execute(func() error {
		ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
		defer cancel()
		return r.client.Set(ctx, r.key(key), data, ttl).Err()
	})
	if err != nil {
		r.stats.errors.Add(1)
		return r.wrap("set", err)
	}

	r.stats.sets.Add(1)
	return nil
}

func (r *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	_, err := r.get(ctx, key, dest)
	return err
}

// get also reports the remaining TTL of the key, or a non-positive value
// when the key has no expiry.
func (r *RedisCache) get(ctx context.Context, key string, dest interface{}) (time.Duration, error) {
	var (
		data []byte
		ttl  time.Duration
	)
	err := r.breaker.Execute(func() error {
		ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
		defer cancel()

		pipe := r.client.Pipeline()
		getCmd := pipe.Get(ctx, r.key(key))
		ttlCmd := pipe.PTTL(ctx, r.key(key))
		if _, err := pipe.Exec(ctx); err != nil {
			if errors.Is(err, redis.Nil) {
				// a miss is a healthy answer
				return nil
			}
			return err
		}
		data, _ = getCmd.Bytes()
		ttl = ttlCmd.Val()
		return nil
	})
	if err != nil {
		r.stats.errors.Add(1)
		return 0, r.wrap("get", err)
	}

	if data == nil {
		r.stats.misses.Add(1)
		return 0, ErrCacheMiss
	}

	if err := json.Unmarshal(data, dest); err != nil {
		r.stats.errors.Add(1)
		return 0, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}

	r.stats.hits.Add(1)
	return ttl, nil
}

func (r *RedisCache) InvalidateAll(ctx context.Context) error {
	err := r.breaker.Execute(func() error {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		var keys []string
		iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}

		for start := 0; start < len(keys); start += 100 {
			end := start + 100
			if end > len(keys) {
				end = len(keys)
			}
			if err := r.client.Del(ctx, keys[start:end]...).Err(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.stats.errors.Add(1)
		return r.wrap("invalidate", err)
	}

	r.stats.invalidations.Add(1)
	return nil
}

func (r *RedisCache) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheDown, err)
	}
	return nil
}

func (r *RedisCache) Stats() map[string]interface{} {
	result := r.stats.snapshot()
	result["circuit_breaker"] = r.breaker.GetStats()

	if pool := r.client.PoolStats(); pool != nil {
		result["pool_total_conns"] = pool.TotalConns
		result["pool_idle_conns"] = pool.IdleConns
	}

	return result
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) wrap(op string, err error) error {
	if errors.Is(err, ErrCircuitBreakerOpen) {
		return fmt.Errorf("redis %s: %w", op, ErrCacheDown)
	}
	return fmt.Errorf("redis %s: %w: %v", op, ErrCacheDown, err)
}
