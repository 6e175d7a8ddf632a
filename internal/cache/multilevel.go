package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Stats() map[string]interface{}
	Health(ctx context.Context) error
	Close() error
}

// l1TTL caps how long a value lives in process memory, so other
// instances' invalidations become visible within that window.
const l1TTL = 30 * time.Second

type MultiLevelCache struct {
	l1      *MemoryCache
	l2      *RedisCache
	breaker *CircuitBreaker
	metrics *CacheMetrics
}

// NewMultiLevelCache builds an L1-only cache when redisCache is nil.
func NewMultiLevelCache(redisCache *RedisCache) *MultiLevelCache {
	return &MultiLevelCache{
		l1:      NewMemoryCache(),
		l2:      redisCache,
		breaker: NewCircuitBreaker(nil),
		metrics: NewCacheMetrics(),
	}
}

func (c *MultiLevelCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.metrics.RecordError()
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	c.l1.Set(key, data, minTTL(ttl, l1TTL))
	c.metrics.RecordSet()

	if c.l2 == nil {
		return nil
	}
	err = c.breaker.Execute(func() error {
		return c.l2.Set(ctx, key, json.RawMessage(data), ttl)
	})
	if err != nil {
		c.metrics.RecordError()
	}
	return err
}

func (c *MultiLevelCache) Get(ctx context.Context, key string, dest interface{}) error {
	if data, found := c.l1.Get(key); found {
		c.metrics.RecordHit()
		return json.Unmarshal(data, dest)
	}

	if c.l2 == nil {
		c.metrics.RecordMiss()
		return ErrCacheMiss
	}

	var raw json.RawMessage
	err := c.breaker.Execute(func() error {
		return c.l2.Get(ctx, key, &raw)
	})
	switch {
	case err == nil:
	case err == ErrCacheMiss:
		c.metrics.RecordMiss()
		return err
	default:
		c.metrics.RecordError()
		return err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.metrics.RecordError()
		return fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	c.metrics.RecordHit()
	c.l1.Set(key, raw, l1TTL)
	return nil
}

func (c *MultiLevelCache) Delete(ctx context.Context, keys ...string) error {
	c.l1.Delete(keys...)
	c.metrics.RecordDelete()

	if c.l2 == nil {
		return nil
	}
	return c.breaker.Execute(func() error {
		return c.l2.Delete(ctx, keys...)
	})
}

func (c *MultiLevelCache) DeletePattern(ctx context.Context, pattern string) error {
	c.l1.DeletePattern(pattern)
	c.metrics.RecordDelete()

	if c.l2 == nil {
		return nil
	}
	return c.breaker.Execute(func() error {
		return c.l2.DeletePattern(ctx, pattern)
	})
}

func (c *MultiLevelCache) Stats() map[string]interface{} {
	metrics := c.metrics.GetStats()
	stats := map[string]interface{}{
		"l1":       c.l1.Stats(),
		"metrics":  metrics,
		"hit_rate": c.metrics.HitRate(),
		"breaker":  c.breaker.GetStats(),
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
		if err := c.l2.Close(); err != nil {
			log.Printf("Failed to close redis cache: %v", err)
			return err
		}
	}
	return nil
}

func minTTL(a, b time.Duration) time.Duration {
	if a <= 0 || a > b {
		return b
	}
	return a
}
