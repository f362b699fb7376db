package service

import (
	"carevo_backend/pkg/logger"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// JobCache stores successful job searches. Misses and cache errors look the same.
type JobCache interface {
	Get(ctx context.Context, key string) (JobSearchResult, bool)
	Set(ctx context.Context, key string, value JobSearchResult, ttl time.Duration)
}

type RedisJobCache struct {
	Redis *redis.Client
}

func NewRedisJobCache(rdb *redis.Client) *RedisJobCache {
	return &RedisJobCache{Redis: rdb}
}

func (c *RedisJobCache) Get(ctx context.Context, key string) (JobSearchResult, bool) {
	val, err := c.Redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("job cache read failed", zap.String("key", key), zap.Error(err))
		}
		return JobSearchResult{}, false
	}

	var res JobSearchResult
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		return JobSearchResult{}, false
	}
	return res, true
}

func (c *RedisJobCache) Set(ctx context.Context, key string, value JobSearchResult, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Log.Warn("job cache write failed", zap.String("key", key), zap.Error(err))
	}
}

type memoryEntry struct {
	value     JobSearchResult
	expiresAt time.Time
}

// MemoryJobCache is the in-process cache used when redis is disabled.
type MemoryJobCache struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   Clock
}

func NewMemoryJobCache(now Clock) *MemoryJobCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryJobCache{items: make(map[string]memoryEntry), now: now}
}

func (c *MemoryJobCache) Get(_ context.Context, key string) (JobSearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return JobSearchResult{}, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.items, key)
		return JobSearchResult{}, false
	}
	return e.value, true
}

func (c *MemoryJobCache) Set(_ context.Context, key string, value JobSearchResult, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
}
