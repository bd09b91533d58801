package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/domain/entity"
)

// RatesCacheKey is the Redis key holding the BRL rates.
const RatesCacheKey = "rates:BRL"

// MemoryRateCache keeps the rates in process.
type MemoryRateCache struct {
	mu        sync.RWMutex
	rates     *entity.MarketRates
	expiresAt time.Time
	now       func() time.Time
}

// NewMemoryRateCache creates an empty in-process cache.
func NewMemoryRateCache() *MemoryRateCache {
	return &MemoryRateCache{now: time.Now}
}

// Get implements adapter.RateCache.
func (c *MemoryRateCache) Get(_ context.Context) (*entity.MarketRates, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.rates == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	return c.rates, true, nil
}

// Set implements adapter.RateCache.
func (c *MemoryRateCache) Set(_ context.Context, rates *entity.MarketRates, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates = rates
	c.expiresAt = c.now().Add(ttl)
	return nil
}

// RedisRateCache stores the rates in Redis and keeps a local copy used
// whenever Redis cannot be reached.
type RedisRateCache struct {
	client *redis.Client
	local  *MemoryRateCache
}

// NewRateCache returns a Redis backed cache, or a memory cache when client
// is nil.
func NewRateCache(client *redis.Client) adapter.RateCache {
	if client == nil {
		return NewMemoryRateCache()
	}
	return &RedisRateCache{client: client, local: NewMemoryRateCache()}
}

// Get implements adapter.RateCache.
func (c *RedisRateCache) Get(ctx context.Context) (*entity.MarketRates, bool, error) {
	data, err := c.client.Get(ctx, RatesCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		slog.Warn("Redis unavailable, using local rates cache", "error", err)
		return c.local.Get(ctx)
	}

	var rates entity.MarketRates
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached rates: %w", err)
	}
	return &rates, true, nil
}

// Set implements adapter.RateCache.
func (c *RedisRateCache) Set(ctx context.Context, rates *entity.MarketRates, ttl time.Duration) error {
	_ = c.local.Set(ctx, rates, ttl)

	data, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	if err := c.client.Set(ctx, RatesCacheKey, data, ttl).Err(); err != nil {
		slog.Warn("Failed to store rates in Redis", "error", err)
	}
	return nil
}
