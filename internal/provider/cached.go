package provider

import (
	"context"
	"time"

	"github.com/wonny/valuescan/internal/contracts"
	"github.com/wonny/valuescan/internal/telemetry"
	"github.com/wonny/valuescan/pkg/logger"
	"github.com/wonny/valuescan/pkg/redis"
)

// Cached serves fundamentals from Redis and fills it on miss.
// Cache failures are logged and never fail a fetch.
type Cached struct {
	inner   contracts.FundamentalsProvider
	cache   *redis.Cache
	ttl     time.Duration
	metrics *telemetry.Metrics
	logger  *logger.Logger
}

// NewCached wraps inner with a cache
func NewCached(inner contracts.FundamentalsProvider, cache *redis.Cache, ttl time.Duration, metrics *telemetry.Metrics, log *logger.Logger) *Cached {
	if ttl <= 0 {
		ttl = redis.TTLDaily
	}
	return &Cached{
		inner:   inner,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
		logger:  log.WithField("module", "provider_cache"),
	}
}

// Name implements contracts.FundamentalsProvider
func (c *Cached) Name() string {
	return c.inner.Name()
}

// Fetch implements contracts.FundamentalsProvider
func (c *Cached) Fetch(ctx context.Context, symbol string) (*contracts.RawFundamentals, error) {
	key := redis.FundamentalsKey(c.inner.Name(), symbol)

	var cached contracts.RawFundamentals
	hit, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Cache read failed")
	}
	if hit {
		c.metrics.CacheResult(true)
		return &cached, nil
	}
	c.metrics.CacheResult(false)

	raw, err := c.inner.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Cache write failed")
	}

	return raw, nil
}
