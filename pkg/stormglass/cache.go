package stormglass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"surf-forecast/internal/observability"
	"surf-forecast/pkg/redis"

	"go.uber.org/zap"
)

// CachedClient decorates a Fetcher with a Redis cache. Cache failures never fail a fetch.
type CachedClient struct {
	inner   Fetcher
	cache   redis.IRedisRepositories
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *zap.Logger
}

func NewCachedClient(inner Fetcher, cache redis.IRedisRepositories, ttl time.Duration, metrics *observability.Metrics, logger *zap.Logger) *CachedClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedClient{
		inner:   inner,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// cacheKey rounds coordinates to about a metre so nearby lookups share an entry.
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("forecast:%.5f,%.5f", lat, lng)
}

func (c *CachedClient) FetchPoints(ctx context.Context, lat, lng float64) ([]ForecastPoint, error) {
	if c.ttl <= 0 {
		return c.inner.FetchPoints(ctx, lat, lng)
	}

	key := cacheKey(lat, lng)
	if points, ok := c.lookup(ctx, key); ok {
		return points, nil
	}

	points, err := c.inner.FetchPoints(ctx, lat, lng)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(points)
	if err != nil {
		c.logger.Warn("Failed to encode forecast for cache", zap.String("key", key), zap.Error(err))
		return points, nil
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache forecast", zap.String("key", key), zap.Error(err))
	}
	return points, nil
}

func (c *CachedClient) lookup(ctx context.Context, key string) ([]ForecastPoint, bool) {
	raw, err := c.cache.Get(ctx, key)
	if errors.Is(err, redis.ErrKeyNotFound) {
		c.count("miss")
		return nil, false
	}
	if err != nil {
		c.count("error")
		c.logger.Warn("Forecast cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var points []ForecastPoint
	if err := json.Unmarshal([]byte(raw), &points); err != nil {
		c.count("error")
		c.logger.Warn("Dropping malformed cached forecast", zap.String("key", key), zap.Error(err))
		_ = c.cache.Del(ctx, key)
		return nil, false
	}

	c.count("hit")
	return points, true
}

func (c *CachedClient) count(result string) {
	if c.metrics != nil {
		c.metrics.ForecastCache.WithLabelValues(result).Inc()
	}
}
