package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"budgetwise/internal/analytics"
	"budgetwise/internal/logger"
	"budgetwise/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Redis is a DashboardCache backed by redis. Failures are logged and treated
// as misses; the cache never fails a request.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and verifies the server is reachable.
func Connect(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return NewRedis(client, ttl), nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) generation(ctx context.Context, ownerID string) (string, error) {
	gen, err := r.client.Get(ctx, generationKey(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

func (r *Redis) Get(ctx context.Context, key Key) (*analytics.Dashboard, string, bool) {
	gen, err := r.generation(ctx, key.OwnerID)
	if err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		logger.Get().Warnw("dashboard cache generation lookup failed", "user_id", key.OwnerID, "error", err)
		return nil, "", false
	}
	token := dashboardKey(gen, key)

	data, err := r.client.Get(ctx, token).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		return nil, token, false
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		logger.Get().Warnw("dashboard cache read failed", "key", token, "error", err)
		return nil, token, false
	}

	var dash analytics.Dashboard
	if err := json.Unmarshal(data, &dash); err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		logger.Get().Warnw("dashboard cache entry unreadable", "key", token, "error", err)
		return nil, token, false
	}

	metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
	return &dash, token, true
}

func (r *Redis) Set(ctx context.Context, token string, dash *analytics.Dashboard) {
	if token == "" || dash == nil {
		return
	}
	data, err := json.Marshal(dash)
	if err != nil {
		logger.Get().Warnw("dashboard cache encode failed", "error", err)
		return
	}
	if err := r.client.Set(ctx, token, data, r.ttl).Err(); err != nil {
		logger.Get().Warnw("dashboard cache write failed", "key", token, "error", err)
	}
}

func (r *Redis) Invalidate(ctx context.Context, ownerID string) {
	if err := r.client.Incr(ctx, generationKey(ownerID)).Err(); err != nil {
		logger.Get().Errorw("dashboard cache invalidation failed", "user_id", ownerID, "error", err)
	}
}
