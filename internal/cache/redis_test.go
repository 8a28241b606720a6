package cache

import (
	"context"
	"testing"
	"time"

	"budgetwise/internal/analytics"
	"budgetwise/internal/logger"
	"budgetwise/internal/money"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Init("test")
}

func newTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, time.Minute), mr
}

func testKey(owner string) Key {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	return Key{OwnerID: owner, Range: analytics.MonthWindow(now), Today: analytics.StartOfDay(now)}
}

func testDashboard() *analytics.Dashboard {
	return &analytics.Dashboard{
		Summary:  analytics.Summary{TotalIncome: money.MustParse("3000"), TotalExpenses: money.MustParse("1020"), TransactionCount: 4},
		Insights: analytics.Insights{TopCategory: "Housing", AverageDailySpending: money.MustParse("32.90")},
	}
}

func TestRedisGetSet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := testKey("user-1")

	_, token, ok := c.Get(ctx, key)
	require.False(t, ok)
	require.NotEmpty(t, token)

	c.Set(ctx, token, testDashboard())

	got, _, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, money.MustParse("1020"), got.Summary.TotalExpenses)
	assert.Equal(t, money.MustParse("32.90"), got.Insights.AverageDailySpending)
	assert.Equal(t, "Housing", got.Insights.TopCategory)
}

func TestRedisInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, token, _ := c.Get(ctx, testKey("user-1"))
	c.Set(ctx, token, testDashboard())
	_, otherToken, _ := c.Get(ctx, testKey("user-2"))
	c.Set(ctx, otherToken, testDashboard())

	c.Invalidate(ctx, "user-1")

	_, _, ok := c.Get(ctx, testKey("user-1"))
	assert.False(t, ok, "invalidated owner must miss")
	_, _, ok = c.Get(ctx, testKey("user-2"))
	assert.True(t, ok, "other owners are unaffected")
}

func TestRedisSetAfterConcurrentInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := testKey("user-1")

	_, token, _ := c.Get(ctx, key)
	// a mutation lands while the stale view is being composed
	c.Invalidate(ctx, "user-1")
	c.Set(ctx, token, testDashboard())

	_, _, ok := c.Get(ctx, key)
	assert.False(t, ok, "a view computed before invalidation must not be served")
}

func TestRedisTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := testKey("user-1")

	_, token, _ := c.Get(ctx, key)
	c.Set(ctx, token, testDashboard())
	mr.FastForward(2 * time.Minute)

	_, _, ok := c.Get(ctx, key)
	assert.False(t, ok)
}

func TestRedisUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	c := NewRedis(client, time.Minute)
	mr.Close()

	_, token, ok := c.Get(context.Background(), testKey("user-1"))
	assert.False(t, ok)
	assert.Empty(t, token)
	c.Set(context.Background(), token, testDashboard())
	c.Invalidate(context.Background(), "user-1")
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := Connect(context.Background(), "redis://"+mr.Addr(), time.Minute)
	require.NoError(t, err)
	assert.NoError(t, c.Close())

	_, err = Connect(context.Background(), "not a url", time.Minute)
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	var c DashboardCache = Noop{}
	_, token, ok := c.Get(context.Background(), testKey("user-1"))
	assert.False(t, ok)
	assert.Empty(t, token)
}
