package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *RedisDistanceCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDistanceCache(client)
}

func TestDistanceCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "oslo|lisbon")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "oslo|lisbon", 2450.5))

	km, ok, err := c.Get(ctx, "oslo|lisbon")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 2450.5, km, 0.001)
}

func TestDistanceCacheRejectsBadInput(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, _, err := c.Get(ctx, "")
	assert.Error(t, err)

	assert.Error(t, c.Put(ctx, "", 100))
	assert.Error(t, c.Put(ctx, "oslo|lisbon", -5))
}
