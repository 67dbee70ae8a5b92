package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/pkg/cache"
)

func newMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	return miniredis.RunT(t)
}

func TestOpenRedis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		_, err := cache.OpenRedis(ctx, cache.RedisConfig{})
		require.ErrorIs(t, err, cache.ErrEmptyConnectionURL)
	})

	t.Run("bad scheme", func(t *testing.T) {
		t.Parallel()
		_, err := cache.OpenRedis(ctx, cache.RedisConfig{URL: "http://localhost"})
		require.ErrorIs(t, err, cache.ErrFailedToParseURL)
	})

	t.Run("connects and reports healthy", func(t *testing.T) {
		t.Parallel()
		mr := newMiniredis(t)

		client, err := cache.OpenRedis(ctx, cache.RedisConfig{URL: "redis://" + mr.Addr(), RetryAttempts: 1})
		require.NoError(t, err)
		require.NoError(t, cache.RedisHealthcheck(client)(ctx))
		require.NoError(t, cache.RedisShutdown(client)(ctx))
		require.Error(t, cache.RedisHealthcheck(client)(ctx))
	})

	t.Run("nil client is unhealthy", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, cache.RedisHealthcheck(nil)(ctx), cache.ErrHealthcheckFailed)
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()
		mr := newMiniredis(t)
		addr := mr.Addr()
		mr.Close()

		_, err := cache.OpenRedis(ctx, cache.RedisConfig{
			URL:           "redis://" + addr,
			RetryAttempts: 2,
			RetryInterval: time.Millisecond,
		})
		require.ErrorIs(t, err, cache.ErrConnectionFailed)
	})
}

func TestRedis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr := newMiniredis(t)
	client, err := cache.OpenRedis(ctx, cache.RedisConfig{URL: "redis://" + mr.Addr(), RetryAttempts: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	type user struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	c := cache.NewRedis[user](client, nil, cache.WithPrefix("users"), cache.WithRedisDefaultTTL(time.Minute))

	t.Run("miss", func(t *testing.T) {
		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("set uses prefix and ttl", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "1", user{ID: "1", Name: "Ann"}, 0))
		require.True(t, mr.Exists("users:1"))
		require.Equal(t, time.Minute, mr.TTL("users:1"))

		got, err := c.Get(ctx, "1")
		require.NoError(t, err)
		require.Equal(t, "Ann", got.Name)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "2", user{ID: "2"}, -1))
		require.Equal(t, time.Duration(0), mr.TTL("users:2"))
	})

	t.Run("entries expire", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "3", user{ID: "3"}, time.Second))
		mr.FastForward(2 * time.Second)
		_, err := c.Get(ctx, "3")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "4", user{ID: "4"}, 0))
		require.NoError(t, c.Delete(ctx, "4"))
		require.False(t, mr.Exists("users:4"))
		require.NoError(t, c.Close())
	})

	t.Run("get or set", func(t *testing.T) {
		calls := 0
		load := func(context.Context) (user, time.Duration, error) {
			calls++
			return user{ID: "5", Name: "Bo"}, time.Minute, nil
		}
		for range 2 {
			got, err := cache.GetOrSet[user](ctx, c, "5", load)
			require.NoError(t, err)
			require.Equal(t, "Bo", got.Name)
		}
		require.Equal(t, 1, calls)
	})
}
