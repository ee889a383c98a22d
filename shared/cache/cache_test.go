package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condo/infras/otel/mocks"
	"condo/shared/cache"
)

type payload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) cache.RedisCache {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := goRedis.NewClient(&goRedis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel())
}

func TestRedisCache_SaveAndGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	saved := payload{ID: "area-pool", Name: "Swimming Pool"}
	require.NoError(t, c.Save(ctx, "area:get:area-pool", saved, 60))

	var loaded payload
	require.NoError(t, c.Get(ctx, "area:get:area-pool", &loaded))
	assert.Equal(t, saved, loaded)
}

func TestRedisCache_SaveAndGetString(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "plain", "hello", 60))

	var loaded string
	require.NoError(t, c.Get(ctx, "plain", &loaded))
	assert.Equal(t, "hello", loaded)
}

func TestRedisCache_GetMiss(t *testing.T) {
	c := newTestCache(t)

	var loaded payload
	err := c.Get(context.Background(), "missing", &loaded)

	assert.Error(t, err)
	assert.ErrorIs(t, err, cache.Nil)
}

func TestRedisCache_Delete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "reservation:get:res-1", payload{ID: "res-1"}, 60))
	require.NoError(t, c.Delete(ctx, "reservation:get:res-1"))

	var loaded payload
	assert.Error(t, c.Get(ctx, "reservation:get:res-1", &loaded))
}

func TestRedisCache_ClearPrefix(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, "reservation:gets:a", payload{ID: "a"}, 60))
	require.NoError(t, c.Save(ctx, "reservation:gets:b", payload{ID: "b"}, 60))
	require.NoError(t, c.Save(ctx, "area:get:pool", payload{ID: "pool"}, 60))

	require.NoError(t, c.Clear(ctx, "reservation:gets:*"))

	var loaded payload
	assert.Error(t, c.Get(ctx, "reservation:gets:a", &loaded))
	assert.Error(t, c.Get(ctx, "reservation:gets:b", &loaded))
	assert.NoError(t, c.Get(ctx, "area:get:pool", &loaded))
}
