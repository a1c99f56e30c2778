package database

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRedis_LocalOnlyWithoutURL(t *testing.T) {
	rdb, rcache, err := StartRedis("", time.Minute)
	require.NoError(t, err)
	assert.Nil(t, rdb)
	require.NotNil(t, rcache)

	ctx := context.Background()
	require.NoError(t, rcache.Set(&cache.Item{Ctx: ctx, Key: "k", Value: "v", TTL: time.Minute}))

	var got string
	require.NoError(t, rcache.Get(ctx, "k", &got))
	assert.Equal(t, "v", got)
}

func TestStartRedis_BadURL(t *testing.T) {
	_, _, err := StartRedis("not a url", time.Minute)
	assert.Error(t, err)
}

func TestNewLocalCache_UsesGivenTTL(t *testing.T) {
	ctx := context.Background()
	short := NewLocalCache(50 * time.Millisecond)
	long := NewLocalCache(time.Hour)

	for _, c := range []*cache.Cache{short, long} {
		require.NoError(t, c.Set(&cache.Item{Ctx: ctx, Key: "k", Value: "v", TTL: 24 * time.Hour}))
	}
	time.Sleep(200 * time.Millisecond)

	var got string
	assert.ErrorIs(t, short.Get(ctx, "k", &got), cache.ErrCacheMiss)
	require.NoError(t, long.Get(ctx, "k", &got))
	assert.Equal(t, "v", got)
}
