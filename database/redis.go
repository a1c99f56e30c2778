package database

import (
	"context"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
)

const sharedLocalTTL = time.Minute

// StartRedis connects the cache backing store. With an empty url only the
// in-process TinyLFU layer is used, items live for localTTL and the returned
// client is nil. With Redis the local layer is a short read-through in front
// of Redis, which honors each item's TTL.
func StartRedis(url string, localTTL time.Duration) (*redis.Client, *cache.Cache, error) {
	if url == "" {
		return nil, NewLocalCache(localTTL), nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := NewDBContext(5 * time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, err
	}

	rcache := cache.New(&cache.Options{
		Redis:      rdb,
		LocalCache: cache.NewTinyLFU(1000, sharedLocalTTL),
	})
	return rdb, rcache, nil
}

// NewLocalCache builds a cache without Redis, used in development and tests.
// The TinyLFU layer ignores per item TTLs, so every entry lives for ttl.
func NewLocalCache(ttl time.Duration) *cache.Cache {
	return cache.New(&cache.Options{
		LocalCache: cache.NewTinyLFU(1000, ttl),
	})
}

// RedisPinger adapts a redis client to the health probe.
type RedisPinger struct {
	Client *redis.Client
}

func (p RedisPinger) PingContext(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}
