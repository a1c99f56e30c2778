package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/sirupsen/logrus"
)

// ListCache stores rendered todo listings per caller. Every todo write bumps
// the caller's version so older entries are never read again.
type ListCache struct {
	C   *cache.Cache
	TTL time.Duration
	L   *logrus.Logger
	// Shared is set when a Redis server backs C, so versions skip the
	// process local layer and are seen by every instance.
	Shared bool
}

func NewListCache(c *cache.Cache, ttl time.Duration, shared bool, l *logrus.Logger) *ListCache {
	return &ListCache{C: c, TTL: ttl, Shared: shared, L: l}
}

func versionKey(userID int64) string {
	return fmt.Sprintf("todos:version:%d", userID)
}

// version returns the caller's current version. A missing version, never
// written or evicted, is replaced by a fresh one so entries cached under an
// earlier version cannot be served again.
func (lc *ListCache) version(ctx context.Context, userID int64) (int64, error) {
	var v int64
	var err error
	if lc.Shared {
		err = lc.C.GetSkippingLocalCache(ctx, versionKey(userID), &v)
	} else {
		err = lc.C.Get(ctx, versionKey(userID), &v)
	}
	if errors.Is(err, cache.ErrCacheMiss) {
		return lc.bump(ctx, userID)
	}
	return v, err
}

func (lc *ListCache) bump(ctx context.Context, userID int64) (int64, error) {
	v := time.Now().UnixNano()
	err := lc.C.Set(&cache.Item{
		Ctx:            ctx,
		Key:            versionKey(userID),
		Value:          v,
		TTL:            2 * lc.TTL,
		SkipLocalCache: lc.Shared,
	})
	return v, err
}

// Key names the cached listing for a caller and a raw query string.
func (lc *ListCache) Key(ctx context.Context, userID int64, query string) (string, error) {
	v, err := lc.version(ctx, userID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("todos:list:%d:%d:%s", userID, v, query), nil
}

func (lc *ListCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var body []byte
	if err := lc.C.Get(ctx, key, &body); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			lc.L.Warnf("list cache get failed: %s", err.Error())
		}
		return nil, false
	}
	return body, true
}

func (lc *ListCache) Set(ctx context.Context, key string, body []byte) {
	if err := lc.C.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: body,
		TTL:   lc.TTL,
	}); err != nil {
		lc.L.Warnf("list cache set failed: %s", err.Error())
	}
}

// Invalidate drops every cached listing of the caller.
func (lc *ListCache) Invalidate(ctx context.Context, userID int64) {
	if lc == nil {
		return
	}
	if _, err := lc.bump(ctx, userID); err != nil {
		lc.L.Warnf("list cache invalidation failed: %s", err.Error())
	}
}
