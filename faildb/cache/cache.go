// Package cache adds read-through caching around a FailureStore. Reads may
// lag writes by up to the TTL; replaying a record that briefly outlived its
// removal is harmless, the runner skips stale failures.
package cache

import (
	"context"
	"time"

	"github.com/fnproject/quirk"
	"github.com/fnproject/quirk/common"
	"github.com/golang/groupcache/singleflight"
	"github.com/patrickmn/go-cache"
)

// EnvCacheTTL overrides how long cached reads are served before going back
// to the store.
const EnvCacheTTL = "QUIRK_CACHE_TTL"

type cacheFS struct {
	quirk.FailureStore

	cache        *cache.Cache
	singleflight singleflight.Group
}

// Wrap caches GetFailure and ListFailures results for the TTL
// (QUIRK_CACHE_TTL, default 5s). Writes pass through untouched.
func Wrap(fs quirk.FailureStore) quirk.FailureStore {
	ttl := common.GetEnvDuration(EnvCacheTTL, 5*time.Second)
	return &cacheFS{
		FailureStore: fs,
		cache:        cache.New(ttl, 1*time.Minute),
	}
}

func recordCacheKey(property, recID string) string {
	return "r:" + property + "\x00" + recID
}

func listCacheKey(property string) string {
	return "p:" + property
}

func (c *cacheFS) GetFailure(ctx context.Context, property, recID string) (*quirk.FailureRecord, error) {
	key := recordCacheKey(property, recID)
	rec, ok := c.cache.Get(key)
	if ok {
		return rec.(*quirk.FailureRecord), nil
	}

	resp, err := c.singleflight.Do(key,
		func() (interface{}, error) { return c.FailureStore.GetFailure(ctx, property, recID) },
	)
	if err != nil {
		return nil, err
	}
	rec = resp.(*quirk.FailureRecord)
	c.cache.Set(key, rec, cache.DefaultExpiration)
	return rec.(*quirk.FailureRecord), nil
}

func (c *cacheFS) ListFailures(ctx context.Context, property string) ([]*quirk.FailureRecord, error) {
	key := listCacheKey(property)
	recs, ok := c.cache.Get(key)
	if ok {
		return recs.([]*quirk.FailureRecord), nil
	}

	resp, err := c.singleflight.Do(key,
		func() (interface{}, error) { return c.FailureStore.ListFailures(ctx, property) },
	)
	if err != nil {
		return nil, err
	}
	recs = resp.([]*quirk.FailureRecord)
	c.cache.Set(key, recs, cache.DefaultExpiration)
	return recs.([]*quirk.FailureRecord), nil
}
