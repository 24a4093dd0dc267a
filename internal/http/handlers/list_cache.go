package handlers

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/geocoder89/cityevents/internal/cache"
	"github.com/geocoder89/cityevents/internal/observability"
)

// listCache wraps a cache.Store for one resource. Cache failures only degrade
// to a store read; they never fail the request.
//
// Every invalidate bumps a generation counter. A body read from the store is
// only cached if no invalidate ran since its read began, so a slow list cannot
// overwrite the cache with rows older than a committed write. The counter is
// per process; across replicas sharing Redis a stale body can still survive
// until its TTL.
type listCache struct {
	store    cache.Store
	prom     *observability.Prom
	log      *slog.Logger
	resource string
	gen      atomic.Uint64
}

func newListCache(store cache.Store, prom *observability.Prom, log *slog.Logger, resource string) *listCache {
	return &listCache{store: store, prom: prom, log: log, resource: resource}
}

// generation must be taken before the store read whose result is passed to set.
func (c *listCache) generation() uint64 {
	return c.gen.Load()
}

func (c *listCache) get(ctx context.Context, key string) ([]byte, bool) {
	if c.store == nil {
		return nil, false
	}

	b, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.prom.ObserveCache(c.resource, "error")
		c.log.WarnContext(ctx, "cache get failed", "key", key, "error", err)
		return nil, false
	case ok:
		c.prom.ObserveCache(c.resource, "hit")
		return b, true
	default:
		c.prom.ObserveCache(c.resource, "miss")
		return nil, false
	}
}

func (c *listCache) set(ctx context.Context, key string, b []byte, readGen uint64) {
	if c.store == nil || c.gen.Load() != readGen {
		return
	}
	if err := c.store.Set(ctx, key, b); err != nil {
		c.log.WarnContext(ctx, "cache set failed", "key", key, "error", err)
		return
	}
	// an invalidate may have run between the check and the write
	if c.gen.Load() != readGen {
		if err := c.store.DeletePrefix(ctx, key); err != nil {
			c.log.WarnContext(ctx, "cache set rollback failed", "key", key, "error", err)
		}
	}
}

func (c *listCache) invalidate(ctx context.Context, prefix string) {
	c.gen.Add(1)
	if c.store == nil {
		return
	}
	if err := c.store.DeletePrefix(ctx, prefix); err != nil {
		c.log.WarnContext(ctx, "cache invalidation failed", "prefix", prefix, "error", err)
	}
}
