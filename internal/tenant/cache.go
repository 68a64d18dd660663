// internal/tenant/cache.go
//
// In-process cache for custom-domain resolutions.
//
// Context
// -------
// Custom-domain lookups cost one backend round trip each, so results are
// cached per hostname: positives until idle eviction, negatives for a
// short TTL so a hostile scan of unknown hostnames cannot become a
// backend flood, while a freshly connected customer domain still starts
// serving within seconds of being registered.
//
// Concurrent first hits on the same hostname are collapsed by
// singleflight, so a traffic burst to a cold domain triggers exactly one
// validation call.
//
// Notes
//   - The load function is injected; the cache knows nothing about HTTP.
//   - Load errors are converted to fail-closed negative entries here, so
//     Get never fails and nothing propagates into the request pipeline.
package tenant

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/inmosite/gateway/internal/metrics"
)

// Static defaults.  Override via CacheOptions.
const (
	DefaultIdleTTL     = 30 * time.Minute
	DefaultNegativeTTL = 30 * time.Second
	DefaultMaxEntries  = 1000
	evictInterval      = 5 * time.Minute
)

// LoadFunc resolves one hostname, typically via backend validation.
type LoadFunc func(ctx context.Context, hostname string) (*Resolved, error)

// CacheOptions tunes a Cache.  Zero values fall back to the defaults.
type CacheOptions struct {
	IdleTTL     time.Duration
	NegativeTTL time.Duration
	MaxEntries  int
}

type entry struct {
	res      *Resolved
	lastSeen int64 // UnixNano, touched on every hit
	expires  int64 // UnixNano hard expiry for negative entries, 0 = none
}

// Cache lazily resolves hostnames, stores results in a sync.Map, and
// evicts them on idle TTL, negative expiry, or LRU pressure.
type Cache struct {
	load        LoadFunc
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	idleTTL     time.Duration
	negativeTTL time.Duration
	maxEntries  int
}

// NewCache constructs a Cache and starts the background evictor.
func NewCache(load LoadFunc, opts CacheOptions) *Cache {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.NegativeTTL <= 0 {
		opts.NegativeTTL = DefaultNegativeTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	c := &Cache{
		load:        load,
		idleTTL:     opts.IdleTTL,
		negativeTTL: opts.NegativeTTL,
		maxEntries:  opts.MaxEntries,
	}
	c.evictTicker = time.NewTicker(evictInterval)
	go c.evictLoop()
	return c
}

// Get returns the resolution for hostname, loading it on demand.  Get
// never fails: load errors become fail-closed non-existent tenants.
func (c *Cache) Get(ctx context.Context, hostname string) *Resolved {
	now := time.Now().UnixNano()
	if v, ok := c.m.Load(hostname); ok {
		ent := v.(*entry)
		if exp := atomic.LoadInt64(&ent.expires); exp == 0 || now < exp {
			atomic.StoreInt64(&ent.lastSeen, now)
			return ent.res
		}
		// The evict loop may race us to the same expired entry; only the
		// side that actually removed it adjusts the gauge.
		if _, loaded := c.m.LoadAndDelete(hostname); loaded {
			metrics.ActiveTenants.Dec()
		}
	}

	v, _, _ := c.sfg.Do(hostname, func() (interface{}, error) {
		// Double-check after the singleflight barrier.
		if v, ok := c.m.Load(hostname); ok {
			ent := v.(*entry)
			if exp := atomic.LoadInt64(&ent.expires); exp == 0 || time.Now().UnixNano() < exp {
				atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
				return ent.res, nil
			}
		}

		res, err := c.load(ctx, hostname)
		if err != nil || res == nil {
			if err != nil {
				zap.S().Warnw("tenant resolution failed closed",
					"host", hostname, "err", err)
			}
			res = &Resolved{Exists: false}
		}

		ent := &entry{res: res, lastSeen: time.Now().UnixNano()}
		if !res.Exists {
			ent.expires = time.Now().Add(c.negativeTTL).UnixNano()
		}
		c.m.Store(hostname, ent)
		metrics.TenantLoadTotal.Inc()
		metrics.ActiveTenants.Inc()
		return res, nil
	})
	return v.(*Resolved)
}
