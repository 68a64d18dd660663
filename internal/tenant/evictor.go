// evictor.go houses the eviction loop for Cache.  Every evictInterval it
// scans the map and removes:
//
//   - negative entries past their hard expiry
//   - entries idle longer than idleTTL
//   - least-recently-used entries when map size exceeds maxEntries
//
// Each eviction updates the Prometheus counters.
package tenant

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/inmosite/gateway/internal/metrics"
)

func (c *Cache) evictLoop() {
	for range c.evictTicker.C {
		now := time.Now().UnixNano()
		var count int

		// Expiry and idle pass.
		c.m.Range(func(key, value any) bool {
			count++
			ent := value.(*entry)

			if exp := atomic.LoadInt64(&ent.expires); exp != 0 && now >= exp {
				if _, loaded := c.m.LoadAndDelete(key); loaded {
					count--
					metrics.TenantEvictTotal.Inc()
					metrics.ActiveTenants.Dec()
				}
				return true
			}

			idle := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
			if idle > c.idleTTL {
				if _, loaded := c.m.LoadAndDelete(key); loaded {
					count--
					zap.S().Infow("tenant evicted",
						"host", key, "idle", idle.Truncate(time.Second))
					metrics.TenantEvictTotal.Inc()
					metrics.ActiveTenants.Dec()
				}
			}
			return true
		})

		// LRU pressure pass.
		if c.maxEntries > 0 && count > c.maxEntries {
			type kv struct {
				key string
				at  int64
			}
			var all []kv
			c.m.Range(func(key, value any) bool {
				ent := value.(*entry)
				all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&ent.lastSeen)})
				return true
			})
			sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
			for i := 0; i < count-c.maxEntries && i < len(all); i++ {
				if _, loaded := c.m.LoadAndDelete(all[i].key); loaded {
					zap.S().Infow("tenant evicted", "host", all[i].key, "reason", "lru")
					metrics.TenantEvictTotal.Inc()
					metrics.ActiveTenants.Dec()
				}
			}
		}
	}
}

// Stop halts the eviction loop.  Used by tests; the production cache
// lives for the whole process.
func (c *Cache) Stop() { c.evictTicker.Stop() }
