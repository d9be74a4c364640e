package lyrics

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/contre95/soullyrics/src/features/config"
	"github.com/contre95/soullyrics/src/features/metrics"
	"github.com/contre95/soullyrics/src/music"
	"golang.org/x/text/unicode/norm"
)

// DefaultTTL is how long a resolved result stays cached.
const DefaultTTL = 604800 * time.Second

// Cache memoizes resolution outcomes per track. Storage faults never reach the
// caller: the store is recreated and the lookup proceeds as a miss.
type Cache struct {
	store     Store
	ttl       time.Duration
	normalize bool
	metrics   *metrics.Metrics
	config    *config.Manager

	recoverMu sync.Mutex
}

// NewCache wraps store. A nil store disables caching.
func NewCache(store Store, ttl time.Duration, normalizeKeys bool, m *metrics.Metrics) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Cache{store: store, ttl: ttl, normalize: normalizeKeys, metrics: m}
}

// UseConfig makes the cache follow cache.enabled at runtime: while it is off every
// lookup goes straight to the engine and nothing is stored.
func (c *Cache) UseConfig(cfg *config.Manager) *Cache {
	c.config = cfg
	return c
}

// Enabled reports whether lookups currently go through the store.
func (c *Cache) Enabled() bool {
	if c == nil || c.store == nil {
		return false
	}
	return c.config == nil || c.config.Get().Cache.Enabled
}

// Key returns the cache key of a track.
func (c *Cache) Key(track *music.Track) string {
	key := track.Key()
	if !c.normalize {
		return key
	}
	key = norm.NFKC.String(strings.ToLower(key))
	return strings.Join(strings.Fields(key), " ")
}

// GetOrCompute returns the cached outcome for track, or runs compute and stores its
// outcome. With force set the cached value is ignored and overwritten. The bool
// reports whether the outcome came from the cache.
func (c *Cache) GetOrCompute(ctx context.Context, track *music.Track, wantSync, force bool, compute func() Outcome) (Outcome, bool) {
	if !c.Enabled() {
		return compute(), false
	}
	key := c.Key(track)

	if !force {
		entry, ok, err := c.store.Get(key)
		switch {
		case err != nil:
			c.metrics.CacheLookups.WithLabelValues("error").Inc()
			slog.Warn("Lyrics cache read failed, recreating", "key", key, "error", err)
			c.recreate()
		case ok && entry.Result.Lyrics != "":
			c.metrics.CacheLookups.WithLabelValues("hit").Inc()
			slog.Debug("Lyrics cache hit", "key", key, "service", entry.Result.Service)
			return Outcome{Result: entry.Result, Cursor: entry.Cursor}, true
		default:
			c.metrics.CacheLookups.WithLabelValues("miss").Inc()
		}
	}

	outcome := compute()

	entry := Entry{Result: outcome.Result, Cursor: outcome.Cursor}
	if err := c.store.Set(key, entry, c.ttl); err != nil {
		slog.Warn("Lyrics cache write failed, recreating and dropping entry", "key", key, "sync", wantSync, "error", err)
		c.recreate()
	}
	return outcome, false
}

func (c *Cache) recreate() {
	c.recoverMu.Lock()
	defer c.recoverMu.Unlock()
	c.metrics.CacheRecreations.Inc()
	if err := c.store.Recreate(); err != nil {
		slog.Error("Failed to recreate lyrics cache", "error", err)
	}
}
