package lru

import (
	"time"

	"github.com/karlseguin/ccache/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// getsPerPromote is how often an item has to be read before it is moved
// to the front of the LRU list
const getsPerPromote = 64

// itemsToPruneDiv prunes 1/16 of the items when the cache is full
const itemsToPruneDiv = 16

// Cache wraps a ccache and records entries and hits/misses in Prometheus.
type Cache struct {
	op            string
	ttl           time.Duration
	cache         *ccache.Cache
	cachedEntries *prometheus.GaugeVec
	cacheRequests *prometheus.CounterVec
}

// New creates an LRU cache holding at most maxEntries items for ttl each
func New(op string, maxEntries int64, ttl time.Duration, cachedEntries *prometheus.GaugeVec, cacheRequests *prometheus.CounterVec) *Cache {
	configuration := ccache.Configure()
	configuration.MaxSize(maxEntries)
	configuration.ItemsToPrune(uint32(maxEntries/itemsToPruneDiv) + 1)
	configuration.GetsPerPromote(getsPerPromote)
	configuration.OnDelete(func(*ccache.Item) {
		cachedEntries.WithLabelValues(op).Dec()
	})

	return &Cache{
		op:            op,
		ttl:           ttl,
		cache:         ccache.New(configuration),
		cachedEntries: cachedEntries,
		cacheRequests: cacheRequests,
	}
}

// FindOrFetch returns the cached item for key unless it expired, otherwise
// it stores and returns the result of fetchFn.
func (c *Cache) FindOrFetch(key string, fetchFn func() (interface{}, error)) (interface{}, error) {
	item := c.cache.Get(key)

	if item != nil && !item.Expired() {
		c.cacheRequests.WithLabelValues(c.op, "hit").Inc()
		return item.Value(), nil
	}

	value, err := fetchFn()
	if err != nil {
		c.cacheRequests.WithLabelValues(c.op, "error").Inc()
		return nil, err
	}

	c.cacheRequests.WithLabelValues(c.op, "miss").Inc()
	c.cachedEntries.WithLabelValues(c.op).Inc()

	c.cache.Set(key, value, c.ttl)

	return value, nil
}

// Stop the background worker of the underlying cache
func (c *Cache) Stop() {
	c.cache.Stop()
}
