package predictor

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/couchcryptid/solarsite-service/internal/domain"
	"github.com/couchcryptid/solarsite-service/internal/observability"
)

// CachedPredictor wraps a Predictor with an in-memory LRU cache keyed on the
// normalized place name.
type CachedPredictor struct {
	inner   domain.Predictor
	cache   *lruCache[[]domain.Candidate]
	metrics *observability.Metrics
}

// NewCachedPredictor creates a cache decorator around a predictor.
func NewCachedPredictor(inner domain.Predictor, maxEntries int, metrics *observability.Metrics) *CachedPredictor {
	return &CachedPredictor{
		inner:   inner,
		cache:   newLRUCache[[]domain.Candidate](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedPredictor) Predict(ctx context.Context, place string) ([]domain.Candidate, error) {
	key := cacheKey(place)
	if cands, ok := c.cache.get(key); ok {
		c.metrics.PredictCache.WithLabelValues("hit").Inc()
		return slices.Clone(cands), nil
	}
	c.metrics.PredictCache.WithLabelValues("miss").Inc()

	cands, err := c.inner.Predict(ctx, place)
	if err != nil {
		return cands, err
	}
	// Only cache non-empty results so a region without data can be retried.
	if len(cands) > 0 {
		c.cache.put(key, slices.Clone(cands))
	}
	return cands, nil
}

func cacheKey(place string) string {
	return strings.ToLower(strings.Join(strings.Fields(place), " "))
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	tail := c.tail
	delete(c.entries, tail.key)
	c.remove(tail)
}
