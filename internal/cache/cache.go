// Package cache provides a sharded, size-bounded LRU cache with TTL expiry.
package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"
)

// Cache defines the cache operations used by the service.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Invalidate(key string)
	Clear()
	Stop()
}

// Metrics provides cache performance counters.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// WithMetrics extends Cache with metrics reporting.
type WithMetrics[V any] interface {
	Cache[V]
	Metrics() Metrics
}

// Observer is called for every cache operation with the operation name
// ("get", "set", "evict", "invalidate", "clear") and its result.
type Observer func(operation, result string)

// Option configures a cache.
type Option func(*options)

type options struct {
	observer Observer
	clock    func() time.Time
	shards   int
}

// WithObserver reports operations to fn.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		if fn != nil {
			o.observer = fn
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(fn func() time.Time) Option {
	return func(o *options) {
		if fn != nil {
			o.clock = fn
		}
	}
}

// WithShards sets the shard count. It is rounded up to a power of two.
func WithShards(n int) Option {
	return func(o *options) {
		o.shards = n
	}
}

const defaultShards = 16

// Sharded spreads entries over independent LRU shards to reduce lock
// contention.
type Sharded[V any] struct {
	shards    []*lru[V]
	shardMask uint32
}

// New creates a sharded cache holding roughly capacity entries in total.
func New[V any](capacity int, ttl time.Duration, opts ...Option) *Sharded[V] {
	o := options{
		observer: func(string, string) {},
		clock:    time.Now,
		shards:   defaultShards,
	}
	for _, opt := range opts {
		opt(&o)
	}

	n := 1
	for n < o.shards {
		n *= 2
	}

	perShard := capacity / n
	if perShard < 1 {
		perShard = 1
	}

	shards := make([]*lru[V], n)
	for i := range shards {
		shards[i] = newLRU[V](perShard, ttl, o)
	}
	return &Sharded[V]{shards: shards, shardMask: uint32(n - 1)}
}

func (s *Sharded[V]) shard(key string) *lru[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()&s.shardMask]
}

// Get returns the value for key if present and not expired.
func (s *Sharded[V]) Get(key string) (V, bool) { return s.shard(key).Get(key) }

// Set stores value under key with the configured TTL.
func (s *Sharded[V]) Set(key string, value V) { s.shard(key).Set(key, value) }

// Invalidate removes key.
func (s *Sharded[V]) Invalidate(key string) { s.shard(key).Invalidate(key) }

// Clear removes every entry from every shard.
func (s *Sharded[V]) Clear() {
	for _, sh := range s.shards {
		sh.Clear()
	}
}

// Stop ends the background cleanup of every shard.
func (s *Sharded[V]) Stop() {
	for _, sh := range s.shards {
		sh.Stop()
	}
}

// Metrics aggregates the counters of all shards.
func (s *Sharded[V]) Metrics() Metrics {
	var total Metrics
	for _, sh := range s.shards {
		m := sh.Metrics()
		total.Hits += m.Hits
		total.Misses += m.Misses
		total.Evictions += m.Evictions
		total.Size += m.Size
		total.Capacity += m.Capacity
	}
	return total
}

// lru is one shard: a map plus a doubly linked recency list.
type lru[V any] struct {
	mu        sync.Mutex
	capacity  int
	ttl       time.Duration
	items     map[string]*entry[V]
	head      *entry[V]
	tail      *entry[V]
	stopCh    chan struct{}
	stopOnce  sync.Once
	hits      int64
	misses    int64
	evictions int64
	observe   Observer
	now       func() time.Time
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
	prev      *entry[V]
	next      *entry[V]
}

func newLRU[V any](capacity int, ttl time.Duration, o options) *lru[V] {
	c := &lru[V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry[V], capacity),
		stopCh:   make(chan struct{}),
		observe:  o.observer,
		now:      o.clock,
	}
	go c.cleanupLoop()
	return c
}

func (c *lru[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	e, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		atomic.AddInt64(&c.misses, 1)
		c.observe("get", "miss")
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.removeEntry(e)
		c.mu.Unlock()
		atomic.AddInt64(&c.misses, 1)
		c.observe("get", "expired")
		return zero, false
	}
	c.moveToFront(e)
	value := e.value
	c.mu.Unlock()

	atomic.AddInt64(&c.hits, 1)
	c.observe("get", "hit")
	return value, true
}

func (c *lru[V]) Set(key string, value V) {
	c.mu.Lock()
	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = c.now().Add(c.ttl)
		c.moveToFront(e)
		c.mu.Unlock()
		c.observe("set", "success")
		return
	}

	e := &entry[V]{key: key, value: value, expiresAt: c.now().Add(c.ttl)}
	c.items[key] = e
	c.addToFront(e)

	evicted := false
	if len(c.items) > c.capacity {
		c.removeTail()
		atomic.AddInt64(&c.evictions, 1)
		evicted = true
	}
	c.mu.Unlock()

	if evicted {
		c.observe("evict", "capacity")
	}
	c.observe("set", "success")
}

func (c *lru[V]) Invalidate(key string) {
	c.mu.Lock()
	e, ok := c.items[key]
	if ok {
		c.removeEntry(e)
	}
	c.mu.Unlock()

	if ok {
		c.observe("invalidate", "success")
	}
}

func (c *lru[V]) Clear() {
	c.mu.Lock()
	c.items = make(map[string]*entry[V], c.capacity)
	c.head, c.tail = nil, nil
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	atomic.StoreInt64(&c.evictions, 0)
	c.mu.Unlock()

	c.observe("clear", "success")
}

func (c *lru[V]) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *lru[V]) Metrics() Metrics {
	c.mu.Lock()
	size := len(c.items)
	c.mu.Unlock()

	return Metrics{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      size,
		Capacity:  c.capacity,
	}
}

func (c *lru[V]) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.purgeExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *lru[V]) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now()
	for _, e := range c.items {
		if t.After(e.expiresAt) {
			c.removeEntry(e)
		}
	}
}

func (c *lru[V]) removeEntry(e *entry[V]) {
	delete(c.items, e.key)
	c.unlink(e)
}

func (c *lru[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *lru[V]) addToFront(e *entry[V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lru[V]) unlink(e *entry[V]) {
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
	e.prev, e.next = nil, nil
}

func (c *lru[V]) removeTail() {
	if c.tail == nil {
		return
	}
	c.removeEntry(c.tail)
}
