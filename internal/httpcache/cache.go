// Package httpcache implements the response cache.
package httpcache

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"firestige.xyz/fastpath/internal/core"
)

const (
	// DefaultCapacity is the fixed total entry budget.
	DefaultCapacity = 10000

	// TTL is the fixed freshness window. An entry is fresh strictly
	// below the boundary: an age equal to TTL is already stale.
	TTL = 60 * time.Second

	// MaxBodyLen caps the cached body.
	MaxBodyLen = 3072

	// defaultShards spreads the store over independent LRU lists so
	// fast-path lookups never wait on a single global lock. Eviction is
	// a per-shard property, like a per-CPU LRU.
	defaultShards = 16
)

// Entry is a cached response descriptor.
type Entry struct {
	WrittenAt   time.Time // carries a monotonic reading when set via time.Now
	Status      int
	ContentType string
	Body        []byte
}

// FreshAt reports whether the entry is fresh at the given instant.
// The boundary age == TTL is stale.
func (e Entry) FreshAt(now time.Time) bool {
	return now.Sub(e.WrittenAt) < TTL
}

type item struct {
	key   Key
	entry Entry
}

type shard struct {
	mu    sync.Mutex
	ll    *list.List // front = most recently used
	items map[Key]*list.Element
	cap   int
}

// Cache is a fixed-capacity, least-recently-used store keyed by
// (method, port, fingerprint). Reads refresh recency; stale entries are
// treated as misses but stay in place until overwritten or evicted.
type Cache struct {
	shards []shard

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// Stats is a best-effort snapshot of cache metrics.
type Stats struct {
	Capacity  int    `json:"capacity"`
	Size      int    `json:"size"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// New returns a cache with the fixed default capacity.
func New() *Cache {
	return NewSized(DefaultCapacity, defaultShards)
}

// NewSized returns a cache with explicit capacity and shard count.
// Capacity is split evenly across shards; each shard evicts its own
// least-recently-used entry when it fills.
func NewSized(capacity, shards int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	if shards < 1 {
		shards = 1
	}
	if shards > capacity {
		shards = capacity
	}
	perShard := (capacity + shards - 1) / shards

	c := &Cache{shards: make([]shard, shards)}
	for i := range c.shards {
		c.shards[i] = shard{
			ll:    list.New(),
			items: make(map[Key]*list.Element),
			cap:   perShard,
		}
	}
	return c
}

func (c *Cache) shardFor(k Key) *shard {
	// Mix method and port into the fingerprint so keys differing only
	// there do not pile into one shard.
	h := k.Hash ^ uint64(k.Port)<<16 ^ uint64(k.Method)
	h ^= h >> 33
	return &c.shards[h%uint64(len(c.shards))]
}

// Lookup returns the entry for the key if present and fresh at now.
// A present-but-stale entry is a miss; it is not evicted or refreshed.
// Any found entry, fresh or stale, is promoted to most recently used.
func (c *Cache) Lookup(k Key, now time.Time) (Entry, bool) {
	s := c.shardFor(k)
	s.mu.Lock()
	el, ok := s.items[k]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		return Entry{}, false
	}
	s.ll.MoveToFront(el)
	entry := el.Value.(*item).entry
	s.mu.Unlock()

	if !entry.FreshAt(now) {
		c.misses.Add(1)
		return Entry{}, false
	}
	c.hits.Add(1)
	return entry, true
}

// Contains reports presence without touching recency or hit counters.
func (c *Cache) Contains(k Key) bool {
	s := c.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[k]
	return ok
}

// Put inserts or overwrites an entry. When the shard is full, its
// least-recently-used entry is evicted to make room.
func (c *Cache) Put(k Key, e Entry) error {
	if len(e.Body) > MaxBodyLen {
		return core.ErrBodyTooLarge
	}
	if e.WrittenAt.IsZero() {
		e.WrittenAt = time.Now()
	}

	s := c.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[k]; ok {
		el.Value.(*item).entry = e
		s.ll.MoveToFront(el)
		return nil
	}

	if s.ll.Len() >= s.cap {
		oldest := s.ll.Back()
		if oldest != nil {
			s.ll.Remove(oldest)
			delete(s.items, oldest.Value.(*item).key)
			c.evictions.Add(1)
		}
	}
	s.items[k] = s.ll.PushFront(&item{key: k, entry: e})
	return nil
}

// Delete removes one entry. Returns false if it was not present.
func (c *Cache) Delete(k Key) bool {
	s := c.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.items[k]
	if !ok {
		return false
	}
	s.ll.Remove(el)
	delete(s.items, k)
	return true
}

// Flush removes every entry and returns how many were dropped.
func (c *Cache) Flush() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		n += s.ll.Len()
		s.ll.Init()
		s.items = make(map[Key]*list.Element)
		s.mu.Unlock()
	}
	return n
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		n += s.ll.Len()
		s.mu.Unlock()
	}
	return n
}

// Stats returns a metrics snapshot.
func (c *Cache) Stats() Stats {
	capacity := 0
	for i := range c.shards {
		capacity += c.shards[i].cap
	}
	return Stats{
		Capacity:  capacity,
		Size:      c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
