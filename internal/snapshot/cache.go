package snapshot

import (
	"hash/fnv"
	"sync"
)

// Cache is the partitioned snapshot store. Each owner key lives in exactly
// one shard, so contention is limited to owners that hash together.
type Cache struct {
	shards []*cacheShard
}

type cacheShard struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	snap *Snapshot
	// seq counts the owner's mutations. The snapshot is stale while its
	// Generation is below seq.
	seq uint64
	// evictedAt is the sequence set by the last Evict. Snapshots from
	// refreshes that started before it are dropped.
	evictedAt uint64
}

// NewCache returns a cache with n partitions (at least one).
func NewCache(n int) *Cache {
	if n < 1 {
		n = 1
	}
	c := &Cache{shards: make([]*cacheShard, n)}
	for i := range c.shards {
		c.shards[i] = &cacheShard{entries: make(map[string]*cacheEntry)}
	}
	return c
}

func (c *Cache) shard(owner string) *cacheShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(owner))
	return c.shards[h.Sum32()%uint32(len(c.shards))]
}

// Get returns the owner's snapshot and whether it is stale.
func (c *Cache) Get(owner string) (snap *Snapshot, stale bool, ok bool) {
	sh := c.shard(owner)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, found := sh.entries[owner]
	if !found || e.snap == nil {
		return nil, false, false
	}
	return e.snap, e.snap.Generation < e.seq, true
}

// Seq returns the owner's current mutation sequence.
func (c *Cache) Seq(owner string) uint64 {
	sh := c.shard(owner)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	if e, ok := sh.entries[owner]; ok {
		return e.seq
	}
	return 0
}

// Put swaps in a new snapshot for its owner in one step. An older
// generation never replaces a newer one, and a snapshot computed before
// the owner was evicted is dropped. Empty snapshots for owners the cache
// has never tracked are not stored.
func (c *Cache) Put(snap *Snapshot) {
	sh := c.shard(snap.OwnerID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, ok := sh.entries[snap.OwnerID]
	if !ok {
		if snap.Empty() {
			return
		}
		sh.entries[snap.OwnerID] = &cacheEntry{snap: snap}
		return
	}
	if snap.Generation < e.evictedAt {
		return
	}
	if e.snap != nil && e.snap.Generation > snap.Generation {
		return
	}
	e.snap = snap
}

// MarkStale records a mutation for owner and returns the new sequence.
func (c *Cache) MarkStale(owner string) uint64 {
	sh := c.shard(owner)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, ok := sh.entries[owner]
	if !ok {
		e = &cacheEntry{}
		sh.entries[owner] = e
	}
	e.seq++
	return e.seq
}

// Evict drops the owner's snapshot. The mutation sequence is bumped and
// kept so a refresh that was already running cannot store its result.
func (c *Cache) Evict(owner string) {
	sh := c.shard(owner)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, ok := sh.entries[owner]
	if !ok {
		e = &cacheEntry{}
		sh.entries[owner] = e
	}
	e.snap = nil
	e.seq++
	e.evictedAt = e.seq
}

// Len counts cached snapshots.
func (c *Cache) Len() int {
	n := 0
	for _, sh := range c.shards {
		sh.mu.RLock()
		for _, e := range sh.entries {
			if e.snap != nil {
				n++
			}
		}
		sh.mu.RUnlock()
	}
	return n
}
