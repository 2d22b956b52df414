package pecache

import "sync"

/*
Cache implements the priority-expiry cache described in the package's
design: a bounded in-memory key-value store whose eviction order is driven
first by expiry, then by priority, then by least-recently-used timestamp.

================================================================================
ARCHITECTURAL OVERVIEW
================================================================================

Cache combines three structures:

 1. A point quadtree (tree[K, V]) over the (expiry, priority) plane, which
    supports O(log E + log P) eviction.
 2. keyIndex (map[K]*node[K, V]) for O(1) routing from a key straight to
    its owning node, bypassing the tree walk entirely for Get/Delete.
 3. pointIndex (map[point]*node[K, V]) for O(1) reuse of an existing node
    when Set targets an (expiry, priority) point that is already occupied.

Both indices are kept in sync with the tree by explicit invalidation: every
node, on creation, is handed a back-pointer to this Cache, and calls
forgetKey / forgetPoint whenever an entry or the node itself leaves the
tree. This stands in for the reference implementation's
WeakValueDictionary-backed indices, which clean themselves up implicitly
when the tree drops its last strong reference to a node.

================================================================================
CONCURRENCY MODEL
================================================================================

A single sync.Mutex protects all shared state. Unlike a typical read-heavy
cache, Get here is not read-only: it moves the accessed entry to the tail
of its node's LRU queue, and may trigger the cleaning rule. A RWMutex would
buy nothing, since almost every operation needs exclusive access.

================================================================================
EXPIRATION STRATEGY
================================================================================

There is no background janitor. Eviction is entirely caller-driven: Evict
first prunes expired entries and, only if none were removed, prunes the
single lowest-priority entry. This mirrors the reference cache's contract
precisely and is why there is no ticker goroutine here, unlike a plain TTL
cache.
*/
type Cache[K comparable, V any] struct {
	mu sync.Mutex

	tree       tree[K, V]
	keyIndex   map[K]*node[K, V]
	pointIndex map[point]*node[K, V]

	clock Clock

	defaultPriority       int
	defaultExpiryDuration int64

	contextStack []contextFrame

	stats Stats
}

// New constructs a Cache using the functional options pattern (see
// options.go). With no options, the cache uses a monotonic clock, default
// priority 0, and a default expiry duration of one second (expressed in
// the clock's own units).
func New[K comparable, V any](opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		keyIndex:              make(map[K]*node[K, V]),
		pointIndex:             make(map[point]*node[K, V]),
		clock:                 MonotonicClock(),
		defaultPriority:       0,
		defaultExpiryDuration: int64(1e9),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.contextStack = []contextFrame{{priority: c.defaultPriority, expiryDuration: c.defaultExpiryDuration}}

	return c
}

// currentContext returns the currently active (priority, expiryDuration)
// pair -- the top of the context stack. Callers must hold c.mu.
func (c *Cache[K, V]) currentContext() contextFrame {
	return c.contextStack[len(c.contextStack)-1]
}

// Set inserts or overwrites the value for key.
//
// The entry's expiry is now + the active context's expiry duration (the
// default, unless a WithContext scope is active), and its priority is the
// active context's priority. If key already has an entry, the existing one
// is deleted first -- overwriting a key can move it to a different
// (expiry, priority) node.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	ctx := c.currentContext()
	expiry := now + ctx.expiryDuration
	if expiry <= now {
		panic("pecache: expiry duration must be positive")
	}
	priority := ctx.priority

	if n, ok := c.keyIndex[key]; ok {
		_ = n.deleteEntry(key, true)
	}

	p := point{expiry: expiry, priority: priority}
	n, ok := c.pointIndex[p]
	if !ok {
		n = c.tree.insert(priority, expiry, c)
		c.pointIndex[p] = n
	}

	n.addEntry(key, value, now)
	c.keyIndex[key] = n
}

// Get retrieves the value for key, bumping its LRU timestamp to now.
//
// Returns ErrMissingKey if the key has never been set (or has since been
// deleted/evicted), and ErrExpiredKey if the key's node has expired but
// has not yet been pruned.
func (c *Cache[K, V]) Get(key K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	n, ok := c.keyIndex[key]
	if !ok {
		c.stats.Misses++
		return zero, ErrMissingKey
	}

	now := c.clock()
	if n.expired(now) {
		c.stats.Misses++
		return zero, ErrExpiredKey
	}

	value, err := n.accessEntry(key, now)
	if err != nil {
		// Invariant violation: keyIndex pointed at a node that no
		// longer holds this key. Treat as a miss rather than panic.
		c.stats.Misses++
		return zero, ErrMissingKey
	}

	c.stats.Hits++
	return value, nil
}

// Delete removes key from the cache. Returns ErrMissingKey if the key does
// not currently exist.
func (c *Cache[K, V]) Delete(key K) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.keyIndex[key]
	if !ok {
		return ErrMissingKey
	}
	if err := n.deleteEntry(key, true); err != nil {
		return ErrMissingKey
	}
	c.forgetKey(key)
	return nil
}

// Evict removes entries from the cache according to the priority-expiry
// policy: it first prunes every expired entry; if none were expired, it
// removes the single lowest-priority entry (ties broken by
// least-recently-used). A call on an empty cache is a silent no-op.
func (c *Cache[K, V]) Evict() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	if removed := c.tree.pruneExpired(now); removed > 0 {
		c.stats.ExpiredPrunes++
		c.stats.Evictions += uint64(removed)
		return
	}

	key, err := c.tree.pruneLowestPriority()
	if err != nil {
		return
	}
	c.stats.PriorityPrunes++
	c.stats.Evictions++
	c.forgetKey(key)
}

// Len reports the number of non-expired entries currently in the cache.
// The clock is snapshotted once for the whole call, not once per entry.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	count := 0
	for key, n := range c.keyIndex {
		if !n.expired(now) {
			if _, ok := n.data[key]; ok {
				count++
			}
		}
	}
	return count
}

// Keys returns the keys of every non-expired entry currently in the
// cache, as a snapshot slice.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	keys := make([]K, 0, len(c.keyIndex))
	for key, n := range c.keyIndex {
		if !n.expired(now) {
			if _, ok := n.data[key]; ok {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// Stats returns a snapshot of the cache's runtime counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// ---------------------------------------------------------------------
// Index maintenance -- called from node.go as entries and nodes leave the
// tree. This is the Go-idiomatic stand-in for the reference's weak-ref
// cleanup (see spec.md section 9, strategy (a): "explicit").
// ---------------------------------------------------------------------

// forgetKey removes key from the key index. It is a silent no-op if the
// key is already absent, mirroring the reference cache's own leniency
// around a race between an explicit delete and weak-ref collection.
func (c *Cache[K, V]) forgetKey(key K) {
	delete(c.keyIndex, key)
}

// forgetPoint removes p from the point index, if present.
func (c *Cache[K, V]) forgetPoint(p point) {
	delete(c.pointIndex, p)
}

// forgetSubtree walks a detached subtree and forgets every key and point
// within it. Called when prune_expired wholesale-detaches a subtree whose
// entire expiry range has passed.
func (c *Cache[K, V]) forgetSubtree(n *node[K, V]) {
	if n == nil {
		return
	}
	for key := range n.data {
		c.forgetKey(key)
	}
	c.forgetPoint(n.point())
	for _, child := range n.quadrants {
		c.forgetSubtree(child)
	}
}
