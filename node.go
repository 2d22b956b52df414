package pecache

import "container/list"

// node is a bucket holding every entry that shares one (expiry, priority)
// point, and simultaneously an interior node of the quadtree rooted at
// tree.root. quadrants is a fixed 4-slot array rather than a map: the
// quadrant space is closed and known at compile time, so there is no
// reason to pay map overhead for it.
//
// cache is a back-pointer to the owning Cache, used exclusively to keep
// the cache's two auxiliary indices in sync as entries and nodes leave the
// tree (see Cache.forgetKey / Cache.forgetPoint). Go has nothing directly
// equivalent to Python's WeakValueDictionary-backed indices, so index
// invalidation here is explicit rather than incidental.
type node[K comparable, V any] struct {
	expiry   int64
	priority int

	parent    parentSlot[K, V]
	quadrants [4]*node[K, V]

	data map[K]*entry[K, V]
	lru  *list.List

	cache *Cache[K, V]
}

func newNode[K comparable, V any](expiry int64, priority int, parent parentSlot[K, V], cache *Cache[K, V]) *node[K, V] {
	return &node[K, V]{
		expiry:   expiry,
		priority: priority,
		parent:   parent,
		data:     make(map[K]*entry[K, V]),
		lru:      list.New(),
		cache:    cache,
	}
}

func (n *node[K, V]) point() point {
	return point{expiry: n.expiry, priority: n.priority}
}

// empty reports whether this node currently holds any entries.
func (n *node[K, V]) empty() bool {
	return n.lru.Len() == 0
}

// deepEmpty reports whether this node and every descendant hold no
// entries at all.
func (n *node[K, V]) deepEmpty() bool {
	if !n.empty() {
		return false
	}
	for _, child := range n.quadrants {
		if child != nil && !child.deepEmpty() {
			return false
		}
	}
	return true
}

// expired reports whether this node's point has passed now.
func (n *node[K, V]) expired(now int64) bool {
	return n.expiry < now
}

// ---------------------------------------------------------------------
// Entry-level operations (spec.md section 4.1)
// ---------------------------------------------------------------------

// addEntry inserts a fresh entry at the tail of the LRU queue. Precondition
// (enforced by the monotonic clock): now >= lastUsed of every existing
// entry in this node.
func (n *node[K, V]) addEntry(key K, value V, now int64) {
	e := &entry[K, V]{key: key, value: value, lastUsed: now}
	e.elem = n.lru.PushBack(e)
	n.data[key] = e
}

// deleteEntry removes key from this node's data/LRU queue. If clean is
// true, the cleaning rule is run afterwards, possibly removing this node
// from the tree.
//
// This does not touch Cache.keyIndex: deleteEntry is also used by
// accessEntry to re-place an entry at the tail of the LRU queue, where the
// key index entry must survive unchanged. Callers that genuinely remove a
// key (Delete, Set's overwrite path, popLRU, clearEntries) are responsible
// for their own keyIndex cleanup.
func (n *node[K, V]) deleteEntry(key K, clean bool) error {
	e, ok := n.data[key]
	if !ok {
		return errMissingEntry
	}
	delete(n.data, key)
	n.lru.Remove(e.elem)
	if clean {
		n.clean()
	}
	return nil
}

// popLRU removes and returns the key of the least recently used entry.
func (n *node[K, V]) popLRU() (K, error) {
	var zero K
	if n.empty() {
		return zero, errEmptyNode
	}
	front := n.lru.Front()
	e := front.Value.(*entry[K, V])
	n.lru.Remove(front)
	delete(n.data, e.key)
	if n.cache != nil {
		n.cache.forgetKey(e.key)
	}
	n.clean()
	return e.key, nil
}

// accessEntry reads the value for key and re-places its entry at the tail
// of the LRU queue, stamped with now.
func (n *node[K, V]) accessEntry(key K, now int64) (V, error) {
	var zero V
	e, ok := n.data[key]
	if !ok {
		return zero, errMissingEntry
	}
	value := e.value
	if err := n.deleteEntry(key, false); err != nil {
		return zero, err
	}
	n.addEntry(key, value, now)
	return value, nil
}

// clearEntries empties this node's data and LRU queue, used when a node
// has expired but must remain in place as a structural pivot.
func (n *node[K, V]) clearEntries() {
	if n.cache != nil {
		for key := range n.data {
			n.cache.forgetKey(key)
		}
	}
	n.data = make(map[K]*entry[K, V])
	n.lru.Init()
}

// lruTime is the lastUsed timestamp of the oldest entry in this node.
func (n *node[K, V]) lruTime() (int64, error) {
	if n.empty() {
		return 0, errEmptyNode
	}
	return n.lru.Front().Value.(*entry[K, V]).lastUsed, nil
}

// ---------------------------------------------------------------------
// Structural operations (spec.md section 4.2)
// ---------------------------------------------------------------------

// quadrantForNode computes the quadrant a child node would occupy
// relative to n.
func (n *node[K, V]) quadrantForNode(child *node[K, V]) Quadrant {
	return quadrantFor(child.expiry, child.priority, n.expiry, n.priority)
}

// insert finds or creates the node for (priority, expiry) in the subtree
// rooted at n, recursing through existing occupants of the destination
// quadrant.
func (n *node[K, V]) insert(priority int, expiry int64) *node[K, V] {
	q := quadrantFor(expiry, priority, n.expiry, n.priority)
	if child := n.quadrants[q]; child != nil {
		return child.insert(priority, expiry)
	}
	child := newNode(expiry, priority, n, n.cache)
	n.quadrants[q] = child
	return child
}

// replaceChild places child into the quadrant it belongs in on n,
// overwriting any prior occupant. Callers only invoke this when the slot
// is empty or is being explicitly collapsed by a promotion.
func (n *node[K, V]) replaceChild(child *node[K, V]) {
	n.quadrants[n.quadrantForNode(child)] = child
	child.parent = n
}

// deleteChild removes child from the quadrant it occupies on n.
func (n *node[K, V]) deleteChild(child *node[K, V]) {
	n.quadrants[n.quadrantForNode(child)] = nil
}

// childCount and the single remaining child are used by clean() to
// implement the cleaning rule's case analysis.
func (n *node[K, V]) childCount() int {
	count := 0
	for _, c := range n.quadrants {
		if c != nil {
			count++
		}
	}
	return count
}

func (n *node[K, V]) onlyChild() *node[K, V] {
	var only *node[K, V]
	for _, c := range n.quadrants {
		if c != nil {
			only = c
		}
	}
	return only
}

// clean implements the cleaning rule invoked whenever an entry leaves n:
//
//  1. n still has entries: do nothing.
//  2. n has no entries and no children: ask the parent to delete n.
//  3. n has no entries and exactly one child: that child is promoted into
//     n's slot (the only rotation this tree ever performs).
//  4. otherwise (two or more children): n stays in place as an empty
//     pivot, to be reconsidered as its neighbours change.
//
// Cases 2 and 3 both remove n itself from the tree, so both forget n's
// point from the owning cache's point index before handing off to the
// parent.
func (n *node[K, V]) clean() {
	if !n.empty() {
		return
	}
	switch n.childCount() {
	case 0:
		if n.cache != nil {
			n.cache.forgetPoint(n.point())
		}
		n.parent.deleteChild(n)
	case 1:
		if n.cache != nil {
			n.cache.forgetPoint(n.point())
		}
		n.parent.replaceChild(n.onlyChild())
	default:
		// two or more children: remain as an empty pivot.
	}
}

// ---------------------------------------------------------------------
// prune_expired (spec.md section 4.3)
// ---------------------------------------------------------------------

// entryCount returns the total number of entries held by this node and
// every descendant, used to account for a subtree that prune_expired
// detaches wholesale instead of walking entry-by-entry.
func (n *node[K, V]) entryCount() int {
	count := len(n.data)
	for _, child := range n.quadrants {
		if child != nil {
			count += child.entryCount()
		}
	}
	return count
}

// pruneExpired removes every entry whose containing node has expiry < now,
// collapsing as much of the expired structure as the cleaning rule
// permits, and returns the number of entries actually removed.
func (n *node[K, V]) pruneExpired(now int64) int {
	removed := 0

	if n.expired(now) {
		removed += len(n.data)

		for _, q := range olderQuads {
			child := n.quadrants[q]
			if child == nil {
				continue
			}
			removed += child.entryCount()
			n.quadrants[q] = nil
			if n.cache != nil {
				n.cache.forgetSubtree(child)
			}
		}

		// Q1/Q2 were just detached above, so only the newer-expiry
		// quadrants remain to recurse into here -- their own
		// descendants may still be <= n.expiry and thus expired.
		for _, q := range [2]Quadrant{Q3, Q4} {
			child := n.quadrants[q]
			if child == nil {
				continue
			}
			removed += child.pruneExpired(now)
		}

		n.clearEntries()
	}

	for _, q := range olderQuads {
		child := n.quadrants[q]
		if child == nil {
			continue
		}
		removed += child.pruneExpired(now)
	}

	n.clean()

	return removed
}

// ---------------------------------------------------------------------
// prune_lowest_priority support (spec.md section 4.3)
// ---------------------------------------------------------------------

// lowerPriorityChildren returns this node's children that can never be
// dominated on priority by n itself (Q2, Q4) -- Q1/Q3 route strictly
// higher priorities and can be skipped by the best-first search.
func (n *node[K, V]) lowerPriorityChildren() []*node[K, V] {
	var out []*node[K, V]
	for _, q := range worstQuads {
		if child := n.quadrants[q]; child != nil {
			out = append(out, child)
		}
	}
	return out
}

func (n *node[K, V]) allChildren() []*node[K, V] {
	var out []*node[K, V]
	for _, c := range n.quadrants {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
