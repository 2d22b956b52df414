package pecache

// point identifies a node's position in the (expiry, priority) plane; it
// is the key type of Cache's point index.
type point struct {
	expiry   int64
	priority int
}

// tree owns at most one root node and presents the same replaceChild /
// deleteChild capability surface a parent node does, so the root's parent
// pointer can simply be the tree itself (spec.md Design Notes, "parent of
// root uniformity").
type tree[K comparable, V any] struct {
	root *node[K, V]
}

var _ parentSlot[int, int] = (*tree[int, int])(nil)

// insert finds or creates the node for (priority, expiry), creating the
// root itself if the tree is empty.
func (t *tree[K, V]) insert(priority int, expiry int64, cache *Cache[K, V]) *node[K, V] {
	if t.root == nil {
		t.root = newNode(expiry, priority, t, cache)
		return t.root
	}
	return t.root.insert(priority, expiry)
}

func (t *tree[K, V]) replaceChild(child *node[K, V]) {
	t.root = child
	child.parent = t
}

func (t *tree[K, V]) deleteChild(child *node[K, V]) {
	if child != t.root {
		panic("pecache: deleteChild called with a node that is not the root")
	}
	t.root = nil
}

// pruneExpired removes every entry whose containing node has expired,
// returning the number of entries actually removed.
func (t *tree[K, V]) pruneExpired(now int64) int {
	if t.root == nil {
		return 0
	}
	return t.root.pruneExpired(now)
}

// pruneLowestPriority finds and removes the entry with the numerically
// largest priority value (i.e. the lowest-priority entry), breaking ties
// by least-recently-used, using a best-first search that prunes paths
// which cannot possibly improve on the current best.
func (t *tree[K, V]) pruneLowestPriority() (K, error) {
	var zero K
	if t.root == nil {
		return zero, errEmptyTree
	}

	best := t.root
	var stack []*node[K, V]
	if best.empty() {
		stack = best.allChildren()
	} else {
		stack = best.lowerPriorityChildren()
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.empty() {
			stack = append(stack, n.allChildren()...)
			continue
		}

		if best.empty() {
			best = n
		} else {
			bestLRU, _ := best.lruTime()
			nLRU, _ := n.lruTime()
			if n.priority > best.priority || (n.priority == best.priority && nLRU < bestLRU) {
				best = n
			}
		}

		stack = append(stack, n.lowerPriorityChildren()...)
	}

	if best.empty() {
		return zero, errEmptyTree
	}

	return best.popLRU()
}
