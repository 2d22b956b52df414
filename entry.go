package pecache

import "container/list"

// entry is a single (key, value, lastUsed) triple owned by exactly one
// Node. It lives inside that Node's lru list; elem is the back-pointer
// into that list, which is what lets deleteEntry and popLRU run in O(1)
// instead of the bisect-based search the reference implementation needs
// without back-pointers (see spec.md section 9, "LRU queue representation").
type entry[K comparable, V any] struct {
	key      K
	value    V
	lastUsed int64
	elem     *list.Element
}
