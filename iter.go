package pecache

import "iter"

// All returns an iterator over the keys of every non-expired entry
// currently in the cache. The clock is snapshotted once, before the
// iterator starts yielding, matching Len/Keys.
//
// The matching keys are copied into a slice under the cache's lock, and
// the lock is released before the first yield, so the range body may call
// other Cache methods. Changes made while ranging are not reflected in the
// keys yielded: a key deleted or evicted after the snapshot is still
// yielded, and a key set after it is not.
func (c *Cache[K, V]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		c.mu.Lock()
		now := c.clock()
		keys := make([]K, 0, len(c.keyIndex))
		for key, n := range c.keyIndex {
			if !n.expired(now) {
				if _, ok := n.data[key]; ok {
					keys = append(keys, key)
				}
			}
		}
		c.mu.Unlock()

		for _, key := range keys {
			if !yield(key) {
				return
			}
		}
	}
}
