package pecache

/*
Stats represents runtime performance metrics of the cache.

================================================================================
PURPOSE
================================================================================

 - Hits            -> Successful Get calls.
 - Misses          -> Get calls for a missing or expired key.
 - Evictions       -> Total entries removed by Evict, across both prune
                      kinds. An expired prune can remove many entries in
                      one Evict call (a wholesale-detached subtree), so
                      this counts entries, not calls.
 - ExpiredPrunes   -> Number of Evict calls that removed entries because
                      they had expired.
 - PriorityPrunes  -> Number of Evict calls that removed an entry because
                      it was the lowest priority (no expired entries were
                      found that round). Always removes exactly one entry.

The expired/priority split exists because the two prune paths have very
different cost and trigger conditions; distinguishing them in Stats is a
deliberate expansion over the plain Hits/Misses/Evictions the cache's
functional-options ancestor tracked, since here eviction genuinely has two
distinct algorithms worth telling apart operationally.

================================================================================
CONCURRENCY MODEL
================================================================================

Stats fields are only ever modified under Cache.mu. Cache.Stats() returns a
snapshot copy under that same lock, so callers never observe a torn read.
*/
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64

	ExpiredPrunes  uint64
	PriorityPrunes uint64
}
