package pecache

/*
Option defines a functional configuration modifier for Cache.

DESIGN PATTERN

This follows the functional options pattern: New accepts a variadic list
of Option values instead of a long constructor argument list.

    cache := New[string, int](
        WithDefaultPriority[string, int](5),
        WithDefaultExpiryDuration[string, int](30 * time.Second.Nanoseconds()),
    )

BENEFITS

  - API stability: new configuration knobs don't change New's signature.
  - Self-documenting call sites.
  - Each Option simply mutates the Cache before it becomes active.
*/
type Option[K comparable, V any] func(*Cache[K, V])

// WithClock overrides the cache's time source. Defaults to MonotonicClock.
func WithClock[K comparable, V any](clock Clock) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.clock = clock
	}
}

// WithDefaultPriority overrides the priority assigned to entries set
// outside of any WithContext scope. Lower values mean higher priority.
// Defaults to 0.
func WithDefaultPriority[K comparable, V any](priority int) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.defaultPriority = priority
	}
}

// WithDefaultExpiryDuration overrides the expiry duration assigned to
// entries set outside of any WithContext scope, in the same units as the
// configured Clock. Defaults to 1e9 (one second, for a nanosecond clock).
func WithDefaultExpiryDuration[K comparable, V any](duration int64) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.defaultExpiryDuration = duration
	}
}
