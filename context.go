package pecache

// contextFrame is one level of the insertion-context stack: the
// (priority, expiryDuration) pair that Set currently uses.
type contextFrame struct {
	priority       int
	expiryDuration int64
}

// ContextOptions overrides the priority and/or expiry duration applied to
// entries set within a WithContext scope. A nil field re-asserts whatever
// was active in the enclosing scope for that field (not the cache's global
// default) -- see the note on nested contexts in WithContext's doc below.
type ContextOptions struct {
	Priority       *int
	ExpiryDuration *int64
}

// WithContext runs fn with priority and/or expiry duration overridden for
// the duration of the call. Any Set performed by fn (directly or via
// further nesting) uses these values.
//
// Nesting is supported by construction: WithContext pushes a new frame
// derived from the currently active one, so a nested call that only
// overrides priority leaves the outer call's expiry duration intact. On
// return -- including on panic -- the previous frame is restored, exactly
// like a try/finally block.
//
// The reference implementation this cache is modeled on does not stack:
// it always restores the cache's global defaults on exit, which its own
// documentation calls a latent bug under nesting. This implementation
// resolves that by stacking properly.
func (c *Cache[K, V]) WithContext(opts ContextOptions, fn func()) {
	c.mu.Lock()
	current := c.currentContext()
	next := current
	if opts.Priority != nil {
		next.priority = *opts.Priority
	}
	if opts.ExpiryDuration != nil {
		next.expiryDuration = *opts.ExpiryDuration
	}
	c.contextStack = append(c.contextStack, next)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.contextStack = c.contextStack[:len(c.contextStack)-1]
		c.mu.Unlock()
	}()

	fn()
}
