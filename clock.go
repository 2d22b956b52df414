package pecache

import "time"

// Clock returns the current time as a non-decreasing integer. Calling it
// twice within a single operation may return the same value.
//
// Floating-point clocks are disallowed by design: Time comparisons and
// equality checks throughout the tree rely on exact integer semantics.
type Clock func() int64

// MonotonicClock returns a Clock backed by the runtime's monotonic clock
// reading, so wall-clock adjustments (NTP step, DST, manual changes) never
// cause last-used timestamps to run backwards.
func MonotonicClock() Clock {
	start := time.Now()
	return func() int64 {
		return int64(time.Since(start))
	}
}
