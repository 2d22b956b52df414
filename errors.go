package pecache

import "errors"

// Sentinel errors returned by the public Cache surface.
//
// ErrMissingKey and ErrExpiredKey are the only errors a caller of Get or
// Delete should ever see; both are safe to check with errors.Is.
var (
	ErrMissingKey = errors.New("pecache: key does not exist")
	ErrExpiredKey = errors.New("pecache: key has expired")
)

// Internal invariant signals. These never escape the package: they are
// either wrapped into one of the sentinels above at the Cache boundary, or
// handled locally at a well-defined call site (Evict swallows
// errEmptyTree).
var (
	errMissingEntry = errors.New("pecache: entry missing from node")
	errEmptyNode    = errors.New("pecache: node has no entries")
	errEmptyTree    = errors.New("pecache: tree has no entries")
)
