package pecache

// Quadrant identifies one of the four partitions a Node's (expiry,
// priority) point divides its descendants into.
//
// The axes use asymmetric comparators on purpose: expiry routes on <=
// (the parent's own expiry counts as "older-or-equal"), priority routes on
// strictly < (so a child with equal priority to its parent is routed into
// the "lower-or-equal priority" quadrants). Together with invariant 6 (no
// two nodes share a point) this means a tie on both axes with an existing
// node can never occur.
type Quadrant int

const (
	// Q1 holds descendants with older-or-equal expiry and higher priority.
	Q1 Quadrant = iota
	// Q2 holds descendants with older-or-equal expiry and lower-or-equal priority.
	Q2
	// Q3 holds descendants with newer expiry and higher priority.
	Q3
	// Q4 holds descendants with newer expiry and lower-or-equal priority.
	Q4
)

func (q Quadrant) String() string {
	switch q {
	case Q1:
		return "Q1"
	case Q2:
		return "Q2"
	case Q3:
		return "Q3"
	case Q4:
		return "Q4"
	default:
		return "Q?"
	}
}

// olderQuads are the quadrants whose entire subtree has expiry <= the
// owning node's expiry.
var olderQuads = [2]Quadrant{Q1, Q2}

// worstQuads are the quadrants that can never hold a higher-priority node
// than their parent (lower-or-equal priority, in this scheme's numerically
// larger-is-worse sense).
var worstQuads = [2]Quadrant{Q2, Q4}

// quadrantFor computes the quadrant a point (expiry, priority) would be
// routed to relative to a pivot point (selfExpiry, selfPriority).
func quadrantFor(expiry int64, priority int, selfExpiry int64, selfPriority int) Quadrant {
	olderOrEqual := expiry <= selfExpiry
	higherPriority := priority < selfPriority

	switch {
	case olderOrEqual && higherPriority:
		return Q1
	case olderOrEqual && !higherPriority:
		return Q2
	case !olderOrEqual && higherPriority:
		return Q3
	default:
		return Q4
	}
}
