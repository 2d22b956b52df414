package pecache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_Insert_CreatesRoot(t *testing.T) {
	c := New[string, int]()
	var tr tree[string, int]

	n := tr.insert(0, 100, c)
	require.NotNil(t, n)
	assert.Same(t, n, tr.root)

	// tree.insert has no notion of an existing point on its own -- a
	// second call at the same point routes through the tie-break
	// quadrant (Q2, since the comparators are <=/ <) and creates a
	// second node. Point reuse is the Cache's job (see cache_test.go),
	// done via its pointIndex before the tree is ever consulted.
	second := tr.insert(0, 100, c)
	assert.NotSame(t, n, second)
}

func TestTree_PruneLowestPriority_EmptyTree(t *testing.T) {
	var tr tree[string, int]
	_, err := tr.pruneLowestPriority()
	assert.ErrorIs(t, err, errEmptyTree)
}

func TestTree_PruneLowestPriority_PicksNumericallyLargestPriority(t *testing.T) {
	c := New[string, int]()
	var tr tree[string, int]

	lo := tr.insert(0, 100, c) // higher priority (numerically smaller)
	hi := tr.insert(7, 100, c) // lower priority (numerically larger)
	lo.addEntry("a", 1, 1)
	hi.addEntry("b", 2, 1)

	key, err := tr.pruneLowestPriority()
	require.NoError(t, err)
	assert.Equal(t, "b", key, "the numerically largest priority value must be evicted first")
}

func TestTree_PruneLowestPriority_TiesBrokenByLRU(t *testing.T) {
	c := New[string, int]()
	var tr tree[string, int]

	n := tr.insert(7, 100, c)
	n.addEntry("older", 1, 1)
	n.addEntry("newer", 2, 2)

	key, err := tr.pruneLowestPriority()
	require.NoError(t, err)
	assert.Equal(t, "older", key)
}

func TestTree_PruneExpired_RemovesWhollyExpiredSubtree(t *testing.T) {
	c := New[string, int]()
	var tr tree[string, int]

	root := tr.insert(0, 100, c)
	root.addEntry("root-key", 1, 1)

	older := root.insert(0, 50) // Q1/Q2: older-or-equal expiry
	older.addEntry("older-key", 2, 1)
	c.keyIndex["older-key"] = older
	c.pointIndex[point{expiry: 50, priority: 0}] = older

	removed := tr.pruneExpired(60)
	assert.Equal(t, 1, removed, "only older-key's node expired; root's own entry is untouched")
	assert.Equal(t, root, tr.root, "root itself has not expired and must remain")
	assert.Nil(t, root.quadrants[Q2], "the wholly-expired subtree must be detached")
	assert.NotContains(t, c.keyIndex, "older-key", "the detached subtree's keys must be forgotten")
	assert.NotContains(t, c.pointIndex, point{expiry: 50, priority: 0})
}

func TestTree_PruneExpired_NoOpWhenNothingExpired(t *testing.T) {
	c := New[string, int]()
	var tr tree[string, int]

	n := tr.insert(0, 100, c)
	n.addEntry("a", 1, 1)

	removed := tr.pruneExpired(0)
	assert.Equal(t, 0, removed)
	assert.False(t, n.empty())
}

func TestTree_PruneExpired_EmptyPivotRetention(t *testing.T) {
	// Build a root with two children that both have a *newer* expiry
	// than the root (Q3/Q4), so that when the root alone expires, its
	// children are unaffected and the cleaning rule's case 4 (two or
	// more children) keeps the root in place as an empty pivot.
	c := New[string, int]()
	var tr tree[string, int]

	root := tr.insert(0, 10, c)
	higher := tr.root.insert(-1, 20) // Q3: newer expiry, higher priority
	lower := tr.root.insert(1, 20)   // Q4: newer expiry, lower-or-equal priority
	root.addEntry("root-key", 1, 1)
	higher.addEntry("higher-key", 2, 1)
	lower.addEntry("lower-key", 3, 1)

	removed := tr.pruneExpired(11)
	assert.Equal(t, 1, removed, "only root-key's node expired; the two newer children are untouched")
	assert.Equal(t, root, tr.root, "root must remain in place as a pivot for its two surviving children")
	assert.True(t, root.empty())
	assert.False(t, higher.empty())
	assert.False(t, lower.empty())

	// tree.insert does not reuse points (that is the Cache's pointIndex,
	// see TestScenario6_EmptyPivotRetentionAndReuse); a re-insert at the
	// pivot's exact point routes through the retained pivot into its
	// tie-break quadrant Q2.
	reinserted := tr.insert(0, 10, c)
	assert.Same(t, root.quadrants[Q2], reinserted, "inserting at the pivot's exact point must route through the retained pivot")
}
