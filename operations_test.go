package skiplist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// insertTall links key at every level through the same steps Set uses.
func insertTall(t *testing.T, m *SkipListMap[int, int], key int) *node[int, int] {
	t.Helper()
	preds, succs := m.newSearchPath()
	require.Nil(t, m.find(key, preds, succs))
	v := key
	n := newNode(key, &v, m.levelMax, succs)
	require.True(t, preds[0].links[0].CompareAndSet(succs[0], false, n, false))
	m.metrics.AddLen(1)
	m.linkUpper(key, n, preds, succs)
	return n
}

func TestLinkUpperLinksEveryLevel(t *testing.T) {
	m := newTestMap[int, int](t)
	m.Set(1, 1)
	m.Set(3, 3)

	insertTall(t, m, 2)

	for level := 1; level <= m.levelMax; level++ {
		assert.Contains(t, levelKeys(m, level), 2, "level %d", level)
	}
	requireWellFormed(t, m)
}

func TestLinkUpperRefreshesStalePath(t *testing.T) {
	m := newTestMap[int, int](t)
	m.Set(1, 1)
	m.Set(3, 3)

	preds, succs := m.newSearchPath()
	require.Nil(t, m.find(5, preds, succs))
	v := 5
	n := newNode(5, &v, m.levelMax, succs)
	require.True(t, preds[0].links[0].CompareAndSet(succs[0], false, n, false))

	// A taller node lands after 5 before 5 reaches the upper levels, so
	// the recorded successors there are stale.
	insertTall(t, m, 7)
	retries := m.Stats().InsertCASRetries

	m.linkUpper(5, n, preds, succs)

	assert.Greater(t, m.Stats().InsertCASRetries, retries)
	for level := 1; level <= m.levelMax; level++ {
		keys := levelKeys(m, level)
		assert.Contains(t, keys, 5, "level %d", level)
		assert.Contains(t, keys, 7, "level %d", level)
	}
	requireWellFormed(t, m)
}

func TestLinkUpperStopsAfterConcurrentDelete(t *testing.T) {
	m := newTestMap[int, int](t)
	m.Set(1, 1)
	m.Set(3, 3)

	preds, succs := m.newSearchPath()
	require.Nil(t, m.find(2, preds, succs))
	v := 2
	n := newNode(2, &v, m.levelMax, succs)
	require.True(t, preds[0].links[0].CompareAndSet(succs[0], false, n, false))

	for level := n.toplevel; level >= 0; level-- {
		succ := n.links[level].Reference()
		require.True(t, n.links[level].CompareAndSet(succ, false, succ, true))
	}

	m.linkUpper(2, n, preds, succs)

	for level := 1; level <= m.levelMax; level++ {
		assert.NotContains(t, levelKeys(m, level), 2, "level %d", level)
	}
	_, ok := m.Get(2)
	assert.False(t, ok)
}

func TestSetRetriesWhenInsertCASLoses(t *testing.T) {
	m := newTestMap[int, int](t)
	m.Set(1, 1)
	m.Set(3, 3)

	// A racer inserts right where 4 is about to go, so the first level-0
	// CAS for 4 fails and Set has to search again.
	raced := false
	insertCASHook = func(pred, succ any) {
		if raced {
			return
		}
		raced = true
		m.Set(5, 5)
	}
	defer func() { insertCASHook = nil }()

	assert.Equal(t, 40, m.Set(4, 40))

	require.True(t, raced)
	assert.EqualValues(t, 1, m.Stats().InsertCASRetries)
	assert.Equal(t, []Entry[int, int]{{1, 1}, {3, 3}, {4, 40}, {5, 5}}, m.ToOrderedList())
	assert.Equal(t, 4, m.Size())
	requireWellFormed(t, m)
}

func TestDeleteLosesToRacingDelete(t *testing.T) {
	m := newTestMap[int, int](t)
	m.Set(1, 10)
	m.Set(2, 20)

	var (
		racerValue int
		racerOK    bool
		raced      bool
	)
	deleteCommitHook = func(any) {
		if raced {
			return
		}
		raced = true
		racerValue, racerOK = m.Delete(1)
	}
	defer func() { deleteCommitHook = nil }()

	v, ok := m.Delete(1)

	require.True(t, raced)
	assert.True(t, racerOK)
	assert.Equal(t, 10, racerValue)
	assert.False(t, ok, "the racer owns the deletion")
	assert.Zero(t, v)
	assert.Equal(t, 1, m.Size())
	assert.Equal(t, []Entry[int, int]{{2, 20}}, m.ToOrderedList())
}

func TestSetOverwriteKeepsNode(t *testing.T) {
	m := newTestMap[int, string](t)
	m.Set(1, "a")

	preds, succs := m.newSearchPath()
	before := m.find(1, preds, succs)
	m.Set(1, "b")
	after := m.find(1, preds, succs)

	assert.Same(t, before, after)
	v, ok := after.value()
	require.True(t, ok)
	assert.Equal(t, "b", v)
}
