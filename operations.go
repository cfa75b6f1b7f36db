package skiplist

import (
	"context"
	"log/slog"
)

// Set inserts key with value, or overwrites the value when key is present.
// It returns the value written.
//
// Set panics with ErrKeyOutOfRange when a maximum key is configured and key
// does not sort strictly below it.
func (m *SkipListMap[K, V]) Set(key K, value V) V {
	if !m.inRange(key) {
		panic(ErrKeyOutOfRange)
	}

	val := value
	preds, succs := m.newSearchPath()
	for {
		if found := m.find(key, preds, succs); found != nil {
			found.val.Store(&val)
			return value
		}

		toplevel := m.rng.ChooseLevel(m.levelMax)
		n := newNode(key, &val, toplevel, succs)

		if insertCASHook != nil {
			insertCASHook(preds[0], succs[0])
		}
		// Linearization point: once linked at level 0 the entry exists.
		if !preds[0].links[0].CompareAndSet(succs[0], false, n, false) {
			m.metrics.IncInsertCASRetry()
			continue
		}
		m.metrics.IncInsertCASSuccess()
		m.metrics.AddLen(1)

		m.linkUpper(key, n, preds, succs)
		return value
	}
}

// linkUpper links n into levels 1..n.toplevel. It stops early if n gets
// deleted meanwhile, since a marked node must not gain new predecessors.
func (m *SkipListMap[K, V]) linkUpper(key K, n *node[K, V], preds, succs []*node[K, V]) {
	for level := 1; level <= n.toplevel; level++ {
		for {
			next, marked := n.links[level].Get()
			if marked {
				m.logAbandonedLink(level, n.toplevel)
				return
			}
			succ := succs[level]
			if next != succ && !n.links[level].CompareAndSet(next, false, succ, false) {
				// Lost to a concurrent delete marking this level.
				continue
			}
			if preds[level].links[level].CompareAndSet(succ, false, n, false) {
				break
			}
			m.metrics.IncInsertCASRetry()
			if m.find(key, preds, succs) != n {
				// n was marked at level 0 and is no longer reachable as key.
				m.logAbandonedLink(level, n.toplevel)
				return
			}
		}
	}
}

func (m *SkipListMap[K, V]) logAbandonedLink(level, toplevel int) {
	if !m.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	m.logger.Debug("skiplist upper-level link abandoned after concurrent delete",
		"level", level,
		"toplevel", toplevel,
	)
}

// Delete removes key and returns its value. When several callers delete the
// same entry concurrently, exactly one of them receives the value; the
// others see the key as absent.
//
// The node is only marked here; traversals unlink it later.
func (m *SkipListMap[K, V]) Delete(key K) (V, bool) {
	var zero V
	if !m.inRange(key) {
		return zero, false
	}

	preds, succs := m.newSearchPath()
	target := m.find(key, preds, succs)
	if target == nil {
		return zero, false
	}

	for level := target.toplevel; level >= 1; level-- {
		succ, marked := target.links[level].Get()
		for !marked {
			target.links[level].CompareAndSet(succ, false, succ, true)
			succ, marked = target.links[level].Get()
		}
	}

	for {
		succ, marked := target.links[0].Get()
		if marked {
			// A racing delete committed first and owns the value.
			return zero, false
		}
		if deleteCommitHook != nil {
			deleteCommitHook(target)
		}
		if target.links[0].CompareAndSet(succ, false, succ, true) {
			m.metrics.AddLen(-1)
			v, _ := target.value()
			return v, true
		}
	}
}
