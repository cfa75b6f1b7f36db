package skiplist

import "runtime"

const (
	// contentionLogThreshold is the first restart count of a single find
	// that gets logged; later ones are logged at powers of two.
	contentionLogThreshold = 64

	maxBackoffYields = 16
)

// backoff yields the processor a bounded, doubling number of times.
type backoff struct {
	yields int
}

func (b *backoff) wait() {
	if b.yields == 0 {
		b.yields = 1
	} else if b.yields < maxBackoffYields {
		b.yields <<= 1
	}
	for range b.yields {
		runtime.Gosched()
	}
}

// find locates key, filling preds and succs (both of length levelMax+1)
// with the nodes bracketing key at every level. It returns the node holding
// key, or nil when no unmarked node holds it.
//
// Marked nodes met along the way are snipped out. A failed snip means some
// predecessor changed under us, so the whole descent starts over.
func (m *SkipListMap[K, V]) find(key K, preds, succs []*node[K, V]) *node[K, V] {
	var b backoff
	for restarts := 0; ; restarts++ {
		if restarts > 0 {
			m.metrics.IncFindRestart()
			m.logContention(restarts)
			b.wait()
		}
		found, restart := m.descend(key, preds, succs)
		if !restart {
			return found
		}
	}
}

// descend makes one top-down pass for find. restart is true when a snip
// CAS failed and preds/succs must be discarded.
func (m *SkipListMap[K, V]) descend(key K, preds, succs []*node[K, V]) (found *node[K, V], restart bool) {
	pred := m.head
	var curr *node[K, V]
	for level := m.levelMax; level >= 0; level-- {
		curr = pred.links[level].Reference()
		for {
			succ, marked := curr.links[level].Get()
			for marked {
				if snipCASHook != nil {
					snipCASHook(level, pred, curr)
				}
				if !pred.links[level].CompareAndSet(curr, false, succ, false) {
					return nil, true
				}
				m.metrics.IncSnip()
				curr = pred.links[level].Reference()
				succ, marked = curr.links[level].Get()
			}
			if compareBound(m.cmp, curr.key, key) >= 0 {
				break
			}
			pred = curr
			curr = succ
		}
		preds[level] = pred
		succs[level] = curr
	}

	if curr != m.tail && compareBound(m.cmp, curr.key, key) == 0 {
		return curr, false
	}
	return nil, false
}

// seek is the read-only descent: it steps over marked nodes without
// unlinking them and returns the first node at level 0 whose key is not
// below key and which was unmarked when read. The result may be the tail.
func (m *SkipListMap[K, V]) seek(key K) *node[K, V] {
	pred := m.head
	var curr *node[K, V]
	for level := m.levelMax; level >= 0; level-- {
		curr = pred.links[level].Reference()
		for {
			succ, marked := curr.links[level].Get()
			for marked {
				curr = succ
				succ, marked = curr.links[level].Get()
			}
			if compareBound(m.cmp, curr.key, key) >= 0 {
				break
			}
			pred = curr
			curr = succ
		}
	}
	return curr
}

// advanceFrom returns the first node after start on level 0 that is not
// marked, or nil at the end of the list. start may itself have been
// unlinked; its links still lead forward.
func (m *SkipListMap[K, V]) advanceFrom(start *node[K, V]) *node[K, V] {
	if start == nil {
		start = m.head
	}
	curr := start.links[0].Reference()
	for curr != nil && curr != m.tail {
		succ, marked := curr.links[0].Get()
		if !marked {
			return curr
		}
		curr = succ
	}
	return nil
}

func (m *SkipListMap[K, V]) newSearchPath() (preds, succs []*node[K, V]) {
	return make([]*node[K, V], m.levelMax+1), make([]*node[K, V], m.levelMax+1)
}
