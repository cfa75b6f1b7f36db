package skiplist

import "sync/atomic"

// node holds a key, its value and one marked link per level it spans.
type node[K, V any] struct {
	key bound[K]
	// val points at the current value. Writers replace the pointer, last
	// write wins.
	val      atomic.Pointer[V]
	toplevel int
	links    []MarkedReference[node[K, V]]
}

const (
	// MaxLevel bounds the number of levels a list can have. A level draw
	// consumes levelMax+1 random bits, which must fit one 64-bit word.
	MaxLevel = 63

	// DefaultLevelMax suits lists of up to roughly 2^16 entries.
	DefaultLevelMax = 16
)

// newNode returns a node spanning levels 0..toplevel whose links point at
// succs. The links are initialized before the node is published.
func newNode[K, V any](key K, val *V, toplevel int, succs []*node[K, V]) *node[K, V] {
	n := &node[K, V]{
		key:      keyBound(key),
		toplevel: toplevel,
		links:    make([]MarkedReference[node[K, V]], toplevel+1),
	}
	n.val.Store(val)
	for level := 0; level <= toplevel; level++ {
		n.links[level].init(succs[level], false)
	}
	return n
}

// newSentinels returns head and tail nodes spanning every level. The tail
// carries tailKey, which is +inf unless a maximum key is configured.
func newSentinels[K, V any](levelMax int, tailKey bound[K]) (*node[K, V], *node[K, V]) {
	tail := &node[K, V]{
		key:      tailKey,
		toplevel: levelMax,
		links:    make([]MarkedReference[node[K, V]], levelMax+1),
	}
	head := &node[K, V]{
		key:      minBound[K](),
		toplevel: levelMax,
		links:    make([]MarkedReference[node[K, V]], levelMax+1),
	}
	for i := range head.links {
		tail.links[i].init(nil, false)
		head.links[i].init(tail, false)
	}
	return head, tail
}

// value returns the node's value, or false when none was stored.
func (n *node[K, V]) value() (V, bool) {
	p := n.val.Load()
	if p == nil {
		var zero V
		return zero, false
	}
	return *p, true
}
