package skiplist

import "iter"

// Iterator provides a forward-only, weakly consistent view over the list.
// It never yields a marked entry at the moment it is read, but concurrent
// writers may make the sequence differ from any single point-in-time state.
type Iterator[K, V any] struct {
	m       *SkipListMap[K, V]
	current *node[K, V]
	key     K
	value   V
	valid   bool
}

// Iterator returns a new iterator positioned before the first element.
func (m *SkipListMap[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{m: m}
}

// SeekGE returns an iterator positioned at the first element whose key is
// greater than or equal to the provided key. The returned iterator is valid
// if and only if such an element exists.
func (m *SkipListMap[K, V]) SeekGE(key K) *Iterator[K, V] {
	it := m.Iterator()
	it.SeekGE(key)
	return it
}

// ToOrderedList returns the entries in ascending key order.
func (m *SkipListMap[K, V]) ToOrderedList() []Entry[K, V] {
	var out []Entry[K, V]
	for k, v := range m.All() {
		out = append(out, Entry[K, V]{Key: k, Value: v})
	}
	return out
}

// All yields the entries in ascending key order.
func (m *SkipListMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := m.Iterator()
		for it.Next() {
			if !yield(it.key, it.value) {
				return
			}
		}
	}
}

// Valid reports whether the iterator currently points at an element.
func (it *Iterator[K, V]) Valid() bool {
	if it == nil {
		return false
	}
	return it.valid
}

// Key returns the key at the iterator's current position.
// It should only be called when Valid reports true.
func (it *Iterator[K, V]) Key() K {
	var zero K
	if it == nil || !it.valid {
		return zero
	}
	return it.key
}

// Value returns the value at the iterator's current position.
// It should only be called when Valid reports true.
func (it *Iterator[K, V]) Value() V {
	var zero V
	if it == nil || !it.valid {
		return zero
	}
	return it.value
}

// SeekGE positions the iterator at the first element whose key is
// greater than or equal to the provided key. It returns true if such an
// element exists.
func (it *Iterator[K, V]) SeekGE(key K) bool {
	if it == nil || it.m == nil {
		return false
	}

	it.invalidate()
	if !it.m.inRange(key) {
		return false
	}

	current := it.m.seek(key)
	for current != nil && current != it.m.tail {
		if it.load(current) {
			return true
		}
		current = it.m.advanceFrom(current)
	}
	return false
}

// Next advances the iterator to the next element and reports whether it
// successfully moved forward. If the iterator was not valid prior to the
// call, it advances to the first element.
func (it *Iterator[K, V]) Next() bool {
	if it == nil || it.m == nil {
		return false
	}

	start := it.current
	if !it.valid {
		start = nil
	}

	for {
		next := it.m.advanceFrom(start)
		if next == nil {
			it.invalidate()
			return false
		}
		if it.load(next) {
			return true
		}
		start = next
	}
}

// load captures n's key and value; it fails if n has no value.
func (it *Iterator[K, V]) load(n *node[K, V]) bool {
	v, ok := n.value()
	if !ok {
		return false
	}
	it.current = n
	it.key = n.key.key
	it.value = v
	it.valid = true
	return true
}

func (it *Iterator[K, V]) invalidate() {
	if it == nil {
		return
	}
	it.current = nil
	it.valid = false
	var zeroK K
	var zeroV V
	it.key = zeroK
	it.value = zeroV
}
