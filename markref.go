package skiplist

import "sync/atomic"

// markedPair is an immutable (reference, mark) record. A MarkedReference
// never mutates a pair in place; every update installs a fresh one.
type markedPair[T any] struct {
	ref  *T
	mark bool
}

// MarkedReference is an atomically updatable (reference, mark) pair.
// Both fields change together in a single pointer swap, so readers never
// observe a reference from one update combined with the mark of another.
//
// The zero value holds (nil, false).
type MarkedReference[T any] struct {
	p atomic.Pointer[markedPair[T]]
}

// NewMarkedReference returns a reference initialized to (ref, mark).
func NewMarkedReference[T any](ref *T, mark bool) *MarkedReference[T] {
	r := &MarkedReference[T]{}
	r.init(ref, mark)
	return r
}

// init stores the initial pair. It must only be called before the cell is
// published to other goroutines.
func (r *MarkedReference[T]) init(ref *T, mark bool) {
	r.p.Store(&markedPair[T]{ref: ref, mark: mark})
}

func (r *MarkedReference[T]) load() *markedPair[T] {
	if cur := r.p.Load(); cur != nil {
		return cur
	}
	// Lazily materialize the zero value so CAS has something to swap.
	r.p.CompareAndSwap(nil, &markedPair[T]{})
	return r.p.Load()
}

// Get returns the current reference and mark as one consistent snapshot.
func (r *MarkedReference[T]) Get() (*T, bool) {
	cur := r.load()
	return cur.ref, cur.mark
}

// Reference returns the current reference.
func (r *MarkedReference[T]) Reference() *T {
	return r.load().ref
}

// IsMarked returns the current mark.
func (r *MarkedReference[T]) IsMarked() bool {
	return r.load().mark
}

// CompareAndSet installs (newRef, newMark) if the current value is
// (expectedRef, expectedMark). It reports whether the value now holds the
// new pair as a result of this call. On failure the cell is unchanged.
func (r *MarkedReference[T]) CompareAndSet(expectedRef *T, expectedMark bool, newRef *T, newMark bool) bool {
	for {
		cur := r.load()
		if cur.ref != expectedRef || cur.mark != expectedMark {
			return false
		}
		if cur.ref == newRef && cur.mark == newMark {
			return true
		}
		if r.p.CompareAndSwap(cur, &markedPair[T]{ref: newRef, mark: newMark}) {
			return true
		}
		// Another writer swapped the record; retry only while it still
		// carries the expected value.
	}
}

// AttemptMark sets the mark to newMark if the current reference is
// expectedRef, leaving the reference unchanged.
func (r *MarkedReference[T]) AttemptMark(expectedRef *T, newMark bool) bool {
	for {
		cur := r.load()
		if cur.ref != expectedRef {
			return false
		}
		if cur.mark == newMark {
			return true
		}
		if r.p.CompareAndSwap(cur, &markedPair[T]{ref: expectedRef, mark: newMark}) {
			return true
		}
	}
}
