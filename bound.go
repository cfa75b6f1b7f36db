package skiplist

import (
	"cmp"
	"fmt"
)

// Comparator returns a negative number when a < b, zero when a == b and a
// positive number when a > b. It must define a total order.
type Comparator[K any] func(a, b K) int

type boundKind uint8

const (
	negInf boundKind = iota
	realKey
	posInf
)

// bound is a key extended with the two sentinels that anchor the list.
type bound[K any] struct {
	kind boundKind
	key  K
}

func minBound[K any]() bound[K] { return bound[K]{kind: negInf} }

func maxBound[K any]() bound[K] { return bound[K]{kind: posInf} }

func keyBound[K any](key K) bound[K] { return bound[K]{kind: realKey, key: key} }

func (b bound[K]) String() string {
	switch b.kind {
	case negInf:
		return "-inf"
	case posInf:
		return "+inf"
	default:
		return fmt.Sprint(b.key)
	}
}

// compareBound orders b against a real key. Sentinels never compare equal
// to a real key.
func compareBound[K any](c Comparator[K], b bound[K], key K) int {
	switch b.kind {
	case negInf:
		return -1
	case posInf:
		return 1
	default:
		return c(b.key, key)
	}
}

// compareBounds orders two bounds.
func compareBounds[K any](c Comparator[K], a, b bound[K]) int {
	if a.kind != realKey || b.kind != realKey {
		return cmp.Compare(a.kind, b.kind)
	}
	return c(a.key, b.key)
}
