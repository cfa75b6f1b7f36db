package skiplist

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
)

// SkipListMap is a lock-free ordered map. Deletion marks a node's links
// top level down to level 0, and traversals unlink marked nodes lazily.
//
// All methods are safe for concurrent use. Size is approximate while
// writers are active.
type SkipListMap[K, V any] struct {
	cmp      Comparator[K]
	levelMax int
	head     *node[K, V]
	tail     *node[K, V]
	maxKey   *K
	rng      *RNG
	metrics  *Metrics
	logger   *slog.Logger
}

// Entry is a key/value pair returned by ToOrderedList.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// New returns an empty list using levels 0..levelMax ordered by c.
// levelMax should be about log2 of the expected number of entries.
func New[K, V any](levelMax int, c Comparator[K], opts ...Option[K]) (*SkipListMap[K, V], error) {
	if levelMax < 0 {
		return nil, fmt.Errorf("%w: levelMax must not be negative, got %d", ErrInvalidArgument, levelMax)
	}
	if levelMax >= MaxLevel {
		return nil, fmt.Errorf("%w: levelMax must be below %d, got %d", ErrInvalidArgument, MaxLevel, levelMax)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: comparator is nil", ErrInvalidArgument)
	}

	o := buildOptions(opts)

	tailKey := maxBound[K]()
	if o.maxKey != nil {
		tailKey = keyBound(*o.maxKey)
	}
	head, tail := newSentinels[K, V](levelMax, tailKey)

	rng := newRNG()
	if o.seedFixed {
		rng = newRNGWithSeed(o.seed)
	}

	m := &SkipListMap[K, V]{
		cmp:      c,
		levelMax: levelMax,
		head:     head,
		tail:     tail,
		maxKey:   o.maxKey,
		rng:      rng,
		metrics:  newMetrics(rng),
		logger:   o.logger,
	}
	m.logger.Debug("skiplist created",
		"level_max", levelMax,
		"max_key_override", o.maxKey != nil,
	)
	return m, nil
}

// NewOrdered returns an empty list over a naturally ordered key type.
func NewOrdered[K cmp.Ordered, V any](levelMax int, opts ...Option[K]) (*SkipListMap[K, V], error) {
	return New[K, V](levelMax, cmp.Compare[K], opts...)
}

// LevelMax returns the highest level index of the list.
func (m *SkipListMap[K, V]) LevelMax() int {
	return m.levelMax
}

// Size returns the approximate number of entries. It is exact once all
// concurrent writers have returned.
func (m *SkipListMap[K, V]) Size() int {
	// A delete may decrement before the racing insert's increment lands.
	return int(max(m.metrics.Len(), 0))
}

// Stats reports the list's counters.
func (m *SkipListMap[K, V]) Stats() Stats {
	return m.metrics.Snapshot()
}

// IsEmpty reports whether the bottom level holds no unmarked entry.
func (m *SkipListMap[K, V]) IsEmpty() bool {
	curr := m.head.links[0].Reference()
	for curr != m.tail {
		succ, marked := curr.links[0].Get()
		if !marked {
			return false
		}
		curr = succ
	}
	return true
}

// Get returns the value for a key.
// The boolean is true if the key exists, false otherwise.
func (m *SkipListMap[K, V]) Get(key K) (V, bool) {
	if !m.inRange(key) {
		var zero V
		return zero, false
	}
	curr := m.seek(key)
	if curr == m.tail || compareBound(m.cmp, curr.key, key) != 0 {
		var zero V
		return zero, false
	}
	return curr.value()
}

// Contains returns true if the key exists in the skip list.
func (m *SkipListMap[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// inRange reports whether key may be stored: it must sort strictly below
// the tail when a maximum key is configured.
func (m *SkipListMap[K, V]) inRange(key K) bool {
	return m.maxKey == nil || m.cmp(key, *m.maxKey) < 0
}

func (m *SkipListMap[K, V]) logContention(restarts int) {
	if restarts < contentionLogThreshold || restarts&(restarts-1) != 0 {
		return
	}
	if !m.logger.Enabled(context.Background(), slog.LevelWarn) {
		return
	}
	m.logger.Warn("skiplist traversal restarting under contention",
		"restarts", restarts,
		"level_max", m.levelMax,
	)
}
