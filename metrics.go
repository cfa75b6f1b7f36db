package skiplist

import (
	"math/bits"
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

type metricShard struct {
	_                  cpu.CacheLinePad
	length             atomic.Int64
	insertCASRetries   atomic.Int64
	insertCASSuccesses atomic.Int64
	findRestarts       atomic.Int64
	snips              atomic.Int64
	_                  cpu.CacheLinePad
}

// Metrics holds the approximate size and contention counters of a list.
// Updates land on a randomly chosen shard; reads sum all shards, so a read
// concurrent with writers may miss in-flight adjustments.
type Metrics struct {
	shards []metricShard
	mask   uint32
	rng    *RNG
}

// Stats is a point-in-time view of a list's counters.
type Stats struct {
	Size               int64
	InsertCASRetries   int64
	InsertCASSuccesses int64
	FindRestarts       int64
	Snips              int64
}

func newMetrics(rng *RNG) *Metrics {
	shardCount := 1
	if rng != nil {
		shardCount = max(runtime.GOMAXPROCS(0), 1)
		shardCount = nextPowerOfTwo(shardCount)
	}
	return &Metrics{
		shards: make([]metricShard, shardCount),
		mask:   uint32(shardCount - 1),
		rng:    rng,
	}
}

func nextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(v-1))
}

func (m *Metrics) shard() *metricShard {
	if len(m.shards) == 1 || m.rng == nil {
		return &m.shards[0]
	}
	idx := uint32(m.rng.nextRandom64()) & m.mask
	return &m.shards[idx]
}

func (m *Metrics) IncInsertCASRetry() {
	m.shard().insertCASRetries.Add(1)
}

func (m *Metrics) IncInsertCASSuccess() {
	m.shard().insertCASSuccesses.Add(1)
}

func (m *Metrics) IncFindRestart() {
	m.shard().findRestarts.Add(1)
}

func (m *Metrics) IncSnip() {
	m.shard().snips.Add(1)
}

func (m *Metrics) AddLen(d int64) {
	m.shard().length.Add(d)
}

func (m *Metrics) Len() int64 {
	var total int64
	for i := range m.shards {
		total += m.shards[i].length.Load()
	}
	return total
}

func (m *Metrics) Snapshot() Stats {
	var s Stats
	for i := range m.shards {
		sh := &m.shards[i]
		s.Size += sh.length.Load()
		s.InsertCASRetries += sh.insertCASRetries.Load()
		s.InsertCASSuccesses += sh.insertCASSuccesses.Load()
		s.FindRestarts += sh.findRestarts.Load()
		s.Snips += sh.snips.Load()
	}
	return s
}
