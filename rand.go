package skiplist

import (
	"math/bits"
	"sync/atomic"
	"time"
)

const defaultSeed = uint64(0xdeadbeefcafebabe)

func newRandomSeed() uint64 {
	seed := uint64(time.Now().UnixNano())
	if seed == 0 {
		seed = defaultSeed
	}
	return seed
}

// RNG is a lock-free xorshift generator shared by all writers of a list.
type RNG struct {
	seed atomic.Uint64
}

func newRNG() *RNG {
	return newRNGWithSeed(newRandomSeed())
}

func newRNGWithSeed(seed uint64) *RNG {
	if seed == 0 {
		seed = defaultSeed
	}
	r := &RNG{}
	r.seed.Store(seed)
	return r
}

func (r *RNG) nextRandom64() uint64 {
	for {
		current := r.seed.Load()
		if current == 0 {
			r.seed.CompareAndSwap(0, newRandomSeed())
			continue
		}
		x := current
		x ^= x >> 12
		x ^= x << 25
		x ^= x >> 27
		if x == 0 {
			x = defaultSeed
		}
		if r.seed.CompareAndSwap(current, x) {
			return x * 2685821657736338717
		}
	}
}

// uniform returns a uniformly distributed value in [0, n) for n > 0,
// using a multiply-high reduction with rejection of the biased low range.
func (r *RNG) uniform(n uint64) uint64 {
	hi, lo := bits.Mul64(r.nextRandom64(), n)
	if lo < n {
		threshold := -n % n
		for lo < threshold {
			hi, lo = bits.Mul64(r.nextRandom64(), n)
		}
	}
	return hi
}

// ChooseLevel returns a level in [0, levelMax]. Level i is drawn with
// probability 2^(levelMax-i) / (2^(levelMax+1) - 1), so each level is
// roughly half as likely as the one below it.
//
// One value r is drawn uniformly from [1, 2^(levelMax+1) - 1]; the level
// is the number of zero bits above r's highest set bit, up to bit levelMax.
func (r *RNG) ChooseLevel(levelMax int) int {
	if levelMax <= 0 {
		return 0
	}
	span := uint64(1)<<(levelMax+1) - 1
	v := 1 + r.uniform(span)
	return levelLeadingZeros(v, levelMax)
}

// levelLeadingZeros counts the zero bits of v strictly below bit
// levelMax+1 that precede its highest set bit.
func levelLeadingZeros(v uint64, levelMax int) int {
	return levelMax - (bits.Len64(v) - 1)
}
