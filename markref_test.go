package skiplist

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkedReferenceZeroValue(t *testing.T) {
	var r MarkedReference[int]

	ref, mark := r.Get()
	assert.Nil(t, ref)
	assert.False(t, mark)

	x := 7
	require.True(t, r.CompareAndSet(nil, false, &x, false))
	assert.Same(t, &x, r.Reference())
}

func TestMarkedReferenceCompareAndSet(t *testing.T) {
	a, b := 1, 2
	r := NewMarkedReference(&a, false)

	t.Run("wrong reference fails", func(t *testing.T) {
		assert.False(t, r.CompareAndSet(&b, false, &b, true))
		ref, mark := r.Get()
		assert.Same(t, &a, ref)
		assert.False(t, mark)
	})

	t.Run("wrong mark fails", func(t *testing.T) {
		assert.False(t, r.CompareAndSet(&a, true, &b, false))
		assert.Same(t, &a, r.Reference())
		assert.False(t, r.IsMarked())
	})

	t.Run("mark only", func(t *testing.T) {
		require.True(t, r.CompareAndSet(&a, false, &a, true))
		ref, mark := r.Get()
		assert.Same(t, &a, ref)
		assert.True(t, mark)
	})

	t.Run("second mark by a racer fails", func(t *testing.T) {
		assert.False(t, r.CompareAndSet(&a, false, &a, true))
	})

	t.Run("swap both", func(t *testing.T) {
		require.True(t, r.CompareAndSet(&a, true, &b, false))
		ref, mark := r.Get()
		assert.Same(t, &b, ref)
		assert.False(t, mark)
	})

	t.Run("identity update succeeds", func(t *testing.T) {
		assert.True(t, r.CompareAndSet(&b, false, &b, false))
	})
}

func TestMarkedReferenceAttemptMark(t *testing.T) {
	a, b := 1, 2
	r := NewMarkedReference(&a, false)

	assert.False(t, r.AttemptMark(&b, true))
	assert.False(t, r.IsMarked())

	assert.True(t, r.AttemptMark(&a, true))
	assert.True(t, r.IsMarked())
	assert.Same(t, &a, r.Reference())
}

func TestMarkedReferenceSingleMarkWinner(t *testing.T) {
	for round := range 200 {
		x := round
		r := NewMarkedReference(&x, false)

		const racers = 16
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners int
		)
		start := make(chan struct{})
		wg.Add(racers)
		for range racers {
			go func() {
				defer wg.Done()
				<-start
				if r.CompareAndSet(&x, false, &x, true) {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, 1, winners, "round %d", round)
		ref, mark := r.Get()
		require.Same(t, &x, ref)
		require.True(t, mark)
	}
}

func TestMarkedReferenceNoTornPairs(t *testing.T) {
	a, b := 1, 2
	r := NewMarkedReference(&a, false)

	// Writers only ever install (a, false) and (b, true); a reader must
	// never see a mixed pair.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			r.CompareAndSet(&a, false, &b, true)
			r.CompareAndSet(&b, true, &a, false)
		}
	}()
	go func() {
		defer wg.Done()
		defer close(stop)
		for range 100000 {
			ref, mark := r.Get()
			if (ref == &a && mark) || (ref == &b && !mark) {
				t.Errorf("observed torn pair ref=%d mark=%t", *ref, mark)
				return
			}
		}
	}()
	wg.Wait()
}
