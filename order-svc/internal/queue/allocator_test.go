package queue

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocator_StartsAtOne(t *testing.T) {
	a := NewAllocator()
	assert.Equal(t, 0, a.Current("v1"))
	assert.Equal(t, 1, a.Next("v1"))
	assert.Equal(t, 2, a.Next("v1"))
	assert.Equal(t, 1, a.Next("v2"), "vendors have independent counters")
	assert.Equal(t, 2, a.Current("v1"))
}

func TestAllocator_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	const workers = 64
	const perWorker = 50

	a := NewAllocator()
	results := make(chan int, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := 0
			for j := 0; j < perWorker; j++ {
				n := a.Next("v1")
				// numbers seen by a single caller are strictly increasing
				if n <= last {
					t.Errorf("number went backwards: %d after %d", n, last)
				}
				last = n
				results <- n
			}
		}()
	}
	wg.Wait()
	close(results)

	var got []int
	for n := range results {
		got = append(got, n)
	}
	sort.Ints(got)

	require.Len(t, got, workers*perWorker)
	for i, n := range got {
		assert.Equal(t, i+1, n, "no duplicates and no gaps")
	}
}

func TestAllocator_FailedCommitDoesNotConsume(t *testing.T) {
	a := NewAllocator()
	require.Equal(t, 1, a.Next("v1"))

	boom := errors.New("write failed")
	_, err := a.Allocate("v1", func(n int) error {
		assert.Equal(t, 2, n)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, a.Current("v1"))

	n, err := a.Allocate("v1", func(int) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAllocator_VendorsDoNotBlockEachOther(t *testing.T) {
	a := NewAllocator()
	held := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_, _ = a.Allocate("slow", func(int) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	// v2 must make progress while "slow" holds its counter.
	assert.Equal(t, 1, a.Next("v2"))
	close(release)
}
