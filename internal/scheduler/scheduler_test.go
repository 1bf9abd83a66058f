package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEach_serialOrder(t *testing.T) {
	var got []int
	err := Each(context.Background(), []int{1, 2, 3, 4}, 1, func(_ context.Context, i int) error {
		got = append(got, i)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestEach_serialStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	var got []int
	err := Each(context.Background(), []int{1, 2, 3}, 0, func(_ context.Context, i int) error {
		got = append(got, i)
		if i == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, got)
}

func TestEach_parallelBound(t *testing.T) {
	const limit = 3
	var inFlight, peak atomic.Int32
	items := make([]int, 20)

	err := Each(context.Background(), items, limit, func(context.Context, int) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(limit))
	assert.Greater(t, peak.Load(), int32(1))
}

func TestEach_parallelRunsEverything(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]bool{}
	err := Each(context.Background(), []int{1, 2, 3, 4, 5}, 2, func(_ context.Context, i int) error {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 5)
}

func TestEach_parallelFailFast(t *testing.T) {
	boom := errors.New("boom")
	var started atomic.Int32
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	err := Each(context.Background(), items, 2, func(_ context.Context, i int) error {
		started.Add(1)
		if i == 0 {
			return boom
		}
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Less(t, started.Load(), int32(len(items)))
}

func TestEach_cancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := Each(ctx, []int{1}, 1, func(context.Context, int) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestEach_empty(t *testing.T) {
	require.NoError(t, Each(context.Background(), []string(nil), 4, func(context.Context, string) error {
		t.Fatal("must not be called")
		return nil
	}))
}
