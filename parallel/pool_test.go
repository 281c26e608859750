package parallel_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smartop/parallel"
)

func TestPool_RunsEveryIndexOnce(t *testing.T) {
	t.Parallel()
	p := parallel.NewPool(4)
	seen := make([]int32, 100)
	err := p.Run(context.Background(), len(seen), func(_ context.Context, i int) error {
		atomic.AddInt32(&seen[i], 1)
		return nil
	})
	require.NoError(t, err)
	for i, n := range seen {
		assert.EqualValues(t, 1, n, "index %d", i)
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	t.Parallel()
	p := parallel.NewPool(3)
	var cur, peak atomic.Int32
	err := p.Run(context.Background(), 30, func(_ context.Context, _ int) error {
		n := cur.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		cur.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestPool_FirstErrorWins(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	err := parallel.NewPool(2).Run(context.Background(), 10, func(_ context.Context, i int) error {
		if i == 3 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestPool_Interrupted(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := parallel.NewPool(2).Run(ctx, 5, func(ctx context.Context, _ int) error {
		return nil
	})
	require.ErrorIs(t, err, parallel.ErrInterrupted)
	require.ErrorIs(t, err, context.Canceled)
}

func TestForEach(t *testing.T) {
	t.Parallel()
	items := []int{1, 2, 3, 4, 5}
	var sum atomic.Int64
	err := parallel.ForEach(context.Background(), parallel.NewPool(2), items, func(_ context.Context, v int) error {
		sum.Add(int64(v))
		return nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 15, sum.Load())

	require.NoError(t, parallel.NewPool(1).Run(context.Background(), 0, nil), "no work")
}

func TestSizing(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1, parallel.NewPool(0).Size())
	assert.Equal(t, parallel.SizeFor(1)*2, parallel.SizeFor(2))
	assert.Equal(t, parallel.SizeFor(1), parallel.SizeFor(0))
}
