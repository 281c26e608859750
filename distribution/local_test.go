package distribution_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smartop/distribution"
	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/parallel"
	"github.com/katalvlaran/smartop/policy"
)

func TestLocalAdapter_MultiplyJob(t *testing.T) {
	t.Parallel()
	a := mustRows(t, [][]float64{{1, 2}, {4, 5}, {0, 0}, {1, 1}})
	b := mustRows(t, [][]float64{{11, 12}, {14, 15}})
	want, err := matrix.Mul(rowmap, a, b)
	require.NoError(t, err)

	ranges, err := policy.Split(a.Rows(), 3)
	require.NoError(t, err)

	job := distribution.NewJob(mustNew(t, 4, 2), distribution.RowMerge{})
	job.Shared().PutFactory(rowmap)
	job.Shared().PutMatrix(distribution.KeyRightMatrix, b)
	for _, r := range ranges {
		left, err := matrix.Submatrix(rowmap, a, r.Start, r.End)
		require.NoError(t, err)
		require.NoError(t, job.AddTasks(distribution.NewMultiplyTask(r, left)))
	}

	ad := distribution.NewLocalAdapter(parallel.NewPool(2))
	got, err := distribution.Run(context.Background(), ad, job)
	require.NoError(t, err)
	require.NoError(t, ad.Close())
	assert.True(t, matrix.Equal(got, want, 1e-12))
	assert.Equal(t, want.NonZeros(), got.NonZeros())
}

func TestLocalAdapter_TaskFailure(t *testing.T) {
	t.Parallel()
	job := distribution.NewJob(mustNew(t, 1, 1), distribution.RowMerge{})
	job.Shared().PutFactory(rowmap) // no right matrix: the task fails
	require.NoError(t, job.AddTasks(distribution.NewMultiplyTask(policy.Range{Start: 0, End: 1}, mustRows(t, [][]float64{{1}}))))

	ad := distribution.NewLocalAdapter(parallel.NewPool(1))
	defer ad.Close()
	_, err := distribution.Run(context.Background(), ad, job)
	require.ErrorIs(t, err, distribution.ErrTaskFailed)
	require.ErrorIs(t, err, distribution.ErrMissingShared)
}

func TestLocalAdapter_Closed(t *testing.T) {
	t.Parallel()
	ad := distribution.NewLocalAdapter(parallel.NewPool(1))
	require.NoError(t, ad.Close())
	job := distribution.NewJob(mustNew(t, 1, 1), distribution.RowMerge{})
	require.ErrorIs(t, ad.Submit(context.Background(), job), distribution.ErrClosed)
	assert.Equal(t, "local", ad.Name())
}
