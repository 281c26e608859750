package distribution_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smartop/distribution"
	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/policy"
)

func sharedWith(t *testing.T, kv map[string]matrix.Matrix) *distribution.SharedData {
	t.Helper()
	s := distribution.NewSharedData()
	s.PutFactory(rowmap)
	for k, m := range kv {
		s.PutMatrix(k, m)
	}
	return s
}

func TestTask_Run(t *testing.T) {
	t.Parallel()
	a := mustRows(t, [][]float64{{1, 2}, {4, 5}})
	b := mustRows(t, [][]float64{{11, 12}, {14, 15}})
	r := policy.Range{Start: 0, End: 2}

	tests := []struct {
		name   string
		task   *distribution.Task
		shared map[string]matrix.Matrix
		want   [][]float64
	}{
		{"add", distribution.NewAddTask(r, a, b), nil, [][]float64{{12, 14}, {18, 20}}},
		{"subtract", distribution.NewSubtractTask(r, b, a), nil, [][]float64{{10, 10}, {10, 10}}},
		{"multiply", distribution.NewMultiplyTask(r, a), map[string]matrix.Matrix{distribution.KeyRightMatrix: b}, [][]float64{{39, 42}, {114, 123}}},
		{"laplacian band", distribution.NewLaplacianTask(policy.Range{Start: 1, End: 2}, 2), map[string]matrix.Matrix{distribution.KeyLaplacian: a}, [][]float64{{0, 7}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.task.Run(context.Background(), sharedWith(t, tt.shared))
			require.NoError(t, err)
			assert.True(t, matrix.Equal(got, mustRows(t, tt.want), 1e-12), "got %v", matrix.Entries(got))
		})
	}
}

func TestTask_MissingShared(t *testing.T) {
	t.Parallel()
	task := distribution.NewMultiplyTask(policy.Range{Start: 0, End: 1}, mustRows(t, [][]float64{{1}}))
	_, err := task.Run(context.Background(), sharedWith(t, nil))
	require.ErrorIs(t, err, distribution.ErrMissingShared)

	_, err = task.Run(context.Background(), distribution.NewSharedData())
	require.ErrorIs(t, err, distribution.ErrMissingShared)
}

func TestTask_UnknownKind(t *testing.T) {
	t.Parallel()
	task := &distribution.Task{Kind: "divide"}
	_, err := task.Run(context.Background(), sharedWith(t, nil))
	require.ErrorIs(t, err, distribution.ErrUnknownTask)
}

func TestTask_DimensionMismatch(t *testing.T) {
	t.Parallel()
	task := distribution.NewAddTask(policy.Range{Start: 0, End: 1}, mustRows(t, [][]float64{{1}}), mustRows(t, [][]float64{{1, 2}}))
	_, err := task.Run(context.Background(), sharedWith(t, nil))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
