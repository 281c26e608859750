package distribution_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smartop/distribution"
	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/policy"
)

func TestCodec_TaskEnvelopeRoundTrip(t *testing.T) {
	t.Parallel()
	left := mustRows(t, [][]float64{{1, 0, 2.5}, {0, 0, 0}})
	right := mustRows(t, [][]float64{{0, -1, 0}, {3, 0, 0}})
	job := distribution.NewJob(mustNew(t, 2, 3), distribution.RowMerge{})
	task := distribution.NewSubtractTask(policy.Range{Start: 4, End: 6}, left, right)
	require.NoError(t, job.AddTasks(distribution.NewLaplacianTask(policy.Range{Start: 0, End: 1}, 3), task))

	codec := distribution.Codec{}
	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, distribution.EncodeTask(task)))

	var env distribution.TaskEnvelope
	require.NoError(t, codec.Decode(&buf, &env))
	got, err := distribution.DecodeTask(matrix.CompactFactory{}, env)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Index())
	assert.Equal(t, distribution.KindSubtract, got.Kind)
	assert.Equal(t, policy.Range{Start: 4, End: 6}, got.Range)
	assert.True(t, matrix.Equal(got.Left, left, 0))
	assert.True(t, matrix.Equal(got.Right, right, 0))
}

func TestCodec_SharedRoundTrip(t *testing.T) {
	t.Parallel()
	s := distribution.NewSharedData()
	s.PutFactory(matrix.CompactFactory{})
	a := mustRows(t, [][]float64{{0, 1}, {1, 0}})
	s.PutMatrix(distribution.KeyLaplacian, a)

	env, err := distribution.EncodeShared(s)
	require.NoError(t, err)
	data, err := distribution.Codec{}.Marshal(env)
	require.NoError(t, err)

	var back distribution.SharedEnvelope
	require.NoError(t, distribution.Codec{}.Unmarshal(data, &back))
	got, err := distribution.DecodeShared(back, 1)
	require.NoError(t, err)

	f, err := got.Factory()
	require.NoError(t, err)
	assert.Equal(t, matrix.FactoryCompact, f.Name())
	m, err := got.Matrix(distribution.KeyLaplacian)
	require.NoError(t, err)
	assert.True(t, matrix.Equal(m, a, 0))
}

func TestCodec_Errors(t *testing.T) {
	t.Parallel()
	_, err := distribution.DecodeTask(rowmap, distribution.TaskEnvelope{Kind: "pow"})
	require.ErrorIs(t, err, distribution.ErrUnknownTask)

	_, err = distribution.DecodeTask(rowmap, distribution.TaskEnvelope{Kind: distribution.KindAdd})
	require.ErrorIs(t, err, matrix.ErrBadFormat)

	_, err = distribution.DecodeShared(distribution.SharedEnvelope{Factory: "trove"}, 1)
	require.ErrorIs(t, err, matrix.ErrUnknownFactory)

	var v distribution.TaskEnvelope
	require.Error(t, distribution.Codec{}.Unmarshal([]byte("plain json"), &v))
}
