// Package builder_test verifies topology, symmetry, weights and determinism of
// every Constructor, on sparse and dense representations.
package builder_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smartop/builder"
	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/matrix/ops"
)

// edgeCount returns the number of stored off-diagonal entries.
func edgeCount(m matrix.Matrix) int {
	n := 0
	for _, e := range matrix.Entries(m) {
		if e.Row != e.Col {
			n++
		}
	}
	return n
}

func TestBuilders_Functional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ctor    builder.Constructor
		wantV   int
		wantE   int // undirected edges
		wantDeg map[int]float64
	}{
		{name: "Isolated(3)", ctor: builder.Isolated(3), wantV: 3, wantE: 0},
		{name: "Path(4)", ctor: builder.Path(4), wantV: 4, wantE: 3, wantDeg: map[int]float64{0: 1, 1: 2, 3: 1}},
		{name: "Cycle(5)", ctor: builder.Cycle(5), wantV: 5, wantE: 5, wantDeg: map[int]float64{0: 2, 4: 2}},
		{name: "Star(5)", ctor: builder.Star(5), wantV: 5, wantE: 4, wantDeg: map[int]float64{0: 4, 3: 1}},
		{name: "Wheel(5)", ctor: builder.Wheel(5), wantV: 5, wantE: 8, wantDeg: map[int]float64{0: 4, 1: 3}},
		{name: "Complete(4)", ctor: builder.Complete(4), wantV: 4, wantE: 6, wantDeg: map[int]float64{2: 3}},
		{name: "CompleteBipartite(2,3)", ctor: builder.CompleteBipartite(2, 3), wantV: 5, wantE: 6, wantDeg: map[int]float64{0: 3, 4: 2}},
		{name: "Grid(2,3)", ctor: builder.Grid(2, 3), wantV: 6, wantE: 7, wantDeg: map[int]float64{0: 2, 1: 3, 4: 3}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			for _, f := range []matrix.Factory{matrix.RowMapFactory{}, matrix.DenseFactory{}} {
				m, err := builder.BuildAdjacency(f, nil, tc.ctor)
				require.NoError(t, err)
				require.Equal(t, tc.wantV, m.Rows())
				assert.Equal(t, 2*tc.wantE, edgeCount(m), f.Name())

				sym, err := matrix.ValidateSymmetric(m, 0)
				require.NoError(t, err)
				assert.True(t, sym)

				deg := matrix.ColumnSums(m)
				for v, want := range tc.wantDeg {
					assert.Equalf(t, want, deg[v], "degree of %d", v)
				}
				for i := 0; i < m.Rows(); i++ {
					d, _ := m.At(i, i)
					assert.Zero(t, d, "no self-loops")
				}
			}
		})
	}
}

func TestBuildAdjacency_DisjointUnion(t *testing.T) {
	t.Parallel()
	m, err := builder.BuildAdjacency(matrix.CompactFactory{}, nil, builder.Path(3), builder.Isolated(1), builder.Cycle(3))
	require.NoError(t, err)
	require.Equal(t, 7, m.Rows())

	// The cycle is shifted behind the path and the isolated vertex.
	v, _ := m.At(4, 6)
	assert.Equal(t, 1.0, v)
	assert.Empty(t, m.ColIndices(3))

	l, err := matrix.Laplacian(matrix.CompactFactory{}, m)
	require.NoError(t, err)
	values, _, err := ops.Eigen(matrix.CompactFactory{}, l, 1e-9, 10000)
	require.NoError(t, err)
	assert.Equal(t, 3, ops.Components(values, 1e-6))
}

func TestBuildAdjacency_CycleSpectrum(t *testing.T) {
	t.Parallel()
	const n = 6
	m, err := builder.BuildAdjacency(matrix.RowMapFactory{}, nil, builder.Cycle(n))
	require.NoError(t, err)
	l, err := matrix.Laplacian(matrix.RowMapFactory{}, m)
	require.NoError(t, err)
	values, _, err := ops.Eigen(matrix.RowMapFactory{}, l, 1e-10, 10000)
	require.NoError(t, err)

	// λ_k = 2 − 2cos(2πk/n), sorted ascending.
	want := make([]float64, n)
	for k := range want {
		want[k] = 2 - 2*math.Cos(2*math.Pi*float64(k)/n)
	}
	sortFloats(want)
	for k := range want {
		assert.InDelta(t, want[k], values[k], 1e-6, "lambda[%d]", k)
	}
}

func sortFloats(xs []float64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

func TestBuildAdjacency_DirectedAndWeighted(t *testing.T) {
	t.Parallel()
	m, err := builder.BuildAdjacency(matrix.RowMapFactory{},
		[]builder.BuilderOption{builder.WithDirected(), builder.WithConstantWeight(2.5)},
		builder.Path(3))
	require.NoError(t, err)
	assert.Equal(t, []matrix.Entry{
		{Row: 0, Col: 1, Val: 2.5},
		{Row: 1, Col: 2, Val: 2.5},
	}, matrix.Entries(m))

	k, err := builder.BuildAdjacency(matrix.RowMapFactory{}, []builder.BuilderOption{builder.WithDirected()}, builder.Complete(3))
	require.NoError(t, err)
	assert.Equal(t, 6, edgeCount(k))

	u, err := builder.BuildAdjacency(matrix.RowMapFactory{},
		[]builder.BuilderOption{builder.WithSeed(5), builder.WithUniformWeight(1, 3)},
		builder.Star(4))
	require.NoError(t, err)
	for _, e := range matrix.Entries(u) {
		assert.True(t, e.Val >= 1 && e.Val < 3, "weight %g", e.Val)
	}
}

func TestRandomSparse(t *testing.T) {
	t.Parallel()
	build := func(seed int64, opts ...builder.BuilderOption) matrix.Matrix {
		m, err := builder.BuildAdjacency(matrix.CompactFactory{},
			append([]builder.BuilderOption{builder.WithSeed(seed)}, opts...),
			builder.RandomSparse(30, 0.2))
		require.NoError(t, err)
		return m
	}
	assert.True(t, matrix.Equal(build(9), build(9), 0), "same seed yields the same graph")

	sym, err := matrix.ValidateSymmetric(build(9), 0)
	require.NoError(t, err)
	assert.True(t, sym)

	full, err := builder.BuildAdjacency(matrix.RowMapFactory{}, nil, builder.RandomSparse(4, 1))
	require.NoError(t, err)
	assert.Equal(t, 12, edgeCount(full))

	empty, err := builder.BuildAdjacency(matrix.RowMapFactory{}, nil, builder.RandomSparse(4, 0))
	require.NoError(t, err)
	assert.Zero(t, empty.NonZeros())

	directed, err := builder.BuildAdjacency(matrix.RowMapFactory{},
		[]builder.BuilderOption{builder.WithRand(rand.New(rand.NewSource(1))), builder.WithDirected()},
		builder.RandomSparse(10, 0.5))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		v, _ := directed.At(i, i)
		assert.Zero(t, v)
	}
}

func TestBuilders_Errors(t *testing.T) {
	t.Parallel()
	f := matrix.RowMapFactory{}
	cases := []struct {
		name string
		ctor builder.Constructor
		want error
	}{
		{"path", builder.Path(1), builder.ErrTooFewVertices},
		{"cycle", builder.Cycle(2), builder.ErrTooFewVertices},
		{"star", builder.Star(1), builder.ErrTooFewVertices},
		{"wheel", builder.Wheel(3), builder.ErrTooFewVertices},
		{"complete", builder.Complete(0), builder.ErrTooFewVertices},
		{"bipartite", builder.CompleteBipartite(0, 2), builder.ErrTooFewVertices},
		{"grid", builder.Grid(2, 0), builder.ErrTooFewVertices},
		{"isolated", builder.Isolated(0), builder.ErrTooFewVertices},
		{"probability", builder.RandomSparse(3, 1.5), builder.ErrInvalidProbability},
		{"nan probability", builder.RandomSparse(3, math.NaN()), builder.ErrInvalidProbability},
		{"no rng", builder.RandomSparse(3, 0.5), builder.ErrNeedRandSource},
		{"nil constructor", nil, builder.ErrConstructFailed},
	}
	for _, tc := range cases {
		_, err := builder.BuildAdjacency(f, nil, tc.ctor)
		assert.ErrorIs(t, err, tc.want, tc.name)
	}

	_, err := builder.BuildAdjacency(f, nil)
	assert.ErrorIs(t, err, builder.ErrConstructFailed)
}

func TestOptions_Panic(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { builder.WithRand(nil) })
	assert.Panics(t, func() { builder.WithWeightFn(nil) })
	assert.Panics(t, func() { builder.ConstantWeightFn(0) })
	assert.Panics(t, func() { builder.UniformWeightFn(2, 1) })
	assert.Panics(t, func() { builder.UniformWeightFn(0, 1) })
	assert.Equal(t, 4.0, builder.UniformWeightFn(4, 9)(nil))
	assert.Equal(t, builder.DefaultEdgeWeight, builder.DefaultWeightFn(nil))
}

func TestByName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{
		"bipartite", "complete", "cycle", "grid", "isolated", "path", "random", "star", "wheel",
	}, builder.TopologyNames())

	for _, name := range builder.TopologyNames() {
		ctor, err := builder.ByName(name, 4, 3, 1)
		require.NoError(t, err, name)
		m, err := builder.BuildAdjacency(matrix.RowMapFactory{}, nil, ctor)
		require.NoError(t, err, name)
		assert.Positive(t, m.Rows(), name)
	}

	_, err := builder.ByName("hypercube", 3, 0, 0)
	assert.ErrorIs(t, err, builder.ErrUnknownTopology)
}
