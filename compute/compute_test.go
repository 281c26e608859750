package compute_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smartop/compute"
	"github.com/katalvlaran/smartop/distribution"
	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/parallel"
	"github.com/katalvlaran/smartop/policy"
)

const eps = 1e-9

var rowmap = matrix.RowMapFactory{}

func mustRows(t *testing.T, rows [][]float64) matrix.Matrix {
	t.Helper()
	m, err := matrix.FromRows(rowmap, rows)
	require.NoError(t, err)
	return m
}

// engines returns one of each engine over the same factory.
func engines(t *testing.T) []compute.Computation {
	t.Helper()
	pool := parallel.NewPool(3)
	adapter := distribution.NewLocalAdapter(pool)
	t.Cleanup(func() { _ = adapter.Close() })

	dynamic := compute.NewDistributed(rowmap, adapter, policy.RowSparseness{Cores: 2}, nil)
	dynamic.Dynamic = true

	return []compute.Computation{
		compute.NewSerial(rowmap, nil),
		compute.NewLocal(rowmap, pool, policy.Static{Cores: 2, Granularity: 2}, nil),
		compute.NewDistributed(rowmap, adapter, policy.Static{Cores: 3, Granularity: 1}, nil),
		dynamic,
	}
}

func TestEngines_MultiplyScenario(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {4, 5}})
	b := mustRows(t, [][]float64{{11, 12}, {14, 15}})
	want := mustRows(t, [][]float64{{39, 42}, {114, 123}})

	for _, c := range engines(t) {
		t.Run(c.Name(), func(t *testing.T) {
			got, err := c.Multiply(context.Background(), a, b)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(got, want, eps))
			assert.Equal(t, 4, got.NonZeros())
		})
	}
}

func TestEngines_AgreeWithSerialKernels(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a, err := matrix.RandomSparse(rowmap, 23, 17, 0.2, rng)
	require.NoError(t, err)
	b, err := matrix.RandomSparse(rowmap, 23, 17, 0.3, rng)
	require.NoError(t, err)
	c, err := matrix.RandomSparse(rowmap, 17, 9, 0.4, rng)
	require.NoError(t, err)
	sq, err := matrix.RandomSparse(rowmap, 12, 12, 0.3, rng)
	require.NoError(t, err)

	wantAdd, err := matrix.Add(rowmap, a, b)
	require.NoError(t, err)
	wantSub, err := matrix.Sub(rowmap, a, b)
	require.NoError(t, err)
	wantMul, err := matrix.Mul(rowmap, a, c)
	require.NoError(t, err)
	wantLap, err := matrix.Laplacian(rowmap, sq)
	require.NoError(t, err)

	ctx := context.Background()
	for _, e := range engines(t) {
		t.Run(e.Name(), func(t *testing.T) {
			got, err := e.Add(ctx, a, b)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(got, wantAdd, eps), "add")

			got, err = e.Subtract(ctx, a, b)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(got, wantSub, eps), "subtract")

			got, err = e.Multiply(ctx, a, c)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(got, wantMul, eps), "multiply")

			got, err = e.Laplacian(ctx, sq)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(got, wantLap, eps), "laplacian")
		})
	}
}

func TestEngines_AddSubRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	a, err := matrix.RandomSparse(rowmap, 15, 15, 0.25, rng)
	require.NoError(t, err)
	b, err := matrix.RandomSparse(rowmap, 15, 15, 0.25, rng)
	require.NoError(t, err)

	ctx := context.Background()
	for _, e := range engines(t) {
		t.Run(e.Name(), func(t *testing.T) {
			sum, err := e.Add(ctx, a, b)
			require.NoError(t, err)
			back, err := e.Subtract(ctx, sum, b)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(back, a, 1e-12))
		})
	}
}

func TestEngines_DimensionMismatch(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2, 3}})
	b := mustRows(t, [][]float64{{1, 2}})

	ctx := context.Background()
	for _, e := range engines(t) {
		t.Run(e.Name(), func(t *testing.T) {
			_, err := e.Add(ctx, a, b)
			require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
			_, err = e.Multiply(ctx, a, b)
			require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
			_, err = e.Laplacian(ctx, a)
			require.ErrorIs(t, err, matrix.ErrNonSquare)
		})
	}
}

func TestEngines_LaplacianRowSumsVanish(t *testing.T) {
	// Undirected path 0-1-2 plus an isolated vertex 3.
	adj := mustRows(t, [][]float64{
		{0, 1, 0, 0},
		{1, 0, 1, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 0},
	})
	want := mustRows(t, [][]float64{
		{1, -1, 0, 0},
		{-1, 2, -1, 0},
		{0, -1, 1, 0},
		{0, 0, 0, 0},
	})
	for _, e := range engines(t) {
		t.Run(e.Name(), func(t *testing.T) {
			got, err := e.Laplacian(context.Background(), adj)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(got, want, 0))
		})
	}
}

func TestEngines_SerialDelegates(t *testing.T) {
	m := mustRows(t, [][]float64{{4, 1}, {1, 3}})
	ctx := context.Background()

	for _, e := range engines(t) {
		t.Run(e.Name(), func(t *testing.T) {
			tr, err := e.Transpose(ctx, m)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(tr, m, 0), "symmetric input")

			s, err := e.Scale(ctx, 2, m)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(s, mustRows(t, [][]float64{{8, 2}, {2, 6}}), 0))

			g, err := e.MultiplyByTranspose(ctx, m)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(g, mustRows(t, [][]float64{{17, 7}, {7, 10}}), eps))

			inv, err := e.Invert(ctx, m)
			require.NoError(t, err)
			id, err := matrix.Mul(rowmap, m, inv)
			require.NoError(t, err)
			eye, err := matrix.Identity(rowmap, 2)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(id, eye, 1e-9))

			invc, err := e.InvertByCholesky(ctx, m)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(invc, inv, 1e-9))
		})
	}
}

func TestEngines_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})

	for _, e := range engines(t) {
		t.Run(e.Name(), func(t *testing.T) {
			_, err := e.Multiply(ctx, a, a)
			if e.Name() == "serial" {
				// The serial kernel checks ctx once, before starting.
				require.ErrorIs(t, err, context.Canceled)
				return
			}
			require.Error(t, err)
		})
	}
}

func TestRepr(t *testing.T) {
	m := mustRows(t, [][]float64{{1}})
	assert.Equal(t, "rowmap", compute.Repr(m))

	d, err := matrix.NewDense(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "dense", compute.Repr(d))
}
