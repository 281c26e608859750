package ops_test

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/matrix/ops"
)

const tol = 1e-9

var factories = []matrix.Factory{
	matrix.RowMapFactory{},
	matrix.CompactFactory{},
	matrix.DenseFactory{},
	matrix.CoordinateFactory{},
}

func mustRows(t *testing.T, f matrix.Factory, rows [][]float64) matrix.Matrix {
	t.Helper()
	m, err := matrix.FromRows(f, rows)
	require.NoError(t, err)
	return m
}

func mustIdentity(t *testing.T, f matrix.Factory, n int) matrix.Matrix {
	t.Helper()
	m, err := matrix.Identity(f, n)
	require.NoError(t, err)
	return m
}

func mustMul(t *testing.T, f matrix.Factory, a, b matrix.Matrix) matrix.Matrix {
	t.Helper()
	m, err := matrix.Mul(f, a, b)
	require.NoError(t, err)
	return m
}

// diagDominant returns a random non-singular, non-symmetric n×n matrix.
func diagDominant(f matrix.Factory, n int, rng *rand.Rand) (matrix.Matrix, error) {
	m, err := matrix.RandomSparse(f, n, n, 0.3, rng)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err = m.Set(i, i, float64(2*n)+rng.Float64()); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func TestLU_Identity(t *testing.T) {
	for _, f := range factories {
		t.Run(f.Name(), func(t *testing.T) {
			id := mustIdentity(t, f, 3)
			d, err := ops.LU(f, id)
			require.NoError(t, err)
			assert.Equal(t, []int{0, 1, 2}, d.Pivot())
			assert.False(t, d.IsSingular())

			u, err := d.U(f)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(u, id, 0))
			l, err := d.L(f)
			require.NoError(t, err)
			assert.True(t, matrix.Equal(l, id, 0))

			ch, ok, err := ops.Cholesky(f, id, matrix.DefaultEpsilon)
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, matrix.Equal(ch, id, 0))
		})
	}
}

func TestLU_PivotsAndDet(t *testing.T) {
	f := matrix.RowMapFactory{}
	a := mustRows(t, f, [][]float64{{1, 2}, {3, 4}})
	d, err := ops.LU(f, a)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, d.Pivot())
	det, err := d.Det()
	require.NoError(t, err)
	assert.InDelta(t, -2, det, tol)

	v, err := a.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v, "input untouched")
}

func TestLU_ReconstructionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)
	f := matrix.RowMapFactory{}

	properties.Property("A[piv,:] = L·U", prop.ForAll(
		func(n int, seed int64) bool {
			a, err := matrix.RandomSparse(f, n, n, 0.4, rand.New(rand.NewSource(seed)))
			if err != nil {
				return false
			}
			d, err := ops.LU(f, a)
			if err != nil {
				return false
			}
			l, err := d.L(f)
			if err != nil {
				return false
			}
			u, err := d.U(f)
			if err != nil {
				return false
			}
			lu, err := matrix.Mul(f, l, u)
			if err != nil {
				return false
			}
			pa, err := matrix.SelectRows(f, a, d.Pivot())
			if err != nil {
				return false
			}
			return matrix.Equal(lu, pa, 1e-9)
		},
		gen.IntRange(1, 12),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestLU_Solve(t *testing.T) {
	f := matrix.RowMapFactory{}
	a := mustRows(t, f, [][]float64{{2, 1, 0}, {1, 3, 1}, {0, 1, 4}})
	x := mustRows(t, f, [][]float64{{1, 0}, {2, -1}, {0, 3}})
	b := mustMul(t, f, a, x)

	d, err := ops.LU(f, a)
	require.NoError(t, err)
	got, err := d.Solve(f, b)
	require.NoError(t, err)
	assert.True(t, matrix.Equal(got, x, tol))

	wrong := mustRows(t, f, [][]float64{{1}, {2}})
	_, err = d.Solve(f, wrong)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestInvert_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, f := range factories {
		t.Run(f.Name(), func(t *testing.T) {
			for n := 1; n <= 9; n += 4 {
				a, err := diagDominant(f, n, rng)
				require.NoError(t, err)
				inv, err := ops.Invert(f, a)
				require.NoError(t, err)
				assert.True(t, matrix.Equal(mustMul(t, f, a, inv), mustIdentity(t, f, n), 1e-9), "n=%d", n)
			}
		})
	}
}

func TestInvert_Paths(t *testing.T) {
	f := matrix.RowMapFactory{}

	diag := mustRows(t, f, [][]float64{{2, 0}, {0, -4}})
	inv, err := ops.Invert(f, diag)
	require.NoError(t, err)
	assert.True(t, matrix.Equal(inv, mustRows(t, f, [][]float64{{0.5, 0}, {0, -0.25}}), 0))

	_, err = ops.Invert(f, mustRows(t, f, [][]float64{{1, 2}, {2, 4}}))
	require.ErrorIs(t, err, matrix.ErrSingular)

	_, err = ops.Invert(f, mustRows(t, f, [][]float64{{1, 0}, {0, 0}}))
	require.ErrorIs(t, err, matrix.ErrSingular, "zero on the diagonal")

	_, err = ops.Invert(f, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestInvert_Rectangular(t *testing.T) {
	f := matrix.RowMapFactory{}
	tall := mustRows(t, f, [][]float64{{1, 0}, {0, 1}, {1, 1}})

	p, err := ops.Invert(f, tall)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Rows())
	assert.Equal(t, 3, p.Cols())
	assert.True(t, matrix.Equal(mustMul(t, f, p, tall), mustIdentity(t, f, 2), tol), "left inverse")

	wide, err := matrix.Transpose(f, tall)
	require.NoError(t, err)
	q, err := ops.Invert(f, wide)
	require.NoError(t, err)
	assert.True(t, matrix.Equal(mustMul(t, f, wide, q), mustIdentity(t, f, 2), tol), "right inverse")

	pc, err := ops.InvertByCholesky(f, tall)
	require.NoError(t, err)
	assert.True(t, matrix.Equal(pc, p, tol), "same pseudo-inverse")
}

func TestInvertByCholesky_SPD(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	f := matrix.RowMapFactory{}
	for _, n := range []int{1, 4, 8} {
		a, err := matrix.RandomSPD(f, n, 0.3, rng)
		require.NoError(t, err)
		want, err := ops.Invert(f, a)
		require.NoError(t, err)
		got, err := ops.InvertByCholesky(f, a)
		require.NoError(t, err)
		assert.True(t, matrix.Equal(got, want, 1e-7), "n=%d", n)
	}

	_, err := ops.InvertByCholesky(f, mustRows(t, f, [][]float64{{1, 0}, {0, 0}}))
	require.ErrorIs(t, err, matrix.ErrNotDecomposable)
}

func TestCholesky(t *testing.T) {
	f := matrix.RowMapFactory{}
	a := mustRows(t, f, [][]float64{{4, 2, 0}, {2, 5, 1}, {0, 1, 2}})
	l, ok, err := ops.Cholesky(f, a, matrix.DefaultEpsilon)
	require.NoError(t, err)
	require.True(t, ok)
	lt, err := matrix.Transpose(f, l)
	require.NoError(t, err)
	assert.True(t, matrix.Equal(mustMul(t, f, l, lt), a, tol))
	v, err := l.At(0, 1)
	require.NoError(t, err)
	assert.Zero(t, v, "lower triangular")

	tests := []struct {
		name string
		rows [][]float64
	}{
		{"indefinite", [][]float64{{1, 2}, {2, 1}}},
		{"asymmetric", [][]float64{{4, 1}, {2, 4}}},
		{"negative diagonal", [][]float64{{-1, 0}, {0, 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l, ok, err := ops.Cholesky(f, mustRows(t, f, tc.rows), matrix.DefaultEpsilon)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, l)
		})
	}

	_, _, err = ops.Cholesky(f, mustRows(t, f, [][]float64{{1, 2}}), matrix.DefaultEpsilon)
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}

func TestQR_LeastSquares(t *testing.T) {
	f := matrix.RowMapFactory{}
	// y = 1 + 2x sampled at x = 0..3.
	a := mustRows(t, f, [][]float64{{1, 0}, {1, 1}, {1, 2}, {1, 3}})
	b := mustRows(t, f, [][]float64{{1}, {3}, {5}, {7}})

	d, err := ops.QR(f, a)
	require.NoError(t, err)
	require.True(t, d.IsFullRank())
	x, err := d.Solve(f, b)
	require.NoError(t, err)
	assert.True(t, matrix.Equal(x, mustRows(t, f, [][]float64{{1}, {2}}), tol))

	q, err := d.Q(f)
	require.NoError(t, err)
	r, err := d.R(f)
	require.NoError(t, err)
	assert.True(t, matrix.Equal(mustMul(t, f, q, r), a, tol), "Q·R = A")
	qtq, err := matrix.MulByTranspose(f, mustTranspose(t, f, q))
	require.NoError(t, err)
	assert.True(t, matrix.Equal(qtq, mustIdentity(t, f, 2), tol), "orthonormal columns")
}

func mustTranspose(t *testing.T, f matrix.Factory, m matrix.Matrix) matrix.Matrix {
	t.Helper()
	out, err := matrix.Transpose(f, m)
	require.NoError(t, err)
	return out
}

func TestQR_Errors(t *testing.T) {
	f := matrix.RowMapFactory{}
	_, err := ops.QR(f, mustRows(t, f, [][]float64{{1, 2, 3}}))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	d, err := ops.QR(f, mustRows(t, f, [][]float64{{1, 0}, {1, 0}, {1, 0}}))
	require.NoError(t, err)
	assert.False(t, d.IsFullRank())
	_, err = d.Solve(f, mustRows(t, f, [][]float64{{1}, {1}, {1}}))
	require.ErrorIs(t, err, matrix.ErrRankDeficient)
}

func TestInvertDiagonal(t *testing.T) {
	f := matrix.RowMapFactory{}
	m := mustRows(t, f, [][]float64{{4, 0}, {0, 0.5}})
	require.NoError(t, ops.InvertDiagonal(m))
	assert.True(t, matrix.Equal(m, mustRows(t, f, [][]float64{{0.25, 0}, {0, 2}}), 0))

	z := mustRows(t, f, [][]float64{{1, 0}, {0, 0}})
	require.ErrorIs(t, ops.InvertDiagonal(z), matrix.ErrSingular)
	require.ErrorIs(t, ops.InvertDiagonal(mustRows(t, f, [][]float64{{1, 2}})), matrix.ErrNonSquare)
}

func TestEigen_LaplacianComponents(t *testing.T) {
	f := matrix.RowMapFactory{}
	// Triangle 0-1-2 and edge 3-4: two components.
	adj := mustRows(t, f, [][]float64{
		{0, 1, 1, 0, 0},
		{1, 0, 1, 0, 0},
		{1, 1, 0, 0, 0},
		{0, 0, 0, 0, 1},
		{0, 0, 0, 1, 0},
	})
	l, err := matrix.Laplacian(f, adj)
	require.NoError(t, err)

	values, vectors, err := ops.Eigen(f, l, 1e-10, 1000)
	require.NoError(t, err)
	require.Len(t, values, 5)
	assert.Equal(t, 2, ops.Components(values, 1e-8))
	for i := 1; i < len(values); i++ {
		assert.LessOrEqual(t, values[i-1], values[i], "ascending")
	}
	// Triangle spectrum {0,3,3}, edge spectrum {0,2}.
	assert.InDelta(t, 2, values[2], 1e-8)
	assert.InDelta(t, 3, values[4], 1e-8)

	// L·V = V·Λ.
	lv := mustMul(t, f, l, vectors)
	lambda, err := f.New(5, 5)
	require.NoError(t, err)
	for i, v := range values {
		require.NoError(t, lambda.Set(i, i, v))
	}
	assert.True(t, matrix.Equal(lv, mustMul(t, f, vectors, lambda), 1e-8))

	_, _, err = ops.Eigen(f, mustRows(t, f, [][]float64{{1, 2}, {0, 1}}), 1e-10, 10)
	require.ErrorIs(t, err, ops.ErrNotSymmetric)
}
