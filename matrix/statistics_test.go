// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smartop/matrix"
)

func TestStats(t *testing.T) {
	f := matrix.RowMapFactory{}
	// Row sparseness: 0.5, 1.0 (empty), 0.0, 0.5.
	m := mustRows(t, f, [][]float64{
		{1, 0},
		{0, 0},
		{2, 3},
		{0, 4},
	})
	assert.Equal(t, []float64{0.5, 1, 0, 0.5}, matrix.Sparseness(m))
	assert.Equal(t, 1.0, matrix.RowSparseness(m, 1))

	s := matrix.Stats(m)
	assert.InDelta(t, 0.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(0.125), s.StdDev, 1e-12)
	assert.Equal(t, 0.5, s.Mode)
	assert.InDelta(t, 0.5, matrix.Sparsity(m), 1e-12)
}

func TestStats_ModeTieTakesLargerValue(t *testing.T) {
	f := matrix.CompactFactory{}
	m := mustRows(t, f, [][]float64{{1, 1}, {0, 0}})
	assert.Equal(t, 1.0, matrix.Stats(m).Mode)
	assert.InDelta(t, 0.5, matrix.Stats(m).StdDev, 1e-12)
}

func TestStats_UniformRowsHaveZeroDeviation(t *testing.T) {
	f := matrix.CoordinateFactory{}
	m := mustRows(t, f, [][]float64{{1, 0, 0}, {0, 2, 0}, {0, 0, 3}})
	s := matrix.Stats(m)
	assert.InDelta(t, 2.0/3, s.Mean, 1e-12)
	assert.InDelta(t, 0, s.StdDev, 1e-6)
	assert.False(t, math.IsNaN(s.StdDev))
}

func TestSortedRows(t *testing.T) {
	m := mustRows(t, matrix.RowMapFactory{}, [][]float64{{1, 0}, {0, 0}, {2, 3}, {0, 4}})
	assert.Equal(t, []int{2, 0, 3, 1}, matrix.SortedRows(m))
}

func TestStructuralPredicates(t *testing.T) {
	f := matrix.RowMapFactory{}
	diag := mustRows(t, f, [][]float64{{2, 0}, {0, 3}})
	assert.True(t, matrix.IsSquare(diag))
	assert.True(t, matrix.IsDiagonal(diag))
	assert.False(t, matrix.IsSingular(diag))

	holed := mustRows(t, f, [][]float64{{2, 1}, {0, 0}})
	assert.False(t, matrix.IsDiagonal(holed))
	assert.True(t, matrix.IsSingular(holed))

	wide := mustRows(t, f, [][]float64{{1, 0, 0}})
	assert.False(t, matrix.IsDiagonal(wide))
	assert.True(t, matrix.IsSingular(wide))
}

func TestRandomSparse(t *testing.T) {
	f := matrix.RowMapFactory{}

	a, err := matrix.RandomSparse(f, 20, 30, 0.1, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := matrix.RandomSparse(f, 20, 30, 0.1, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.True(t, matrix.Equal(a, b, 0), "same seed yields the same matrix")
	for _, e := range matrix.Entries(a) {
		assert.True(t, e.Val >= -1 && e.Val < 1 && e.Val != 0)
	}

	full, err := matrix.RandomSparse(f, 3, 3, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 9, full.NonZeros())

	empty, err := matrix.RandomSparse(f, 3, 3, 0, nil)
	require.NoError(t, err)
	assert.Zero(t, empty.NonZeros())

	_, err = matrix.RandomSparse(f, 3, 3, 1.5, nil)
	assert.ErrorIs(t, err, matrix.ErrInvalidDensity)
	_, err = matrix.RandomSparse(f, 3, 3, 0.5, nil)
	assert.ErrorIs(t, err, matrix.ErrNeedRandSource)
	_, err = matrix.RandomSparse(f, 0, 3, 0.5, nil)
	assert.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestRandomSPD(t *testing.T) {
	f := matrix.CompactFactory{}
	m, err := matrix.RandomSPD(f, 6, 0.3, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	sym, err := matrix.ValidateSymmetric(m, 1e-12)
	require.NoError(t, err)
	assert.True(t, sym)
	for i := 0; i < 6; i++ {
		v, _ := m.At(i, i)
		assert.GreaterOrEqual(t, v, 6.0)
	}
}
