// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smartop/matrix"
)

// factories covers every representation behind the Factory registry.
func factories(t *testing.T) []matrix.Factory {
	t.Helper()
	out := make([]matrix.Factory, 0, len(matrix.FactoryNames()))
	for _, name := range matrix.FactoryNames() {
		f, err := matrix.FactoryByName(name, 1)
		require.NoError(t, err)
		out = append(out, f)
	}

	return out
}

// sparseFactories excludes Dense, whose structural queries report every cell.
func sparseFactories(t *testing.T) []matrix.Factory {
	t.Helper()
	var out []matrix.Factory
	for _, f := range factories(t) {
		if f.Name() != matrix.FactoryDense {
			out = append(out, f)
		}
	}

	return out
}

func mustRows(t *testing.T, f matrix.Factory, rows [][]float64) matrix.Matrix {
	t.Helper()
	m, err := matrix.FromRows(f, rows)
	require.NoError(t, err)

	return m
}

// requireCells compares every cell of m against want.
func requireCells(t *testing.T, want [][]float64, m matrix.Matrix) {
	t.Helper()
	require.Equal(t, len(want), m.Rows(), "rows")
	require.Equal(t, len(want[0]), m.Cols(), "cols")
	for i, row := range want {
		for j, w := range row {
			got, err := m.At(i, j)
			require.NoError(t, err)
			require.InDeltaf(t, w, got, 1e-9, "cell (%d,%d)", i, j)
		}
	}
}

// hide exposes only the Matrix interface, so kernels take their generic
// paths instead of the RowReplacer / Scaler / Multiplier fast paths.
type hide struct{ matrix.Matrix }
