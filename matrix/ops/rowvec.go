// SPDX-License-Identifier: MIT

package ops

import (
	"sort"

	"github.com/katalvlaran/smartop/matrix"
)

// rowVec is a scratch sparse row used by the row-oriented substitutions.
type rowVec map[int]float64

// loadRow copies row i of m into a fresh rowVec.
func loadRow(m matrix.Matrix, i int) rowVec {
	cols, vals := matrix.RowEntries(m, i)
	r := make(rowVec, len(cols))
	for k, j := range cols {
		r[j] = vals[k]
	}

	return r
}

// axpy performs r += alpha · (row k of m).
func (r rowVec) axpy(alpha float64, m matrix.Matrix, k int) {
	if alpha == 0 {
		return
	}
	cols, vals := matrix.RowEntries(m, k)
	for x, j := range cols {
		r[j] += alpha * vals[x]
	}
}

// scale performs r *= alpha.
func (r rowVec) scale(alpha float64) {
	for j := range r {
		r[j] *= alpha
	}
}

// store writes r into row i of m, dropping exact zeros.
func (r rowVec) store(m matrix.Matrix, i int) error {
	cols := make([]int, 0, len(r))
	for j, v := range r {
		if v != 0 {
			cols = append(cols, j)
		}
	}
	sort.Ints(cols)
	vals := make([]float64, len(cols))
	for k, j := range cols {
		vals[k] = r[j]
	}

	return matrix.WriteRow(m, i, cols, vals)
}

// at reads m(i, j), ignoring the (pre-validated) bounds error.
func at(m matrix.Matrix, i, j int) float64 {
	v, _ := m.At(i, j)

	return v
}
