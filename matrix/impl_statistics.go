// SPDX-License-Identifier: MIT
// Package matrix - sparsity statistics and structural predicates.
//
// Purpose:
//   - Row sparseness (fraction of zero cells in a row; 1.0 means an all-zero row)
//     and its mean / population standard deviation / mode, consumed by the
//     task-splitting policies.
//   - Whole-matrix sparsity and structural predicates (square, diagonal, singular diagonal).
//
// Notes:
//   - "Sparseness" is the inverse of fill ratio on purpose; the policies are
//     calibrated on this convention.
//   - Dense reports every cell as present, so its statistics are constant (0).

package matrix

import (
	"math"
	"sort"
)

// SparsenessStats summarizes the per-row sparseness distribution.
type SparsenessStats struct {
	Mean   float64
	StdDev float64
	Mode   float64
}

// RowSparseness returns 1 − RowNonZeros(i)/Cols().
// Complexity: O(1) on RowMap/Compact/Dense, O(nnz) on Coordinate.
func RowSparseness(m Matrix, i int) float64 {
	return 1 - float64(m.RowNonZeros(i))/float64(m.Cols())
}

// Sparseness returns the sparseness of every row, indexed by row.
func Sparseness(m Matrix) []float64 {
	out := make([]float64, m.Rows())
	for i := range out {
		out[i] = 1
	}
	for _, i := range m.RowIndices() {
		out[i] = RowSparseness(m, i)
	}

	return out
}

// Stats computes mean, population standard deviation and mode of the row
// sparseness over ALL rows (empty rows count as 1.0).
// Implementation:
//   - Stage 1: one pass accumulating Σs, Σs² and a frequency table.
//   - Stage 2: std = sqrt(Σs²/n − mean²), clamped to 0 when rounding turns
//     the radicand negative (NaN guard).
//   - Stage 3: mode = most frequent value; ties resolved toward the larger value.
//
// Determinism: tie-breaking is value-ordered, independent of map order.
// Complexity: Time O(R log R + r), Space O(distinct values).
func Stats(m Matrix) SparsenessStats {
	n := m.Rows()
	if n == 0 {
		return SparsenessStats{}
	}
	var (
		sum, sumSq float64
		freq       = make(map[float64]int)
	)
	for _, s := range Sparseness(m) {
		sum += s
		sumSq += s * s
		freq[s]++
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	std := 0.0
	if variance > 0 {
		std = math.Sqrt(variance)
	}

	values := make([]float64, 0, len(freq))
	for v := range freq {
		values = append(values, v)
	}
	sort.Float64s(values)
	mode, best := 0.0, 0
	for _, v := range values {
		if freq[v] >= best {
			mode, best = v, freq[v]
		}
	}

	return SparsenessStats{Mean: mean, StdDev: std, Mode: mode}
}

// Sparsity returns 1 − NonZeros/(Rows·Cols) from the maintained counter.
func Sparsity(m Matrix) float64 {
	return 1 - float64(m.NonZeros())/float64(m.Rows()*m.Cols())
}

// SortedRows returns every row index ordered by ascending sparseness
// (densest rows first); ties keep ascending index order.
func SortedRows(m Matrix) []int {
	sp := Sparseness(m)
	rows := seq(m.Rows())
	sort.SliceStable(rows, func(a, b int) bool { return sp[rows[a]] < sp[rows[b]] })

	return rows
}

// IsSquare reports Rows == Cols.
func IsSquare(m Matrix) bool { return m.Rows() == m.Cols() }

// IsDiagonal reports whether m is square and every stored off-diagonal
// entry is zero.
func IsDiagonal(m Matrix) bool {
	if !IsSquare(m) {
		return false
	}
	var v float64
	for _, i := range m.RowIndices() {
		for _, j := range m.ColIndices(i) {
			if j == i {
				continue
			}
			if v, _ = m.At(i, j); v != 0 {
				return false
			}
		}
	}

	return true
}

// IsSingular reports whether a square matrix has a zero on its diagonal.
// This is the cheap structural test used before diagonal inversion, not a
// rank computation; non-square matrices report true.
func IsSingular(m Matrix) bool {
	if !IsSquare(m) {
		return true
	}
	for i := 0; i < m.Rows(); i++ {
		if v, _ := m.At(i, i); v == 0 {
			return true
		}
	}

	return false
}
