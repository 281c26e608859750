// SPDX-License-Identifier: MIT

// Package ops provides decompositions, triangular solves and inverses on top
// of the smartop/matrix capability contract.
package ops

import (
	"fmt"
	"math"

	"github.com/katalvlaran/smartop/matrix"
)

// LUFactors holds a packed LU decomposition with partial pivoting:
// strict lower part is L (unit diagonal implied), upper part is U,
// and row i of the factored matrix came from row Pivot()[i] of the input.
type LUFactors struct {
	lu  matrix.Matrix
	piv []int
}

// LUInPlace factors a (m×n) in place with left-looking partial pivoting.
// Implementation:
//   - Stage 1: for each occupied column j (ascending), load the column into a
//     dense scratch vector and apply the previous transformations row by row.
//   - Stage 2: choose the pivot as the largest magnitude at or below j and
//     swap whole rows (storage and scratch) when it differs from j.
//   - Stage 3: divide the sub-diagonal entries of column j by the pivot.
//
// Columns that were never occupied stay empty through the whole
// factorization, so they are skipped. Empty rows stay empty.
// Complexity: O(C·(m + Σ row nnz)) At calls, C = occupied columns.
func LUInPlace(a matrix.Matrix) ([]int, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return nil, fmt.Errorf("LU: %w", err)
	}

	var (
		m    = a.Rows()
		piv  = make([]int, m)
		colj = make([]float64, m)
		s, v float64
		p, k int
	)
	for i := range piv {
		piv[i] = i
	}

	for _, j := range matrix.OccupiedColumns(a) {
		// Stage 1: load column j and apply previous transformations.
		for i := range colj {
			colj[i] = 0
		}
		rows := a.RowIndices()
		for _, i := range rows {
			colj[i] = at(a, i, j)
		}
		for _, i := range rows {
			kmax := min(i, j)
			s = 0
			for _, k = range a.ColIndices(i) {
				if k >= kmax {
					break
				}
				s += at(a, i, k) * colj[k]
			}
			if s == 0 {
				continue
			}
			colj[i] -= s
			if err := a.Set(i, j, colj[i]); err != nil {
				return nil, fmt.Errorf("LU: column %d: %w", j, err)
			}
		}
		if j >= m {
			continue
		}

		// Stage 2: pivot search and row swap.
		p = j
		for i := j + 1; i < m; i++ {
			if math.Abs(colj[i]) > math.Abs(colj[p]) {
				p = i
			}
		}
		if p != j {
			if err := swapRows(a, p, j); err != nil {
				return nil, fmt.Errorf("LU: swap %d<->%d: %w", p, j, err)
			}
			colj[p], colj[j] = colj[j], colj[p]
			piv[p], piv[j] = piv[j], piv[p]
		}

		// Stage 3: scale the multipliers.
		if colj[j] == 0 {
			continue
		}
		for i := j + 1; i < m; i++ {
			if colj[i] == 0 {
				continue
			}
			v = colj[i] / colj[j]
			if err := a.Set(i, j, v); err != nil {
				return nil, fmt.Errorf("LU: column %d: %w", j, err)
			}
		}
	}
	a.RefreshNonZeros()

	return piv, nil
}

// swapRows exchanges rows p and q of a through the row writer.
func swapRows(a matrix.Matrix, p, q int) error {
	pc, pv := matrix.RowEntries(a, p)
	qc, qv := matrix.RowEntries(a, q)
	if err := matrix.WriteRow(a, p, qc, qv); err != nil {
		return err
	}

	return matrix.WriteRow(a, q, pc, pv)
}

// LU factors a copy of m built by f; m is left untouched.
func LU(f matrix.Factory, m matrix.Matrix) (*LUFactors, error) {
	lu, err := matrix.Copy(f, m)
	if err != nil {
		return nil, fmt.Errorf("LU: %w", err)
	}
	piv, err := LUInPlace(lu)
	if err != nil {
		return nil, err
	}

	return &LUFactors{lu: lu, piv: piv}, nil
}

// Packed returns the packed L\U storage.
func (d *LUFactors) Packed() matrix.Matrix { return d.lu }

// Pivot returns a copy of the row permutation.
func (d *LUFactors) Pivot() []int {
	out := make([]int, len(d.piv))
	copy(out, d.piv)

	return out
}

// IsSingular reports whether any U diagonal entry is exactly zero.
func (d *LUFactors) IsSingular() bool {
	n := min(d.lu.Rows(), d.lu.Cols())
	for j := 0; j < n; j++ {
		if at(d.lu, j, j) == 0 {
			return true
		}
	}

	return false
}

// L returns the unit lower-triangular factor (m×min(m,n)).
func (d *LUFactors) L(f matrix.Factory) (matrix.Matrix, error) {
	m, n := d.lu.Rows(), d.lu.Cols()
	k := min(m, n)
	out, err := f.New(m, k)
	if err != nil {
		return nil, fmt.Errorf("LU.L: %w", err)
	}
	for i := 0; i < m; i++ {
		if i < k {
			if err = out.Set(i, i, 1); err != nil {
				return nil, fmt.Errorf("LU.L: %w", err)
			}
		}
		for _, j := range d.lu.ColIndices(i) {
			if j >= i || j >= k {
				break
			}
			if err = out.Set(i, j, at(d.lu, i, j)); err != nil {
				return nil, fmt.Errorf("LU.L: %w", err)
			}
		}
	}

	return out, nil
}

// U returns the upper-triangular factor (min(m,n)×n).
func (d *LUFactors) U(f matrix.Factory) (matrix.Matrix, error) {
	m, n := d.lu.Rows(), d.lu.Cols()
	k := min(m, n)
	out, err := f.New(k, n)
	if err != nil {
		return nil, fmt.Errorf("LU.U: %w", err)
	}
	for _, i := range d.lu.RowIndices() {
		if i >= k {
			break
		}
		for _, j := range d.lu.ColIndices(i) {
			if j < i {
				continue
			}
			if err = out.Set(i, j, at(d.lu, i, j)); err != nil {
				return nil, fmt.Errorf("LU.U: %w", err)
			}
		}
	}

	return out, nil
}

// Det returns the determinant of a square factored matrix.
func (d *LUFactors) Det() (float64, error) {
	if d.lu.Rows() != d.lu.Cols() {
		return 0, fmt.Errorf("LU.Det: %w", matrix.ErrNonSquare)
	}
	det := permutationSign(d.piv)
	for j := 0; j < d.lu.Rows(); j++ {
		det *= at(d.lu, j, j)
	}

	return det, nil
}

// Solve returns X with A·X = B, leaving b untouched.
func (d *LUFactors) Solve(f matrix.Factory, b matrix.Matrix) (matrix.Matrix, error) {
	x, err := matrix.Copy(f, b)
	if err != nil {
		return nil, fmt.Errorf("LU.Solve: %w", err)
	}
	if err = SolveLU(d.lu, d.piv, x); err != nil {
		return nil, err
	}

	return x, nil
}

// permutationSign returns +1 for an even permutation, -1 for an odd one.
func permutationSign(piv []int) float64 {
	seen := make([]bool, len(piv))
	sign := 1.0
	for i := range piv {
		if seen[i] {
			continue
		}
		cycle := 0
		for k := i; !seen[k]; k = piv[k] {
			seen[k] = true
			cycle++
		}
		if cycle%2 == 0 {
			sign = -sign
		}
	}

	return sign
}
