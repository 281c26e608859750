// SPDX-License-Identifier: MIT

package ops

import (
	"fmt"
	"math"

	"github.com/katalvlaran/smartop/matrix"
)

// Cholesky computes the lower-triangular L with L·Lᵗ = a for a symmetric
// positive-definite a, built by f.
//
// The boolean is false (with a nil error) when a is not decomposable:
// asymmetry beyond eps, or a non-positive pivot d = a[j,j] − Σ L[j,k]².
// The error is reserved for nil or non-square input.
//
// Implementation:
//   - Stage 1: for row j, compute L[j,k] = (a[j,k] − Σ_{i<k} L[k,i]·L[j,i]) / L[k,k]
//     for k < j, summing only over the entries of the growing row j.
//   - Stage 2: check symmetry of the (j,k)/(k,j) pair while at it.
//   - Stage 3: L[j,j] = sqrt(a[j,j] − Σ L[j,k]²), aborting on a non-positive radicand.
//
// Complexity: O(n² · row fill) At calls.
func Cholesky(f matrix.Factory, a matrix.Matrix, eps float64) (matrix.Matrix, bool, error) {
	if err := matrix.ValidateSquareNonNil(a); err != nil {
		return nil, false, fmt.Errorf("Cholesky: %w", err)
	}
	n := a.Rows()
	l, err := f.New(n, n)
	if err != nil {
		return nil, false, fmt.Errorf("Cholesky: %w", err)
	}

	var (
		lj   = make(rowVec) // row j of L under construction
		ljk  []int          // its occupied columns, ascending
		s, d float64
	)
	for j := 0; j < n; j++ {
		clear(lj)
		ljk = ljk[:0]
		d = 0
		for k := 0; k < j; k++ {
			// Stage 1
			s = 0
			for _, i := range ljk {
				s += at(l, k, i) * lj[i]
			}
			ajk, akj := at(a, j, k), at(a, k, j)
			// Stage 2
			if math.Abs(ajk-akj) > eps {
				return nil, false, nil
			}
			if ajk == 0 && s == 0 {
				continue
			}
			s = (ajk - s) / at(l, k, k)
			if s == 0 {
				continue
			}
			lj[k] = s
			ljk = append(ljk, k)
			d += s * s
		}

		// Stage 3
		ajj := at(a, j, j)
		if ajj-d <= 0 {
			return nil, false, nil
		}
		lj[j] = math.Sqrt(ajj - d)
		if err = lj.store(l, j); err != nil {
			return nil, false, fmt.Errorf("Cholesky: row %d: %w", j, err)
		}
	}
	l.RefreshNonZeros()

	return l, true, nil
}
