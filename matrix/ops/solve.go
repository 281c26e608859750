// SPDX-License-Identifier: MIT

package ops

import (
	"fmt"

	"github.com/katalvlaran/smartop/matrix"
)

// SolveLU overwrites b (n×k) with X such that A·X = B, where lu/piv come
// from LUInPlace on the square A.
// Implementation:
//   - Stage 1: permute the rows of b by piv.
//   - Stage 2: forward substitution with the unit lower factor.
//   - Stage 3: back substitution with the upper factor.
//
// Substitutions are row-oriented: row i of X is updated by whole rows of X,
// so only occupied entries are touched.
func SolveLU(lu matrix.Matrix, piv []int, b matrix.Matrix) error {
	if err := matrix.ValidateSquareNonNil(lu); err != nil {
		return fmt.Errorf("SolveLU: %w", err)
	}
	if err := matrix.ValidateNotNil(b); err != nil {
		return fmt.Errorf("SolveLU: %w", err)
	}
	n := lu.Rows()
	if b.Rows() != n || len(piv) != n {
		return fmt.Errorf("SolveLU: %dx%d vs rhs %dx%d: %w", n, n, b.Rows(), b.Cols(), matrix.ErrDimensionMismatch)
	}
	for j := 0; j < n; j++ {
		if at(lu, j, j) == 0 {
			return fmt.Errorf("SolveLU: zero pivot at %d: %w", j, matrix.ErrSingular)
		}
	}

	// Stage 1
	src := make([]rowVec, n)
	for i := 0; i < n; i++ {
		src[i] = loadRow(b, i)
	}
	for i, p := range piv {
		if err := src[p].store(b, i); err != nil {
			return fmt.Errorf("SolveLU: %w", err)
		}
	}

	// Stage 2
	for i := 0; i < n; i++ {
		xi := loadRow(b, i)
		for _, k := range lu.ColIndices(i) {
			if k >= i {
				break
			}
			xi.axpy(-at(lu, i, k), b, k)
		}
		if err := xi.store(b, i); err != nil {
			return fmt.Errorf("SolveLU: %w", err)
		}
	}

	// Stage 3
	for i := n - 1; i >= 0; i-- {
		xi := loadRow(b, i)
		cols := lu.ColIndices(i)
		for x := len(cols) - 1; x >= 0 && cols[x] > i; x-- {
			xi.axpy(-at(lu, i, cols[x]), b, cols[x])
		}
		xi.scale(1 / at(lu, i, i))
		if err := xi.store(b, i); err != nil {
			return fmt.Errorf("SolveLU: %w", err)
		}
	}
	b.RefreshNonZeros()

	return nil
}

// SolveQR overwrites b (m×k) with Qᵗ·B and returns the least-squares
// solution X (n×k) extracted into a fresh matrix built by f.
// Errors: ErrDimensionMismatch, ErrRankDeficient when any rdiag entry is zero.
func SolveQR(f matrix.Factory, qr matrix.Matrix, rdiag []float64, b matrix.Matrix) (matrix.Matrix, error) {
	if err := matrix.ValidateNotNil(qr); err != nil {
		return nil, fmt.Errorf("SolveQR: %w", err)
	}
	if err := matrix.ValidateNotNil(b); err != nil {
		return nil, fmt.Errorf("SolveQR: %w", err)
	}
	m, n := qr.Rows(), qr.Cols()
	if b.Rows() != m || len(rdiag) != n {
		return nil, fmt.Errorf("SolveQR: %dx%d vs rhs %dx%d: %w", m, n, b.Rows(), b.Cols(), matrix.ErrDimensionMismatch)
	}
	for k, r := range rdiag {
		if r == 0 {
			return nil, fmt.Errorf("SolveQR: R[%d,%d] = 0: %w", k, k, matrix.ErrRankDeficient)
		}
	}

	// Qᵗ·B, one reflection at a time over the occupied rhs columns.
	var (
		rhsCols = matrix.OccupiedColumns(b)
		hv      []int
		w       []float64
		s, v    float64
	)
	for k := 0; k < n; k++ {
		hv, w = hv[:0], w[:0]
		for _, i := range qr.RowIndices() {
			if i < k {
				continue
			}
			if v = at(qr, i, k); v != 0 {
				hv = append(hv, i)
				w = append(w, v)
			}
		}
		vkk := at(qr, k, k)
		for _, j := range rhsCols {
			s = 0
			for x, i := range hv {
				s += w[x] * at(b, i, j)
			}
			if s == 0 {
				continue
			}
			s = -s / vkk
			for x, i := range hv {
				if err := b.Set(i, j, at(b, i, j)+s*w[x]); err != nil {
					return nil, fmt.Errorf("SolveQR: %w", err)
				}
			}
		}
	}

	// R·X = Qᵗ·B on the leading n rows.
	for i := n - 1; i >= 0; i-- {
		xi := loadRow(b, i)
		cols := qr.ColIndices(i)
		for x := len(cols) - 1; x >= 0 && cols[x] > i; x-- {
			xi.axpy(-at(qr, i, cols[x]), b, cols[x])
		}
		xi.scale(1 / rdiag[i])
		if err := xi.store(b, i); err != nil {
			return nil, fmt.Errorf("SolveQR: %w", err)
		}
	}
	b.RefreshNonZeros()

	x, err := matrix.Submatrix(f, b, 0, n)
	if err != nil {
		return nil, fmt.Errorf("SolveQR: %w", err)
	}

	return x, nil
}

// SolveCholesky overwrites b (n×k) with X such that L·Lᵗ·X = B.
// f builds the transposed factor used by the backward sweep.
func SolveCholesky(f matrix.Factory, l, b matrix.Matrix) error {
	if err := matrix.ValidateSquareNonNil(l); err != nil {
		return fmt.Errorf("SolveCholesky: %w", err)
	}
	if err := matrix.ValidateNotNil(b); err != nil {
		return fmt.Errorf("SolveCholesky: %w", err)
	}
	n := l.Rows()
	if b.Rows() != n {
		return fmt.Errorf("SolveCholesky: %dx%d vs rhs %dx%d: %w", n, n, b.Rows(), b.Cols(), matrix.ErrDimensionMismatch)
	}
	for j := 0; j < n; j++ {
		if at(l, j, j) == 0 {
			return fmt.Errorf("SolveCholesky: zero diagonal at %d: %w", j, matrix.ErrSingular)
		}
	}

	// L·Y = B
	for k := 0; k < n; k++ {
		yk := loadRow(b, k)
		for _, i := range l.ColIndices(k) {
			if i >= k {
				break
			}
			yk.axpy(-at(l, k, i), b, i)
		}
		yk.scale(1 / at(l, k, k))
		if err := yk.store(b, k); err != nil {
			return fmt.Errorf("SolveCholesky: %w", err)
		}
	}

	// Lᵗ·X = Y
	lt, err := matrix.Transpose(f, l)
	if err != nil {
		return fmt.Errorf("SolveCholesky: %w", err)
	}
	for k := n - 1; k >= 0; k-- {
		xk := loadRow(b, k)
		for _, i := range lt.ColIndices(k) {
			if i <= k {
				continue
			}
			xk.axpy(-at(lt, k, i), b, i)
		}
		xk.scale(1 / at(l, k, k))
		if err = xk.store(b, k); err != nil {
			return fmt.Errorf("SolveCholesky: %w", err)
		}
	}
	b.RefreshNonZeros()

	return nil
}
