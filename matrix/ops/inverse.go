// SPDX-License-Identifier: MIT

package ops

import (
	"fmt"

	"github.com/katalvlaran/smartop/matrix"
)

// InvertDiagonal replaces every diagonal entry of the square m with its
// reciprocal, in place. Off-diagonal entries are not inspected.
// Errors: ErrNonSquare, ErrSingular on a zero diagonal entry (m is then
// partially updated).
func InvertDiagonal(m matrix.Matrix) error {
	if err := matrix.ValidateSquareNonNil(m); err != nil {
		return fmt.Errorf("InvertDiagonal: %w", err)
	}
	for i := 0; i < m.Rows(); i++ {
		v := at(m, i, i)
		if v == 0 {
			return fmt.Errorf("InvertDiagonal: zero at %d: %w", i, matrix.ErrSingular)
		}
		if err := m.Set(i, i, 1/v); err != nil {
			return fmt.Errorf("InvertDiagonal: %w", err)
		}
	}

	return nil
}

// Invert returns the inverse of a square m, or the least-squares
// pseudo-inverse (cols×rows) of a rectangular one.
// Blueprint:
//
//	Stage 1 (Diagonal): square diagonal input inverts entry-wise.
//	Stage 2 (Cholesky): symmetric positive-definite input solves L·Lᵗ·X = I.
//	Stage 3 (LU): any other square input solves A·X = I with partial pivoting.
//	Stage 4 (QR): tall input solves the least-squares system A·X ≈ I; wide
//	input is inverted through its transpose.
//
// Errors: ErrNilMatrix, ErrSingular (square), ErrRankDeficient (rectangular).
func Invert(f matrix.Factory, m matrix.Matrix, opts ...matrix.Option) (matrix.Matrix, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, fmt.Errorf("Invert: %w", err)
	}
	o := matrix.NewOptions(opts...)
	rows, cols := m.Rows(), m.Cols()

	switch {
	case rows < cols:
		t, err := matrix.Transpose(f, m)
		if err != nil {
			return nil, fmt.Errorf("Invert: %w", err)
		}
		p, err := invertTall(f, t)
		if err != nil {
			return nil, err
		}
		return matrix.Transpose(f, p)
	case rows > cols:
		return invertTall(f, m)
	}

	// Stage 1
	if matrix.IsDiagonal(m) {
		out, err := matrix.Copy(f, m)
		if err != nil {
			return nil, fmt.Errorf("Invert: %w", err)
		}
		if err = InvertDiagonal(out); err != nil {
			return nil, fmt.Errorf("Invert: %w", err)
		}
		return out, nil
	}

	x, err := matrix.Identity(f, rows)
	if err != nil {
		return nil, fmt.Errorf("Invert: %w", err)
	}

	// Stage 2
	l, ok, err := Cholesky(f, m, o.Epsilon())
	if err != nil {
		return nil, fmt.Errorf("Invert: %w", err)
	}
	if ok {
		if err = SolveCholesky(f, l, x); err != nil {
			return nil, fmt.Errorf("Invert: %w", err)
		}
		return x, nil
	}

	// Stage 3
	lu, err := matrix.Copy(f, m)
	if err != nil {
		return nil, fmt.Errorf("Invert: %w", err)
	}
	piv, err := LUInPlace(lu)
	if err != nil {
		return nil, fmt.Errorf("Invert: %w", err)
	}
	if err = SolveLU(lu, piv, x); err != nil {
		return nil, fmt.Errorf("Invert: %w", err)
	}

	return x, nil
}

// invertTall is Stage 4 of Invert for rows > cols.
func invertTall(f matrix.Factory, m matrix.Matrix) (matrix.Matrix, error) {
	qr, err := matrix.Copy(f, m)
	if err != nil {
		return nil, fmt.Errorf("Invert: %w", err)
	}
	rdiag, err := QRInPlace(qr)
	if err != nil {
		return nil, fmt.Errorf("Invert: %w", err)
	}
	x, err := matrix.Identity(f, m.Rows())
	if err != nil {
		return nil, fmt.Errorf("Invert: %w", err)
	}
	out, err := SolveQR(f, qr, rdiag, x)
	if err != nil {
		return nil, fmt.Errorf("Invert: %w", err)
	}

	return out, nil
}

// InvertByCholesky returns the Moore-Penrose pseudo-inverse of a full-rank m
// through a Cholesky factor of its Gram matrix:
//
//	rows ≤ cols: Mᵗ·(M·Mᵗ)⁻¹
//	rows > cols: (Mᵗ·M)⁻¹·Mᵗ
//
// For square non-singular m both reduce to M⁻¹.
// Errors: ErrNotDecomposable when the Gram matrix is not symmetric
// positive-definite (m is rank deficient).
func InvertByCholesky(f matrix.Factory, m matrix.Matrix, opts ...matrix.Option) (matrix.Matrix, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, fmt.Errorf("InvertByCholesky: %w", err)
	}
	o := matrix.NewOptions(opts...)

	mt, err := matrix.Transpose(f, m)
	if err != nil {
		return nil, fmt.Errorf("InvertByCholesky: %w", err)
	}
	wide := m.Rows() <= m.Cols()
	var gram matrix.Matrix
	if wide {
		gram, err = matrix.MulByTranspose(f, m)
	} else {
		gram, err = matrix.MulByTranspose(f, mt)
	}
	if err != nil {
		return nil, fmt.Errorf("InvertByCholesky: %w", err)
	}

	l, ok, err := Cholesky(f, gram, o.Epsilon())
	if err != nil {
		return nil, fmt.Errorf("InvertByCholesky: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("InvertByCholesky: gram %dx%d: %w", gram.Rows(), gram.Cols(), matrix.ErrNotDecomposable)
	}
	gi, err := matrix.Identity(f, gram.Rows())
	if err != nil {
		return nil, fmt.Errorf("InvertByCholesky: %w", err)
	}
	if err = SolveCholesky(f, l, gi); err != nil {
		return nil, fmt.Errorf("InvertByCholesky: %w", err)
	}

	if wide {
		return matrix.Mul(f, mt, gi)
	}

	return matrix.Mul(f, gi, mt)
}
