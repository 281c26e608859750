// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels, engines and decompositions minimal by delegating shape/nil checks here.
//  - Return plain sentinel errors wrapped with a validator tag so call sites can wrap uniformly.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//  - Symmetry check visits only stored entries of sparse inputs.
//
// Note:
//  - Each composite validator follows a fixed sequence (NotNil → Shape).

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape ensures matrices a and b have equal dimensions.
//
// Implementation: assumes a and b are not nil (caller must ensure).
// Return: nil or wrapped ErrDimensionMismatch.
// Complexity: O(1).
func ValidateSameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.Cols() != b.Cols() {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquare checks that m is square (Rows == Cols).
// Errors: ErrNonSquare.
func ValidateSquare(m Matrix) error {
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateBinarySameShape – Composite: NotNil(a) → NotNil(b) → SameShape.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(1).
func ValidateBinarySameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}

	return nil
}

// ValidateSquareNonNil – Composite: NotNil → Square.
func ValidateSquareNonNil(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateSquareNonNil", err)
	}
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateSquareNonNil", err)
	}

	return nil
}

// ValidateMulCompatible ensures a.Cols == b.Rows, inputs non-nil.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(1).
func ValidateMulCompatible(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if a.Cols() != b.Rows() {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}

	return nil
}

// ValidateRowRange ensures 0 ≤ start < end ≤ m.Rows().
// Used by sub-matrix extraction and by task construction.
func ValidateRowRange(m Matrix, start, end int) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateRowRange", err)
	}
	if start < 0 || end > m.Rows() || start >= end {
		return validatorErrorf(fmt.Sprintf("ValidateRowRange[%d,%d)", start, end), ErrOutOfRange)
	}

	return nil
}

// ValidateSymmetric checks |A[i,j] - A[j,i]| ≤ tol for every stored entry.
//
// Inputs: square Matrix m, tolerance tol ≥ 0.
// Complexity: O(nnz) expected on sparse stores, O(n²) on Dense.
// Returns ErrNilMatrix/ErrNonSquare on structural issues, ErrNaNInf on a bad tol.
// A false result is not an error.
func ValidateSymmetric(m Matrix, tol float64) (bool, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return false, validatorErrorf("ValidateSymmetric", err)
	}
	if isNonFinite(tol) {
		return false, validatorErrorf("ValidateSymmetric", ErrNaNInf)
	}
	tol = math.Abs(tol)

	// Every asymmetric pair has at least one stored side, so scanning stored
	// entries in both directions covers the whole matrix.
	var aij, aji float64
	for _, i := range m.RowIndices() {
		for _, j := range m.ColIndices(i) {
			if j == i {
				continue
			}
			aij, _ = m.At(i, j)
			aji, _ = m.At(j, i)
			if math.Abs(aij-aji) > tol {
				return false, nil
			}
		}
	}

	return true, nil
}

// checkIndex is the shared bounds check of every representation.
func checkIndex(rows, cols, i, j int) error {
	if i < 0 || i >= rows || j < 0 || j >= cols {
		return ErrOutOfRange
	}

	return nil
}

// checkValue enforces the finite-value policy.
func checkValue(validate bool, v float64) error {
	if validate && isNonFinite(v) {
		return ErrNaNInf
	}

	return nil
}
