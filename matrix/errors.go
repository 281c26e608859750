// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the matrix
// package and its ops subpackage. All algorithms MUST return these sentinels
// (optionally wrapped with an operation tag) and tests MUST check them via
// errors.Is. No public method panics on user-triggered error conditions.

package matrix

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." so that log lines can be grepped
// across engines. Wrap with an operation tag via matrixErrorf at the nearest
// detection site; callers still match with errors.Is.
//
// ERROR PRIORITY (documented, enforced in tests):
// nil -> shape/index/NaN -> dimension mismatch -> numeric (singular, rank).

var (
	// ErrBadShape is returned when a requested shape is invalid (r<=0 or c<=0).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g., Add/Sub different shapes, or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf value was encountered where finite values
	// are required by the numeric policy (ingestion, Set).
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrSingular is returned when a zero pivot or a zero diagonal entry makes
	// inversion or an LU solve impossible.
	ErrSingular = errors.New("matrix: singular matrix")

	// ErrRankDeficient is returned by least-squares solves when a diagonal
	// entry of R is exactly zero.
	ErrRankDeficient = errors.New("matrix: matrix is rank deficient")

	// ErrNotDecomposable is surfaced only by operations that REQUIRE a Cholesky
	// factor (InvertByCholesky). Cholesky itself reports "no decomposition"
	// through its boolean result, never through this error.
	ErrNotDecomposable = errors.New("matrix: matrix is not symmetric positive definite")

	// ErrBadFormat indicates a malformed CSV header or body.
	ErrBadFormat = errors.New("matrix: malformed matrix file")

	// ErrUnknownFactory is returned by FactoryByName for an unregistered name.
	ErrUnknownFactory = errors.New("matrix: unknown factory")

	// ErrInvalidDensity is returned by random generators for a density outside [0,1].
	ErrInvalidDensity = errors.New("matrix: density must be in [0,1]")

	// ErrNeedRandSource is returned by random generators when rng is nil and
	// the density requires sampling.
	ErrNeedRandSource = errors.New("matrix: random source is required")
)

// matrixErrorf wraps err with the given operation tag.
// Used by kernels and representations to keep a uniform "Tag: matrix: ..." shape.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
