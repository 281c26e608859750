// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Serve as the dense backing store of Threshold matrices and as the result
//     type of dense-only kernels (packed decompositions of small systems).
//
// Sparsity semantics:
//   - Every cell is structurally present: RowIndices lists all rows, ColIndices
//     all columns, RowNonZeros == Cols and NonZeros == Rows*Cols.
//   - Row-sparseness statistics therefore degenerate to constants (mean 0).
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); ReplaceRow: O(c).

package matrix

import (
	"fmt"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt         = "At"
	ctxSet        = "Set"
	ctxReplaceRow = "ReplaceRow"
)

// ---------- Formatting literals  ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// Keeps the sentinel reachable via %w.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
//   - validateNaNInf enables optional NaN/Inf rejection in Set.
type Dense struct {
	r, c           int
	data           []float64
	validateNaNInf bool
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil)
	_ RowReplacer  = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrBadShape.
//   - Stage 2: allocate a zero-filled buffer and resolve the numeric policy.
//
// Errors:
//   - ErrBadShape (shape contract violation).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int, opts ...Option) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, matrixErrorf(fmt.Sprintf("NewDense(%d,%d)", rows, cols), ErrBadShape)
	}
	o := NewOptions(opts...)

	return &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols),
		validateNaNInf: o.validateNaNInf,
	}, nil
}

// NewDenseFrom builds a Dense from a rectangular [][]float64 (copied).
// Returns ErrBadShape on empty or ragged input, ErrNaNInf under the policy.
func NewDenseFrom(rows [][]float64, opts ...Option) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, matrixErrorf("NewDenseFrom", ErrBadShape)
	}
	m, err := NewDense(len(rows), len(rows[0]), opts...)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != m.c {
			return nil, matrixErrorf(fmt.Sprintf("NewDenseFrom: row %d", i), ErrBadShape)
		}
		for j, v := range row {
			if err = checkValue(m.validateNaNInf, v); err != nil {
				return nil, denseErrorf(ctxSet, i, j, err)
			}
		}
		copy(m.data[i*m.c:(i+1)*m.c], row)
	}

	return m, nil
}

// Rows returns the row count. Complexity: O(1).
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count. Complexity: O(1).
func (m *Dense) Cols() int { return m.c }

// At returns the value at (row, col) or ErrOutOfRange.
func (m *Dense) At(row, col int) (float64, error) {
	if err := checkIndex(m.r, m.c, row, col); err != nil {
		return 0, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[row*m.c+col], nil
}

// Set stores v at (row, col) or returns an error (bounds or numeric policy).
// Zero is stored like any other value; Dense has no entry removal.
func (m *Dense) Set(row, col int, v float64) error {
	if err := checkIndex(m.r, m.c, row, col); err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	if err := checkValue(m.validateNaNInf, v); err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	m.data[row*m.c+col] = v

	return nil
}

// Clone returns a deep copy (new buffer, same numeric policy).
func (m *Dense) Clone() Matrix {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return &Dense{r: m.r, c: m.c, data: cp, validateNaNInf: m.validateNaNInf}
}

// NonZeros reports every cell as structurally present.
func (m *Dense) NonZeros() int { return m.r * m.c }

// RefreshNonZeros is a no-op: the structural count never drifts.
func (m *Dense) RefreshNonZeros() {}

// RowIndices returns 0..Rows-1.
func (m *Dense) RowIndices() []int { return seq(m.r) }

// ColIndices returns 0..Cols-1 for a valid row, nil otherwise.
func (m *Dense) ColIndices(row int) []int {
	if row < 0 || row >= m.r {
		return nil
	}

	return seq(m.c)
}

// RowNonZeros returns Cols for a valid row.
func (m *Dense) RowNonZeros(row int) int {
	if row < 0 || row >= m.r {
		return 0
	}

	return m.c
}

// ReplaceRow zeroes row i and scatters (cols, vals) into it.
// Complexity: O(c).
func (m *Dense) ReplaceRow(i int, cols []int, vals []float64) error {
	if i < 0 || i >= m.r {
		return denseErrorf(ctxReplaceRow, i, 0, ErrOutOfRange)
	}
	if len(cols) != len(vals) {
		return denseErrorf(ctxReplaceRow, i, 0, ErrDimensionMismatch)
	}
	row := m.data[i*m.c : (i+1)*m.c]
	for k := range row {
		row[k] = 0
	}
	for k, j := range cols {
		if j < 0 || j >= m.c {
			return denseErrorf(ctxReplaceRow, i, j, ErrOutOfRange)
		}
		if err := checkValue(m.validateNaNInf, vals[k]); err != nil {
			return denseErrorf(ctxReplaceRow, i, j, err)
		}
		row[j] = vals[k]
	}

	return nil
}

// rawRow exposes row i of the backing buffer (aliasing, no copy).
// Intended for in-package kernels; the slice must not outlive the matrix.
func (m *Dense) rawRow(i int) []float64 { return m.data[i*m.c : (i+1)*m.c] }

// String renders the matrix row by row, e.g. "[1, 2]\n[3, 4]\n".
func (m *Dense) String() string {
	var b strings.Builder
	for i := 0; i < m.r; i++ {
		b.WriteString(_fmtRowOpen)
		row := m.rawRow(i)
		for j, v := range row {
			b.WriteString(fmt.Sprintf("%g", v))
			if j+1 < m.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}

// countNonZero returns the number of cells holding a non-zero value.
// Used by Threshold to track actual density on a dense backing store.
func (m *Dense) countNonZero() int {
	n := 0
	for _, v := range m.data {
		if v != 0 {
			n++
		}
	}

	return n
}

// seq returns [0, 1, ..., n-1].
func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}
