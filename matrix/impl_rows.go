// SPDX-License-Identifier: MIT

// Package matrix - row-scoped helpers: extraction, replacement, sub-matrices.
//
// Purpose:
//   - Give every representation the same row extraction/replacement surface
//     (the building blocks of task payloads and job reconstruction).
//   - Fast path on RowReplacer, generic At/Set fallback otherwise.
//
// Determinism:
//   - Rows and columns are always visited in ascending order.

package matrix

import "fmt"

// rowEntries returns the occupied (cols, vals) of row i in ascending column order.
func rowEntries(m Matrix, i int) ([]int, []float64) {
	cols := m.ColIndices(i)
	vals := make([]float64, len(cols))
	for k, j := range cols {
		vals[k], _ = m.At(i, j)
	}

	return cols, vals
}

// RowEntries is the exported form of rowEntries for other packages
// (reconstruction strategies, wire codec).
func RowEntries(m Matrix, i int) ([]int, []float64) { return rowEntries(m, i) }

// CopyRow replaces row dstRow of dst with row srcRow of src.
// Implementation:
//   - Stage 1: validate column counts agree.
//   - Stage 2: RowReplacer fast path, else clear the old row cell by cell and
//     write the new entries with Set.
//
// Errors: ErrDimensionMismatch, ErrOutOfRange.
// Complexity: O(k_src + k_dst) on sparse stores.
func CopyRow(dst Matrix, dstRow int, src Matrix, srcRow int) error {
	if dst.Cols() != src.Cols() {
		return matrixErrorf("CopyRow", ErrDimensionMismatch)
	}
	if dstRow < 0 || dstRow >= dst.Rows() || srcRow < 0 || srcRow >= src.Rows() {
		return matrixErrorf(fmt.Sprintf("CopyRow(%d<-%d)", dstRow, srcRow), ErrOutOfRange)
	}
	cols, vals := rowEntries(src, srcRow)

	return WriteRow(dst, dstRow, cols, vals)
}

// WriteRow replaces row i of dst with the ascending (cols, vals) pairs.
// RowReplacer fast path, else the old row is cleared cell by cell.
func WriteRow(dst Matrix, i int, cols []int, vals []float64) error {
	if rr, ok := dst.(RowReplacer); ok {
		return rr.ReplaceRow(i, cols, vals)
	}
	for _, j := range dst.ColIndices(i) {
		if err := dst.Set(i, j, 0); err != nil {
			return matrixErrorf("WriteRow", err)
		}
	}
	for k, j := range cols {
		if err := dst.Set(i, j, vals[k]); err != nil {
			return matrixErrorf("WriteRow", err)
		}
	}

	return nil
}

// Submatrix copies rows [start, end) of m into a fresh (end-start)×cols matrix.
// Errors: ErrOutOfRange on an invalid range.
func Submatrix(f Factory, m Matrix, start, end int) (Matrix, error) {
	if err := ValidateRowRange(m, start, end); err != nil {
		return nil, matrixErrorf("Submatrix", err)
	}
	out, err := f.New(end-start, m.Cols())
	if err != nil {
		return nil, matrixErrorf("Submatrix", err)
	}
	for i := start; i < end; i++ {
		if m.RowNonZeros(i) == 0 {
			continue
		}
		if err = CopyRow(out, i-start, m, i); err != nil {
			return nil, matrixErrorf("Submatrix", err)
		}
	}
	out.RefreshNonZeros()

	return out, nil
}

// SelectRows copies the listed rows of m, in the given order, into a fresh
// len(rows)×cols matrix.
func SelectRows(f Factory, m Matrix, rows []int) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("SelectRows", err)
	}
	out, err := f.New(len(rows), m.Cols())
	if err != nil {
		return nil, matrixErrorf("SelectRows", err)
	}
	for k, i := range rows {
		if err = CopyRow(out, k, m, i); err != nil {
			return nil, matrixErrorf("SelectRows", err)
		}
	}
	out.RefreshNonZeros()

	return out, nil
}

// Row returns row i of m as a 1×cols matrix.
func Row(f Factory, m Matrix, i int) (Matrix, error) { return Submatrix(f, m, i, i+1) }

// Column returns column j of m as a rows×1 matrix.
func Column(f Factory, m Matrix, j int) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("Column", err)
	}
	if j < 0 || j >= m.Cols() {
		return nil, matrixErrorf(fmt.Sprintf("Column(%d)", j), ErrOutOfRange)
	}
	out, err := f.New(m.Rows(), 1)
	if err != nil {
		return nil, matrixErrorf("Column", err)
	}
	var v float64
	for _, i := range m.RowIndices() {
		if v, _ = m.At(i, j); v != 0 {
			if err = out.Set(i, 0, v); err != nil {
				return nil, matrixErrorf("Column", err)
			}
		}
	}

	return out, nil
}

// Entries lists every stored non-zero cell of m, row-major ascending.
func Entries(m Matrix) []Entry {
	var out []Entry
	for _, i := range m.RowIndices() {
		cols, vals := rowEntries(m, i)
		for k, j := range cols {
			if vals[k] == 0 {
				continue
			}
			out = append(out, Entry{Row: i, Col: j, Val: vals[k]})
		}
	}

	return out
}
