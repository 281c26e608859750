// SPDX-License-Identifier: MIT

// Package matrix - RowMap: sparse-by-row storage (the workhorse representation).
//
// Purpose:
//   - Map row → (map col → value); absence means zero.
//   - Keep a reference-counted index of occupied columns so structural
//     iteration over columns never rescans every row.
//   - Support O(k) wholesale row replacement for job reconstruction.
//
// Invariants:
//   - No stored value is ever 0; an emptied row is deleted eagerly.
//   - colRefs[j] == number of rows holding a stored entry in column j.
//   - nnz is delta-maintained by Set/ReplaceRow and recounted by RefreshNonZeros.
//
// Complexity quicksheet:
//   - At/Set: O(1) expected; RowIndices: O(R log R); ColIndices(i): O(k log k);
//     OccupiedColumns: O(C log C); Clone: O(nnz).

package matrix

import (
	"fmt"
	"sort"
)

// RowMap is the nested-map sparse representation.
type RowMap struct {
	r, c           int
	rows           map[int]map[int]float64
	colRefs        map[int]int
	nnz            int
	validateNaNInf bool
}

// ColumnIndexer is implemented by representations that maintain an index of
// occupied columns. OccupiedColumns falls back to a full scan otherwise.
type ColumnIndexer interface {
	OccupiedColumns() []int
}

var (
	_ Matrix        = (*RowMap)(nil)
	_ RowReplacer   = (*RowMap)(nil)
	_ ColumnIndexer = (*RowMap)(nil)
)

// NewRowMap returns an empty r×c sparse-by-row matrix.
// Errors: ErrBadShape when r<=0 or c<=0.
func NewRowMap(rows, cols int, opts ...Option) (*RowMap, error) {
	if rows <= 0 || cols <= 0 {
		return nil, matrixErrorf(fmt.Sprintf("NewRowMap(%d,%d)", rows, cols), ErrBadShape)
	}
	o := NewOptions(opts...)

	return &RowMap{
		r:              rows,
		c:              cols,
		rows:           make(map[int]map[int]float64),
		colRefs:        make(map[int]int),
		validateNaNInf: o.validateNaNInf,
	}, nil
}

func rowMapErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("RowMap.%s(%d,%d): %w", method, row, col, err)
}

// Rows returns the row count.
func (m *RowMap) Rows() int { return m.r }

// Cols returns the column count.
func (m *RowMap) Cols() int { return m.c }

// At returns the stored value or 0.
func (m *RowMap) At(i, j int) (float64, error) {
	if err := checkIndex(m.r, m.c, i, j); err != nil {
		return 0, rowMapErrorf(ctxAt, i, j, err)
	}

	return m.rows[i][j], nil
}

// Set stores v at (i, j); zero removes the entry and, if the row becomes
// empty, the row itself.
func (m *RowMap) Set(i, j int, v float64) error {
	if err := checkIndex(m.r, m.c, i, j); err != nil {
		return rowMapErrorf(ctxSet, i, j, err)
	}
	if err := checkValue(m.validateNaNInf, v); err != nil {
		return rowMapErrorf(ctxSet, i, j, err)
	}
	m.set(i, j, v)

	return nil
}

// set is the unchecked write used by Set and ReplaceRow.
func (m *RowMap) set(i, j int, v float64) {
	row, ok := m.rows[i]
	if v == 0 {
		if !ok {
			return
		}
		if _, had := row[j]; had {
			delete(row, j)
			m.nnz--
			m.dropColumn(j)
			if len(row) == 0 {
				delete(m.rows, i)
			}
		}
		return
	}
	if !ok {
		row = make(map[int]float64)
		m.rows[i] = row
	}
	if _, had := row[j]; !had {
		m.nnz++
		m.colRefs[j]++
	}
	row[j] = v
}

func (m *RowMap) dropColumn(j int) {
	if m.colRefs[j] <= 1 {
		delete(m.colRefs, j)
		return
	}
	m.colRefs[j]--
}

// Clone returns a deep copy.
func (m *RowMap) Clone() Matrix {
	out := &RowMap{
		r:              m.r,
		c:              m.c,
		rows:           make(map[int]map[int]float64, len(m.rows)),
		colRefs:        make(map[int]int, len(m.colRefs)),
		nnz:            m.nnz,
		validateNaNInf: m.validateNaNInf,
	}
	for i, row := range m.rows {
		cp := make(map[int]float64, len(row))
		for j, v := range row {
			cp[j] = v
		}
		out.rows[i] = cp
	}
	for j, n := range m.colRefs {
		out.colRefs[j] = n
	}

	return out
}

// NonZeros returns the maintained counter.
func (m *RowMap) NonZeros() int { return m.nnz }

// RefreshNonZeros recounts nnz and rebuilds the column index.
func (m *RowMap) RefreshNonZeros() {
	m.nnz = 0
	m.colRefs = make(map[int]int, len(m.colRefs))
	for _, row := range m.rows {
		m.nnz += len(row)
		for j := range row {
			m.colRefs[j]++
		}
	}
}

// RowIndices returns the occupied rows in ascending order.
func (m *RowMap) RowIndices() []int { return sortedKeys(m.rows) }

// ColIndices returns the occupied columns of row in ascending order.
func (m *RowMap) ColIndices(row int) []int {
	r, ok := m.rows[row]
	if !ok {
		return nil
	}

	return sortedKeys(r)
}

// RowNonZeros returns the number of stored entries of row.
func (m *RowMap) RowNonZeros(row int) int { return len(m.rows[row]) }

// OccupiedColumns returns every column holding at least one entry, ascending.
func (m *RowMap) OccupiedColumns() []int { return sortedKeys(m.colRefs) }

// ReplaceRow swaps the whole content of row i. Entries must target distinct
// columns; zeros are skipped.
func (m *RowMap) ReplaceRow(i int, cols []int, vals []float64) error {
	if i < 0 || i >= m.r {
		return rowMapErrorf(ctxReplaceRow, i, 0, ErrOutOfRange)
	}
	if len(cols) != len(vals) {
		return rowMapErrorf(ctxReplaceRow, i, 0, ErrDimensionMismatch)
	}
	for k, j := range cols {
		if j < 0 || j >= m.c {
			return rowMapErrorf(ctxReplaceRow, i, j, ErrOutOfRange)
		}
		if err := checkValue(m.validateNaNInf, vals[k]); err != nil {
			return rowMapErrorf(ctxReplaceRow, i, j, err)
		}
	}
	if old, ok := m.rows[i]; ok {
		m.nnz -= len(old)
		for j := range old {
			m.dropColumn(j)
		}
		delete(m.rows, i)
	}
	for k, j := range cols {
		m.set(i, j, vals[k])
	}

	return nil
}

// OccupiedColumns returns the ascending set of columns holding at least one
// stored entry. Uses the ColumnIndexer fast path when available.
// Complexity: O(C log C) with an index, O(nnz + C log C) otherwise.
func OccupiedColumns(m Matrix) []int {
	if ci, ok := m.(ColumnIndexer); ok {
		return ci.OccupiedColumns()
	}
	seen := make(map[int]struct{})
	for _, i := range m.RowIndices() {
		for _, j := range m.ColIndices(i) {
			seen[j] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for j := range seen {
		out = append(out, j)
	}
	sort.Ints(out)

	return out
}
