// SPDX-License-Identifier: MIT

// Package matrix - Coordinate: sparse-by-coordinate storage.
//
// Purpose:
//   - The simplest sparse encoding: one flat map keyed by the (row, col) pair.
//   - Cell reads and writes are O(1); row-scoped queries scan every entry and
//     are therefore O(nnz). Prefer RowMap for row-heavy workloads.

package matrix

import (
	"fmt"
	"sort"
)

// Coordinate stores non-zero cells in a map keyed by Coord.
type Coordinate struct {
	r, c           int
	cells          map[Coord]float64
	nnz            int
	validateNaNInf bool
}

var (
	_ Matrix      = (*Coordinate)(nil)
	_ RowReplacer = (*Coordinate)(nil)
)

// NewCoordinate returns an empty r×c coordinate matrix.
// Errors: ErrBadShape when r<=0 or c<=0.
func NewCoordinate(rows, cols int, opts ...Option) (*Coordinate, error) {
	if rows <= 0 || cols <= 0 {
		return nil, matrixErrorf(fmt.Sprintf("NewCoordinate(%d,%d)", rows, cols), ErrBadShape)
	}
	o := NewOptions(opts...)

	return &Coordinate{
		r:              rows,
		c:              cols,
		cells:          make(map[Coord]float64),
		validateNaNInf: o.validateNaNInf,
	}, nil
}

func coordErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Coordinate.%s(%d,%d): %w", method, row, col, err)
}

// Rows returns the row count.
func (m *Coordinate) Rows() int { return m.r }

// Cols returns the column count.
func (m *Coordinate) Cols() int { return m.c }

// At returns the stored value or 0 for an absent key.
func (m *Coordinate) At(i, j int) (float64, error) {
	if err := checkIndex(m.r, m.c, i, j); err != nil {
		return 0, coordErrorf(ctxAt, i, j, err)
	}

	return m.cells[Coord{Row: i, Col: j}], nil
}

// Set stores v; zero removes the key. The counter moves by at most one.
func (m *Coordinate) Set(i, j int, v float64) error {
	if err := checkIndex(m.r, m.c, i, j); err != nil {
		return coordErrorf(ctxSet, i, j, err)
	}
	if err := checkValue(m.validateNaNInf, v); err != nil {
		return coordErrorf(ctxSet, i, j, err)
	}
	k := Coord{Row: i, Col: j}
	_, had := m.cells[k]
	switch {
	case v == 0 && had:
		delete(m.cells, k)
		m.nnz--
	case v != 0:
		if !had {
			m.nnz++
		}
		m.cells[k] = v
	}

	return nil
}

// Clone returns a deep copy.
func (m *Coordinate) Clone() Matrix {
	cp := make(map[Coord]float64, len(m.cells))
	for k, v := range m.cells {
		cp[k] = v
	}

	return &Coordinate{r: m.r, c: m.c, cells: cp, nnz: m.nnz, validateNaNInf: m.validateNaNInf}
}

// NonZeros returns the maintained counter.
func (m *Coordinate) NonZeros() int { return m.nnz }

// RefreshNonZeros recounts from the map.
func (m *Coordinate) RefreshNonZeros() { m.nnz = len(m.cells) }

// RowIndices scans every key. O(nnz + R log R).
func (m *Coordinate) RowIndices() []int {
	seen := make(map[int]struct{})
	for k := range m.cells {
		seen[k.Row] = struct{}{}
	}

	return sortedKeys(seen)
}

// ColIndices scans every key for the given row. O(nnz + C log C).
func (m *Coordinate) ColIndices(row int) []int {
	var out []int
	for k := range m.cells {
		if k.Row == row {
			out = append(out, k.Col)
		}
	}
	sort.Ints(out)

	return out
}

// RowNonZeros counts the keys of the given row. O(nnz).
func (m *Coordinate) RowNonZeros(row int) int {
	n := 0
	for k := range m.cells {
		if k.Row == row {
			n++
		}
	}

	return n
}

// ReplaceRow drops every key of row i and inserts the given entries.
func (m *Coordinate) ReplaceRow(i int, cols []int, vals []float64) error {
	if i < 0 || i >= m.r {
		return coordErrorf(ctxReplaceRow, i, 0, ErrOutOfRange)
	}
	if len(cols) != len(vals) {
		return coordErrorf(ctxReplaceRow, i, 0, ErrDimensionMismatch)
	}
	for k := range m.cells {
		if k.Row == i {
			delete(m.cells, k)
			m.nnz--
		}
	}
	for k, j := range cols {
		if err := m.Set(i, j, vals[k]); err != nil {
			return err
		}
	}

	return nil
}

// sortedKeys returns the keys of an int set in ascending order.
func sortedKeys[V any](set map[int]V) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)

	return out
}
