// SPDX-License-Identifier: MIT

// Package matrix - Threshold: density-adaptive storage.
//
// Purpose:
//   - Start sparse (RowMap); after every write compare the matrix sparsity
//     1 - nnz/(r*c) against the switch point and migrate the whole content to
//     a Dense store when the matrix became too full, or back to RowMap when it
//     became sparse again.
//   - Stay transparent: structural queries (RowIndices, ColIndices,
//     RowNonZeros, NonZeros) always describe actual non-zero cells, whatever
//     the current backing store is.
//
// Invariants:
//   - nnz == number of non-zero cells in the backing store (kept across migrations).
//   - Migration copies every value exactly.
//
// Complexity:
//   - Set: O(1) amortized, O(nnz) or O(r*c) on the write that triggers a migration.
//   - Structural queries on a dense backing store scan the row: O(c).

package matrix

import "fmt"

// Threshold switches between RowMap and Dense storage at runtime.
type Threshold struct {
	store     Matrix  // *RowMap or *Dense
	dense     bool    // store is *Dense
	threshold float64 // sparsity switch point in [0,1]
	nnz       int     // actual non-zero cells
	opts      []Option
}

var (
	_ Matrix      = (*Threshold)(nil)
	_ RowReplacer = (*Threshold)(nil)
)

// NewThreshold returns an empty r×c threshold matrix backed by RowMap.
// The switch point comes from WithSwitchThreshold (default 0.25).
func NewThreshold(rows, cols int, opts ...Option) (*Threshold, error) {
	store, err := NewRowMap(rows, cols, opts...)
	if err != nil {
		return nil, matrixErrorf("NewThreshold", err)
	}
	o := NewOptions(opts...)

	return &Threshold{store: store, threshold: o.switchThreshold, opts: opts}, nil
}

// Rows returns the row count.
func (m *Threshold) Rows() int { return m.store.Rows() }

// Cols returns the column count.
func (m *Threshold) Cols() int { return m.store.Cols() }

// IsDense reports whether the current backing store is Dense.
func (m *Threshold) IsDense() bool { return m.dense }

// Sparsity returns 1 - nnz/(r*c) from the tracked count.
func (m *Threshold) Sparsity() float64 {
	return 1 - float64(m.nnz)/float64(m.Rows()*m.Cols())
}

// At reads from the backing store.
func (m *Threshold) At(i, j int) (float64, error) {
	v, err := m.store.At(i, j)
	if err != nil {
		return 0, matrixErrorf("Threshold", err)
	}

	return v, nil
}

// Set writes through, updates the actual count and migrates when the switch
// point is crossed.
func (m *Threshold) Set(i, j int, v float64) error {
	old, err := m.store.At(i, j)
	if err != nil {
		return matrixErrorf("Threshold", err)
	}
	if err = m.store.Set(i, j, v); err != nil {
		return matrixErrorf("Threshold", err)
	}
	switch {
	case old == 0 && v != 0:
		m.nnz++
	case old != 0 && v == 0:
		m.nnz--
	}

	return m.rebalance()
}

// rebalance migrates the backing store when the sparsity crossed the switch point.
func (m *Threshold) rebalance() error {
	s := m.Sparsity()
	switch {
	case !m.dense && s < m.threshold:
		return m.migrate(true)
	case m.dense && s > m.threshold:
		return m.migrate(false)
	}

	return nil
}

// migrate copies every non-zero cell into a fresh store of the other kind.
func (m *Threshold) migrate(toDense bool) error {
	var (
		dst Matrix
		err error
	)
	if toDense {
		dst, err = NewDense(m.Rows(), m.Cols(), m.opts...)
	} else {
		dst, err = NewRowMap(m.Rows(), m.Cols(), m.opts...)
	}
	if err != nil {
		return matrixErrorf("Threshold.migrate", err)
	}
	for _, i := range m.RowIndices() {
		cols, vals := rowEntries(m.store, i)
		if err = dst.(RowReplacer).ReplaceRow(i, cols, vals); err != nil {
			return matrixErrorf("Threshold.migrate", err)
		}
	}
	m.store = dst
	m.dense = toDense

	return nil
}

// Clone returns a deep copy with the same backing kind and switch point.
func (m *Threshold) Clone() Matrix {
	return &Threshold{
		store:     m.store.Clone(),
		dense:     m.dense,
		threshold: m.threshold,
		nnz:       m.nnz,
		opts:      m.opts,
	}
}

// NonZeros returns the actual non-zero count.
func (m *Threshold) NonZeros() int { return m.nnz }

// RefreshNonZeros recounts from the backing store and rebalances.
func (m *Threshold) RefreshNonZeros() {
	if d, ok := m.store.(*Dense); ok {
		m.nnz = d.countNonZero()
	} else {
		m.store.RefreshNonZeros()
		m.nnz = m.store.NonZeros()
	}
	// A failed migration leaves the current store in place; it stays valid.
	_ = m.rebalance()
}

// RowIndices lists rows holding at least one non-zero cell.
func (m *Threshold) RowIndices() []int {
	d, ok := m.store.(*Dense)
	if !ok {
		return m.store.RowIndices()
	}
	var out []int
	for i := 0; i < d.r; i++ {
		for _, v := range d.rawRow(i) {
			if v != 0 {
				out = append(out, i)
				break
			}
		}
	}

	return out
}

// ColIndices lists the non-zero columns of row.
func (m *Threshold) ColIndices(row int) []int {
	d, ok := m.store.(*Dense)
	if !ok {
		return m.store.ColIndices(row)
	}
	if row < 0 || row >= d.r {
		return nil
	}
	var out []int
	for j, v := range d.rawRow(row) {
		if v != 0 {
			out = append(out, j)
		}
	}

	return out
}

// RowNonZeros counts the non-zero cells of row.
func (m *Threshold) RowNonZeros(row int) int {
	if _, ok := m.store.(*Dense); !ok {
		return m.store.RowNonZeros(row)
	}

	return len(m.ColIndices(row))
}

// ReplaceRow replaces row i in the backing store and rebalances.
func (m *Threshold) ReplaceRow(i int, cols []int, vals []float64) error {
	if i < 0 || i >= m.Rows() {
		return fmt.Errorf("Threshold.%s(%d): %w", ctxReplaceRow, i, ErrOutOfRange)
	}
	before := m.RowNonZeros(i)
	if err := m.store.(RowReplacer).ReplaceRow(i, cols, vals); err != nil {
		return matrixErrorf("Threshold", err)
	}
	m.nnz += m.RowNonZeros(i) - before

	return m.rebalance()
}
