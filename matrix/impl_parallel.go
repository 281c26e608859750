// SPDX-License-Identifier: MIT

// Package matrix - Parallel: a thread-safe wrapper over a sparse store.
//
// Purpose:
//   - Identical to its base representation (RowMap or Compact) except that
//     cell writes are serialized under a mutex, so several producers may fill
//     one accumulator.
//   - Scale and Mul fan row-independent work out over a parallel.Pool; each
//     worker owns one output row, so no two workers write the same row.
//
// Locking:
//   - Reads take the read lock because Go maps forbid unsynchronized
//     read/write overlap; writes take the write lock.

package matrix

import (
	"context"
	"sync"

	"github.com/katalvlaran/smartop/parallel"
)

// Parallel guards a base matrix and owns the pool used by its fast paths.
type Parallel struct {
	mu   sync.RWMutex
	base Matrix
	f    *ParallelFactory
}

var (
	_ Matrix      = (*Parallel)(nil)
	_ RowReplacer = (*Parallel)(nil)
	_ Scaler      = (*Parallel)(nil)
	_ Multiplier  = (*Parallel)(nil)
)

// ParallelFactory creates Parallel matrices around a base factory.
type ParallelFactory struct {
	Base Factory
	Pool *parallel.Pool
}

// NewParallelFactory wraps base with a pool of threadMultiplier × GOMAXPROCS workers.
func NewParallelFactory(base Factory, threadMultiplier int) *ParallelFactory {
	return &ParallelFactory{Base: base, Pool: parallel.NewPool(parallel.SizeFor(threadMultiplier))}
}

// New implements Factory.
func (f *ParallelFactory) New(r, c int) (Matrix, error) {
	base, err := f.Base.New(r, c)
	if err != nil {
		return nil, matrixErrorf("Parallel", err)
	}

	return &Parallel{base: base, f: f}, nil
}

// Name implements Factory.
func (f *ParallelFactory) Name() string { return "parallel-" + f.Base.Name() }

// Rows returns the row count.
func (m *Parallel) Rows() int { return m.base.Rows() }

// Cols returns the column count.
func (m *Parallel) Cols() int { return m.base.Cols() }

// At reads under the read lock.
func (m *Parallel) At(i, j int) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.base.At(i, j)
}

// Set writes under the write lock.
func (m *Parallel) Set(i, j int, v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.base.Set(i, j, v)
}

// Clone returns a deep copy sharing the factory (and thus the pool).
func (m *Parallel) Clone() Matrix {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &Parallel{base: m.base.Clone(), f: m.f}
}

// NonZeros returns the base counter.
func (m *Parallel) NonZeros() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.base.NonZeros()
}

// RefreshNonZeros recounts under the write lock.
func (m *Parallel) RefreshNonZeros() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.base.RefreshNonZeros()
}

// RowIndices returns the occupied rows.
func (m *Parallel) RowIndices() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.base.RowIndices()
}

// ColIndices returns the occupied columns of row.
func (m *Parallel) ColIndices(row int) []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.base.ColIndices(row)
}

// RowNonZeros returns the number of stored entries of row.
func (m *Parallel) RowNonZeros(row int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.base.RowNonZeros(row)
}

// OccupiedColumns forwards to the base index when it has one.
func (m *Parallel) OccupiedColumns() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return OccupiedColumns(m.base)
}

// ReplaceRow swaps row i under the write lock.
func (m *Parallel) ReplaceRow(i int, cols []int, vals []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return WriteRow(m.base, i, cols, vals)
}

// Scale returns alpha·m computed one row per work item.
func (m *Parallel) Scale(alpha float64) (Matrix, error) {
	out, err := m.f.New(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	if alpha == 0 {
		return out, nil
	}
	rows := m.RowIndices()
	err = m.f.Pool.Run(context.Background(), len(rows), func(_ context.Context, k int) error {
		cols, vals := rowEntries(m, rows[k])
		for x := range vals {
			vals[x] *= alpha
		}
		return out.(RowReplacer).ReplaceRow(rows[k], cols, vals)
	})
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	out.RefreshNonZeros()

	return out, nil
}

// Mul returns m × b computed one output row per work item.
// b is only read; it must not be mutated concurrently.
func (m *Parallel) Mul(b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(m, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	out, err := m.f.New(m.Rows(), b.Cols())
	if err != nil {
		return nil, err
	}
	rows := m.RowIndices()
	err = m.f.Pool.Run(context.Background(), len(rows), func(_ context.Context, k int) error {
		cols, vals := MulRow(m, b, rows[k])
		if len(cols) == 0 {
			return nil
		}
		return out.(RowReplacer).ReplaceRow(rows[k], cols, vals)
	})
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	out.RefreshNonZeros()

	return out, nil
}
