// SPDX-License-Identifier: MIT

// Package matrix - factories: the explicit handle that selects a representation.
//
// Purpose:
//   - Every operation that allocates a matrix receives a Factory argument; there
//     is no process-wide "current factory".
//   - Copy/Identity/Load are free functions over any Factory, so one code path
//     serves every representation and any representation can copy from any other.

package matrix

import (
	"fmt"
	"sort"
	"strings"
)

// Factory creates empty matrices of one concrete representation.
type Factory interface {
	// New returns an r×c zero matrix.
	New(rows, cols int) (Matrix, error)

	// Name is the stable registry name (used by config, CLI and the wire codec).
	Name() string
}

// Registry names of the built-in factories.
const (
	FactoryDense           = "dense"
	FactoryCoordinate      = "coordinate"
	FactoryRowMap          = "rowmap"
	FactoryCompact         = "compact"
	FactoryThreshold       = "threshold"
	FactoryParallelRowMap  = "parallel-rowmap"
	FactoryParallelCompact = "parallel-compact"
)

// DenseFactory creates *Dense matrices.
type DenseFactory struct{ Opts []Option }

// New implements Factory.
func (f DenseFactory) New(r, c int) (Matrix, error) { return NewDense(r, c, f.Opts...) }

// Name implements Factory.
func (DenseFactory) Name() string { return FactoryDense }

// CoordinateFactory creates *Coordinate matrices.
type CoordinateFactory struct{ Opts []Option }

// New implements Factory.
func (f CoordinateFactory) New(r, c int) (Matrix, error) { return NewCoordinate(r, c, f.Opts...) }

// Name implements Factory.
func (CoordinateFactory) Name() string { return FactoryCoordinate }

// RowMapFactory creates *RowMap matrices.
type RowMapFactory struct{ Opts []Option }

// New implements Factory.
func (f RowMapFactory) New(r, c int) (Matrix, error) { return NewRowMap(r, c, f.Opts...) }

// Name implements Factory.
func (RowMapFactory) Name() string { return FactoryRowMap }

// CompactFactory creates *Compact matrices.
type CompactFactory struct{ Opts []Option }

// New implements Factory.
func (f CompactFactory) New(r, c int) (Matrix, error) { return NewCompact(r, c, f.Opts...) }

// Name implements Factory.
func (CompactFactory) Name() string { return FactoryCompact }

// ThresholdFactory creates *Threshold matrices. Use WithSwitchThreshold in
// Opts to move the switch point.
type ThresholdFactory struct{ Opts []Option }

// New implements Factory.
func (f ThresholdFactory) New(r, c int) (Matrix, error) { return NewThreshold(r, c, f.Opts...) }

// Name implements Factory.
func (ThresholdFactory) Name() string { return FactoryThreshold }

// FactoryByName resolves a registry name to a Factory.
// Parallel factories use a pool sized by threadMultiplier × GOMAXPROCS.
// Errors: ErrUnknownFactory.
func FactoryByName(name string, threadMultiplier int, opts ...Option) (Factory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FactoryDense:
		return DenseFactory{Opts: opts}, nil
	case FactoryCoordinate:
		return CoordinateFactory{Opts: opts}, nil
	case FactoryRowMap, "":
		return RowMapFactory{Opts: opts}, nil
	case FactoryCompact:
		return CompactFactory{Opts: opts}, nil
	case FactoryThreshold:
		return ThresholdFactory{Opts: opts}, nil
	case FactoryParallelRowMap:
		return NewParallelFactory(RowMapFactory{Opts: opts}, threadMultiplier), nil
	case FactoryParallelCompact:
		return NewParallelFactory(CompactFactory{Opts: opts}, threadMultiplier), nil
	}

	return nil, fmt.Errorf("FactoryByName(%q): %w", name, ErrUnknownFactory)
}

// FactoryNames lists the registry names in ascending order.
func FactoryNames() []string {
	out := []string{
		FactoryDense, FactoryCoordinate, FactoryRowMap, FactoryCompact,
		FactoryThreshold, FactoryParallelRowMap, FactoryParallelCompact,
	}
	sort.Strings(out)

	return out
}

// Copy deep-copies m into a fresh matrix produced by f, reading only through
// the Matrix interface, so any representation can copy from any other.
// Implementation:
//   - Stage 1: validate m, allocate f.New(rows, cols).
//   - Stage 2: copy each occupied row via CopyRow (fast path on RowReplacer).
//   - Stage 3: refresh the counter of the destination.
//
// Complexity: O(nnz) on sparse sources (plus O(r*c) for Dense sources).
func Copy(f Factory, m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("Copy", err)
	}
	out, err := f.New(m.Rows(), m.Cols())
	if err != nil {
		return nil, matrixErrorf("Copy", err)
	}
	for _, i := range m.RowIndices() {
		if err = CopyRow(out, i, m, i); err != nil {
			return nil, matrixErrorf("Copy", err)
		}
	}
	out.RefreshNonZeros()

	return out, nil
}

// Identity returns the n×n identity matrix in f's representation.
func Identity(f Factory, n int) (Matrix, error) {
	out, err := f.New(n, n)
	if err != nil {
		return nil, matrixErrorf("Identity", err)
	}
	for i := 0; i < n; i++ {
		if err = out.Set(i, i, 1); err != nil {
			return nil, matrixErrorf("Identity", err)
		}
	}

	return out, nil
}

// FromRows builds a matrix in f's representation from a rectangular [][]float64.
// Zeros are not stored by sparse representations.
func FromRows(f Factory, rows [][]float64) (Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, matrixErrorf("FromRows", ErrBadShape)
	}
	out, err := f.New(len(rows), len(rows[0]))
	if err != nil {
		return nil, matrixErrorf("FromRows", err)
	}
	for i, row := range rows {
		if len(row) != out.Cols() {
			return nil, matrixErrorf(fmt.Sprintf("FromRows: row %d", i), ErrBadShape)
		}
		for j, v := range row {
			if v == 0 {
				continue
			}
			if err = out.Set(i, j, v); err != nil {
				return nil, matrixErrorf("FromRows", err)
			}
		}
	}

	return out, nil
}

// FromEntries builds an r×c matrix in f's representation from triplets.
// Later entries for the same cell overwrite earlier ones.
func FromEntries(f Factory, rows, cols int, entries []Entry) (Matrix, error) {
	out, err := f.New(rows, cols)
	if err != nil {
		return nil, matrixErrorf("FromEntries", err)
	}
	for _, e := range entries {
		if err = out.Set(e.Row, e.Col, e.Val); err != nil {
			return nil, matrixErrorf("FromEntries", err)
		}
	}

	return out, nil
}
