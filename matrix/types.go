// SPDX-License-Identifier: MIT

// Package matrix: the capability contract shared by every representation.
// This file contains ONLY the public interfaces and small domain types.
// Errors and options live in dedicated files (errors.go, options.go).
package matrix

// Matrix is the capability contract of every storage strategy.
//
// Semantics shared by all implementations:
//   - A cell without a stored entry reads as 0; Set(i, j, 0) removes the entry.
//   - NonZeros is a maintained counter. Set keeps it delta-consistent; bulk
//     rebuilds (decompositions, merged job results) re-synchronize it with
//     RefreshNonZeros.
//   - RowIndices and ColIndices return fresh, ascending slices; callers may
//     keep or mutate them.
//   - Clone is a deep copy; no representation ever aliases another's storage.
//
// Complexity notes: At/Set are O(1) expected for every representation except
// Compact (O(log k) per row). RowIndices is O(R log R) on sparse stores.
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j). Zero removes the entry.
	// Returns ErrOutOfRange if indices are invalid, ErrNaNInf under the numeric policy.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix with the same representation.
	Clone() Matrix

	// NonZeros returns the maintained non-zero counter.
	NonZeros() int

	// RefreshNonZeros recounts the non-zero counter from storage.
	RefreshNonZeros()

	// RowIndices returns the occupied row indices in ascending order.
	RowIndices() []int

	// ColIndices returns the occupied column indices of row in ascending order.
	// Out-of-range rows have no occupied columns.
	ColIndices(row int) []int

	// RowNonZeros returns the number of occupied cells in row.
	RowNonZeros(row int) int
}

// RowReplacer is an optional fast path for wholesale row replacement.
// cols must be ascending and paired with vals; every other cell of row i is
// cleared. Used by CopyRow and therefore by job reconstruction.
type RowReplacer interface {
	ReplaceRow(i int, cols []int, vals []float64) error
}

// Scaler is an optional fast path for scalar multiplication. It is
// implemented by representations that can fan the work out (Parallel).
type Scaler interface {
	Scale(alpha float64) (Matrix, error)
}

// Multiplier is an optional fast path for the matrix product m × b.
type Multiplier interface {
	Mul(b Matrix) (Matrix, error)
}

// Coord is the composite (row, col) key of the Coordinate representation.
type Coord struct {
	Row int
	Col int
}

// Entry is a single stored cell, used by triplet I/O and the wire codec.
type Entry struct {
	Row int     `json:"r"`
	Col int     `json:"c"`
	Val float64 `json:"v"`
}
