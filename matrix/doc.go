// Package matrix is the storage core of smartop: one capability contract
// (Matrix) and several interchangeable representations behind it.
//
// The matrix package provides:
//
//   - Dense: row-major flat buffer; every cell structurally present.
//   - Coordinate: one map keyed by (row, col).
//   - RowMap: row → (col → value) with an occupied-column index; the workhorse.
//   - Compact: RowMap semantics on sorted int32/float64 slices.
//   - Threshold: switches between RowMap and Dense as density crosses a switch point.
//   - Parallel: mutex-guarded writes and pool-backed Scale/Mul over RowMap or Compact.
//
// Every allocation goes through an explicit Factory handle; Copy, Identity,
// FromRows and Load build any representation from any other.
//
// Kernels (Add, Sub, Mul, Scale, Transpose, MulByTranspose, Laplacian) iterate
// only occupied rows and columns in ascending order. Decompositions and solves
// live in the ops subpackage.
//
// Absence means zero: Set(i, j, 0) removes the entry, and NonZeros is a
// maintained counter that RefreshNonZeros re-synchronizes after bulk writes.
package matrix
