// Package policy decides how many row-range tasks an operation is cut into
// (the "parallel factor") and produces those ranges.
//
// Policies:
//
//   - Static:        cores × granularity, for every operation.
//   - RowSparseness: round(cores·(1+α+β)), α = 1 − mean row sparseness of the
//     left operand, β a shape correction from ln(rows/cols).
//   - Variance:      as RowSparseness with α = 1 − (mean − stdDev), giving
//     more tasks to matrices whose density is uneven across rows.
//
// Multiply reuses the add/subtract factor; Laplacian uses the raw core count
// (Static keeps cores × granularity).
//
// Splitters:
//
//   - Split: rowsPerTask = rows/factor (at least 1); the last range is
//     truncated, so the task count may be factor+1.
//   - SplitByNonZeros: each range accumulates about nnz/factor non-zeros and
//     absorbs trailing empty rows.
//
// Both return contiguous, disjoint ranges whose union is exactly [0, rows);
// that disjointness is what lets tasks replace accumulator rows without locks.
package policy
