// SPDX-License-Identifier: MIT

package policy

import (
	"fmt"

	"github.com/katalvlaran/smartop/matrix"
)

// Range is the half-open row interval [Start, End) owned by one task.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns End − Start.
func (r Range) Len() int { return r.End - r.Start }

// String renders "[start,end)".
func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// RowsPerTask returns rows/factor, at least 1.
func RowsPerTask(rows, factor int) int {
	if factor < 1 {
		factor = 1
	}

	return max(1, rows/factor)
}

// Split cuts [0, rows) into consecutive ranges of RowsPerTask rows; the last
// range is truncated to rows.
// Errors: ErrBadFactor for factor < 1 or rows < 1.
func Split(rows, factor int) ([]Range, error) {
	if factor < 1 || rows < 1 {
		return nil, fmt.Errorf("Split(rows=%d, factor=%d): %w", rows, factor, ErrBadFactor)
	}
	step := RowsPerTask(rows, factor)
	out := make([]Range, 0, rows/step+1)
	for start := 0; start < rows; start += step {
		out = append(out, Range{Start: start, End: min(start+step, rows)})
	}

	return out, nil
}

// SplitByNonZeros cuts [0, rows) so that each range holds about
// NonZeros/factor entries. A range keeps growing while it is below the quota
// or the next row is empty, so empty rows never start a range of their own
// unless they lead the matrix.
// Errors: ErrBadFactor for factor < 1.
func SplitByNonZeros(m matrix.Matrix, factor int) ([]Range, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, fmt.Errorf("SplitByNonZeros: %w", err)
	}
	if factor < 1 {
		return nil, fmt.Errorf("SplitByNonZeros(factor=%d): %w", factor, ErrBadFactor)
	}
	rows := m.Rows()
	quota := max(1, m.NonZeros()/factor)

	var (
		out      []Range
		end, nnz int
	)
	for start := 0; start < rows; start = end {
		nnz = 0
		for end < rows && (nnz < quota || m.RowNonZeros(end) == 0) {
			nnz += m.RowNonZeros(end)
			end++
		}
		out = append(out, Range{Start: start, End: end})
	}

	return out, nil
}

// NonZerosPerTask returns NonZeros/factor, the quota used by SplitByNonZeros
// (reported in operation logs).
func NonZerosPerTask(m matrix.Matrix, factor int) int {
	if factor < 1 {
		factor = 1
	}

	return m.NonZeros() / factor
}
