// SPDX-License-Identifier: MIT

package distribution

import (
	"fmt"

	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/policy"
)

// Strategy merges one task fragment into the job accumulator.
type Strategy interface {
	Merge(acc matrix.Matrix, r policy.Range, fragment matrix.Matrix) error
	Name() string
}

// RowMerge copies fragment row i wholesale into accumulator row r.Start+i.
// Used by add, subtract and multiply.
type RowMerge struct{}

// Merge implements Strategy.
func (RowMerge) Merge(acc matrix.Matrix, r policy.Range, fragment matrix.Matrix) error {
	if fragment.Rows() != r.Len() || fragment.Cols() != acc.Cols() {
		return fmt.Errorf("RowMerge %s: fragment %dx%d into %dx%d: %w",
			r, fragment.Rows(), fragment.Cols(), acc.Rows(), acc.Cols(), matrix.ErrDimensionMismatch)
	}
	for i := 0; i < fragment.Rows(); i++ {
		if err := matrix.CopyRow(acc, r.Start+i, fragment, i); err != nil {
			return fmt.Errorf("RowMerge %s: %w", r, err)
		}
	}

	return nil
}

// Name implements Strategy.
func (RowMerge) Name() string { return "row" }

// DiagonalMerge copies fragment (0, j) to accumulator (j, j) for j in r.
// Used by the Laplacian degree band.
type DiagonalMerge struct{}

// Merge implements Strategy.
func (DiagonalMerge) Merge(acc matrix.Matrix, r policy.Range, fragment matrix.Matrix) error {
	if fragment.Rows() < 1 || fragment.Cols() < r.End {
		return fmt.Errorf("DiagonalMerge %s: fragment %dx%d: %w",
			r, fragment.Rows(), fragment.Cols(), matrix.ErrDimensionMismatch)
	}
	for j := r.Start; j < r.End; j++ {
		v, err := fragment.At(0, j)
		if err != nil {
			return fmt.Errorf("DiagonalMerge %s: %w", r, err)
		}
		if err = acc.Set(j, j, v); err != nil {
			return fmt.Errorf("DiagonalMerge %s: %w", r, err)
		}
	}

	return nil
}

// Name implements Strategy.
func (DiagonalMerge) Name() string { return "diagonal" }
