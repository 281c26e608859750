// SPDX-License-Identifier: MIT

package compute

import (
	"context"

	"github.com/katalvlaran/smartop/internal/logging"
	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/parallel"
	"github.com/katalvlaran/smartop/policy"
)

// Local partitions add, subtract, multiply and Laplacian into policy row
// ranges and runs them on a pool. Each range computes into its own slot;
// the driver writes the slots into the result once the barrier is passed.
type Local struct {
	*Serial
	pool   *parallel.Pool
	policy policy.Policy
}

var _ Computation = (*Local)(nil)

// NewLocal returns a pooled engine. p chooses the parallel factor per call.
func NewLocal(f matrix.Factory, pool *parallel.Pool, p policy.Policy, log logging.Logger, opts ...matrix.Option) *Local {
	return &Local{Serial: NewSerial(f, log, opts...), pool: pool, policy: p}
}

// Name implements Computation.
func (l *Local) Name() string { return "local" }

// rowSlot is the computed content of one row range.
type rowSlot struct {
	cols [][]int
	vals [][]float64
}

// rowwise computes out[i] = rowFn(i) for every row on the pool.
func (l *Local) rowwise(ctx context.Context, tr *trace, factor int, a matrix.Matrix, cols int,
	rowFn func(i int) ([]int, []float64)) (matrix.Matrix, error) {
	ranges, err := policy.Split(a.Rows(), factor)
	if err != nil {
		return nil, err
	}
	tr.partitioned(factor, policy.RowsPerTask(a.Rows(), factor), policy.NonZerosPerTask(a, factor), len(ranges))

	slots := make([]rowSlot, len(ranges))
	err = l.pool.Run(ctx, len(ranges), func(ctx context.Context, x int) error {
		r := ranges[x]
		s := rowSlot{cols: make([][]int, r.Len()), vals: make([][]float64, r.Len())}
		for i := r.Start; i < r.End; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.cols[i-r.Start], s.vals[i-r.Start] = rowFn(i)
		}
		slots[x] = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	out, err := l.factory.New(a.Rows(), cols)
	if err != nil {
		return nil, err
	}
	for x, r := range ranges {
		for k := range slots[x].cols {
			if err = matrix.WriteRow(out, r.Start+k, slots[x].cols[k], slots[x].vals[k]); err != nil {
				return nil, err
			}
		}
	}
	out.RefreshNonZeros()

	return out, nil
}

// Add implements Computation.
func (l *Local) Add(ctx context.Context, a, b matrix.Matrix) (matrix.Matrix, error) {
	return l.addSub(ctx, OpAdd, a, b, 1)
}

// Subtract implements Computation.
func (l *Local) Subtract(ctx context.Context, a, b matrix.Matrix) (matrix.Matrix, error) {
	return l.addSub(ctx, OpSubtract, a, b, -1)
}

func (l *Local) addSub(ctx context.Context, op string, a, b matrix.Matrix, sign float64) (matrix.Matrix, error) {
	tr := begin(l.log, l.Name(), op, a)
	if err := matrix.ValidateBinarySameShape(a, b); err != nil {
		return nil, tr.end(wrap(l.Name(), op, err))
	}
	out, err := l.rowwise(ctx, tr, l.policy.ForAddSub(a, b), a, a.Cols(), func(i int) ([]int, []float64) {
		return matrix.AddRow(a, b, i, sign)
	})
	if err = tr.end(wrap(l.Name(), op, err)); err != nil {
		return nil, err
	}

	return out, nil
}

// Multiply implements Computation.
func (l *Local) Multiply(ctx context.Context, a, b matrix.Matrix) (matrix.Matrix, error) {
	tr := begin(l.log, l.Name(), OpMultiply, a)
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, tr.end(wrap(l.Name(), OpMultiply, err))
	}
	out, err := l.rowwise(ctx, tr, l.policy.ForMultiply(a, b), a, b.Cols(), func(i int) ([]int, []float64) {
		return matrix.MulRow(a, b, i)
	})
	if err = tr.end(wrap(l.Name(), OpMultiply, err)); err != nil {
		return nil, err
	}

	return out, nil
}

// Laplacian implements Computation: column sums per band on the pool, then
// D − A through the pooled Subtract.
func (l *Local) Laplacian(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	tr := begin(l.log, l.Name(), OpLaplacian, m)
	out, err := l.laplacian(ctx, tr, m)
	if err = tr.end(wrap(l.Name(), OpLaplacian, err)); err != nil {
		return nil, err
	}

	return out, nil
}

func (l *Local) laplacian(ctx context.Context, tr *trace, m matrix.Matrix) (matrix.Matrix, error) {
	if err := matrix.ValidateSquareNonNil(m); err != nil {
		return nil, err
	}
	n := m.Rows()
	factor := l.policy.ForLaplacian(m)
	bands, err := policy.Split(n, factor)
	if err != nil {
		return nil, err
	}
	tr.partitioned(factor, policy.RowsPerTask(n, factor), policy.NonZerosPerTask(m, factor), len(bands))

	degrees := make([]float64, n)
	err = parallel.ForEach(ctx, l.pool, bands, func(ctx context.Context, r policy.Range) error {
		var v float64
		for _, i := range m.RowIndices() {
			for _, j := range m.ColIndices(i) {
				if j >= r.Start && j < r.End {
					v, _ = m.At(i, j)
					degrees[j] += v
				}
			}
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	d, err := l.factory.New(n, n)
	if err != nil {
		return nil, err
	}
	for j, v := range degrees {
		if v == 0 {
			continue
		}
		if err = d.Set(j, j, v); err != nil {
			return nil, err
		}
	}

	return l.Subtract(ctx, d, m)
}

// Transpose implements Computation.
func (l *Local) Transpose(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return l.transpose(ctx, l.Name(), m)
}

// MultiplyByTranspose implements Computation.
func (l *Local) MultiplyByTranspose(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return l.multiplyByTranspose(ctx, l.Name(), m)
}

// Scale implements Computation.
func (l *Local) Scale(ctx context.Context, alpha float64, m matrix.Matrix) (matrix.Matrix, error) {
	return l.scale(ctx, l.Name(), alpha, m)
}

// Invert implements Computation.
func (l *Local) Invert(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return l.invert(ctx, l.Name(), m)
}

// InvertByCholesky implements Computation.
func (l *Local) InvertByCholesky(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return l.invertByCholesky(ctx, l.Name(), m)
}
