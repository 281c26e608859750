// SPDX-License-Identifier: MIT

package compute

import (
	"context"

	"github.com/katalvlaran/smartop/distribution"
	"github.com/katalvlaran/smartop/internal/logging"
	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/policy"
)

// Distributed builds add, subtract, multiply and Laplacian as jobs on an
// adapter. With Dynamic set, add/subtract/multiply ranges are balanced by
// non-zeros instead of row count.
type Distributed struct {
	*Serial
	adapter distribution.Adapter
	policy  policy.Policy
	Dynamic bool
}

var _ Computation = (*Distributed)(nil)

// NewDistributed returns an engine submitting jobs to a.
func NewDistributed(f matrix.Factory, a distribution.Adapter, p policy.Policy, log logging.Logger, opts ...matrix.Option) *Distributed {
	return &Distributed{Serial: NewSerial(f, log, opts...), adapter: a, policy: p}
}

// Name implements Computation.
func (d *Distributed) Name() string { return "distributed-" + d.adapter.Name() }

// split picks the ranges of m for factor.
func (d *Distributed) split(tr *trace, m matrix.Matrix, factor int, dynamic bool) ([]policy.Range, error) {
	var (
		ranges []policy.Range
		err    error
	)
	if dynamic {
		ranges, err = policy.SplitByNonZeros(m, factor)
	} else {
		ranges, err = policy.Split(m.Rows(), factor)
	}
	if err != nil {
		return nil, err
	}
	tr.partitioned(factor, policy.RowsPerTask(m.Rows(), factor), policy.NonZerosPerTask(m, factor), len(ranges))

	return ranges, nil
}

// run submits a job with acc (rows×cols), the shared matrices and the tasks
// built per range, and waits for it.
func (d *Distributed) run(ctx context.Context, acc matrix.Matrix, strategy distribution.Strategy,
	shared map[string]matrix.Matrix, ranges []policy.Range, build func(r policy.Range) (*distribution.Task, error)) (matrix.Matrix, error) {
	job := distribution.NewJob(acc, strategy)
	job.Shared().PutFactory(d.factory)
	for k, m := range shared {
		job.Shared().PutMatrix(k, m)
	}
	tasks := make([]*distribution.Task, 0, len(ranges))
	for _, r := range ranges {
		t, err := build(r)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := job.AddTasks(tasks...); err != nil {
		return nil, err
	}
	d.log.Debug("job submitted", logging.String("job", job.ID()), logging.Int("tasks", len(tasks)),
		logging.String("strategy", strategy.Name()))

	return distribution.Run(ctx, d.adapter, job)
}

// Add implements Computation.
func (d *Distributed) Add(ctx context.Context, a, b matrix.Matrix) (matrix.Matrix, error) {
	return d.addSub(ctx, OpAdd, a, b, distribution.NewAddTask)
}

// Subtract implements Computation.
func (d *Distributed) Subtract(ctx context.Context, a, b matrix.Matrix) (matrix.Matrix, error) {
	return d.addSub(ctx, OpSubtract, a, b, distribution.NewSubtractTask)
}

func (d *Distributed) addSub(ctx context.Context, op string, a, b matrix.Matrix,
	newTask func(r policy.Range, left, right matrix.Matrix) *distribution.Task) (matrix.Matrix, error) {
	tr := begin(d.log, d.Name(), op, a)
	out, err := func() (matrix.Matrix, error) {
		if err := matrix.ValidateBinarySameShape(a, b); err != nil {
			return nil, err
		}
		ranges, err := d.split(tr, a, d.policy.ForAddSub(a, b), d.Dynamic)
		if err != nil {
			return nil, err
		}
		acc, err := d.factory.New(a.Rows(), a.Cols())
		if err != nil {
			return nil, err
		}
		return d.run(ctx, acc, distribution.RowMerge{}, nil, ranges, func(r policy.Range) (*distribution.Task, error) {
			left, err := matrix.Submatrix(d.factory, a, r.Start, r.End)
			if err != nil {
				return nil, err
			}
			right, err := matrix.Submatrix(d.factory, b, r.Start, r.End)
			if err != nil {
				return nil, err
			}
			return newTask(r, left, right), nil
		})
	}()
	if err = tr.end(wrap(d.Name(), op, err)); err != nil {
		return nil, err
	}

	return out, nil
}

// Multiply implements Computation. b travels once as shared data.
func (d *Distributed) Multiply(ctx context.Context, a, b matrix.Matrix) (matrix.Matrix, error) {
	tr := begin(d.log, d.Name(), OpMultiply, a)
	out, err := func() (matrix.Matrix, error) {
		if err := matrix.ValidateMulCompatible(a, b); err != nil {
			return nil, err
		}
		ranges, err := d.split(tr, a, d.policy.ForMultiply(a, b), d.Dynamic)
		if err != nil {
			return nil, err
		}
		acc, err := d.factory.New(a.Rows(), b.Cols())
		if err != nil {
			return nil, err
		}
		shared := map[string]matrix.Matrix{distribution.KeyRightMatrix: b}
		return d.run(ctx, acc, distribution.RowMerge{}, shared, ranges, func(r policy.Range) (*distribution.Task, error) {
			left, err := matrix.Submatrix(d.factory, a, r.Start, r.End)
			if err != nil {
				return nil, err
			}
			return distribution.NewMultiplyTask(r, left), nil
		})
	}()
	if err = tr.end(wrap(d.Name(), OpMultiply, err)); err != nil {
		return nil, err
	}

	return out, nil
}

// Laplacian implements Computation: a diagonal-merge job builds D from the
// column sums of each band, then D − A runs as a subtract job.
func (d *Distributed) Laplacian(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	tr := begin(d.log, d.Name(), OpLaplacian, m)
	out, err := func() (matrix.Matrix, error) {
		if err := matrix.ValidateSquareNonNil(m); err != nil {
			return nil, err
		}
		n := m.Cols()
		bands, err := d.split(tr, m, d.policy.ForLaplacian(m), false)
		if err != nil {
			return nil, err
		}
		acc, err := d.factory.New(n, n)
		if err != nil {
			return nil, err
		}
		shared := map[string]matrix.Matrix{distribution.KeyLaplacian: m}
		deg, err := d.run(ctx, acc, distribution.DiagonalMerge{}, shared, bands, func(r policy.Range) (*distribution.Task, error) {
			return distribution.NewLaplacianTask(r, n), nil
		})
		if err != nil {
			return nil, err
		}
		return d.Subtract(ctx, deg, m)
	}()
	if err = tr.end(wrap(d.Name(), OpLaplacian, err)); err != nil {
		return nil, err
	}

	return out, nil
}

// Transpose implements Computation.
func (d *Distributed) Transpose(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return d.transpose(ctx, d.Name(), m)
}

// MultiplyByTranspose implements Computation.
func (d *Distributed) MultiplyByTranspose(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return d.multiplyByTranspose(ctx, d.Name(), m)
}

// Scale implements Computation.
func (d *Distributed) Scale(ctx context.Context, alpha float64, m matrix.Matrix) (matrix.Matrix, error) {
	return d.scale(ctx, d.Name(), alpha, m)
}

// Invert implements Computation.
func (d *Distributed) Invert(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return d.invert(ctx, d.Name(), m)
}

// InvertByCholesky implements Computation.
func (d *Distributed) InvertByCholesky(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return d.invertByCholesky(ctx, d.Name(), m)
}
