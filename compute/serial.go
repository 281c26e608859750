// SPDX-License-Identifier: MIT

package compute

import (
	"context"

	"github.com/katalvlaran/smartop/internal/logging"
	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/matrix/ops"
)

// Serial runs every operation on the calling goroutine.
type Serial struct {
	factory matrix.Factory
	opts    []matrix.Option
	log     logging.Logger
}

var _ Computation = (*Serial)(nil)

// NewSerial returns a serial engine building results with f. opts reach the
// inverses (tolerance).
func NewSerial(f matrix.Factory, log logging.Logger, opts ...matrix.Option) *Serial {
	if log == nil {
		log = logging.NewNop()
	}

	return &Serial{factory: f, opts: opts, log: log}
}

// Name implements Computation.
func (s *Serial) Name() string { return "serial" }

// Factory returns the factory results are built with.
func (s *Serial) Factory() matrix.Factory { return s.factory }

// unary runs fn as operation op on m.
func (s *Serial) unary(ctx context.Context, engine, op string, m matrix.Matrix, fn func() (matrix.Matrix, error)) (matrix.Matrix, error) {
	tr := begin(s.log, engine, op, m)
	if err := ctx.Err(); err != nil {
		return nil, tr.end(wrap(engine, op, err))
	}
	out, err := fn()
	if err = tr.end(wrap(engine, op, err)); err != nil {
		return nil, err
	}

	return out, nil
}

// Transpose implements Computation.
func (s *Serial) Transpose(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return s.transpose(ctx, s.Name(), m)
}

func (s *Serial) transpose(ctx context.Context, engine string, m matrix.Matrix) (matrix.Matrix, error) {
	return s.unary(ctx, engine, OpTranspose, m, func() (matrix.Matrix, error) {
		return matrix.Transpose(s.factory, m)
	})
}

// MultiplyByTranspose implements Computation.
func (s *Serial) MultiplyByTranspose(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return s.multiplyByTranspose(ctx, s.Name(), m)
}

func (s *Serial) multiplyByTranspose(ctx context.Context, engine string, m matrix.Matrix) (matrix.Matrix, error) {
	return s.unary(ctx, engine, OpMultiplyByTranspose, m, func() (matrix.Matrix, error) {
		return matrix.MulByTranspose(s.factory, m)
	})
}

// Scale implements Computation.
func (s *Serial) Scale(ctx context.Context, alpha float64, m matrix.Matrix) (matrix.Matrix, error) {
	return s.scale(ctx, s.Name(), alpha, m)
}

func (s *Serial) scale(ctx context.Context, engine string, alpha float64, m matrix.Matrix) (matrix.Matrix, error) {
	return s.unary(ctx, engine, OpScale, m, func() (matrix.Matrix, error) {
		return matrix.Scale(s.factory, alpha, m)
	})
}

// Multiply implements Computation.
func (s *Serial) Multiply(ctx context.Context, a, b matrix.Matrix) (matrix.Matrix, error) {
	return s.unary(ctx, s.Name(), OpMultiply, a, func() (matrix.Matrix, error) {
		return matrix.Mul(s.factory, a, b)
	})
}

// Add implements Computation.
func (s *Serial) Add(ctx context.Context, a, b matrix.Matrix) (matrix.Matrix, error) {
	return s.unary(ctx, s.Name(), OpAdd, a, func() (matrix.Matrix, error) {
		return matrix.Add(s.factory, a, b)
	})
}

// Subtract implements Computation.
func (s *Serial) Subtract(ctx context.Context, a, b matrix.Matrix) (matrix.Matrix, error) {
	return s.unary(ctx, s.Name(), OpSubtract, a, func() (matrix.Matrix, error) {
		return matrix.Sub(s.factory, a, b)
	})
}

// Invert implements Computation.
func (s *Serial) Invert(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return s.invert(ctx, s.Name(), m)
}

func (s *Serial) invert(ctx context.Context, engine string, m matrix.Matrix) (matrix.Matrix, error) {
	return s.unary(ctx, engine, OpInvert, m, func() (matrix.Matrix, error) {
		return ops.Invert(s.factory, m, s.opts...)
	})
}

// InvertByCholesky implements Computation.
func (s *Serial) InvertByCholesky(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return s.invertByCholesky(ctx, s.Name(), m)
}

func (s *Serial) invertByCholesky(ctx context.Context, engine string, m matrix.Matrix) (matrix.Matrix, error) {
	return s.unary(ctx, engine, OpInvertByCholesky, m, func() (matrix.Matrix, error) {
		return ops.InvertByCholesky(s.factory, m, s.opts...)
	})
}

// Laplacian implements Computation.
func (s *Serial) Laplacian(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error) {
	return s.unary(ctx, s.Name(), OpLaplacian, m, func() (matrix.Matrix, error) {
		return matrix.Laplacian(s.factory, m)
	})
}
