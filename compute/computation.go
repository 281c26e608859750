// SPDX-License-Identifier: MIT

package compute

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/katalvlaran/smartop/internal/logging"
	"github.com/katalvlaran/smartop/internal/metrics"
	"github.com/katalvlaran/smartop/matrix"
)

// Operation names, used in logs and metric labels.
const (
	OpTranspose           = "transpose"
	OpMultiplyByTranspose = "multiply_by_transpose"
	OpScale               = "scale"
	OpMultiply            = "multiply"
	OpAdd                 = "add"
	OpSubtract            = "subtract"
	OpInvert              = "invert"
	OpInvertByCholesky    = "invert_by_cholesky"
	OpLaplacian           = "laplacian"
)

// Computation is the operation surface shared by every engine. Results are
// built by the engine's factory; inputs are never modified.
type Computation interface {
	Name() string
	Transpose(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error)
	MultiplyByTranspose(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error)
	Scale(ctx context.Context, alpha float64, m matrix.Matrix) (matrix.Matrix, error)
	Multiply(ctx context.Context, a, b matrix.Matrix) (matrix.Matrix, error)
	Add(ctx context.Context, a, b matrix.Matrix) (matrix.Matrix, error)
	Subtract(ctx context.Context, a, b matrix.Matrix) (matrix.Matrix, error)
	Invert(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error)
	InvertByCholesky(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error)
	Laplacian(ctx context.Context, m matrix.Matrix) (matrix.Matrix, error)
}

// Repr names the representation of m, e.g. "rowmap" or "parallel".
func Repr(m matrix.Matrix) string {
	name := fmt.Sprintf("%T", m)
	if k := strings.LastIndexByte(name, '.'); k >= 0 {
		name = name[k+1:]
	}

	return strings.ToLower(name)
}

// trace brackets one operation with a start and an end log line.
type trace struct {
	log    logging.Logger
	op     string
	engine string
	start  time.Time
}

func begin(log logging.Logger, engine, op string, m matrix.Matrix, fields ...logging.Field) *trace {
	if m != nil {
		fields = append(fields,
			logging.String("repr", Repr(m)),
			logging.Int("rows", m.Rows()),
			logging.Int("cols", m.Cols()),
			logging.Float64("sparsity", matrix.Sparsity(m)),
		)
	}
	l := log.With(logging.String("op", op), logging.String("engine", engine))
	l.Debug("operation started", fields...)

	return &trace{log: l, op: op, engine: engine, start: time.Now()}
}

// partitioned logs the split chosen for a partitioned operation.
func (t *trace) partitioned(factor, rowsPerTask, nnzPerTask, tasks int) {
	metrics.SetParallelFactor(t.op, factor)
	t.log.Debug("operation split",
		logging.Int("factor", factor),
		logging.Int("rows_per_task", rowsPerTask),
		logging.Int("nnz_per_task", nnzPerTask),
		logging.Int("tasks", tasks),
	)
}

// end logs the outcome, records metrics and passes err through.
func (t *trace) end(err error) error {
	elapsed := time.Since(t.start)
	metrics.ObserveOperation(t.op, t.engine, elapsed)
	if err != nil {
		t.log.Error("operation failed", err, logging.Duration("elapsed", elapsed))
		return err
	}
	t.log.Info("operation done", logging.Duration("elapsed", elapsed))

	return nil
}

// wrap tags err with the engine and operation.
func wrap(engine, op string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s %s: %w", engine, op, err)
}
