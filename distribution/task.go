// SPDX-License-Identifier: MIT

package distribution

import (
	"context"
	"fmt"

	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/policy"
)

// Kind identifies what a task computes.
type Kind string

// Task kinds.
const (
	KindAdd       Kind = "add"
	KindSubtract  Kind = "subtract"
	KindMultiply  Kind = "multiply"
	KindLaplacian Kind = "laplacian"
)

// Task is one row-range unit of a partitioned operation.
//
//   - Add/Subtract: Left and Right hold the task's own rows of both operands.
//   - Multiply:     Left holds the task's rows; the right operand is shared.
//   - Laplacian:    no operands; column sums of the shared source over the
//     band [Range.Start, Range.End), Cols wide.
type Task struct {
	Kind  Kind
	Range policy.Range
	Cols  int
	Left  matrix.Matrix
	Right matrix.Matrix

	index int
}

// NewAddTask returns a task adding left and right (both Range.Len() rows).
func NewAddTask(r policy.Range, left, right matrix.Matrix) *Task {
	return &Task{Kind: KindAdd, Range: r, Left: left, Right: right}
}

// NewSubtractTask returns a task computing left − right.
func NewSubtractTask(r policy.Range, left, right matrix.Matrix) *Task {
	return &Task{Kind: KindSubtract, Range: r, Left: left, Right: right}
}

// NewMultiplyTask returns a task computing left · shared[KeyRightMatrix].
func NewMultiplyTask(r policy.Range, left matrix.Matrix) *Task {
	return &Task{Kind: KindMultiply, Range: r, Left: left}
}

// NewLaplacianTask returns a task summing the columns [r.Start, r.End) of
// shared[KeyLaplacian] into a 1×cols fragment.
func NewLaplacianTask(r policy.Range, cols int) *Task {
	return &Task{Kind: KindLaplacian, Range: r, Cols: cols}
}

// Index returns the position assigned by Job.AddTasks.
func (t *Task) Index() int { return t.index }

// Run computes the task's fragment from its operands and shared.
// Errors: ErrUnknownTask, ErrMissingShared, matrix errors.
func (t *Task) Run(ctx context.Context, shared *SharedData) (matrix.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := shared.Factory()
	if err != nil {
		return nil, t.errorf(err)
	}

	var out matrix.Matrix
	switch t.Kind {
	case KindAdd:
		out, err = matrix.Add(f, t.Left, t.Right)
	case KindSubtract:
		out, err = matrix.Sub(f, t.Left, t.Right)
	case KindMultiply:
		var right matrix.Matrix
		if right, err = shared.Matrix(KeyRightMatrix); err == nil {
			out, err = matrix.Mul(f, t.Left, right)
		}
	case KindLaplacian:
		out, err = t.laplacian(f, shared)
	default:
		err = fmt.Errorf("%w: kind %q", ErrUnknownTask, t.Kind)
	}
	if err != nil {
		return nil, t.errorf(err)
	}

	return out, nil
}

func (t *Task) laplacian(f matrix.Factory, shared *SharedData) (matrix.Matrix, error) {
	a, err := shared.Matrix(KeyLaplacian)
	if err != nil {
		return nil, err
	}
	if err = matrix.ValidateRowRange(a, t.Range.Start, t.Range.End); err != nil {
		return nil, err
	}
	out, err := f.New(1, t.Cols)
	if err != nil {
		return nil, err
	}
	sums := make(map[int]float64)
	var v float64
	for _, i := range a.RowIndices() {
		for _, j := range a.ColIndices(i) {
			if j < t.Range.Start || j >= t.Range.End {
				continue
			}
			v, _ = a.At(i, j)
			sums[j] += v
		}
	}
	for j := t.Range.Start; j < t.Range.End; j++ {
		if err = out.Set(0, j, sums[j]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (t *Task) errorf(err error) error {
	return fmt.Errorf("task %d (%s %s): %w", t.index, t.Kind, t.Range, err)
}
