// SPDX-License-Identifier: MIT

package distribution

import (
	"context"

	"github.com/katalvlaran/smartop/matrix"
)

// Adapter is an execution backend for jobs.
//
// Submit marks the job submitted and dispatches its tasks; it may return
// before they finish. Results come back through Job.Deliver / Job.Fail, at
// least once per task.
type Adapter interface {
	Submit(ctx context.Context, job *Job) error
	Close() error
	Name() string
}

// Run submits job on a and waits for its result.
func Run(ctx context.Context, a Adapter, job *Job) (matrix.Matrix, error) {
	if err := a.Submit(ctx, job); err != nil {
		return nil, err
	}

	return job.Wait(ctx)
}
