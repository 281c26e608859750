// SPDX-License-Identifier: MIT

package distribution

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/katalvlaran/smartop/parallel"
)

// LocalAdapter runs job tasks in-process on a parallel.Pool. Submit returns
// immediately; tasks run in the background and deliver asynchronously.
type LocalAdapter struct {
	pool   *parallel.Pool
	closed atomic.Bool
	wg     sync.WaitGroup
}

// NewLocalAdapter returns an adapter running at most pool.Size() tasks at once.
func NewLocalAdapter(pool *parallel.Pool) *LocalAdapter {
	return &LocalAdapter{pool: pool}
}

// Name implements Adapter.
func (a *LocalAdapter) Name() string { return "local" }

// Submit implements Adapter. The job's tasks run until they finish or ctx ends.
func (a *LocalAdapter) Submit(ctx context.Context, job *Job) error {
	if a.closed.Load() {
		return ErrClosed
	}
	if err := job.MarkSubmitted(); err != nil {
		return err
	}
	tasks := job.Tasks()
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		err := parallel.ForEach(ctx, a.pool, tasks, func(ctx context.Context, t *Task) error {
			frag, err := t.Run(ctx, job.Shared())
			if err != nil {
				job.Fail(t.Index(), err)
				return err
			}
			return job.Deliver(t.Index(), frag)
		})
		if err != nil && job.State() == StateSubmitted {
			// Interrupted before any task reported.
			job.Fail(-1, fmt.Errorf("local adapter: %w", err))
		}
	}()

	return nil
}

// Close waits for in-flight jobs and rejects further submissions.
func (a *LocalAdapter) Close() error {
	a.closed.Store(true)
	a.wg.Wait()

	return nil
}
