// SPDX-License-Identifier: MIT

package mpi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/katalvlaran/smartop/distribution"
	"github.com/katalvlaran/smartop/internal/logging"
	"github.com/katalvlaran/smartop/matrix"
)

// Adapter is the rank-0 distribution.Adapter. Jobs run one at a time; within
// a job each worker rank holds at most one task.
type Adapter struct {
	t      Transport
	codec  distribution.Codec
	log    logging.Logger
	mu     sync.Mutex // owns the transport for the length of a job
	wg     sync.WaitGroup
	closed atomic.Bool
}

var _ distribution.Adapter = (*Adapter)(nil)

// NewAdapter returns a driver over t, which must be rank Root of a world with
// at least one worker rank.
func NewAdapter(t Transport, log logging.Logger) (*Adapter, error) {
	if t.Rank() != Root {
		return nil, ErrNotRoot
	}
	if t.Size() < 2 {
		return nil, ErrNoWorkers
	}
	if log == nil {
		log = logging.NewNop()
	}

	return &Adapter{t: t, log: log}, nil
}

// Name implements distribution.Adapter.
func (a *Adapter) Name() string { return "mpi" }

// Submit implements distribution.Adapter.
func (a *Adapter) Submit(ctx context.Context, job *distribution.Job) error {
	if a.closed.Load() {
		return distribution.ErrClosed
	}
	env, err := distribution.EncodeShared(job.Shared())
	if err != nil {
		return err
	}
	if err = job.MarkSubmitted(); err != nil {
		return err
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.mu.Lock()
		defer a.mu.Unlock()
		if err := a.run(ctx, job, env); err != nil {
			if job.State() == distribution.StateSubmitted {
				job.Fail(-1, err)
			}
			a.log.Error("job failed", err, logging.String("job", job.ID()))
		}
	}()

	return nil
}

func (a *Adapter) run(ctx context.Context, job *distribution.Job, env distribution.SharedEnvelope) error {
	workers := a.t.Size() - 1
	for w := 1; w <= workers; w++ {
		if err := send(a.t, a.codec, frame{Op: opShared, JobID: job.ID(), Shared: &env}, w, tagControl); err != nil {
			return err
		}
	}
	defer func() {
		for w := 1; w <= workers; w++ {
			if err := send(a.t, a.codec, frame{Op: opDrop, JobID: job.ID()}, w, tagControl); err != nil {
				a.log.Error("drop failed", err, logging.Int("rank", w))
			}
		}
	}()

	f, err := job.Shared().Factory()
	if err != nil {
		return err
	}
	tasks := job.Tasks()
	for start := 0; start < len(tasks); start += workers {
		if err = ctx.Err(); err != nil {
			return err
		}
		round := tasks[start:min(start+workers, len(tasks))]
		for x, t := range round {
			te := distribution.EncodeTask(t)
			if err = send(a.t, a.codec, frame{Op: opTask, JobID: job.ID(), Task: &te}, x+1, tagControl); err != nil {
				return err
			}
		}
		// Every dispatched task is answered before the next round, even after a failure.
		var roundErr error
		for x, t := range round {
			if err = a.collect(f, job, t, x+1); err != nil && roundErr == nil {
				roundErr = err
			}
		}
		if roundErr != nil {
			return roundErr
		}
	}

	return nil
}

func (a *Adapter) collect(f matrix.Factory, job *distribution.Job, t *distribution.Task, rank int) error {
	var res distribution.ResultEnvelope
	err := recv(a.t, a.codec, &res, rank, tagResult)
	switch {
	case err != nil:
	case res.Index != t.Index() || res.JobID != job.ID():
		err = fmt.Errorf("%w: rank %d answered task %d of %s, want %d of %s",
			ErrProtocol, rank, res.Index, res.JobID, t.Index(), job.ID())
	case res.Error != "":
		err = fmt.Errorf("rank %d: %w", rank, errors.New(res.Error))
	case res.Fragment == nil:
		err = fmt.Errorf("%w: rank %d sent no fragment", ErrProtocol, rank)
	}
	if err != nil {
		job.Fail(t.Index(), err)
		return err
	}
	frag, err := distribution.DecodeMatrix(f, *res.Fragment)
	if err != nil {
		job.Fail(t.Index(), err)
		return err
	}

	return job.Deliver(t.Index(), frag)
}

// Close waits for in-flight jobs, then stops every worker rank.
func (a *Adapter) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	a.wg.Wait()
	var errs []error
	for w := 1; w < a.t.Size(); w++ {
		errs = append(errs, send(a.t, a.codec, frame{Op: opStop}, w, tagControl))
	}

	return errors.Join(errs...)
}
