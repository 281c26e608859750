// SPDX-License-Identifier: MIT

package distribution

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/katalvlaran/smartop/internal/metrics"
	"github.com/katalvlaran/smartop/matrix"
)

// State is the lifecycle position of a Job.
type State int

// Job states.
const (
	StateCreated State = iota
	StatePopulated
	StateSubmitted
	StateComplete
	StateFailed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StatePopulated:
		return "populated"
	case StateSubmitted:
		return "submitted"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	}

	return fmt.Sprintf("state(%d)", int(s))
}

// Job is one distributable operation: an accumulator, a reconstruction
// strategy, shared data and a list of tasks. Safe for concurrent use.
type Job struct {
	id       string
	acc      matrix.Matrix
	strategy Strategy
	shared   *SharedData

	mu     sync.Mutex
	state  State
	tasks  []*Task
	merged []bool
	count  int
	err    error

	done chan struct{}
}

// NewJob binds an accumulator and a reconstruction strategy.
// The job gets a fresh UUID and starts in StateCreated.
func NewJob(acc matrix.Matrix, strategy Strategy) *Job {
	return &Job{
		id:       uuid.NewString(),
		acc:      acc,
		strategy: strategy,
		shared:   NewSharedData(),
		done:     make(chan struct{}),
	}
}

// ID returns the job's unique identifier.
func (j *Job) ID() string { return j.id }

// Shared returns the job's shared data.
func (j *Job) Shared() *SharedData { return j.shared }

// Accumulator returns the result matrix under construction.
func (j *Job) Accumulator() matrix.Matrix { return j.acc }

// State returns the current lifecycle state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.state
}

// AddTasks appends tasks and assigns their indices.
// Allowed in Created or Populated; moves the job to Populated.
func (j *Job) AddTasks(tasks ...*Task) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateCreated && j.state != StatePopulated {
		return fmt.Errorf("AddTasks in %s: %w", j.state, ErrJobState)
	}
	for _, t := range tasks {
		t.index = len(j.tasks)
		j.tasks = append(j.tasks, t)
		j.merged = append(j.merged, false)
	}
	j.state = StatePopulated

	return nil
}

// Tasks returns the tasks in index order.
func (j *Job) Tasks() []*Task {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*Task, len(j.tasks))
	copy(out, j.tasks)

	return out
}

// Task returns the task with the given index.
func (j *Job) Task(index int) (*Task, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if index < 0 || index >= len(j.tasks) {
		return nil, fmt.Errorf("task %d of %d: %w", index, len(j.tasks), ErrUnknownTask)
	}

	return j.tasks[index], nil
}

// MarkSubmitted moves a Populated job to Submitted. Adapters call it from
// Submit before dispatching. A job without tasks completes immediately.
func (j *Job) MarkSubmitted() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StatePopulated && !(j.state == StateCreated && len(j.tasks) == 0) {
		return fmt.Errorf("Submit in %s: %w", j.state, ErrJobState)
	}
	j.state = StateSubmitted
	if len(j.tasks) == 0 {
		j.completeLocked()
	}

	return nil
}

// Deliver merges the fragment of task index into the accumulator.
// A second delivery of the same index is ignored. Deliveries to a failed
// job are rejected with ErrJobState. A merge error fails the job.
func (j *Job) Deliver(index int, fragment matrix.Matrix) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateSubmitted && j.state != StateComplete {
		return fmt.Errorf("Deliver in %s: %w", j.state, ErrJobState)
	}
	if index < 0 || index >= len(j.tasks) {
		return fmt.Errorf("Deliver(%d): %w", index, ErrUnknownTask)
	}
	t := j.tasks[index]
	if j.merged[index] {
		metrics.ObserveTask(string(t.Kind), metrics.OutcomeDuplicate)
		return nil
	}
	if err := j.strategy.Merge(j.acc, t.Range, fragment); err != nil {
		j.failLocked(t.errorf(err))
		return err
	}
	j.merged[index] = true
	j.count++
	metrics.ObserveTask(string(t.Kind), metrics.OutcomeOK)
	if j.count == len(j.tasks) {
		j.completeLocked()
	}

	return nil
}

// Fail records a task failure. The first failure fails the job; later ones
// are ignored.
func (j *Job) Fail(index int, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	kind := "unknown"
	if index >= 0 && index < len(j.tasks) {
		kind = string(j.tasks[index].Kind)
	}
	metrics.ObserveTask(kind, metrics.OutcomeFailed)
	j.failLocked(err)
}

func (j *Job) failLocked(err error) {
	if j.state == StateComplete || j.state == StateFailed {
		return
	}
	j.state = StateFailed
	j.err = fmt.Errorf("job %s: %w: %w", j.id, ErrTaskFailed, err)
	close(j.done)
}

func (j *Job) completeLocked() {
	j.acc.RefreshNonZeros()
	j.state = StateComplete
	close(j.done)
}

// Done is closed when the job completes or fails.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job is Complete (returning the accumulator), Failed
// (returning the wrapped ErrTaskFailed) or ctx ends.
func (j *Job) Wait(ctx context.Context) (matrix.Matrix, error) {
	select {
	case <-j.done:
	case <-ctx.Done():
		return nil, fmt.Errorf("job %s: wait: %w", j.id, ctx.Err())
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return nil, j.err
	}

	return j.acc, nil
}

// Progress returns delivered and total task counts.
func (j *Job) Progress() (delivered, total int) {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.count, len(j.tasks)
}
