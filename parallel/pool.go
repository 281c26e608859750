// SPDX-License-Identifier: MIT

// Package parallel provides the bounded worker pool used by the Parallel
// matrix representations, the Local computation engine and the in-process
// distribution adapter.
//
// Model:
//   - A fixed number of workers (size = threadMultiplier × GOMAXPROCS) run
//     submitted work items; an errgroup carries the first error and cancels
//     the remaining items.
//   - A counting semaphore with size+1 permits gates submission: the producer
//     acquires one permit per item before spawning it, and the driver joins by
//     acquiring every permit (a barrier). A cancelled context aborts the
//     barrier; the pool still waits for running items before returning.
//
// The pool never shares state between items. Callers that let items write
// into one matrix must hand each item a disjoint row range.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrInterrupted marks a wait aborted by context cancellation.
var ErrInterrupted = errors.New("parallel: wait interrupted")

// Pool runs indexed work items on a bounded set of goroutines.
// The zero value is not usable; create pools with NewPool.
type Pool struct {
	size    int
	permits int64
}

// SizeFor returns threadMultiplier × GOMAXPROCS, floored at 1.
func SizeFor(threadMultiplier int) int {
	if threadMultiplier < 1 {
		threadMultiplier = 1
	}

	return threadMultiplier * runtime.GOMAXPROCS(0)
}

// NewPool returns a pool with the given number of workers (minimum 1).
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}

	return &Pool{size: size, permits: int64(size) + 1}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Run executes fn(ctx, i) for every i in [0, n) and blocks until all started
// items have returned.
//
// Errors:
//   - the first error returned by an item (remaining items see a cancelled ctx);
//   - ErrInterrupted wrapping ctx.Err() when the caller's context ends first.
//
// Complexity: O(n) scheduling overhead, at most Size() items in flight.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	sem := semaphore.NewWeighted(p.permits)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)

	var submitErr error
	for i := 0; i < n; i++ {
		if err := sem.Acquire(gctx, 1); err != nil {
			submitErr = err
			break
		}
		idx := i
		g.Go(func() error {
			defer sem.Release(1)
			return fn(gctx, idx)
		})
	}

	// Barrier: every permit comes back only when every item has finished.
	joinErr := sem.Acquire(ctx, p.permits)
	if joinErr == nil {
		sem.Release(p.permits)
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, ctxErr)
	}
	if submitErr != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, submitErr)
	}
	if joinErr != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, joinErr)
	}

	return nil
}

// ForEach runs fn for every element of items on the pool.
func ForEach[T any](ctx context.Context, p *Pool, items []T, fn func(ctx context.Context, item T) error) error {
	return p.Run(ctx, len(items), func(ctx context.Context, i int) error {
		return fn(ctx, items[i])
	})
}
