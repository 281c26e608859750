// SPDX-License-Identifier: MIT

package distribution

import "errors"

var (
	// ErrJobState is returned when a Job method is called in the wrong state.
	ErrJobState = errors.New("distribution: invalid job state")

	// ErrTaskFailed wraps the first task failure of a job.
	ErrTaskFailed = errors.New("distribution: task failed")

	// ErrMissingShared is returned when a task needs a shared value that the
	// job did not provide.
	ErrMissingShared = errors.New("distribution: missing shared data")

	// ErrUnknownTask is returned for an unknown task kind or index.
	ErrUnknownTask = errors.New("distribution: unknown task")

	// ErrClosed is returned by adapters after Close.
	ErrClosed = errors.New("distribution: adapter closed")
)
