// SPDX-License-Identifier: MIT

package mpi

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/smartop/distribution"
)

// Message tags. Driver→worker frames use tagControl, answers use tagResult.
const (
	tagControl = 1
	tagResult  = 2
)

// Root is the driver rank.
const Root = 0

const (
	opShared = "shared"
	opTask   = "task"
	opDrop   = "drop"
	opStop   = "stop"
)

var (
	// ErrNoWorkers is returned when the world has a single rank.
	ErrNoWorkers = errors.New("mpi: world has no worker ranks")
	// ErrNotRoot is returned when a non-root rank tries to drive a job.
	ErrNotRoot = errors.New("mpi: only rank 0 drives jobs")
	// ErrProtocol reports an unexpected frame.
	ErrProtocol = errors.New("mpi: protocol error")
)

// Transport is the point-to-point subset of an MPI communicator.
// Messages between one pair of ranks with the same tag arrive in order.
type Transport interface {
	Rank() int
	Size() int
	Send(data []byte, to, tag int) error
	Recv(from, tag int) ([]byte, error)
}

// frame is the driver→worker message.
type frame struct {
	Op     string                       `json:"op"`
	JobID  string                       `json:"job_id,omitempty"`
	Shared *distribution.SharedEnvelope `json:"shared,omitempty"`
	Task   *distribution.TaskEnvelope   `json:"task,omitempty"`
}

func send(t Transport, codec distribution.Codec, v any, to, tag int) error {
	data, err := codec.Marshal(v)
	if err != nil {
		return err
	}
	if err = t.Send(data, to, tag); err != nil {
		return fmt.Errorf("mpi: send to %d: %w", to, err)
	}

	return nil
}

func recv(t Transport, codec distribution.Codec, v any, from, tag int) error {
	data, err := t.Recv(from, tag)
	if err != nil {
		return fmt.Errorf("mpi: recv from %d: %w", from, err)
	}

	return codec.Unmarshal(data, v)
}
