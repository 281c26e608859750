// SPDX-License-Identifier: MIT

package mpi

import (
	"context"
	"fmt"

	"github.com/katalvlaran/smartop/distribution"
	"github.com/katalvlaran/smartop/internal/logging"
	"github.com/katalvlaran/smartop/matrix"
)

// WorkerConfig configures Serve.
type WorkerConfig struct {
	ThreadMultiplier int
	Options          []matrix.Option
	Logger           logging.Logger
}

// Serve answers driver frames on a worker rank until a stop frame arrives.
// ctx is checked between frames; a blocked receive is not interrupted.
func Serve(ctx context.Context, t Transport, cfg WorkerConfig) error {
	if t.Rank() == Root {
		return fmt.Errorf("%w: rank 0 cannot serve", ErrProtocol)
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}
	log = log.With(logging.Int("rank", t.Rank()))

	var (
		codec distribution.Codec
		jobs  = make(map[string]*distribution.SharedData)
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var fr frame
		if err := recv(t, codec, &fr, Root, tagControl); err != nil {
			return err
		}

		switch fr.Op {
		case opStop:
			log.Info("stopping", logging.Int("jobs", len(jobs)))
			return nil
		case opDrop:
			delete(jobs, fr.JobID)
		case opShared:
			if fr.Shared == nil {
				return fmt.Errorf("%w: shared frame without data", ErrProtocol)
			}
			shared, err := distribution.DecodeShared(*fr.Shared, cfg.ThreadMultiplier, cfg.Options...)
			if err != nil {
				// Keep serving: every task of this job is then answered with an error.
				log.Error("invalid shared data", err, logging.String("job", fr.JobID))
				shared = nil
			}
			jobs[fr.JobID] = shared
		case opTask:
			if fr.Task == nil {
				return fmt.Errorf("%w: task frame without task", ErrProtocol)
			}
			res := runTask(ctx, jobs[fr.JobID], fr.JobID, *fr.Task)
			if res.Error != "" {
				log.Error("task failed", fmt.Errorf("%s", res.Error), logging.String("job", fr.JobID), logging.Int("task", res.Index))
			}
			if err := send(t, codec, res, Root, tagResult); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unknown op %q", ErrProtocol, fr.Op)
		}
	}
}

func runTask(ctx context.Context, shared *distribution.SharedData, jobID string, env distribution.TaskEnvelope) distribution.ResultEnvelope {
	res := distribution.ResultEnvelope{JobID: jobID, Index: env.Index}
	if shared == nil {
		res.Error = fmt.Sprintf("%v: job %s", distribution.ErrMissingShared, jobID)
		return res
	}
	f, err := shared.Factory()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	task, err := distribution.DecodeTask(f, env)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	frag, err := task.Run(ctx, shared)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	me := distribution.EncodeMatrix(frag)
	res.Fragment = &me

	return res
}
