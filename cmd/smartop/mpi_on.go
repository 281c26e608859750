//go:build mpi

package main

import (
	"context"
	"os"

	"github.com/katalvlaran/smartop/distribution"
	"github.com/katalvlaran/smartop/distribution/mpi"
	"github.com/katalvlaran/smartop/internal/logging"
)

// newMPIAdapter starts MPI. Worker ranks serve until rank 0 closes its
// adapter and then exit; only rank 0 returns.
func (a *app) newMPIAdapter() (distribution.Adapter, func() error, error) {
	world := mpi.Start()
	if rank := world.Rank(); rank != mpi.Root {
		err := mpi.Serve(context.Background(), world, mpi.WorkerConfig{
			ThreadMultiplier: a.cfg.ThreadMultiplier,
			Options:          a.cfg.MatrixOptions(),
			Logger:           a.log,
		})
		world.Stop()
		if err != nil {
			a.log.Error("mpi worker failed", err, logging.Int("rank", rank))
			os.Exit(1)
		}
		os.Exit(0)
	}
	ad, err := mpi.NewAdapter(world, a.log)
	if err != nil {
		world.Stop()
		return nil, nil, err
	}

	return ad, func() error { world.Stop(); return nil }, nil
}
