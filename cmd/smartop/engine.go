package main

import (
	"github.com/katalvlaran/smartop/compute"
	"github.com/katalvlaran/smartop/distribution"
	"github.com/katalvlaran/smartop/distribution/remote"
	"github.com/katalvlaran/smartop/internal/config"
	"github.com/katalvlaran/smartop/parallel"
	"github.com/katalvlaran/smartop/policy"
)

// newEngine builds the configured engine. The returned closer releases the
// adapter (and MPI) and must be called once the command is done.
func (a *app) newEngine() (compute.Computation, func() error, error) {
	f, err := a.factoryFor()
	if err != nil {
		return nil, nil, err
	}
	opts := a.cfg.MatrixOptions()
	noop := func() error { return nil }

	if a.cfg.Engine == config.EngineSerial {
		return compute.NewSerial(f, a.log, opts...), noop, nil
	}
	p, err := policy.ByName(a.cfg.Policy, a.cfg.Cores, a.cfg.Granularity)
	if err != nil {
		return nil, nil, err
	}
	pool := parallel.NewPool(parallel.SizeFor(a.cfg.ThreadMultiplier))
	if a.cfg.Engine == config.EngineLocal {
		return compute.NewLocal(f, pool, p, a.log, opts...), noop, nil
	}

	var (
		ad    distribution.Adapter
		release = noop
	)
	switch a.cfg.Adapter {
	case config.AdapterHTTP:
		ad, err = remote.NewAdapter(remote.AdapterConfig{
			Workers:  a.cfg.Workers,
			MaxNodes: a.cfg.MaxNodes,
			Timeout:  a.cfg.RequestTimeout,
			Logger:   a.log,
		})
	case config.AdapterMPI:
		ad, release, err = a.newMPIAdapter()
	default:
		ad = distribution.NewLocalAdapter(pool)
	}
	if err != nil {
		return nil, nil, err
	}
	d := compute.NewDistributed(f, ad, p, a.log, opts...)
	d.Dynamic = a.cfg.DynamicSplit

	return d, func() error {
		err := ad.Close()
		if rerr := release(); err == nil {
			err = rerr
		}
		return err
	}, nil
}
