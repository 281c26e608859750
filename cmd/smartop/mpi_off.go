//go:build !mpi

package main

import (
	"errors"

	"github.com/katalvlaran/smartop/distribution"
)

func (a *app) newMPIAdapter() (distribution.Adapter, func() error, error) {
	return nil, nil, errors.New("adapter mpi: rebuild with -tags mpi")
}
