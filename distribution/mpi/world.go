//go:build mpi

// SPDX-License-Identifier: MIT

package mpi

import (
	gompi "github.com/sbromberger/gompi"
)

// World is the MPI_COMM_WORLD transport.
type World struct {
	comm *gompi.Communicator
}

var _ Transport = (*World)(nil)

// Start initialises MPI and returns the world communicator. Call Stop once
// the program is done with it.
func Start() *World {
	gompi.Start(false)

	return &World{comm: gompi.NewCommunicator(nil)}
}

// Stop finalises MPI.
func (w *World) Stop() { gompi.Stop() }

// Rank implements Transport.
func (w *World) Rank() int { return w.comm.Rank() }

// Size implements Transport.
func (w *World) Size() int { return w.comm.Size() }

// Send implements Transport.
func (w *World) Send(data []byte, to, tag int) error {
	w.comm.SendBytes(data, to, tag)

	return nil
}

// Recv implements Transport.
func (w *World) Recv(from, tag int) ([]byte, error) {
	data, _ := w.comm.RecvBytes(from, tag)

	return data, nil
}
