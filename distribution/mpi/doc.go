// Package mpi runs distribution jobs across the ranks of an MPI world.
//
// Rank 0 drives: it holds the job, broadcasts the shared data and hands out
// tasks. Every other rank runs Serve until the driver sends a stop frame.
// Frames are distribution.Codec payloads carried as MPI byte messages.
//
// The protocol is written against the Transport interface; the gompi-backed
// World transport is only compiled with the "mpi" build tag, since it needs
// cgo and an MPI installation:
//
//	go build -tags mpi ./cmd/smartop
//	mpirun -n 4 smartop multiply --engine mpi a.csv b.csv
package mpi
