// Package smartop is a pluggable sparse linear-algebra engine: pick a matrix
// representation, pick where the work runs, and the same operations come out.
//
// 🚀 What is smartop?
//
//	A matrix library and command-line tool that brings together:
//		• Representations: Dense, Coordinate, RowMap, Compact, Threshold, Parallel
//		• Kernels: add, subtract, multiply, transpose, scale, M·Mᵗ, Laplacian
//		• Decompositions: LU, QR, Cholesky, inverse, pseudo-inverse, Jacobi eigen
//		• Engines: serial, local (worker pool), distributed (jobs over adapters)
//		• Adapters: in-process, HTTP workers, MPI ranks
//		• Split policies: static, row sparseness, sparseness variance
//
// ✨ Why choose smartop?
//
//   - Representation-agnostic – every kernel talks to the Matrix interface
//   - Sparse-aware – cost follows stored entries, not rows×cols
//   - Same results everywhere – engines only change where rows are computed
//
// Under the hood, everything is organized under these packages:
//
//	matrix/        — Matrix contract, representations, serial kernels, CSV I/O
//	matrix/ops/    — LU, QR, Cholesky, solvers, inversion, eigen decomposition
//	policy/        — task-splitting policies and row-range splitting
//	parallel/      — bounded worker pool
//	compute/       — Computation engines: serial, local, distributed
//	distribution/  — jobs, tasks, reconstruction, wire codec, local adapter
//	distribution/remote/ — HTTP worker server and client adapter
//	distribution/mpi/    — MPI transport, driver adapter and worker loop
//	builder/       — adjacency matrices of canonical graph topologies
//	cmd/smartop/   — the command-line tool
//
// Quick example:
//
//	f := matrix.CompactFactory{}
//	a, _ := matrix.FromRows(f, [][]float64{{1, 2}, {4, 5}})
//	b, _ := matrix.FromRows(f, [][]float64{{11, 12}, {14, 15}})
//	c := compute.NewLocal(f, parallel.NewPool(4), policy.Static{Cores: 2, Granularity: 2}, logger)
//	p, _ := c.Multiply(ctx, a, b) // [[39 42] [114 123]]
//
//	go install github.com/katalvlaran/smartop/cmd/smartop@latest
package smartop
