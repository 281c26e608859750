// Package compute exposes the matrix operations behind one Computation
// contract with three engines:
//
//   - Serial runs the matrix and matrix/ops kernels directly.
//   - Local splits add, subtract, multiply and Laplacian into row ranges
//     chosen by a policy.Policy and runs them on a parallel.Pool.
//   - Distributed builds the same four operations as distribution.Jobs and
//     hands them to a distribution.Adapter (in-process, HTTP or MPI).
//
// Every other operation (transpose, scale, inverses) runs serially in all
// engines. Each call logs a start and an end line and records the
// smartop_operation* metrics.
package compute
