// Package builder generates adjacency matrices of canonical graph topologies
// in any matrix representation. The matrices feed the Laplacian and spectrum
// workloads (connected components, algebraic connectivity) and the fixtures
// of the engine tests.
//
// The package offers the following key components:
//
//   - Constructors (Constructor values, composable as a disjoint union):
//     – Isolated(n), Path(n), Cycle(n), Star(n), Wheel(n), Complete(n)
//     – CompleteBipartite(m, n), Grid(rows, cols)
//     – RandomSparse(n, p): Erdős–Rényi-like sampling, seeded.
//   - Configuration primitives:
//     – BuilderOption: a function that mutates builderConfig before use.
//     – WithSeed / WithRand, WithDirected, WithWeightFn and its shorthands.
//   - Edge-weight distributions (WeightFn implementations):
//     – DefaultWeightFn:   constant weight DefaultEdgeWeight.
//     – ConstantWeightFn:  fixed user-provided value.
//     – UniformWeightFn:   uniform ∼U[min,max].
//   - Registry: ByName / TopologyNames for the command line.
//
// Guarantees:
//
//   - Vertices are numbered 0..n-1 in constructor order; each constructor
//     owns the next contiguous block, so BuildAdjacency(f, nil, Path(3),
//     Isolated(1)) has two connected components.
//   - Undirected graphs produce symmetric matrices; directed graphs store
//     only u→v. Self-loops are never emitted.
//   - Fast-fail on invalid option parameters via panics in option constructors;
//     constructors themselves return sentinel errors.
//   - Deterministic output for a fixed seed (stable trial order i asc, j asc).
package builder
