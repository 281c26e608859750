// Package distribution runs partitioned matrix operations as jobs of
// row-range tasks on a pluggable execution backend (an Adapter).
//
// Lifecycle of a Job:
//
//	Created ──AddTasks──▶ Populated ──Submit──▶ Submitted ──all delivered──▶ Complete
//	                                              │
//	                                              └──first task failure──▶ Failed
//
// A task reads the job's SharedData (factory, right operand, Laplacian
// source), computes one fragment and hands it back through Job.Deliver.
// Deliver merges each task index exactly once, so backends may deliver a
// result more than once. Completion is signalled by closing a channel;
// Job.Wait blocks on it or on the caller's context.
//
// Reconstruction strategies:
//
//   - RowMerge:      fragment row i replaces accumulator row Start+i.
//   - DiagonalMerge: fragment entry (0, j) becomes accumulator (j, j).
//
// Tasks own disjoint row ranges, so merge order does not change the result.
// After the last merge the job refreshes the accumulator's non-zero counter.
//
// Adapters provided here: LocalAdapter (in-process pool). The remote and mpi
// subpackages ship tasks as Codec envelopes.
package distribution
