// SPDX-License-Identifier: MIT
// Package: builder
//
// impl_random_sparse.go - implementation of RandomSparse(n, p) constructor.
//
// Canonical model:
//   - Erdős–Rényi-like generator: include each admissible edge independently with prob p.
//   - Undirected: iterate unordered pairs {i,j} with i<j.
//   - Directed: iterate ordered pairs (i,j), i≠j.
//
// Contract:
//   - n ≥ 1 (else ErrTooFewVertices).
//   - 0 ≤ p ≤ 1 (else ErrInvalidProbability).
//   - cfg.rng must be non-nil when 0 < p < 1 (else ErrNeedRandSource).
//
// Determinism:
//   - Stable edge-trial order: for each i asc, j asc (undirected uses j>i).
//   - Weights are drawn right after the trial that admits the edge, so the
//     RNG stream is fixed for a given seed, n, p and weight distribution.

package builder

import (
	"fmt"
	"math"
)

const (
	methodRandomSparse      = "RandomSparse"
	minRandomSparseVertices = 1
	probMin                 = 0.0
	probMax                 = 1.0
)

// RandomSparse samples a graph over n vertices with independent edge probability p.
func RandomSparse(n int, p float64) Constructor {
	return func(s *sink, cfg builderConfig) error {
		if n < minRandomSparseVertices {
			return tooFew(methodRandomSparse, n, minRandomSparseVertices)
		}
		if p < probMin || p > probMax || math.IsNaN(p) {
			return fmt.Errorf("%s: p=%.6f not in [%.1f,%.1f]: %w",
				methodRandomSparse, p, probMin, probMax, ErrInvalidProbability)
		}
		if cfg.rng == nil && p > probMin && p < probMax {
			return fmt.Errorf("%s: %w", methodRandomSparse, ErrNeedRandSource)
		}

		base := s.addVertices(n)
		if p == probMin {
			return nil
		}
		keep := func() bool { return p == probMax || cfg.rng.Float64() < p }
		for i := 0; i < n; i++ {
			start := i + 1
			if cfg.directed {
				start = 0
			}
			for j := start; j < n; j++ {
				if i == j {
					continue
				}
				if keep() {
					s.addEdge(cfg, base+i, base+j)
				}
			}
		}
		return nil
	}
}
