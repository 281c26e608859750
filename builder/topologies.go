// SPDX-License-Identifier: MIT
// Package: builder
//
// topologies.go - deterministic constructors.
//
// Contract (every constructor):
//   • Validates its size parameters first; no vertices are claimed on error.
//   • Claims one contiguous block of vertices and numbers them locally 0..k-1.
//   • Emits edges in a stable order; weights come from cfg.weightFn.
//
// Complexity: O(V + E) per constructor, Complete is O(n²).

package builder

import "fmt"

const (
	methodIsolated          = "Isolated"
	methodPath              = "Path"
	methodCycle             = "Cycle"
	methodStar              = "Star"
	methodWheel             = "Wheel"
	methodComplete          = "Complete"
	methodCompleteBipartite = "CompleteBipartite"
	methodGrid              = "Grid"

	minIsolatedNodes = 1
	minPathNodes     = 2
	minCycleNodes    = 3
	minStarNodes     = 2
	minWheelNodes    = 4
	minCompleteNodes = 1
	minPartition     = 1
	minGridDim       = 1
)

func tooFew(method string, n, min int) error {
	return fmt.Errorf("%s: n=%d < min=%d: %w", method, n, min, ErrTooFewVertices)
}

// Isolated adds n vertices without edges.
func Isolated(n int) Constructor {
	return func(s *sink, _ builderConfig) error {
		if n < minIsolatedNodes {
			return tooFew(methodIsolated, n, minIsolatedNodes)
		}
		s.addVertices(n)
		return nil
	}
}

// Path builds P_n: edges (i-1)→i for i=1..n-1.
func Path(n int) Constructor {
	return func(s *sink, cfg builderConfig) error {
		if n < minPathNodes {
			return tooFew(methodPath, n, minPathNodes)
		}
		base := s.addVertices(n)
		for i := 1; i < n; i++ {
			s.addEdge(cfg, base+i-1, base+i)
		}
		return nil
	}
}

// Cycle builds C_n: edges i→(i+1)%n.
func Cycle(n int) Constructor {
	return func(s *sink, cfg builderConfig) error {
		if n < minCycleNodes {
			return tooFew(methodCycle, n, minCycleNodes)
		}
		base := s.addVertices(n)
		for i := 0; i < n; i++ {
			s.addEdge(cfg, base+i, base+(i+1)%n)
		}
		return nil
	}
}

// Star builds S_n: hub 0 joined to every leaf 1..n-1.
func Star(n int) Constructor {
	return func(s *sink, cfg builderConfig) error {
		if n < minStarNodes {
			return tooFew(methodStar, n, minStarNodes)
		}
		base := s.addVertices(n)
		for i := 1; i < n; i++ {
			s.addEdge(cfg, base, base+i)
		}
		return nil
	}
}

// Wheel builds W_n: hub 0 joined to a rim cycle over 1..n-1.
// Spokes are emitted first, then the rim.
func Wheel(n int) Constructor {
	return func(s *sink, cfg builderConfig) error {
		if n < minWheelNodes {
			return tooFew(methodWheel, n, minWheelNodes)
		}
		base := s.addVertices(n)
		rim := n - 1
		for i := 1; i < n; i++ {
			s.addEdge(cfg, base, base+i)
		}
		for i := 0; i < rim; i++ {
			s.addEdge(cfg, base+1+i, base+1+(i+1)%rim)
		}
		return nil
	}
}

// Complete builds K_n: one edge per unordered pair i<j (both directions when directed).
func Complete(n int) Constructor {
	return func(s *sink, cfg builderConfig) error {
		if n < minCompleteNodes {
			return tooFew(methodComplete, n, minCompleteNodes)
		}
		base := s.addVertices(n)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				s.addEdge(cfg, base+i, base+j)
				if cfg.directed {
					s.addEdge(cfg, base+j, base+i)
				}
			}
		}
		return nil
	}
}

// CompleteBipartite builds K_{m,n}: left vertices 0..m-1, right m..m+n-1,
// edges left→right only.
func CompleteBipartite(m, n int) Constructor {
	return func(s *sink, cfg builderConfig) error {
		if m < minPartition || n < minPartition {
			return fmt.Errorf("%s: m=%d, n=%d (each must be ≥ %d): %w",
				methodCompleteBipartite, m, n, minPartition, ErrTooFewVertices)
		}
		base := s.addVertices(m + n)
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				s.addEdge(cfg, base+i, base+m+j)
			}
		}
		return nil
	}
}

// Grid builds a rows×cols orthogonal grid; vertex (r,c) is r*cols+c.
// Each vertex emits its right neighbour, then its lower neighbour.
func Grid(rows, cols int) Constructor {
	return func(s *sink, cfg builderConfig) error {
		if rows < minGridDim || cols < minGridDim {
			return fmt.Errorf("%s: rows=%d, cols=%d (each must be ≥ %d): %w",
				methodGrid, rows, cols, minGridDim, ErrTooFewVertices)
		}
		base := s.addVertices(rows * cols)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				id := base + r*cols + c
				if c+1 < cols {
					s.addEdge(cfg, id, id+1)
				}
				if r+1 < rows {
					s.addEdge(cfg, id, id+cols)
				}
			}
		}
		return nil
	}
}
