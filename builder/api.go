// SPDX-License-Identifier: MIT
// Package: builder
//
// api.go - composition of constructors into one adjacency matrix.
//
// Contract:
//   • BuildAdjacency runs the constructors in order on a shared edge sink;
//     each constructor claims the next block of vertex indices.
//   • The matrix is allocated once, after every constructor succeeded, so a
//     failing build never leaves a partially filled matrix behind.
//   • Errors are sentinel-wrapped with the constructor's method tag.

package builder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/smartop/matrix"
)

// Constructor emits the vertices and edges of one topology into a sink.
type Constructor func(s *sink, cfg builderConfig) error

// edge is one directed adjacency entry; undirected edges are mirrored at build time.
type edge struct {
	u, v int
	w    float64
}

// sink accumulates vertices and edges across constructors.
type sink struct {
	n     int
	edges []edge
}

// addVertices claims k new vertices and returns the index of the first one.
func (s *sink) addVertices(k int) int {
	base := s.n
	s.n += k

	return base
}

// addEdge records u→v with a weight drawn from cfg.
func (s *sink) addEdge(cfg builderConfig, u, v int) {
	s.edges = append(s.edges, edge{u: u, v: v, w: cfg.weightFn(cfg.rng)})
}

// BuildAdjacency builds the adjacency matrix of the disjoint union of cons,
// in f's representation.
// Errors: ErrConstructFailed (nil constructor, no vertices), constructor
// sentinels, matrix errors from f.
func BuildAdjacency(f matrix.Factory, bopts []BuilderOption, cons ...Constructor) (matrix.Matrix, error) {
	cfg := newBuilderConfig(bopts...)
	s := &sink{}
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildAdjacency: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(s, cfg); err != nil {
			return nil, fmt.Errorf("BuildAdjacency: %w", err)
		}
	}
	if s.n == 0 {
		return nil, fmt.Errorf("BuildAdjacency: no vertices: %w", ErrConstructFailed)
	}

	m, err := f.New(s.n, s.n)
	if err != nil {
		return nil, fmt.Errorf("BuildAdjacency: %w", err)
	}
	for _, e := range s.edges {
		if err = m.Set(e.u, e.v, e.w); err != nil {
			return nil, fmt.Errorf("BuildAdjacency: edge %d→%d: %w", e.u, e.v, err)
		}
		if cfg.directed {
			continue
		}
		if err = m.Set(e.v, e.u, e.w); err != nil {
			return nil, fmt.Errorf("BuildAdjacency: edge %d→%d: %w", e.v, e.u, err)
		}
	}

	return m, nil
}

// Topology registry names accepted by ByName.
const (
	TopologyIsolated          = "isolated"
	TopologyPath              = "path"
	TopologyCycle             = "cycle"
	TopologyStar              = "star"
	TopologyWheel             = "wheel"
	TopologyComplete          = "complete"
	TopologyCompleteBipartite = "bipartite"
	TopologyGrid              = "grid"
	TopologyRandom            = "random"
)

// ByName resolves a registry name to a Constructor. n is the vertex count
// (rows for grid, left side for bipartite); m is the second dimension of
// grid and bipartite; p is the edge probability of random.
func ByName(name string, n, m int, p float64) (Constructor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case TopologyIsolated:
		return Isolated(n), nil
	case TopologyPath:
		return Path(n), nil
	case TopologyCycle:
		return Cycle(n), nil
	case TopologyStar:
		return Star(n), nil
	case TopologyWheel:
		return Wheel(n), nil
	case TopologyComplete:
		return Complete(n), nil
	case TopologyCompleteBipartite:
		return CompleteBipartite(n, m), nil
	case TopologyGrid:
		return Grid(n, m), nil
	case TopologyRandom:
		return RandomSparse(n, p), nil
	}

	return nil, fmt.Errorf("ByName(%q): %w", name, ErrUnknownTopology)
}

// TopologyNames lists the registry names in ascending order.
func TopologyNames() []string {
	out := []string{
		TopologyIsolated, TopologyPath, TopologyCycle, TopologyStar, TopologyWheel,
		TopologyComplete, TopologyCompleteBipartite, TopologyGrid, TopologyRandom,
	}
	sort.Strings(out)

	return out
}
