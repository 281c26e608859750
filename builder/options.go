// SPDX-License-Identifier: MIT
// Package: builder
//
// options.go - functional options and edge-weight distributions.
//
// Contract (strict):
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves MUST NOT panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.
//   • Weights are strictly positive: a zero weight would be indistinguishable
//     from a missing edge in the adjacency matrix.

package builder

import (
	"fmt"
	"math/rand"
)

// DefaultEdgeWeight is the weight of every edge unless a WeightFn is set.
const DefaultEdgeWeight float64 = 1

// WeightFn draws one edge weight. rng may be nil for deterministic builders.
type WeightFn func(rng *rand.Rand) float64

// builderConfig carries the resolved options into every Constructor.
type builderConfig struct {
	rng      *rand.Rand
	weightFn WeightFn
	directed bool
}

// BuilderOption customizes a build by mutating a builderConfig.
type BuilderOption func(*builderConfig)

func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{weightFn: DefaultWeightFn}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithRand provides an explicit RNG for stochastic builders and weights.
// Panics on nil; prefer WithSeed for reproducible runs.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}

	return func(c *builderConfig) { c.rng = r }
}

// WithSeed creates a new *rand.Rand with the given seed.
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithDirected stores each edge once, as u→v.
func WithDirected() BuilderOption {
	return func(c *builderConfig) { c.directed = true }
}

// WithWeightFn overrides the per-edge weight generator. Panics on nil.
func WithWeightFn(fn WeightFn) BuilderOption {
	if fn == nil {
		panic("builder: WithWeightFn(nil)")
	}

	return func(c *builderConfig) { c.weightFn = fn }
}

// WithConstantWeight is shorthand for WithWeightFn(ConstantWeightFn(w)).
func WithConstantWeight(w float64) BuilderOption {
	return WithWeightFn(ConstantWeightFn(w))
}

// WithUniformWeight is shorthand for WithWeightFn(UniformWeightFn(min, max)).
func WithUniformWeight(min, max float64) BuilderOption {
	return WithWeightFn(UniformWeightFn(min, max))
}

// DefaultWeightFn returns DefaultEdgeWeight.
func DefaultWeightFn(_ *rand.Rand) float64 { return DefaultEdgeWeight }

// ConstantWeightFn returns a WeightFn that always yields value.
// Panics unless value > 0.
func ConstantWeightFn(value float64) WeightFn {
	if !(value > 0) {
		panic(fmt.Sprintf("ConstantWeightFn: value must be > 0, got %g", value))
	}

	return func(_ *rand.Rand) float64 { return value }
}

// UniformWeightFn returns a WeightFn drawing from U[min, max).
// Without an RNG it yields min. Panics unless 0 < min ≤ max.
func UniformWeightFn(min, max float64) WeightFn {
	if !(min > 0) || max < min {
		panic(fmt.Sprintf("UniformWeightFn: require 0 < min ≤ max, got min=%g, max=%g", min, max))
	}

	return func(rng *rand.Rand) float64 {
		if rng == nil || max == min {
			return min
		}

		return min + rng.Float64()*(max-min)
	}
}
