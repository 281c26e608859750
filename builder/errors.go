// SPDX-License-Identifier: MIT
// Package: builder
//
// errors.go - sentinel errors of the builder package.
//
// Callers branch with errors.Is; every returned error wraps exactly one of
// these with a method tag and the offending parameters.

package builder

import "errors"

// ErrTooFewVertices indicates a size parameter below the topology minimum.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrInvalidProbability indicates an edge probability outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates a stochastic constructor without an RNG.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates a nil constructor or an empty composition.
var ErrConstructFailed = errors.New("builder: construction failed")

// ErrUnknownTopology indicates a registry name ByName does not know.
var ErrUnknownTopology = errors.New("builder: unknown topology")
