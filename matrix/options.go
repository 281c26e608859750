// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the numeric policy shared by
// representations, kernels and the ops subpackage. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - NewOptions, the resolver used by other packages.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the absolute tolerance used by symmetry checks
	// (Cholesky) and by Equal. It is a fixed configured value, not scaled by
	// the magnitude of the matrix.
	DefaultEpsilon = 1e-4

	// DefaultValidateNaNInf toggles strict finite-value validation on Set.
	DefaultValidateNaNInf = true

	// DefaultSwitchThreshold is the sparsity at which Threshold matrices move
	// between sparse and dense backing stores.
	DefaultSwitchThreshold = 0.25
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid   = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicThresholdInvalid = "matrix: WithSwitchThreshold: threshold must be in [0,1]"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; read them through the accessor methods.
type Options struct {
	eps             float64 // >= 0; DefaultEpsilon
	validateNaNInf  bool    // DefaultValidateNaNInf
	switchThreshold float64 // [0,1]; DefaultSwitchThreshold
}

// WithEpsilon sets the numeric tolerance eps used by structural checks.
// Implementation:
//   - Stage 1: validate eps is finite and ≥ 0.
//   - Stage 2: return a setter that writes eps into Options.
//
// Errors:
//   - Panics with a stable message when eps is invalid (programmer error).
//
// Complexity:
//   - Time O(1), Space O(1).
func WithEpsilon(eps float64) Option {
	if isNonFinite(eps) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithValidateNaNInf enables strict finite-value validation (default).
func WithValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = true }
}

// WithNoValidateNaNInf disables NaN/Inf validation on newly created matrices.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// WithSwitchThreshold sets the sparsity switch point of Threshold matrices.
// A value of 0 keeps the matrix sparse forever; 1 makes every non-empty
// matrix dense after its first write.
func WithSwitchThreshold(t float64) Option {
	if isNonFinite(t) || t < 0 || t > 1 {
		panic(panicThresholdInvalid)
	}

	return func(o *Options) { o.switchThreshold = t }
}

// NewOptions resolves option setters against documented defaults.
// Last writer wins. Pure function.
func NewOptions(opts ...Option) Options {
	o := Options{
		eps:             DefaultEpsilon,
		validateNaNInf:  DefaultValidateNaNInf,
		switchThreshold: DefaultSwitchThreshold,
	}
	for _, set := range opts {
		set(&o)
	}

	return o
}

// Epsilon returns the resolved tolerance.
func (o Options) Epsilon() float64 { return o.eps }

// ValidateNaNInf reports whether Set rejects NaN/Inf.
func (o Options) ValidateNaNInf() bool { return o.validateNaNInf }

// SwitchThreshold returns the resolved sparsity switch point.
func (o Options) SwitchThreshold() float64 { return o.switchThreshold }

// isNonFinite reports NaN or ±Inf.
func isNonFinite(x float64) bool { return math.IsNaN(x) || math.IsInf(x, 0) }
