// SPDX-License-Identifier: MIT
// Package: matrix
//
// impl_random.go - seeded random sparse matrices for fixtures, benchmarks and
// the CLI "generate" command.
//
// Canonical model:
//   - Each cell is included independently with probability density.
//   - Included cells get a value uniform in [-1, 1) \ {0} scaled by Scale.
//
// Contract:
//   - rows, cols ≥ 1 (else ErrBadShape).
//   - 0 ≤ density ≤ 1 (else ErrInvalidDensity).
//   - rng must be non-nil when 0 < density < 1 (else ErrNeedRandSource).
//
// Determinism:
//   - Stable trial order: i asc, then j asc. Same seed ⇒ same matrix.
//
// Complexity:
//   - Time O(rows·cols) Bernoulli trials; Space O(nnz).

package matrix

import (
	"fmt"
	"math/rand"
)

const (
	methodRandomSparse = "RandomSparse"
	methodRandomSPD    = "RandomSPD"
	densityMin         = 0.0
	densityMax         = 1.0
)

// RandomSparse samples a rows×cols matrix in f's representation.
func RandomSparse(f Factory, rows, cols int, density float64, rng *rand.Rand) (Matrix, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%s: %dx%d: %w", methodRandomSparse, rows, cols, ErrBadShape)
	}
	if density < densityMin || density > densityMax || isNonFinite(density) {
		return nil, fmt.Errorf("%s: density=%.6f: %w", methodRandomSparse, density, ErrInvalidDensity)
	}
	if rng == nil && density > densityMin && density < densityMax {
		return nil, fmt.Errorf("%s: %w", methodRandomSparse, ErrNeedRandSource)
	}
	m, err := f.New(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodRandomSparse, err)
	}
	if density == densityMin {
		return m, nil
	}

	var v float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if density < densityMax && rng.Float64() >= density {
				continue
			}
			v = sampleNonZero(rng)
			if err = m.Set(i, j, v); err != nil {
				return nil, fmt.Errorf("%s: Set(%d,%d): %w", methodRandomSparse, i, j, err)
			}
		}
	}

	return m, nil
}

// sampleNonZero draws from [-1,1) \ {0}; without rng it returns 1.
func sampleNonZero(rng *rand.Rand) float64 {
	if rng == nil {
		return 1
	}
	for {
		if v := 2*rng.Float64() - 1; v != 0 {
			return v
		}
	}
}

// RandomSPD returns a symmetric positive definite n×n matrix
// M·Mᵗ + n·I with M = RandomSparse(n, n, density).
func RandomSPD(f Factory, n int, density float64, rng *rand.Rand) (Matrix, error) {
	m, err := RandomSparse(f, n, n, density, rng)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodRandomSPD, err)
	}
	g, err := MulByTranspose(f, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", methodRandomSPD, err)
	}
	var v float64
	for i := 0; i < n; i++ {
		v, _ = g.At(i, i)
		if err = g.Set(i, i, v+float64(n)); err != nil {
			return nil, fmt.Errorf("%s: %w", methodRandomSPD, err)
		}
	}

	return g, nil
}
