// SPDX-License-Identifier: MIT

package policy

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/smartop/matrix"
)

// Policy names accepted by ByName.
const (
	NameStatic        = "static"
	NameRowSparseness = "rowsparseness"
	NameVariance      = "variance"
)

// Policy returns the parallel factor (≥ 1) for each partitioned operation.
type Policy interface {
	ForAddSub(a, b matrix.Matrix) int
	ForMultiply(a, b matrix.Matrix) int
	ForLaplacian(a matrix.Matrix) int
	Name() string
}

// Static always returns Cores × Granularity.
type Static struct {
	Cores       int
	Granularity int
}

func (p Static) factor() int { return max(1, p.Cores*p.Granularity) }

// ForAddSub implements Policy.
func (p Static) ForAddSub(_, _ matrix.Matrix) int { return p.factor() }

// ForMultiply implements Policy.
func (p Static) ForMultiply(_, _ matrix.Matrix) int { return p.factor() }

// ForLaplacian implements Policy.
func (p Static) ForLaplacian(_ matrix.Matrix) int { return p.factor() }

// Name implements Policy.
func (Static) Name() string { return NameStatic }

// RowSparseness scales Cores by the fill of the left operand and its shape.
type RowSparseness struct {
	Cores int
}

// ForAddSub returns max(1, round(Cores·(1+α+β))) with α = 1 − mean sparseness.
func (p RowSparseness) ForAddSub(a, _ matrix.Matrix) int {
	st := matrix.Stats(a)
	return adaptive(p.Cores, 1-st.Mean, a)
}

// ForMultiply uses the add/subtract factor.
func (p RowSparseness) ForMultiply(a, b matrix.Matrix) int { return p.ForAddSub(a, b) }

// ForLaplacian returns the raw core count.
func (p RowSparseness) ForLaplacian(_ matrix.Matrix) int { return max(1, p.Cores) }

// Name implements Policy.
func (RowSparseness) Name() string { return NameRowSparseness }

// Variance is RowSparseness with α = 1 − (mean − stdDev).
type Variance struct {
	Cores int
}

// ForAddSub implements Policy.
func (p Variance) ForAddSub(a, _ matrix.Matrix) int {
	st := matrix.Stats(a)
	return adaptive(p.Cores, 1-(st.Mean-st.StdDev), a)
}

// ForMultiply uses the add/subtract factor.
func (p Variance) ForMultiply(a, b matrix.Matrix) int { return p.ForAddSub(a, b) }

// ForLaplacian returns the raw core count.
func (p Variance) ForLaplacian(_ matrix.Matrix) int { return max(1, p.Cores) }

// Name implements Policy.
func (Variance) Name() string { return NameVariance }

// Beta is the shape correction of the adaptive policies:
// 1 for square, 1 − ln(r/c) when r < c, 1 + ln(c/r) when r > c.
func Beta(rows, cols int) float64 {
	r, c := float64(rows), float64(cols)
	switch {
	case rows < cols:
		return 1 - math.Log(r/c)
	case rows > cols:
		return 1 + math.Log(c/r)
	}

	return 1
}

func adaptive(cores int, alpha float64, a matrix.Matrix) int {
	f := int(math.Round(float64(cores) * (1 + alpha + Beta(a.Rows(), a.Cols()))))

	return max(1, f)
}

// ByName resolves a policy from its configuration name (case-insensitive).
func ByName(name string, cores, granularity int) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameStatic:
		return Static{Cores: cores, Granularity: granularity}, nil
	case NameRowSparseness, "":
		return RowSparseness{Cores: cores}, nil
	case NameVariance, "st":
		return Variance{Cores: cores}, nil
	}

	return nil, fmt.Errorf("ByName(%q): %w", name, ErrUnknownPolicy)
}

// Names lists the accepted policy names.
func Names() []string { return []string{NameStatic, NameRowSparseness, NameVariance} }
