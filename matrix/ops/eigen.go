// SPDX-License-Identifier: MIT

package ops

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/smartop/matrix"
)

// ErrNotSymmetric is returned when Eigen receives an asymmetric matrix.
var ErrNotSymmetric = errors.New("ops: matrix is not symmetric")

// ErrEigenFailed is returned if the rotations do not converge within maxIter.
var ErrEigenFailed = errors.New("ops: eigen decomposition did not converge")

// Eigen computes all eigenvalues (ascending) and the matching eigenvectors
// (columns of the returned matrix, built by f) of a real symmetric m using
// Jacobi rotations on the largest off-diagonal entry.
//
// The typical input is a graph Laplacian: the number of (near) zero
// eigenvalues is the number of connected components and the second-smallest
// one is the algebraic connectivity.
//
// tol bounds both the symmetry check and the off-diagonal convergence test.
// Complexity: O(n²) per rotation, dense O(n²) scratch.
func Eigen(f matrix.Factory, m matrix.Matrix, tol float64, maxIter int) ([]float64, matrix.Matrix, error) {
	// Stage 1: validate.
	if err := matrix.ValidateSquareNonNil(m); err != nil {
		return nil, nil, fmt.Errorf("Eigen: %w", err)
	}
	sym, err := matrix.ValidateSymmetric(m, tol)
	if err != nil {
		return nil, nil, fmt.Errorf("Eigen: %w", err)
	}
	if !sym {
		return nil, nil, fmt.Errorf("Eigen: %w", ErrNotSymmetric)
	}

	// Stage 2: dense scratch copies of A and V = I.
	n := m.Rows()
	a := make([][]float64, n)
	v := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
		v[i] = make([]float64, n)
		v[i][i] = 1
	}
	for _, e := range matrix.Entries(m) {
		a[e.Row][e.Col] = e.Val
	}

	// Stage 3: rotate until every off-diagonal entry is below tol.
	var (
		p, q             int
		maxOff           float64
		theta, t, c, s   float64
		app, aqq, apq    float64
		akp, akq, vp, vq float64
		converged        bool
	)
	for iter := 0; iter < maxIter; iter++ {
		maxOff = 0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if math.Abs(a[i][j]) > maxOff {
					maxOff, p, q = math.Abs(a[i][j]), i, j
				}
			}
		}
		if maxOff < tol {
			converged = true
			break
		}
		app, aqq, apq = a[p][p], a[q][q], a[p][q]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1/(math.Abs(theta)+math.Sqrt(theta*theta+1)), theta)
		c = 1 / math.Sqrt(t*t+1)
		s = t * c
		for k := 0; k < n; k++ {
			if k != p && k != q {
				akp, akq = a[k][p], a[k][q]
				a[k][p] = c*akp - s*akq
				a[p][k] = a[k][p]
				a[k][q] = s*akp + c*akq
				a[q][k] = a[k][q]
			}
			vp, vq = v[k][p], v[k][q]
			v[k][p] = c*vp - s*vq
			v[k][q] = s*vp + c*vq
		}
		a[p][p] = app - t*apq
		a[q][q] = aqq + t*apq
		a[p][q], a[q][p] = 0, 0
	}
	if !converged {
		return nil, nil, fmt.Errorf("Eigen: %d iterations: %w", maxIter, ErrEigenFailed)
	}

	// Stage 4: sort eigenpairs ascending and materialize V.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool { return a[order[x]][order[x]] < a[order[y]][order[y]] })

	values := make([]float64, n)
	vectors, err := f.New(n, n)
	if err != nil {
		return nil, nil, fmt.Errorf("Eigen: %w", err)
	}
	for col, k := range order {
		values[col] = a[k][k]
		for i := 0; i < n; i++ {
			if v[i][k] == 0 {
				continue
			}
			if err = vectors.Set(i, col, v[i][k]); err != nil {
				return nil, nil, fmt.Errorf("Eigen: %w", err)
			}
		}
	}

	return values, vectors, nil
}

// Components counts the eigenvalues of a Laplacian spectrum whose magnitude
// is below tol, i.e. the number of connected components of the graph.
func Components(values []float64, tol float64) int {
	n := 0
	for _, x := range values {
		if math.Abs(x) < tol {
			n++
		}
	}

	return n
}
