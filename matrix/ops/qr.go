// SPDX-License-Identifier: MIT

package ops

import (
	"fmt"
	"math"

	"github.com/katalvlaran/smartop/matrix"
)

// QRFactors holds a packed Householder QR decomposition: column k below
// (and on) the diagonal stores the k-th Householder vector, the strict upper
// part stores R, and rdiag stores R's diagonal.
type QRFactors struct {
	qr    matrix.Matrix
	rdiag []float64
}

// QRInPlace factors a (m×n, m ≥ n) in place with Householder reflections and
// returns the diagonal of R.
// Implementation:
//   - Stage 1: for each occupied column k, nrm = hypot-accumulated 2-norm of
//     a[k:, k]; nothing to do when it is zero (rdiag[k] stays 0).
//   - Stage 2: flip nrm to the sign of a[k,k], scale the column by 1/nrm and
//     add 1 to the diagonal entry.
//   - Stage 3: reflect every later occupied column j through the vector.
//
// The reflection of an all-zero column is zero, so never-occupied columns
// are skipped. Only rows where the Householder vector is non-zero are touched.
func QRInPlace(a matrix.Matrix) ([]float64, error) {
	if err := matrix.ValidateNotNil(a); err != nil {
		return nil, fmt.Errorf("QR: %w", err)
	}
	m, n := a.Rows(), a.Cols()
	if m < n {
		return nil, fmt.Errorf("QR: %dx%d has fewer rows than columns: %w", m, n, matrix.ErrDimensionMismatch)
	}

	var (
		cols  = matrix.OccupiedColumns(a)
		rdiag = make([]float64, n)
		hv    []int     // rows of the Householder vector, ascending
		w     []float64 // values of the Householder vector
		nrm   float64
		s     float64
		v     float64
	)
	for idx, k := range cols {
		// Stage 1: column norm below the diagonal.
		hv, w, nrm = hv[:0], w[:0], 0
		for _, i := range a.RowIndices() {
			if i < k {
				continue
			}
			if v = at(a, i, k); v != 0 {
				hv = append(hv, i)
				w = append(w, v)
				nrm = math.Hypot(nrm, v)
			}
		}
		if nrm == 0 {
			continue
		}

		// Stage 2: form the Householder vector in place.
		if at(a, k, k) < 0 {
			nrm = -nrm
		}
		for x := range w {
			w[x] /= nrm
		}
		if len(hv) == 0 || hv[0] != k {
			hv = append([]int{k}, hv...)
			w = append([]float64{0}, w...)
		}
		w[0]++
		for x, i := range hv {
			if err := a.Set(i, k, w[x]); err != nil {
				return nil, fmt.Errorf("QR: column %d: %w", k, err)
			}
		}

		// Stage 3: apply the reflection to later columns.
		for _, j := range cols[idx+1:] {
			s = 0
			for x, i := range hv {
				s += w[x] * at(a, i, j)
			}
			s = -s / w[0]
			if s == 0 {
				continue
			}
			for x, i := range hv {
				if err := a.Set(i, j, at(a, i, j)+s*w[x]); err != nil {
					return nil, fmt.Errorf("QR: column %d: %w", j, err)
				}
			}
		}
		rdiag[k] = -nrm
	}
	a.RefreshNonZeros()

	return rdiag, nil
}

// QR factors a copy of m built by f; m is left untouched.
func QR(f matrix.Factory, m matrix.Matrix) (*QRFactors, error) {
	qr, err := matrix.Copy(f, m)
	if err != nil {
		return nil, fmt.Errorf("QR: %w", err)
	}
	rdiag, err := QRInPlace(qr)
	if err != nil {
		return nil, err
	}

	return &QRFactors{qr: qr, rdiag: rdiag}, nil
}

// RDiag returns a copy of R's diagonal.
func (d *QRFactors) RDiag() []float64 {
	out := make([]float64, len(d.rdiag))
	copy(out, d.rdiag)

	return out
}

// IsFullRank reports whether every diagonal entry of R is non-zero.
func (d *QRFactors) IsFullRank() bool {
	for _, r := range d.rdiag {
		if r == 0 {
			return false
		}
	}

	return true
}

// R returns the n×n upper-triangular factor.
func (d *QRFactors) R(f matrix.Factory) (matrix.Matrix, error) {
	n := d.qr.Cols()
	out, err := f.New(n, n)
	if err != nil {
		return nil, fmt.Errorf("QR.R: %w", err)
	}
	for i := 0; i < n; i++ {
		if err = out.Set(i, i, d.rdiag[i]); err != nil {
			return nil, fmt.Errorf("QR.R: %w", err)
		}
		for _, j := range d.qr.ColIndices(i) {
			if j <= i {
				continue
			}
			if err = out.Set(i, j, at(d.qr, i, j)); err != nil {
				return nil, fmt.Errorf("QR.R: %w", err)
			}
		}
	}

	return out, nil
}

// Q returns the m×n factor with orthonormal columns, built by applying the
// stored reflections to the leading columns of the identity (last first).
func (d *QRFactors) Q(f matrix.Factory) (matrix.Matrix, error) {
	m, n := d.qr.Rows(), d.qr.Cols()
	// Column-major scratch: only n columns of length m are ever needed.
	q := make([][]float64, n)
	for k := range q {
		q[k] = make([]float64, m)
	}
	for k := n - 1; k >= 0; k-- {
		q[k][k] = 1
		vkk := at(d.qr, k, k)
		if vkk == 0 {
			continue
		}
		for j := k; j < n; j++ {
			s := 0.0
			for i := k; i < m; i++ {
				s += at(d.qr, i, k) * q[j][i]
			}
			s = -s / vkk
			for i := k; i < m; i++ {
				q[j][i] += s * at(d.qr, i, k)
			}
		}
	}

	out, err := f.New(m, n)
	if err != nil {
		return nil, fmt.Errorf("QR.Q: %w", err)
	}
	for j, col := range q {
		for i, v := range col {
			if v == 0 {
				continue
			}
			if err = out.Set(i, j, v); err != nil {
				return nil, fmt.Errorf("QR.Q: %w", err)
			}
		}
	}

	return out, nil
}

// Solve returns the least-squares solution X (n×b.Cols()) of A·X ≈ B,
// leaving b untouched.
func (d *QRFactors) Solve(f matrix.Factory, b matrix.Matrix) (matrix.Matrix, error) {
	x, err := matrix.Copy(f, b)
	if err != nil {
		return nil, fmt.Errorf("QR.Solve: %w", err)
	}

	return SolveQR(f, d.qr, d.rdiag, x)
}
