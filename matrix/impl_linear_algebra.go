// SPDX-License-Identifier: MIT
// Package matrix provides serial, sparse-aware kernels on any Matrix
// implementation: element-wise addition and subtraction, matrix
// multiplication, transpose, scalar scaling, M·Mᵗ and the Laplacian.
//
// Purpose:
//   - Iterate only occupied rows and columns (ascending), so the cost follows
//     the number of stored entries rather than rows×cols.
//   - Allocate results through an explicit Factory.
//   - Dispatch to optional fast paths (Scaler, Multiplier) when the operand
//     provides one; fall back to the generic interface otherwise.
//
// Notes:
//   - All kernels validate first and wrap sentinels with an op tag via matrixErrorf.
//   - Row-level helpers (AddRow, MulRow) are exported for the computation
//     engines, which run them on disjoint row ranges.

package matrix

import (
	"math"
	"sort"
)

// Operation name constants for unified error wrapping.
const (
	opAdd            = "Add"
	opSub            = "Sub"
	opMul            = "Mul"
	opTranspose      = "Transpose"
	opScale          = "Scale"
	opMulByTranspose = "MulByTranspose"
	opLaplacian      = "Laplacian"
)

// sortedRow turns an accumulator into ascending (cols, vals), dropping zeros.
func sortedRow(acc map[int]float64) ([]int, []float64) {
	cols := make([]int, 0, len(acc))
	for j, v := range acc {
		if v != 0 {
			cols = append(cols, j)
		}
	}
	sort.Ints(cols)
	vals := make([]float64, len(cols))
	for k, j := range cols {
		vals[k] = acc[j]
	}

	return cols, vals
}

// AddRow returns row i of a + sign·b as ascending (cols, vals).
// sign is +1 for addition and -1 for subtraction.
// Complexity: O(k_a + k_b).
func AddRow(a, b Matrix, i int, sign float64) ([]int, []float64) {
	acc := make(map[int]float64, a.RowNonZeros(i)+b.RowNonZeros(i))
	var v float64
	for _, j := range a.ColIndices(i) {
		v, _ = a.At(i, j)
		acc[j] += v
	}
	for _, j := range b.ColIndices(i) {
		v, _ = b.At(i, j)
		acc[j] += sign * v
	}

	return sortedRow(acc)
}

// MulRow returns row i of a × b as ascending (cols, vals).
// Complexity: O(Σ_{k ∈ row i of a} k_b(k)).
func MulRow(a, b Matrix, i int) ([]int, []float64) {
	acc := make(map[int]float64)
	var aik, bkj float64
	for _, k := range a.ColIndices(i) {
		aik, _ = a.At(i, k)
		if aik == 0 {
			continue
		}
		for _, j := range b.ColIndices(k) {
			bkj, _ = b.At(k, j)
			acc[j] += aik * bkj
		}
	}

	return sortedRow(acc)
}

// unionRows returns the ascending union of the occupied rows of a and b.
func unionRows(a, b Matrix) []int {
	set := make(map[int]struct{})
	for _, i := range a.RowIndices() {
		set[i] = struct{}{}
	}
	for _, i := range b.RowIndices() {
		set[i] = struct{}{}
	}

	return sortedKeys(set)
}

// addSub is the shared body of Add and Sub.
func addSub(tag string, f Factory, a, b Matrix, sign float64) (Matrix, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	out, err := f.New(a.Rows(), a.Cols())
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}
	for _, i := range unionRows(a, b) {
		cols, vals := AddRow(a, b, i, sign)
		if len(cols) == 0 {
			continue
		}
		if err = WriteRow(out, i, cols, vals); err != nil {
			return nil, matrixErrorf(tag, err)
		}
	}
	out.RefreshNonZeros()

	return out, nil
}

// Add returns a + b.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(nnz(a) + nnz(b)).
func Add(f Factory, a, b Matrix) (Matrix, error) { return addSub(opAdd, f, a, b, 1) }

// Sub returns a − b.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func Sub(f Factory, a, b Matrix) (Matrix, error) { return addSub(opSub, f, a, b, -1) }

// Mul returns the matrix product a × b.
// Implementation:
//   - Stage 1: validate a.Cols == b.Rows.
//   - Stage 2: Multiplier fast path (result keeps a's representation).
//   - Stage 3: otherwise compute each occupied row of a with MulRow.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(Σ_i Σ_{k∈row i} k_b(k)); dense inputs degrade to O(n·m·p).
func Mul(f Factory, a, b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	if fast, ok := a.(Multiplier); ok {
		out, err := fast.Mul(b)
		if err != nil {
			return nil, matrixErrorf(opMul, err)
		}
		return out, nil
	}
	out, err := f.New(a.Rows(), b.Cols())
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	for _, i := range a.RowIndices() {
		cols, vals := MulRow(a, b, i)
		if len(cols) == 0 {
			continue
		}
		if err = WriteRow(out, i, cols, vals); err != nil {
			return nil, matrixErrorf(opMul, err)
		}
	}
	out.RefreshNonZeros()

	return out, nil
}

// Scale returns alpha·m.
// Scaler fast path (result keeps m's representation); zero alpha yields an
// empty matrix.
func Scale(f Factory, alpha float64, m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if isNonFinite(alpha) {
		return nil, matrixErrorf(opScale, ErrNaNInf)
	}
	if fast, ok := m.(Scaler); ok {
		out, err := fast.Scale(alpha)
		if err != nil {
			return nil, matrixErrorf(opScale, err)
		}
		return out, nil
	}
	out, err := f.New(m.Rows(), m.Cols())
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if alpha == 0 {
		return out, nil
	}
	for _, i := range m.RowIndices() {
		cols, vals := rowEntries(m, i)
		for k := range vals {
			vals[k] *= alpha
		}
		if err = WriteRow(out, i, cols, vals); err != nil {
			return nil, matrixErrorf(opScale, err)
		}
	}
	out.RefreshNonZeros()

	return out, nil
}

// Transpose returns mᵗ.
// Complexity: O(nnz) plus one row write per output row.
func Transpose(f Factory, m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	// Bucket entries by destination row (source column); ascending source
	// rows keep each bucket sorted.
	type bucket struct {
		cols []int
		vals []float64
	}
	buckets := make(map[int]*bucket)
	var v float64
	for _, i := range m.RowIndices() {
		for _, j := range m.ColIndices(i) {
			if v, _ = m.At(i, j); v == 0 {
				continue
			}
			bk, ok := buckets[j]
			if !ok {
				bk = &bucket{}
				buckets[j] = bk
			}
			bk.cols = append(bk.cols, i)
			bk.vals = append(bk.vals, v)
		}
	}
	out, err := f.New(m.Cols(), m.Rows())
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	for _, j := range sortedKeys(buckets) {
		if err = WriteRow(out, j, buckets[j].cols, buckets[j].vals); err != nil {
			return nil, matrixErrorf(opTranspose, err)
		}
	}
	out.RefreshNonZeros()

	return out, nil
}

// MulByTranspose returns m·mᵗ (a rows×rows symmetric matrix).
func MulByTranspose(f Factory, m Matrix) (Matrix, error) {
	t, err := Transpose(f, m)
	if err != nil {
		return nil, matrixErrorf(opMulByTranspose, err)
	}
	out, err := Mul(f, m, t)
	if err != nil {
		return nil, matrixErrorf(opMulByTranspose, err)
	}

	return out, nil
}

// ColumnSums returns Σ_i m(i, j) for every column j.
func ColumnSums(m Matrix) []float64 {
	sums := make([]float64, m.Cols())
	var v float64
	for _, i := range m.RowIndices() {
		for _, j := range m.ColIndices(i) {
			v, _ = m.At(i, j)
			sums[j] += v
		}
	}

	return sums
}

// Laplacian returns D − a where D is diagonal with D(i,i) = Σ_j a(j,i).
// Errors: ErrNilMatrix, ErrNonSquare.
func Laplacian(f Factory, a Matrix) (Matrix, error) {
	if err := ValidateSquareNonNil(a); err != nil {
		return nil, matrixErrorf(opLaplacian, err)
	}
	d, err := f.New(a.Rows(), a.Cols())
	if err != nil {
		return nil, matrixErrorf(opLaplacian, err)
	}
	for i, s := range ColumnSums(a) {
		if s == 0 {
			continue
		}
		if err = d.Set(i, i, s); err != nil {
			return nil, matrixErrorf(opLaplacian, err)
		}
	}

	return Sub(f, d, a)
}

// Equal reports whether a and b have the same shape and every cell differs
// by at most eps. Only occupied cells of either side are visited.
func Equal(a, b Matrix, eps float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	for _, i := range unionRows(a, b) {
		_, diff := AddRow(a, b, i, -1)
		for _, d := range diff {
			if math.Abs(d) > eps {
				return false
			}
		}
	}

	return true
}
