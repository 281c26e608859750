// SPDX-License-Identifier: MIT

package matrix_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/smartop/matrix"
)

func TestWriteCSV(t *testing.T) {
	m := mustRows(t, matrix.RowMapFactory{}, [][]float64{{1.5, 0}, {0, -2}})

	var buf bytes.Buffer
	require.NoError(t, matrix.WriteCSV(&buf, m, matrix.FormatDense))
	assert.Equal(t, "2,2\n1.5,0\n0,-2\n", buf.String())

	buf.Reset()
	require.NoError(t, matrix.WriteCSV(&buf, m, matrix.FormatTriplet))
	assert.Equal(t, "2,2,2\n0,0,1.5\n1,1,-2\n", buf.String())
}

func TestReadCSV(t *testing.T) {
	f := matrix.CompactFactory{}

	dense, err := matrix.ReadCSV(f, strings.NewReader("2, 3\n1,0,2\n# comment\n0,0,0.25\n"))
	require.NoError(t, err)
	requireCells(t, [][]float64{{1, 0, 2}, {0, 0, 0.25}}, dense)
	assert.Equal(t, 3, dense.NonZeros())

	trip, err := matrix.ReadCSV(f, strings.NewReader("3,3,2\n2,0,7\n0,1,-1e-3\n"))
	require.NoError(t, err)
	requireCells(t, [][]float64{{0, -1e-3, 0}, {0, 0, 0}, {7, 0, 0}}, trip)
}

func TestCSV_RoundTrip(t *testing.T) {
	src := mustRows(t, matrix.RowMapFactory{}, [][]float64{
		{0.1, 0, 1.0 / 3},
		{0, 0, 0},
		{-7e10, 2, 0},
	})
	for _, format := range []matrix.Format{matrix.FormatDense, matrix.FormatTriplet} {
		for _, f := range factories(t) {
			var buf bytes.Buffer
			require.NoError(t, matrix.WriteCSV(&buf, src, format))
			back, err := matrix.ReadCSV(f, &buf)
			require.NoError(t, err, "%s/%s", format, f.Name())
			assert.True(t, matrix.Equal(src, back, 0), "%s/%s", format, f.Name())
		}
	}
}

func TestCSV_Errors(t *testing.T) {
	f := matrix.RowMapFactory{}
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", matrix.ErrBadFormat},
		{"header arity", "1,2,3,4\n", matrix.ErrBadFormat},
		{"header not a number", "a,b\n", matrix.ErrBadFormat},
		{"bad shape", "0,2\n", matrix.ErrBadShape},
		{"short dense row", "2,2\n1,2\n3\n", matrix.ErrBadFormat},
		{"missing dense row", "2,2\n1,2\n", matrix.ErrBadFormat},
		{"bad number", "1,2\n1,x\n", matrix.ErrBadFormat},
		{"nan", "1,1\nNaN\n", matrix.ErrNaNInf},
		{"triplet arity", "2,2,1\n0,1\n", matrix.ErrBadFormat},
		{"triplet count", "2,2,2\n0,1,5\n", matrix.ErrBadFormat},
		{"triplet range", "2,2,1\n2,0,5\n", matrix.ErrOutOfRange},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := matrix.ReadCSV(f, strings.NewReader(tc.in))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.csv")
	m := mustRows(t, matrix.CompactFactory{}, [][]float64{{0, 4}, {8, 0}})

	require.NoError(t, matrix.Save(m, path, matrix.FormatTriplet))
	back, err := matrix.Load(matrix.DenseFactory{}, path)
	require.NoError(t, err)
	requireCells(t, [][]float64{{0, 4}, {8, 0}}, back)

	_, err = matrix.Load(matrix.DenseFactory{}, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]matrix.Format{
		"dense": matrix.FormatDense, " DENSE ": matrix.FormatDense,
		"triplet": matrix.FormatTriplet, "sparse": matrix.FormatTriplet, "": matrix.FormatTriplet,
	} {
		got, err := matrix.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := matrix.ParseFormat("xml")
	assert.ErrorIs(t, err, matrix.ErrBadFormat)
	assert.Equal(t, "dense", matrix.FormatDense.String())
	assert.Equal(t, "triplet", matrix.FormatTriplet.String())
}
