// SPDX-License-Identifier: MIT

// Package matrix - CSV persistence.
//
// Formats:
//   - Dense:   header "rows,cols", then one comma-separated row of floats per line.
//   - Triplet: header "rows,cols,nnz", then one "row,col,value" line per stored entry;
//     omitted cells are zero.
//
// The header arity selects the format on read. Values are written with the
// shortest representation that round-trips exactly ('g', -1).

package matrix

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Format selects the CSV layout written by Save/WriteCSV.
type Format int

const (
	// FormatTriplet writes "rows,cols,nnz" followed by one entry per line.
	FormatTriplet Format = iota
	// FormatDense writes "rows,cols" followed by every row.
	FormatDense
)

const (
	denseHeaderFields   = 2
	tripletHeaderFields = 3
	tripletFields       = 3
)

// String returns the CLI spelling of the format.
func (f Format) String() string {
	if f == FormatDense {
		return "dense"
	}

	return "triplet"
}

// ParseFormat parses "dense" or "triplet" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dense":
		return FormatDense, nil
	case "triplet", "sparse", "":
		return FormatTriplet, nil
	}

	return FormatTriplet, fmt.Errorf("ParseFormat(%q): %w", s, ErrBadFormat)
}

func csvErrorf(line int, err error) error {
	return fmt.Errorf("ReadCSV: line %d: %w", line, err)
}

// ReadCSV parses a dense or triplet CSV stream into a matrix built by f.
// Errors: ErrBadFormat (header, arity, numbers, entry count), ErrBadShape,
// ErrOutOfRange (triplet coordinates), ErrNaNInf (numeric policy of f).
func ReadCSV(f Factory, r io.Reader) (Matrix, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err != nil {
		return nil, csvErrorf(1, fmt.Errorf("%w: %v", ErrBadFormat, err))
	}
	dims, err := parseInts(header)
	if err != nil {
		return nil, csvErrorf(1, err)
	}
	switch len(dims) {
	case denseHeaderFields:
		return readDense(f, cr, dims[0], dims[1])
	case tripletHeaderFields:
		return readTriplets(f, cr, dims[0], dims[1], dims[2])
	}

	return nil, csvErrorf(1, ErrBadFormat)
}

func readDense(f Factory, cr *csv.Reader, rows, cols int) (Matrix, error) {
	m, err := f.New(rows, cols)
	if err != nil {
		return nil, csvErrorf(1, err)
	}
	for i := 0; i < rows; i++ {
		rec, err := cr.Read()
		if err != nil {
			return nil, csvErrorf(i+2, fmt.Errorf("%w: %v", ErrBadFormat, err))
		}
		if len(rec) != cols {
			return nil, csvErrorf(i+2, ErrBadFormat)
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, csvErrorf(i+2, fmt.Errorf("%w: %v", ErrBadFormat, err))
			}
			if v == 0 {
				continue
			}
			if err = m.Set(i, j, v); err != nil {
				return nil, csvErrorf(i+2, err)
			}
		}
	}

	return m, nil
}

func readTriplets(f Factory, cr *csv.Reader, rows, cols, nnz int) (Matrix, error) {
	m, err := f.New(rows, cols)
	if err != nil {
		return nil, csvErrorf(1, err)
	}
	line := 1
	for k := 0; ; k++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			if k != nnz {
				return nil, csvErrorf(line, fmt.Errorf("%w: %d entries, header says %d", ErrBadFormat, k, nnz))
			}
			return m, nil
		}
		line++
		if err != nil {
			return nil, csvErrorf(line, fmt.Errorf("%w: %v", ErrBadFormat, err))
		}
		if len(rec) != tripletFields {
			return nil, csvErrorf(line, ErrBadFormat)
		}
		idx, err := parseInts(rec[:2])
		if err != nil {
			return nil, csvErrorf(line, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, csvErrorf(line, fmt.Errorf("%w: %v", ErrBadFormat, err))
		}
		if err = m.Set(idx[0], idx[1], v); err != nil {
			return nil, csvErrorf(line, err)
		}
	}
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for k, s := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
		}
		out[k] = n
	}

	return out, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// WriteCSV writes m in the requested format.
func WriteCSV(w io.Writer, m Matrix, format Format) error {
	if err := ValidateNotNil(m); err != nil {
		return matrixErrorf("WriteCSV", err)
	}
	cw := csv.NewWriter(w)
	var err error
	if format == FormatDense {
		err = writeDense(cw, m)
	} else {
		err = writeTriplets(cw, m)
	}
	if err != nil {
		return matrixErrorf("WriteCSV", err)
	}
	cw.Flush()

	return cw.Error()
}

func writeDense(cw *csv.Writer, m Matrix) error {
	if err := cw.Write([]string{strconv.Itoa(m.Rows()), strconv.Itoa(m.Cols())}); err != nil {
		return err
	}
	rec := make([]string, m.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := range rec {
			rec[j] = "0"
		}
		cols, vals := rowEntries(m, i)
		for k, j := range cols {
			rec[j] = formatFloat(vals[k])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	return nil
}

func writeTriplets(cw *csv.Writer, m Matrix) error {
	entries := Entries(m)
	header := []string{strconv.Itoa(m.Rows()), strconv.Itoa(m.Cols()), strconv.Itoa(len(entries))}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{strconv.Itoa(e.Row), strconv.Itoa(e.Col), formatFloat(e.Val)}); err != nil {
			return err
		}
	}

	return nil
}

// Load reads a dense or triplet CSV file into a matrix built by f.
func Load(f Factory, path string) (Matrix, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Load(%s): %w", path, err)
	}
	defer fh.Close()

	m, err := ReadCSV(f, fh)
	if err != nil {
		return nil, fmt.Errorf("Load(%s): %w", path, err)
	}

	return m, nil
}

// Save writes m to path in the requested format, truncating the file.
func Save(m Matrix, path string, format Format) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Save(%s): %w", path, err)
	}
	if err = WriteCSV(fh, m, format); err != nil {
		_ = fh.Close()
		return fmt.Errorf("Save(%s): %w", path, err)
	}

	return fh.Close()
}
