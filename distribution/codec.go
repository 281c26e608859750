// SPDX-License-Identifier: MIT

package distribution

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/katalvlaran/smartop/matrix"
	"github.com/katalvlaran/smartop/policy"
)

// MatrixEnvelope is the wire form of a matrix: dimensions plus triplets.
type MatrixEnvelope struct {
	Rows    int            `json:"rows"`
	Cols    int            `json:"cols"`
	Entries []matrix.Entry `json:"entries"`
}

// TaskEnvelope is the wire form of a Task.
type TaskEnvelope struct {
	Index    int              `json:"index"`
	Kind     Kind             `json:"kind"`
	Start    int              `json:"start"`
	End      int              `json:"end"`
	Cols     int              `json:"cols,omitempty"`
	Operands []MatrixEnvelope `json:"operands,omitempty"`
}

// SharedEnvelope is the wire form of SharedData; the factory travels by name.
type SharedEnvelope struct {
	Factory  string                    `json:"factory"`
	Matrices map[string]MatrixEnvelope `json:"matrices"`
}

// ResultEnvelope carries a task outcome back to the driver.
type ResultEnvelope struct {
	JobID    string          `json:"job_id"`
	Index    int             `json:"index"`
	Fragment *MatrixEnvelope `json:"fragment,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Codec encodes envelopes as gzip-compressed JSON.
type Codec struct {
	// Level is the gzip level; zero means gzip.DefaultCompression.
	Level int
}

// Encode writes v to w.
func (c Codec) Encode(w io.Writer, v any) error {
	level := c.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	zw, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	if err = json.NewEncoder(zw).Encode(v); err != nil {
		_ = zw.Close()
		return fmt.Errorf("codec: encode: %w", err)
	}

	return zw.Close()
}

// Decode reads one envelope from r into v.
func (c Codec) Decode(r io.Reader, v any) error {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("codec: %w", err)
	}
	defer zr.Close()
	if err = json.NewDecoder(zr).Decode(v); err != nil {
		return fmt.Errorf("codec: decode: %w", err)
	}

	return nil
}

// Marshal encodes v into a byte slice.
func (c Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf, v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes data into v.
func (c Codec) Unmarshal(data []byte, v any) error {
	return c.Decode(bytes.NewReader(data), v)
}

// EncodeMatrix converts m to its wire form.
func EncodeMatrix(m matrix.Matrix) MatrixEnvelope {
	return MatrixEnvelope{Rows: m.Rows(), Cols: m.Cols(), Entries: matrix.Entries(m)}
}

// DecodeMatrix rebuilds a matrix with f.
func DecodeMatrix(f matrix.Factory, env MatrixEnvelope) (matrix.Matrix, error) {
	m, err := matrix.FromEntries(f, env.Rows, env.Cols, env.Entries)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}

	return m, nil
}

// EncodeTask converts t to its wire form.
func EncodeTask(t *Task) TaskEnvelope {
	env := TaskEnvelope{Index: t.index, Kind: t.Kind, Start: t.Range.Start, End: t.Range.End, Cols: t.Cols}
	for _, m := range []matrix.Matrix{t.Left, t.Right} {
		if m != nil {
			env.Operands = append(env.Operands, EncodeMatrix(m))
		}
	}

	return env
}

// DecodeTask rebuilds a Task with f. The index is restored so the remote
// result can be matched to the driver's task.
func DecodeTask(f matrix.Factory, env TaskEnvelope) (*Task, error) {
	t := &Task{Kind: env.Kind, Range: policy.Range{Start: env.Start, End: env.End}, Cols: env.Cols, index: env.Index}
	want := 0
	switch env.Kind {
	case KindAdd, KindSubtract:
		want = 2
	case KindMultiply:
		want = 1
	case KindLaplacian:
	default:
		return nil, fmt.Errorf("codec: kind %q: %w", env.Kind, ErrUnknownTask)
	}
	if len(env.Operands) != want {
		return nil, fmt.Errorf("codec: %s task with %d operands: %w", env.Kind, len(env.Operands), matrix.ErrBadFormat)
	}
	var err error
	if want >= 1 {
		if t.Left, err = DecodeMatrix(f, env.Operands[0]); err != nil {
			return nil, err
		}
	}
	if want == 2 {
		if t.Right, err = DecodeMatrix(f, env.Operands[1]); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// EncodeShared converts s to its wire form.
func EncodeShared(s *SharedData) (SharedEnvelope, error) {
	f, err := s.Factory()
	if err != nil {
		return SharedEnvelope{}, err
	}
	env := SharedEnvelope{Factory: f.Name(), Matrices: make(map[string]MatrixEnvelope)}
	for _, k := range s.MatrixKeys() {
		m, _ := s.Matrix(k)
		env.Matrices[k] = EncodeMatrix(m)
	}

	return env, nil
}

// DecodeShared rebuilds SharedData, resolving the factory by name.
func DecodeShared(env SharedEnvelope, threadMultiplier int, opts ...matrix.Option) (*SharedData, error) {
	f, err := matrix.FactoryByName(env.Factory, threadMultiplier, opts...)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	s := NewSharedData()
	s.PutFactory(f)
	for k, me := range env.Matrices {
		m, err := DecodeMatrix(f, me)
		if err != nil {
			return nil, fmt.Errorf("codec: shared %q: %w", k, err)
		}
		s.PutMatrix(k, m)
	}

	return s, nil
}
