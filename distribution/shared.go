// SPDX-License-Identifier: MIT

package distribution

import (
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/smartop/matrix"
)

// Well-known shared-data keys.
const (
	KeyFactory     = "factory"
	KeyRightMatrix = "right-matrix"
	KeyLaplacian   = "A"
)

// SharedData is the read-mostly key/value store a job exposes to its tasks.
// Values are a matrix.Factory under KeyFactory and matrices under the other
// keys. Safe for concurrent use.
type SharedData struct {
	mu       sync.RWMutex
	factory  matrix.Factory
	matrices map[string]matrix.Matrix
}

// NewSharedData returns an empty store.
func NewSharedData() *SharedData {
	return &SharedData{matrices: make(map[string]matrix.Matrix)}
}

// PutFactory stores the factory every task allocates fragments with.
func (s *SharedData) PutFactory(f matrix.Factory) {
	s.mu.Lock()
	s.factory = f
	s.mu.Unlock()
}

// Factory returns the stored factory or ErrMissingShared.
func (s *SharedData) Factory() (matrix.Factory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingShared, KeyFactory)
	}

	return s.factory, nil
}

// PutMatrix stores m under key.
func (s *SharedData) PutMatrix(key string, m matrix.Matrix) {
	s.mu.Lock()
	s.matrices[key] = m
	s.mu.Unlock()
}

// Matrix returns the matrix stored under key or ErrMissingShared.
func (s *SharedData) Matrix(key string) (matrix.Matrix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matrices[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingShared, key)
	}

	return m, nil
}

// MatrixKeys returns the stored matrix keys in ascending order.
func (s *SharedData) MatrixKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.matrices))
	for k := range s.matrices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
