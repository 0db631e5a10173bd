package pointmesh

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// Shared serializes access to a Mesh. Every mesh operation runs to
// completion while holding a single lock. Indices read through Do must not
// be kept after it returns since a later Prune or Clear invalidates them.
type Shared struct {
	mu sync.Mutex
	m  *Mesh
}

// NewShared wraps m. A nil m is replaced by an empty mesh.
func NewShared(m *Mesh) *Shared {
	if m == nil {
		m = NewMesh()
	}
	return &Shared{m: m}
}

// Do runs fn with exclusive access to the mesh and returns its error.
func (s *Shared) Do(fn func(m *Mesh) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.m)
}

// Positions returns a snapshot of point positions. The lock is released
// before returning so the snapshot can be serialized and sent freely.
func (s *Shared) Positions() []r3.Vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Positions()
}

// Stats returns connectivity statistics of the current mesh.
func (s *Shared) Stats() (Statistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Stats()
}
