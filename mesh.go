// Package pointmesh stores 3D point clouds and the proximity graph between
// their points. Points are kept in a flat slice and every relationship is
// expressed as an integer index into it.
//
// A Mesh is not safe for concurrent use. Wrap it with Shared when it is
// accessed from more than one goroutine.
package pointmesh

import (
	"sort"

	"github.com/soypat/pointmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh owns a point store and the connectivity graph derived from it.
// A point index is a key of conns only while it has at least one neighbor.
type Mesh struct {
	points []Point
	conns  map[int][]int
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{conns: make(map[int][]int)}
}

// Len returns the number of points in the store.
func (m *Mesh) Len() int { return len(m.points) }

// Points returns a copy of the point store in index order.
func (m *Mesh) Points() []Point {
	return append([]Point(nil), m.points...)
}

// Positions returns the position of every point in index order. The result
// does not alias mesh memory.
func (m *Mesh) Positions() []r3.Vec {
	pos := make([]r3.Vec, len(m.points))
	for i := range m.points {
		pos[i] = m.points[i].Pos
	}
	return pos
}

// Neighbors returns the indices connected to point i. The second return is
// false when i has no neighbors or is out of range.
func (m *Mesh) Neighbors(i int) ([]int, bool) {
	nb, ok := m.conns[i]
	if !ok || len(nb) == 0 {
		return nil, false
	}
	return append([]int(nil), nb...), true
}

// Degree returns the number of neighbors of point i.
func (m *Mesh) Degree(i int) int { return len(m.conns[i]) }

// Connected returns the number of points with at least one neighbor.
func (m *Mesh) Connected() int { return len(m.conns) }

// Edges returns every undirected edge once as {i, j} with i < j, sorted.
func (m *Mesh) Edges() [][2]int {
	var edges [][2]int
	for i, nb := range m.conns {
		for _, j := range nb {
			if i < j {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a][0] != edges[b][0] {
			return edges[a][0] < edges[b][0]
		}
		return edges[a][1] < edges[b][1]
	})
	return edges
}

// Bounds returns the axis aligned box containing all points. The zero box
// is returned for an empty mesh.
func (m *Mesh) Bounds() r3.Box {
	if len(m.points) == 0 {
		return r3.Box{}
	}
	return r3.Box(d3.Set(m.Positions()).Bounds())
}

// Clear empties both the point store and the connectivity graph.
func (m *Mesh) Clear() {
	m.points = nil
	m.conns = make(map[int][]int)
}

// Create replaces the point store with the output of g. The graph is
// dropped since its indices refer to the previous store. On error the mesh
// is left untouched.
func (m *Mesh) Create(g Generator) error {
	pts, err := g.Generate()
	if err != nil {
		return err
	}
	m.points = pts
	m.conns = make(map[int][]int)
	return nil
}

// Load replaces the point store with intact points at the given positions
// and drops the graph.
func (m *Mesh) Load(positions []r3.Vec) {
	pts := make([]Point, len(positions))
	for i, p := range positions {
		pts[i] = Point{Pos: p}
	}
	m.points = pts
	m.conns = make(map[int][]int)
}

// checkIndex panics if i does not address a point of the store.
func (m *Mesh) checkIndex(i int) {
	if i < 0 || i >= len(m.points) {
		panic("bug: connectivity graph references point outside of store")
	}
}
