package pointmesh

import (
	"fmt"
	"math"
)

// Connect rebuilds the connectivity graph so that two distinct points are
// neighbors if and only if their distance is less than or equal to radius.
// The previous graph is discarded. Every pair of points is evaluated once.
//
// Coincident points are connected even when radius is zero.
func (m *Mesh) Connect(radius float64) error {
	if radius < 0 || math.IsNaN(radius) {
		return fmt.Errorf("connection radius %g: %w", radius, ErrInputInvalid)
	}
	conns := make(map[int][]int)
	for i := range m.points {
		for j := i + 1; j < len(m.points); j++ {
			if m.points[i].Distance(m.points[j]) <= radius {
				conns[i] = append(conns[i], j)
				conns[j] = append(conns[j], i)
			}
		}
	}
	m.conns = conns
	return nil
}
