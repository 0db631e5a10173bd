package pointmesh

import "gonum.org/v1/gonum/spatial/r3"

// Point is a single record of the point store. Its identity is its index
// in the owning Mesh; there is no other identifier.
type Point struct {
	Pos r3.Vec
	// Energy accumulated by the point. Always >= 0.
	Energy float64
	// BreakingPoint is the energy threshold at which the point breaks.
	BreakingPoint float64
	Broken        bool
}

// NewPoint returns an intact point at (x, y, z) with no accumulated energy.
func NewPoint(x, y, z, breakingPoint float64) Point {
	return Point{
		Pos:           r3.Vec{X: x, Y: y, Z: z},
		BreakingPoint: breakingPoint,
	}
}

// Distance returns the euclidean distance between the positions of p and q.
func (p Point) Distance(q Point) float64 {
	return r3.Norm(r3.Sub(p.Pos, q.Pos))
}
