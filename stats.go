package pointmesh

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Statistics summarizes the connectivity of a mesh.
type Statistics struct {
	Points int
	// Edges counts undirected edges.
	Edges int
	// AverageDegree is the sum of all neighbor list lengths over Points.
	AverageDegree float64
	// Isolated is the number of points with no neighbors.
	Isolated  int
	MaxDegree int
}

// Stats computes connectivity statistics. It returns ErrUndefinedStatistic
// for an empty mesh instead of dividing by zero.
func (m *Mesh) Stats() (Statistics, error) {
	n := len(m.points)
	if n == 0 {
		return Statistics{}, fmt.Errorf("average degree: %w", ErrUndefinedStatistic)
	}
	degrees := m.Degrees()
	var maxDeg int
	for _, d := range degrees {
		if int(d) > maxDeg {
			maxDeg = int(d)
		}
	}
	total := floats.Sum(degrees)
	return Statistics{
		Points:        n,
		Edges:         int(total) / 2,
		AverageDegree: total / float64(n),
		Isolated:      n - m.Connected(),
		MaxDegree:     maxDeg,
	}, nil
}

// Degrees returns the degree of every point in index order as float64,
// ready for plotting or aggregation.
func (m *Mesh) Degrees() []float64 {
	degrees := make([]float64, len(m.points))
	for i := range degrees {
		degrees[i] = float64(len(m.conns[i]))
	}
	return degrees
}
