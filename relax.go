package pointmesh

import (
	"fmt"

	"github.com/soypat/pointmesh/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Relax moves every connected point towards the centroid of its neighbors:
//
//	p' = p*(1-factor) + centroid*factor
//
// All centroids are taken from positions before the call so the update is
// simultaneous. Points without neighbors do not move. factor must be in [0, 1].
func (m *Mesh) Relax(factor float64) error {
	if err := validFactor(factor); err != nil {
		return err
	}
	if factor == 0 {
		return nil
	}
	prev := m.Positions()
	var around d3.Set
	for i := range m.points {
		nb := m.conns[i]
		if len(nb) == 0 {
			continue
		}
		around = around[:0]
		for _, j := range nb {
			m.checkIndex(j)
			around = append(around, prev[j])
		}
		centroid := around.Centroid()
		m.points[i].Pos = r3.Add(r3.Scale(1-factor, prev[i]), r3.Scale(factor, centroid))
	}
	return nil
}

// RelaxN calls Relax iterations times. It stops on the first error.
func (m *Mesh) RelaxN(factor float64, iterations int) error {
	if iterations < 0 {
		return fmt.Errorf("negative relaxation iterations %d: %w", iterations, ErrInputInvalid)
	}
	if err := validFactor(factor); err != nil {
		return err
	}
	for it := 0; it < iterations; it++ {
		if err := m.Relax(factor); err != nil {
			return err
		}
	}
	return nil
}

func validFactor(factor float64) error {
	// Negated comparison so NaN is rejected too.
	if !(factor >= 0 && factor <= 1) {
		return fmt.Errorf("relaxation factor %g not in [0, 1]: %w", factor, ErrInputInvalid)
	}
	return nil
}
