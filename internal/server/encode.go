package server

import (
	"encoding/json"

	"gonum.org/v1/gonum/spatial/r3"
)

func triples(pts []r3.Vec) [][3]float64 {
	out := make([][3]float64, len(pts))
	for i, p := range pts {
		out[i] = [3]float64{p.X, p.Y, p.Z}
	}
	return out
}

// marshalPoints encodes pts as a JSON array of [x,y,z] arrays.
func marshalPoints(pts []r3.Vec) ([]byte, error) {
	return json.Marshal(triples(pts))
}
