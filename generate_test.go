package pointmesh_test

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/pointmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCubeCoordinates(t *testing.T) {
	m := pointmesh.NewMesh()
	if err := m.Create(pointmesh.Cube{Side: 1, Step: 0.5}); err != nil {
		t.Fatal(err)
	}
	var want []r3.Vec
	for _, x := range []float64{-0.25, 0.25} {
		for _, y := range []float64{-0.25, 0.25} {
			for _, z := range []float64{-0.25, 0.25} {
				want = append(want, r3.Vec{X: x, Y: y, Z: z})
			}
		}
	}
	if diff := cmp.Diff(want, m.Positions()); diff != "" {
		t.Errorf("cube points (-want +got):\n%s", diff)
	}
}

func TestCubeCellCount(t *testing.T) {
	for _, test := range []struct {
		side, step float64
		perAxis    int
	}{
		{side: 1, step: 0.5, perAxis: 2},
		{side: 0.3, step: 0.1, perAxis: 3},
		{side: 1, step: 0.02, perAxis: 50},
		{side: 1, step: 0.3, perAxis: 3},
		{side: 0.2, step: 0.5, perAxis: 0},
	} {
		pts, err := pointmesh.Cube{Side: test.side, Step: test.step}.Generate()
		if err != nil {
			t.Fatal(err)
		}
		if want := test.perAxis * test.perAxis * test.perAxis; len(pts) != want {
			t.Errorf("side=%g step=%g: got %d points, want %d", test.side, test.step, len(pts), want)
		}
		// Lattice must be symmetric about the origin.
		var sum r3.Vec
		for _, p := range pts {
			sum = r3.Add(sum, p.Pos)
		}
		if r3.Norm(sum) > 1e-9 {
			t.Errorf("side=%g step=%g: lattice not centered, sum %v", test.side, test.step, sum)
		}
	}
}

func TestSphere(t *testing.T) {
	const radius = 1.
	pts, err := pointmesh.Sphere{Radius: radius, Step: 0.5}.Generate()
	if err != nil {
		t.Fatal(err)
	}
	// 4x4x4 lattice at ±0.25, ±0.75 keeps cells with at most one ±0.75 coordinate.
	if len(pts) != 32 {
		t.Errorf("got %d points, want 32", len(pts))
	}
	for _, p := range pts {
		if r3.Norm(p.Pos) > radius {
			t.Errorf("point %v outside sphere", p.Pos)
		}
	}
	cube, _ := pointmesh.Cube{Side: 2 * radius, Step: 0.1}.Generate()
	sphere, _ := pointmesh.Sphere{Radius: radius, Step: 0.1}.Generate()
	ratio := float64(len(sphere)) / float64(len(cube))
	if math.Abs(ratio-math.Pi/6) > 0.05 {
		t.Errorf("sphere/cube volume ratio %g far from pi/6", ratio)
	}
}

func TestGeneratorInvalidInput(t *testing.T) {
	for _, g := range []pointmesh.Generator{
		pointmesh.Cube{Side: 1, Step: 0},
		pointmesh.Cube{Side: 1, Step: -0.1},
		pointmesh.Cube{Side: 0, Step: 0.1},
		pointmesh.Cube{Side: 1, Step: math.NaN()},
		pointmesh.Cube{Side: 1000, Step: 0.001},
		pointmesh.Sphere{Radius: -1, Step: 0.1},
		pointmesh.Sphere{Radius: 1, Step: 0},
		pointmesh.Random{Count: -1},
		pointmesh.Random{Count: 3, Volume: r3.Vec{X: -1}},
		pointmesh.Random{Count: 3, BreakMin: 2, BreakMax: 1},
		// Allocation limits.
		pointmesh.Random{Count: math.MaxInt},
		pointmesh.Random{Count: pointmesh.MaxPoints + 1},
		pointmesh.Cube{Side: 1000, Step: 1},
		pointmesh.Sphere{Radius: 500, Step: 1},
		// Non-finite ranges.
		pointmesh.Random{Count: 3, Volume: r3.Vec{X: math.NaN()}},
		pointmesh.Random{Count: 3, Volume: r3.Vec{Y: math.Inf(1)}},
		pointmesh.Random{Count: 3, BreakMin: math.Inf(-1), BreakMax: 1},
		pointmesh.Random{Count: 3, BreakMin: 0, BreakMax: math.NaN()},
	} {
		m := threePointMesh(t)
		before := m.Edges()
		err := m.Create(g)
		if !errors.Is(err, pointmesh.ErrInputInvalid) {
			t.Errorf("%+v: got %v, want ErrInputInvalid", g, err)
		}
		if m.Len() != 3 || !cmp.Equal(before, m.Edges()) {
			t.Errorf("%+v: failed create modified mesh", g)
		}
	}
}

func TestRandomGenerator(t *testing.T) {
	g := pointmesh.Random{
		Count:    500,
		Volume:   r3.Vec{X: 1, Y: 2, Z: 0},
		BreakMin: 30,
		BreakMax: 100,
		Seed:     99,
	}
	a, err := g.Generate()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := g.Generate()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different clouds:\n%s", diff)
	}
	g.Seed++
	c, _ := g.Generate()
	if cmp.Equal(a, c) {
		t.Error("different seeds produced equal clouds")
	}
	for _, p := range a {
		if math.Abs(p.Pos.X) > 1 || math.Abs(p.Pos.Y) > 2 || p.Pos.Z != 0 {
			t.Fatalf("point %v outside volume", p.Pos)
		}
		if p.BreakingPoint < 30 || p.BreakingPoint >= 100 {
			t.Fatalf("breaking point %g outside range", p.BreakingPoint)
		}
		if p.Energy != 0 || p.Broken {
			t.Fatalf("new point not intact: %+v", p)
		}
	}
	// Coordinates should fill the volume, not cluster.
	xs := make([]float64, len(a))
	for i := range a {
		xs[i] = a[i].Pos.X
	}
	sort.Float64s(xs)
	if xs[0] > -0.9 || xs[len(xs)-1] < 0.9 {
		t.Errorf("x range [%g, %g] does not span the volume", xs[0], xs[len(xs)-1])
	}
}

func TestRandomEmpty(t *testing.T) {
	m := threePointMesh(t)
	if err := m.Create(pointmesh.Random{}); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 0 {
		t.Errorf("got %d points, want 0", m.Len())
	}
}

func TestCreateDropsGraph(t *testing.T) {
	m := threePointMesh(t)
	if err := m.Create(pointmesh.Cube{Side: 1, Step: 0.5}); err != nil {
		t.Fatal(err)
	}
	if len(m.Edges()) != 0 {
		t.Error("graph survived Create")
	}
}
