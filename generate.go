package pointmesh

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// MaxPoints is the largest point store a generator will produce. Grid
// generators check the full grid they walk against it.
const MaxPoints = 1 << 24

// Generator produces the contents of a point store.
type Generator interface {
	Generate() ([]Point, error)
}

// Cube fills a cube of side Side centered at the origin with a regular
// grid of spacing Step.
type Cube struct {
	Side float64
	Step float64
}

// Generate returns floor(Side/Step)^3 points ordered x, then y, then z.
func (c Cube) Generate() ([]Point, error) {
	if !(c.Side > 0) {
		return nil, fmt.Errorf("cube side %g: %w", c.Side, ErrInputInvalid)
	}
	n, err := gridCells(c.Side, c.Step)
	if err != nil {
		return nil, fmt.Errorf("cube: %w", err)
	}
	pts := make([]Point, 0, n*n*n)
	forGrid(n, c.Step, func(p r3.Vec) {
		pts = append(pts, Point{Pos: p})
	})
	return pts, nil
}

// Sphere fills a sphere of radius Radius centered at the origin. It walks
// the grid of the enclosing cube and discards cells further than Radius
// from the center.
type Sphere struct {
	Radius float64
	Step   float64
}

func (s Sphere) Generate() ([]Point, error) {
	if !(s.Radius > 0) {
		return nil, fmt.Errorf("sphere radius %g: %w", s.Radius, ErrInputInvalid)
	}
	n, err := gridCells(2*s.Radius, s.Step)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	var pts []Point
	forGrid(n, s.Step, func(p r3.Vec) {
		if r3.Norm(p) <= s.Radius {
			pts = append(pts, Point{Pos: p})
		}
	})
	return pts, nil
}

// Random draws Count points uniformly in the box [-Volume, Volume) and gives
// each a breaking point drawn uniformly in [BreakMin, BreakMax).
// Equal seeds generate equal clouds.
type Random struct {
	Count    int
	Volume   r3.Vec
	BreakMin float64
	BreakMax float64
	Seed     uint64
}

func (g Random) Generate() ([]Point, error) {
	switch {
	case g.Count < 0 || g.Count > MaxPoints:
		return nil, fmt.Errorf("random point count %d not in [0, %d]: %w", g.Count, MaxPoints, ErrInputInvalid)
	case !finiteNonNegative(g.Volume.X) || !finiteNonNegative(g.Volume.Y) || !finiteNonNegative(g.Volume.Z):
		return nil, fmt.Errorf("random volume %v must be finite and non-negative: %w", g.Volume, ErrInputInvalid)
	case !finite(g.BreakMin) || !finite(g.BreakMax):
		return nil, fmt.Errorf("breaking range [%g, %g) not finite: %w", g.BreakMin, g.BreakMax, ErrInputInvalid)
	case !(g.BreakMin <= g.BreakMax):
		return nil, fmt.Errorf("breaking range [%g, %g): %w", g.BreakMin, g.BreakMax, ErrInputInvalid)
	}
	src := rand.NewPCG(g.Seed, g.Seed^0x9e3779b97f4a7c15)
	var (
		ux = distuv.Uniform{Min: -g.Volume.X, Max: g.Volume.X, Src: src}
		uy = distuv.Uniform{Min: -g.Volume.Y, Max: g.Volume.Y, Src: src}
		uz = distuv.Uniform{Min: -g.Volume.Z, Max: g.Volume.Z, Src: src}
		ub = distuv.Uniform{Min: g.BreakMin, Max: g.BreakMax, Src: src}
	)
	pts := make([]Point, g.Count)
	for i := range pts {
		pts[i] = NewPoint(ux.Rand(), uy.Rand(), uz.Rand(), ub.Rand())
	}
	return pts, nil
}

// gridCells returns the number of grid cells of size step that fit in length.
// The relative tolerance absorbs quotients such as 0.3/0.1 = 2.9999999999999996.
func gridCells(length, step float64) (int, error) {
	if !(step > 0) || math.IsInf(step, 1) {
		return 0, fmt.Errorf("grid step %g: %w", step, ErrInputInvalid)
	}
	cells := math.Floor(length / step * (1 + 1e-9))
	if !(cells*cells*cells <= MaxPoints) {
		return 0, fmt.Errorf("%g^3 grid cells exceeds limit of %d points: %w", cells, MaxPoints, ErrInputInvalid)
	}
	return int(cells), nil
}

// forGrid calls fn for every cell of an n*n*n grid with spacing step whose
// cells are symmetric about the origin.
func forGrid(n int, step float64, fn func(r3.Vec)) {
	offset := float64(n-1) * step / 2
	coord := func(k int) float64 { return float64(k)*step - offset }
	for ix := 0; ix < n; ix++ {
		for iy := 0; iy < n; iy++ {
			for iz := 0; iz < n; iz++ {
				fn(r3.Vec{X: coord(ix), Y: coord(iy), Z: coord(iz)})
			}
		}
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func finiteNonNegative(v float64) bool { return finite(v) && v >= 0 }
