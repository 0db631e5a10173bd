package pointmesh_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/pointmesh"
	"gonum.org/v1/gonum/spatial/r3"
)

func threePointMesh(t *testing.T) *pointmesh.Mesh {
	t.Helper()
	m := pointmesh.NewMesh()
	m.Load([]r3.Vec{{0, 0, 0}, {1, 0, 0}, {10, 10, 10}})
	if err := m.Connect(1.5); err != nil {
		t.Fatal(err)
	}
	return m
}

func randomMesh(t testing.TB, n int, seed uint64) *pointmesh.Mesh {
	t.Helper()
	m := pointmesh.NewMesh()
	err := m.Create(pointmesh.Random{
		Count:    n,
		Volume:   r3.Vec{X: 10, Y: 10, Z: 10},
		BreakMin: 30,
		BreakMax: 100,
		Seed:     seed,
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestThreePointScenario(t *testing.T) {
	m := threePointMesh(t)
	nb, ok := m.Neighbors(0)
	if !ok || !cmp.Equal(nb, []int{1}) {
		t.Fatalf("neighbors of 0: got %v %v, want [1]", nb, ok)
	}
	if nb, ok := m.Neighbors(2); ok {
		t.Fatalf("point 2 should be isolated, got neighbors %v", nb)
	}
	if m.Connected() != 2 {
		t.Errorf("connected: got %d, want 2", m.Connected())
	}
	stats, err := m.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(stats.AverageDegree-2./3.) > 1e-12 {
		t.Errorf("average degree: got %g, want 2/3", stats.AverageDegree)
	}
	if stats.Isolated != 1 {
		t.Errorf("isolated: got %d, want 1", stats.Isolated)
	}
	if stats.Edges != 1 || stats.MaxDegree != 1 {
		t.Errorf("edges/max degree: got %d/%d, want 1/1", stats.Edges, stats.MaxDegree)
	}

	if removed := m.Prune(); removed != 1 {
		t.Errorf("removed: got %d, want 1", removed)
	}
	if m.Len() != 2 {
		t.Fatalf("points after prune: got %d, want 2", m.Len())
	}
	want := []r3.Vec{{0, 0, 0}, {1, 0, 0}}
	if diff := cmp.Diff(want, m.Positions()); diff != "" {
		t.Errorf("positions after prune (-want +got):\n%s", diff)
	}
	for i, other := range []int{1, 0} {
		nb, ok := m.Neighbors(i)
		if !ok || !cmp.Equal(nb, []int{other}) {
			t.Errorf("neighbors of %d: got %v, want [%d]", i, nb, other)
		}
	}
	stats, err = m.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Isolated != 0 || stats.AverageDegree != 1 {
		t.Errorf("stats after prune: got %+v", stats)
	}
}

func TestStatsEmptyMesh(t *testing.T) {
	m := pointmesh.NewMesh()
	_, err := m.Stats()
	if !errors.Is(err, pointmesh.ErrUndefinedStatistic) {
		t.Fatalf("got %v, want ErrUndefinedStatistic", err)
	}
	// Pruning everything away also leaves statistics undefined.
	m.Load([]r3.Vec{{0, 0, 0}, {5, 0, 0}})
	if err := m.Connect(1); err != nil {
		t.Fatal(err)
	}
	m.Prune()
	if _, err = m.Stats(); !errors.Is(err, pointmesh.ErrUndefinedStatistic) {
		t.Fatalf("got %v, want ErrUndefinedStatistic", err)
	}
}

func TestClear(t *testing.T) {
	m := threePointMesh(t)
	m.Clear()
	if m.Len() != 0 || len(m.Edges()) != 0 {
		t.Fatalf("mesh not empty after clear: %d points, %d edges", m.Len(), len(m.Edges()))
	}
	if _, ok := m.Neighbors(0); ok {
		t.Error("stale neighbors after clear")
	}
}

func TestAccessorsDoNotAlias(t *testing.T) {
	m := threePointMesh(t)
	nb, _ := m.Neighbors(0)
	nb[0] = 2
	pos := m.Positions()
	pos[0].X = 42
	pts := m.Points()
	pts[1].Broken = true
	if got, _ := m.Neighbors(0); got[0] != 1 {
		t.Error("Neighbors aliases mesh graph")
	}
	if m.Positions()[0].X != 0 {
		t.Error("Positions aliases point store")
	}
	if m.Points()[1].Broken {
		t.Error("Points aliases point store")
	}
}

func TestBounds(t *testing.T) {
	m := threePointMesh(t)
	got := m.Bounds()
	want := r3.Box{Min: r3.Vec{}, Max: r3.Vec{X: 10, Y: 10, Z: 10}}
	if got != want {
		t.Errorf("bounds: got %v, want %v", got, want)
	}
	if (pointmesh.NewMesh().Bounds() != r3.Box{}) {
		t.Error("empty mesh bounds not zero")
	}
}

func TestLoadDropsGraph(t *testing.T) {
	m := threePointMesh(t)
	m.Load([]r3.Vec{{0, 0, 0}, {0.5, 0, 0}})
	if len(m.Edges()) != 0 {
		t.Fatal("graph survived Load")
	}
	for _, p := range m.Points() {
		if p.Energy != 0 || p.Broken {
			t.Errorf("loaded point not intact: %+v", p)
		}
	}
}
