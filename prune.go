package pointmesh

// Prune removes every point without neighbors and compacts the index space.
// Surviving points keep their relative order; the graph is rewritten under
// the new indices. It returns the number of points removed.
func (m *Mesh) Prune() (removed int) {
	// remap[old] is the new index of a kept point or -1.
	remap := make([]int, len(m.points))
	kept := make([]Point, 0, len(m.conns))
	for i := range m.points {
		if len(m.conns[i]) == 0 {
			remap[i] = -1
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, m.points[i])
	}
	conns := make(map[int][]int, len(m.conns))
	for old, nb := range m.conns {
		if len(nb) == 0 {
			continue
		}
		key := remapIndex(remap, old)
		translated := make([]int, len(nb))
		for k, j := range nb {
			translated[k] = remapIndex(remap, j)
		}
		conns[key] = translated
	}
	removed = len(m.points) - len(kept)
	m.points = kept
	m.conns = conns
	return removed
}

func remapIndex(remap []int, old int) int {
	if old < 0 || old >= len(remap) || remap[old] < 0 {
		panic("bug: edge references a removed or nonexistent point")
	}
	return remap[old]
}
