package marching

// IsOutlineEdge reports whether exactly one triangle contains both a and b.
func (t *Triangulation) IsOutlineEdge(a, b int) bool {
	shared := 0
	for _, idx := range t.byVertex[a] {
		if t.Triangles[idx].Contains(b) {
			shared++
			if shared > 1 {
				return false
			}
		}
	}
	return shared == 1
}

// nextOutlineVertex returns the unchecked vertex w such that (v, w) is an
// outline edge and the triangle owning it lists v directly before w, or -1.
// Stepping only along the triangle winding keeps the floor on the same side
// of every outline.
func (t *Triangulation) nextOutlineVertex(v int, checked []bool) int {
	for _, idx := range t.byVertex[v] {
		tri := t.Triangles[idx]
		for i, u := range tri {
			if u != v {
				continue
			}
			next := tri[(i+1)%3]
			if !checked[next] && t.IsOutlineEdge(v, next) {
				return next
			}
		}
	}
	return -1
}

// Outlines partitions the boundary edges into loops that follow the floor
// winding. Each loop starts at the lowest unchecked vertex with an outgoing
// outline edge and repeats that vertex at the end. A trace whose last vertex
// has no outline edge back to the start is returned open.
func (t *Triangulation) Outlines() [][]int {
	var outlines [][]int

	checked := make([]bool, len(t.Vertices))
	copy(checked, t.interior)

	for v := range t.Vertices {
		if checked[v] {
			continue
		}
		next := t.nextOutlineVertex(v, checked)
		if next == -1 {
			continue
		}
		checked[v] = true
		outline := []int{v}

		for next != -1 {
			outline = append(outline, next)
			checked[next] = true
			next = t.nextOutlineVertex(next, checked)
		}

		if t.IsOutlineEdge(outline[len(outline)-1], v) {
			outline = append(outline, v)
		}
		outlines = append(outlines, outline)
	}
	return outlines
}
