package marching

// ExtrudeWalls builds the wall skirt: for each consecutive outline pair a quad
// from the surface down to wallHeight below it. Each quad adds four vertices
// (top i, top i+1, bottom i, bottom i+1) and the triangles (0, 2, 3) and
// (3, 1, 0) relative to them. Outlines traced by Triangulation.Outlines follow
// the floor winding, so every quad faces away from the floor triangle on its
// top edge.
func ExtrudeWalls(vertices []Vec3, outlines [][]int, wallHeight float64) Mesh {
	var m Mesh
	drop := up.Scale(wallHeight)

	for _, outline := range outlines {
		for i := 0; i < len(outline)-1; i++ {
			start := len(m.Vertices)
			left := vertices[outline[i]]
			right := vertices[outline[i+1]]

			m.Vertices = append(m.Vertices,
				left,
				right,
				left.Sub(drop),
				right.Sub(drop),
			)
			m.Triangles = append(m.Triangles,
				start+0, start+2, start+3,
				start+3, start+1, start+0,
			)
		}
	}
	return m
}
