package marching

// Triangle is a triple of vertex indices.
type Triangle [3]int

// Contains reports whether v is one of the triangle's vertices.
func (t Triangle) Contains(v int) bool {
	return t[0] == v || t[1] == v || t[2] == v
}

// Triangulation is the deduplicated surface of a SquareGrid together with the
// per-vertex triangle index used for outline tracing.
type Triangulation struct {
	Vertices  []Vec3
	Triangles []Triangle

	byVertex [][]int // vertex -> indices into Triangles, in emission order
	interior []bool  // corners of fully solid squares off the grid edge, never on an outline
}

// Triangulate emits the polygon of every square. Vertex slots of the grid are
// reset first, so a SquareGrid may be triangulated more than once.
func Triangulate(sg *SquareGrid) *Triangulation {
	for i := range sg.nodes {
		sg.nodes[i].vertex = unassigned
	}

	t := &Triangulation{}
	for _, sq := range sg.squares {
		t.square(sg, sq)
	}
	return t
}

// square emits the polygon for one configuration. Point lists run clockwise
// seen from above (x right, z forward).
func (t *Triangulation) square(sg *SquareGrid, s Square) {
	switch s.Configuration {
	case 0:

	// 1 point
	case 1:
		t.fromPoints(sg, s.CentreBottom, s.BottomLeft, s.CentreLeft)
	case 2:
		t.fromPoints(sg, s.CentreRight, s.BottomRight, s.CentreBottom)
	case 4:
		t.fromPoints(sg, s.CentreTop, s.TopRight, s.CentreRight)
	case 8:
		t.fromPoints(sg, s.TopLeft, s.CentreTop, s.CentreLeft)

	// 2 points
	case 3:
		t.fromPoints(sg, s.CentreRight, s.BottomRight, s.BottomLeft, s.CentreLeft)
	case 6:
		t.fromPoints(sg, s.CentreTop, s.TopRight, s.BottomRight, s.CentreBottom)
	case 9:
		t.fromPoints(sg, s.TopLeft, s.CentreTop, s.CentreBottom, s.BottomLeft)
	case 12:
		t.fromPoints(sg, s.TopLeft, s.TopRight, s.CentreRight, s.CentreLeft)
	case 5:
		t.fromPoints(sg, s.CentreTop, s.TopRight, s.CentreRight, s.CentreBottom, s.BottomLeft, s.CentreLeft)
	case 10:
		t.fromPoints(sg, s.TopLeft, s.CentreTop, s.CentreRight, s.BottomRight, s.CentreBottom, s.CentreLeft)

	// 3 points
	case 7:
		t.fromPoints(sg, s.CentreTop, s.TopRight, s.BottomRight, s.BottomLeft, s.CentreLeft)
	case 11:
		t.fromPoints(sg, s.TopLeft, s.CentreTop, s.CentreRight, s.BottomRight, s.BottomLeft)
	case 13:
		t.fromPoints(sg, s.TopLeft, s.TopRight, s.CentreRight, s.CentreBottom, s.BottomLeft)
	case 14:
		t.fromPoints(sg, s.TopLeft, s.TopRight, s.BottomRight, s.CentreBottom, s.CentreLeft)

	// 4 points
	case 15:
		t.fromPoints(sg, s.TopLeft, s.TopRight, s.BottomRight, s.BottomLeft)
		for _, corner := range []int{s.TopLeft, s.TopRight, s.BottomRight, s.BottomLeft} {
			if !sg.onPerimeter(corner) {
				t.interior[sg.nodes[corner].vertex] = true
			}
		}
	}
}

// fromPoints assigns vertices and fans the polygon from its first point.
func (t *Triangulation) fromPoints(sg *SquareGrid, points ...int) {
	t.assignVertices(sg, points)

	if len(points) >= 3 {
		t.addTriangle(sg, points[0], points[1], points[2])
	}
	if len(points) >= 4 {
		t.addTriangle(sg, points[0], points[2], points[3])
	}
	if len(points) >= 5 {
		t.addTriangle(sg, points[0], points[3], points[4])
	}
	if len(points) >= 6 {
		t.addTriangle(sg, points[0], points[4], points[5])
	}
}

func (t *Triangulation) assignVertices(sg *SquareGrid, points []int) {
	for _, p := range points {
		n := &sg.nodes[p]
		if n.vertex != unassigned {
			continue
		}
		n.vertex = len(t.Vertices)
		t.Vertices = append(t.Vertices, n.pos)
		t.byVertex = append(t.byVertex, nil)
		t.interior = append(t.interior, false)
	}
}

func (t *Triangulation) addTriangle(sg *SquareGrid, a, b, c int) {
	tri := Triangle{sg.nodes[a].vertex, sg.nodes[b].vertex, sg.nodes[c].vertex}
	idx := len(t.Triangles)
	t.Triangles = append(t.Triangles, tri)
	for _, v := range tri {
		t.byVertex[v] = append(t.byVertex[v], idx)
	}
}

// TrianglesOf returns the triangles that reference vertex v.
func (t *Triangulation) TrianglesOf(v int) []Triangle {
	out := make([]Triangle, 0, len(t.byVertex[v]))
	for _, idx := range t.byVertex[v] {
		out = append(out, t.Triangles[idx])
	}
	return out
}

// Mesh flattens the triangulation into a Mesh.
func (t *Triangulation) Mesh() Mesh {
	m := Mesh{
		Vertices:  make([]Vec3, len(t.Vertices)),
		Triangles: make([]int, 0, 3*len(t.Triangles)),
	}
	copy(m.Vertices, t.Vertices)
	for _, tri := range t.Triangles {
		m.Triangles = append(m.Triangles, tri[0], tri[1], tri[2])
	}
	return m
}
