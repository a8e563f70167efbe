// Package marching converts an occupancy grid into a triangulated surface
// mesh with marching squares, traces the mesh outlines and extrudes them into
// a wall skirt.
package marching

// Vec3 is a world-space position.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

// Cross returns the cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

var (
	up      = Vec3{0, 1, 0}
	right   = Vec3{1, 0, 0}
	forward = Vec3{0, 0, 1}
)

// Mesh is a polygon soup: vertex positions and a flat list of triangle
// indices, three per triangle.
type Mesh struct {
	Vertices  []Vec3 `json:"vertices"`
	Triangles []int  `json:"triangles"`
}

// TriangleCount returns the number of triangles in the mesh.
func (m Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// Empty reports whether the mesh has no triangles.
func (m Mesh) Empty() bool {
	return len(m.Triangles) == 0
}

// Occupancy is the grid the mesher samples. (0,0) is the bottom-left cell.
type Occupancy interface {
	Width() int
	Height() int
	IsWall(x, y int) bool
}

// Result holds the meshes built from one grid.
type Result struct {
	Floor    Mesh
	Walls    Mesh
	Outlines [][]int // boundary loops of Floor vertex indices
}

// Build runs the full meshing pass: square grid, triangulation, outline
// tracing and wall extrusion.
func Build(grid Occupancy, squareSize, wallHeight float64) *Result {
	squares := NewSquareGrid(grid, squareSize)
	tri := Triangulate(squares)
	outlines := tri.Outlines()

	return &Result{
		Floor:    tri.Mesh(),
		Walls:    ExtrudeWalls(tri.Vertices, outlines, wallHeight),
		Outlines: outlines,
	}
}
