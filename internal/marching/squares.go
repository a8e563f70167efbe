package marching

const unassigned = -1

// node is a mesh point candidate. vertex is the index in the output vertex
// list, assigned the first time a triangle uses the node.
type node struct {
	pos    Vec3
	vertex int
}

// Square is one marching square. Corner and edge fields are indices into the
// owning SquareGrid's node arena; edge nodes are shared with the neighbouring
// squares that touch the same midpoint.
type Square struct {
	TopLeft, TopRight, BottomRight, BottomLeft       int
	CentreTop, CentreRight, CentreBottom, CentreLeft int

	// Configuration sums 8, 4, 2, 1 for active top-left, top-right,
	// bottom-right and bottom-left corners.
	Configuration uint8
}

// SquareGrid holds the node arena and the (W-1) x (H-1) squares of a W x H
// grid. Every grid cell owns three nodes: its control node and the midpoints
// above and to the right of it.
type SquareGrid struct {
	nodes  []node
	active []bool // per control node
	width  int    // control nodes per row
	height int
	cols   int
	rows   int

	squares []Square
}

func controlIndex(cell int) int { return 3 * cell }
func aboveIndex(cell int) int { return 3*cell + 1 }
func rightIndex(cell int) int { return 3*cell + 2 }

// NewSquareGrid samples grid at cell centres. The grid is centred on the
// origin in the XZ plane at y = 0, x growing with column and z with row.
func NewSquareGrid(grid Occupancy, squareSize float64) *SquareGrid {
	nodeCountX := grid.Width()
	nodeCountY := grid.Height()
	mapWidth := float64(nodeCountX) * squareSize
	mapHeight := float64(nodeCountY) * squareSize
	half := squareSize / 2

	sg := &SquareGrid{
		nodes:  make([]node, 3*nodeCountX*nodeCountY),
		active: make([]bool, nodeCountX*nodeCountY),
		width:  nodeCountX,
		height: nodeCountY,
	}

	for y := 0; y < nodeCountY; y++ {
		for x := 0; x < nodeCountX; x++ {
			cell := y*nodeCountX + x
			pos := Vec3{
				X: -mapWidth/2 + float64(x)*squareSize + half,
				Z: -mapHeight/2 + float64(y)*squareSize + half,
			}
			sg.active[cell] = grid.IsWall(x, y)
			sg.nodes[controlIndex(cell)] = node{pos: pos, vertex: unassigned}
			sg.nodes[aboveIndex(cell)] = node{pos: pos.Add(forward.Scale(half)), vertex: unassigned}
			sg.nodes[rightIndex(cell)] = node{pos: pos.Add(right.Scale(half)), vertex: unassigned}
		}
	}

	if nodeCountX < 2 || nodeCountY < 2 {
		return sg
	}

	sg.cols = nodeCountX - 1
	sg.rows = nodeCountY - 1
	sg.squares = make([]Square, 0, sg.cols*sg.rows)

	for x := 0; x < sg.cols; x++ {
		for y := 0; y < sg.rows; y++ {
			topLeft := (y+1)*nodeCountX + x
			topRight := (y+1)*nodeCountX + x + 1
			bottomRight := y*nodeCountX + x + 1
			bottomLeft := y*nodeCountX + x

			sq := Square{
				TopLeft:      controlIndex(topLeft),
				TopRight:     controlIndex(topRight),
				BottomRight:  controlIndex(bottomRight),
				BottomLeft:   controlIndex(bottomLeft),
				CentreTop:    rightIndex(topLeft),
				CentreRight:  aboveIndex(bottomRight),
				CentreBottom: rightIndex(bottomLeft),
				CentreLeft:   aboveIndex(bottomLeft),
			}
			if sg.active[topLeft] {
				sq.Configuration += 8
			}
			if sg.active[topRight] {
				sq.Configuration += 4
			}
			if sg.active[bottomRight] {
				sq.Configuration += 2
			}
			if sg.active[bottomLeft] {
				sq.Configuration += 1
			}
			sg.squares = append(sg.squares, sq)
		}
	}
	return sg
}

// onPerimeter reports whether control node n belongs to a cell on the outer
// ring of the grid.
func (sg *SquareGrid) onPerimeter(n int) bool {
	cell := n / 3
	x, y := cell%sg.width, cell/sg.width
	return x == 0 || y == 0 || x == sg.width-1 || y == sg.height-1
}

// Size returns the number of square columns and rows.
func (sg *SquareGrid) Size() (cols, rows int) {
	return sg.cols, sg.rows
}

// Squares returns the squares in column order (x outer, y inner).
func (sg *SquareGrid) Squares() []Square {
	return sg.squares
}

// Square returns the square whose bottom-left corner is grid cell (x, y).
func (sg *SquareGrid) Square(x, y int) Square {
	return sg.squares[x*sg.rows+y]
}

// Position returns the world position of a node.
func (sg *SquareGrid) Position(n int) Vec3 {
	return sg.nodes[n].pos
}
