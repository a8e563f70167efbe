package cavemap

import (
	"github.com/zyedidia/generic/queue"
)

// Region is a maximal 4-connected set of cells sharing one state. Tile order
// is the flood-fill visiting order and carries no meaning.
type Region []Coord

// cardinal offsets, used by flood fill and edge detection
var cardinal = [4]Coord{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// Regions returns every region of the given state. Regions are discovered in
// row-major scan order (y outer, x inner).
func Regions(g *Grid, state CellState) []Region {
	var regions []Region
	visited := make([]bool, len(g.cells))

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			idx := y*g.width + x
			if visited[idx] || g.cells[idx] != state {
				continue
			}
			regions = append(regions, g.floodFill(x, y, visited))
		}
	}
	return regions
}

// floodFill collects the region containing (startX, startY) breadth first and
// marks its cells in visited.
func (g *Grid) floodFill(startX, startY int, visited []bool) Region {
	state := g.At(startX, startY)
	var region Region

	q := queue.New[Coord]()
	q.Enqueue(Coord{startX, startY})
	visited[startY*g.width+startX] = true

	for !q.Empty() {
		tile := q.Dequeue()
		region = append(region, tile)

		for _, d := range cardinal {
			nx, ny := tile.X+d.X, tile.Y+d.Y
			if !g.InBounds(nx, ny) {
				continue
			}
			nidx := ny*g.width + nx
			if visited[nidx] || g.cells[nidx] != state {
				continue
			}
			visited[nidx] = true
			q.Enqueue(Coord{nx, ny})
		}
	}
	return region
}

// Fill sets every tile of the region to state.
func (r Region) Fill(g *Grid, state CellState) {
	for _, t := range r {
		g.Set(t.X, t.Y, state)
	}
}

// PruneOptions controls small-region removal.
type PruneOptions struct {
	PruneWalls    bool
	WallTolerance int // wall regions with fewer tiles become space
	PruneRooms    bool
	RoomTolerance int // space regions with fewer tiles become wall
}

// PruneRegions removes undersized wall regions, then undersized space regions,
// and returns the surviving space regions in scan order.
func PruneRegions(g *Grid, opts PruneOptions) []Region {
	if opts.PruneWalls {
		for _, r := range Regions(g, Wall) {
			if len(r) < opts.WallTolerance {
				r.Fill(g, Space)
			}
		}
	}

	var survivors []Region
	for _, r := range Regions(g, Space) {
		if opts.PruneRooms && len(r) < opts.RoomTolerance {
			r.Fill(g, Wall)
			continue
		}
		survivors = append(survivors, r)
	}
	return survivors
}
