package cavemap

// WallNeighbors counts walls among the 8 neighbours of (x, y). Off-grid
// neighbours count as walls.
func (g *Grid) WallNeighbors(x, y int) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if g.IsWall(x+dx, y+dy) {
				count++
			}
		}
	}
	return count
}

// Smooth runs passes automaton steps over g. A cell with more than threshold
// wall neighbours becomes wall, fewer becomes space, exactly threshold keeps
// its state. Each pass reads only the previous pass's snapshot.
func Smooth(g *Grid, threshold, passes int) {
	if passes <= 0 || len(g.cells) == 0 {
		return
	}
	snapshot := &Grid{width: g.width, height: g.height, cells: make([]CellState, len(g.cells))}

	for pass := 0; pass < passes; pass++ {
		copy(snapshot.cells, g.cells)

		for y := 0; y < g.height; y++ {
			for x := 0; x < g.width; x++ {
				walls := snapshot.WallNeighbors(x, y)
				if walls > threshold {
					g.cells[y*g.width+x] = Wall
				} else if walls < threshold {
					g.cells[y*g.width+x] = Space
				}
			}
		}
	}
}
