package cavemap

// Pad embeds g in a frame of walls border cells thick. The result is a new
// (width+2*border) x (height+2*border) grid; g is not modified.
func Pad(g *Grid, border int) *Grid {
	if border < 0 {
		border = 0
	}
	padded := NewGrid(g.width+2*border, g.height+2*border)
	for y := 0; y < padded.height; y++ {
		for x := 0; x < padded.width; x++ {
			inside := x >= border && x < g.width+border && y >= border && y < g.height+border
			if inside {
				padded.cells[y*padded.width+x] = g.cells[(y-border)*g.width+(x-border)]
			} else {
				padded.cells[y*padded.width+x] = Wall
			}
		}
	}
	return padded
}
