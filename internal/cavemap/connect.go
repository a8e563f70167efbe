package cavemap

// CorridorRadius is the radius of the disc stamped along each corridor.
const CorridorRadius = 2

// candidate is the closest edge-tile pair found so far between two rooms
type candidate struct {
	found    bool
	distance int
	roomA    int
	roomB    int
	tileA    Coord
	tileB    Coord
}

// consider compares every edge-tile pair of rooms a and b against c. Only a
// strictly shorter distance replaces the current best, so the first pair in
// enumeration order wins ties.
func (c *candidate) consider(rg *RoomGraph, a, b int) {
	for _, ta := range rg.Rooms[a].EdgeTiles {
		for _, tb := range rg.Rooms[b].EdgeTiles {
			d := ta.DistanceSq(tb)
			if !c.found || d < c.distance {
				*c = candidate{found: true, distance: d, roomA: a, roomB: b, tileA: ta, tileB: tb}
			}
		}
	}
}

// Connect joins the rooms of rg and carves corridors into g. The free pass
// gives every room without connections a link to its nearest room; the forced
// pass then repeatedly links the closest unreachable/reachable pair until every
// room is reachable from the main room.
func Connect(g *Grid, rg *RoomGraph) {
	if len(rg.Rooms) == 0 {
		return
	}
	rg.connectNearest(g)
	rg.connectToMain(g)
}

func (rg *RoomGraph) connectNearest(g *Grid) {
	for a := range rg.Rooms {
		if rg.Rooms[a].ConnectionCount() > 0 {
			continue
		}
		var best candidate
		for b := range rg.Rooms {
			if a == b || rg.Rooms[a].IsConnected(b) {
				continue
			}
			best.consider(rg, a, b)
		}
		if best.found {
			rg.carve(g, best)
		}
	}
}

func (rg *RoomGraph) connectToMain(g *Grid) {
	for !rg.AllReachable() {
		var best candidate
		for a := range rg.Rooms {
			if rg.Rooms[a].Reachable {
				continue
			}
			for b := range rg.Rooms {
				if !rg.Rooms[b].Reachable {
					continue
				}
				best.consider(rg, a, b)
			}
		}
		if !best.found {
			// only possible when a room has no edge tiles
			return
		}
		rg.carve(g, best)
	}
}

// carve links the candidate rooms and opens a corridor between their tiles.
func (rg *RoomGraph) carve(g *Grid, c candidate) {
	rg.link(c.roomA, c.roomB)
	rg.Passages = append(rg.Passages, Passage{RoomA: c.roomA, RoomB: c.roomB, From: c.tileA, To: c.tileB})

	for _, p := range Line(c.tileA, c.tileB) {
		StampDisc(g, p, CorridorRadius)
	}
}

// Line returns the digital line from `from` to `to`, both ends included. The
// axis with the larger delta advances every step; the other advances whenever
// the accumulator, started at half the long delta, reaches the long delta.
func Line(from, to Coord) []Coord {
	x, y := from.X, from.Y
	dx := to.X - from.X
	dy := to.Y - from.Y

	inverted := false
	step := sign(dx)
	gradientStep := sign(dy)
	longest := abs(dx)
	shortest := abs(dy)

	if longest < shortest {
		inverted = true
		longest, shortest = shortest, longest
		step, gradientStep = gradientStep, step
	}

	line := make([]Coord, 0, longest+1)
	accumulation := longest / 2
	for i := 0; i <= longest; i++ {
		line = append(line, Coord{x, y})

		if inverted {
			y += step
		} else {
			x += step
		}

		accumulation += shortest
		if accumulation >= longest {
			if inverted {
				x += gradientStep
			} else {
				y += gradientStep
			}
			accumulation -= longest
		}
	}
	return line
}

// StampDisc sets every in-bounds cell within radius of centre to Space.
func StampDisc(g *Grid, centre Coord, radius int) {
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			g.Set(centre.X+dx, centre.Y+dy, Space)
		}
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
