package cavemap

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/stack"
)

// Room is a surviving space region. Rooms live in a RoomGraph and refer to
// each other by index.
type Room struct {
	Tiles     Region
	EdgeTiles []Coord // tiles with at least one wall among their 4 neighbours
	Size      int
	IsMain    bool
	Reachable bool // reachable from the main room

	connections mapset.Set[int]
}

// IsConnected reports whether the room has a direct connection to other.
func (r *Room) IsConnected(other int) bool {
	return r.connections.Has(other)
}

// ConnectionCount returns the number of direct connections.
func (r *Room) ConnectionCount() int {
	return r.connections.Size()
}

// Connections returns the indices of directly connected rooms in ascending order.
func (r *Room) Connections() []int {
	out := make([]int, 0, r.connections.Size())
	r.connections.Each(func(i int) {
		out = append(out, i)
	})
	sort.Ints(out)
	return out
}

// newRoom derives edge tiles for region against g. Off-grid neighbours count
// as walls, and each tile is recorded at most once.
func newRoom(region Region, g *Grid) Room {
	room := Room{
		Tiles:       region,
		Size:        len(region),
		connections: mapset.New[int](),
	}
	for _, t := range region {
		for _, d := range cardinal {
			if g.IsWall(t.X+d.X, t.Y+d.Y) {
				room.EdgeTiles = append(room.EdgeTiles, t)
				break
			}
		}
	}
	return room
}

// Passage records a corridor carved between two rooms.
type Passage struct {
	RoomA, RoomB int
	From, To     Coord
}

// RoomGraph is the arena of rooms for one generation pass.
type RoomGraph struct {
	Rooms    []Room
	Passages []Passage
}

// BuildRooms wraps regions as rooms sorted by size, largest first (ties keep
// discovery order). The largest room is marked main and reachable.
func BuildRooms(g *Grid, regions []Region) *RoomGraph {
	graph := &RoomGraph{Rooms: make([]Room, 0, len(regions))}
	for _, r := range regions {
		graph.Rooms = append(graph.Rooms, newRoom(r, g))
	}
	sort.SliceStable(graph.Rooms, func(i, j int) bool {
		return graph.Rooms[i].Size > graph.Rooms[j].Size
	})
	if len(graph.Rooms) > 0 {
		graph.Rooms[0].IsMain = true
		graph.Rooms[0].Reachable = true
	}
	return graph
}

// Main returns the index of the main room, or -1 for an empty graph.
func (rg *RoomGraph) Main() int {
	for i := range rg.Rooms {
		if rg.Rooms[i].IsMain {
			return i
		}
	}
	return -1
}

// AllReachable reports whether every room is reachable from the main room.
func (rg *RoomGraph) AllReachable() bool {
	for i := range rg.Rooms {
		if !rg.Rooms[i].Reachable {
			return false
		}
	}
	return true
}

// link records a symmetric connection between a and b and spreads
// reachability from whichever side already has it.
func (rg *RoomGraph) link(a, b int) {
	ra, rb := &rg.Rooms[a], &rg.Rooms[b]
	ra.connections.Put(b)
	rb.connections.Put(a)

	if ra.Reachable {
		rg.markReachable(b)
	} else if rb.Reachable {
		rg.markReachable(a)
	}
}

// markReachable flags start and everything connected to it.
// Reachability is closed under connection, so an already reachable start has
// nothing left to spread to.
func (rg *RoomGraph) markReachable(start int) {
	if rg.Rooms[start].Reachable {
		return
	}
	rg.Rooms[start].Reachable = true

	work := stack.New[int]()
	work.Push(start)
	for work.Size() > 0 {
		i := work.Pop()
		rg.Rooms[i].connections.Each(func(n int) {
			if !rg.Rooms[n].Reachable {
				rg.Rooms[n].Reachable = true
				work.Push(n)
			}
		})
	}
}
