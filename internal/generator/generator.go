// Package generator runs the cave pipeline end to end: fill, smooth, prune,
// connect, pad and mesh. Each stage completes before the next starts.
package generator

import (
	"math/rand"
	"time"

	"github.com/lawnchairsociety/cavemesh/internal/cavemap"
	"github.com/lawnchairsociety/cavemesh/internal/logger"
	"github.com/lawnchairsociety/cavemesh/internal/marching"
)

// RoomSummary describes one room of the final cave.
type RoomSummary struct {
	Size        int   `yaml:"size" json:"size"`
	EdgeTiles   int   `yaml:"edge_tiles" json:"edge_tiles"`
	Main        bool  `yaml:"main" json:"main"`
	Reachable   bool  `yaml:"reachable" json:"reachable"`
	Connections []int `yaml:"connections" json:"connections"`
}

// Result is the output of one generation run.
type Result struct {
	Params      Params
	Seed        string // resolved seed, differs from Params.Seed in random mode
	Grid        *cavemap.Grid
	Fingerprint string

	Floor    marching.Mesh
	Walls    marching.Mesh
	Outlines [][]int

	Rooms    []RoomSummary
	Passages int

	// Empty is set when pruning left no rooms. Meshes are empty and Generate
	// also returns ErrEmptyRoomSet.
	Empty bool
}

// Generator holds the injectable sources of a run. A Generator carries no
// per-run state; each Generate call builds a fresh pipeline.
type Generator struct {
	clock   func() time.Time
	newRand func(seed string) *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the clock used to derive seeds in random-seed mode.
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) {
		g.clock = clock
	}
}

// WithRandSource sets the factory that turns a seed string into a source.
func WithRandSource(newRand func(seed string) *rand.Rand) Option {
	return func(g *Generator) {
		g.newRand = newRand
	}
}

// New creates a generator using the wall clock and blake2b seed hashing.
func New(opts ...Option) *Generator {
	g := &Generator{
		clock:   time.Now,
		newRand: cavemap.SeedRand,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ResolveSeed returns the seed a run with p would use.
func (g *Generator) ResolveSeed(p Params) string {
	if p.UseRandomSeed {
		return g.clock().UTC().Format(time.RFC3339Nano)
	}
	return p.Seed
}

// Generate validates p and runs the pipeline. Invalid parameters fail before
// any grid is allocated. When no room survives pruning the returned Result
// holds the padded grid with Empty set, alongside ErrEmptyRoomSet.
func (g *Generator) Generate(p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	seed := g.ResolveSeed(p)
	rng := g.newRand(seed)

	done := logger.Stage("fill", "seed", seed)
	grid := cavemap.NewGrid(p.Width, p.Height)
	cavemap.FillMap(grid, p.FillPercent, rng)
	done("walls", grid.Count(cavemap.Wall))

	done = logger.Stage("smooth", "seed", seed)
	cavemap.Smooth(grid, p.Smoothness, p.SmoothPasses)
	done("walls", grid.Count(cavemap.Wall), "space", grid.Count(cavemap.Space))

	done = logger.Stage("prune", "seed", seed)
	rooms := cavemap.PruneRegions(grid, cavemap.PruneOptions{
		PruneWalls:    p.PruneWalls,
		WallTolerance: p.WallTolerance,
		PruneRooms:    p.PruneRooms,
		RoomTolerance: p.RoomTolerance,
	})
	done("rooms", len(rooms))

	result := &Result{Params: p, Seed: seed}

	if len(rooms) == 0 {
		result.Grid = cavemap.Pad(grid, p.BorderSize)
		result.Fingerprint = result.Grid.Fingerprint()
		result.Empty = true
		logger.Warning("cave has no rooms", "seed", seed)
		return result, ErrEmptyRoomSet
	}

	graph := cavemap.BuildRooms(grid, rooms)
	if p.ConnectRooms {
		done = logger.Stage("connect", "seed", seed)
		cavemap.Connect(grid, graph)
		done("passages", len(graph.Passages))
	}
	result.Rooms = summarize(graph)
	result.Passages = len(graph.Passages)

	result.Grid = cavemap.Pad(grid, p.BorderSize)
	result.Fingerprint = result.Grid.Fingerprint()

	done = logger.Stage("mesh", "seed", seed)
	mesh := marching.Build(result.Grid, p.SquareSize, p.WallHeight)
	result.Floor = mesh.Floor
	result.Walls = mesh.Walls
	result.Outlines = mesh.Outlines
	done("floor_vertices", len(mesh.Floor.Vertices), "floor_triangles", mesh.Floor.TriangleCount(),
		"wall_vertices", len(mesh.Walls.Vertices), "outlines", len(mesh.Outlines))

	logger.Info("cave generated",
		"seed", seed,
		"size", result.Grid.Width()*result.Grid.Height(),
		"rooms", len(result.Rooms),
		"passages", result.Passages,
		"fingerprint", result.Fingerprint)

	return result, nil
}

func summarize(rg *cavemap.RoomGraph) []RoomSummary {
	out := make([]RoomSummary, len(rg.Rooms))
	for i := range rg.Rooms {
		r := &rg.Rooms[i]
		out[i] = RoomSummary{
			Size:        r.Size,
			EdgeTiles:   len(r.EdgeTiles),
			Main:        r.IsMain,
			Reachable:   r.Reachable,
			Connections: r.Connections(),
		}
	}
	return out
}

// Generate runs p with a default Generator.
func Generate(p Params) (*Result, error) {
	return New().Generate(p)
}
