package main

import (
	"flag"

	"github.com/lawnchairsociety/cavemesh/internal/generator"
)

// options holds the parsed command line. Generation flags override the
// config file only when they were set explicitly.
type options struct {
	fs *flag.FlagSet

	configFile string
	width      int
	height     int
	fill       int
	seed       string
	random     bool
	smoothness int
	passes     int
	border     int
	noConnect  bool
	squareSize float64
	wallHeight float64

	outDir    string
	noPreview bool
	record    bool
	list      int
	replay    int64
}

func parseFlags(name string, args []string, handling flag.ErrorHandling) (*options, error) {
	o := &options{fs: flag.NewFlagSet(name, handling)}
	fs := o.fs
	fs.StringVar(&o.configFile, "config", "config/cave.yaml", "Path to config YAML file")
	fs.IntVar(&o.width, "width", 0, "Grid width in cells")
	fs.IntVar(&o.height, "height", 0, "Grid height in cells")
	fs.IntVar(&o.fill, "fill", 0, "Initial wall fill percentage (0-100)")
	fs.StringVar(&o.seed, "seed", "", "Seed string")
	fs.BoolVar(&o.random, "random", false, "Derive the seed from the current time")
	fs.IntVar(&o.smoothness, "smoothness", 0, "Neighbour threshold for smoothing (0-8)")
	fs.IntVar(&o.passes, "passes", 0, "Smoothing passes (0-5)")
	fs.IntVar(&o.border, "border", 0, "Solid border thickness added around the cave")
	fs.BoolVar(&o.noConnect, "no-connect", false, "Skip room connection")
	fs.Float64Var(&o.squareSize, "square-size", 0, "World size of one mesh square")
	fs.Float64Var(&o.wallHeight, "wall-height", 0, "Wall extrusion height")
	fs.StringVar(&o.outDir, "out", "", "Directory for floor.obj, walls.obj and cave.yaml (empty to skip export)")
	fs.BoolVar(&o.noPreview, "no-preview", false, "Do not print the map preview")
	fs.BoolVar(&o.record, "record", false, "Record the run even if the store is disabled in config")
	fs.IntVar(&o.list, "list", -1, "List the N most recent recorded runs and exit (0 for all)")
	fs.Int64Var(&o.replay, "replay", 0, "Regenerate a recorded run by ID")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

// apply returns p with every explicitly set generation flag copied in.
// -seed turns random-seed mode off unless -random is also given.
func (o *options) apply(p generator.Params) generator.Params {
	random := false
	o.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			p.Width = o.width
		case "height":
			p.Height = o.height
		case "fill":
			p.FillPercent = o.fill
		case "seed":
			p.Seed = o.seed
			p.UseRandomSeed = false
		case "random":
			random = true
		case "smoothness":
			p.Smoothness = o.smoothness
		case "passes":
			p.SmoothPasses = o.passes
		case "border":
			p.BorderSize = o.border
		case "no-connect":
			p.ConnectRooms = !o.noConnect
		case "square-size":
			p.SquareSize = o.squareSize
		case "wall-height":
			p.WallHeight = o.wallHeight
		}
	})
	if random {
		p.UseRandomSeed = o.random
	}
	return p
}

// needsStore reports whether the run store has to be opened.
func (o *options) needsStore(storeEnabled bool) bool {
	return storeEnabled || o.record || o.list >= 0 || o.replay != 0
}
