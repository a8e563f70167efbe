// Command cavegen generates one cave, prints a preview and optionally exports
// its meshes and records the run.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/lawnchairsociety/cavemesh/internal/config"
	"github.com/lawnchairsociety/cavemesh/internal/database"
	"github.com/lawnchairsociety/cavemesh/internal/export"
	"github.com/lawnchairsociety/cavemesh/internal/generator"
	"github.com/lawnchairsociety/cavemesh/internal/logger"
	"github.com/lawnchairsociety/cavemesh/internal/preview"
)

func main() {
	opts, err := parseFlags(os.Args[0], os.Args[1:], flag.ExitOnError)
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if err := logger.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	p := opts.apply(cfg.Generation)

	var db *database.Database
	if opts.needsStore(cfg.Store.Enabled) {
		db, err = database.OpenWithConfig(cfg.Store.Config)
		if err != nil {
			fatalf("failed to open run store: %v", err)
		}
		defer db.Close()
	}

	if opts.list >= 0 {
		if err := listRuns(os.Stdout, db, opts.list); err != nil {
			fatalf("%v", err)
		}
		return
	}

	if opts.replay != 0 {
		run, err := db.GetRun(opts.replay)
		if err != nil {
			fatalf("failed to load run %d: %v", opts.replay, err)
		}
		p = run.ReplayParams()
		logger.Info("Replaying run", "id", run.ID, "seed", run.Seed, "fingerprint", run.Fingerprint)
	}

	res, err := generator.New().Generate(p)
	switch {
	case errors.Is(err, generator.ErrEmptyRoomSet):
		fmt.Fprintln(os.Stderr, "Warning: no rooms survived pruning, meshes are empty")
	case err != nil:
		fatalf("generation failed: %v", err)
	}

	if !opts.noPreview {
		fmt.Print(preview.Render(res.Grid, preview.Options{
			Color:    preview.IsTerminal(),
			MaxWidth: preview.TerminalWidth(),
		}))
	}

	fmt.Printf("seed=%q size=%dx%d rooms=%d passages=%d floor=%dv/%dt walls=%dv/%dt outlines=%d\n",
		res.Seed, res.Grid.Width(), res.Grid.Height(), len(res.Rooms), res.Passages,
		len(res.Floor.Vertices), res.Floor.TriangleCount(),
		len(res.Walls.Vertices), res.Walls.TriangleCount(), len(res.Outlines))
	fmt.Printf("fingerprint=%s\n", res.Fingerprint)

	if opts.outDir != "" {
		paths, err := export.WriteOBJFiles(opts.outDir, res.Floor, res.Walls)
		if err != nil {
			fatalf("failed to export meshes: %v", err)
		}
		manifest := filepath.Join(opts.outDir, "cave.yaml")
		if err := export.WriteManifest(manifest, res); err != nil {
			fatalf("failed to write manifest: %v", err)
		}
		paths = append(paths, manifest)
		for _, path := range paths {
			fmt.Printf("wrote %s\n", path)
		}
	}

	if db != nil && opts.replay == 0 {
		id, err := db.RecordRun(database.RunFromResult(res))
		if err != nil {
			fatalf("failed to record run: %v", err)
		}
		fmt.Printf("recorded run %d\n", id)
	}
}

func listRuns(out io.Writer, db *database.Database, limit int) error {
	runs, err := db.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEED\tSIZE\tROOMS\tTRIANGLES\tFINGERPRINT\tCREATED")
	for _, run := range runs {
		fp := run.Fingerprint
		if len(fp) > 12 {
			fp = fp[:12]
		}
		fmt.Fprintf(w, "%d\t%s\t%dx%d\t%d\t%d\t%s\t%s\n",
			run.ID, run.Seed, run.Params.Width, run.Params.Height, run.RoomCount,
			run.FloorTriangles+run.WallTriangles, fp, run.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func fatalf(format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...))
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	logger.Close()
	os.Exit(1)
}
