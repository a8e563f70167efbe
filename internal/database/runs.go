package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/cavemesh/internal/generator"
)

// ErrRunNotFound is returned when a run lookup fails.
var ErrRunNotFound = errors.New("run not found")

// Run is one catalogued generation.
type Run struct {
	ID     int64
	Seed   string // resolved seed
	Params generator.Params

	RoomCount      int
	PassageCount   int
	FloorVertices  int
	FloorTriangles int
	WallVertices   int
	WallTriangles  int
	OutlineCount   int
	Fingerprint    string
	Empty          bool
	CreatedAt      time.Time
}

// RunFromResult captures the statistics of a generation result.
func RunFromResult(res *generator.Result) *Run {
	return &Run{
		Seed:           res.Seed,
		Params:         res.Params,
		RoomCount:      len(res.Rooms),
		PassageCount:   res.Passages,
		FloorVertices:  len(res.Floor.Vertices),
		FloorTriangles: res.Floor.TriangleCount(),
		WallVertices:   len(res.Walls.Vertices),
		WallTriangles:  res.Walls.TriangleCount(),
		OutlineCount:   len(res.Outlines),
		Fingerprint:    res.Fingerprint,
		Empty:          res.Empty,
	}
}

// ReplayParams returns parameters that regenerate this run exactly: the
// resolved seed with random-seed mode off.
func (r *Run) ReplayParams() generator.Params {
	p := r.Params
	p.Seed = r.Seed
	p.UseRandomSeed = false
	return p
}

const runColumns = `id, seed, width, height, fill_percent, smoothness, smooth_passes,
	prune_walls, wall_tolerance, prune_rooms, room_tolerance, connect_rooms,
	border_size, square_size, wall_height, room_count, passage_count,
	floor_vertices, floor_triangles, wall_vertices, wall_triangles,
	outline_count, fingerprint, empty, created_at`

// RecordRun inserts run and sets its ID. CreatedAt is stamped with the
// current time unless already set, so copied runs keep their original time.
func (d *Database) RecordRun(run *Run) (int64, error) {
	if run.Fingerprint == "" {
		return 0, errors.New("run has no fingerprint")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	p := run.Params

	query := `INSERT INTO cave_runs (
		seed, width, height, fill_percent, smoothness, smooth_passes,
		prune_walls, wall_tolerance, prune_rooms, room_tolerance, connect_rooms,
		border_size, square_size, wall_height, room_count, passage_count,
		floor_vertices, floor_triangles, wall_vertices, wall_triangles,
		outline_count, fingerprint, empty, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := []any{
		run.Seed, p.Width, p.Height, p.FillPercent, p.Smoothness, p.SmoothPasses,
		p.PruneWalls, p.WallTolerance, p.PruneRooms, p.RoomTolerance, p.ConnectRooms,
		p.BorderSize, p.SquareSize, p.WallHeight, run.RoomCount, run.PassageCount,
		run.FloorVertices, run.FloorTriangles, run.WallVertices, run.WallTriangles,
		run.OutlineCount, run.Fingerprint, run.Empty, run.CreatedAt,
	}

	id, err := d.dialect.InsertID(d.db, query, "id", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}

	run.ID = id
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	p := &r.Params
	err := row.Scan(
		&r.ID, &r.Seed, &p.Width, &p.Height, &p.FillPercent, &p.Smoothness, &p.SmoothPasses,
		&p.PruneWalls, &p.WallTolerance, &p.PruneRooms, &p.RoomTolerance, &p.ConnectRooms,
		&p.BorderSize, &p.SquareSize, &p.WallHeight, &r.RoomCount, &r.PassageCount,
		&r.FloorVertices, &r.FloorTriangles, &r.WallVertices, &r.WallTriangles,
		&r.OutlineCount, &r.Fingerprint, &r.Empty, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Seed = r.Seed
	return &r, nil
}

// GetRun returns the run with the given ID.
func (d *Database) GetRun(id int64) (*Run, error) {
	row := d.db.QueryRow(d.dialect.Rebind("SELECT "+runColumns+" FROM cave_runs WHERE id = ?"), id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", id, err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit of 0 or less
// returns every run.
func (d *Database) ListRuns(limit int) ([]*Run, error) {
	query := "SELECT " + runColumns + " FROM cave_runs ORDER BY id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return d.queryRuns(d.dialect.Rebind(query), args...)
}

// FindByFingerprint returns every run whose padded grid had fingerprint fp,
// oldest first.
func (d *Database) FindByFingerprint(fp string) ([]*Run, error) {
	return d.queryRuns(d.dialect.Rebind("SELECT "+runColumns+" FROM cave_runs WHERE fingerprint = ? ORDER BY id"), fp)
}

// CountRuns returns the number of catalogued runs.
func (d *Database) CountRuns() (int, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM cave_runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

// DeleteRun removes a run.
func (d *Database) DeleteRun(id int64) error {
	result, err := d.db.Exec(d.dialect.Rebind("DELETE FROM cave_runs WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete run %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run %d: %w", id, err)
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (d *Database) queryRuns(query string, args ...any) ([]*Run, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}
