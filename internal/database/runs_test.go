package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lawnchairsociety/cavemesh/internal/generator"
)

func setupTestDB(t *testing.T) *Database {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func testRun(seed, fingerprint string) *Run {
	p := generator.DefaultParams()
	p.Seed = seed
	return &Run{
		Seed:           seed,
		Params:         p,
		RoomCount:      4,
		PassageCount:   3,
		FloorVertices:  1200,
		FloorTriangles: 1800,
		WallVertices:   640,
		WallTriangles:  320,
		OutlineCount:   5,
		Fingerprint:    fingerprint,
	}
}

func TestRecordAndGetRun(t *testing.T) {
	db := setupTestDB(t)

	run := testRun("granite", "fp-1")
	run.Params.SquareSize = 0.5
	run.Params.PruneRooms = false

	id, err := db.RecordRun(run)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if id == 0 || run.ID != id {
		t.Fatalf("RecordRun id = %d, run.ID = %d", id, run.ID)
	}

	got, err := db.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Seed != "granite" || got.Fingerprint != "fp-1" {
		t.Errorf("got seed %q fingerprint %q", got.Seed, got.Fingerprint)
	}
	if got.Params != run.Params {
		t.Errorf("params = %+v, want %+v", got.Params, run.Params)
	}
	if got.FloorTriangles != 1800 || got.OutlineCount != 5 || got.PassageCount != 3 {
		t.Errorf("stats not round-tripped: %+v", got)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, run.CreatedAt)
	}
}

func TestRecordRunKeepsCreatedAt(t *testing.T) {
	db := setupTestDB(t)

	stamp := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	run := testRun("basalt", "fp-old")
	run.CreatedAt = stamp

	id, err := db.RecordRun(run)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	got, err := db.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !got.CreatedAt.Equal(stamp) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, stamp)
	}
}

func TestGetRunNotFound(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.GetRun(42); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestRecordRunRequiresFingerprint(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.RecordRun(testRun("x", "")); err == nil {
		t.Error("expected error for run without fingerprint")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	for _, seed := range []string{"a", "b", "c"} {
		if _, err := db.RecordRun(testRun(seed, "fp-"+seed)); err != nil {
			t.Fatalf("RecordRun(%s): %v", seed, err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].Seed != "c" || runs[1].Seed != "b" {
		t.Fatalf("ListRuns(2) seeds = %v", seeds(runs))
	}

	all, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListRuns(0) returned %d runs, want 3", len(all))
	}
}

func TestFindByFingerprint(t *testing.T) {
	db := setupTestDB(t)
	for _, r := range []*Run{testRun("a", "same"), testRun("b", "other"), testRun("c", "same")} {
		if _, err := db.RecordRun(r); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := db.FindByFingerprint("same")
	if err != nil {
		t.Fatalf("FindByFingerprint: %v", err)
	}
	if len(runs) != 2 || runs[0].Seed != "a" || runs[1].Seed != "c" {
		t.Errorf("FindByFingerprint seeds = %v", seeds(runs))
	}

	none, err := db.FindByFingerprint("missing")
	if err != nil {
		t.Fatalf("FindByFingerprint: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no runs, got %d", len(none))
	}
}

func TestCountAndDeleteRuns(t *testing.T) {
	db := setupTestDB(t)
	id, err := db.RecordRun(testRun("a", "fp"))
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	if n, err := db.CountRuns(); err != nil || n != 1 {
		t.Fatalf("CountRuns() = %d, %v", n, err)
	}
	if err := db.DeleteRun(id); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if err := db.DeleteRun(id); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("second DeleteRun error = %v, want ErrRunNotFound", err)
	}
	if n, _ := db.CountRuns(); n != 0 {
		t.Errorf("CountRuns() = %d after delete", n)
	}
}

func TestRecordGeneratedRunAndReplay(t *testing.T) {
	db := setupTestDB(t)

	p := generator.DefaultParams()
	p.Width, p.Height = 48, 32
	p.Seed = "replay"
	res, err := generator.New().Generate(p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	id, err := db.RecordRun(RunFromResult(res))
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	stored, err := db.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}

	again, err := generator.New().Generate(stored.ReplayParams())
	if err != nil {
		t.Fatalf("Generate replay: %v", err)
	}
	if again.Fingerprint != stored.Fingerprint {
		t.Errorf("replayed fingerprint %s, want %s", again.Fingerprint, stored.Fingerprint)
	}
	if stored.FloorVertices != len(res.Floor.Vertices) || stored.RoomCount != len(res.Rooms) {
		t.Errorf("stored stats %+v do not match result", stored)
	}
}

func TestOpenWithConfigEmptySQLitePath(t *testing.T) {
	if _, err := OpenWithConfig(Config{Driver: "sqlite"}); err == nil {
		t.Error("expected error for empty sqlite path")
	}
}

func seeds(runs []*Run) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.Seed
	}
	return out
}
