package main

import (
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/cavemesh/internal/database"
	"github.com/lawnchairsociety/cavemesh/internal/generator"
)

func openTestDB(t *testing.T, name string) *database.Database {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("Failed to open %s: %v", name, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func record(t *testing.T, db *database.Database, seed, fp string) {
	t.Helper()
	p := generator.DefaultParams()
	p.Seed = seed
	if _, err := db.RecordRun(&database.Run{Seed: seed, Params: p, Fingerprint: fp}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
}

func TestCopyRuns(t *testing.T) {
	src := openTestDB(t, "src.db")
	dst := openTestDB(t, "dst.db")

	record(t, src, "first", "fp-a")
	record(t, src, "second", "fp-b")
	record(t, src, "third", "fp-a")

	copied, skipped, err := copyRuns(src, dst, false)
	if err != nil {
		t.Fatalf("copyRuns: %v", err)
	}
	if copied != 3 || skipped != 0 {
		t.Fatalf("copied %d skipped %d, want 3 and 0", copied, skipped)
	}

	runs, err := dst.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("dst has %d runs, want 3", len(runs))
	}
	// Newest first, so insertion order was preserved.
	if runs[0].Seed != "third" || runs[2].Seed != "first" {
		t.Errorf("order = %s, %s, %s", runs[0].Seed, runs[1].Seed, runs[2].Seed)
	}

	copied, skipped, err = copyRuns(src, dst, false)
	if err != nil {
		t.Fatalf("second copyRuns: %v", err)
	}
	if copied != 0 || skipped != 3 {
		t.Errorf("repeat copied %d skipped %d, want 0 and 3", copied, skipped)
	}
}

func TestCopyRunsDryRun(t *testing.T) {
	src := openTestDB(t, "src.db")
	dst := openTestDB(t, "dst.db")
	record(t, src, "only", "fp-a")

	copied, _, err := copyRuns(src, dst, true)
	if err != nil {
		t.Fatalf("copyRuns: %v", err)
	}
	if copied != 1 {
		t.Errorf("copied = %d, want 1", copied)
	}
	if n, _ := dst.CountRuns(); n != 0 {
		t.Errorf("dry run wrote %d runs", n)
	}
}
