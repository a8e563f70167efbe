// cavemigrate copies the run catalog from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/cavemigrate \
//	    -sqlite data/caves.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user caves \
//	    -pg-password caves \
//	    -pg-database caves
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/lawnchairsociety/cavemesh/internal/database"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/caves.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "caves", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "caves", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "caves", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be copied without making changes")
	flag.Parse()

	log.Println("Run catalog migration")
	log.Println("=====================")

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	pg := database.DefaultPostgresConfig()
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	// Opening runs the schema migration on PostgreSQL.
	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", pg.User, pg.Host, pg.Port, pg.Database)
	dst, err := database.OpenWithConfig(database.Config{
		Driver:   string(database.DialectPostgres),
		Postgres: pg,
	})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	copied, skipped, err := copyRuns(src, dst, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("=====================")
	log.Printf("Migration complete! Copied %d runs, skipped %d already present", copied, skipped)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}

// copyRuns inserts every run of src into dst, oldest first. A run already in
// dst with the same fingerprint, seed and creation time is skipped, so the
// copy can be repeated.
func copyRuns(src, dst *database.Database, dryRun bool) (copied, skipped int, err error) {
	runs, err := src.ListRuns(0)
	if err != nil {
		return 0, 0, err
	}

	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]

		present, err := hasRun(dst, run)
		if err != nil {
			return copied, skipped, err
		}
		if present {
			skipped++
			continue
		}

		if !dryRun {
			srcID := run.ID
			if _, err := dst.RecordRun(run); err != nil {
				return copied, skipped, fmt.Errorf("run %d: %w", srcID, err)
			}
		}
		copied++
	}
	return copied, skipped, nil
}

func hasRun(db *database.Database, run *database.Run) (bool, error) {
	existing, err := db.FindByFingerprint(run.Fingerprint)
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if e.Seed == run.Seed && e.CreatedAt.Equal(run.CreatedAt) {
			return true, nil
		}
	}
	return false, nil
}
