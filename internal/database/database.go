// Package database is the run catalog: one row per generated cave holding its
// parameters, resolved seed, mesh statistics and grid fingerprint. The grid
// itself is never stored; a run is reproduced by regenerating it.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database wraps the SQL connection and the dialect used to talk to it.
type Database struct {
	db      *sql.DB
	dialect Dialect
}

// Open opens or creates the SQLite catalog at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the catalog described by cfg and runs migrations.
func OpenWithConfig(cfg Config) (*Database, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	dsn, err := dialect.DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	dialect.Configure(db, cfg)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialise database (%s): %w", stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the dialect in use.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// migrate creates the schema if it doesn't exist.
func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS cave_runs (
			id ` + d.dialect.SerialKey() + `,
			seed TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			fill_percent INTEGER NOT NULL,
			smoothness INTEGER NOT NULL,
			smooth_passes INTEGER NOT NULL,
			prune_walls BOOLEAN NOT NULL,
			wall_tolerance INTEGER NOT NULL,
			prune_rooms BOOLEAN NOT NULL,
			room_tolerance INTEGER NOT NULL,
			connect_rooms BOOLEAN NOT NULL,
			border_size INTEGER NOT NULL,
			square_size DOUBLE PRECISION NOT NULL,
			wall_height DOUBLE PRECISION NOT NULL,
			room_count INTEGER NOT NULL DEFAULT 0,
			passage_count INTEGER NOT NULL DEFAULT 0,
			floor_vertices INTEGER NOT NULL DEFAULT 0,
			floor_triangles INTEGER NOT NULL DEFAULT 0,
			wall_vertices INTEGER NOT NULL DEFAULT 0,
			wall_triangles INTEGER NOT NULL DEFAULT 0,
			outline_count INTEGER NOT NULL DEFAULT 0,
			fingerprint TEXT NOT NULL,
			empty BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_cave_runs_fingerprint ON cave_runs(fingerprint)`,
		`CREATE INDEX IF NOT EXISTS idx_cave_runs_seed ON cave_runs(seed)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}
