package database

import (
	"database/sql"
	"strconv"
	"strings"
)

// PostgresDialect is the shared catalog, backed by lib/pq.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) DSN(cfg Config) (string, error) {
	return cfg.Postgres.DSN(), nil
}

func (d *PostgresDialect) Configure(db *sql.DB, cfg Config) {
	pg := cfg.Postgres
	if pg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pg.MaxOpenConns)
	}
	if pg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pg.MaxIdleConns)
	}
	if pg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pg.ConnMaxLifetime)
	}
}

func (d *PostgresDialect) InitStatements() []string {
	return []string{"SET TIME ZONE 'UTC'"}
}

// Rebind numbers ? placeholders as $1, $2, ... Question marks inside single
// quoted literals are left alone.
//
//	"SELECT * FROM cave_runs WHERE seed = ? AND width = ?"
//	"SELECT * FROM cave_runs WHERE seed = $1 AND width = $2"
func (d *PostgresDialect) Rebind(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (d *PostgresDialect) SerialKey() string { return "BIGSERIAL PRIMARY KEY" }

// InsertID appends RETURNING key, since lib/pq does not implement
// LastInsertId.
func (d *PostgresDialect) InsertID(db *sql.DB, query, key string, args ...any) (int64, error) {
	var id int64
	err := db.QueryRow(d.Rebind(query)+" RETURNING "+key, args...).Scan(&id)
	return id, err
}
