package database

import "database/sql"

// Dialect covers what the run catalog needs to differ between SQLite and
// PostgreSQL: connecting, placeholder style, schema types and how an insert
// reports its new ID.
type Dialect interface {
	// DriverName returns the driver name for sql.Open().
	DriverName() string

	// DSN returns the data source name for cfg, preparing anything the
	// driver expects to exist (such as the SQLite file's directory).
	DSN(cfg Config) (string, error)

	// Configure applies connection pool settings after sql.Open.
	Configure(db *sql.DB, cfg Config)

	// InitStatements returns statements run once after connecting.
	InitStatements() []string

	// Rebind rewrites a query written with ? placeholders.
	Rebind(query string) string

	// SerialKey is the column definition of an auto-assigned primary key.
	SerialKey() string

	// InsertID executes an INSERT built with ? placeholders and returns the
	// value of the key column.
	InsertID(db *sql.DB, query, key string, args ...any) (int64, error)
}

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the dialect for t. Anything unrecognised is SQLite.
func NewDialect(t DialectType) Dialect {
	if t == DialectPostgres {
		return &PostgresDialect{}
	}
	return &SQLiteDialect{}
}
