package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const memoryPath = ":memory:"

// SQLiteDialect is the embedded catalog used by default, backed by
// modernc.org/sqlite.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string { return "sqlite" }

func (d *SQLiteDialect) DSN(cfg Config) (string, error) {
	if cfg.SQLitePath == "" {
		return "", errors.New("database: sqlite path is empty")
	}
	if cfg.SQLitePath != memoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return "", fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return cfg.SQLitePath, nil
}

// Configure allows a single connection. cavegen and caveserver may share one
// file, and one writer at a time avoids SQLITE_BUSY.
func (d *SQLiteDialect) Configure(db *sql.DB, cfg Config) {
	db.SetMaxOpenConns(1)
}

func (d *SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

func (d *SQLiteDialect) Rebind(query string) string { return query }

func (d *SQLiteDialect) SerialKey() string { return "INTEGER PRIMARY KEY AUTOINCREMENT" }

func (d *SQLiteDialect) InsertID(db *sql.DB, query, key string, args ...any) (int64, error) {
	res, err := db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
