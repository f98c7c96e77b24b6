package dbdriver

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDriver opens a file-backed or in-memory SQLite database,
// configured as a single-writer store: WAL journaling, a busy timeout
// instead of an immediate SQLITE_BUSY, and foreign keys enabled.
type SQLiteDriver struct {
	db *sql.DB
}

// OpenSQLite opens path (use ":memory:" for an ephemeral database, the
// shape internal/clock.Fake-driven tests want).
func OpenSQLite(path string) (*SQLiteDriver, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("dbdriver: open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("dbdriver: ping sqlite: %w", err)
	}

	// A single pooled connection avoids SQLITE_BUSY races: concurrent
	// transactions wait for the connection instead of contending for
	// the database lock.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("dbdriver: %s: %w", pragma, err)
		}
	}

	return &SQLiteDriver{db: db}, nil
}

func (d *SQLiteDriver) Begin(ctx context.Context) (Tx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx, lastInsertIDSQL: "SELECT last_insert_rowid()"}, nil
}

func (d *SQLiteDriver) EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func (d *SQLiteDriver) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }
func (d *SQLiteDriver) Close() error                   { return d.db.Close() }
