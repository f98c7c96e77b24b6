package dbdriver

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDriver opens a connection pool against a MySQL/InnoDB server.
// Unlike SQLite, MySQL tolerates concurrent writers natively, so the
// pool is left at its default size.
type MySQLDriver struct {
	db *sql.DB
}

// OpenMySQL opens dsn, a standard go-sql-driver/mysql data source name
// (e.g. "user:pass@tcp(host:3306)/dbname?parseTime=true").
func OpenMySQL(dsn string) (*MySQLDriver, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("dbdriver: open mysql: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("dbdriver: ping mysql: %w", err)
	}
	return &MySQLDriver{db: db}, nil
}

func (d *MySQLDriver) Begin(ctx context.Context) (Tx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx, lastInsertIDSQL: "SELECT LAST_INSERT_ID()"}, nil
}

// EscapeString doubles embedded single quotes and neutralizes
// backslash escapes, matching MySQL's default (non-NO_BACKSLASH_ESCAPES)
// string literal parsing.
func (d *MySQLDriver) EscapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "'", "''")
}

func (d *MySQLDriver) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }
func (d *MySQLDriver) Close() error                   { return d.db.Close() }
