// Package dbdriver is the dialect driver boundary (spec §5): the thin
// layer between the query executor and a concrete SQL engine. A
// Driver executes already-bound SQL text (see internal/querysql),
// never a parameterized statement — the catalog's templates are
// textually substituted before they reach here.
package dbdriver

import (
	"context"
	"database/sql"
)

// Row is one row of a RecordSet, column values in the order the
// SELECT listed them. Integer columns decode as int64, real columns
// as float64, text columns as string; NULL decodes as nil.
type Row []any

// RecordSet is the result of a SELECT, handed back to the executor
// layer for scanning into domain types.
type RecordSet struct {
	Columns []string
	Rows    []Row
}

// Tx is an in-flight transaction. Every multi-statement operation in
// the executor and metadata access object layers runs inside exactly
// one Tx (spec §4.3, §9: "run inside a single transaction").
type Tx interface {
	// Exec runs a non-SELECT statement (CREATE/INSERT/UPDATE/ALTER) and
	// reports the number of rows affected.
	Exec(ctx context.Context, sql string) (rowsAffected int64, err error)

	// Query runs a SELECT and buffers the full result.
	Query(ctx context.Context, sql string) (*RecordSet, error)

	// LastInsertID returns the autoincrement id of the most recent
	// successful Exec insert on this Tx, per the dialect's own idiom
	// (last_insert_rowid() vs LAST_INSERT_ID()).
	LastInsertID(ctx context.Context) (int64, error)

	Commit() error
	Rollback() error
}

// Driver opens and manages connections to one backing SQL engine.
// SQLite and MySQL are the two shipped implementations (spec §5);
// Fake backs tests with an in-memory SQLite database.
type Driver interface {
	// Begin starts a new transaction. All statements within it run
	// against the same underlying connection.
	Begin(ctx context.Context) (Tx, error)

	// EscapeString dialect-escapes a string for safe embedding inside a
	// single-quoted SQL literal (internal/querysql.Escaper).
	EscapeString(s string) string

	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error

	Close() error
}

// sqlTx adapts database/sql's *sql.Tx to the Tx interface. Both the
// SQLite and MySQL drivers share this: the only dialect-specific
// pieces are the DSN, the driver name, and EscapeString.
type sqlTx struct {
	tx              *sql.Tx
	lastInsertIDSQL string
}

func (t *sqlTx) Exec(ctx context.Context, query string) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *sqlTx) Query(ctx context.Context, query string) (*RecordSet, error) {
	rows, err := t.tx.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &RecordSet{Columns: cols}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rs.Rows = append(rs.Rows, Row(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}

func (t *sqlTx) LastInsertID(ctx context.Context) (int64, error) {
	var id int64
	row := t.tx.QueryRowContext(ctx, t.lastInsertIDSQL)
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (t *sqlTx) Commit() error   { return t.tx.Commit() }
func (t *sqlTx) Rollback() error { return t.tx.Rollback() }
