// Package executor is the Query Executor (spec §4.3): it binds typed
// values to a querycfg.Template, executes the result against a
// dbdriver.Tx, and translates driver errors into the mlmderr
// taxonomy. It also owns schema creation, schema-version probing, and
// the migration state machine.
package executor

import (
	"context"
	"strings"

	"github.com/unclerayray/ml-metadata/internal/dbdriver"
	"github.com/unclerayray/ml-metadata/internal/mlmderr"
	"github.com/unclerayray/ml-metadata/internal/querycfg"
	"github.com/unclerayray/ml-metadata/internal/querysql"
)

// Executor dispatches named queries against one open transaction. It
// is constructed fresh per transaction by the Store Façade — it holds
// no state beyond the tx, the catalog, and the driver's escaper, so
// nothing about it needs to survive past Commit/Rollback.
type Executor struct {
	Tx      dbdriver.Tx
	Catalog *querycfg.Catalog
	Esc     querysql.Escaper
}

// New constructs an Executor bound to an already-open transaction.
func New(tx dbdriver.Tx, catalog *querycfg.Catalog, esc querysql.Escaper) *Executor {
	return &Executor{Tx: tx, Catalog: catalog, Esc: esc}
}

// Exec runs a named non-SELECT template (insert_*, update_*,
// create_*, etc.) and returns the number of rows it affected.
func (e *Executor) Exec(ctx context.Context, name string, args ...any) (int64, error) {
	sql, err := e.bind(name, args...)
	if err != nil {
		return 0, err
	}
	n, err := e.Tx.Exec(ctx, sql)
	if err != nil {
		return 0, translateExecError(name, err)
	}
	return n, nil
}

// Query runs a named select_* template and returns its RecordSet.
func (e *Executor) Query(ctx context.Context, name string, args ...any) (*dbdriver.RecordSet, error) {
	sql, err := e.bind(name, args...)
	if err != nil {
		return nil, err
	}
	rs, err := e.Tx.Query(ctx, sql)
	if err != nil {
		return nil, mlmderr.Internalf(name, "query failed: %v", err)
	}
	return rs, nil
}

// CheckTable probes table's existence (spec's Check<Table> group): a
// successful, even-zero-row, SELECT means the table exists.
func (e *Executor) CheckTable(ctx context.Context, table string) error {
	name := "check_" + snakeCase(table)
	if table == querycfg.TableMLMDEnv {
		name = "check_mlmd_env_table"
	}
	_, err := e.Query(ctx, name)
	return err
}

// CreateTable runs a table's create_*_table template. CREATE TABLE IF
// NOT EXISTS makes this idempotent by construction.
func (e *Executor) CreateTable(ctx context.Context, table string) error {
	name := "create_" + snakeCase(table) + "_table"
	if table == querycfg.TableMLMDEnv {
		name = "create_mlmd_env_table"
	}
	_, err := e.Exec(ctx, name)
	return err
}

// SelectLastInsertID reads back the id of the most recent insert on
// this transaction's connection.
func (e *Executor) SelectLastInsertID(ctx context.Context) (int64, error) {
	rs, err := e.Query(ctx, "select_last_insert_id")
	if err != nil {
		return 0, err
	}
	if len(rs.Rows) != 1 || len(rs.Rows[0]) != 1 {
		return 0, mlmderr.Internalf("SelectLastInsertID", "driver returned no last-insert-id row")
	}
	id, ok := asInt64(rs.Rows[0][0])
	if !ok {
		return 0, mlmderr.Internalf("SelectLastInsertID", "last-insert-id value was not numeric: %v", rs.Rows[0][0])
	}
	return id, nil
}

func (e *Executor) bind(name string, args ...any) (string, error) {
	tmpl, ok := e.Catalog.Template(name)
	if !ok {
		return "", mlmderr.Internalf(name, "catalog has no template %q", name)
	}
	return querysql.Bind(tmpl, e.Esc, args...)
}

// translateExecError maps a raw driver error for a write to the error
// taxonomy. Idempotent-insert templates (insert_association,
// insert_attribution, insert_parent_context, insert_parent_type) never
// reach here with a constraint-violation error — the SQL text itself
// (INSERT OR IGNORE / INSERT IGNORE / ON CONFLICT) swallows duplicates
// — so any UNIQUE-constraint failure surfaced for a plain insert_*
// (Type, Artifact, Execution, Context, Event) is a real AlreadyExists.
func translateExecError(name string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.HasPrefix(name, "insert_") && isUniqueViolation(msg) {
		return mlmderr.AlreadyExistsf(name, "unique constraint violated: %v", err)
	}
	if isBusyOrDeadlock(msg) {
		return mlmderr.Abortedf(name, "transient driver error: %v", err)
	}
	return mlmderr.Internalf(name, "exec failed: %v", err)
}

func isUniqueViolation(lowerMsg string) bool {
	return strings.Contains(lowerMsg, "unique") || strings.Contains(lowerMsg, "duplicate")
}

func isBusyOrDeadlock(lowerMsg string) bool {
	return strings.Contains(lowerMsg, "busy") ||
		strings.Contains(lowerMsg, "deadlock") ||
		strings.Contains(lowerMsg, "lock") ||
		strings.Contains(lowerMsg, "timeout")
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func snakeCase(table string) string {
	var out []byte
	for i, r := range table {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			out = append(out, byte(r-'A'+'a'))
		} else {
			out = append(out, byte(r))
		}
	}
	return string(out)
}
