// Package config defines the connection configuration the Store Façade
// opens against, as a small tagged union rather than a parsed config
// file: the teacher's own store.Open takes a plain path, and that
// Go-struct-not-YAML pattern is kept here (spec §6).
package config

// Dialect distinguishes which Connection variant is set.
type Dialect int

const (
	SQLite Dialect = iota
	MySQL
	FakeDatabase
)

// Connection is the tagged union of ways to open a metadata store. Exactly
// one of the per-dialect fields is meaningful, selected by Dialect.
type Connection struct {
	Dialect Dialect

	// SQLitePath is the database file path, or ":memory:". Meaningful
	// when Dialect == SQLite.
	SQLitePath string

	// MySQLDSN is a go-sql-driver/mysql data source name. Meaningful
	// when Dialect == MySQL.
	MySQLDSN string

	// PinnedSchemaVersion, if non-nil, overrides the auto-upgrade
	// behavior of InitMetadataSourceIfNotExists: the caller asserts the
	// database is already at this exact version instead of letting the
	// Store Façade upgrade it in place (spec §4.3's pinned-version mode).
	PinnedSchemaVersion *int
}

// NewSQLite builds a Connection for a SQLite file (or ":memory:").
func NewSQLite(path string) Connection {
	return Connection{Dialect: SQLite, SQLitePath: path}
}

// NewMySQL builds a Connection for a MySQL DSN.
func NewMySQL(dsn string) Connection {
	return Connection{Dialect: MySQL, MySQLDSN: dsn}
}

// NewFakeDatabase builds a Connection for an in-memory SQLite database,
// the fixture every executor/MAO test opens instead of a real file.
func NewFakeDatabase() Connection {
	return Connection{Dialect: FakeDatabase}
}
