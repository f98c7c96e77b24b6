// Package querycfg is the declarative query catalog described in spec
// §4.2: a read-only, per-dialect map from logical query name to a SQL
// template with numbered placeholders, plus the secondary-index
// statements and the per-version migration schemes. It is configuration,
// not global state — built once by SQLite() or MySQL(), then passed by
// reference and never mutated.
package querycfg

import "fmt"

// MaxPlaceholders is the largest placeholder index a template may use:
// the literal tokens $0 through $9.
const MaxPlaceholders = 10

// LibraryVersion is the schema generation this catalog's templates
// implement. v1 is the baseline schema; v2 adds Type.output_type
// (ExecutionType's nested output struct schema) via migration, letting
// the migration state machine (spec §4.3) be exercised on a real,
// non-trivial column change rather than a no-op.
const LibraryVersion = 2


// Template is one named SQL statement. Placeholders are the literal
// tokens $0..$9, substituted textually after dialect-specific escaping
// (spec §4.2-§4.3); Template itself carries no logic, only the shape.
type Template struct {
	SQL          string
	ParameterNum int
}

// MigrationScheme lists the statements that move the schema from v-1 to
// v (UpgradeQueries) or from v to v-1 (DowngradeQueries). Schemes are
// keyed by the destination version v in Catalog.MigrationSchemes.
type MigrationScheme struct {
	UpgradeQueries   []Template
	DowngradeQueries []Template
}

// Catalog is the full per-dialect query configuration.
type Catalog struct {
	// SchemaVersion is the library version this catalog's Templates
	// describe — the "library_version" the migration state machine
	// upgrades a database towards.
	SchemaVersion int

	// Templates maps logical query name (e.g. "insert_artifact_type")
	// to its SQL template.
	Templates map[string]Template

	// SecondaryIndices lists idempotent CREATE INDEX statements run once
	// during InitMetadataSource, after all tables are created.
	SecondaryIndices []Template

	// MigrationSchemes is keyed by destination version.
	MigrationSchemes map[int]MigrationScheme
}

// Template looks up a named query, returning an Internal-flavored error
// (via the bool) if the catalog has no such entry — a missing template
// is a corrupt catalog, never a caller mistake.
func (c *Catalog) Template(name string) (Template, bool) {
	t, ok := c.Templates[name]
	return t, ok
}

// MustTemplate panics if name is missing. Request-time lookups go
// through Template instead.
func (c *Catalog) MustTemplate(name string) Template {
	t, ok := c.Templates[name]
	if !ok {
		panic(fmt.Sprintf("querycfg: catalog has no template %q", name))
	}
	return t
}
