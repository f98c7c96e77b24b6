package executor

import (
	"context"

	"github.com/unclerayray/ml-metadata/internal/mlmderr"
	"github.com/unclerayray/ml-metadata/internal/querycfg"
	"github.com/unclerayray/ml-metadata/internal/querysql"
)

// GetSchemaVersion probes the database's schema_version per spec
// §4.3: first MLMDEnv, falling back to the v0.13.2 marker table, and
// finally NotFound for a genuinely empty database.
func (e *Executor) GetSchemaVersion(ctx context.Context) (int, error) {
	rs, err := e.Query(ctx, "check_mlmd_env_table")
	if err == nil {
		switch len(rs.Rows) {
		case 0:
			return 0, mlmderr.Abortedf("GetSchemaVersion", "schema_version missing, retry")
		case 1:
			v, ok := asInt64(rs.Rows[0][0])
			if !ok {
				return 0, mlmderr.Internalf("GetSchemaVersion", "schema_version value was not numeric: %v", rs.Rows[0][0])
			}
			return int(v), nil
		default:
			return 0, mlmderr.DataLossf("GetSchemaVersion", "MLMDEnv has %d rows, expected exactly 1", len(rs.Rows))
		}
	}

	if _, err := e.Query(ctx, "check_tables_in_v0_13_2"); err == nil {
		return 0, nil
	}

	return 0, mlmderr.NotFoundf("GetSchemaVersion", "empty db")
}

// InsertSchemaVersion writes the lone MLMDEnv row. If the insert
// fails (another initializer raced us), re-read: an identical value
// is tolerated as the other initializer winning; a mismatch is
// DataLoss.
func (e *Executor) InsertSchemaVersion(ctx context.Context, version int) error {
	if _, err := e.Exec(ctx, "insert_schema_version", version); err != nil {
		got, readErr := e.GetSchemaVersion(ctx)
		if readErr != nil {
			return err
		}
		if got == version {
			return nil
		}
		return mlmderr.DataLossf("InsertSchemaVersion", "schema_version visible mid-init (%d) contradicts the one just inserted (%d)", got, version)
	}
	return nil
}

// UpdateSchemaVersion overwrites the lone MLMDEnv row with version.
func (e *Executor) UpdateSchemaVersion(ctx context.Context, version int) error {
	_, err := e.Exec(ctx, "update_schema_version", version)
	return err
}

// IsCompatible mirrors spec §4.3's trivial definition: relaxed
// compatibility across schema versions is an explicit non-goal.
func IsCompatible(db, lib int) bool {
	return db == lib
}

// UpgradeMetadataSourceIfOutOfDate advances the database's
// schema_version to querycfg.LibraryVersion one step at a time,
// running every intermediate version's upgrade_queries in order. A
// db newer than the library, or missing a migration scheme for some
// intermediate version, is an error per spec §4.3's policies.
func (e *Executor) UpgradeMetadataSourceIfOutOfDate(ctx context.Context) error {
	lib := e.Catalog.SchemaVersion
	db, err := e.GetSchemaVersion(ctx)
	if err != nil {
		if mlmderr.Is(err, mlmderr.NotFound) {
			// A genuinely empty database has no migration to run —
			// InitMetadataSource is what brings it up to lib from
			// scratch, not this loop.
			db = lib
		} else {
			return err
		}
	}

	if db > lib {
		return mlmderr.FailedPreconditionf("UpgradeMetadataSourceIfOutOfDate", "db schema_version %d is newer than library version %d", db, lib)
	}

	for v := db + 1; v <= lib; v++ {
		scheme, ok := e.Catalog.MigrationSchemes[v]
		if !ok {
			return mlmderr.Internalf("UpgradeMetadataSourceIfOutOfDate", "catalog has no migration scheme for version %d", v)
		}
		if err := e.runQueries(ctx, scheme.UpgradeQueries); err != nil {
			return err
		}
		if err := e.UpdateSchemaVersion(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// DowngradeMetadataSource moves the database's schema_version down
// to target, one step at a time, running each intermediate version's
// downgrade_queries. UpdateSchemaVersion is skipped when the new
// version is 0: version 0 predates the MLMDEnv row entirely.
func (e *Executor) DowngradeMetadataSource(ctx context.Context, target int) error {
	db, err := e.GetSchemaVersion(ctx)
	if err != nil {
		if mlmderr.Is(err, mlmderr.NotFound) {
			return mlmderr.InvalidArgumentf("DowngradeMetadataSource", "empty database is given, downgrade is not needed")
		}
		return err
	}
	lib := e.Catalog.SchemaVersion

	if target < 0 || target > lib {
		return mlmderr.InvalidArgumentf("DowngradeMetadataSource", "downgrade target %d is out of range [0, %d]", target, lib)
	}
	if db > lib {
		return mlmderr.FailedPreconditionf("DowngradeMetadataSource", "db schema_version %d is newer than library version %d", db, lib)
	}

	for v := db; v > target; v-- {
		scheme, ok := e.Catalog.MigrationSchemes[v]
		if !ok {
			return mlmderr.Internalf("DowngradeMetadataSource", "catalog has no migration scheme for version %d", v)
		}
		if err := e.runQueries(ctx, scheme.DowngradeQueries); err != nil {
			return err
		}
		if v-1 > 0 {
			if err := e.UpdateSchemaVersion(ctx, v-1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Executor) runQueries(ctx context.Context, templates []querycfg.Template) error {
	for _, tmpl := range templates {
		sql, err := querysql.Bind(tmpl, e.Esc)
		if err != nil {
			return err
		}
		if _, err := e.Tx.Exec(ctx, sql); err != nil {
			return mlmderr.Internalf("migration", "step failed: %v", err)
		}
	}
	return nil
}
