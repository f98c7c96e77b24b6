package executor

import (
	"context"
	"strings"

	"github.com/unclerayray/ml-metadata/internal/mlmderr"
	"github.com/unclerayray/ml-metadata/internal/querycfg"
)

// InitMetadataSource creates every table, every secondary index
// (tolerating "duplicate index name" for indices another initializer
// already created), and inserts the library version into MLMDEnv.
// Always call only from the "none present" branch of
// InitMetadataSourceIfNotExists.
func (e *Executor) InitMetadataSource(ctx context.Context) error {
	for _, table := range querycfg.AllTables {
		if err := e.CreateTable(ctx, table); err != nil {
			return err
		}
	}
	for _, idx := range e.Catalog.SecondaryIndices {
		if _, err := e.Tx.Exec(ctx, idx.SQL); err != nil && !isDuplicateIndexError(err) {
			return mlmderr.Internalf("InitMetadataSource", "create secondary index failed: %v", err)
		}
	}
	return e.InsertSchemaVersion(ctx, e.Catalog.SchemaVersion)
}

// InitMetadataSourceIfNotExists implements spec §4.3's three-outcome
// table-presence check. pinnedVersion, when non-nil, asserts the db
// reports exactly that version instead of upgrading to the library's.
func (e *Executor) InitMetadataSourceIfNotExists(ctx context.Context, pinnedVersion *int) error {
	if pinnedVersion != nil {
		got, err := e.GetSchemaVersion(ctx)
		if err != nil {
			return err
		}
		if got != *pinnedVersion {
			return mlmderr.FailedPreconditionf("InitMetadataSourceIfNotExists", "db schema_version %d does not match pinned version %d", got, *pinnedVersion)
		}
	} else {
		if err := e.UpgradeMetadataSourceIfOutOfDate(ctx); err != nil {
			return err
		}
	}

	present := 0
	for _, table := range querycfg.AllTables {
		if err := e.CheckTable(ctx, table); err == nil {
			present++
		}
	}

	switch {
	case present == len(querycfg.AllTables):
		return nil
	case present == 0:
		return e.InitMetadataSource(ctx)
	default:
		return mlmderr.Abortedf("InitMetadataSourceIfNotExists", "%d of %d tables present: a concurrent initializer raced us", present, len(querycfg.AllTables))
	}
}

func isDuplicateIndexError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate")
}
