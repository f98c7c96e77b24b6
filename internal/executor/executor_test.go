package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclerayray/ml-metadata/internal/dbdriver"
	"github.com/unclerayray/ml-metadata/internal/listopts"
	"github.com/unclerayray/ml-metadata/internal/mlmderr"
	"github.com/unclerayray/ml-metadata/internal/querycfg"
)

func newTestExecutor(t *testing.T) (*Executor, dbdriver.Tx, *dbdriver.SQLiteDriver) {
	t.Helper()
	drv, err := dbdriver.OpenFake()
	require.NoError(t, err)
	t.Cleanup(func() { drv.Close() })

	tx, err := drv.Begin(context.Background())
	require.NoError(t, err)

	return New(tx, querycfg.SQLite(), drv), tx, drv
}

func TestInitMetadataSourceIfNotExistsFreshDatabase(t *testing.T) {
	exec, tx, _ := newTestExecutor(t)
	ctx := context.Background()

	require.NoError(t, exec.InitMetadataSourceIfNotExists(ctx, nil))
	require.NoError(t, tx.Commit())

	version, err := exec.GetSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, querycfg.LibraryVersion, version)
}

func TestInitMetadataSourceIfNotExistsIsIdempotent(t *testing.T) {
	exec, tx, drv := newTestExecutor(t)
	ctx := context.Background()

	require.NoError(t, exec.InitMetadataSourceIfNotExists(ctx, nil))
	require.NoError(t, tx.Commit())

	tx2, err := drv.Begin(ctx)
	require.NoError(t, err)
	exec2 := New(tx2, querycfg.SQLite(), drv)
	require.NoError(t, exec2.InitMetadataSourceIfNotExists(ctx, nil))
	require.NoError(t, tx2.Commit())
}

func TestGetSchemaVersionOnEmptyDatabaseIsNotFound(t *testing.T) {
	exec, _, _ := newTestExecutor(t)
	_, err := exec.GetSchemaVersion(context.Background())
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.NotFound))
}

func TestUpgradeMetadataSourceIfOutOfDateOnEmptyDatabaseIsANoOp(t *testing.T) {
	exec, _, _ := newTestExecutor(t)
	require.NoError(t, exec.UpgradeMetadataSourceIfOutOfDate(context.Background()))
}

func TestDowngradeMetadataSourceOnEmptyDatabaseIsInvalidArgument(t *testing.T) {
	exec, _, _ := newTestExecutor(t)
	err := exec.DowngradeMetadataSource(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.InvalidArgument))
}

func TestInsertAndSelectTypeRoundTrip(t *testing.T) {
	exec, tx, _ := newTestExecutor(t)
	ctx := context.Background()

	require.NoError(t, exec.InitMetadataSourceIfNotExists(ctx, nil))

	_, err := exec.Exec(ctx, "insert_type", 0, "Dataset", "", "a dataset type", nil)
	require.NoError(t, err)

	id, err := exec.SelectLastInsertID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	rs, err := exec.Query(ctx, "select_type_by_id", id)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, "Dataset", rs.Rows[0][2])

	require.NoError(t, tx.Commit())
}

func TestInsertTypeDuplicateIsAlreadyExists(t *testing.T) {
	exec, _, _ := newTestExecutor(t)
	ctx := context.Background()
	require.NoError(t, exec.InitMetadataSourceIfNotExists(ctx, nil))

	_, err := exec.Exec(ctx, "insert_type", 0, "Dataset", "", "", nil)
	require.NoError(t, err)

	_, err = exec.Exec(ctx, "insert_type", 0, "Dataset", "", "", nil)
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.AlreadyExists))
}

func TestIdempotentEdgeInsertSwallowsDuplicate(t *testing.T) {
	exec, _, _ := newTestExecutor(t)
	ctx := context.Background()
	require.NoError(t, exec.InitMetadataSourceIfNotExists(ctx, nil))

	_, err := exec.Exec(ctx, "insert_parent_type", 1, 2)
	require.NoError(t, err)
	_, err = exec.Exec(ctx, "insert_parent_type", 1, 2)
	assert.NoError(t, err, "idempotent insert must not surface a duplicate as an error")
}

func TestDowngradeThenUpgradeIsLogicallyEquivalent(t *testing.T) {
	exec, _, _ := newTestExecutor(t)
	ctx := context.Background()
	require.NoError(t, exec.InitMetadataSourceIfNotExists(ctx, nil))

	require.NoError(t, exec.DowngradeMetadataSource(ctx, 1))
	v, err := exec.GetSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, exec.UpgradeMetadataSourceIfOutOfDate(ctx))
	v, err = exec.GetSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, querycfg.LibraryVersion, v)

	for _, table := range querycfg.AllTables {
		assert.NoError(t, exec.CheckTable(ctx, table))
	}
}

func TestDowngradeRejectsOutOfRangeTarget(t *testing.T) {
	exec, _, _ := newTestExecutor(t)
	ctx := context.Background()
	require.NoError(t, exec.InitMetadataSourceIfNotExists(ctx, nil))

	err := exec.DowngradeMetadataSource(ctx, -1)
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.InvalidArgument))

	err = exec.DowngradeMetadataSource(ctx, querycfg.LibraryVersion+1)
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.InvalidArgument))
}

func TestListNodeIDsUsingOptionsWithEmptyCandidatesShortCircuits(t *testing.T) {
	exec, _, _ := newTestExecutor(t)
	ctx := context.Background()
	require.NoError(t, exec.InitMetadataSourceIfNotExists(ctx, nil))

	rs, err := exec.ListNodeIDsUsingOptions(ctx, querycfg.TableArtifact, listopts.Options{MaxResultSize: 10, OrderBy: listopts.ID}, nil, []int64{})
	require.NoError(t, err)
	assert.Empty(t, rs.Rows)
}

func TestListNodeIDsUsingOptionsOrdersByIDDescending(t *testing.T) {
	exec, _, _ := newTestExecutor(t)
	ctx := context.Background()
	require.NoError(t, exec.InitMetadataSourceIfNotExists(ctx, nil))

	_, err := exec.Exec(ctx, "insert_type", 0, "T", "", "", nil)
	require.NoError(t, err)
	typeID, err := exec.SelectLastInsertID(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := exec.Exec(ctx, "insert_artifact", typeID, "", "", 1, int64(i), int64(i))
		require.NoError(t, err)
	}

	rs, err := exec.ListNodeIDsUsingOptions(ctx, querycfg.TableArtifact, listopts.Options{MaxResultSize: 10, OrderBy: listopts.ID, IsAsc: false}, nil, nil)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 3)
	assert.Equal(t, int64(3), rs.Rows[0][0])
	assert.Equal(t, int64(2), rs.Rows[1][0])
	assert.Equal(t, int64(1), rs.Rows[2][0])
}
