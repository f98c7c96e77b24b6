package mao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclerayray/ml-metadata/internal/clock"
	"github.com/unclerayray/ml-metadata/internal/dbdriver"
	"github.com/unclerayray/ml-metadata/internal/executor"
	"github.com/unclerayray/ml-metadata/internal/listopts"
	"github.com/unclerayray/ml-metadata/internal/mlmderr"
	"github.com/unclerayray/ml-metadata/internal/model"
	"github.com/unclerayray/ml-metadata/internal/nodekind"
	"github.com/unclerayray/ml-metadata/internal/propval"
	"github.com/unclerayray/ml-metadata/internal/querycfg"
)

func newTestMAO(t *testing.T, c *clock.Fake) *MAO {
	t.Helper()
	drv, err := dbdriver.OpenFake()
	require.NoError(t, err)
	t.Cleanup(func() { drv.Close() })

	tx, err := drv.Begin(context.Background())
	require.NoError(t, err)
	exec := executor.New(tx, querycfg.SQLite(), drv)
	require.NoError(t, exec.InitMetadataSourceIfNotExists(context.Background(), nil))
	t.Cleanup(func() { tx.Commit() })

	if c == nil {
		c = clock.NewFake(1000)
	}
	return New(exec, c)
}

func createTestArtifactType(t *testing.T, m *MAO) int64 {
	t.Helper()
	id, err := m.CreateType(context.Background(), nodekind.Artifact, "test.Model", "", "", "", "", []model.PropertyDecl{
		{Name: "accuracy", Type: propval.Double},
	})
	require.NoError(t, err)
	return id
}

func TestCreateTypeAndGetByID(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()

	id := createTestArtifactType(t, m)
	typ, err := m.GetTypeByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "test.Model", typ.Name)
	assert.Equal(t, model.ArtifactKind, typ.Kind)
	require.Len(t, typ.Properties, 1)
	assert.Equal(t, "accuracy", typ.Properties[0].Name)
	assert.Equal(t, propval.Double, typ.Properties[0].Type)
}

func TestCreateTypeRejectsUnknownPropertyType(t *testing.T) {
	m := newTestMAO(t, nil)
	_, err := m.CreateType(context.Background(), nodekind.Artifact, "test.Bad", "", "", "", "", []model.PropertyDecl{
		{Name: "x", Type: propval.Unknown},
	})
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.InvalidArgument))
}

func TestCreateTypeDuplicateNameIsAlreadyExists(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()
	_, err := m.CreateType(ctx, nodekind.Artifact, "test.Dup", "", "", "", "", nil)
	require.NoError(t, err)
	_, err = m.CreateType(ctx, nodekind.Artifact, "test.Dup", "", "", "", "", nil)
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.AlreadyExists))
}

func TestPutArtifactInsertsThenUpdatesByName(t *testing.T) {
	fake := clock.NewFake(1000)
	m := newTestMAO(t, fake)
	ctx := context.Background()
	typeID := createTestArtifactType(t, m)

	art := &model.Node{
		TypeID: typeID,
		Name:   "run1/model",
		URI:    "s3://bucket/model",
		State:  model.StateLive,
		Properties: map[string]model.Property{
			"accuracy": {Name: "accuracy", Value: propval.DoubleValue(0.9)},
		},
	}
	id, err := m.PutNode(ctx, nodekind.Artifact, art)
	require.NoError(t, err)
	assert.NotZero(t, id)

	fetched, err := m.GetNodeByID(ctx, nodekind.Artifact, id)
	require.NoError(t, err)
	assert.Equal(t, "run1/model", fetched.Name)
	assert.Equal(t, int64(1000), fetched.CreateTime)
	assert.Equal(t, int64(1000), fetched.LastUpdateTime)
	require.Contains(t, fetched.Properties, "accuracy")
	assert.Equal(t, propval.DoubleValue(0.9), fetched.Properties["accuracy"].Value)

	fake.Advance(500)
	second := &model.Node{
		TypeID: typeID,
		Name:   "run1/model",
		URI:    "s3://bucket/model-v2",
		State:  model.StateLive,
	}
	id2, err := m.PutNode(ctx, nodekind.Artifact, second)
	require.NoError(t, err)
	assert.Equal(t, id, id2, "same (type_id, name) updates the existing row")

	updated, err := m.GetNodeByID(ctx, nodekind.Artifact, id)
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/model-v2", updated.URI)
	assert.Equal(t, int64(1000), updated.CreateTime, "create_time is preserved across an update")
	assert.Equal(t, int64(1500), updated.LastUpdateTime)
}

func TestPutArtifactNameConflictWithDifferentIDIsAlreadyExists(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()
	typeID := createTestArtifactType(t, m)

	first := &model.Node{TypeID: typeID, Name: "a", State: model.StateLive}
	firstID, err := m.PutNode(ctx, nodekind.Artifact, first)
	require.NoError(t, err)

	second := &model.Node{TypeID: typeID, Name: "b", State: model.StateLive}
	secondID, err := m.PutNode(ctx, nodekind.Artifact, second)
	require.NoError(t, err)
	require.NotEqual(t, firstID, secondID)

	collide := &model.Node{ID: secondID, TypeID: typeID, Name: "a", State: model.StateLive}
	_, err = m.PutNode(ctx, nodekind.Artifact, collide)
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.AlreadyExists))
}

func TestPutArtifactRejectsUnknownProperty(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()
	typeID := createTestArtifactType(t, m)

	art := &model.Node{
		TypeID: typeID,
		Name:   "x",
		Properties: map[string]model.Property{
			"not_declared": {Name: "not_declared", Value: propval.StringValue("oops")},
		},
	}
	_, err := m.PutNode(ctx, nodekind.Artifact, art)
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.InvalidArgument))
}

func TestPutArtifactAllowsCustomProperties(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()
	typeID := createTestArtifactType(t, m)

	art := &model.Node{
		TypeID: typeID,
		Name:   "x",
		Properties: map[string]model.Property{
			"anything": {Name: "anything", IsCustom: true, Value: propval.StringValue("free-form")},
		},
	}
	id, err := m.PutNode(ctx, nodekind.Artifact, art)
	require.NoError(t, err)

	fetched, err := m.GetNodeByID(ctx, nodekind.Artifact, id)
	require.NoError(t, err)
	assert.Equal(t, propval.StringValue("free-form"), fetched.Properties["anything"].Value)
}

func TestPutContextRequiresName(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()
	typeID, err := m.CreateType(ctx, nodekind.Context, "test.Experiment", "", "", "", "", nil)
	require.NoError(t, err)

	_, err = m.PutNode(ctx, nodekind.Context, &model.Node{TypeID: typeID})
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.InvalidArgument))
}

func TestGetNodesByType(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()
	typeID := createTestArtifactType(t, m)

	for _, name := range []string{"a", "b", "c"} {
		_, err := m.PutNode(ctx, nodekind.Artifact, &model.Node{TypeID: typeID, Name: name})
		require.NoError(t, err)
	}

	nodes, err := m.GetNodesByType(ctx, nodekind.Artifact, typeID)
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
}

func TestPublishEventAndReadBack(t *testing.T) {
	fake := clock.NewFake(2000)
	m := newTestMAO(t, fake)
	ctx := context.Background()

	artType := createTestArtifactType(t, m)
	execType, err := m.CreateType(ctx, nodekind.Execution, "test.Trainer", "", "", "", "", nil)
	require.NoError(t, err)

	artID, err := m.PutNode(ctx, nodekind.Artifact, &model.Node{TypeID: artType, Name: "model"})
	require.NoError(t, err)
	execID, err := m.PutNode(ctx, nodekind.Execution, &model.Node{TypeID: execType})
	require.NoError(t, err)

	ev := &model.Event{
		ArtifactID:  artID,
		ExecutionID: execID,
		Type:        model.EventOutput,
		Path: []model.EventStep{
			{Case: model.StepIndex, Index: 0},
			{Case: model.StepKey, Key: "weights"},
		},
	}
	id, err := m.PublishEvent(ctx, ev)
	require.NoError(t, err)
	assert.NotZero(t, id)

	events, err := m.GetEventsByArtifactID(ctx, artID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventOutput, events[0].Type)
	require.Len(t, events[0].Path, 2)
	assert.Equal(t, int64(0), events[0].Path[0].Index)
	assert.Equal(t, "weights", events[0].Path[1].Key)
}

func TestPublishEventDuplicateTripleIsAlreadyExists(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()
	artType := createTestArtifactType(t, m)
	execType, err := m.CreateType(ctx, nodekind.Execution, "test.Trainer", "", "", "", "", nil)
	require.NoError(t, err)
	artID, err := m.PutNode(ctx, nodekind.Artifact, &model.Node{TypeID: artType, Name: "model"})
	require.NoError(t, err)
	execID, err := m.PutNode(ctx, nodekind.Execution, &model.Node{TypeID: execType})
	require.NoError(t, err)

	ev := &model.Event{ArtifactID: artID, ExecutionID: execID, Type: model.EventOutput}
	_, err = m.PublishEvent(ctx, ev)
	require.NoError(t, err)
	_, err = m.PublishEvent(ctx, &model.Event{ArtifactID: artID, ExecutionID: execID, Type: model.EventOutput})
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.AlreadyExists))
}

func TestPutParentTypeRejectsCycle(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()
	base, err := m.CreateType(ctx, nodekind.Artifact, "test.Base", "", "", "", "", nil)
	require.NoError(t, err)
	derived, err := m.CreateType(ctx, nodekind.Artifact, "test.Derived", "", "", "", "", nil)
	require.NoError(t, err)

	require.NoError(t, m.PutParentType(ctx, derived, base))
	err = m.PutParentType(ctx, base, derived)
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.FailedPrecondition))
}

func TestPutParentTypeIdempotent(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()
	base, err := m.CreateType(ctx, nodekind.Artifact, "test.Base2", "", "", "", "", nil)
	require.NoError(t, err)
	derived, err := m.CreateType(ctx, nodekind.Artifact, "test.Derived2", "", "", "", "", nil)
	require.NoError(t, err)

	require.NoError(t, m.PutParentType(ctx, derived, base))
	require.NoError(t, m.PutParentType(ctx, derived, base))
}

func TestPutAssociationAndAttribution(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()
	ctxType, err := m.CreateType(ctx, nodekind.Context, "test.Experiment", "", "", "", "", nil)
	require.NoError(t, err)
	execType, err := m.CreateType(ctx, nodekind.Execution, "test.Trainer", "", "", "", "", nil)
	require.NoError(t, err)
	artType := createTestArtifactType(t, m)

	contextID, err := m.PutNode(ctx, nodekind.Context, &model.Node{TypeID: ctxType, Name: "exp1"})
	require.NoError(t, err)
	execID, err := m.PutNode(ctx, nodekind.Execution, &model.Node{TypeID: execType})
	require.NoError(t, err)
	artID, err := m.PutNode(ctx, nodekind.Artifact, &model.Node{TypeID: artType, Name: "model"})
	require.NoError(t, err)

	require.NoError(t, m.PutAssociation(ctx, contextID, execID))
	require.NoError(t, m.PutAssociation(ctx, contextID, execID), "duplicate association is idempotent")
	require.NoError(t, m.PutAttribution(ctx, contextID, artID))
}

func TestListNodesPaginatesByID(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()
	typeID := createTestArtifactType(t, m)

	var ids []int64
	for i := 0; i < 5; i++ {
		id, err := m.PutNode(ctx, nodekind.Artifact, &model.Node{TypeID: typeID, Name: string(rune('a' + i))})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	opts := listopts.Options{MaxResultSize: 2, OrderBy: listopts.ID, IsAsc: true}
	page1, token1, err := m.ListNodes(ctx, nodekind.Artifact, opts, "", nil)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotEmpty(t, token1)
	assert.Equal(t, ids[0], page1[0].ID)
	assert.Equal(t, ids[1], page1[1].ID)

	page2, token2, err := m.ListNodes(ctx, nodekind.Artifact, opts, token1, nil)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.NotEmpty(t, token2)
	assert.Equal(t, ids[2], page2[0].ID)
	assert.Equal(t, ids[3], page2[1].ID)

	page3, token3, err := m.ListNodes(ctx, nodekind.Artifact, opts, token2, nil)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Empty(t, token3, "the last page carries no next token")
	assert.Equal(t, ids[4], page3[0].ID)
}

func TestListNodesRejectsTokenIssuedUnderDifferentOptions(t *testing.T) {
	m := newTestMAO(t, nil)
	ctx := context.Background()
	typeID := createTestArtifactType(t, m)
	for i := 0; i < 3; i++ {
		_, err := m.PutNode(ctx, nodekind.Artifact, &model.Node{TypeID: typeID, Name: string(rune('a' + i))})
		require.NoError(t, err)
	}

	opts := listopts.Options{MaxResultSize: 1, OrderBy: listopts.ID, IsAsc: true}
	_, token, err := m.ListNodes(ctx, nodekind.Artifact, opts, "", nil)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	drifted := opts
	drifted.MaxResultSize = 2
	_, _, err = m.ListNodes(ctx, nodekind.Artifact, drifted, token, nil)
	require.Error(t, err)
	assert.True(t, mlmderr.Is(err, mlmderr.InvalidArgument))
}
