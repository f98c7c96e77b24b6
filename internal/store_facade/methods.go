package store_facade

import (
	"context"

	"github.com/unclerayray/ml-metadata/internal/executor"
	"github.com/unclerayray/ml-metadata/internal/listopts"
	"github.com/unclerayray/ml-metadata/internal/mao"
	"github.com/unclerayray/ml-metadata/internal/model"
	"github.com/unclerayray/ml-metadata/internal/nodekind"
)

// run is a small generic helper that type-asserts withTxResult's `any`
// back to T, keeping the per-method boilerplate below to one line.
func run[T any](ctx context.Context, f *Facade, op string, fn func(context.Context, *executor.Executor, *mao.MAO) (T, error)) (T, error) {
	result, err := f.withTxResult(ctx, op, func(ctx context.Context, exec *executor.Executor, m *mao.MAO) (any, error) {
		return fn(ctx, exec, m)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// CreateType registers a new ArtifactType/ExecutionType/ContextType.
func (f *Facade) CreateType(ctx context.Context, nk nodekind.NodeKind, name, version, description, inputType, outputType string, props []model.PropertyDecl) (int64, error) {
	return run(ctx, f, "CreateType", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) (int64, error) {
		return m.CreateType(ctx, nk, name, version, description, inputType, outputType, props)
	})
}

// GetTypeByID fetches a Type by id.
func (f *Facade) GetTypeByID(ctx context.Context, id int64) (*model.Type, error) {
	return run(ctx, f, "GetTypeByID", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) (*model.Type, error) {
		return m.GetTypeByID(ctx, id)
	})
}

// GetTypeByName fetches a Type by its (kind, name, version) key.
func (f *Facade) GetTypeByName(ctx context.Context, nk nodekind.NodeKind, name, version string) (*model.Type, error) {
	return run(ctx, f, "GetTypeByName", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) (*model.Type, error) {
		return m.GetTypeByName(ctx, nk, name, version)
	})
}

// ListTypesByKind returns every type of the given kind.
func (f *Facade) ListTypesByKind(ctx context.Context, nk nodekind.NodeKind) ([]*model.Type, error) {
	return run(ctx, f, "ListTypesByKind", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) ([]*model.Type, error) {
		return m.ListTypesByKind(ctx, nk)
	})
}

// PutNode inserts or updates an Artifact/Execution/Context and its
// properties (spec §4.5's PutArtifact/PutExecution/PutContext).
func (f *Facade) PutNode(ctx context.Context, nk nodekind.NodeKind, node *model.Node) (int64, error) {
	return run(ctx, f, "PutNode", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) (int64, error) {
		return m.PutNode(ctx, nk, node)
	})
}

// GetNodeByID fetches a node and its properties by id.
func (f *Facade) GetNodeByID(ctx context.Context, nk nodekind.NodeKind, id int64) (*model.Node, error) {
	return run(ctx, f, "GetNodeByID", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) (*model.Node, error) {
		return m.GetNodeByID(ctx, nk, id)
	})
}

// GetNodesByType returns every node of typeID, with properties loaded.
func (f *Facade) GetNodesByType(ctx context.Context, nk nodekind.NodeKind, typeID int64) ([]*model.Node, error) {
	return run(ctx, f, "GetNodesByType", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) ([]*model.Node, error) {
		return m.GetNodesByType(ctx, nk, typeID)
	})
}

// ListNodes runs one page of the pagination protocol over a node table.
func (f *Facade) ListNodes(ctx context.Context, nk nodekind.NodeKind, opts listopts.Options, pageToken string, candidateIDs []int64) ([]*model.Node, string, error) {
	type page struct {
		nodes []*model.Node
		token string
	}
	p, err := run(ctx, f, "ListNodes", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) (page, error) {
		nodes, token, err := m.ListNodes(ctx, nk, opts, pageToken, candidateIDs)
		return page{nodes: nodes, token: token}, err
	})
	return p.nodes, p.token, err
}

// PublishEvent inserts an Event and its EventPath steps.
func (f *Facade) PublishEvent(ctx context.Context, event *model.Event) (int64, error) {
	return run(ctx, f, "PublishEvent", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) (int64, error) {
		return m.PublishEvent(ctx, event)
	})
}

// GetEventsByArtifactID returns every Event recorded against an artifact.
func (f *Facade) GetEventsByArtifactID(ctx context.Context, artifactID int64) ([]*model.Event, error) {
	return run(ctx, f, "GetEventsByArtifactID", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) ([]*model.Event, error) {
		return m.GetEventsByArtifactID(ctx, artifactID)
	})
}

// GetEventsByExecutionID returns every Event recorded against an execution.
func (f *Facade) GetEventsByExecutionID(ctx context.Context, executionID int64) ([]*model.Event, error) {
	return run(ctx, f, "GetEventsByExecutionID", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) ([]*model.Event, error) {
		return m.GetEventsByExecutionID(ctx, executionID)
	})
}

// PutParentType adds a (type_id, parent_type_id) edge.
func (f *Facade) PutParentType(ctx context.Context, typeID, parentTypeID int64) error {
	return f.withTx(ctx, "PutParentType", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) (any, error) {
		return nil, m.PutParentType(ctx, typeID, parentTypeID)
	})
}

// PutParentContext adds a (context_id, parent_context_id) edge.
func (f *Facade) PutParentContext(ctx context.Context, contextID, parentContextID int64) error {
	return f.withTx(ctx, "PutParentContext", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) (any, error) {
		return nil, m.PutParentContext(ctx, contextID, parentContextID)
	})
}

// PutAssociation links a Context to an Execution.
func (f *Facade) PutAssociation(ctx context.Context, contextID, executionID int64) error {
	return f.withTx(ctx, "PutAssociation", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) (any, error) {
		return nil, m.PutAssociation(ctx, contextID, executionID)
	})
}

// PutAttribution links a Context to an Artifact.
func (f *Facade) PutAttribution(ctx context.Context, contextID, artifactID int64) error {
	return f.withTx(ctx, "PutAttribution", func(ctx context.Context, _ *executor.Executor, m *mao.MAO) (any, error) {
		return nil, m.PutAttribution(ctx, contextID, artifactID)
	})
}

// SchemaVersion reports the database's current schema version.
func (f *Facade) SchemaVersion(ctx context.Context) (int, error) {
	return run(ctx, f, "GetSchemaVersion", func(ctx context.Context, exec *executor.Executor, _ *mao.MAO) (int, error) {
		return exec.GetSchemaVersion(ctx)
	})
}

// Upgrade runs the migration state machine up to the library's current
// schema version.
func (f *Facade) Upgrade(ctx context.Context) error {
	return f.withTx(ctx, "UpgradeMetadataSourceIfOutOfDate", func(ctx context.Context, exec *executor.Executor, _ *mao.MAO) (any, error) {
		return nil, exec.UpgradeMetadataSourceIfOutOfDate(ctx)
	})
}

// Downgrade runs the migration state machine down to targetVersion.
func (f *Facade) Downgrade(ctx context.Context, targetVersion int) error {
	return f.withTx(ctx, "DowngradeMetadataSource", func(ctx context.Context, exec *executor.Executor, _ *mao.MAO) (any, error) {
		return nil, exec.DowngradeMetadataSource(ctx, targetVersion)
	})
}
