package mao

import (
	"context"

	"github.com/unclerayray/ml-metadata/internal/mlmderr"
	"github.com/unclerayray/ml-metadata/internal/typecheck"
)

// PutParentType adds a (type_id, parent_type_id) edge, idempotent on
// duplicate keys. Rejected with FailedPrecondition if it would close
// a cycle in the ParentType graph (spec §3.2).
func (m *MAO) PutParentType(ctx context.Context, typeID, parentTypeID int64) error {
	g, err := m.loadParentTypeGraph(ctx)
	if err != nil {
		return err
	}
	if typecheck.WouldCycle(g, typeID, parentTypeID) {
		return mlmderr.FailedPreconditionf("PutParentType", typecheck.DescribeCycle(typeID, parentTypeID))
	}
	_, err = m.Exec.Exec(ctx, "insert_parent_type", typeID, parentTypeID)
	return err
}

func (m *MAO) loadParentTypeGraph(ctx context.Context) (typecheck.Graph, error) {
	rs, err := m.Exec.Query(ctx, "select_all_parent_type_edges")
	if err != nil {
		return nil, err
	}
	g := typecheck.Graph{}
	for _, row := range rs.Rows {
		g.AddEdge(asInt64(row[0]), asInt64(row[1]))
	}
	return g, nil
}

// PutParentContext adds a (context_id, parent_context_id) edge,
// idempotent on duplicate keys, rejected if it would close a cycle.
func (m *MAO) PutParentContext(ctx context.Context, contextID, parentContextID int64) error {
	g, err := m.loadParentContextGraph(ctx)
	if err != nil {
		return err
	}
	if typecheck.WouldCycle(g, contextID, parentContextID) {
		return mlmderr.FailedPreconditionf("PutParentContext", typecheck.DescribeCycle(contextID, parentContextID))
	}
	_, err = m.Exec.Exec(ctx, "insert_parent_context", contextID, parentContextID)
	return err
}

func (m *MAO) loadParentContextGraph(ctx context.Context) (typecheck.Graph, error) {
	rs, err := m.Exec.Query(ctx, "select_all_parent_context_edges")
	if err != nil {
		return nil, err
	}
	g := typecheck.Graph{}
	for _, row := range rs.Rows {
		g.AddEdge(asInt64(row[0]), asInt64(row[1]))
	}
	return g, nil
}

// PutAssociation links a Context to an Execution. Idempotent: a
// duplicate (context_id, execution_id) pair resolves to OK.
func (m *MAO) PutAssociation(ctx context.Context, contextID, executionID int64) error {
	_, err := m.Exec.Exec(ctx, "insert_association", contextID, executionID)
	return err
}

// PutAttribution links a Context to an Artifact. Idempotent.
func (m *MAO) PutAttribution(ctx context.Context, contextID, artifactID int64) error {
	_, err := m.Exec.Exec(ctx, "insert_attribution", contextID, artifactID)
	return err
}
