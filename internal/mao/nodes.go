package mao

import (
	"context"

	"github.com/unclerayray/ml-metadata/internal/mlmderr"
	"github.com/unclerayray/ml-metadata/internal/model"
	"github.com/unclerayray/ml-metadata/internal/nodekind"
	"github.com/unclerayray/ml-metadata/internal/propval"
	"github.com/unclerayray/ml-metadata/internal/typecheck"
)

func lower(nk nodekind.NodeKind) string {
	switch nk.Kind() {
	case model.ArtifactKind:
		return "artifact"
	case model.ExecutionKind:
		return "execution"
	case model.ContextKind:
		return "context"
	default:
		return ""
	}
}

// PutNode inserts or updates an Artifact/Execution/Context row plus
// its declared and custom properties (spec §4.5's PutArtifact
// contract, generalized over NodeKind per spec §9's design note).
//
// If node.ID is unset: a matching (type_id, name) row is updated in
// place (idempotent Put), otherwise a new row is inserted. If
// node.ID is set, the row is updated by id; if that update's name
// would collide with a different existing row, AlreadyExists.
func (m *MAO) PutNode(ctx context.Context, nk nodekind.NodeKind, node *model.Node) (int64, error) {
	if nk.RequiresName() && node.Name == "" {
		return 0, mlmderr.InvalidArgumentf("PutNode", "%s requires a non-empty name", nk.TableName())
	}

	typ, err := m.GetTypeByID(ctx, node.TypeID)
	if err != nil {
		return 0, err
	}
	if typ.Kind != nk.Kind() {
		return 0, mlmderr.InvalidArgumentf("PutNode", "type %d is not a %s type", node.TypeID, nk.TableName())
	}
	if errs := typecheck.CheckProperties(typ, propsSlice(node.Properties)); len(errs) > 0 {
		return 0, mlmderr.InvalidArgumentf("PutNode", "property conformance: %v", errs[0])
	}

	now := m.Clock.NowMillis()

	if node.ID == 0 {
		if node.Name != "" {
			existing, err := m.findByTypeAndName(ctx, nk, node.TypeID, node.Name)
			if err != nil && !mlmderr.Is(err, mlmderr.NotFound) {
				return 0, err
			}
			if existing != nil {
				node.ID = existing.ID
				node.CreateTime = existing.CreateTime
			}
		}
	}

	if node.ID != 0 {
		if node.Name != "" {
			collider, err := m.findByTypeAndName(ctx, nk, node.TypeID, node.Name)
			if err == nil && collider != nil && collider.ID != node.ID {
				return 0, mlmderr.AlreadyExistsf("PutNode", "%s %q already exists under type %d with a different id", nk.TableName(), node.Name, node.TypeID)
			}
		}
		node.LastUpdateTime = now
		if err := m.updateNode(ctx, nk, node); err != nil {
			return 0, err
		}
	} else {
		node.CreateTime = now
		node.LastUpdateTime = now
		id, err := m.insertNode(ctx, nk, node)
		if err != nil {
			return 0, err
		}
		node.ID = id
	}

	if err := m.putProperties(ctx, nk, node.ID, node.Properties); err != nil {
		return 0, err
	}
	return node.ID, nil
}

func propsSlice(props map[string]model.Property) []model.Property {
	out := make([]model.Property, 0, len(props))
	for _, p := range props {
		out = append(out, p)
	}
	return out
}

func (m *MAO) insertNode(ctx context.Context, nk nodekind.NodeKind, node *model.Node) (int64, error) {
	args := []any{node.TypeID, node.Name}
	if nk.TableName() == "Artifact" {
		args = append(args, node.URI)
	}
	if nk.TableName() != "Context" {
		args = append(args, int(node.State))
	}
	args = append(args, node.CreateTime, node.LastUpdateTime)
	if _, err := m.Exec.Exec(ctx, "insert_"+lower(nk), args...); err != nil {
		return 0, err
	}
	return m.Exec.SelectLastInsertID(ctx)
}

func (m *MAO) updateNode(ctx context.Context, nk nodekind.NodeKind, node *model.Node) error {
	args := []any{node.ID, node.TypeID, node.Name}
	if nk.TableName() == "Artifact" {
		args = append(args, node.URI)
	}
	if nk.TableName() != "Context" {
		args = append(args, int(node.State))
	}
	args = append(args, node.LastUpdateTime)
	_, err := m.Exec.Exec(ctx, "update_"+lower(nk), args...)
	return err
}

func (m *MAO) findByTypeAndName(ctx context.Context, nk nodekind.NodeKind, typeID int64, name string) (*model.Node, error) {
	rs, err := m.Exec.Query(ctx, "select_"+lower(nk)+"_by_type_and_name", typeID, name)
	if err != nil {
		return nil, err
	}
	if len(rs.Rows) == 0 {
		return nil, mlmderr.NotFoundf("findByTypeAndName", "no %s named %q under type %d", nk.TableName(), name, typeID)
	}
	return scanNode(nk, rs.Rows[0]), nil
}

// GetNodeByID fetches a node and its properties by id.
func (m *MAO) GetNodeByID(ctx context.Context, nk nodekind.NodeKind, id int64) (*model.Node, error) {
	rs, err := m.Exec.Query(ctx, "select_"+lower(nk)+"_by_id", id)
	if err != nil {
		return nil, err
	}
	if len(rs.Rows) == 0 {
		return nil, mlmderr.NotFoundf("GetNodeByID", "no %s with id %d", nk.TableName(), id)
	}
	node := scanNode(nk, rs.Rows[0])
	props, err := m.loadProperties(ctx, nk, id)
	if err != nil {
		return nil, err
	}
	node.Properties = props
	return node, nil
}

// GetNodesByType returns every node of typeID, joined with their
// property rows (spec §4.5's GetArtifactsByType, generalized).
func (m *MAO) GetNodesByType(ctx context.Context, nk nodekind.NodeKind, typeID int64) ([]*model.Node, error) {
	rs, err := m.Exec.Query(ctx, "select_"+lower(nk)+"s_by_type_id", typeID)
	if err != nil {
		return nil, err
	}
	nodes := make([]*model.Node, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		n := scanNode(nk, row)
		props, err := m.loadProperties(ctx, nk, n.ID)
		if err != nil {
			return nil, err
		}
		n.Properties = props
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// GetNodesByIDs fetches nodes in bulk, in the shape ListNodes' second
// pass needs after resolving a page of ids.
func (m *MAO) GetNodesByIDs(ctx context.Context, nk nodekind.NodeKind, ids []int64) ([]*model.Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rs, err := m.Exec.Query(ctx, "select_"+lower(nk)+"s_by_ids", ids)
	if err != nil {
		return nil, err
	}
	nodes := make([]*model.Node, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		n := scanNode(nk, row)
		props, err := m.loadProperties(ctx, nk, n.ID)
		if err != nil {
			return nil, err
		}
		n.Properties = props
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// scanNode assembles a *model.Node from a node-table row. Column
// order follows querycfg.nodeSelectColumns: id, type_id, name[, uri][,
// state], create_time_since_epoch, last_update_time_since_epoch.
func scanNode(nk nodekind.NodeKind, row []any) *model.Node {
	n := &model.Node{
		ID:     asInt64(row[0]),
		TypeID: asInt64(row[1]),
		Kind:   nk.Kind(),
		Name:   asString(row[2]),
	}
	i := 3
	if nk.TableName() == "Artifact" {
		n.URI = asString(row[i])
		i++
	}
	if nk.TableName() != "Context" {
		n.State = model.NodeState(asInt64(row[i]))
		i++
	}
	n.CreateTime = asInt64(row[i])
	n.LastUpdateTime = asInt64(row[i+1])
	return n
}

func (m *MAO) loadProperties(ctx context.Context, nk nodekind.NodeKind, entityID int64) (map[string]model.Property, error) {
	rs, err := m.Exec.Query(ctx, "select_"+lower(nk)+"_property_by_"+entityCol(nk), entityID)
	if err != nil {
		return nil, err
	}
	props := make(map[string]model.Property, len(rs.Rows))
	for _, row := range rs.Rows {
		// row: entity_id, name, is_custom, int_value, double_value, string_value
		name := asString(row[1])
		isCustom := asInt64(row[2]) != 0
		var v propval.Value
		switch {
		case row[3] != nil:
			v = propval.IntValue(asInt64(row[3]))
		case row[4] != nil:
			v = propval.DoubleValue(asFloat64(row[4]))
		default:
			v = propval.StringValue(asString(row[5]))
		}
		props[name] = model.Property{Name: name, IsCustom: isCustom, Value: v}
	}
	return props, nil
}

func (m *MAO) putProperties(ctx context.Context, nk nodekind.NodeKind, entityID int64, props map[string]model.Property) error {
	for _, p := range props {
		isCustom := 0
		if p.IsCustom {
			isCustom = 1
		}
		var intArg, dblArg, strArg any
		switch v := p.Value.(type) {
		case propval.IntValue:
			intArg = int64(v)
		case propval.DoubleValue:
			dblArg = float64(v)
		case propval.StringValue:
			strArg = string(v)
		default:
			return mlmderr.Internalf("putProperties", "property %q has an unknown value case", p.Name)
		}
		col := propval.Case(p.Value)
		if _, err := m.Exec.Exec(ctx, "upsert_"+lower(nk)+"_property_"+col, entityID, p.Name, isCustom, firstNonNil(intArg, dblArg, strArg)); err != nil {
			return err
		}
	}
	return nil
}

func firstNonNil(vs ...any) any {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}

func entityCol(nk nodekind.NodeKind) string {
	switch nk.TableName() {
	case "Artifact":
		return "artifact_id"
	case "Execution":
		return "execution_id"
	case "Context":
		return "context_id"
	default:
		return "entity_id"
	}
}

func asFloat64(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	default:
		return 0
	}
}
