package mao

import (
	"context"

	"github.com/unclerayray/ml-metadata/internal/mlmderr"
	"github.com/unclerayray/ml-metadata/internal/model"
	"github.com/unclerayray/ml-metadata/internal/nodekind"
	"github.com/unclerayray/ml-metadata/internal/propval"
)

// CreateType inserts a new ArtifactType/ExecutionType/ContextType and
// its declared properties. AlreadyExists on a (kind, name, version)
// collision; InvalidArgument on a malformed property schema (an empty
// property name, or an UNKNOWN declared data type).
func (m *MAO) CreateType(ctx context.Context, nk nodekind.NodeKind, name, version, description, inputType, outputType string, props []model.PropertyDecl) (int64, error) {
	for _, p := range props {
		if p.Name == "" {
			return 0, mlmderr.InvalidArgumentf("CreateType", "property declaration has an empty name")
		}
		if p.Type == propval.Unknown {
			return 0, mlmderr.InvalidArgumentf("CreateType", "property %q declares an unknown data type", p.Name)
		}
	}

	var outputArg any
	if outputType == "" {
		outputArg = nil
	} else {
		outputArg = outputType
	}
	var inputArg any
	if inputType == "" {
		inputArg = nil
	} else {
		inputArg = inputType
	}
	var descArg any
	if description == "" {
		descArg = nil
	} else {
		descArg = description
	}

	if _, err := m.Exec.Exec(ctx, "insert_type", int(nk.Kind()), name, version, descArg, inputArg); err != nil {
		return 0, err
	}
	typeID, err := m.Exec.SelectLastInsertID(ctx)
	if err != nil {
		return 0, err
	}
	if outputArg != nil {
		if _, err := m.Exec.Exec(ctx, "update_type_output_type", typeID, outputArg); err != nil {
			return 0, err
		}
	}

	for _, p := range props {
		if _, err := m.Exec.Exec(ctx, "insert_type_property", typeID, p.Name, p.Type.String()); err != nil {
			return 0, err
		}
	}

	return typeID, nil
}

// GetTypeByID fetches a Type and its declared properties by id.
func (m *MAO) GetTypeByID(ctx context.Context, id int64) (*model.Type, error) {
	rs, err := m.Exec.Query(ctx, "select_type_by_id", id)
	if err != nil {
		return nil, err
	}
	if len(rs.Rows) == 0 {
		return nil, mlmderr.NotFoundf("GetTypeByID", "no type with id %d", id)
	}
	typ := scanType(rs.Rows[0])
	props, err := m.loadTypeProperties(ctx, typ.ID)
	if err != nil {
		return nil, err
	}
	typ.Properties = props
	return typ, nil
}

// GetTypeByName fetches a Type by its (kind, name, version) key.
// version == "" looks up the unversioned type.
func (m *MAO) GetTypeByName(ctx context.Context, nk nodekind.NodeKind, name, version string) (*model.Type, error) {
	rs, err := m.Exec.Query(ctx, "select_type_by_name", int(nk.Kind()), name, version)
	if err != nil {
		return nil, err
	}
	if len(rs.Rows) == 0 {
		return nil, mlmderr.NotFoundf("GetTypeByName", "no %s type named %q version %q", nk.TableName(), name, version)
	}
	typ := scanType(rs.Rows[0])
	props, err := m.loadTypeProperties(ctx, typ.ID)
	if err != nil {
		return nil, err
	}
	typ.Properties = props
	return typ, nil
}

// ListTypesByKind returns every type of the given kind, without
// properties loaded — callers that need the schema call GetTypeByID.
func (m *MAO) ListTypesByKind(ctx context.Context, nk nodekind.NodeKind) ([]*model.Type, error) {
	rs, err := m.Exec.Query(ctx, "select_types_by_kind", int(nk.Kind()))
	if err != nil {
		return nil, err
	}
	types := make([]*model.Type, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		types = append(types, scanType(row))
	}
	return types, nil
}

func (m *MAO) loadTypeProperties(ctx context.Context, typeID int64) ([]model.PropertyDecl, error) {
	rs, err := m.Exec.Query(ctx, "select_type_properties_by_type_id", typeID)
	if err != nil {
		return nil, err
	}
	decls := make([]model.PropertyDecl, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		dt, ok := propval.ParseDataType(asString(row[2]))
		if !ok {
			return nil, mlmderr.Internalf("loadTypeProperties", "type_id %v has unparseable data_type %v", row[0], row[2])
		}
		decls = append(decls, model.PropertyDecl{Name: asString(row[1]), Type: dt})
	}
	return decls, nil
}

// scanType assembles a *model.Type from a select_type_by_* row:
// id, kind, name, version, description, input_type, output_type.
func scanType(row []any) *model.Type {
	return &model.Type{
		ID:          asInt64(row[0]),
		Kind:        model.Kind(asInt64(row[1])),
		Name:        asString(row[2]),
		Version:     asString(row[3]),
		Description: asString(row[4]),
		InputType:   asString(row[5]),
		OutputType:  asString(row[6]),
	}
}
