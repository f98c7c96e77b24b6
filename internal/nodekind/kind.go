// Package nodekind implements the NodeKind abstraction called for in
// spec §9: the Artifact/Execution/Context code paths share enough
// structure (a node table, a property table, a type table) to justify
// one small interface instead of three near-duplicate branches, but not
// enough to fold into a single runtime-tagged path.
package nodekind

import "github.com/unclerayray/ml-metadata/internal/model"

// NodeKind names the tables and columns a Query Executor or List
// Operation Helper call needs for one of the three node flavors.
type NodeKind interface {
	// Kind is the model.Kind this NodeKind describes.
	Kind() model.Kind
	// TableName is the node table: Artifact, Execution, or Context.
	TableName() string
	// PropertyTableName is the per-kind property table.
	PropertyTableName() string
	// TypeTableName is always "Type" — all three kinds share it,
	// distinguished by a type_kind discriminator column.
	TypeTableName() string
	// EdgeTableName is the edge table linking Contexts to this
	// kind, or "" if this kind has none (Artifact has Attribution,
	// Execution has Association, Context has neither).
	EdgeTableName() string
	// RequiresName reports whether Name is mandatory (true for Context).
	RequiresName() bool
}

type artifactKind struct{}
type executionKind struct{}
type contextKind struct{}

func (artifactKind) Kind() model.Kind           { return model.ArtifactKind }
func (artifactKind) TableName() string          { return "Artifact" }
func (artifactKind) PropertyTableName() string  { return "ArtifactProperty" }
func (artifactKind) TypeTableName() string      { return "Type" }
func (artifactKind) EdgeTableName() string      { return "Attribution" }
func (artifactKind) RequiresName() bool         { return false }

func (executionKind) Kind() model.Kind          { return model.ExecutionKind }
func (executionKind) TableName() string         { return "Execution" }
func (executionKind) PropertyTableName() string { return "ExecutionProperty" }
func (executionKind) TypeTableName() string     { return "Type" }
func (executionKind) EdgeTableName() string     { return "Association" }
func (executionKind) RequiresName() bool        { return false }

func (contextKind) Kind() model.Kind            { return model.ContextKind }
func (contextKind) TableName() string           { return "Context" }
func (contextKind) PropertyTableName() string   { return "ContextProperty" }
func (contextKind) TypeTableName() string       { return "Type" }
func (contextKind) EdgeTableName() string        { return "" }
func (contextKind) RequiresName() bool          { return true }

// Artifact, Execution, and Context are the three NodeKind singletons.
var (
	Artifact  NodeKind = artifactKind{}
	Execution NodeKind = executionKind{}
	Context   NodeKind = contextKind{}
)

// For returns the NodeKind singleton for a model.Kind.
func For(k model.Kind) NodeKind {
	switch k {
	case model.ArtifactKind:
		return Artifact
	case model.ExecutionKind:
		return Execution
	case model.ContextKind:
		return Context
	default:
		return nil
	}
}

// All lists the three NodeKind singletons, in the order the schema
// creates their tables.
func All() []NodeKind {
	return []NodeKind{Artifact, Execution, Context}
}
