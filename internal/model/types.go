// Package model defines the entity and relationship types of the
// metadata graph: types, nodes (Artifact/Execution/Context), their
// properties, and the edges between them (spec §3.1).
package model

import "github.com/unclerayray/ml-metadata/internal/propval"

// Kind distinguishes the three node flavors. A node's Kind determines
// which table (and property table) it lives in.
type Kind int

const (
	ArtifactKind Kind = iota
	ExecutionKind
	ContextKind
)

func (k Kind) String() string {
	switch k {
	case ArtifactKind:
		return "Artifact"
	case ExecutionKind:
		return "Execution"
	case ContextKind:
		return "Context"
	default:
		return "Unknown"
	}
}

// PropertyDecl declares one property name/type pair on a Type.
type PropertyDecl struct {
	Name string
	Type propval.DataType
}

// Type is the shared shape of ArtifactType, ExecutionType, and
// ContextType: a named, optionally versioned schema. Kind distinguishes
// which table it belongs to; InputType/OutputType are only meaningful
// for ExecutionType (stored as the JSON of a nested struct schema).
type Type struct {
	ID          int64
	Kind        Kind
	Name        string
	Version     string // empty means unversioned
	Description string
	InputType   string // JSON; ExecutionType only
	OutputType  string // JSON; ExecutionType only
	Properties  []PropertyDecl
}

// ParentTypeEdge is a directed (type_id, parent_type_id) edge. The graph
// over all ParentTypeEdges for a Kind must be acyclic (spec §3.2).
type ParentTypeEdge struct {
	TypeID       int64
	ParentTypeID int64
}

// NodeState is the lifecycle state stored on Artifact/Execution rows.
type NodeState int

const (
	StateUnknown NodeState = iota
	StatePending
	StateLive
	StateMarkedForDeletion
	StateDeleted
)

// Node is the shared shape of Artifact, Execution, and Context rows.
// Context requires Name; Artifact/Execution allow an empty Name.
type Node struct {
	ID             int64
	TypeID         int64
	Kind           Kind
	Name           string
	URI            string // Artifact only
	State          NodeState
	CreateTime     int64
	LastUpdateTime int64
	Properties     map[string]Property
}

// Property is one declared-or-custom property value attached to a node.
type Property struct {
	Name     string
	IsCustom bool
	Value    propval.Value
}

// EventType enumerates the edge role an Event plays between an
// Execution and an Artifact.
type EventType int

const (
	EventUnknown EventType = iota
	EventInput
	EventOutput
	EventDeclaredInput
	EventDeclaredOutput
	EventInternalInput
	EventInternalOutput
)

// Event links an Execution to an Artifact, with an ordered path into the
// artifact's internal structure.
type Event struct {
	ID                    int64
	ArtifactID            int64
	ExecutionID           int64
	Type                  EventType
	MillisecondsSinceEpoch int64
	Path                  []EventStep
}

// StepCase is the literal tag stored in EventPath.case_tag (spec §4.5).
type StepCase string

const (
	StepIndex StepCase = "step_index"
	StepKey   StepCase = "step_key"
)

// EventStep is one element of an Event's path: either an integer index
// into an array-shaped artifact, or a string key into a map-shaped one.
type EventStep struct {
	Case  StepCase
	Index int64
	Key   string
}

// Association links a Context to an Execution.
type Association struct {
	ContextID   int64
	ExecutionID int64
}

// Attribution links a Context to an Artifact.
type Attribution struct {
	ContextID  int64
	ArtifactID int64
}

// ParentContextEdge is a directed (context_id, parent_context_id) edge.
// The graph over all ParentContextEdges must be acyclic (spec §3.2).
type ParentContextEdge struct {
	ContextID       int64
	ParentContextID int64
}
