// Package propval defines the typed value union stored in every
// <Kind>Property row, and the declared data types a TypeProperty can
// carry. It mirrors the teacher's sealed IRValue pattern: a marker
// method seals the interface to this package so switches over Value can
// be exhaustive.
package propval

import (
	"encoding/json"
	"fmt"
)

// DataType is the schema-level type a TypeProperty declares
// (TypeProperty.data_type in spec §3.1). STRUCT properties are declared
// with a nested schema and stored as a JSON string.
type DataType int

const (
	Unknown DataType = iota
	Int
	Double
	String
	Struct
)

func (d DataType) String() string {
	switch d {
	case Int:
		return "INT"
	case Double:
		return "DOUBLE"
	case String:
		return "STRING"
	case Struct:
		return "STRUCT"
	default:
		return "UNKNOWN"
	}
}

// ParseDataType maps the textual column value stored in TypeProperty
// back to a DataType, returning ok=false for anything unrecognized.
func ParseDataType(s string) (DataType, bool) {
	switch s {
	case "INT":
		return Int, true
	case "DOUBLE":
		return Double, true
	case "STRING":
		return String, true
	case "STRUCT":
		return Struct, true
	default:
		return Unknown, false
	}
}

// Value is the storage-level value union for a <Kind>Property row: one
// of int_value, double_value, or string_value is populated (never more
// than one — that is the "value_case" the spec's Internal error refers
// to). A Struct-typed declared property is carried as a String whose
// contents are JSON.
//
// This is a sealed interface: only the types in this file implement it.
type Value interface {
	propvalNode()
}

type IntValue int64

func (IntValue) propvalNode() {}

type DoubleValue float64

func (DoubleValue) propvalNode() {}

type StringValue string

func (StringValue) propvalNode() {}

// StructValue marshals v to JSON and returns it as a StringValue, the
// wire representation spec §4.3's binding rules prescribe for
// structured property messages.
func StructValue(v any) (StringValue, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal struct property: %w", err)
	}
	return StringValue(data), nil
}

// MatchesDataType reports whether a value's runtime type is the one a
// declared TypeProperty said it should be. STRUCT properties are
// represented as StringValue (JSON) at the storage layer, so Struct
// matches StringValue just as String does; the MAO is responsible for
// telling the two apart by the declared DataType, not by inspecting the
// string contents.
func MatchesDataType(v Value, dt DataType) bool {
	switch v.(type) {
	case IntValue:
		return dt == Int
	case DoubleValue:
		return dt == Double
	case StringValue:
		return dt == String || dt == Struct
	default:
		return false
	}
}

// Case returns the column name the value occupies in a <Kind>Property
// row: "int_value", "double_value", or "string_value".
func Case(v Value) string {
	switch v.(type) {
	case IntValue:
		return "int_value"
	case DoubleValue:
		return "double_value"
	case StringValue:
		return "string_value"
	default:
		return ""
	}
}
