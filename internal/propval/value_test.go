package propval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataTypeRoundTrips(t *testing.T) {
	for _, dt := range []DataType{Int, Double, String, Struct} {
		parsed, ok := ParseDataType(dt.String())
		require.True(t, ok)
		assert.Equal(t, dt, parsed)
	}
}

func TestParseDataTypeRejectsUnknown(t *testing.T) {
	_, ok := ParseDataType("BOOL")
	assert.False(t, ok)
}

func TestMatchesDataType(t *testing.T) {
	assert.True(t, MatchesDataType(IntValue(3), Int))
	assert.False(t, MatchesDataType(IntValue(3), String))
	assert.True(t, MatchesDataType(DoubleValue(1.5), Double))
	assert.True(t, MatchesDataType(StringValue("x"), String))
	assert.True(t, MatchesDataType(StringValue("{}"), Struct), "struct properties are carried as JSON strings")
}

func TestStructValueMarshalsToJSON(t *testing.T) {
	v, err := StructValue(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(v))
}

func TestCase(t *testing.T) {
	assert.Equal(t, "int_value", Case(IntValue(1)))
	assert.Equal(t, "double_value", Case(DoubleValue(1)))
	assert.Equal(t, "string_value", Case(StringValue("s")))
}
