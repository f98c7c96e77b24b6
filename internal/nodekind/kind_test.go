package nodekind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForRoundTrips(t *testing.T) {
	for _, nk := range All() {
		assert.Equal(t, nk, For(nk.Kind()))
	}
}

func TestContextRequiresName(t *testing.T) {
	assert.True(t, Context.RequiresName())
	assert.False(t, Artifact.RequiresName())
	assert.False(t, Execution.RequiresName())
}

func TestEdgeTableNames(t *testing.T) {
	assert.Equal(t, "Attribution", Artifact.EdgeTableName())
	assert.Equal(t, "Association", Execution.EdgeTableName())
	assert.Equal(t, "", Context.EdgeTableName())
}
