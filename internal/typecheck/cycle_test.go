package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWouldCycleDetectsSelfEdge(t *testing.T) {
	g := Graph{}
	assert.True(t, WouldCycle(g, 1, 1))
}

func TestWouldCycleDetectsDirectCycle(t *testing.T) {
	g := Graph{}
	g.AddEdge(2, 1) // 2's parent is 1
	assert.True(t, WouldCycle(g, 1, 2)) // 1's parent would become 2: 1->2->1
}

func TestWouldCycleDetectsTransitiveCycle(t *testing.T) {
	g := Graph{}
	g.AddEdge(2, 1)
	g.AddEdge(3, 2)
	assert.True(t, WouldCycle(g, 1, 3)) // 1->3->2->1
}

func TestWouldCycleAllowsDAGExtension(t *testing.T) {
	g := Graph{}
	g.AddEdge(2, 1)
	g.AddEdge(3, 1)
	assert.False(t, WouldCycle(g, 4, 1))
	assert.False(t, WouldCycle(g, 2, 3))
}

func TestWouldCycleDoesNotMutateInputGraph(t *testing.T) {
	g := Graph{}
	g.AddEdge(2, 1)
	before := len(g)
	WouldCycle(g, 1, 2)
	assert.Equal(t, before, len(g))
	assert.Len(t, g[1], 0)
}
