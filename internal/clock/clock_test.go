package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFakeClockDoesNotAdvanceOnItsOwn(t *testing.T) {
	c := NewFake(1000)
	assert.Equal(t, int64(1000), c.NowMillis())
	assert.Equal(t, int64(1000), c.NowMillis())
}

func TestFakeClockAdvanceIsMonotonic(t *testing.T) {
	c := NewFake(1000)
	assert.Equal(t, int64(1050), c.Advance(50))
	assert.Equal(t, int64(1050), c.NowMillis())
	assert.Equal(t, int64(1050), c.Advance(-10), "negative deltas clamp to 0, clock never runs backwards")
}

func TestSystemClockIsPositive(t *testing.T) {
	var c System
	assert.Greater(t, c.NowMillis(), int64(0))
}
