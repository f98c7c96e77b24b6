// Package clock provides the wall-clock source used to stamp create_time
// and last_update_time on every node. Writes never call time.Now directly
// so tests can assert exact millisecond values and so create_time <=
// last_update_time holds even when two writes land in the same instant.
package clock

import "time"

// Clock returns the current time as milliseconds since the Unix epoch.
type Clock interface {
	NowMillis() int64
}

// System is the production Clock, backed by time.Now.
type System struct{}

// NowMillis returns time.Now() truncated to milliseconds since the epoch.
func (System) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Fake is a deterministic Clock for tests. Unlike System, it never moves
// on its own — callers advance it explicitly, which makes
// create_time == last_update_time assertions on a fresh Put reproducible.
type Fake struct {
	millis int64
}

// NewFake creates a Fake clock starting at the given millisecond value.
func NewFake(startMillis int64) *Fake {
	return &Fake{millis: startMillis}
}

// NowMillis returns the clock's current value without advancing it.
func (f *Fake) NowMillis() int64 {
	return f.millis
}

// Advance moves the clock forward by delta milliseconds and returns the
// new value. delta must be >= 0; the clock never runs backwards.
func (f *Fake) Advance(delta int64) int64 {
	if delta < 0 {
		delta = 0
	}
	f.millis += delta
	return f.millis
}

// Set pins the clock to an exact value, for tests that need a specific
// create_time without caring about the path taken to reach it.
func (f *Fake) Set(millis int64) {
	f.millis = millis
}
