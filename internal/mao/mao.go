// Package mao is the Metadata Access Object (spec §4.5): the typed
// domain API translating CreateArtifactType, PutArtifact,
// PublishEvent, and friends into one or more Query Executor calls,
// enforcing the cross-row invariants (uniqueness, property
// conformance, idempotent edge upsert) the executor itself does not
// know about.
package mao

import (
	"github.com/unclerayray/ml-metadata/internal/clock"
	"github.com/unclerayray/ml-metadata/internal/executor"
)

// MAO binds one Executor (and hence one open transaction) to a clock
// for stamping create_time/last_update_time. The Store Façade
// constructs a fresh MAO per call, mirroring Executor's per-transaction
// lifetime.
type MAO struct {
	Exec  *executor.Executor
	Clock clock.Clock
}

// New constructs a MAO over an already-open Executor.
func New(exec *executor.Executor, c clock.Clock) *MAO {
	return &MAO{Exec: exec, Clock: c}
}
