package mao

import (
	"context"
	"strconv"

	"github.com/unclerayray/ml-metadata/internal/mlmderr"
	"github.com/unclerayray/ml-metadata/internal/model"
)

// PublishEvent inserts an Event and its ordered EventPath steps in one
// call. A duplicate (artifact_id, execution_id, type) triple surfaces
// as AlreadyExists: unlike the edge tables, Event rows are never
// idempotently upserted (spec §4.3/§7) — a second PublishEvent for the
// same triple is a caller error, not a retried write.
func (m *MAO) PublishEvent(ctx context.Context, event *model.Event) (int64, error) {
	if event.ArtifactID == 0 || event.ExecutionID == 0 {
		return 0, mlmderr.InvalidArgumentf("PublishEvent", "event requires both an artifact_id and an execution_id")
	}
	if event.MillisecondsSinceEpoch == 0 {
		event.MillisecondsSinceEpoch = m.Clock.NowMillis()
	}

	if _, err := m.Exec.Exec(ctx, "insert_event", event.ArtifactID, event.ExecutionID, int(event.Type), event.MillisecondsSinceEpoch); err != nil {
		return 0, err
	}
	id, err := m.Exec.SelectLastInsertID(ctx)
	if err != nil {
		return 0, err
	}
	event.ID = id

	for i, step := range event.Path {
		isIndexStep := 0
		value := step.Key
		if step.Case == model.StepIndex {
			isIndexStep = 1
			value = strconv.FormatInt(step.Index, 10)
		}
		if _, err := m.Exec.Exec(ctx, "insert_event_path_step", id, int64(i), string(step.Case), isIndexStep, value); err != nil {
			return 0, err
		}
	}

	return id, nil
}

// GetEventsByArtifactID returns every Event recorded against an
// artifact, each with its EventPath steps loaded in step_ordinal order.
func (m *MAO) GetEventsByArtifactID(ctx context.Context, artifactID int64) ([]*model.Event, error) {
	return m.queryEvents(ctx, "select_events_by_artifact_id", artifactID)
}

// GetEventsByExecutionID returns every Event recorded against an
// execution.
func (m *MAO) GetEventsByExecutionID(ctx context.Context, executionID int64) ([]*model.Event, error) {
	return m.queryEvents(ctx, "select_events_by_execution_id", executionID)
}

func (m *MAO) queryEvents(ctx context.Context, templateName string, arg int64) ([]*model.Event, error) {
	rs, err := m.Exec.Query(ctx, templateName, arg)
	if err != nil {
		return nil, err
	}
	events := make([]*model.Event, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		e := &model.Event{
			ID:                     asInt64(row[0]),
			ArtifactID:              asInt64(row[1]),
			ExecutionID:             asInt64(row[2]),
			Type:                    model.EventType(asInt64(row[3])),
			MillisecondsSinceEpoch:  asInt64(row[4]),
		}
		path, err := m.loadEventPath(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		e.Path = path
		events = append(events, e)
	}
	return events, nil
}

func (m *MAO) loadEventPath(ctx context.Context, eventID int64) ([]model.EventStep, error) {
	rs, err := m.Exec.Query(ctx, "select_event_path_by_event_id", eventID)
	if err != nil {
		return nil, err
	}
	steps := make([]model.EventStep, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		// row: event_id, step_ordinal, case_tag, is_index_step, value
		caseTag := model.StepCase(asString(row[2]))
		step := model.EventStep{Case: caseTag}
		if caseTag == model.StepIndex {
			idx, err := strconv.ParseInt(asString(row[4]), 10, 64)
			if err != nil {
				return nil, mlmderr.Internalf("loadEventPath", "event %d step %v has a non-integer index value", eventID, row[1])
			}
			step.Index = idx
		} else {
			step.Key = asString(row[4])
		}
		steps = append(steps, step)
	}
	return steps, nil
}
