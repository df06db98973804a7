// Package engine is the HTTP client for the workflow execution engine: a
// synchronous run/parse surface and a streaming variant delivering
// lifecycle events over server-sent events.
package engine

import (
	"encoding/json"
	"fmt"

	"github.com/flowpilot-dev/flowpilot/pkg/core"
	"github.com/flowpilot-dev/flowpilot/pkg/flow"
)

// EventType names one streamed lifecycle event.
type EventType string

// Stream event types. A run emits exactly one workflow_parsed, one
// step_start/step_complete pair per step in ascending order, then one
// workflow_complete; status events may be interleaved and an error event
// terminates the stream at any point.
const (
	EventStatus           EventType = "status"
	EventWorkflowParsed   EventType = "workflow_parsed"
	EventStepStart        EventType = "step_start"
	EventStepComplete     EventType = "step_complete"
	EventWorkflowComplete EventType = "workflow_complete"
	EventStreamError      EventType = "error"
)

// StatusEvent is a human-readable progress update.
type StatusEvent struct {
	Message string `json:"message"`
}

// WorkflowParsedEvent announces the parsed workflow before execution.
type WorkflowParsedEvent struct {
	WorkflowID string             `json:"workflow_id"`
	StepCount  int                `json:"step_count"`
	Steps      []flow.StepPayload `json:"steps"`
}

// StepStartEvent announces that a step began executing.
type StepStartEvent struct {
	StepNumber int    `json:"step_number"`
	Action     string `json:"action"`
	TotalSteps int    `json:"total_steps"`
}

// WorkflowCompleteEvent is the terminal summary of a successful stream.
type WorkflowCompleteEvent struct {
	WorkflowID      string `json:"workflow_id"`
	Success         bool   `json:"success"`
	TotalDurationMs int64  `json:"total_duration_ms"`
	StepsCompleted  int    `json:"steps_completed"`
}

// StreamErrorEvent terminates a run without a workflow_complete. The engine
// writes the message under either "message" or "error".
type StreamErrorEvent struct {
	Message  string `json:"message"`
	ErrorMsg string `json:"error"`
}

// Text returns the event's message regardless of which key carried it.
func (e StreamErrorEvent) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorMsg
}

// Event is the tagged union of streamed lifecycle events. Exactly one
// payload pointer is set, matching Type.
type Event struct {
	Type             EventType
	Status           *StatusEvent
	WorkflowParsed   *WorkflowParsedEvent
	StepStart        *StepStartEvent
	StepComplete     *core.StepReport
	WorkflowComplete *WorkflowCompleteEvent
	StreamError      *StreamErrorEvent
}

// Terminal returns true if the event ends the stream.
func (e Event) Terminal() bool {
	return e.Type == EventWorkflowComplete || e.Type == EventStreamError
}

// DecodeEvent parses one named SSE event with a JSON payload.
func DecodeEvent(name string, data []byte) (Event, error) {
	ev := Event{Type: EventType(name)}
	var err error
	switch ev.Type {
	case EventStatus:
		ev.Status = &StatusEvent{}
		err = json.Unmarshal(data, ev.Status)
	case EventWorkflowParsed:
		ev.WorkflowParsed = &WorkflowParsedEvent{}
		err = json.Unmarshal(data, ev.WorkflowParsed)
	case EventStepStart:
		ev.StepStart = &StepStartEvent{}
		err = json.Unmarshal(data, ev.StepStart)
	case EventStepComplete:
		ev.StepComplete = &core.StepReport{}
		err = json.Unmarshal(data, ev.StepComplete)
	case EventWorkflowComplete:
		ev.WorkflowComplete = &WorkflowCompleteEvent{}
		err = json.Unmarshal(data, ev.WorkflowComplete)
	case EventStreamError:
		ev.StreamError = &StreamErrorEvent{}
		err = json.Unmarshal(data, ev.StreamError)
	default:
		return Event{}, fmt.Errorf("unknown stream event %q", name)
	}
	if err != nil {
		return Event{}, fmt.Errorf("decode %s event: %w", name, err)
	}
	return ev, nil
}
