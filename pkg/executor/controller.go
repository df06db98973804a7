// Package executor drives workflow runs against the execution engine and
// turns lifecycle events into render instructions for a consumer. The
// streaming and synchronous controllers share one rendering contract.
package executor

import (
	"context"
	"sort"

	"github.com/flowpilot-dev/flowpilot/pkg/core"
	"github.com/flowpilot-dev/flowpilot/pkg/engine"
	"github.com/flowpilot-dev/flowpilot/pkg/flow"
	"github.com/flowpilot-dev/flowpilot/pkg/validator"
)

// State is the run lifecycle state.
type State int

// Run states. Only Idle may transition to Running; Done and Failed are
// terminal for that run and a fresh Run starts over from Idle semantics.
const (
	StateIdle State = iota
	StateRunning
	StateDone
	StateFailed
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Callbacks receive render instructions during a run. All fields are
// optional; nil callbacks are skipped. OnBusy brackets every run so the
// caller can disable and re-enable controls; it fires on all exit paths.
type Callbacks struct {
	OnStatus         func(message string)
	OnWorkflowParsed func(ev engine.WorkflowParsedEvent)
	OnStepStart      func(ev engine.StepStartEvent)
	OnStepComplete   func(step core.StepReport)
	OnComplete       func(ev engine.WorkflowCompleteEvent)
	OnError          func(message string)
	OnBusy           func(busy bool)
}

func (cb Callbacks) status(msg string) {
	if cb.OnStatus != nil {
		cb.OnStatus(msg)
	}
}

func (cb Callbacks) workflowParsed(ev engine.WorkflowParsedEvent) {
	if cb.OnWorkflowParsed != nil {
		cb.OnWorkflowParsed(ev)
	}
}

func (cb Callbacks) stepStart(ev engine.StepStartEvent) {
	if cb.OnStepStart != nil {
		cb.OnStepStart(ev)
	}
}

func (cb Callbacks) stepComplete(step core.StepReport) {
	if cb.OnStepComplete != nil {
		cb.OnStepComplete(step)
	}
}

func (cb Callbacks) complete(ev engine.WorkflowCompleteEvent) {
	if cb.OnComplete != nil {
		cb.OnComplete(ev)
	}
}

func (cb Callbacks) error(msg string) {
	if cb.OnError != nil {
		cb.OnError(msg)
	}
}

func (cb Callbacks) busy(b bool) {
	if cb.OnBusy != nil {
		cb.OnBusy(b)
	}
}

// StreamController consumes one run's event stream and maintains a
// monotonically growing view of workflow progress. Only one run is active
// at a time; starting a new run tears down any open stream first.
type StreamController struct {
	client *engine.Client
	cb     Callbacks

	state      State
	cancel     context.CancelFunc // owned connection handle; nil when no stream is open
	workflowID string
	stepCount  int
	progress   string
	inProgress map[int]struct{}
	completed  map[int]core.StepReport

	lastStreamError string
}

// NewStreamController creates a controller bound to an engine client and a
// render consumer.
func NewStreamController(client *engine.Client, cb Callbacks) *StreamController {
	return &StreamController{
		client:     client,
		cb:         cb,
		inProgress: map[int]struct{}{},
		completed:  map[int]core.StepReport{},
	}
}

// State returns the current run state.
func (c *StreamController) State() State { return c.state }

// WorkflowID returns the id announced by workflow_parsed, if any.
func (c *StreamController) WorkflowID() string { return c.workflowID }

// Progress returns the latest status message.
func (c *StreamController) Progress() string { return c.progress }

// InProgress returns the step numbers with a provisional in-progress
// marker, in ascending order.
func (c *StreamController) InProgress() []int {
	out := make([]int, 0, len(c.inProgress))
	for n := range c.inProgress {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Completed returns the finished step reports in ascending step order.
func (c *StreamController) Completed() []core.StepReport {
	out := make([]core.StepReport, 0, len(c.completed))
	for _, s := range c.completed {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StepNumber < out[j].StepNumber })
	return out
}

// Run validates and submits the collection's steps as a streaming run and
// blocks until the stream terminates. The returned error is non-nil for
// guard rejections and transport or stream errors; a workflow that ran to
// completion but failed reports StateFailed with a nil error.
func (c *StreamController) Run(ctx context.Context, col *flow.Collection, userData map[string]string) error {
	steps := col.Steps()
	if len(steps) == 0 {
		return core.ErrEmptyWorkflow
	}
	if errs := validator.ValidateAll(steps); len(errs) > 0 {
		return core.ErrInvalidSteps
	}
	req := engine.StreamRequest{Steps: flow.ExecutionPayload(col), UserData: userData}
	return c.run(ctx, req)
}

// RunInstructions submits free-text instructions as a streaming run.
func (c *StreamController) RunInstructions(ctx context.Context, instructions string, userData map[string]string) error {
	if instructions == "" {
		return core.ErrEmptyWorkflow.WithMessage("instructions are empty")
	}
	req := engine.StreamRequest{Instructions: instructions, UserData: userData}
	return c.run(ctx, req)
}

func (c *StreamController) run(ctx context.Context, req engine.StreamRequest) error {
	// Starting over always begins from Idle semantics; an open stream from
	// a previous run is terminated first.
	c.Reset()

	streamCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.cb.busy(true)
	defer c.cb.busy(false)
	defer c.teardown()

	ch, err := c.client.Stream(streamCtx, req)
	if err != nil {
		c.state = StateFailed
		c.cb.error(err.Error())
		return err
	}
	c.state = StateRunning

	for ev := range ch {
		c.handleEvent(ev)
	}

	if c.state == StateRunning {
		// The transport dropped with no terminal event.
		c.state = StateFailed
		c.cb.error(core.ErrConnectionLost.Message)
		return core.ErrConnectionLost
	}
	if c.state == StateFailed && c.lastStreamError != "" {
		return core.ErrBackendReported.WithMessage(c.lastStreamError)
	}
	return nil
}

// handleEvent applies one lifecycle event. Events are only accepted while
// Running; anything after a terminal transition is dropped.
func (c *StreamController) handleEvent(ev engine.Event) {
	if c.state != StateRunning {
		return
	}

	switch ev.Type {
	case engine.EventStatus:
		c.progress = ev.Status.Message
		c.cb.status(ev.Status.Message)

	case engine.EventWorkflowParsed:
		c.workflowID = ev.WorkflowParsed.WorkflowID
		c.stepCount = ev.WorkflowParsed.StepCount
		c.cb.workflowParsed(*ev.WorkflowParsed)

	case engine.EventStepStart:
		c.inProgress[ev.StepStart.StepNumber] = struct{}{}
		c.cb.stepStart(*ev.StepStart)

	case engine.EventStepComplete:
		// Removing an absent marker is a benign no-op, and a duplicate
		// completion overwrites the earlier report idempotently.
		delete(c.inProgress, ev.StepComplete.StepNumber)
		c.completed[ev.StepComplete.StepNumber] = *ev.StepComplete
		c.cb.stepComplete(*ev.StepComplete)

	case engine.EventWorkflowComplete:
		c.cb.complete(*ev.WorkflowComplete)
		if ev.WorkflowComplete.Success {
			c.state = StateDone
		} else {
			c.state = StateFailed
		}

	case engine.EventStreamError:
		msg := ev.StreamError.Text()
		c.lastStreamError = msg
		c.cb.error(msg)
		c.state = StateFailed
	}
}

// Reset tears down any open stream and returns the controller to Idle with
// empty progress state.
func (c *StreamController) Reset() {
	c.teardown()
	c.state = StateIdle
	c.workflowID = ""
	c.stepCount = 0
	c.progress = ""
	c.lastStreamError = ""
	c.inProgress = map[int]struct{}{}
	c.completed = map[int]core.StepReport{}
}

// teardown is the single release path for the stream connection. It is
// invoked on every transition into a terminal state and before a new run.
func (c *StreamController) teardown() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
