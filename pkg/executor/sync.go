package executor

import (
	"context"
	"sort"

	"github.com/flowpilot-dev/flowpilot/pkg/core"
	"github.com/flowpilot-dev/flowpilot/pkg/engine"
	"github.com/flowpilot-dev/flowpilot/pkg/flow"
	"github.com/flowpilot-dev/flowpilot/pkg/validator"
)

// SyncController runs a workflow through the blocking engine endpoints and
// replays the final report through the same callbacks the streaming
// controller uses, so a consumer renders both paths identically.
type SyncController struct {
	client *engine.Client
	cb     Callbacks
}

// NewSyncController creates a controller bound to an engine client and a
// render consumer.
func NewSyncController(client *engine.Client, cb Callbacks) *SyncController {
	return &SyncController{client: client, cb: cb}
}

// Run submits free-text instructions and blocks until the engine returns a
// report. The report is replayed to the callbacks before returning.
func (c *SyncController) Run(ctx context.Context, instructions string, userData map[string]string) (*engine.RunResult, error) {
	if instructions == "" {
		return nil, core.ErrEmptyWorkflow.WithMessage("instructions are empty")
	}
	c.cb.busy(true)
	defer c.cb.busy(false)

	res, err := c.client.Run(ctx, instructions, userData)
	if err != nil {
		c.cb.error(err.Error())
		return nil, err
	}
	c.replay(res)
	return res, nil
}

// RunSteps validates and submits the collection's steps, blocking until the
// engine returns a report.
func (c *SyncController) RunSteps(ctx context.Context, col *flow.Collection, userData map[string]string) (*engine.RunResult, error) {
	steps := col.Steps()
	if len(steps) == 0 {
		return nil, core.ErrEmptyWorkflow
	}
	if errs := validator.ValidateAll(steps); len(errs) > 0 {
		return nil, core.ErrInvalidSteps
	}
	c.cb.busy(true)
	defer c.cb.busy(false)

	res, err := c.client.ExecuteSteps(ctx, flow.ExecutionPayload(col), userData)
	if err != nil {
		c.cb.error(err.Error())
		return nil, err
	}
	c.replay(res)
	return res, nil
}

// replay renders a finished report as the equivalent event sequence:
// workflow_parsed, then a start/complete pair per step in ascending step
// order, then workflow_complete. A failed report also surfaces its error
// message so partial results and the failure render together.
func (c *SyncController) replay(res *engine.RunResult) {
	steps := make([]core.StepReport, len(res.Steps))
	copy(steps, res.Steps)
	sort.Slice(steps, func(i, j int) bool { return steps[i].StepNumber < steps[j].StepNumber })

	c.cb.workflowParsed(engine.WorkflowParsedEvent{
		WorkflowID: res.WorkflowID,
		StepCount:  len(steps),
		Steps:      res.WorkflowSteps,
	})
	for _, s := range steps {
		c.cb.stepStart(engine.StepStartEvent{
			StepNumber: s.StepNumber,
			Action:     s.Action,
			TotalSteps: len(steps),
		})
		c.cb.stepComplete(s)
	}
	c.cb.complete(engine.WorkflowCompleteEvent{
		WorkflowID:      res.WorkflowID,
		Success:         res.Success,
		TotalDurationMs: res.TotalDurationMs,
		StepsCompleted:  res.StepsCompleted(),
	})
	if !res.Success && res.Error != "" {
		c.cb.error(res.Error)
	}
}
