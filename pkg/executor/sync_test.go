package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flowpilot-dev/flowpilot/pkg/core"
	"github.com/flowpilot-dev/flowpilot/pkg/engine"
	"github.com/flowpilot-dev/flowpilot/pkg/flow"
)

func TestSyncControllerReplaysReportInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workflow/execute-steps" {
			t.Errorf("path = %s", r.URL.Path)
		}
		// Steps deliberately out of order; the replay must sort them.
		json.NewEncoder(w).Encode(engine.RunResult{Report: core.Report{
			WorkflowID: "wf-sync",
			Success:    true,
			Steps: []core.StepReport{
				{StepNumber: 1, Action: "screenshot", Status: core.StatusSuccess, DurationMs: 10},
				{StepNumber: 0, Action: "goto", Status: core.StatusSuccess, DurationMs: 40},
			},
			TotalDurationMs: 50,
		}})
	}))
	defer srv.Close()

	rec := &recorder{}
	ctrl := NewSyncController(engine.NewClient(srv.URL), rec.callbacks())
	res, err := ctrl.RunSteps(context.Background(), twoStepCollection(t), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Success || res.WorkflowID != "wf-sync" {
		t.Errorf("result = %+v", res.Report)
	}

	want := []string{
		"parsed:2",
		"start:0", "done:0:success",
		"start:1", "done:1:success",
		"complete:true",
	}
	if fmt.Sprint(rec.calls) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
	if fmt.Sprint(rec.busy) != fmt.Sprint([]bool{true, false}) {
		t.Errorf("busy transitions = %v", rec.busy)
	}
}

func TestSyncControllerFailedReportSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(engine.RunResult{Report: core.Report{
			WorkflowID: "wf-sync",
			Success:    false,
			Steps: []core.StepReport{
				{StepNumber: 0, Action: "goto", Status: core.StatusFailed, Error: "navigation timeout"},
			},
			TotalDurationMs: 30,
			Error:           "navigation timeout",
		}})
	}))
	defer srv.Close()

	rec := &recorder{}
	ctrl := NewSyncController(engine.NewClient(srv.URL), rec.callbacks())
	res, err := ctrl.RunSteps(context.Background(), twoStepCollection(t), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Success {
		t.Error("result reported success")
	}
	// Partial results render first, then the failure message.
	last := rec.calls[len(rec.calls)-1]
	if last != "error:navigation timeout" {
		t.Errorf("last call = %q, calls = %v", last, rec.calls)
	}
	if fmt.Sprint(rec.calls[:3]) != fmt.Sprint([]string{"parsed:1", "start:0", "done:0:failed"}) {
		t.Errorf("calls = %v", rec.calls)
	}
}

func TestSyncControllerGuards(t *testing.T) {
	ctrl := NewSyncController(nil, Callbacks{})

	if _, err := ctrl.Run(context.Background(), "", nil); !errors.Is(err, core.ErrEmptyWorkflow) {
		t.Errorf("empty instructions: err = %v", err)
	}
	if _, err := ctrl.RunSteps(context.Background(), flow.NewCollection(), nil); !errors.Is(err, core.ErrEmptyWorkflow) {
		t.Errorf("empty collection: err = %v", err)
	}
}

func TestSyncControllerTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	rec := &recorder{}
	ctrl := NewSyncController(engine.NewClient(srv.URL), rec.callbacks())
	_, err := ctrl.RunSteps(context.Background(), twoStepCollection(t), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var execErr *core.ExecutionError
	if !errors.As(err, &execErr) || execErr.Category != core.CategoryTransport {
		t.Errorf("err = %v", err)
	}
	if len(rec.calls) == 0 || rec.calls[len(rec.calls)-1][:6] != "error:" {
		t.Errorf("calls = %v", rec.calls)
	}
	if fmt.Sprint(rec.busy) != fmt.Sprint([]bool{true, false}) {
		t.Errorf("busy transitions = %v", rec.busy)
	}
}
