// Package simulator executes workflows without a browser, producing the
// same report and event shapes the real execution engine does. It backs
// local development, demos, and integration tests.
package simulator

import (
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/flowpilot-dev/flowpilot/pkg/core"
	"github.com/flowpilot-dev/flowpilot/pkg/flow"
)

// placeholderPNG is a 1x1 transparent PNG, stamped on steps that would
// capture a screenshot in a real run.
const placeholderPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

// Simulated per-action durations in milliseconds.
var durations = map[flow.Kind]int64{
	flow.StepGoto:       120,
	flow.StepClick:      45,
	flow.StepType:       80,
	flow.StepWait:       0, // reported as the configured duration
	flow.StepExtract:    60,
	flow.StepFormFill:   150,
	flow.StepScroll:     30,
	flow.StepUpload:     200,
	flow.StepScreenshot: 90,
}

var workflowSeq atomic.Uint64

func nextWorkflowID() string {
	return fmt.Sprintf("wf-sim-%d", workflowSeq.Add(1))
}

// Run executes the steps in order, interpolating {{user.key}} placeholders
// from userData. A failed goto aborts the remaining steps, since nothing
// after a missed navigation can be meaningful.
func Run(steps []flow.StepPayload, userData map[string]string) *core.Report {
	return runWith(steps, userData, nil, nil)
}

// runWith is the shared execution loop. onStart and onStep, when non-nil,
// observe each step as it happens; the streaming endpoint uses them to emit
// events.
func runWith(steps []flow.StepPayload, userData map[string]string,
	onStart func(number int, action string), onStep func(core.StepReport)) *core.Report {

	report := &core.Report{WorkflowID: nextWorkflowID(), Success: true}

	for i, payload := range steps {
		step := flow.InterpolateStep(flow.Step{Kind: payload.Action, Fields: payload.Fields}, userData)
		if onStart != nil {
			onStart(i, string(step.Kind))
		}
		sr := executeStep(step, i)
		report.Steps = append(report.Steps, sr)
		report.TotalDurationMs += sr.DurationMs
		if onStep != nil {
			onStep(sr)
		}

		if sr.Status == core.StatusFailed {
			report.Success = false
			if report.Error == "" {
				report.Error = sr.Error
			}
			if step.Kind == flow.StepGoto {
				break
			}
		}
	}
	if len(report.Steps) == 0 {
		report.Success = false
		report.Error = "workflow has no steps"
	}
	return report
}

// executeStep simulates one step and renders its human-readable log line.
func executeStep(step flow.Step, number int) core.StepReport {
	sr := core.StepReport{
		StepNumber: number,
		Action:     string(step.Kind),
		Status:     core.StatusSuccess,
		DurationMs: durations[step.Kind],
		Logs:       []string{fmt.Sprintf("Executing %s", step.Kind)},
	}

	fail := func(msg string) {
		sr.Status = core.StatusFailed
		sr.Error = msg
		sr.Logs = append(sr.Logs, "Action failed: "+msg)
	}
	ok := func(detail string) {
		sr.Logs = append(sr.Logs, detail)
	}

	switch step.Kind {
	case flow.StepGoto:
		raw := step.String("url")
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			fail(fmt.Sprintf("cannot navigate to %q", raw))
			break
		}
		ok(fmt.Sprintf("Navigated to %s", raw))

	case flow.StepClick:
		sel := selectorOrAuto(step)
		if sel == "" {
			fail("no element to click")
			break
		}
		ok(fmt.Sprintf("Clicked element: %s", sel))

	case flow.StepType:
		sel := step.String("selector")
		if sel == "" {
			fail("no element to type into")
			break
		}
		ok(fmt.Sprintf("Typed '%s' into %s", truncateValue(step.String("value")), sel))

	case flow.StepWait:
		d := step.Int("duration")
		sr.DurationMs = int64(d)
		ok(fmt.Sprintf("Waited %dms", d))

	case flow.StepExtract:
		sel := step.String("selector")
		if sel == "" {
			fail("no element to extract from")
			break
		}
		sr.ExtractedData = core.ExtractedData{fmt.Sprintf("sample text from %s", sel)}
		ok(fmt.Sprintf("Extracted %s from %s", step.String("mode"), sel))

	case flow.StepFormFill:
		fields := step.StringMap("fields")
		if step.Bool("autoDetect") {
			ok("Auto-detected and filled form fields")
			break
		}
		if len(fields) == 0 {
			fail("no form fields mapped")
			break
		}
		ok(fmt.Sprintf("Filled %d form fields", len(fields)))

	case flow.StepScroll:
		ok("Scrolled page")

	case flow.StepUpload:
		sel := step.String("selector")
		file := step.String("file")
		if sel == "" || file == "" {
			fail("upload needs a target and a file")
			break
		}
		ok(fmt.Sprintf("Uploaded %s to %s", file, sel))

	case flow.StepScreenshot:
		sr.ScreenshotBase64 = placeholderPNG
		ok("Captured screenshot")

	default:
		ok(fmt.Sprintf("Executed %s", step.Kind))
	}

	return sr
}

func selectorOrAuto(step flow.Step) string {
	if step.Bool("autoDetect") {
		return "(auto-detected)"
	}
	return step.String("selector")
}

// truncateValue shortens long typed values for log display.
func truncateValue(v string) string {
	if len(v) < 20 {
		return v
	}
	return v[:17] + "..."
}
