package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flowpilot-dev/flowpilot/pkg/core"
)

// tinyPNG is a 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func sampleReport() *core.Report {
	return &core.Report{
		WorkflowID: "wf-42",
		Success:    false,
		Steps: []core.StepReport{
			{
				StepNumber: 0, Action: "goto", Status: core.StatusSuccess, DurationMs: 120,
				Logs: []string{"Executing goto", "Navigated to https://example.com"},
			},
			{
				StepNumber: 1, Action: "extract", Status: core.StatusSuccess, DurationMs: 60,
				Logs:          []string{"Executing extract"},
				ExtractedData: core.ExtractedData{"Hello world"},
			},
			{
				StepNumber: 2, Action: "click", Status: core.StatusFailed, DurationMs: 45,
				Logs:             []string{"Executing click", "Action failed: element not found"},
				Error:            "element not found",
				ScreenshotBase64: tinyPNG,
			},
		},
		TotalDurationMs: 225,
		Error:           "element not found",
	}
}

func TestWriteSummary(t *testing.T) {
	var buf strings.Builder
	WriteSummary(&buf, sampleReport())
	out := buf.String()

	for _, want := range []string{
		"wf-42",
		"FAILED",
		"3/3 steps",
		"Navigated to https://example.com",
		"extracted: Hello world",
		"error: element not found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummaryPassed(t *testing.T) {
	var buf strings.Builder
	WriteSummary(&buf, &core.Report{
		WorkflowID:      "wf-1",
		Success:         true,
		Steps:           []core.StepReport{{StepNumber: 0, Action: "screenshot", Status: core.StatusSuccess}},
		TotalDurationMs: 90,
	})
	if !strings.Contains(buf.String(), "PASSED") {
		t.Errorf("summary = %s", buf.String())
	}
}

func TestGenerateHTML(t *testing.T) {
	out := filepath.Join(t.TempDir(), "reports", "run.html")
	err := GenerateHTML(sampleReport(), HTMLConfig{OutputPath: out})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"wf-42",
		"Failed",
		"element not found",
		"Hello world",
		"data:image/png;base64,",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestGenerateHTMLDefaultTitle(t *testing.T) {
	out := filepath.Join(t.TempDir(), "run.html")
	if err := GenerateHTML(sampleReport(), HTMLConfig{OutputPath: out}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(out)
	if !strings.Contains(string(data), "<title>Workflow Report</title>") {
		t.Error("default title missing")
	}
}

func TestThumbnailSmallImagePassesThrough(t *testing.T) {
	got := thumbnail(tinyPNG)
	if got != "data:image/png;base64,"+tinyPNG {
		t.Errorf("thumbnail = %.40s...", got)
	}
}

func TestThumbnailGarbage(t *testing.T) {
	if got := thumbnail("not base64 at all!!"); got != "" {
		t.Errorf("thumbnail = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{250, "250ms"},
		{1500, "1.5s"},
		{65000, "1m 5s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.ms); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
