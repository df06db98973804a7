// Package report renders workflow run results: a terminal summary and a
// self-contained HTML report with embedded screenshots.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/flowpilot-dev/flowpilot/pkg/core"
)

// WriteSummary writes a human-readable run summary.
func WriteSummary(w io.Writer, r *core.Report) {
	verdict := "PASSED"
	if !r.Success {
		verdict = "FAILED"
	}
	fmt.Fprintf(w, "Workflow %s: %s (%s, %d/%d steps)\n",
		r.WorkflowID, verdict, formatDuration(r.TotalDurationMs), r.StepsCompleted(), len(r.Steps))

	for _, s := range r.Steps {
		mark := "✓"
		if s.Status == core.StatusFailed {
			mark = "✗"
		}
		fmt.Fprintf(w, "  %s [%d] %-10s %8s", mark, s.StepNumber, s.Action, formatDuration(s.DurationMs))
		if detail := lastLog(s); detail != "" {
			fmt.Fprintf(w, "  %s", detail)
		}
		fmt.Fprintln(w)
		if s.Error != "" {
			fmt.Fprintf(w, "      error: %s\n", s.Error)
		}
		for _, v := range s.ExtractedData {
			fmt.Fprintf(w, "      extracted: %s\n", v)
		}
	}

	if r.Error != "" && !r.Success {
		fmt.Fprintf(w, "Error: %s\n", r.Error)
	}
}

func lastLog(s core.StepReport) string {
	if len(s.Logs) == 0 {
		return ""
	}
	return strings.TrimSpace(s.Logs[len(s.Logs)-1])
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", ms)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}
