package core

import (
	"encoding/json"
	"fmt"
)

// ExtractedData carries an extract step's result, which the engine encodes
// as either a single string or a list of strings.
type ExtractedData []string

// UnmarshalJSON accepts both the string and list wire forms.
func (d *ExtractedData) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*d = ExtractedData{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("extracted data is neither string nor list: %w", err)
	}
	*d = ExtractedData(list)
	return nil
}

// MarshalJSON writes the single-string form when there is exactly one value.
func (d ExtractedData) MarshalJSON() ([]byte, error) {
	if len(d) == 1 {
		return json.Marshal(d[0])
	}
	return json.Marshal([]string(d))
}

// StepReport is the engine's result for one executed step.
type StepReport struct {
	StepNumber       int           `json:"step_number"`
	Action           string        `json:"action"`
	Status           Status        `json:"status"`
	DurationMs       int64         `json:"duration_ms"`
	Logs             []string      `json:"logs"`
	Error            string        `json:"error,omitempty"`
	ExtractedData    ExtractedData `json:"extracted_data,omitempty"`
	ScreenshotBase64 string        `json:"screenshot_base64,omitempty"`
}

// Report is the engine's complete result for one workflow run, shared by
// the synchronous endpoint and the replayed stream.
type Report struct {
	WorkflowID      string       `json:"workflow_id"`
	Success         bool         `json:"success"`
	Steps           []StepReport `json:"steps"`
	TotalDurationMs int64        `json:"total_duration_ms"`
	Error           string       `json:"error,omitempty"`
}

// StepsCompleted returns the number of steps that reached a terminal status.
func (r *Report) StepsCompleted() int {
	n := 0
	for _, s := range r.Steps {
		if s.Status.IsTerminal() {
			n++
		}
	}
	return n
}
