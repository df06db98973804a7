// Package core holds the shared vocabulary of workflow execution: statuses,
// the wire report shape, the error taxonomy, and screenshot helpers.
package core

// Status represents the execution status of a step or workflow on the wire.
type Status string

// Status values.
const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// IsTerminal returns true if the status is a final state.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusSkipped
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool { return s == StatusSuccess }
