package core

import "fmt"

// ErrorCategory classifies a failure for propagation decisions: validation
// errors stay inline in the editor, transport and backend errors surface to
// the user, persistence parse errors are silently recovered.
type ErrorCategory int

// Error categories.
const (
	CategoryNone             ErrorCategory = iota
	CategoryValidation                     // Field-level, recoverable, blocks submission
	CategoryTransport                      // Stream drop, failed fetch, non-success HTTP
	CategoryBackendReported                // Explicit error inside a well-formed report/event
	CategoryPersistenceParse               // Corrupt client-local state
)

// String returns the string representation of ErrorCategory.
func (c ErrorCategory) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryValidation:
		return "validation"
	case CategoryTransport:
		return "transport"
	case CategoryBackendReported:
		return "backend"
	case CategoryPersistenceParse:
		return "persistence"
	default:
		return "unknown"
	}
}

// ExecutionError is a categorized error with an optional cause.
type ExecutionError struct {
	Category ErrorCategory
	Code     string // Machine-readable code: connection_lost, invalid_steps, ...
	Message  string // Human-readable message
	Cause    error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExecutionError) Unwrap() error { return e.Cause }

// Is matches by code, so WithCause and WithMessage copies still compare
// equal to their predefined error under errors.Is.
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	return ok && t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause attached.
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{Category: e.Category, Code: e.Code, Message: e.Message, Cause: cause}
}

// WithMessage returns a copy of the error with a custom message.
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{Category: e.Category, Code: e.Code, Message: msg, Cause: e.Cause}
}

// Predefined errors.
var (
	ErrInvalidSteps = &ExecutionError{
		Category: CategoryValidation,
		Code:     "invalid_steps",
		Message:  "workflow has validation errors",
	}
	ErrEmptyWorkflow = &ExecutionError{
		Category: CategoryValidation,
		Code:     "empty_workflow",
		Message:  "workflow has no steps",
	}
	ErrConnectionLost = &ExecutionError{
		Category: CategoryTransport,
		Code:     "connection_lost",
		Message:  "connection to the execution engine was lost",
	}
	ErrRequestFailed = &ExecutionError{
		Category: CategoryTransport,
		Code:     "request_failed",
		Message:  "request to the execution engine failed",
	}
	ErrBackendReported = &ExecutionError{
		Category: CategoryBackendReported,
		Code:     "backend_error",
		Message:  "the execution engine reported an error",
	}
	ErrStatePersistence = &ExecutionError{
		Category: CategoryPersistenceParse,
		Code:     "state_corrupt",
		Message:  "saved workflow state could not be parsed",
	}
)
