package core

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestStatus(t *testing.T) {
	if !StatusSuccess.IsTerminal() || !StatusFailed.IsTerminal() {
		t.Error("success/failed must be terminal")
	}
	if StatusRunning.IsTerminal() || StatusPending.IsTerminal() {
		t.Error("running/pending must not be terminal")
	}
	if !StatusSuccess.IsSuccess() || StatusFailed.IsSuccess() {
		t.Error("IsSuccess mismatch")
	}
}

func TestExtractedData_Union(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ExtractedData
	}{
		{"single string", `"hello"`, ExtractedData{"hello"}},
		{"list", `["a","b"]`, ExtractedData{"a", "b"}},
		{"empty list", `[]`, ExtractedData{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ExtractedData
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	var bad ExtractedData
	if err := json.Unmarshal([]byte(`42`), &bad); err == nil {
		t.Error("number: want error")
	}

	// Single values marshal back to the string form.
	out, err := json.Marshal(ExtractedData{"only"})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"only"` {
		t.Errorf("marshal single=%s", out)
	}
}

func TestScreenshotSniffing(t *testing.T) {
	tests := []struct {
		name string
		b64  string
		want string
	}{
		{"jpeg magic", "/9j/4AAQSkZJRg==", "image/jpeg"},
		{"png magic", "iVBORw0KGgo=", "image/png"},
		{"unknown defaults to png", "Qk0abcdef", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScreenshotMIME(tt.b64); got != tt.want {
				t.Errorf("ScreenshotMIME=%s, want %s", got, tt.want)
			}
		})
	}
}

func TestScreenshotDataURI(t *testing.T) {
	if got := ScreenshotDataURI("/9j/abc"); got != "data:image/jpeg;base64,/9j/abc" {
		t.Errorf("data uri=%q", got)
	}
	already := "data:image/png;base64,iVBORxyz"
	if got := ScreenshotDataURI(already); got != already {
		t.Errorf("existing prefix changed: %q", got)
	}
	if got := ScreenshotDataURI(""); got != "" {
		t.Errorf("empty payload: %q", got)
	}
	if got := ScreenshotRaw(already); got != "iVBORxyz" {
		t.Errorf("ScreenshotRaw=%q", got)
	}
}

func TestExecutionError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := ErrConnectionLost.WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("cause not unwrapped")
	}
	var exec *ExecutionError
	if !errors.As(err, &exec) || exec.Category != CategoryTransport {
		t.Errorf("category=%v, want transport", exec.Category)
	}
	// Predefined value untouched.
	if ErrConnectionLost.Cause != nil {
		t.Error("WithCause mutated the predefined error")
	}
}

func TestReport_StepsCompleted(t *testing.T) {
	r := Report{Steps: []StepReport{
		{Status: StatusSuccess},
		{Status: StatusFailed},
		{Status: StatusRunning},
	}}
	if got := r.StepsCompleted(); got != 2 {
		t.Errorf("StepsCompleted=%d, want 2", got)
	}
}
