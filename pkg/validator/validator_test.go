package validator

import (
	"reflect"
	"testing"

	"github.com/flowpilot-dev/flowpilot/pkg/flow"
)

func step(t *testing.T, kind flow.Kind, fields map[string]any) flow.Step {
	t.Helper()
	s, err := flow.NewStep(kind)
	if err != nil {
		t.Fatalf("NewStep(%s): %v", kind, err)
	}
	for k, v := range fields {
		s.Fields[k] = v
	}
	return s
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		kind   flow.Kind
		fields map[string]any
		want   Result
	}{
		{"goto valid", flow.StepGoto,
			map[string]any{"url": "https://example.com/jobs"}, Result{}},
		{"goto missing url", flow.StepGoto,
			nil, Result{"url": "URL is required"}},
		{"goto relative url", flow.StepGoto,
			map[string]any{"url": "/jobs"},
			Result{"url": "URL must be absolute (e.g. https://example.com)"}},

		{"click valid", flow.StepClick,
			map[string]any{"selector": "#submit"}, Result{}},
		{"click missing selector", flow.StepClick,
			nil, Result{"selector": "Selector is required"}},
		{"click auto-detect skips selector", flow.StepClick,
			map[string]any{"autoDetect": true}, Result{}},

		{"type valid", flow.StepType,
			map[string]any{"selector": "#q", "value": "hi"}, Result{}},
		{"type missing both", flow.StepType,
			nil, Result{"selector": "Selector is required", "value": "Text is required"}},

		{"wait negative", flow.StepWait,
			map[string]any{"duration": -1}, Result{"duration": "Duration must be >= 0"}},
		{"wait valid", flow.StepWait,
			map[string]any{"duration": 1000}, Result{}},
		{"wait zero is valid", flow.StepWait,
			map[string]any{"duration": 0}, Result{}},

		{"extract text mode", flow.StepExtract,
			map[string]any{"selector": "h1", "mode": "text"}, Result{}},
		{"extract attribute mode needs name", flow.StepExtract,
			map[string]any{"selector": "h1", "mode": "attribute"},
			Result{"attribute": "Attribute name is required"}},
		{"extract missing selector", flow.StepExtract,
			map[string]any{"mode": "text"}, Result{"selector": "Selector is required"}},

		{"formFill auto-detect", flow.StepFormFill,
			map[string]any{"autoDetect": true}, Result{}},
		{"formFill with mapping", flow.StepFormFill,
			map[string]any{"fields": map[string]string{"#email": "a@b.c"}}, Result{}},
		{"formFill empty", flow.StepFormFill,
			nil, Result{"fields": "Add at least one field mapping or enable auto-detect"}},

		{"scroll byPixels needs nothing", flow.StepScroll,
			nil, Result{}},
		{"scroll toElement needs selector", flow.StepScroll,
			map[string]any{"mode": "toElement"},
			Result{"selector": "Target selector is required"}},
		{"scroll untilText needs text", flow.StepScroll,
			map[string]any{"mode": "untilText"},
			Result{"text": "Search text is required"}},

		{"upload valid", flow.StepUpload,
			map[string]any{"selector": "input[type=file]", "file": "cv.pdf"}, Result{}},
		{"upload missing file", flow.StepUpload,
			map[string]any{"selector": "input[type=file]"},
			Result{"file": "Filename is required"}},

		{"screenshot always valid", flow.StepScreenshot, nil, Result{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(step(t, tt.kind, tt.fields)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Validate()=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate_Pure(t *testing.T) {
	s := step(t, flow.StepWait, map[string]any{"duration": -1})
	first := Validate(s)
	second := Validate(s)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Validate not idempotent: %v vs %v", first, second)
	}
}

func TestFirstError_SchemaOrder(t *testing.T) {
	s := step(t, flow.StepType, nil)
	r := Validate(s)
	field, msg, ok := FirstError(s, r)
	if !ok {
		t.Fatal("FirstError: no error found")
	}
	// selector is declared before value.
	if field != "selector" || msg != "Selector is required" {
		t.Errorf("FirstError=%s/%q, want selector first", field, msg)
	}

	if _, _, ok := FirstError(s, Result{}); ok {
		t.Error("FirstError on valid step: want ok=false")
	}
}

func TestValidateAll(t *testing.T) {
	steps := []flow.Step{
		step(t, flow.StepGoto, map[string]any{"url": "https://x.test"}),
		step(t, flow.StepClick, nil),
		step(t, flow.StepScreenshot, nil),
	}
	got := ValidateAll(steps)
	if len(got) != 1 {
		t.Fatalf("ValidateAll: %d invalid steps, want 1", len(got))
	}
	if _, ok := got[1]; !ok {
		t.Error("ValidateAll missed the invalid click step")
	}
}
