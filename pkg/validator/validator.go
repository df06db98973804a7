// Package validator checks workflow steps against their schema rules before
// execution. Rules are pure functions of a step's current field values.
package validator

import (
	"net/url"

	"github.com/flowpilot-dev/flowpilot/pkg/flow"
)

// Result maps field names to error messages for one step. An empty result
// means the step is runnable.
type Result map[string]string

// IsValid returns true if there are no field errors.
func (r Result) IsValid() bool { return len(r) == 0 }

// rule validates one step kind, writing field errors into the result.
type rule func(s flow.Step, r Result)

// rules is the closed per-kind rule table.
var rules = map[flow.Kind]rule{
	flow.StepGoto:       validateGoto,
	flow.StepClick:      validateClick,
	flow.StepType:       validateType,
	flow.StepWait:       validateWait,
	flow.StepExtract:    validateExtract,
	flow.StepFormFill:   validateFormFill,
	flow.StepScroll:     validateScroll,
	flow.StepUpload:     validateUpload,
	flow.StepScreenshot: func(flow.Step, Result) {},
}

// Validate checks one step. Fields hidden by their visibleWhen condition
// are never validated, even if a stale value remains in the field map.
func Validate(s flow.Step) Result {
	r := Result{}
	fn, ok := rules[s.Kind]
	if !ok {
		r["kind"] = "Unknown step kind"
		return r
	}
	fn(s, r)
	return r
}

// FirstError returns the step's headline validation message: the error on
// the first offending field in schema declaration order.
func FirstError(s flow.Step, r Result) (field, message string, ok bool) {
	if len(r) == 0 {
		return "", "", false
	}
	schema, err := flow.GetSchema(s.Kind)
	if err != nil {
		return "kind", r["kind"], true
	}
	for _, spec := range schema.Fields {
		if msg, found := r[spec.Name]; found {
			return spec.Name, msg, true
		}
	}
	// Errors on undeclared pseudo-fields (e.g. "kind") come last.
	for field, msg := range r {
		return field, msg, true
	}
	return "", "", false
}

// ValidateAll validates every step, returning results keyed by index for
// steps that have errors.
func ValidateAll(steps []flow.Step) map[int]Result {
	out := map[int]Result{}
	for i, s := range steps {
		if r := Validate(s); !r.IsValid() {
			out[i] = r
		}
	}
	return out
}

func validateGoto(s flow.Step, r Result) {
	raw := s.String("url")
	if raw == "" {
		r["url"] = "URL is required"
		return
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		r["url"] = "URL must be absolute (e.g. https://example.com)"
	}
}

func validateClick(s flow.Step, r Result) {
	if s.Bool("autoDetect") {
		return
	}
	if s.String("selector") == "" {
		r["selector"] = "Selector is required"
	}
}

func validateType(s flow.Step, r Result) {
	if s.String("selector") == "" {
		r["selector"] = "Selector is required"
	}
	if s.String("value") == "" {
		r["value"] = "Text is required"
	}
}

func validateWait(s flow.Step, r Result) {
	v, present := s.Fields["duration"]
	if !present || v == nil {
		r["duration"] = "Duration is required"
		return
	}
	if s.Int("duration") < 0 {
		r["duration"] = "Duration must be >= 0"
	}
}

func validateExtract(s flow.Step, r Result) {
	if s.String("selector") == "" {
		r["selector"] = "Selector is required"
	}
	if s.String("mode") == "attribute" && s.String("attribute") == "" {
		r["attribute"] = "Attribute name is required"
	}
}

func validateFormFill(s flow.Step, r Result) {
	if s.Bool("autoDetect") {
		return
	}
	if len(s.StringMap("fields")) == 0 {
		r["fields"] = "Add at least one field mapping or enable auto-detect"
	}
}

func validateScroll(s flow.Step, r Result) {
	switch s.String("mode") {
	case "toElement":
		if s.String("selector") == "" {
			r["selector"] = "Target selector is required"
		}
	case "untilText":
		if s.String("text") == "" {
			r["text"] = "Search text is required"
		}
	}
}

func validateUpload(s flow.Step, r Result) {
	if s.String("selector") == "" {
		r["selector"] = "Selector is required"
	}
	if s.String("file") == "" {
		r["file"] = "Filename is required"
	}
}
