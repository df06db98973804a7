// Package flow defines the step catalog, the editable workflow step
// collection, and its wire serialization.
package flow

import (
	"fmt"
	"strconv"
)

// Kind identifies a step kind.
type Kind string

// Step kind constants. The catalog is closed: there is no runtime
// registration of new kinds.
const (
	StepGoto       Kind = "goto"
	StepClick      Kind = "click"
	StepType       Kind = "type"
	StepWait       Kind = "wait"
	StepExtract    Kind = "extract"
	StepFormFill   Kind = "formFill"
	StepScroll     Kind = "scroll"
	StepUpload     Kind = "upload"
	StepScreenshot Kind = "screenshot"
)

// ValueType determines the editor control and the coercion rule for a field.
type ValueType int

// Field value types.
const (
	TypeURL ValueType = iota
	TypeShortText
	TypeInteger
	TypeEnum
	TypeBoolean
	TypeStringMap
)

// Condition gates a field's visibility on another field's current value.
type Condition struct {
	Field  string
	Equals any
}

// Constraints holds field-level constraints.
type Constraints struct {
	Options []string // Allowed values for TypeEnum
	Min     *int     // Minimum for TypeInteger
}

// FieldSpec describes one field of a step kind.
type FieldSpec struct {
	Name        string
	Label       string
	Type        ValueType
	Required    bool
	Default     any
	Constraints Constraints
	VisibleWhen *Condition // nil means always visible
}

// Schema is the declared shape of one step kind. Schemas are immutable and
// shared; callers must not modify the returned field slices.
type Schema struct {
	Kind   Kind
	Title  string
	Fields []FieldSpec
}

// Field returns the spec for a field name, if declared.
func (s *Schema) Field(name string) (*FieldSpec, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

func intPtr(v int) *int { return &v }

// schemas holds the full step catalog in display order.
var schemas = []Schema{
	{
		Kind:  StepGoto,
		Title: "Navigate",
		Fields: []FieldSpec{
			{Name: "url", Label: "URL", Type: TypeURL, Required: true},
		},
	},
	{
		Kind:  StepClick,
		Title: "Click",
		Fields: []FieldSpec{
			{Name: "selector", Label: "Selector", Type: TypeShortText, Required: true,
				VisibleWhen: &Condition{Field: "autoDetect", Equals: false}},
			{Name: "autoDetect", Label: "Auto-detect target", Type: TypeBoolean, Default: false},
		},
	},
	{
		Kind:  StepType,
		Title: "Type text",
		Fields: []FieldSpec{
			{Name: "selector", Label: "Selector", Type: TypeShortText, Required: true},
			{Name: "value", Label: "Text", Type: TypeShortText, Required: true},
		},
	},
	{
		Kind:  StepWait,
		Title: "Wait",
		Fields: []FieldSpec{
			{Name: "duration", Label: "Duration (ms)", Type: TypeInteger, Required: true,
				Default: 1000, Constraints: Constraints{Min: intPtr(0)}},
		},
	},
	{
		Kind:  StepExtract,
		Title: "Extract",
		Fields: []FieldSpec{
			{Name: "selector", Label: "Selector", Type: TypeShortText, Required: true},
			{Name: "mode", Label: "Extraction mode", Type: TypeEnum, Required: true,
				Default: "text", Constraints: Constraints{Options: []string{"text", "attribute"}}},
			{Name: "attribute", Label: "Attribute name", Type: TypeShortText, Required: true,
				VisibleWhen: &Condition{Field: "mode", Equals: "attribute"}},
		},
	},
	{
		Kind:  StepFormFill,
		Title: "Fill form",
		Fields: []FieldSpec{
			{Name: "autoDetect", Label: "Auto-detect fields", Type: TypeBoolean, Default: false},
			{Name: "fields", Label: "Field mappings", Type: TypeStringMap,
				VisibleWhen: &Condition{Field: "autoDetect", Equals: false}},
		},
	},
	{
		Kind:  StepScroll,
		Title: "Scroll",
		Fields: []FieldSpec{
			{Name: "mode", Label: "Scroll mode", Type: TypeEnum, Required: true,
				Default: "byPixels",
				Constraints: Constraints{Options: []string{"byPixels", "toElement", "untilText"}}},
			{Name: "amount", Label: "Amount (px)", Type: TypeInteger, Default: 500,
				Constraints: Constraints{Min: intPtr(0)},
				VisibleWhen: &Condition{Field: "mode", Equals: "byPixels"}},
			{Name: "selector", Label: "Target selector", Type: TypeShortText, Required: true,
				VisibleWhen: &Condition{Field: "mode", Equals: "toElement"}},
			{Name: "text", Label: "Search text", Type: TypeShortText, Required: true,
				VisibleWhen: &Condition{Field: "mode", Equals: "untilText"}},
		},
	},
	{
		Kind:  StepUpload,
		Title: "Upload file",
		Fields: []FieldSpec{
			{Name: "selector", Label: "Selector", Type: TypeShortText, Required: true},
			{Name: "file", Label: "Filename", Type: TypeShortText, Required: true},
		},
	},
	{
		Kind:   StepScreenshot,
		Title:  "Screenshot",
		Fields: nil,
	},
}

var schemaByKind = func() map[Kind]*Schema {
	m := make(map[Kind]*Schema, len(schemas))
	for i := range schemas {
		m[schemas[i].Kind] = &schemas[i]
	}
	return m
}()

// GetSchema returns the schema for a kind.
func GetSchema(kind Kind) (*Schema, error) {
	s, ok := schemaByKind[kind]
	if !ok {
		return nil, fmt.Errorf("unknown step kind %q", kind)
	}
	return s, nil
}

// Kinds returns all step kinds in catalog order.
func Kinds() []Kind {
	kinds := make([]Kind, len(schemas))
	for i := range schemas {
		kinds[i] = schemas[i].Kind
	}
	return kinds
}

// Coerce normalizes editor input according to the field's value type.
// Integer inputs are parsed and clamped against the minimum constraint;
// invalid parses fall back to 0.
func (f *FieldSpec) Coerce(raw any) any {
	v := f.convert(raw)
	if f.Type == TypeInteger && f.Constraints.Min != nil {
		if n := v.(int); n < *f.Constraints.Min {
			return *f.Constraints.Min
		}
	}
	return v
}

// convert parses a raw value into the field's value type without clamping.
// Values decoded from templates or wire payloads keep what they carry, so
// the validator still sees out-of-range numbers.
func (f *FieldSpec) convert(raw any) any {
	switch f.Type {
	case TypeInteger:
		return toInt(raw)
	case TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v
		case string:
			return v == "true"
		default:
			return false
		}
	case TypeStringMap:
		out := map[string]string{}
		switch v := raw.(type) {
		case map[string]string:
			for k, val := range v {
				out[k] = val
			}
		case map[string]any:
			for k, val := range v {
				out[k] = fmt.Sprintf("%v", val)
			}
		}
		return out
	default:
		if s, ok := raw.(string); ok {
			return s
		}
		if raw == nil {
			return ""
		}
		return fmt.Sprintf("%v", raw)
	}
}

func toInt(raw any) int {
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
