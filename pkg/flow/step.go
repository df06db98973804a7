package flow

// Step is one editable unit of browser automation. Identity is positional:
// a step is addressed by its index in the owning Collection.
type Step struct {
	Kind   Kind           `json:"kind"`
	Fields map[string]any `json:"fields"`
}

// NewStep creates a step of the given kind with schema defaults applied.
func NewStep(kind Kind) (Step, error) {
	schema, err := GetSchema(kind)
	if err != nil {
		return Step{}, err
	}
	s := Step{Kind: kind, Fields: map[string]any{}}
	for _, f := range schema.Fields {
		if f.Default != nil {
			s.Fields[f.Name] = f.Default
		}
	}
	return s, nil
}

// Clone returns a deep copy of the step.
func (s Step) Clone() Step {
	out := Step{Kind: s.Kind, Fields: make(map[string]any, len(s.Fields))}
	for k, v := range s.Fields {
		if m, ok := v.(map[string]string); ok {
			cp := make(map[string]string, len(m))
			for mk, mv := range m {
				cp[mk] = mv
			}
			out.Fields[k] = cp
			continue
		}
		out.Fields[k] = v
	}
	return out
}

// String returns the string value of a field, or "" if unset or non-string.
func (s Step) String(name string) string {
	v, _ := s.Fields[name].(string)
	return v
}

// Int returns the integer value of a field, or 0 if unset.
func (s Step) Int(name string) int {
	return toInt(s.Fields[name])
}

// Bool returns the boolean value of a field.
func (s Step) Bool(name string) bool {
	v, _ := s.Fields[name].(bool)
	return v
}

// StringMap returns the string-map value of a field, or nil if unset.
func (s Step) StringMap(name string) map[string]string {
	v, _ := s.Fields[name].(map[string]string)
	return v
}

// FieldVisible reports whether a declared field currently applies, given its
// visibleWhen condition and the step's current values. Fields hidden here
// are excluded from validation and serialization even if a stale value
// remains from a previous mode.
func (s Step) FieldVisible(spec *FieldSpec) bool {
	cond := spec.VisibleWhen
	if cond == nil {
		return true
	}
	current, ok := s.Fields[cond.Field]
	if !ok {
		// An unset governing boolean counts as false.
		current = defaultZero(cond.Equals)
	}
	return current == cond.Equals
}

func defaultZero(like any) any {
	switch like.(type) {
	case bool:
		return false
	case int:
		return 0
	default:
		return ""
	}
}
