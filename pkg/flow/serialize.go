package flow

import (
	"encoding/json"
	"fmt"
)

// StepPayload is the minimal wire form of one step consumed by the
// execution engine: the action name plus every applicable field, flattened
// into a single JSON object.
type StepPayload struct {
	Action Kind
	Fields map[string]any
}

// MarshalJSON flattens the payload into {"action": ..., <fields>...}.
func (p StepPayload) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(p.Fields)+1)
	for k, v := range p.Fields {
		obj[k] = v
	}
	obj["action"] = p.Action
	return json.Marshal(obj)
}

// UnmarshalJSON reads a flattened payload object.
func (p *StepPayload) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	action, ok := obj["action"].(string)
	if !ok || action == "" {
		return fmt.Errorf("step payload missing action")
	}
	delete(obj, "action")
	p.Action = Kind(action)
	p.Fields = obj
	return nil
}

// ExecutionPayload projects the collection into the wire form submitted to
// the execution engine. For each step it emits the kind plus every field
// whose visibleWhen condition currently holds and whose value is neither
// absent, empty, nor nil. The projection is pure: calling it never mutates
// the collection, so it serves both preview and submission.
func ExecutionPayload(c *Collection) []StepPayload {
	steps := c.Steps()
	out := make([]StepPayload, 0, len(steps))
	for _, s := range steps {
		schema, err := GetSchema(s.Kind)
		if err != nil {
			continue
		}
		fields := map[string]any{}
		for i := range schema.Fields {
			spec := &schema.Fields[i]
			if !s.FieldVisible(spec) {
				continue
			}
			v, present := s.Fields[spec.Name]
			if !present || v == nil {
				continue
			}
			if str, ok := v.(string); ok && str == "" {
				continue
			}
			if m, ok := v.(map[string]string); ok && len(m) == 0 {
				continue
			}
			fields[spec.Name] = v
		}
		out = append(out, StepPayload{Action: s.Kind, Fields: fields})
	}
	return out
}

// DecodePayload converts wire payloads back into steps. Unknown kinds are
// an error; undeclared fields are dropped. Values are parsed per field type
// but not clamped, so validation still applies to what the payload carried.
func DecodePayload(payloads []StepPayload) ([]Step, error) {
	steps := make([]Step, 0, len(payloads))
	for i, p := range payloads {
		schema, err := GetSchema(p.Action)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		s := Step{Kind: p.Action, Fields: map[string]any{}}
		for name, raw := range p.Fields {
			spec, ok := schema.Field(name)
			if !ok {
				continue
			}
			s.Fields[name] = spec.convert(raw)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// MarshalExecutionJSON returns the collection's wire JSON.
func MarshalExecutionJSON(c *Collection) ([]byte, error) {
	return json.Marshal(ExecutionPayload(c))
}
