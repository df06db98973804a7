package flow

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExecutionPayload_OmitsEmptyAndHidden(t *testing.T) {
	c := buildCollection(t, StepExtract)
	c.Update(0, "selector", ".price")
	c.Update(0, "mode", "attribute")
	c.Update(0, "attribute", "data-value")

	// Switching back to text mode leaves a stale attribute value behind;
	// it must not reach the wire.
	c.Update(0, "mode", "text")

	payload := ExecutionPayload(c)
	if len(payload) != 1 {
		t.Fatalf("payload len=%d, want 1", len(payload))
	}
	want := map[string]any{"selector": ".price", "mode": "text"}
	if !reflect.DeepEqual(payload[0].Fields, want) {
		t.Errorf("fields=%v, want %v", payload[0].Fields, want)
	}
}

func TestExecutionPayload_AutoDetectHidesSelector(t *testing.T) {
	c := buildCollection(t, StepClick)
	c.Update(0, "selector", "#go")
	c.Update(0, "autoDetect", true)

	payload := ExecutionPayload(c)
	if _, ok := payload[0].Fields["selector"]; ok {
		t.Error("selector emitted while autoDetect hides it")
	}
	if v, ok := payload[0].Fields["autoDetect"]; !ok || v != true {
		t.Errorf("autoDetect=%v, want true", v)
	}
}

func TestExecutionPayload_IsPureProjection(t *testing.T) {
	c := buildCollection(t, StepGoto)
	c.Update(0, "url", "https://example.com")

	first := ExecutionPayload(c)
	second := ExecutionPayload(c)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated serialization differs: %v vs %v", first, second)
	}
	if c.Len() != 1 || c.Expanded() != 0 {
		t.Error("serialization mutated the collection")
	}
}

func TestPayloadJSON_Flattened(t *testing.T) {
	p := StepPayload{Action: StepGoto, Fields: map[string]any{"url": "https://example.com"}}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if obj["action"] != "goto" || obj["url"] != "https://example.com" {
		t.Errorf("flattened object=%v", obj)
	}

	var back StepPayload
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if back.Action != StepGoto || back.Fields["url"] != "https://example.com" {
		t.Errorf("round-tripped payload=%+v", back)
	}
}

func TestRoundTrip_PayloadThroughLoadTemplate(t *testing.T) {
	c := buildCollection(t, StepGoto, StepType, StepWait, StepScroll, StepFormFill)
	c.Update(0, "url", "https://example.com/careers")
	c.Update(1, "selector", "#name")
	c.Update(1, "value", "{{user.name}}")
	c.Update(2, "duration", 1500)
	c.Update(3, "mode", "untilText")
	c.Update(3, "text", "Submit")
	c.Update(4, "fields", map[string]string{"#email": "{{user.email}}"})

	first := ExecutionPayload(c)

	steps, err := DecodePayload(first)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	c2 := NewCollection()
	c2.LoadTemplate(steps)

	second := ExecutionPayload(c2)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("round trip not field-equal:\n first=%v\nsecond=%v", first, second)
	}
}

func TestDecodePayload_Errors(t *testing.T) {
	_, err := DecodePayload([]StepPayload{{Action: "teleport"}})
	if err == nil {
		t.Error("unknown kind: want error")
	}

	// Undeclared fields are dropped, not an error.
	steps, err := DecodePayload([]StepPayload{
		{Action: StepGoto, Fields: map[string]any{"url": "https://x.test", "bogus": 1}},
	})
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if _, ok := steps[0].Fields["bogus"]; ok {
		t.Error("undeclared field survived decode")
	}
}

func TestDecodePayload_DoesNotClamp(t *testing.T) {
	steps, err := DecodePayload([]StepPayload{
		{Action: StepWait, Fields: map[string]any{"duration": -1}},
	})
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if got := steps[0].Int("duration"); got != -1 {
		t.Errorf("duration=%d, want -1 preserved for validation", got)
	}
}
