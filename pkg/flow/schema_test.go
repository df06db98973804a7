package flow

import (
	"reflect"
	"testing"
)

func TestGetSchema(t *testing.T) {
	for _, kind := range Kinds() {
		s, err := GetSchema(kind)
		if err != nil {
			t.Errorf("GetSchema(%s): %v", kind, err)
			continue
		}
		if s.Kind != kind {
			t.Errorf("GetSchema(%s).Kind=%s", kind, s.Kind)
		}
	}

	if _, err := GetSchema("teleport"); err == nil {
		t.Error("GetSchema(teleport): want error")
	}
}

func TestCoerce_Integer(t *testing.T) {
	spec, _ := mustSchema(t, StepWait).Field("duration")

	tests := []struct {
		name string
		in   any
		want int
	}{
		{"string number", "1500", 1500},
		{"int", 250, 250},
		{"float from json", float64(300), 300},
		{"invalid parse falls back to 0", "abc", 0},
		{"clamped to minimum", -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spec.Coerce(tt.in); got != tt.want {
				t.Errorf("Coerce(%v)=%v, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerce_BooleanAndMap(t *testing.T) {
	auto, _ := mustSchema(t, StepClick).Field("autoDetect")
	if got := auto.Coerce("true"); got != true {
		t.Errorf(`Coerce("true")=%v, want true`, got)
	}
	if got := auto.Coerce(nil); got != false {
		t.Errorf("Coerce(nil)=%v, want false", got)
	}

	fields, _ := mustSchema(t, StepFormFill).Field("fields")
	in := map[string]any{"#email": "a@b.c", "#age": 7}
	want := map[string]string{"#email": "a@b.c", "#age": "7"}
	if got := fields.Coerce(in); !reflect.DeepEqual(got, want) {
		t.Errorf("Coerce(map)=%v, want %v", got, want)
	}
}

func TestFieldVisible(t *testing.T) {
	s, err := NewStep(StepScroll)
	if err != nil {
		t.Fatalf("NewStep: %v", err)
	}
	schema := mustSchema(t, StepScroll)
	amount, _ := schema.Field("amount")
	selector, _ := schema.Field("selector")

	// Default mode is byPixels: amount applies, selector does not.
	if !s.FieldVisible(amount) {
		t.Error("amount hidden in byPixels mode")
	}
	if s.FieldVisible(selector) {
		t.Error("selector visible in byPixels mode")
	}

	s.Fields["mode"] = "toElement"
	if s.FieldVisible(amount) {
		t.Error("amount visible in toElement mode")
	}
	if !s.FieldVisible(selector) {
		t.Error("selector hidden in toElement mode")
	}
}

func mustSchema(t *testing.T, kind Kind) *Schema {
	t.Helper()
	s, err := GetSchema(kind)
	if err != nil {
		t.Fatalf("GetSchema(%s): %v", kind, err)
	}
	return s
}
