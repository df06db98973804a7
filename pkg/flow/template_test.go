package flow

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinTemplates_Wellformed(t *testing.T) {
	seen := map[string]bool{}
	for _, tpl := range BuiltinTemplates() {
		if tpl.Name == "" || len(tpl.Steps) == 0 {
			t.Errorf("template %q is empty", tpl.Name)
		}
		if seen[tpl.Name] {
			t.Errorf("duplicate template name %q", tpl.Name)
		}
		seen[tpl.Name] = true

		for i, s := range tpl.Steps {
			if _, err := GetSchema(s.Kind); err != nil {
				t.Errorf("template %q step %d: %v", tpl.Name, i, err)
			}
		}
	}
}

func TestFindTemplate(t *testing.T) {
	if _, ok := FindTemplate("login"); !ok {
		t.Error("FindTemplate(login)=false")
	}
	if _, ok := FindTemplate("missing"); ok {
		t.Error("FindTemplate(missing)=true")
	}
}

func TestLoadTemplateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkout.yaml")
	content := `name: checkout
description: Add to cart and check out
steps:
  - action: goto
    url: https://shop.test/item/1
  - action: click
    selector: "#add-to-cart"
  - action: wait
    duration: 500
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tpl, err := LoadTemplateFile(path)
	if err != nil {
		t.Fatalf("LoadTemplateFile: %v", err)
	}
	if tpl.Name != "checkout" || len(tpl.Steps) != 3 {
		t.Fatalf("template=%q steps=%d", tpl.Name, len(tpl.Steps))
	}
	if tpl.Steps[2].Int("duration") != 500 {
		t.Errorf("duration=%d, want 500", tpl.Steps[2].Int("duration"))
	}
}

func TestLoadTemplateFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"missing action", "steps:\n  - url: https://x.test\n"},
		{"unknown kind", "steps:\n  - action: teleport\n"},
		{"not yaml", "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadTemplateFile(path); err == nil {
				t.Error("want error")
			}
		})
	}
}
