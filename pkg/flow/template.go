package flow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Template is a named preset of workflow steps.
type Template struct {
	Name        string
	Description string
	Steps       []Step
}

// templateFile is the on-disk YAML form of a template. Steps use the same
// flattened shape as the wire payload.
type templateFile struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Steps       []map[string]any `yaml:"steps"`
}

// LoadTemplateFile parses a YAML template file.
func LoadTemplateFile(path string) (*Template, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided template file
	if err != nil {
		return nil, err
	}

	var tf templateFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	payloads := make([]StepPayload, 0, len(tf.Steps))
	for i, raw := range tf.Steps {
		action, ok := raw["action"].(string)
		if !ok || action == "" {
			return nil, fmt.Errorf("template step %d: missing action", i)
		}
		fields := make(map[string]any, len(raw))
		for k, v := range raw {
			if k == "action" {
				continue
			}
			fields[k] = v
		}
		payloads = append(payloads, StepPayload{Action: Kind(action), Fields: fields})
	}

	steps, err := DecodePayload(payloads)
	if err != nil {
		return nil, err
	}
	return &Template{Name: tf.Name, Description: tf.Description, Steps: steps}, nil
}

// BuiltinTemplates returns the built-in presets in display order.
func BuiltinTemplates() []Template {
	return []Template{
		{
			Name:        "job-application",
			Description: "Open an application page, fill the form, attach a resume, submit",
			Steps: mustSteps([]StepPayload{
				{Action: StepGoto, Fields: map[string]any{"url": "https://example.com/careers/apply"}},
				{Action: StepFormFill, Fields: map[string]any{"autoDetect": true}},
				{Action: StepUpload, Fields: map[string]any{"selector": "input[type=file]", "file": "resume.pdf"}},
				{Action: StepClick, Fields: map[string]any{"selector": "button[type=submit]"}},
				{Action: StepScreenshot, Fields: map[string]any{}},
			}),
		},
		{
			Name:        "login",
			Description: "Navigate to a login page, enter credentials, sign in",
			Steps: mustSteps([]StepPayload{
				{Action: StepGoto, Fields: map[string]any{"url": "https://example.com/login"}},
				{Action: StepType, Fields: map[string]any{"selector": "#email", "value": "{{user.email}}"}},
				{Action: StepType, Fields: map[string]any{"selector": "#password", "value": "{{user.password}}"}},
				{Action: StepClick, Fields: map[string]any{"selector": "button[type=submit]"}},
			}),
		},
		{
			Name:        "scrape-page",
			Description: "Navigate, wait for content, extract text, capture the result",
			Steps: mustSteps([]StepPayload{
				{Action: StepGoto, Fields: map[string]any{"url": "https://example.com"}},
				{Action: StepWait, Fields: map[string]any{"duration": 1000}},
				{Action: StepExtract, Fields: map[string]any{"selector": "h1", "mode": "text"}},
				{Action: StepScreenshot, Fields: map[string]any{}},
			}),
		},
	}
}

// FindTemplate returns the built-in template with the given name.
func FindTemplate(name string) (*Template, bool) {
	for _, t := range BuiltinTemplates() {
		if t.Name == name {
			tt := t
			return &tt, true
		}
	}
	return nil, false
}

func mustSteps(payloads []StepPayload) []Step {
	steps, err := DecodePayload(payloads)
	if err != nil {
		panic(err)
	}
	return steps
}
