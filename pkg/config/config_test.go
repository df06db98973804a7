package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
engineURL: http://engine.internal:9000
pickerURL: http://picker.internal:9001
viewport:
  width: 1920
  height: 1080
userData:
  email: ada@example.com
  name: Ada
statePath: /tmp/flowpilot/workflow.json
debug: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.EngineURL != "http://engine.internal:9000" {
		t.Errorf("expected engineURL http://engine.internal:9000, got %s", cfg.EngineURL)
	}
	if cfg.PickerURL != "http://picker.internal:9001" {
		t.Errorf("expected pickerURL http://picker.internal:9001, got %s", cfg.PickerURL)
	}
	if cfg.Viewport.Width != 1920 || cfg.Viewport.Height != 1080 {
		t.Errorf("expected viewport 1920x1080, got %dx%d", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	if cfg.UserData["email"] != "ada@example.com" || cfg.UserData["name"] != "Ada" {
		t.Errorf("expected userData {email, name}, got %v", cfg.UserData)
	}
	if cfg.StatePath != "/tmp/flowpilot/workflow.json" {
		t.Errorf("expected statePath /tmp/flowpilot/workflow.json, got %s", cfg.StatePath)
	}
	if !cfg.Debug {
		t.Error("expected debug true")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("debug: false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EngineURL != DefaultEngineURL {
		t.Errorf("expected default engineURL, got %s", cfg.EngineURL)
	}
	if cfg.StatePath == "" {
		t.Error("expected default statePath")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `engineURL: [invalid yaml`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromDir_PrefersYaml(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("engineURL: http://a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("engineURL: http://b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EngineURL != "http://a" {
		t.Errorf("expected config.yaml to win, got %s", cfg.EngineURL)
	}
}

func TestLoadFromDir_NoConfigFile(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EngineURL != DefaultEngineURL {
		t.Errorf("expected default engineURL, got %s", cfg.EngineURL)
	}
}
