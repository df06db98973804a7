package config

import "testing"

func TestGetHome_EnvVariable(t *testing.T) {
	ResetHome()
	t.Cleanup(ResetHome)

	t.Setenv(envHome, "/opt/flowpilot")
	if got := GetHome(); got != "/opt/flowpilot" {
		t.Errorf("expected /opt/flowpilot, got %s", got)
	}
}

func TestGetHome_Cached(t *testing.T) {
	ResetHome()
	t.Cleanup(ResetHome)

	t.Setenv(envHome, "/opt/first")
	first := GetHome()

	t.Setenv(envHome, "/opt/second")
	if got := GetHome(); got != first {
		t.Errorf("expected cached %s, got %s", first, got)
	}
}

func TestGetStateDir(t *testing.T) {
	ResetHome()
	t.Cleanup(ResetHome)

	t.Setenv(envHome, "/opt/flowpilot")
	if got := GetStateDir(); got != "/opt/flowpilot/state" {
		t.Errorf("expected /opt/flowpilot/state, got %s", got)
	}
}
