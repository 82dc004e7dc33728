package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefault_IsValid tests that the shipped defaults pass validation
func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

// TestParse_OverridesDefaults tests partial YAML over the defaults
func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
layout:
  iterations: 120
  quick_layout: true
camera:
  transition_duration: 500ms
dispatch:
  workers: 4
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Layout.Iterations != 120 || !cfg.Layout.QuickLayout {
		t.Errorf("Expected layout overrides applied, got %+v", cfg.Layout)
	}
	if cfg.Layout.Spacing != 10 {
		t.Errorf("Expected untouched fields to keep defaults, spacing %f", cfg.Layout.Spacing)
	}
	if cfg.Camera.TransitionDuration != 500*time.Millisecond {
		t.Errorf("Expected 500ms transition, got %s", cfg.Camera.TransitionDuration)
	}
	if cfg.Dispatch.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Dispatch.Workers)
	}
}

// TestParse_RejectsInvalidValues tests validation failures
func TestParse_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"damping out of range", "layout:\n  damping_factor: 1.5\n"},
		{"zero iterations", "layout:\n  iterations: 0\n"},
		{"negative workers", "dispatch:\n  workers: -1\n"},
		{"max below min distance", "camera:\n  max_distance: 1\n"},
		{"bad log level", "log_level: loud\n"},
		{"malformed yaml", "layout: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Expected parse error")
			}
		})
	}
}

// TestLoad_FromFile tests the file loading path
func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("layout:\n  iterations: 50\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Layout.Iterations != 50 {
		t.Errorf("Expected 50 iterations, got %d", cfg.Layout.Iterations)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
