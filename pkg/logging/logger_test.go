package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func parseEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	entries := []LogEntry{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("Failed to parse log line %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

// TestJSONLogger_EmitsStructuredEntries tests the JSON line shape
func TestJSONLogger_EmitsStructuredEntries(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewJSONLogger(buf, InfoLevel)

	logger.Info("layout finished", Iteration(42), Float64("energy", 0.005))

	entries := parseEntries(t, buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != "INFO" || e.Message != "layout finished" {
		t.Errorf("Expected INFO entry, got %+v", e)
	}
	if e.Fields["iteration"] != float64(42) {
		t.Errorf("Expected iteration field 42, got %v", e.Fields["iteration"])
	}
	if _, err := time.Parse(time.RFC3339Nano, e.Time); err != nil {
		t.Errorf("Expected RFC3339 timestamp, got %q", e.Time)
	}
}

// TestJSONLogger_LevelFiltering tests that messages below the level are
// suppressed
func TestJSONLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewJSONLogger(buf, WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown")

	if entries := parseEntries(t, buf); len(entries) != 2 {
		t.Errorf("Expected 2 entries above warn, got %d", len(entries))
	}
}

// TestJSONLogger_WithFields tests child-logger field inheritance
func TestJSONLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewJSONLogger(buf, InfoLevel)

	child := logger.With(Component("layout"))
	child.Info("step", String("phase", "simulating"))

	entries := parseEntries(t, buf)
	if entries[0].Fields["component"] != "layout" {
		t.Errorf("Expected inherited component field, got %v", entries[0].Fields)
	}
	if entries[0].Fields["phase"] != "simulating" {
		t.Errorf("Expected call-site field, got %v", entries[0].Fields)
	}

	// The parent logger is unaffected
	buf.Reset()
	logger.Info("bare")
	if entries := parseEntries(t, buf); entries[0].Fields["component"] != nil {
		t.Error("Expected parent logger without the child's fields")
	}
}

// TestTimedOperation tests duration logging on success and failure
func TestTimedOperation(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewJSONLogger(buf, InfoLevel)

	StartTimer(logger, "fast op").End()
	StartTimer(logger, "failed op").EndError(errors.New("boom"))

	entries := parseEntries(t, buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Fields["latency"] == nil {
		t.Errorf("Expected latency field, got %v", entries[0].Fields)
	}
	if entries[1].Level != "ERROR" || entries[1].Fields["error"] != "boom" {
		t.Errorf("Expected error entry with cause, got %+v", entries[1])
	}
}

// TestParseLevel tests level parsing with the fallback default
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"nonsense", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q): expected %s, got %s", tt.input, tt.want, got)
		}
	}
}
