package core

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"", LogLevelInfo, false},
		{"warning", LogLevelWarn, false},
		{" error ", LogLevelError, false},
		{"verbose", LogLevelInfo, true},
	}
	for _, tc := range cases {
		got, err := ParseLogLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// TestDefaultLogger_LevelAndFormat verifies filtering and field rendering
// Given: A DefaultLogger at warn level writing to a buffer
// When: Messages are logged at every level
// Then: Only warn and error are written, with fields rendered in order
func TestDefaultLogger_LevelAndFormat(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	l := NewDefaultLoggerWithLevel(LogLevelWarn)
	l.out = log.New(&buf, "", 0)

	// Act
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("careful", F("worker", "w1"), F("pending", 3))
	l.Error("broken")

	// Assert
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"[WARN] careful {worker: w1, pending: 3}",
		"[ERROR] broken",
	}
	if len(lines) != len(want) {
		t.Fatalf("logged %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
