package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{level: WARN, output: &buf, fields: map[string]interface{}{}}

	l.Info("should not appear")
	l.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Error("INFO message logged despite WARN level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("WARN message missing from output")
	}
}

func TestLogger_FieldsSortedAndInherited(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{level: DEBUG, output: &buf, fields: map[string]interface{}{}}

	l.WithField("zone", "green").WithField("date", "2026-03-10").Info("briefing ready")

	out := buf.String()
	if !strings.Contains(out, "date=2026-03-10 zone=green") {
		t.Errorf("fields not sorted in output: %q", out)
	}

	// Parent logger must be unaffected
	buf.Reset()
	l.Info("plain")
	if strings.Contains(buf.String(), "zone=") {
		t.Error("WithField mutated the parent logger")
	}
}
