package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	t.Setenv("DEBUG", "")

	tests := []struct {
		level string
		want  string
	}{
		{"debug", "debug"},
		{"INFO", "info"},
		{" warn ", "warn"},
		{"error", "error"},
		{"verbose", "warn"},
		{"", "warn"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		assert.Equal(t, tt.want, New(&buf, tt.level).Level(), tt.level)
	}
}

func TestNew_DebugEnvForcesDebug(t *testing.T) {
	t.Setenv("DEBUG", "1")
	var buf bytes.Buffer
	assert.Equal(t, "debug", New(&buf, "error").Level())
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	t.Setenv("DEBUG", "")
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Info("hidden")
	l.Warn("shown", "tool", "validate_data_layer")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "tool=validate_data_layer")
}

func TestLogger_WithAndTimed(t *testing.T) {
	l, buf := NewTestLogger()
	l.With("tool", "debug_data_layer").Timed("tool call", time.Now(), "issues", 3)

	out := buf.String()
	assert.Contains(t, out, "tool call")
	assert.Contains(t, out, "tool=debug_data_layer")
	assert.Contains(t, out, "issues=3")
	assert.Contains(t, out, "duration=")
}

func TestSetDefault(t *testing.T) {
	l, buf := NewTestLogger()
	prev := Default()
	SetDefault(l)
	t.Cleanup(func() { SetDefault(prev) })

	Info("through default")
	assert.Contains(t, buf.String(), "through default")
}
