package logging

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{input: "debug", want: DEBUG},
		{input: "DEBUG", want: DEBUG},
		{input: "info", want: INFO},
		{input: "warn", want: WARN},
		{input: "warning", want: WARN},
		{input: "error", want: ERROR},
		{input: "unknown", want: INFO},
		{input: "", want: INFO},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWithComponentKeepsLevel(t *testing.T) {
	base := New(WARN)
	tagged, ok := base.WithComponent("storage").(*StructuredLogger)
	if !ok {
		t.Fatal("expected a StructuredLogger")
	}
	if tagged.level != WARN {
		t.Errorf("component logger level = %v, want %v", tagged.level, WARN)
	}
	if tagged.component != "storage" {
		t.Errorf("component = %q, want storage", tagged.component)
	}
}

func TestNoopLoggerIsSafe(t *testing.T) {
	logger := NewNoop()
	logger.Debug("ignored")
	logger.Info("ignored", "key", "value")
	logger.Warn("ignored")
	logger.Error("ignored")
	if logger.WithComponent("x") == nil {
		t.Fatal("WithComponent must return a logger")
	}
}
