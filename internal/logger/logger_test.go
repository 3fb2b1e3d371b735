package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultDoesNotPanic(t *testing.T) {
	t.Parallel()
	log := Default()
	if log == nil {
		t.Fatal("Default() returned nil")
	}
	log.Info("info message")
	log.Debug("debug message")
	log.Warn("warn message")
	log.Error("error message")
}

func TestJSONOutput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("decoded", "atoms", 12)

	output := buf.String()
	if !strings.Contains(output, "decoded") {
		t.Fatalf("message missing from output: %s", output)
	}
	if !strings.Contains(output, `"atoms":12`) {
		t.Fatalf("attribute missing from output: %s", output)
	}
	if !strings.Contains(output, `"level":"INFO"`) {
		t.Fatalf("level missing from output: %s", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("dropped")
	log.Debug("also dropped")
	if buf.Len() > 0 {
		t.Fatalf("info/debug leaked through warn level: %s", buf.String())
	}

	log.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn message missing: %s", buf.String())
	}
}

func TestPrettyOutput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Pretty(&buf, slog.LevelInfo)
	log.Info("verified", "file", "demo.mov")

	output := buf.String()
	if !strings.Contains(output, "verified") {
		t.Fatalf("message missing from output: %s", output)
	}
	if !strings.Contains(output, "file=demo.mov") {
		t.Fatalf("attribute missing from output: %s", output)
	}
}

func TestWithAddsAttrs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.With("command", "verify").Info("running")

	output := buf.String()
	if !strings.Contains(output, `"command":"verify"`) {
		t.Fatalf("bound attribute missing: %s", output)
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)

	ctx := WithContext(context.Background(), log)
	FromContext(ctx).Info("through context")
	if !strings.Contains(buf.String(), "through context") {
		t.Fatalf("context logger not used: %s", buf.String())
	}

	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext fallback returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestPrettyHandlerGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	log := slog.New(h.WithGroup("atom").(*PrettyHandler).WithGroup("header"))
	log.Info("grouped", "tag", "moov")

	output := buf.String()
	if !strings.Contains(output, "atom.header.tag=moov") {
		t.Fatalf("group prefix missing: %s", output)
	}

	if h.WithGroup("") != slog.Handler(h) {
		t.Fatal("empty group should return the same handler")
	}
}

func TestPrettyHandlerWithAttrs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	log := slog.New(h.WithAttrs([]slog.Attr{slog.String("tool", "qtdump")}))
	log.Info("bound")

	if !strings.Contains(buf.String(), "tool=qtdump") {
		t.Fatalf("handler attrs missing: %s", buf.String())
	}
}

func TestPrettyQuoting(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))
	log.Info("quoting", "a", "plain", "b", "two words")

	output := buf.String()
	if !strings.Contains(output, "a=plain") || strings.Contains(output, `a="plain"`) {
		t.Fatalf("plain string mangled: %s", output)
	}
	if !strings.Contains(output, `b="two words"`) {
		t.Fatalf("spaced string not quoted: %s", output)
	}
}
