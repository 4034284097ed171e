package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNewFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"hello"`},
		{"text", "msg=hello"},
		{"pretty", "hello"},
		{"", "hello"},
		{"JSON", `"msg":"hello"`},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		log, err := New(&buf, tc.format, slog.LevelInfo)
		if err != nil {
			t.Fatalf("New(%q): %v", tc.format, err)
		}
		log.Info("hello")
		if !strings.Contains(buf.String(), tc.want) {
			t.Errorf("New(%q) output %q missing %q", tc.format, buf.String(), tc.want)
		}
	}
}

func TestNewUnknownFormat(t *testing.T) {
	t.Parallel()
	if _, err := New(&bytes.Buffer{}, "xml", slog.LevelInfo); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestJSONLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("should not appear")
	log.Debug("also should not appear")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}

	log.Warn("should appear", "key", "value")
	out := buf.String()
	if !strings.Contains(out, "should appear") || !strings.Contains(out, `"key":"value"`) {
		t.Fatalf("unexpected warn output: %s", out)
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := Discard()
	log.Error("dropped")
	log.With("k", "v").WithGroup("g").Info("dropped")
}

func TestWithAndGroup(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo).With("component", "train").WithGroup("stats")
	log.Info("done", "contexts", 3)

	out := buf.String()
	if !strings.Contains(out, `"component":"train"`) {
		t.Fatalf("missing component attr: %s", out)
	}
	if !strings.Contains(out, `"stats":{"contexts":3}`) {
		t.Fatalf("missing grouped attr: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), JSON(&buf, slog.LevelInfo))
	FromContext(ctx).Info("roundtrip")
	if !strings.Contains(buf.String(), "roundtrip") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}

	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without a logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.want {
			t.Errorf("ParseLevel(%q): got %v want %v", tc.input, got, tc.want)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
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

	log := slog.New(h.WithAttrs([]slog.Attr{slog.String("service", "ngram")}).WithGroup("a").WithGroup("b"))
	log.Info("nested", "key", "val")

	out := buf.String()
	if !strings.Contains(out, "service=ngram") {
		t.Fatalf("expected unprefixed handler attr, got: %s", out)
	}
	if !strings.Contains(out, "a.b.key=val") {
		t.Fatalf("expected nested group prefix, got: %s", out)
	}
	if h.WithGroup("") != h {
		t.Fatal("WithGroup(\"\") should return the same handler")
	}
}

func TestPrettyHandlerAttrAfterGroup(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)
	log := slog.New(h.WithGroup("model").WithAttrs([]slog.Attr{slog.Int("n", 3)}))
	log.Info("x")
	if !strings.Contains(buf.String(), "model.n=3") {
		t.Fatalf("expected group-qualified attr, got: %s", buf.String())
	}
}

func TestPrettyValueFormatting(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))
	log.Info("test", "plain", "simple", "spaced", "hello world", "took", 1500*time.Millisecond)

	out := buf.String()
	for _, want := range []string{"plain=simple", `spaced="hello world"`, "took=1.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"simple", false},
		{"has space", true},
		{"has\ttab", true},
		{`has"quote`, true},
		{"k=v", true},
		{"", false},
	}
	for _, tc := range tests {
		if got := needsQuoting(tc.input); got != tc.want {
			t.Errorf("needsQuoting(%q): got %v want %v", tc.input, got, tc.want)
		}
	}
}
