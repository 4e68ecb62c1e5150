package logger

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestPrettyHandler_Structural(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: LevelDebug}
	l := slog.New(NewPrettyHandler(&buf, opts, false))

	t.Run("WithAttrs", func(t *testing.T) {
		buf.Reset()
		l.With("run_id", "abc-123").Info("analysis finished", "positive", 2)

		output := buf.String()
		if !strings.Contains(output, "run_id=abc-123") {
			t.Errorf("output missing persistent attr: %q", output)
		}
		if !strings.Contains(output, "positive=2") {
			t.Errorf("output missing record attr: %q", output)
		}
	})

	t.Run("NestedGroups", func(t *testing.T) {
		buf.Reset()
		l.WithGroup("backend").WithGroup("gemini").With("model", "flash").Info("msg")

		output := buf.String()
		if !strings.Contains(output, "backend.gemini.model=flash") {
			t.Errorf("output missing nested grouped attr: %q", output)
		}
	})

	t.Run("LevelFilter", func(t *testing.T) {
		buf.Reset()
		quiet := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: LevelWarn}, false))
		quiet.Info("hidden")
		if buf.Len() != 0 {
			t.Errorf("expected info to be filtered, got %q", buf.String())
		}
	})
}

func TestRedactAttr(t *testing.T) {
	cases := []struct {
		name   string
		attr   slog.Attr
		redact bool
	}{
		{"api key by name", slog.String("api_key", "sk-1234567890abcdef"), true},
		{"key by value pattern", slog.String("message", "bearer sk-1234567890abcdef"), true},
		{"gemini key by value", slog.String("detail", "AIzaSyA1234567890abcdef"), true},
		{"user sentence", slog.String("utterance", "I love this!"), true},
		{"input text", slog.String("input_text", "It's okay I guess."), true},
		{"counts", slog.Int("positive", 2), false},
		{"backend", slog.String("backend", "gemini"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RedactAttr(nil, tc.attr)
			redacted := got.Value.String() == "[REDACTED]"
			if redacted != tc.redact {
				t.Fatalf("RedactAttr(%s) redacted=%v, want %v", tc.attr.Key, redacted, tc.redact)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = (%v, %v), want (%v, true)", in, got, ok, want)
		}
	}
	if _, ok := ParseLevel("verbose"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
}

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	prevStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w
	defer func() { os.Stderr = prevStderr }()

	fn()

	_ = w.Close()
	out, _ := io.ReadAll(r)
	return string(out)
}

func TestInit_NoColorWhenNotTTY(t *testing.T) {
	prevIsTerminal := isTerminal
	isTerminal = func(_ int) bool { return false }
	defer func() { isTerminal = prevIsTerminal }()

	out := captureStderr(t, func() {
		Init(LevelInfo, nil)
		Info("test message", "backend", "ollama")
	})
	if strings.Contains(out, "\033[") {
		t.Fatalf("unexpected ANSI codes in output: %q", out)
	}
	if !strings.Contains(out, "backend=ollama") {
		t.Fatalf("missing attribute in output: %q", out)
	}
}

func TestInit_LogFileReceivesJSON(t *testing.T) {
	prevIsTerminal := isTerminal
	isTerminal = func(_ int) bool { return true }
	defer func() { isTerminal = prevIsTerminal }()

	var logBuf bytes.Buffer
	out := captureStderr(t, func() {
		Init(LevelInfo, &logBuf)
		Info("test message", "utterance", "secret words")
	})
	defer Init(LevelInfo, nil)

	if strings.Contains(out, "\033[") {
		t.Fatalf("unexpected ANSI codes with log file enabled: %q", out)
	}
	if !strings.Contains(logBuf.String(), `"msg":"test message"`) {
		t.Fatalf("expected JSON record in log file, got %q", logBuf.String())
	}
	if strings.Contains(logBuf.String(), "secret words") {
		t.Fatalf("utterance leaked into log file: %q", logBuf.String())
	}
}
