package slogutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo).Info("linted", "file", "src/main.c", "diagnostics", 3)

	line := strings.TrimSuffix(buf.String(), "\n")
	stamp, rest, ok := strings.Cut(line, " ")
	if !ok {
		t.Fatalf("line = %q", line)
	}
	if _, err := time.Parse(time.RFC3339, stamp); err != nil {
		t.Errorf("timestamp %q: %v", stamp, err)
	}
	if want := "[info] linted | file=src/main.c diagnostics=3"; rest != want {
		t.Errorf("line = %q, want %q", rest, want)
	}
}

func TestHandlerLevels(t *testing.T) {
	tests := []struct {
		min  slog.Level
		log  slog.Level
		want string
	}{
		{slog.LevelDebug, slog.LevelDebug, "[debug] rule skipped"},
		{slog.LevelDebug, slog.LevelInfo, "[info] rule skipped"},
		{slog.LevelDebug, slog.LevelWarn, "[warn] rule skipped"},
		{slog.LevelDebug, slog.LevelError, "[error] rule skipped"},
		{slog.LevelWarn, slog.LevelInfo, ""},
		{slog.LevelWarn, slog.LevelError, "[error] rule skipped"},
		{LevelSilent, slog.LevelError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.min.String()+"/"+tt.log.String(), func(t *testing.T) {
			var buf bytes.Buffer
			NewLogger(&buf, tt.min).Log(context.Background(), tt.log, "rule skipped")
			got := buf.String()
			if tt.want == "" && got != "" {
				t.Errorf("expected nothing, got %q", got)
			}
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := LevelFromString(tt.input)
			if got != tt.expected {
				t.Errorf("LevelFromString(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		quiet     bool
		expected  slog.Level
	}{
		{0, false, slog.LevelWarn},
		{1, false, slog.LevelInfo},
		{2, false, slog.LevelDebug},
		{3, false, slog.LevelDebug},
		{0, true, LevelSilent},
		{5, true, LevelSilent},
	}

	for _, tt := range tests {
		got := LevelFromVerbosity(tt.verbosity, tt.quiet)
		if got != tt.expected {
			t.Errorf("LevelFromVerbosity(%d, %v) = %v, want %v",
				tt.verbosity, tt.quiet, got, tt.expected)
		}
	}
}

func TestNewDiscardLogger(t *testing.T) {
	if NewDiscardLogger().Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger is enabled")
	}
}

func TestTeeHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h1 := NewHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	h2 := NewHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelWarn})

	logger := slog.New(NewTeeHandler(h1, h2))
	logger.Info("info message")
	logger.Warn("warn message")

	// buf1 should have both (info level)
	if !strings.Contains(buf1.String(), "info message") {
		t.Error("buf1 should contain info message")
	}
	if !strings.Contains(buf1.String(), "warn message") {
		t.Error("buf1 should contain warn message")
	}

	// buf2 should only have warn (warn level)
	if strings.Contains(buf2.String(), "info message") {
		t.Error("buf2 should not contain info message")
	}
	if !strings.Contains(buf2.String(), "warn message") {
		t.Error("buf2 should contain warn message")
	}
}

func TestHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo).WithGroup("run").With("file", "a.c")
	logger.Info("checked", "rule", "C-F3", "msg", "two words")

	out := buf.String()
	for _, want := range []string{"run.file=a.c", "run.rule=C-F3", `run.msg="two words"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	f := NewLoggerFactory(Options{Level: "info", Format: "json"}, nil)
	f.Logger(&buf).Info("hello", "n", 1)
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("json output = %s", buf.String())
	}
}

func TestLoggerFactory(t *testing.T) {
	debug := slog.LevelDebug
	tests := []struct {
		name string
		opts Options
		cli  *slog.Level
		want slog.Level
	}{
		{"default", Options{}, nil, slog.LevelWarn},
		{"configured", Options{Level: "error"}, nil, slog.LevelError},
		{"flag wins", Options{Level: "error"}, &debug, slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewLoggerFactory(tt.opts, tt.cli).Level(); got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoggerFactory_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "plum.log")
	f := NewLoggerFactory(Options{Level: "info", File: path, MaxSize: "1MB", MaxBackups: 1}, nil)
	var console bytes.Buffer
	f.Logger(&console).Info("started")
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "started") || !strings.Contains(console.String(), "started") {
		t.Errorf("file = %q, console = %q", data, console.String())
	}
}
