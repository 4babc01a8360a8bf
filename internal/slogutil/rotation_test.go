package slogutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"lots", 0},
		{"-5MB", 0},
		{"512", 512},
		{"512b", 512},
		{" 2kb ", 2 << 10},
		{"10MB", 10 << 20},
		{"0.5GB", 1 << 29},
		{"1.5 MB", 3 << 19},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseSize(tt.in); got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestRotatingFileBackups(t *testing.T) {
	tests := []struct {
		name       string
		maxBackups int
		present    []string
		absent     []string
	}{
		{"no backups", 0, []string{""}, []string{".1"}},
		{"one backup", 1, []string{"", ".1"}, []string{".2"}},
		{"two backups", 2, []string{"", ".1", ".2"}, []string{".3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "plum.log")
			rf, err := OpenRotatingFile(path, 10, tt.maxBackups)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 6; i++ {
				if _, err := rf.Write([]byte("0123456789")); err != nil {
					t.Fatalf("write %d: %v", i, err)
				}
			}
			if err := rf.Close(); err != nil {
				t.Fatal(err)
			}
			for _, suffix := range tt.present {
				if _, err := os.Stat(path + suffix); err != nil {
					t.Errorf("plum.log%s: %v", suffix, err)
				}
			}
			for _, suffix := range tt.absent {
				if _, err := os.Stat(path + suffix); !os.IsNotExist(err) {
					t.Errorf("plum.log%s should not exist", suffix)
				}
			}
		})
	}
}

func TestRotatingFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "plum.log")
	for _, line := range []string{"first\n", "second\n"} {
		rf, err := OpenRotatingFile(path, 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := rf.Write([]byte(line)); err != nil {
			t.Fatal(err)
		}
		if err := rf.Close(); err != nil {
			t.Fatal(err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("content = %q", data)
	}
}

func TestLoggerFactoryUnwritableFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	f := NewLoggerFactory(Options{File: filepath.Join(blocker, "plum.log")}, nil)

	var console bytes.Buffer
	logger := f.Logger(&console)
	logger.Warn("still logging")
	if !strings.Contains(console.String(), "cannot open log file") || !strings.Contains(console.String(), "still logging") {
		t.Errorf("console = %q", console.String())
	}
	if f.Level() != slog.LevelWarn {
		t.Errorf("Level() = %v", f.Level())
	}
}
