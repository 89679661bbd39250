package logger

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected slog.Level
		ok       bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"warn", slog.LevelWarn, true},
		{" err ", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := ParseLevel(tt.name)
			if level != tt.expected || ok != tt.ok {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.name, level, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, &buf)
	defer Init(slog.LevelInfo, nil)

	Debugf("hidden %d", 1)
	Infof("hidden %d", 2)
	Warnf("shown %d", 3)
	Errorf("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug/info to be filtered, got: %s", out)
	}
	if !strings.Contains(out, "shown 3") || !strings.Contains(out, "shown 4") {
		t.Errorf("Expected warn and error lines, got: %s", out)
	}
	if !strings.Contains(out, "logger_test.go") {
		t.Errorf("Expected caller file in source attribute, got: %s", out)
	}
}

func TestOpenOutput(t *testing.T) {
	w, closeFn, err := OpenOutput("-")
	if err != nil || w == nil || closeFn == nil {
		t.Fatalf("OpenOutput(-) = %v, %v", w, err)
	}

	path := filepath.Join(t.TempDir(), "imageroll.log")
	w, closeFn, err = OpenOutput(path)
	if err != nil {
		t.Fatalf("OpenOutput(%s) failed: %v", path, err)
	}
	if _, err := w.Write([]byte("line\n")); err != nil {
		t.Errorf("write failed: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close failed: %v", err)
	}

	if _, _, err := OpenOutput(filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
