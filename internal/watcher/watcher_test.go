package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestNew(t *testing.T) {
	w, err := New(t.TempDir(), 100*time.Millisecond, func() {})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if w == nil {
		t.Fatal("New() returned nil watcher")
	}
}

func TestNewInvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/that/does/not/exist", 100*time.Millisecond, func() {})
	if err == nil {
		t.Fatal("New() should return error for invalid path")
	}
}

func TestBurstIsCoalesced(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	w, err := New(dir, 100*time.Millisecond, func() { calls.Add(1) })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Give the watcher time to start
	time.Sleep(50 * time.Millisecond)

	for _, name := range []string{"a.png", "b.png", "c.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}
	if err := os.Remove(filepath.Join(dir, "b.png")); err != nil {
		t.Fatal(err)
	}

	time.Sleep(400 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("Expected a single notification, got %d", got)
	}
}

func TestStartTwice(t *testing.T) {
	w, err := New(t.TempDir(), 10*time.Millisecond, func() {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := w.Start(); err == nil {
		t.Error("Second Start() should fail")
	}
}

func TestCloseCancelsPendingNotification(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	w, err := New(dir, 200*time.Millisecond, func() { calls.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Second Close() should be a no-op, got %v", err)
	}
	if err := w.Start(); err == nil {
		t.Error("Start() after Close() should fail")
	}

	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("Expected no notification after Close, got %d", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		op       fsnotify.Op
		expected EventType
		ok       bool
	}{
		{fsnotify.Create, EventCreate, true},
		{fsnotify.Write, EventModify, true},
		{fsnotify.Remove, EventDelete, true},
		{fsnotify.Rename, EventRename, true},
		{fsnotify.Create | fsnotify.Write, EventCreate, true},
		{fsnotify.Chmod, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got, ok := classify(tt.op)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("classify(%v) = %q, %v; want %q, %v", tt.op, got, ok, tt.expected, tt.ok)
			}
		})
	}
}
