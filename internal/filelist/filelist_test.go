package filelist

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newList(t *testing.T, dir, start string) *FileList {
	t.Helper()
	l, err := New(filepath.Join(dir, start), &NaturalSortStrategy{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return l
}

func currentName(l *FileList) string {
	p, ok := l.CurrentFilePath()
	if !ok {
		return ""
	}
	return filepath.Base(p)
}

func TestNewEnumeratesImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.JPG", "c.tiff", "notes.txt", "d.ico", "e.bmp"} {
		touch(t, dir, name)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sniffed"), pngBytes(t), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "b.png"), filepath.Join(dir, "link.png")); err != nil {
		t.Fatal(err)
	}

	l := newList(t, dir, "b.png")
	expected := []string{"a.JPG", "b.png", "c.tiff", "d.ico", "e.bmp", "link.png", "sniffed"}
	got := l.Names()
	if len(got) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("index %d: expected %s, got %s", i, expected[i], got[i])
		}
	}
	if currentName(l) != "b.png" || l.CurrentIndex() != 1 {
		t.Errorf("Expected b.png at 1, got %s at %d", currentName(l), l.CurrentIndex())
	}
	if l.Dir() != dir {
		t.Errorf("Expected dir %s, got %s", dir, l.Dir())
	}
}

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "notes.txt")

	if _, err := New(filepath.Join(dir, "notes.txt"), nil); !errors.Is(err, ErrNotListed) {
		t.Errorf("Expected ErrNotListed, got %v", err)
	}

	_, err := New(filepath.Join(dir, "missing", "a.png"), nil)
	var enumErr *EnumerationError
	if !errors.As(err, &enumErr) {
		t.Errorf("Expected EnumerationError, got %v", err)
	}
}

func TestInertList(t *testing.T) {
	l, err := New("", nil)
	if err != nil {
		t.Fatal(err)
	}
	l.Next()
	l.Previous()
	if err := l.Refresh(); err != nil {
		t.Errorf("Refresh on inert list failed: %v", err)
	}
	if _, ok := l.CurrentFilePath(); ok || l.Len() != 0 || l.CurrentIndex() != -1 {
		t.Error("Inert list should stay empty")
	}
	if err := l.Watch(time.Millisecond, func() {}); err != nil || l.IsWatched() {
		t.Error("Inert list should not watch anything")
	}
}

func TestCyclicNavigation(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"A.png", "B.png", "C.png"} {
		touch(t, dir, name)
	}

	tests := []struct {
		name     string
		start    string
		moves    []bool
		expected string
	}{
		{"Next", "B.png", []bool{true}, "C.png"},
		{"Next wraps", "B.png", []bool{true, true}, "A.png"},
		{"Previous", "B.png", []bool{false}, "A.png"},
		{"Previous wraps", "A.png", []bool{false}, "C.png"},
		{"Round trip", "C.png", []bool{true, false}, "C.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newList(t, dir, tt.start)
			for _, next := range tt.moves {
				if next {
					l.Next()
				} else {
					l.Previous()
				}
			}
			if got := currentName(l); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	t.Run("KeepsSelectionWhenFilesAppear", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"B.png", "C.png"} {
			touch(t, dir, name)
		}
		l := newList(t, dir, "B.png")
		touch(t, dir, "A.png")
		touch(t, dir, "D.png")

		if err := l.Refresh(); err != nil {
			t.Fatal(err)
		}
		if currentName(l) != "B.png" || l.CurrentIndex() != 1 || l.Len() != 4 {
			t.Errorf("Expected B.png at 1 of 4, got %s at %d of %d", currentName(l), l.CurrentIndex(), l.Len())
		}
	})

	t.Run("MovesOnWhenSelectionVanishes", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"A.png", "B.png", "C.png"} {
			touch(t, dir, name)
		}
		l := newList(t, dir, "B.png")
		os.Remove(filepath.Join(dir, "B.png"))

		if err := l.Refresh(); err != nil {
			t.Fatal(err)
		}
		if currentName(l) != "C.png" {
			t.Errorf("Expected C.png, got %s", currentName(l))
		}
	})

	t.Run("WrapsWhenLastVanishes", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"A.png", "B.png", "C.png"} {
			touch(t, dir, name)
		}
		l := newList(t, dir, "C.png")
		os.Remove(filepath.Join(dir, "C.png"))

		if err := l.Refresh(); err != nil {
			t.Fatal(err)
		}
		if currentName(l) != "A.png" {
			t.Errorf("Expected A.png, got %s", currentName(l))
		}
	})

	t.Run("EmptiesWhenAllVanish", func(t *testing.T) {
		dir := t.TempDir()
		touch(t, dir, "A.png")
		l := newList(t, dir, "A.png")
		os.Remove(filepath.Join(dir, "A.png"))

		if err := l.Refresh(); err != nil {
			t.Fatal(err)
		}
		if l.Len() != 0 || l.CurrentIndex() != -1 {
			t.Error("Expected an empty list")
		}
		l.Next()
		if l.CurrentIndex() != -1 {
			t.Error("Next on an empty list should be a no-op")
		}

		touch(t, dir, "Z.png")
		if err := l.Refresh(); err != nil {
			t.Fatal(err)
		}
		if currentName(l) != "Z.png" {
			t.Errorf("Expected Z.png after it appeared, got %q", currentName(l))
		}
	})

	t.Run("ResetsWhenDirectoryVanishes", func(t *testing.T) {
		parent := t.TempDir()
		dir := filepath.Join(parent, "photos")
		if err := os.Mkdir(dir, 0755); err != nil {
			t.Fatal(err)
		}
		touch(t, dir, "A.png")
		l := newList(t, dir, "A.png")
		if err := os.RemoveAll(dir); err != nil {
			t.Fatal(err)
		}

		if err := l.Refresh(); err != nil {
			t.Fatal(err)
		}
		if l.Len() != 0 || l.Dir() != "" {
			t.Error("Expected list reset to inert")
		}
	})
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "A.png")
	l := newList(t, dir, "A.png")
	defer l.Close()

	var calls atomic.Int32
	if err := l.Watch(50*time.Millisecond, func() { calls.Add(1) }); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if !l.IsWatched() {
		t.Fatal("Expected the list to be watched")
	}
	time.Sleep(50 * time.Millisecond)

	touch(t, dir, "B.png")
	time.Sleep(300 * time.Millisecond)

	if calls.Load() == 0 {
		t.Error("Expected a change notification")
	}

	if err := l.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if l.IsWatched() {
		t.Error("Close should stop watching")
	}
}

func TestIsImage(t *testing.T) {
	dir := t.TempDir()
	sniffed := filepath.Join(dir, "picture.unknownext")
	if err := os.WriteFile(sniffed, pngBytes(t), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path     string
		expected bool
	}{
		{"x.PNG", true},
		{"x.tif", true},
		{"x.webp", true},
		{"x.txt", false},
		{"x.html", false},
		{sniffed, true},
		{touch(t, dir, "plain.unknownext"), false},
		{filepath.Join(dir, "missing"), false},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			if got := IsImage(tt.path); got != tt.expected {
				t.Errorf("IsImage(%s) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}
