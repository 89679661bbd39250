// Package filelist enumerates the image files of one directory and keeps a
// cyclic cursor over them.
package filelist

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"imageroll/internal/logger"
	"imageroll/internal/watcher"
)

// EnumerationError reports a directory that could not be listed.
type EnumerationError struct {
	Dir string
	Err error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("failed to list %s: %v", e.Dir, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// ErrNotListed is returned by New when the starting file is not an image in
// its directory.
var ErrNotListed = errors.New("file is not an image in its directory")

// Extensions the platform MIME table may not know about.
var imageExtensions = map[string]bool{
	".bmp":  true,
	".gif":  true,
	".ico":  true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// FileList is the sorted list of images in a directory plus the selected
// entry. current is -1 exactly when the list is empty.
type FileList struct {
	dir      string
	names    []string
	current  int
	strategy SortStrategy
	watch    *watcher.Watcher
}

// New lists the directory containing start and selects start. An empty start
// gives an inert list that never changes.
func New(start string, strategy SortStrategy) (*FileList, error) {
	if strategy == nil {
		strategy = &NaturalSortStrategy{}
	}
	l := &FileList{current: -1, strategy: strategy}
	if start == "" {
		return l, nil
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	l.dir = filepath.Dir(abs)
	names, err := l.enumerate()
	if err != nil {
		return nil, err
	}
	l.names = names

	base := filepath.Base(abs)
	for i, name := range names {
		if name == base {
			l.current = i
			return l, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", base, ErrNotListed)
}

// Watch starts delivering onChange after the directory changed. A previous
// watch is replaced. onChange runs on a watcher goroutine.
func (l *FileList) Watch(debounce time.Duration, onChange func()) error {
	if l.dir == "" {
		return nil
	}
	l.stopWatching()
	w, err := watcher.New(l.dir, debounce, onChange)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		w.Close()
		return err
	}
	l.watch = w
	return nil
}

// IsWatched reports whether change notifications are active.
func (l *FileList) IsWatched() bool {
	return l.watch != nil
}

// Close stops watching the directory.
func (l *FileList) Close() error {
	return l.stopWatching()
}

func (l *FileList) stopWatching() error {
	if l.watch == nil {
		return nil
	}
	err := l.watch.Close()
	l.watch = nil
	return err
}

// Next advances the selection, wrapping from the last entry to the first.
func (l *FileList) Next() {
	if len(l.names) == 0 {
		l.current = -1
		return
	}
	l.current = (l.current + 1) % len(l.names)
}

// Previous moves the selection back, wrapping from the first entry to the last.
func (l *FileList) Previous() {
	if len(l.names) == 0 {
		l.current = -1
		return
	}
	if l.current <= 0 {
		l.current = len(l.names) - 1
		return
	}
	l.current--
}

// Refresh lists the directory again. The selected file stays selected when it
// still exists; otherwise the first entry sorting after it is selected,
// wrapping to the start. A vanished directory empties the list.
func (l *FileList) Refresh() error {
	if l.dir == "" {
		return nil
	}
	if _, err := os.Stat(l.dir); errors.Is(err, os.ErrNotExist) {
		logger.Infof("Directory %s no longer exists", l.dir)
		l.stopWatching()
		l.dir = ""
		l.names = nil
		l.current = -1
		return nil
	}

	names, err := l.enumerate()
	if err != nil {
		return err
	}

	previous := ""
	if l.current >= 0 && l.current < len(l.names) {
		previous = l.names[l.current]
	}
	l.names = names
	l.current = l.landOn(previous)
	return nil
}

func (l *FileList) landOn(previous string) int {
	if len(l.names) == 0 {
		return -1
	}
	if previous == "" {
		return 0
	}
	for i, name := range l.names {
		if name == previous {
			return i
		}
	}
	for i, name := range l.names {
		if l.strategy.Less(previous, name) {
			return i
		}
	}
	return 0
}

// CurrentFilePath returns the selected file's path.
func (l *FileList) CurrentFilePath() (string, bool) {
	if l.current < 0 || l.current >= len(l.names) {
		return "", false
	}
	return filepath.Join(l.dir, l.names[l.current]), true
}

// CurrentIndex returns the zero-based index of the selection, or -1.
func (l *FileList) CurrentIndex() int {
	return l.current
}

func (l *FileList) Len() int {
	return len(l.names)
}

// Dir returns the listed directory, empty for an inert list.
func (l *FileList) Dir() string {
	return l.dir
}

// Names returns the sorted file names.
func (l *FileList) Names() []string {
	return append([]string(nil), l.names...)
}

func (l *FileList) enumerate() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, &EnumerationError{Dir: l.dir, Err: err}
	}

	var names []string
	for _, entry := range entries {
		path := filepath.Join(l.dir, entry.Name())
		if !isRegular(path, entry) {
			continue
		}
		if IsImage(path) {
			names = append(names, entry.Name())
		}
	}
	return l.strategy.Sort(names), nil
}

func isRegular(path string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsImage guesses from the extension, falling back to sniffing the content
// when the extension says nothing.
func IsImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if imageExtensions[ext] {
		return true
	}
	if ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return strings.HasPrefix(t, "image/")
		}
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		logger.Debugf("Cannot sniff %s: %v", path, err)
		return false
	}
	return strings.HasPrefix(mt.String(), "image/")
}
