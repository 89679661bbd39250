// Package imagelist caches Image entities by path and tracks the current one.
package imagelist

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"imageroll/internal/logger"
	"imageroll/internal/photo"
)

const DefaultResidentImages = 8

var (
	ErrNoCurrentImage = errors.New("no current image")
	ErrNoCurrentPath  = errors.New("no current file")
)

// Trasher moves a file somewhere it can be recovered from.
type Trasher interface {
	Trash(path string) error
}

// ClipboardSink receives an image for the system clipboard.
type ClipboardSink interface {
	CopyImage(img image.Image) error
}

// ImageList maps file paths to Image entities. Entities keep their history
// for as long as they stay in the list; only the most recently used ones keep
// their decoded buffers.
type ImageList struct {
	images      map[string]*photo.Image
	currentPath string
	resident    *lru.Cache[string, struct{}]
}

// New creates an empty list that keeps buffers of at most resident images.
func New(resident int) *ImageList {
	if resident <= 0 {
		resident = DefaultResidentImages
	}
	l := &ImageList{images: make(map[string]*photo.Image)}
	l.resident, _ = lru.NewWithEvict[string, struct{}](resident, l.onEvict)
	return l
}

func (l *ImageList) onEvict(path string, _ struct{}) {
	if path == l.currentPath {
		return
	}
	if img, ok := l.images[path]; ok {
		logger.Debugf("Releasing buffers of %s", filepath.Base(path))
		img.RemoveImageBuffers()
	}
}

// Insert stores img under path and marks its buffers as recently used.
func (l *ImageList) Insert(path string, img *photo.Image) {
	l.images[path] = img
	l.resident.Add(path, struct{}{})
}

// Get returns the entity stored for path. It does not count as a use of the
// buffers; Insert does.
func (l *ImageList) Get(path string) (*photo.Image, bool) {
	img, ok := l.images[path]
	return img, ok
}

// Remove deletes path from the list and returns what was stored there.
func (l *ImageList) Remove(path string) (*photo.Image, bool) {
	img, ok := l.images[path]
	if !ok {
		return nil, false
	}
	delete(l.images, path)
	l.resident.Remove(path)
	return img, true
}

func (l *ImageList) Len() int {
	return len(l.images)
}

// SetCurrentPath selects path; an empty path clears the selection. The path
// does not need to be present in the list.
func (l *ImageList) SetCurrentPath(path string) {
	previous := l.currentPath
	l.currentPath = path
	if previous == "" || previous == path || l.resident.Contains(previous) {
		return
	}
	// The previous image was spared eviction while it was current.
	if img, ok := l.images[previous]; ok && img.HasBuffers() {
		logger.Debugf("Releasing buffers of %s", filepath.Base(previous))
		img.RemoveImageBuffers()
	}
}

// CurrentPath returns the selected path and whether one is set.
func (l *ImageList) CurrentPath() (string, bool) {
	return l.currentPath, l.currentPath != ""
}

// CurrentImage returns the entity at the current path, or nil.
func (l *ImageList) CurrentImage() *photo.Image {
	if l.currentPath == "" {
		return nil
	}
	img, _ := l.Get(l.currentPath)
	return img
}

// RemoveCurrentImage takes the current entity out of the list.
func (l *ImageList) RemoveCurrentImage() (*photo.Image, bool) {
	if l.currentPath == "" {
		return nil, false
	}
	return l.Remove(l.currentPath)
}

// SaveCurrentImage writes the current image. An empty filename overwrites the
// current file and clears history. Any other filename saves a copy, keeping
// history and the current path, unless it names the current file itself.
func (l *ImageList) SaveCurrentImage(filename string) error {
	if l.currentPath == "" {
		return ErrNoCurrentPath
	}
	img := l.CurrentImage()
	if img == nil {
		return ErrNoCurrentImage
	}
	if filename == "" || SamePath(filename, l.currentPath) {
		return img.Save(l.currentPath, true)
	}
	return img.Save(filename, false)
}

// DeleteCurrentImage trashes the current file, drops its entity and returns
// the file's base name.
func (l *ImageList) DeleteCurrentImage(trasher Trasher) (string, error) {
	if l.currentPath == "" {
		return "", ErrNoCurrentPath
	}
	path := l.currentPath
	if err := trasher.Trash(path); err != nil {
		return "", fmt.Errorf("moving %s to trash: %w", filepath.Base(path), err)
	}
	l.Remove(path)
	return filepath.Base(path), nil
}

// CopyCurrentImage hands the current buffer to sink.
func (l *ImageList) CopyCurrentImage(sink ClipboardSink) error {
	img := l.CurrentImage()
	if img == nil || img.CurrentBuffer() == nil {
		return ErrNoCurrentImage
	}
	return sink.CopyImage(img.CurrentBuffer())
}

// SamePath reports whether a and b name the same file location.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
