// Package photo holds the editable image entity: the decoded buffers, the
// linear history of applied operations and the cursor into that history.
package photo

import (
	"errors"
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"imageroll/internal/codec"
	"imageroll/internal/operation"
	"imageroll/internal/preview"
)

// DecodeError reports a file that could not be read as an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a failed save.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ErrNoBuffer is returned when an operation needs pixels that were released.
var ErrNoBuffer = errors.New("image buffer is missing")

// Image is one file being viewed and edited.
//
// current always equals original with ops[:cursor+1] folded onto it.
// cursor is -1 when nothing is applied.
type Image struct {
	original *image.NRGBA
	current  *image.NRGBA
	preview  *image.NRGBA

	ops    []operation.Operation
	cursor int
}

// Load decodes path into a fresh image with empty history.
func Load(path string) (*Image, error) {
	buf, err := codec.Decode(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return &Image{original: buf, current: buf, cursor: -1}, nil
}

// New wraps an already decoded buffer.
func New(buf *image.NRGBA) *Image {
	return &Image{original: buf, current: buf, cursor: -1}
}

// Reload decodes path again and replays the applied part of the history.
// History and cursor are kept as they are. On error the image is unchanged.
func (img *Image) Reload(path string) error {
	buf, err := codec.Decode(path)
	if err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	img.original = buf
	img.current = operation.Fold(buf, img.ops[:img.cursor+1])
	img.preview = nil
	return nil
}

// Save encodes the current buffer to path. With clearHistory the saved
// buffer becomes the new original and the history is dropped.
func (img *Image) Save(path string, clearHistory bool) error {
	if img.current == nil {
		return &EncodeError{Path: path, Err: ErrNoBuffer}
	}
	if err := codec.Save(path, img.current); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	if clearHistory {
		img.original = img.current
		img.ops = nil
		img.cursor = -1
	}
	return nil
}

// RemoveImageBuffers releases all pixel data. History is kept so a later
// Reload restores the same state.
func (img *Image) RemoveImageBuffers() {
	img.original = nil
	img.current = nil
	img.preview = nil
}

// HasBuffers reports whether pixel data is resident.
func (img *Image) HasBuffers() bool {
	return img.current != nil
}

// ApplyOperation applies op to the current buffer. On success any undone
// operations are discarded, op is appended and becomes the cursor. When op
// cannot be applied nothing changes and false is returned.
func (img *Image) ApplyOperation(op operation.Operation) bool {
	next, ok := operation.Apply(img.current, op)
	if !ok {
		return false
	}
	img.ops = append(img.ops[:img.cursor+1], op)
	img.cursor = len(img.ops) - 1
	img.current = next
	return true
}

func (img *Image) CanUndoOperation() bool {
	return img.cursor >= 0
}

func (img *Image) CanRedoOperation() bool {
	return img.cursor+1 < len(img.ops)
}

// UndoOperation steps the cursor back and rebuilds the current buffer.
func (img *Image) UndoOperation() {
	if !img.CanUndoOperation() {
		return
	}
	img.cursor--
	img.rebuild()
}

// RedoOperation steps the cursor forward and rebuilds the current buffer.
func (img *Image) RedoOperation() {
	if !img.CanRedoOperation() {
		return
	}
	img.cursor++
	img.rebuild()
}

func (img *Image) rebuild() {
	if img.original == nil {
		return
	}
	img.current = operation.Fold(img.original, img.ops[:img.cursor+1])
}

// HasUnsavedEdits reports whether any operation is currently applied.
func (img *Image) HasUnsavedEdits() bool {
	return len(img.ops) > 0 && img.cursor >= 0
}

// Operations returns a copy of the full history, including undone entries.
func (img *Image) Operations() []operation.Operation {
	return append([]operation.Operation(nil), img.ops...)
}

// Cursor returns the index of the last applied operation, or -1.
func (img *Image) Cursor() int {
	return img.cursor
}

func (img *Image) CurrentBuffer() *image.NRGBA {
	return img.current
}

func (img *Image) PreviewBuffer() *image.NRGBA {
	return img.preview
}

// Size returns the current buffer dimensions.
func (img *Image) Size() (int, int, bool) {
	if img.current == nil {
		return 0, 0, false
	}
	b := img.current.Bounds()
	return b.Dx(), b.Dy(), true
}

// PreviewSize returns the preview buffer dimensions.
func (img *Image) PreviewSize() (int, int, bool) {
	if img.preview == nil {
		return 0, 0, false
	}
	b := img.preview.Bounds()
	return b.Dx(), b.Dy(), true
}

// AspectRatio returns width / height of the current buffer.
func (img *Image) AspectRatio() (float64, bool) {
	w, h, ok := img.Size()
	if !ok || h == 0 {
		return 0, false
	}
	return float64(w) / float64(h), true
}

// CreatePreviewBuffer derives the preview buffer for size.
func (img *Image) CreatePreviewBuffer(size preview.Size) {
	if img.current == nil {
		img.preview = nil
		return
	}
	switch size.Mode {
	case preview.BestFit:
		img.preview = img.scaleToFit(size.Width, size.Height)
	case preview.OriginalSize:
		img.preview = img.current
	default:
		b := img.current.Bounds()
		w := int(float64(b.Dx()) * float64(size.Percent) / 100)
		h := int(float64(b.Dy()) * float64(size.Percent) / 100)
		img.preview = scale(img.current, w, h)
	}
}

// CreatePrintBuffer fits the current buffer into a canvas, shrinking only.
func (img *Image) CreatePrintBuffer(canvasWidth, canvasHeight int) *image.NRGBA {
	w, h, ok := img.Size()
	if !ok {
		return nil
	}
	if w > canvasWidth || h > canvasHeight {
		return img.scaleToFit(canvasWidth, canvasHeight)
	}
	return img.current
}

func (img *Image) scaleToFit(canvasWidth, canvasHeight int) *image.NRGBA {
	b := img.current.Bounds()
	ratio := min(float64(canvasWidth)/float64(b.Dx()), float64(canvasHeight)/float64(b.Dy()))
	return scale(img.current, int(float64(b.Dx())*ratio), int(float64(b.Dy())*ratio))
}

// scale resamples src; dimensions are clamped to at least one pixel.
func scale(src *image.NRGBA, w, h int) *image.NRGBA {
	w = max(w, 1)
	h = max(h, 1)
	if b := src.Bounds(); b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// PreviewCoordsToImageCoords maps two points in preview space to the
// current buffer, scaling each axis independently.
func (img *Image) PreviewCoordsToImageCoords(start, end image.Point) (image.Point, image.Point, bool) {
	iw, ih, ok := img.Size()
	if !ok {
		return image.Point{}, image.Point{}, false
	}
	pw, ph, ok := img.PreviewSize()
	if !ok || pw == 0 || ph == 0 {
		return image.Point{}, image.Point{}, false
	}
	sx := float64(iw) / float64(pw)
	sy := float64(ih) / float64(ph)
	mapPoint := func(p image.Point) image.Point {
		return image.Pt(int(float64(p.X)*sx), int(float64(p.Y)*sy))
	}
	return mapPoint(start), mapPoint(end), true
}
