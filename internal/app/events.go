package app

import (
	"image"

	"imageroll/internal/operation"
	"imageroll/internal/preview"
)

// Event is a request for the dispatcher. Events are handled one at a time in
// the order they were posted.
type Event interface {
	eventName() string
}

// OpenFile replaces the browsed directory with the one containing Path.
type OpenFile struct{ Path string }

// LoadImage makes Path the current image. An empty Path shows nothing.
// Reload forces decoding the file again even when its buffers are cached.
type LoadImage struct {
	Path   string
	Reload bool
}

type DisplayMessage struct{ Message Message }

type ImageViewportResize struct{ Width, Height int }

type RefreshPreview struct{ Size preview.Size }

type ChangePreviewSize struct{ Size preview.Size }

type ImageEdit struct{ Op operation.Operation }

// ToggleCrop switches rectangle selection on and off.
type ToggleCrop struct{}

// StartSelection, DragSelection and EndSelection carry preview coordinates.
type StartSelection struct{ Pos image.Point }

type DragSelection struct{ Pos image.Point }

type EndSelection struct{}

// PreviewSmaller steps down the zoom ladder, or by By percent when By > 0.
type PreviewSmaller struct{ By int }

// PreviewLarger steps up the zoom ladder, or by By percent when By > 0.
type PreviewLarger struct{ By int }

type PreviewFitScreen struct{}

type NextImage struct{}

type PreviousImage struct{}

type RefreshFileList struct{}

// SaveCurrentImage overwrites the current file when Path is empty and saves
// a copy otherwise.
type SaveCurrentImage struct{ Path string }

type DeleteCurrentImage struct{}

type UndoOperation struct{}

type RedoOperation struct{}

type Print struct{}

type CopyCurrentImage struct{}

type StartZoomGesture struct{}

// ZoomGestureScaleChanged carries the pinch factor relative to the gesture start.
type ZoomGestureScaleChanged struct{ Scale float64 }

func (OpenFile) eventName() string                { return "OpenFile" }
func (LoadImage) eventName() string               { return "LoadImage" }
func (DisplayMessage) eventName() string          { return "DisplayMessage" }
func (ImageViewportResize) eventName() string     { return "ImageViewportResize" }
func (RefreshPreview) eventName() string          { return "RefreshPreview" }
func (ChangePreviewSize) eventName() string       { return "ChangePreviewSize" }
func (ImageEdit) eventName() string               { return "ImageEdit" }
func (ToggleCrop) eventName() string              { return "ToggleCrop" }
func (StartSelection) eventName() string          { return "StartSelection" }
func (DragSelection) eventName() string           { return "DragSelection" }
func (EndSelection) eventName() string            { return "EndSelection" }
func (PreviewSmaller) eventName() string          { return "PreviewSmaller" }
func (PreviewLarger) eventName() string           { return "PreviewLarger" }
func (PreviewFitScreen) eventName() string        { return "PreviewFitScreen" }
func (NextImage) eventName() string               { return "NextImage" }
func (PreviousImage) eventName() string           { return "PreviousImage" }
func (RefreshFileList) eventName() string         { return "RefreshFileList" }
func (SaveCurrentImage) eventName() string        { return "SaveCurrentImage" }
func (DeleteCurrentImage) eventName() string      { return "DeleteCurrentImage" }
func (UndoOperation) eventName() string           { return "UndoOperation" }
func (RedoOperation) eventName() string           { return "RedoOperation" }
func (Print) eventName() string                   { return "Print" }
func (CopyCurrentImage) eventName() string        { return "CopyCurrentImage" }
func (StartZoomGesture) eventName() string        { return "StartZoomGesture" }
func (ZoomGestureScaleChanged) eventName() string { return "ZoomGestureScaleChanged" }
