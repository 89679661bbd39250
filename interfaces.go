package main

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"imageroll/internal/app"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
	// Errors stay a little longer
	errorMessageDuration = 4 * time.Second
)

// PromptKind selects what a text prompt is asking for.
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptResize
	PromptSaveAs
)

func (k PromptKind) Label() string {
	switch k {
	case PromptResize:
		return "Resize to"
	case PromptSaveAs:
		return "Save as"
	default:
		return ""
	}
}

// RenderState provides read-only access to viewer state for the renderer
type RenderState interface {
	GetPreviewImage() *ebiten.Image
	GetPanOffset() (float64, float64)
	GetSelection() (image.Rectangle, bool)
	IsCropMode() bool
	IsFullscreen() bool

	// UI state
	IsShowingHelp() bool
	IsShowingInfo() bool
	IsInPromptMode() bool
	GetPromptKind() PromptKind
	GetPromptBuffer() string
	GetPromptHint() string
	GetOverlayMessage() (string, app.MessageLevel)
	GetOverlayMessageTime() time.Time

	// Info line data
	GetFileName() string
	GetPosition() (int, int)
	GetZoomLabel() string
	HasUnsavedEdits() bool

	// Help data
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// renderSnapshot holds everything that changes what Draw produces. Frames are
// only redrawn when the snapshot differs from the previous one.
type renderSnapshot struct {
	previewVersion uint64
	screenW        int
	screenH        int
	panX, panY     float64
	selection      image.Rectangle
	cropMode       bool
	help           bool
	info           bool
	prompt         PromptKind
	promptBuffer   string
	overlayText    string
	overlayActive  bool
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()
	Cancel()

	// Display toggles
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()

	// Text prompt
	EnterPromptMode(kind PromptKind)
	ExitPromptMode()
	SubmitPrompt()
	UpdatePromptBuffer(buffer string)

	// Navigation
	NavigateNext()
	NavigatePrevious()
	Reload()

	// Preview size
	ZoomIn()
	ZoomOut()
	ZoomInStep()
	ZoomOutStep()
	ZoomReset()
	ZoomFit()
	PanByDelta(deltaX, deltaY float64)
	StartZoomGesture()
	ChangeZoomGesture(scale float64)

	// Editing
	RotateLeft()
	RotateRight()
	ToggleCrop()
	StartSelection(screenX, screenY int)
	DragSelection(screenX, screenY int)
	EndSelection()
	Undo()
	Redo()

	// File
	Save()
	Delete()
	Print()
	Copy()

	// Messages
	ShowOverlayMessage(message string)

	GetTotalPagesCount() int
}

// InputState provides read-only access to input-related state
type InputState interface {
	IsInPromptMode() bool
	GetPromptKind() PromptKind
	GetPromptBuffer() string
	IsCropMode() bool
	CanPan() bool
}
