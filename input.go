package main

import (
	"math"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// dragState follows the left mouse button between press and release.
type dragState struct {
	pressed   bool
	moving    bool // past the drag threshold
	selecting bool
	startX    int
	startY    int
	lastX     int
	lastY     int
}

// pinchState follows a two-finger touch gesture.
type pinchState struct {
	active        bool
	startDistance float64
	lastScale     float64
}

// InputHandler handles keyboard, mouse and touch input
type InputHandler struct {
	inputActions        InputActions
	inputState          InputState
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager

	drag     dragState
	pinch    pinchState
	touchIDs []ebiten.TouchID
	chars    []rune
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, inputState InputState, keybindingManager *KeybindingManager, mousebindingManager *MousebindingManager) *InputHandler {
	return &InputHandler{
		inputActions:        inputActions,
		inputState:          inputState,
		keybindingManager:   keybindingManager,
		mousebindingManager: mousebindingManager,
	}
}

// HandleInput processes all input for the current frame
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput() bool {
	if h.inputState.IsInPromptMode() {
		return h.handlePromptMode()
	}

	inputProcessed := false
	for _, action := range actionNames() {
		if h.keybindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
			inputProcessed = true
		}
	}

	// In crop mode the left button belongs to the selection.
	h.mousebindingManager.SetLeftButtonCaptured(h.inputState.IsCropMode())
	for _, action := range actionNames() {
		if h.mousebindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
			inputProcessed = true
		}
	}

	inputProcessed = h.handleMouseDrag() || inputProcessed
	inputProcessed = h.handleTouch() || inputProcessed

	return inputProcessed
}

func (h *InputHandler) handlePromptMode() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		h.inputActions.ExitPromptMode()
		return true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		h.inputActions.SubmitPrompt()
		return true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if buffer := []rune(h.inputState.GetPromptBuffer()); len(buffer) > 0 {
			h.inputActions.UpdatePromptBuffer(string(buffer[:len(buffer)-1]))
		}
		return true
	}

	h.chars = ebiten.AppendInputChars(h.chars[:0])
	if typed := filterPromptInput(h.inputState.GetPromptKind(), h.chars); typed != "" {
		h.inputActions.UpdatePromptBuffer(h.inputState.GetPromptBuffer() + typed)
		return true
	}

	return false
}

// filterPromptInput keeps the characters a prompt of kind accepts.
func filterPromptInput(kind PromptKind, chars []rune) string {
	out := make([]rune, 0, len(chars))
	for _, r := range chars {
		switch kind {
		case PromptResize:
			if unicode.IsDigit(r) || r == 'x' || r == 'X' {
				out = append(out, r)
			}
		default:
			if unicode.IsPrint(r) {
				out = append(out, r)
			}
		}
	}
	return string(out)
}

// handleMouseDrag turns left-button drags into crop selections in crop mode
// and into panning otherwise.
func (h *InputHandler) handleMouseDrag() bool {
	settings := h.mousebindingManager.GetSettings()
	if !settings.EnableMouse {
		return false
	}
	x, y := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		h.drag = dragState{pressed: true, startX: x, startY: y, lastX: x, lastY: y}
		if h.inputState.IsCropMode() {
			h.drag.selecting = true
			h.inputActions.StartSelection(x, y)
			return true
		}
		return false
	}

	if !h.drag.pressed {
		return false
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		selecting := h.drag.selecting
		h.drag = dragState{}
		if selecting {
			h.inputActions.EndSelection()
			return true
		}
		return false
	}

	if x == h.drag.lastX && y == h.drag.lastY {
		return false
	}
	dx, dy := x-h.drag.lastX, y-h.drag.lastY
	h.drag.lastX, h.drag.lastY = x, y

	if h.drag.selecting {
		h.inputActions.DragSelection(x, y)
		return true
	}

	if !h.drag.moving {
		if !exceedsThreshold(x-h.drag.startX, y-h.drag.startY, settings.DragThreshold) {
			return false
		}
		h.drag.moving = true
	}
	if settings.EnableDragPan && h.inputState.CanPan() {
		h.inputActions.PanByDelta(float64(dx)*settings.DragSensitivity, float64(dy)*settings.DragSensitivity)
		return true
	}
	return false
}

func exceedsThreshold(dx, dy, threshold int) bool {
	return dx*dx+dy*dy > threshold*threshold
}

// handleTouch maps a two-finger pinch to zoom gesture actions.
func (h *InputHandler) handleTouch() bool {
	h.touchIDs = ebiten.AppendTouchIDs(h.touchIDs[:0])
	if len(h.touchIDs) != 2 {
		h.pinch = pinchState{}
		return false
	}

	x0, y0 := ebiten.TouchPosition(h.touchIDs[0])
	x1, y1 := ebiten.TouchPosition(h.touchIDs[1])
	distance := math.Hypot(float64(x1-x0), float64(y1-y0))
	if distance == 0 {
		return false
	}

	if !h.pinch.active {
		h.pinch = pinchState{active: true, startDistance: distance, lastScale: 1}
		h.inputActions.StartZoomGesture()
		return true
	}

	scale := distance / h.pinch.startDistance
	if math.Abs(scale-h.pinch.lastScale) < 0.01 {
		return false
	}
	h.pinch.lastScale = scale
	h.inputActions.ChangeZoomGesture(scale)
	return true
}
