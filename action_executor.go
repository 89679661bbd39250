package main

// panStep is the distance in pixels moved by one pan key press.
const panStep = 64.0

// ActionExecutor maps action names to InputActions calls. It is shared by
// KeybindingManager and MousebindingManager.
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction runs action and reports whether the name was known.
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	switch action {
	case "exit":
		inputActions.Exit()
	case "cancel":
		inputActions.Cancel()
	case "help":
		inputActions.ToggleHelp()
	case "info":
		inputActions.ToggleInfo()
	case "fullscreen":
		inputActions.ToggleFullscreen()
	case "next":
		inputActions.NavigateNext()
	case "previous":
		inputActions.NavigatePrevious()
	case "reload":
		inputActions.Reload()

	case "zoom_in":
		inputActions.ZoomIn()
	case "zoom_out":
		inputActions.ZoomOut()
	case "zoom_in_step":
		inputActions.ZoomInStep()
	case "zoom_out_step":
		inputActions.ZoomOutStep()
	case "zoom_reset":
		inputActions.ZoomReset()
	case "zoom_fit":
		inputActions.ZoomFit()

	case "pan_up":
		inputActions.PanByDelta(0, panStep)
	case "pan_down":
		inputActions.PanByDelta(0, -panStep)
	case "pan_left":
		inputActions.PanByDelta(panStep, 0)
	case "pan_right":
		inputActions.PanByDelta(-panStep, 0)

	case "rotate_left":
		inputActions.RotateLeft()
	case "rotate_right":
		inputActions.RotateRight()
	case "crop":
		inputActions.ToggleCrop()
	case "resize":
		if !inputState.IsInPromptMode() {
			inputActions.EnterPromptMode(PromptResize)
		}
	case "undo":
		inputActions.Undo()
	case "redo":
		inputActions.Redo()

	case "save":
		inputActions.Save()
	case "save_as":
		if !inputState.IsInPromptMode() {
			inputActions.EnterPromptMode(PromptSaveAs)
		}
	case "delete":
		inputActions.Delete()
	case "print":
		inputActions.Print()
	case "copy":
		inputActions.Copy()

	default:
		return false
	}

	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()
