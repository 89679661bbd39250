package main

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions contains all action definitions with default keybindings, mouse bindings, and descriptions
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"KeyQ", "Ctrl+KeyW"}, []string{}, "Quit application"},
	{"cancel", []string{"Escape"}, []string{}, "Leave crop mode / close help"},
	{"help", []string{"Shift+Slash", "F1"}, []string{"Alt+RightClick"}, "Show/hide help"},
	{"info", []string{"KeyI"}, []string{}, "Show/hide info line"},
	{"fullscreen", []string{"Enter", "F11"}, []string{"DoubleLeftClick"}, "Toggle fullscreen"},

	{"next", []string{"Space", "KeyN", "PageDown"}, []string{"Forward", "WheelDown"}, "Next image"},
	{"previous", []string{"Backspace", "KeyP", "PageUp"}, []string{"Back", "WheelUp"}, "Previous image"},
	{"reload", []string{"F5"}, []string{}, "Reload image from disk"},

	// Preview size
	{"zoom_in", []string{"Equal", "Shift+Equal", "NumpadAdd"}, []string{}, "Zoom in (next step)"},
	{"zoom_out", []string{"Minus", "NumpadSubtract"}, []string{}, "Zoom out (previous step)"},
	{"zoom_in_step", []string{"Ctrl+Equal"}, []string{"Ctrl+WheelUp"}, "Zoom in by zoom_step percent"},
	{"zoom_out_step", []string{"Ctrl+Minus"}, []string{"Ctrl+WheelDown"}, "Zoom out by zoom_step percent"},
	{"zoom_reset", []string{"Key1"}, []string{"Shift+MiddleClick"}, "Original size (100%)"},
	{"zoom_fit", []string{"KeyF", "Key0"}, []string{"MiddleClick"}, "Fit screen"},

	// Pan (when the preview is larger than the window)
	{"pan_up", []string{"ArrowUp"}, []string{}, "Pan up"},
	{"pan_down", []string{"ArrowDown"}, []string{}, "Pan down"},
	{"pan_left", []string{"ArrowLeft"}, []string{}, "Pan left"},
	{"pan_right", []string{"ArrowRight"}, []string{}, "Pan right"},

	// Editing
	{"rotate_left", []string{"KeyL"}, []string{}, "Rotate counterclockwise"},
	{"rotate_right", []string{"KeyR"}, []string{}, "Rotate clockwise"},
	{"crop", []string{"KeyC"}, []string{}, "Toggle crop selection"},
	{"resize", []string{"KeyE"}, []string{}, "Resize (enter W, xH or WxH)"},
	{"undo", []string{"Ctrl+KeyZ", "KeyU"}, []string{}, "Undo last operation"},
	{"redo", []string{"Ctrl+KeyY", "Ctrl+Shift+KeyZ"}, []string{}, "Redo operation"},

	// File
	{"save", []string{"Ctrl+KeyS"}, []string{}, "Save (overwrite)"},
	{"save_as", []string{"Ctrl+Shift+KeyS"}, []string{}, "Save as"},
	{"delete", []string{"Delete"}, []string{}, "Move image to trash"},
	{"print", []string{"Ctrl+KeyP"}, []string{}, "Print"},
	{"copy", []string{"Ctrl+KeyC"}, []string{}, "Copy image to clipboard"},
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = append([]string(nil), action.Keys...)
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = append([]string(nil), action.MouseActions...)
	}
	return mousebindings
}

// actionNames returns action names in definition order.
func actionNames() []string {
	names := make([]string, 0, len(actionDefinitions))
	for _, action := range actionDefinitions {
		names = append(names, action.Name)
	}
	return names
}
