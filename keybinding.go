package main

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeybindingManager handles dynamic keybinding processing
type KeybindingManager struct {
	keybindings map[string][]string
	parsed      map[string][]KeyCombination
}

// NewKeybindingManager creates a new KeybindingManager. Invalid key strings
// are dropped here; config loading has already reported them.
func NewKeybindingManager(keybindings map[string][]string) *KeybindingManager {
	km := &KeybindingManager{}
	km.UpdateKeybindings(keybindings)
	return km
}

// keyMapping maps configuration key names to Ebiten keys.
var keyMapping = map[string]ebiten.Key{
	// Letters
	"KeyA": ebiten.KeyA, "KeyB": ebiten.KeyB, "KeyC": ebiten.KeyC, "KeyD": ebiten.KeyD,
	"KeyE": ebiten.KeyE, "KeyF": ebiten.KeyF, "KeyG": ebiten.KeyG, "KeyH": ebiten.KeyH,
	"KeyI": ebiten.KeyI, "KeyJ": ebiten.KeyJ, "KeyK": ebiten.KeyK, "KeyL": ebiten.KeyL,
	"KeyM": ebiten.KeyM, "KeyN": ebiten.KeyN, "KeyO": ebiten.KeyO, "KeyP": ebiten.KeyP,
	"KeyQ": ebiten.KeyQ, "KeyR": ebiten.KeyR, "KeyS": ebiten.KeyS, "KeyT": ebiten.KeyT,
	"KeyU": ebiten.KeyU, "KeyV": ebiten.KeyV, "KeyW": ebiten.KeyW, "KeyX": ebiten.KeyX,
	"KeyY": ebiten.KeyY, "KeyZ": ebiten.KeyZ,

	// Numbers
	"Key0": ebiten.Key0, "Key1": ebiten.Key1, "Key2": ebiten.Key2, "Key3": ebiten.Key3,
	"Key4": ebiten.Key4, "Key5": ebiten.Key5, "Key6": ebiten.Key6, "Key7": ebiten.Key7,
	"Key8": ebiten.Key8, "Key9": ebiten.Key9,

	// Function keys
	"F1": ebiten.KeyF1, "F2": ebiten.KeyF2, "F3": ebiten.KeyF3, "F4": ebiten.KeyF4,
	"F5": ebiten.KeyF5, "F6": ebiten.KeyF6, "F7": ebiten.KeyF7, "F8": ebiten.KeyF8,
	"F9": ebiten.KeyF9, "F10": ebiten.KeyF10, "F11": ebiten.KeyF11, "F12": ebiten.KeyF12,

	// Special keys
	"Space":      ebiten.KeySpace,
	"Backspace":  ebiten.KeyBackspace,
	"Delete":     ebiten.KeyDelete,
	"Insert":     ebiten.KeyInsert,
	"Enter":      ebiten.KeyEnter,
	"Escape":     ebiten.KeyEscape,
	"Tab":        ebiten.KeyTab,
	"Home":       ebiten.KeyHome,
	"End":        ebiten.KeyEnd,
	"PageUp":     ebiten.KeyPageUp,
	"PageDown":   ebiten.KeyPageDown,
	"ArrowUp":    ebiten.KeyArrowUp,
	"ArrowDown":  ebiten.KeyArrowDown,
	"ArrowLeft":  ebiten.KeyArrowLeft,
	"ArrowRight": ebiten.KeyArrowRight,

	// Punctuation
	"Comma":        ebiten.KeyComma,
	"Period":       ebiten.KeyPeriod,
	"Slash":        ebiten.KeySlash,
	"Semicolon":    ebiten.KeySemicolon,
	"Quote":        ebiten.KeyQuote,
	"Minus":        ebiten.KeyMinus,
	"Equal":        ebiten.KeyEqual,
	"BracketLeft":  ebiten.KeyBracketLeft,
	"BracketRight": ebiten.KeyBracketRight,

	// Numpad
	"Numpad0":        ebiten.KeyNumpad0,
	"Numpad1":        ebiten.KeyNumpad1,
	"Numpad2":        ebiten.KeyNumpad2,
	"Numpad3":        ebiten.KeyNumpad3,
	"Numpad4":        ebiten.KeyNumpad4,
	"Numpad5":        ebiten.KeyNumpad5,
	"Numpad6":        ebiten.KeyNumpad6,
	"Numpad7":        ebiten.KeyNumpad7,
	"Numpad8":        ebiten.KeyNumpad8,
	"Numpad9":        ebiten.KeyNumpad9,
	"NumpadAdd":      ebiten.KeyNumpadAdd,
	"NumpadSubtract": ebiten.KeyNumpadSubtract,
	"NumpadEnter":    ebiten.KeyNumpadEnter,
}

// Modifiers is the modifier part of a key or mouse binding.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// matches reports whether exactly these modifiers are held.
func (m Modifiers) matches() bool {
	return m.Shift == ebiten.IsKeyPressed(ebiten.KeyShift) &&
		m.Ctrl == ebiten.IsKeyPressed(ebiten.KeyControl) &&
		m.Alt == ebiten.IsKeyPressed(ebiten.KeyAlt)
}

// KeyCombination represents a key with optional modifiers
type KeyCombination struct {
	Key ebiten.Key
	Modifiers
}

// splitBinding separates "Ctrl+Shift+KeyZ" into modifiers and the final name.
// Unknown modifiers yield ok == false.
func splitBinding(binding string) (Modifiers, string, bool) {
	parts := strings.Split(binding, "+")
	name := parts[len(parts)-1]
	if name == "" {
		return Modifiers{}, "", false
	}

	var mods Modifiers
	for _, part := range parts[:len(parts)-1] {
		switch strings.ToLower(part) {
		case "shift":
			mods.Shift = true
		case "ctrl":
			mods.Ctrl = true
		case "alt":
			mods.Alt = true
		default:
			return Modifiers{}, "", false
		}
	}
	return mods, name, true
}

// parseKeyString parses a key string like "Shift+KeyB" into a KeyCombination
func parseKeyString(keyStr string) (KeyCombination, bool) {
	mods, name, ok := splitBinding(keyStr)
	if !ok {
		return KeyCombination{}, false
	}
	key, exists := keyMapping[name]
	if !exists {
		return KeyCombination{}, false
	}
	return KeyCombination{Key: key, Modifiers: mods}, true
}

// isKeyPressed checks if a key combination was just pressed
func (km *KeybindingManager) isKeyPressed(combination KeyCombination) bool {
	return inpututil.IsKeyJustPressed(combination.Key) && combination.matches()
}

// CheckAction checks if any keybinding for the given action is pressed
func (km *KeybindingManager) CheckAction(action string) bool {
	for _, combination := range km.parsed[action] {
		if km.isKeyPressed(combination) {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (km *KeybindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !km.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// GetKeybindings returns the current keybindings map (for display purposes)
func (km *KeybindingManager) GetKeybindings() map[string][]string {
	return km.keybindings
}

// UpdateKeybindings replaces the keybindings map
func (km *KeybindingManager) UpdateKeybindings(keybindings map[string][]string) {
	km.keybindings = keybindings
	km.parsed = make(map[string][]KeyCombination, len(keybindings))
	for action, keys := range keybindings {
		for _, keyStr := range keys {
			if combination, ok := parseKeyString(keyStr); ok {
				km.parsed[action] = append(km.parsed[action], combination)
			} else {
				debugLog("Ignoring invalid key %q for %s", keyStr, action)
			}
		}
	}
}
