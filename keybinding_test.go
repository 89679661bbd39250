package main

import (
	"reflect"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestParseKeyString(t *testing.T) {
	tests := []struct {
		input    string
		expected KeyCombination
		ok       bool
	}{
		{"KeyA", KeyCombination{Key: ebiten.KeyA}, true},
		{"Shift+Slash", KeyCombination{Key: ebiten.KeySlash, Modifiers: Modifiers{Shift: true}}, true},
		{"Ctrl+Shift+KeyZ", KeyCombination{Key: ebiten.KeyZ, Modifiers: Modifiers{Shift: true, Ctrl: true}}, true},
		{"alt+F4", KeyCombination{Key: ebiten.KeyF4, Modifiers: Modifiers{Alt: true}}, true},
		{"NumpadAdd", KeyCombination{Key: ebiten.KeyNumpadAdd}, true},
		{"Hyper+KeyA", KeyCombination{}, false},
		{"Ctrl+", KeyCombination{}, false},
		{"KeyBogus", KeyCombination{}, false},
		{"", KeyCombination{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseKeyString(tt.input)
			if ok != tt.ok {
				t.Fatalf("parseKeyString(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("parseKeyString(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseMouseString(t *testing.T) {
	tests := []struct {
		input    string
		expected MouseCombination
		ok       bool
	}{
		{"LeftClick", MouseCombination{Button: ebiten.MouseButtonLeft}, true},
		{"Alt+RightClick", MouseCombination{Button: ebiten.MouseButtonRight, Modifiers: Modifiers{Alt: true}}, true},
		{"DoubleLeftClick", MouseCombination{Button: ebiten.MouseButtonLeft, IsDoubleClick: true}, true},
		{"Ctrl+WheelUp", MouseCombination{IsWheel: true, WheelDeltaY: 1, Modifiers: Modifiers{Ctrl: true}}, true},
		{"WheelDown", MouseCombination{IsWheel: true, WheelDeltaY: -1}, true},
		{"WheelLeft", MouseCombination{IsWheel: true, WheelDeltaX: -1}, true},
		{"Back", MouseCombination{Button: ebiten.MouseButton3}, true},
		{"WheelSideways", MouseCombination{}, false},
		{"DoubleBogus", MouseCombination{}, false},
		{"Meta+LeftClick", MouseCombination{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseMouseString(tt.input)
			if ok != tt.ok {
				t.Fatalf("parseMouseString(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("parseMouseString(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWheelMatches(t *testing.T) {
	up, _ := parseMouseString("WheelUp")
	right, _ := parseMouseString("WheelRight")

	tests := []struct {
		name        string
		combination MouseCombination
		wx, wy      float64
		expected    bool
	}{
		{"up matches positive y", up, 0, 1.5, true},
		{"up ignores negative y", up, 0, -1, false},
		{"up ignores x", up, 1, 0, false},
		{"right matches positive x", right, 0.5, 0, true},
		{"right ignores y", right, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wheelMatches(tt.combination, tt.wx, tt.wy); got != tt.expected {
				t.Errorf("wheelMatches = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDoubleClickTracker(t *testing.T) {
	window := 300 * time.Millisecond
	base := time.Now()

	t.Run("two quick clicks", func(t *testing.T) {
		var tracker DoubleClickTracker
		if tracker.click(ebiten.MouseButtonLeft, base, window) {
			t.Error("first click reported a double click")
		}
		if !tracker.click(ebiten.MouseButtonLeft, base.Add(100*time.Millisecond), window) {
			t.Error("second click within the window was not a double click")
		}
		if tracker.click(ebiten.MouseButtonLeft, base.Add(150*time.Millisecond), window) {
			t.Error("third click started a new double click immediately")
		}
	})

	t.Run("slow clicks", func(t *testing.T) {
		var tracker DoubleClickTracker
		tracker.click(ebiten.MouseButtonLeft, base, window)
		if tracker.click(ebiten.MouseButtonLeft, base.Add(time.Second), window) {
			t.Error("clicks outside the window were a double click")
		}
	})

	t.Run("different buttons", func(t *testing.T) {
		var tracker DoubleClickTracker
		tracker.click(ebiten.MouseButtonLeft, base, window)
		if tracker.click(ebiten.MouseButtonRight, base.Add(50*time.Millisecond), window) {
			t.Error("left then right was a double click")
		}
	})
}

func TestKeybindingManagerDropsInvalid(t *testing.T) {
	km := NewKeybindingManager(map[string][]string{
		"exit": {"KeyQ", "KeyBogus"},
		"next": {"Ctrl+Space"},
	})

	if got := len(km.parsed["exit"]); got != 1 {
		t.Errorf("parsed exit bindings = %d, want 1", got)
	}
	if got := km.parsed["next"]; len(got) != 1 || !got[0].Ctrl || got[0].Key != ebiten.KeySpace {
		t.Errorf("parsed next bindings = %+v", got)
	}
	if !reflect.DeepEqual(km.GetKeybindings()["exit"], []string{"KeyQ", "KeyBogus"}) {
		t.Errorf("GetKeybindings should return the configured strings")
	}
}

func TestMousebindingManagerDefaults(t *testing.T) {
	mm := NewMousebindingManager(GetDefaultMousebindings(), GetDefaultMouseSettings())

	if got := len(mm.parsed["zoom_in_step"]); got != 1 {
		t.Errorf("parsed zoom_in_step bindings = %d, want 1", got)
	}
	if _, ok := mm.parsed["exit"]; ok {
		t.Error("exit has no mouse binding but was parsed")
	}
	if mm.GetSettings().DoubleClickTime != 300 {
		t.Errorf("DoubleClickTime = %d, want 300", mm.GetSettings().DoubleClickTime)
	}
}

func TestActionDefinitionsHaveExecutors(t *testing.T) {
	descriptions := GetActionDescriptions()
	for _, name := range actionNames() {
		if descriptions[name] == "" {
			t.Errorf("action %q has no description", name)
		}
	}
	if len(actionNames()) != len(descriptions) {
		t.Errorf("duplicate action names: %d names, %d descriptions", len(actionNames()), len(descriptions))
	}
}
