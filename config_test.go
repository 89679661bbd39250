package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"imageroll/internal/filelist"
	"imageroll/internal/imagelist"
	"imageroll/internal/preview"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".imageroll.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name           string
		configJSON     string
		expectedWidth  int
		expectedHeight int
		expectedSize   string
		expectedStep   int
		expectedCache  int
		expectedStatus string
	}{
		{
			name:           "Valid config",
			configJSON:     `{"window_width": 1000, "window_height": 800, "preview_size": "150%", "zoom_step": 25, "cache_size": 4}`,
			expectedWidth:  1000,
			expectedHeight: 800,
			expectedSize:   "150%",
			expectedStep:   25,
			expectedCache:  4,
			expectedStatus: "OK",
		},
		{
			name:           "Width too small",
			configJSON:     `{"window_width": 200, "window_height": 600}`,
			expectedWidth:  defaultWidth,
			expectedHeight: 600,
			expectedSize:   preview.FitScreenLabel,
			expectedStep:   defaultZoomStep,
			expectedCache:  imagelist.DefaultResidentImages,
			expectedStatus: "OK",
		},
		{
			name:           "Height too small",
			configJSON:     `{"window_width": 800, "window_height": 100}`,
			expectedWidth:  800,
			expectedHeight: defaultHeight,
			expectedSize:   preview.FitScreenLabel,
			expectedStep:   defaultZoomStep,
			expectedCache:  imagelist.DefaultResidentImages,
			expectedStatus: "OK",
		},
		{
			name:           "Invalid preview size",
			configJSON:     `{"window_width": 800, "window_height": 600, "preview_size": "huge"}`,
			expectedWidth:  800,
			expectedHeight: 600,
			expectedSize:   preview.FitScreenLabel,
			expectedStep:   defaultZoomStep,
			expectedCache:  imagelist.DefaultResidentImages,
			expectedStatus: "Warning",
		},
		{
			name:           "Out of range values",
			configJSON:     `{"window_width": 800, "window_height": 600, "zoom_step": 500, "cache_size": 1000}`,
			expectedWidth:  800,
			expectedHeight: 600,
			expectedSize:   preview.FitScreenLabel,
			expectedStep:   defaultZoomStep,
			expectedCache:  64,
			expectedStatus: "OK",
		},
		{
			name:           "Zero cache size",
			configJSON:     `{"window_width": 800, "window_height": 600, "cache_size": 0}`,
			expectedWidth:  800,
			expectedHeight: 600,
			expectedSize:   preview.FitScreenLabel,
			expectedStep:   defaultZoomStep,
			expectedCache:  imagelist.DefaultResidentImages,
			expectedStatus: "OK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.configJSON))
			config := result.Config

			if config.WindowWidth != tt.expectedWidth {
				t.Errorf("Expected width %d, got %d", tt.expectedWidth, config.WindowWidth)
			}
			if config.WindowHeight != tt.expectedHeight {
				t.Errorf("Expected height %d, got %d", tt.expectedHeight, config.WindowHeight)
			}
			if config.PreviewSize != tt.expectedSize {
				t.Errorf("Expected preview size %q, got %q", tt.expectedSize, config.PreviewSize)
			}
			if config.ZoomStep != tt.expectedStep {
				t.Errorf("Expected zoom step %d, got %d", tt.expectedStep, config.ZoomStep)
			}
			if config.CacheSize != tt.expectedCache {
				t.Errorf("Expected cache size %d, got %d", tt.expectedCache, config.CacheSize)
			}
			if result.Status != tt.expectedStatus {
				t.Errorf("Expected status %q, got %q (warnings %v)", tt.expectedStatus, result.Status, result.Warnings)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	result := loadConfigFromPath(filepath.Join(t.TempDir(), "nonexistent.json"))

	if result.Status != "Default" || result.HasError {
		t.Errorf("Expected Default status without error, got %q (error %v)", result.Status, result.HasError)
	}
	if !reflect.DeepEqual(result.Config, defaultConfig()) {
		t.Errorf("Default config mismatch.\nExpected: %+v\nGot: %+v", defaultConfig(), result.Config)
	}
	if result.Config.SortMethod != filelist.SortNatural {
		t.Errorf("Expected natural sort by default, got %d", result.Config.SortMethod)
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `{"window_width": `))

	if !result.HasError || result.Status != "Error" {
		t.Errorf("Expected Error status, got %q (error %v)", result.Status, result.HasError)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Expected one warning, got %v", result.Warnings)
	}
	if !reflect.DeepEqual(result.Config, defaultConfig()) {
		t.Errorf("Expected defaults after invalid JSON, got %+v", result.Config)
	}
}

func TestLoadConfigBindings(t *testing.T) {
	tests := []struct {
		name         string
		configJSON   string
		action       string
		expectedKeys []string
		expectWarn   bool
	}{
		{
			name:         "Custom binding kept",
			configJSON:   `{"keybindings": {"exit": ["KeyX"]}}`,
			action:       "exit",
			expectedKeys: []string{"KeyX"},
		},
		{
			name:         "Missing actions filled in",
			configJSON:   `{"keybindings": {"exit": ["KeyX"]}}`,
			action:       "next",
			expectedKeys: []string{"Space", "KeyN", "PageDown"},
		},
		{
			name:         "Unknown key falls back to defaults",
			configJSON:   `{"keybindings": {"exit": ["KeyBogus"]}}`,
			action:       "exit",
			expectedKeys: []string{"KeyQ", "Ctrl+KeyW"},
			expectWarn:   true,
		},
		{
			name:         "Conflict falls back to defaults",
			configJSON:   `{"keybindings": {"exit": ["KeyN"]}}`,
			action:       "exit",
			expectedKeys: []string{"KeyQ", "Ctrl+KeyW"},
			expectWarn:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfig(t, tt.configJSON))

			got := result.Config.Keybindings[tt.action]
			if !reflect.DeepEqual(got, tt.expectedKeys) {
				t.Errorf("Keybindings[%s] = %v, want %v", tt.action, got, tt.expectedKeys)
			}
			if (result.Status == "Warning") != tt.expectWarn {
				t.Errorf("Status = %q, expect warning %v", result.Status, tt.expectWarn)
			}
		})
	}
}

func TestLoadConfigMousebindings(t *testing.T) {
	result := loadConfigFromPath(writeConfig(t, `{"mousebindings": {"next": ["TripleClick"]}}`))

	if result.Status != "Warning" {
		t.Errorf("Expected Warning status, got %q", result.Status)
	}
	if !reflect.DeepEqual(result.Config.Mousebindings, GetDefaultMousebindings()) {
		t.Errorf("Expected default mouse bindings, got %v", result.Config.Mousebindings)
	}
}

func TestDefaultBindingsAreValid(t *testing.T) {
	if err := validateKeybindings(GetDefaultKeybindings()); err != nil {
		t.Errorf("default keybindings: %v", err)
	}
	if err := validateMousebindings(GetDefaultMousebindings()); err != nil {
		t.Errorf("default mouse bindings: %v", err)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config := defaultConfig()
	config.WindowWidth = 1024
	config.PreviewSize = "75%"
	config.Fullscreen = true
	saveConfigToPath(config, path)

	result := loadConfigFromPath(path)
	if result.Status != "OK" {
		t.Fatalf("Expected OK status, got %q (%v)", result.Status, result.Warnings)
	}
	if result.Config.WindowWidth != 1024 || result.Config.PreviewSize != "75%" || !result.Config.Fullscreen {
		t.Errorf("Saved settings not restored: %+v", result.Config)
	}
	if size := result.Config.previewSize(); size.String() != "75%" {
		t.Errorf("previewSize() = %s, want 75%%", size)
	}
}

func TestSaveConfigRejectsSmallWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config := defaultConfig()
	config.WindowWidth = 10
	saveConfigToPath(config, path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no config file, stat error %v", err)
	}
}
