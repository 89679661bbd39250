package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"imageroll/internal/filelist"
	"imageroll/internal/imagelist"
	"imageroll/internal/logger"
	"imageroll/internal/preview"
)

// Window size constants
const (
	defaultWidth  = 800
	defaultHeight = 600
	minWidth      = 400
	minHeight     = 300
)

// Defaults for the remaining settings
const (
	defaultZoomStep        = 10
	defaultWatchDebounceMs = 200
	defaultPrintWidth      = 1240 // A4 at 150 dpi
	defaultPrintHeight     = 1754
	defaultHelpFontSize    = 20.0
)

// validateKeybindings validates the keybindings configuration
func validateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)

	for action, keys := range keybindings {
		for _, keyStr := range keys {
			if _, ok := parseKeyString(keyStr); !ok {
				return fmt.Errorf("invalid key '%s' for action '%s'", keyStr, action)
			}

			if existingAction, exists := keyToAction[keyStr]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}

	return nil
}

// validateMousebindings validates the mouse bindings configuration
func validateMousebindings(mousebindings map[string][]string) error {
	seen := make(map[string]string)

	for action, bindings := range mousebindings {
		for _, mouseStr := range bindings {
			if _, ok := parseMouseString(mouseStr); !ok {
				return fmt.Errorf("invalid mouse action '%s' for action '%s'", mouseStr, action)
			}

			if existingAction, exists := seen[mouseStr]; exists {
				return fmt.Errorf("mouse conflict: '%s' is bound to both '%s' and '%s'", mouseStr, existingAction, action)
			}
			seen[mouseStr] = action
		}
	}

	return nil
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth     int                 `json:"window_width"`
	WindowHeight    int                 `json:"window_height"`
	Fullscreen      bool                `json:"fullscreen"`
	PreviewSize     string              `json:"preview_size"`
	SortMethod      int                 `json:"sort_method"`
	CacheSize       int                 `json:"cache_size"`
	ZoomStep        int                 `json:"zoom_step"`
	WatchDebounceMs int                 `json:"watch_debounce_ms"`
	PrintWidth      int                 `json:"print_width"`
	PrintHeight     int                 `json:"print_height"`
	HelpFontSize    float64             `json:"help_font_size"`
	Keybindings     map[string][]string `json:"keybindings"`
	Mousebindings   map[string][]string `json:"mousebindings"`
	MouseSettings   MouseSettings       `json:"mouse_settings"`
}

func defaultConfig() Config {
	return Config{
		WindowWidth:     defaultWidth,
		WindowHeight:    defaultHeight,
		PreviewSize:     preview.FitScreenLabel,
		SortMethod:      filelist.SortNatural,
		CacheSize:       imagelist.DefaultResidentImages,
		ZoomStep:        defaultZoomStep,
		WatchDebounceMs: defaultWatchDebounceMs,
		PrintWidth:      defaultPrintWidth,
		PrintHeight:     defaultPrintHeight,
		HelpFontSize:    defaultHelpFontSize,
		Keybindings:     GetDefaultKeybindings(),
		Mousebindings:   GetDefaultMousebindings(),
		MouseSettings:   GetDefaultMouseSettings(),
	}
}

// previewSize returns the configured preview mode.
func (c Config) previewSize() preview.Size {
	size, err := preview.Parse(c.PreviewSize)
	if err != nil {
		return preview.Fit(0, 0)
	}
	return size
}

func (c Config) watchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMs) * time.Millisecond
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "imageroll.json"
	}
	return filepath.Join(homeDir, ".imageroll.json")
}

func loadConfig() ConfigLoadResult {
	return loadConfigFromPath(getConfigPath())
}

func clampInt(v, lo, hi, fallback int) int {
	if v < lo || v > hi {
		return fallback
	}
	return v
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := defaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		logger.Warnf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	if _, err := preview.Parse(config.PreviewSize); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid preview size %q", config.PreviewSize))
		config.PreviewSize = preview.FitScreenLabel
	}

	config.SortMethod = clampInt(config.SortMethod, filelist.SortNatural, len(filelist.GetAllSortStrategies())-1, filelist.SortNatural)

	// Cache size (minimum 1, maximum 64)
	if config.CacheSize < 1 {
		config.CacheSize = imagelist.DefaultResidentImages
	} else if config.CacheSize > 64 {
		config.CacheSize = 64
	}

	config.ZoomStep = clampInt(config.ZoomStep, 1, 100, defaultZoomStep)
	config.WatchDebounceMs = clampInt(config.WatchDebounceMs, 0, 5000, defaultWatchDebounceMs)

	if config.PrintWidth <= 0 || config.PrintHeight <= 0 {
		config.PrintWidth, config.PrintHeight = defaultPrintWidth, defaultPrintHeight
	}

	// Minimum 12px for readability
	if config.HelpFontSize <= 12.0 {
		config.HelpFontSize = defaultHelpFontSize
	}

	if config.MouseSettings.DoubleClickTime <= 0 || config.MouseSettings.WheelSensitivity <= 0 {
		config.MouseSettings = GetDefaultMouseSettings()
	}

	// Fill in missing bindings with defaults, then validate the result
	if config.Keybindings == nil {
		config.Keybindings = GetDefaultKeybindings()
	} else {
		for action, defaultKeys := range GetDefaultKeybindings() {
			if _, exists := config.Keybindings[action]; !exists {
				config.Keybindings[action] = defaultKeys
			}
		}
		if err := validateKeybindings(config.Keybindings); err != nil {
			logger.Warnf("Warning: Invalid keybindings detected, using defaults: %v", err)
			config.Keybindings = GetDefaultKeybindings()
			result.Warnings = append(result.Warnings, fmt.Sprintf("Keybinding errors: %v", err))
		}
	}

	if config.Mousebindings == nil {
		config.Mousebindings = GetDefaultMousebindings()
	} else {
		for action, defaultMouse := range GetDefaultMousebindings() {
			if _, exists := config.Mousebindings[action]; !exists {
				config.Mousebindings[action] = defaultMouse
			}
		}
		if err := validateMousebindings(config.Mousebindings); err != nil {
			logger.Warnf("Warning: Invalid mouse bindings detected, using defaults: %v", err)
			config.Mousebindings = GetDefaultMousebindings()
			result.Warnings = append(result.Warnings, fmt.Sprintf("Mouse binding errors: %v", err))
		}
	}

	if len(result.Warnings) > 0 {
		result.Status = "Warning"
	}
	result.Config = config
	return result
}

func saveConfig(config Config) {
	saveConfigToPath(config, getConfigPath())
}

func saveConfigToPath(config Config, configPath string) {
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		logger.Warnf("Warning: Not saving config with invalid window size: %dx%d",
			config.WindowWidth, config.WindowHeight)
		return
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		logger.Errorf("Error: Failed to marshal config: %v", err)
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		logger.Errorf("Error: Failed to save config to %s: %v", configPath, err)
	}
}
