package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"imageroll/internal/app"
	"imageroll/internal/clipboard"
	"imageroll/internal/logger"
	"imageroll/internal/trash"
)

var (
	logLevel string
	logFile  string
	printDir string

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "imageroll [file]",
	Short: "View and edit the images of a directory",
	Long: `imageroll shows one image at a time and steps through the other images
in its directory. Images can be rotated, cropped and resized with undo and
redo, then saved, printed, copied or moved to the trash.

Without a subcommand the viewer window opens on the given file.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, ok := logger.ParseLevel(logLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", logLevel)
		}
		out, closeFn, err := logger.OpenOutput(logFile)
		if err != nil {
			return err
		}
		closeLog = closeFn
		logger.Init(level, out)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var start string
		if len(args) == 1 {
			start = args[0]
		}
		return runViewer(start)
	},
}

// runViewer opens the window and blocks until it is closed.
func runViewer(start string) error {
	configResult := loadConfig()
	config := configResult.Config
	for _, w := range configResult.Warnings {
		logger.Warnf("Config: %s", w)
	}

	if err := InitGraphics(); err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}

	opts := app.Options{
		Trash:          trash.New(),
		Printer:        newPagePrinter(printDir),
		ViewportWidth:  config.WindowWidth,
		ViewportHeight: config.WindowHeight,
		PreviewSize:    config.previewSize(),
		CacheSize:      config.CacheSize,
		SortMethod:     config.SortMethod,
		WatchDebounce:  config.watchDebounce(),
		PrintWidth:     config.PrintWidth,
		PrintHeight:    config.PrintHeight,
	}
	if clipboard.Unsupported() {
		logger.Warnf("Clipboard is not available, copy is disabled")
	} else {
		opts.Clipboard = clipboard.New()
	}

	g := NewGame(configResult, opts)
	defer g.app.Close()
	if start != "" {
		g.app.Post(app.OpenFile{Path: start})
	}

	ebiten.SetWindowTitle("imageroll")
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(config.Fullscreen)
	ebiten.SetScreenClearedEveryFrame(false)

	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	g.saveCurrentState()
	return nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.Flags().StringVar(&printDir, "print-dir", "", "directory receiving printed pages (default: temp dir)")
}

func main() {
	Execute()
}
