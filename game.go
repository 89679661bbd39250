package main

import (
	"errors"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"imageroll/internal/app"
	"imageroll/internal/operation"
	"imageroll/internal/preview"
)

// Game adapts the event dispatcher to ebiten. Update turns input into app
// events and drains the queue; Draw shows the resulting preview.
type Game struct {
	app          *app.App
	config       Config
	configStatus ConfigLoadResult

	inputHandler        *InputHandler
	renderer            *Renderer
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager

	previewImg     *ebiten.Image
	previewVersion uint64
	hasPreview     bool

	screenW, screenH int
	panX, panY       float64

	fullscreen bool
	savedWinW  int
	savedWinH  int
	quit       bool

	showHelp bool
	showInfo bool

	promptKind   PromptKind
	promptBuffer string

	overlayMessage     string
	overlayLevel       app.MessageLevel
	overlayMessageTime time.Time

	lastSnapshot renderSnapshot
	drawn        bool
}

// NewGame builds the dispatcher from opts and the viewer around it. The game
// receives the dispatcher's messages.
func NewGame(configStatus ConfigLoadResult, opts app.Options) *Game {
	g := &Game{
		config:       configStatus.Config,
		configStatus: configStatus,
		fullscreen:   configStatus.Config.Fullscreen,
		showInfo:     true,
	}
	opts.Notifier = g
	g.app = app.New(opts)
	g.keybindingManager = NewKeybindingManager(g.config.Keybindings)
	g.mousebindingManager = NewMousebindingManager(g.config.Mousebindings, g.config.MouseSettings)
	g.inputHandler = NewInputHandler(g, g, g.keybindingManager, g.mousebindingManager)
	g.renderer = NewRenderer(g)
	return g
}

// Notify implements app.Notifier by showing msg as an overlay.
func (g *Game) Notify(msg app.Message) {
	g.overlayMessage = msg.Text
	g.overlayLevel = msg.Level
	g.overlayMessageTime = time.Now()
}

func (g *Game) Update() error {
	g.inputHandler.HandleInput()
	g.app.ProcessPending()
	g.syncPreview()

	if g.quit {
		return ebiten.Termination
	}
	return nil
}

// syncPreview uploads the preview buffer when the dispatcher produced a new one.
func (g *Game) syncPreview() {
	version := g.app.PreviewVersion()
	if g.hasPreview && version == g.previewVersion {
		return
	}
	g.previewVersion = version
	g.hasPreview = true

	if g.previewImg != nil {
		g.previewImg.Deallocate()
		g.previewImg = nil
	}

	if buf := g.app.PreviewImage(); buf != nil {
		g.previewImg = ebiten.NewImageFromImage(buf)
	} else if msg, ok := g.app.LastMessage(); ok && msg.Level == app.LevelError {
		if path, ok := g.app.CurrentFile(); ok {
			g.previewImg = CreateErrorImage(0, 0, path, msg.Text)
		}
	}
	g.clampPan()
	debugLog("Preview updated (version %d)", version)
}

func (g *Game) snapshot() renderSnapshot {
	sel, _ := g.GetSelection()
	text, _ := g.GetOverlayMessage()
	return renderSnapshot{
		previewVersion: g.previewVersion,
		screenW:        g.screenW,
		screenH:        g.screenH,
		panX:           g.panX,
		panY:           g.panY,
		selection:      sel,
		cropMode:       g.app.CropMode(),
		help:           g.showHelp,
		info:           g.showInfo,
		prompt:         g.promptKind,
		promptBuffer:   g.promptBuffer,
		overlayText:    text,
		overlayActive:  overlayActive(g),
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	snapshot := g.snapshot()
	if g.drawn && snapshot == g.lastSnapshot {
		return
	}
	g.renderer.Draw(screen)
	g.lastSnapshot = snapshot
	g.drawn = true
}

// Layout reports the window size to the dispatcher as the viewport.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.screenW || outsideHeight != g.screenH {
		g.screenW, g.screenH = outsideWidth, outsideHeight
		g.app.Post(app.ImageViewportResize{Width: outsideWidth, Height: outsideHeight})
	}
	return outsideWidth, outsideHeight
}

// saveCurrentState writes window and preview settings back to the config.
func (g *Game) saveCurrentState() {
	if g.fullscreen {
		if g.savedWinW > 0 && g.savedWinH > 0 {
			g.config.WindowWidth = g.savedWinW
			g.config.WindowHeight = g.savedWinH
		}
	} else {
		g.config.WindowWidth, g.config.WindowHeight = ebiten.WindowSize()
	}
	g.config.Fullscreen = g.fullscreen
	g.config.PreviewSize = g.app.PreviewSize().String()
	saveConfig(g.config)
}

func (g *Game) post(e app.Event) {
	g.app.Post(e)
}

// InputActions

func (g *Game) Exit() {
	g.quit = true
}

func (g *Game) Cancel() {
	switch {
	case g.showHelp:
		g.showHelp = false
	case g.app.CropMode():
		g.post(app.ToggleCrop{})
	}
}

func (g *Game) ToggleHelp() {
	g.showHelp = !g.showHelp
}

func (g *Game) ToggleInfo() {
	g.showInfo = !g.showInfo
}

func (g *Game) ToggleFullscreen() {
	g.fullscreen = !g.fullscreen
	if g.fullscreen {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
		return
	}
	ebiten.SetFullscreen(false)
	if g.savedWinW > 0 && g.savedWinH > 0 {
		ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
	}
}

func (g *Game) EnterPromptMode(kind PromptKind) {
	if !g.app.Controls().Edit {
		return
	}
	g.promptKind = kind
	g.promptBuffer = ""
	if kind == PromptSaveAs {
		if path, ok := g.app.CurrentPath(); ok {
			g.promptBuffer = filepath.Base(path)
		}
	}
}

func (g *Game) ExitPromptMode() {
	g.promptKind = PromptNone
	g.promptBuffer = ""
}

func (g *Game) UpdatePromptBuffer(buffer string) {
	g.promptBuffer = buffer
}

// SubmitPrompt acts on the prompt buffer and leaves prompt mode.
func (g *Game) SubmitPrompt() {
	kind, input := g.promptKind, g.promptBuffer
	g.ExitPromptMode()

	switch kind {
	case PromptResize:
		op, err := app.ParseResize(g.app.CurrentImage(), input)
		if err != nil {
			g.ShowOverlayMessage(fmt.Sprintf("Invalid size: %v", err))
			return
		}
		g.post(app.ImageEdit{Op: op})
	case PromptSaveAs:
		path, err := g.resolveSavePath(input)
		if err != nil {
			g.ShowOverlayMessage(err.Error())
			return
		}
		g.post(app.SaveCurrentImage{Path: path})
	}
}

// resolveSavePath makes a relative save-as path relative to the current file.
func (g *Game) resolveSavePath(input string) (string, error) {
	if input == "" {
		return "", errors.New("No file name given")
	}
	if filepath.IsAbs(input) {
		return input, nil
	}
	current, ok := g.app.CurrentPath()
	if !ok {
		return "", errors.New("No current image")
	}
	return filepath.Join(filepath.Dir(current), input), nil
}

func (g *Game) NavigateNext() {
	if !g.app.Controls().Navigate {
		return
	}
	g.resetView()
	g.post(app.NextImage{})
}

func (g *Game) NavigatePrevious() {
	if !g.app.Controls().Navigate {
		return
	}
	g.resetView()
	g.post(app.PreviousImage{})
}

func (g *Game) Reload() {
	if path, ok := g.app.CurrentFile(); ok {
		g.post(app.LoadImage{Path: path, Reload: true})
	}
}

func (g *Game) resetView() {
	g.panX, g.panY = 0, 0
}

func (g *Game) ZoomIn() {
	if g.app.Controls().Larger {
		g.post(app.PreviewLarger{})
	}
}

func (g *Game) ZoomOut() {
	if g.app.Controls().Smaller {
		g.post(app.PreviewSmaller{})
	}
}

func (g *Game) ZoomInStep() {
	if g.app.Controls().Larger {
		g.post(app.PreviewLarger{By: g.config.ZoomStep})
	}
}

func (g *Game) ZoomOutStep() {
	if g.app.Controls().Smaller {
		g.post(app.PreviewSmaller{By: g.config.ZoomStep})
	}
}

func (g *Game) ZoomReset() {
	g.post(app.ChangePreviewSize{Size: preview.Original()})
}

func (g *Game) ZoomFit() {
	g.resetView()
	g.post(app.PreviewFitScreen{})
}

func (g *Game) PanByDelta(deltaX, deltaY float64) {
	g.panX += deltaX
	g.panY += deltaY
	g.clampPan()
}

// clampPan keeps the pan offset within the part of the preview that can
// actually scroll.
func (g *Game) clampPan() {
	if g.previewImg == nil {
		g.panX, g.panY = 0, 0
		return
	}
	limitX := math.Max(0, float64(g.previewImg.Bounds().Dx()-g.screenW)/2)
	limitY := math.Max(0, float64(g.previewImg.Bounds().Dy()-g.screenH)/2)
	g.panX = math.Max(-limitX, math.Min(limitX, g.panX))
	g.panY = math.Max(-limitY, math.Min(limitY, g.panY))
}

func (g *Game) StartZoomGesture() {
	g.post(app.StartZoomGesture{})
}

func (g *Game) ChangeZoomGesture(scale float64) {
	g.post(app.ZoomGestureScaleChanged{Scale: scale})
}

func (g *Game) RotateLeft() {
	if g.app.Controls().Edit {
		g.post(app.ImageEdit{Op: operation.Rotate(operation.Counterclockwise)})
	}
}

func (g *Game) RotateRight() {
	if g.app.Controls().Edit {
		g.post(app.ImageEdit{Op: operation.Rotate(operation.Clockwise)})
	}
}

func (g *Game) ToggleCrop() {
	g.post(app.ToggleCrop{})
}

// screenToPreview converts a window position into preview coordinates.
func (g *Game) screenToPreview(x, y int) image.Point {
	if g.previewImg == nil {
		return image.Pt(-1, -1)
	}
	b := g.previewImg.Bounds()
	ox, oy := previewOrigin(g.screenW, g.screenH, b.Dx(), b.Dy(), g.panX, g.panY)
	return image.Pt(x-int(ox), y-int(oy))
}

func (g *Game) StartSelection(screenX, screenY int) {
	g.post(app.StartSelection{Pos: g.screenToPreview(screenX, screenY)})
}

func (g *Game) DragSelection(screenX, screenY int) {
	g.post(app.DragSelection{Pos: g.screenToPreview(screenX, screenY)})
}

func (g *Game) EndSelection() {
	g.post(app.EndSelection{})
}

func (g *Game) Undo() {
	if g.app.Controls().Undo {
		g.post(app.UndoOperation{})
	}
}

func (g *Game) Redo() {
	if g.app.Controls().Redo {
		g.post(app.RedoOperation{})
	}
}

func (g *Game) Save() {
	if g.app.Controls().Save {
		g.post(app.SaveCurrentImage{})
	}
}

func (g *Game) Delete() {
	if g.app.Controls().Edit {
		g.post(app.DeleteCurrentImage{})
	}
}

func (g *Game) Print() {
	if g.app.Controls().Edit {
		g.post(app.Print{})
	}
}

func (g *Game) Copy() {
	if g.app.Controls().Edit {
		g.post(app.CopyCurrentImage{})
	}
}

func (g *Game) ShowOverlayMessage(message string) {
	g.Notify(app.Message{Text: message, Level: app.LevelWarning})
}

func (g *Game) GetTotalPagesCount() int {
	_, total := g.app.Position()
	return total
}

// InputState and RenderState

func (g *Game) IsInPromptMode() bool {
	return g.promptKind != PromptNone
}

func (g *Game) GetPromptKind() PromptKind {
	return g.promptKind
}

func (g *Game) GetPromptBuffer() string {
	return g.promptBuffer
}

func (g *Game) GetPromptHint() string {
	switch g.promptKind {
	case PromptResize:
		if img := g.app.CurrentImage(); img != nil {
			if w, h, ok := img.Size(); ok {
				return fmt.Sprintf("W, xH or WxH (now %dx%d)", w, h)
			}
		}
		return "W, xH or WxH"
	case PromptSaveAs:
		return "Relative to the current directory"
	default:
		return ""
	}
}

func (g *Game) IsCropMode() bool {
	return g.app.CropMode()
}

func (g *Game) CanPan() bool {
	if g.previewImg == nil {
		return false
	}
	b := g.previewImg.Bounds()
	return b.Dx() > g.screenW || b.Dy() > g.screenH
}

func (g *Game) GetPreviewImage() *ebiten.Image {
	return g.previewImg
}

func (g *Game) GetPanOffset() (float64, float64) {
	return g.panX, g.panY
}

func (g *Game) GetSelection() (image.Rectangle, bool) {
	sel, ok := g.app.Selection()
	if !ok {
		return image.Rectangle{}, false
	}
	return sel.Rect(), true
}

func (g *Game) IsFullscreen() bool {
	return g.fullscreen
}

func (g *Game) IsShowingHelp() bool {
	return g.showHelp
}

func (g *Game) IsShowingInfo() bool {
	return g.showInfo
}

func (g *Game) GetOverlayMessage() (string, app.MessageLevel) {
	return g.overlayMessage, g.overlayLevel
}

func (g *Game) GetOverlayMessageTime() time.Time {
	return g.overlayMessageTime
}

func (g *Game) GetFileName() string {
	if path, ok := g.app.CurrentFile(); ok {
		return filepath.Base(path)
	}
	return ""
}

func (g *Game) GetPosition() (int, int) {
	return g.app.Position()
}

func (g *Game) GetZoomLabel() string {
	return g.app.PreviewSize().String()
}

func (g *Game) HasUnsavedEdits() bool {
	return g.app.Controls().Save
}

func (g *Game) GetFontSize() float64 {
	return g.config.HelpFontSize
}

func (g *Game) GetConfigStatus() ConfigLoadResult {
	return g.configStatus
}

func (g *Game) GetKeybindings() map[string][]string {
	return g.keybindingManager.GetKeybindings()
}

func (g *Game) GetMousebindings() map[string][]string {
	return g.mousebindingManager.GetMousebindings()
}
