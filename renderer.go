package main

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"imageroll/internal/app"
	"imageroll/internal/logger"
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorLightGray = color.RGBA{192, 192, 192, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}

	colorBackground = color.RGBA{32, 32, 32, 255}
	colorSelection  = color.RGBA{255, 255, 100, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
)

const helpPadding = 40.0

// Renderer handles all drawing operations
type Renderer struct {
	renderState RenderState
	fontSource  *text.GoTextFaceSource
}

// NewRenderer creates a new Renderer. InitGraphics must have succeeded.
func NewRenderer(renderState RenderState) *Renderer {
	if globalFontSource == nil {
		if err := InitGraphics(); err != nil {
			logger.Errorf("Error: Failed to load font: %v", err)
		}
	}
	return &Renderer{
		renderState: renderState,
		fontSource:  globalFontSource,
	}
}

func (r *Renderer) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: r.fontSource, Size: size}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	if img := r.renderState.GetPreviewImage(); img != nil {
		r.drawPreview(screen, img)
	}

	if r.fontSource == nil {
		return
	}

	if r.renderState.IsShowingInfo() {
		r.drawInfoDisplay(screen)
	}

	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	if r.renderState.IsInPromptMode() {
		r.drawPromptOverlay(screen)
	}

	if overlayActive(r.renderState) {
		r.drawOverlayMessage(screen)
	}
}

// overlayActive reports whether the last message should still be shown.
func overlayActive(state RenderState) bool {
	message, level := state.GetOverlayMessage()
	if message == "" {
		return false
	}
	duration := overlayMessageDuration
	if level == app.LevelError {
		duration = errorMessageDuration
	}
	return time.Since(state.GetOverlayMessageTime()) < duration
}

// previewOrigin returns where the top-left corner of an image of size iw x ih
// is drawn. Images smaller than the screen are centered on that axis; larger
// ones follow the pan offset, clamped so no gap opens at either edge.
func previewOrigin(screenW, screenH, iw, ih int, panX, panY float64) (float64, float64) {
	return originOnAxis(float64(screenW), float64(iw), panX), originOnAxis(float64(screenH), float64(ih), panY)
}

func originOnAxis(screen, size, pan float64) float64 {
	centered := screen/2 - size/2
	if size <= screen {
		return math.Floor(centered)
	}
	return math.Floor(math.Max(screen-size, math.Min(0, centered+pan)))
}

func (r *Renderer) drawPreview(screen, img *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	panX, panY := r.renderState.GetPanOffset()
	x, y := previewOrigin(w, h, img.Bounds().Dx(), img.Bounds().Dy(), panX, panY)

	// The preview is already scaled; draw it pixel for pixel.
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	screen.DrawImage(img, op)

	if sel, ok := r.renderState.GetSelection(); ok && !sel.Empty() {
		DrawFilledRect(screen, x+float64(sel.Min.X), y+float64(sel.Min.Y), float64(sel.Dx()), float64(sel.Dy()), color.RGBA{255, 255, 100, 40})
		DrawRectOutline(screen, x+float64(sel.Min.X), y+float64(sel.Min.Y), float64(sel.Dx()), float64(sel.Dy()), 1, colorSelection)
	}
}

// buildInfoString formats the info line: name, position, zoom and an
// unsaved marker.
func buildInfoString(name string, index, total int, zoom string, unsaved bool, cropMode bool) string {
	if total == 0 {
		return "No images"
	}
	if name == "" {
		name = "-"
	}
	var b strings.Builder
	if unsaved {
		b.WriteString("* ")
	}
	fmt.Fprintf(&b, "%s  %d / %d  %s", name, index, total, zoom)
	if cropMode {
		b.WriteString("  [crop]")
	}
	return b.String()
}

func (r *Renderer) drawInfoDisplay(screen *ebiten.Image) {
	infoFont := r.face(r.renderState.GetFontSize() * 0.8)

	index, total := r.renderState.GetPosition()
	infoText := buildInfoString(r.renderState.GetFileName(), index, total,
		r.renderState.GetZoomLabel(), r.renderState.HasUnsavedEdits(), r.renderState.IsCropMode())

	textWidth, textHeight := text.Measure(infoText, infoFont, 0)

	// Bottom right corner
	padding := 10.0
	textX := float64(screen.Bounds().Dx()) - textWidth - padding
	textY := float64(screen.Bounds().Dy()) - textHeight - padding

	bgPadding := 5.0
	DrawFilledRect(screen, textX-bgPadding, textY-bgPadding, textWidth+bgPadding*2, textHeight+bgPadding*2, bgColorLight)
	DrawText(screen, infoText, infoFont, textX, textY, colorWhite)
}

// helpRow is one line of the help table.
type helpRow struct {
	action      string
	keys        string
	mouse       string
	description string
}

// helpRows returns the rows of every action that has a binding, sorted by name.
func helpRows(keybindings, mousebindings map[string][]string) []helpRow {
	descriptions := GetActionDescriptions()

	actionSet := make(map[string]bool)
	for action := range keybindings {
		actionSet[action] = true
	}
	for action := range mousebindings {
		actionSet[action] = true
	}

	rows := make([]helpRow, 0, len(actionSet))
	for action := range actionSet {
		keys, mouse := keybindings[action], mousebindings[action]
		if len(keys) == 0 && len(mouse) == 0 {
			continue
		}
		description := descriptions[action]
		if description == "" {
			description = "No description available"
		}
		rows = append(rows, helpRow{
			action:      action,
			keys:        strings.Join(keys, ", "),
			mouse:       strings.Join(mouse, ", "),
			description: description,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].action < rows[j].action })
	return rows
}

func (row helpRow) input() string {
	switch {
	case row.keys != "" && row.mouse != "":
		return row.keys + " | " + row.mouse
	case row.keys != "":
		return row.keys
	default:
		return row.mouse
	}
}

// helpLayout holds measured column widths at one font size.
type helpLayout struct {
	actionWidth float64
	inputWidth  float64
	descWidth   float64
	width       float64
	height      float64
}

func (r *Renderer) measureHelp(rows []helpRow, warnings []string, fontSize float64) helpLayout {
	font := r.face(fontSize)
	lineHeight := fontSize * 1.5

	var l helpLayout
	for _, row := range rows {
		w, _ := text.Measure(row.action, font, 0)
		l.actionWidth = math.Max(l.actionWidth, w)
		w, _ = text.Measure(row.input(), font, 0)
		l.inputWidth = math.Max(l.inputWidth, w)
		w, _ = text.Measure(row.description, font, 0)
		l.descWidth = math.Max(l.descWidth, w)
	}

	// left margin + action + arrow + input + description + right margin
	l.width = 40 + l.actionWidth + 20 + 30 + l.inputWidth + 20 + l.descWidth + helpPadding*2
	for _, warning := range warnings {
		w, _ := text.Measure("• "+warning, font, 0)
		l.width = math.Max(l.width, w+helpPadding*2+80)
	}

	l.height = helpPadding*2 + fontSize*2 + lineHeight*1.5
	l.height += float64(len(rows)) * lineHeight
	l.height += lineHeight * 3 // system section
	l.height += float64(len(warnings)) * lineHeight
	return l
}

// shortWarnings returns at most two warnings, each cut to 50 characters.
func shortWarnings(warnings []string) []string {
	out := make([]string, 0, 2)
	for i, warning := range warnings {
		if i >= 2 {
			break
		}
		out = append(out, truncateText(warning, 50))
	}
	return out
}

// calculateOptimalFontSize finds the largest font size whose layout fits
func (r *Renderer) calculateOptimalFontSize(rows []helpRow, warnings []string, availableWidth, availableHeight float64) (float64, bool) {
	fits := func(size float64) bool {
		l := r.measureHelp(rows, warnings, size)
		return l.width <= availableWidth && l.height <= availableHeight
	}

	maxFontSize := r.renderState.GetFontSize()
	minFontSize := 12.0
	if !fits(minFontSize) {
		return minFontSize, false
	}
	if fits(maxFontSize) {
		return maxFontSize, true
	}

	low, high := minFontSize, maxFontSize
	for high-low > 0.5 {
		mid := (low + high) / 2
		if fits(mid) {
			low = mid
		} else {
			high = mid
		}
	}
	return low, true
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	rows := helpRows(r.renderState.GetKeybindings(), r.renderState.GetMousebindings())
	configStatus := r.renderState.GetConfigStatus()
	warnings := shortWarnings(configStatus.Warnings)

	fontSize, canFit := r.calculateOptimalFontSize(rows, warnings, w, h)
	if !canFit {
		r.drawMarginTooSmallMessage(screen)
		return
	}

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, helpPadding, helpPadding, w-helpPadding*2, h-helpPadding*2, bgColorMedium)

	helpFont := r.face(fontSize)
	layout := r.measureHelp(rows, warnings, fontSize)
	lineHeight := fontSize * 1.5

	y := helpPadding + 30
	DrawText(screen, "HELP:", helpFont, helpPadding+20, y, colorWhite)
	y += fontSize * 2
	DrawText(screen, "Controls (Keyboard | Mouse):", helpFont, helpPadding+20, y, colorWhite)
	y += lineHeight * 1.5

	actionX := helpPadding + 40
	arrowX := actionX + layout.actionWidth + 20
	inputX := arrowX + 30
	descX := inputX + layout.inputWidth + 20

	for _, row := range rows {
		DrawText(screen, row.action, helpFont, actionX, y, colorLightBlue)
		DrawText(screen, "→", helpFont, arrowX, y, colorWhite)

		x := inputX
		if row.keys != "" {
			DrawText(screen, row.keys, helpFont, x, y, colorYellow)
			kw, _ := text.Measure(row.keys, helpFont, 0)
			x += kw
		}
		if row.keys != "" && row.mouse != "" {
			DrawText(screen, " | ", helpFont, x, y, colorWhite)
			sw, _ := text.Measure(" | ", helpFont, 0)
			x += sw
		}
		if row.mouse != "" {
			DrawText(screen, row.mouse, helpFont, x, y, colorCyan)
		}

		DrawText(screen, row.description, helpFont, descX, y, colorGray)
		y += lineHeight
	}

	y += lineHeight
	DrawText(screen, "System:", helpFont, helpPadding+20, y, colorWhite)
	y += lineHeight

	statusColor := colorGreen
	if configStatus.Status == "Warning" || configStatus.Status == "Error" {
		statusColor = colorOrange
	}
	DrawText(screen, fmt.Sprintf("Config Status: %s", configStatus.Status), helpFont, helpPadding+40, y, statusColor)
	y += lineHeight

	for _, warning := range warnings {
		DrawText(screen, "• "+warning, helpFont, helpPadding+40, y, colorLightRed)
		y += lineHeight
	}
}

// drawMarginTooSmallMessage is shown when help cannot fit
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)

	font := r.face(16.0)
	message := "Hanc marginis exiguitas non caperet."
	subtitle := "(This margin is too small to contain it.)"

	messageWidth, messageHeight := text.Measure(message, font, 0)
	subtitleWidth, _ := text.Measure(subtitle, font, 0)

	messageY := h/2 - messageHeight/2
	DrawText(screen, message, font, w/2-messageWidth/2, messageY, colorWhite)
	DrawText(screen, subtitle, font, w/2-subtitleWidth/2, messageY+messageHeight+10, colorGray)
}

func (r *Renderer) drawPromptOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	inputFont := r.face(r.renderState.GetFontSize())
	hintFont := r.face(r.renderState.GetFontSize() * 0.8)

	inputText := fmt.Sprintf("%s: %s_", r.renderState.GetPromptKind().Label(), r.renderState.GetPromptBuffer())
	hintText := r.renderState.GetPromptHint()

	inputWidth, inputHeight := text.Measure(inputText, inputFont, 0)
	hintWidth, hintHeight := text.Measure(hintText, hintFont, 0)

	padding := 20.0
	boxWidth := math.Max(inputWidth, hintWidth) + padding*2
	boxHeight := inputHeight + hintHeight + 10 + padding*2
	boxX := (w - boxWidth) / 2
	boxY := (h - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)
	DrawText(screen, inputText, inputFont, boxX+(boxWidth-inputWidth)/2, boxY+padding, colorWhite)
	DrawText(screen, hintText, hintFont, boxX+(boxWidth-hintWidth)/2, boxY+padding+inputHeight+10, colorLightGray)
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	message, level := r.renderState.GetOverlayMessage()
	messageFont := r.face(r.renderState.GetFontSize())

	textWidth, textHeight := text.Measure(message, messageFont, 0)

	padding := 20.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxHeight) / 2

	textColor := colorWhite
	switch level {
	case app.LevelWarning:
		textColor = colorOrange
	case app.LevelError:
		textColor = colorLightRed
	}

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)
	DrawText(screen, message, messageFont, boxX+padding, boxY+padding, textColor)
}
