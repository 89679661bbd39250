// Package app owns the image list, the file list and the preview state, and
// mutates them in response to queued events. All handling happens on the
// goroutine that calls ProcessPending; other goroutines only Post.
package app

import (
	"fmt"
	"image"
	"path/filepath"
	"time"

	"imageroll/internal/filelist"
	"imageroll/internal/imagelist"
	"imageroll/internal/logger"
	"imageroll/internal/operation"
	"imageroll/internal/photo"
	"imageroll/internal/preview"
)

const queueSize = 256

// MessageLevel classifies user-facing messages.
type MessageLevel int

const (
	LevelInfo MessageLevel = iota
	LevelWarning
	LevelError
)

func (l MessageLevel) String() string {
	switch l {
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	default:
		return "Info"
	}
}

// Message is text shown to the user.
type Message struct {
	Text  string
	Level MessageLevel
}

// Notifier shows messages to the user.
type Notifier interface {
	Notify(msg Message)
}

// Printer receives a buffer already fitted into the page canvas.
type Printer interface {
	Print(img image.Image, canvasWidth, canvasHeight int) error
}

// Controls says which user actions currently make sense.
type Controls struct {
	Navigate bool
	Undo     bool
	Redo     bool
	Save     bool
	Edit     bool
	Smaller  bool
	Larger   bool
}

// Options configures an App. Zero values pick sensible defaults.
type Options struct {
	Trash     imagelist.Trasher
	Clipboard imagelist.ClipboardSink
	Printer   Printer
	Notifier  Notifier

	ViewportWidth  int
	ViewportHeight int
	PreviewSize    preview.Size

	CacheSize     int
	SortMethod    int
	WatchDebounce time.Duration
	// DisableWatch refreshes the file list only after own saves and deletes.
	DisableWatch bool

	PrintWidth  int
	PrintHeight int
}

// Selection is a rectangle being dragged in preview coordinates.
type Selection struct {
	Start image.Point
	End   image.Point
}

// Rect returns the selection normalized to a rectangle.
func (s Selection) Rect() image.Rectangle {
	return image.Rect(s.Start.X, s.Start.Y, s.End.X, s.End.Y).Canon()
}

// App is the event dispatcher.
type App struct {
	opts   Options
	events chan Event

	images *imagelist.ImageList
	files  *filelist.FileList

	size           preview.Size
	sizeBeforeZoom *preview.Size
	viewportW      int
	viewportH      int

	cropMode  bool
	selection *Selection

	previewVersion uint64
	controls       Controls
	lastMessage    *Message
}

// New creates an App with an empty file list.
func New(opts Options) *App {
	if opts.PrintWidth <= 0 || opts.PrintHeight <= 0 {
		opts.PrintWidth, opts.PrintHeight = 1240, 1754
	}
	files, _ := filelist.New("", filelist.GetSortStrategy(opts.SortMethod))
	a := &App{
		opts:      opts,
		events:    make(chan Event, queueSize),
		images:    imagelist.New(opts.CacheSize),
		files:     files,
		size:      opts.PreviewSize,
		viewportW: opts.ViewportWidth,
		viewportH: opts.ViewportHeight,
	}
	a.size = a.size.WithViewport(a.viewportW, a.viewportH)
	a.updateControls()
	return a
}

// Post queues e. It never blocks; when the queue is full the event is
// dropped and false is returned.
func (a *App) Post(e Event) bool {
	select {
	case a.events <- e:
		return true
	default:
		logger.Warnf("Event queue full, dropping %s", e.eventName())
		return false
	}
}

// ProcessPending handles queued events, including those posted while
// handling, until the queue is empty. It returns the number handled.
func (a *App) ProcessPending() int {
	n := 0
	for {
		select {
		case e := <-a.events:
			a.handle(e)
			n++
		default:
			return n
		}
	}
}

// Close stops watching the current directory.
func (a *App) Close() error {
	return a.files.Close()
}

func (a *App) handle(e Event) {
	logger.Debugf("Handling %s", e.eventName())

	switch e := e.(type) {
	case OpenFile:
		a.openFile(e.Path)
	case LoadImage:
		a.loadImage(e.Path, e.Reload)
	case DisplayMessage:
		a.displayMessage(e.Message)
	case ImageViewportResize:
		a.viewportResize(e.Width, e.Height)
	case RefreshPreview:
		a.refreshPreview(e.Size)
	case ChangePreviewSize:
		a.changePreviewSize(e.Size)
	case ImageEdit:
		a.imageEdit(e.Op)
	case ToggleCrop:
		a.toggleCrop()
	case StartSelection:
		a.startSelection(e.Pos)
	case DragSelection:
		a.dragSelection(e.Pos)
	case EndSelection:
		a.endSelection()
	case PreviewSmaller:
		if e.By > 0 {
			a.stepPreview(a.size.SmallerBy(e.By))
		} else {
			a.stepPreview(a.size.Smaller())
		}
	case PreviewLarger:
		if e.By > 0 {
			a.stepPreview(a.size.LargerBy(e.By))
		} else {
			a.stepPreview(a.size.Larger())
		}
	case PreviewFitScreen:
		a.Post(ChangePreviewSize{Size: preview.Fit(0, 0)})
	case NextImage:
		a.files.Next()
		a.postLoadCurrent(false)
	case PreviousImage:
		a.files.Previous()
		a.postLoadCurrent(false)
	case RefreshFileList:
		a.refreshFileList()
	case SaveCurrentImage:
		a.saveCurrentImage(e.Path)
	case DeleteCurrentImage:
		a.deleteCurrentImage()
	case UndoOperation:
		if img := a.images.CurrentImage(); img != nil {
			img.UndoOperation()
			a.Post(RefreshPreview{Size: a.size})
		}
	case RedoOperation:
		if img := a.images.CurrentImage(); img != nil {
			img.RedoOperation()
			a.Post(RefreshPreview{Size: a.size})
		}
	case Print:
		a.print()
	case CopyCurrentImage:
		a.copyCurrentImage()
	case StartZoomGesture:
		s := a.size
		a.sizeBeforeZoom = &s
	case ZoomGestureScaleChanged:
		if a.sizeBeforeZoom != nil {
			a.Post(ChangePreviewSize{Size: a.sizeBeforeZoom.Scaled(e.Scale)})
		}
	default:
		logger.Debugf("Discarded unknown event %T", e)
	}

	a.updateControls()
}

func (a *App) errorf(format string, args ...interface{}) {
	a.Post(DisplayMessage{Message: Message{Text: fmt.Sprintf(format, args...), Level: LevelError}})
}

func (a *App) infof(format string, args ...interface{}) {
	a.Post(DisplayMessage{Message: Message{Text: fmt.Sprintf(format, args...), Level: LevelInfo}})
}

func (a *App) openFile(path string) {
	files, err := filelist.New(path, filelist.GetSortStrategy(a.opts.SortMethod))
	if err != nil {
		a.errorf("%v", err)
		return
	}

	if err := a.files.Close(); err != nil {
		logger.Warnf("Closing previous watch failed: %v", err)
	}
	a.files = files
	a.images = imagelist.New(a.opts.CacheSize)
	a.cropMode = false
	a.selection = nil

	if !a.opts.DisableWatch {
		if err := files.Watch(a.opts.WatchDebounce, func() { a.Post(RefreshFileList{}) }); err != nil {
			logger.Warnf("Cannot watch %s: %v", files.Dir(), err)
		}
	}
	a.postLoadCurrent(false)
}

// postLoadCurrent loads the selected file. With reload a cached entity is
// decoded again, since the file may have changed on disk.
func (a *App) postLoadCurrent(reload bool) {
	path, _ := a.files.CurrentFilePath()
	a.Post(LoadImage{Path: path, Reload: reload})
}

func (a *App) loadImage(path string, reload bool) {
	a.selection = nil
	if path == "" {
		a.images.SetCurrentPath("")
		a.Post(RefreshPreview{Size: a.size})
		return
	}

	img, cached := a.images.Get(path)
	var err error
	switch {
	case cached && img.HasBuffers() && !reload:
		logger.Debugf("Using cached buffers of %s", filepath.Base(path))
	case cached:
		err = img.Reload(path)
		if err != nil {
			img.RemoveImageBuffers()
		}
	default:
		img, err = photo.Load(path)
	}
	if err != nil {
		a.images.SetCurrentPath("")
		a.Post(RefreshPreview{Size: a.size})
		a.errorf("%v", err)
		return
	}

	a.images.SetCurrentPath(path)
	a.images.Insert(path, img)
	if a.size.Mode == preview.BestFit && a.size.Width == 0 && a.size.Height == 0 {
		a.size = preview.Fit(a.viewportW, a.viewportH)
	}
	a.Post(RefreshPreview{Size: a.size})
}

func (a *App) displayMessage(msg Message) {
	switch msg.Level {
	case LevelError:
		logger.Errorf("%s", msg.Text)
	case LevelWarning:
		logger.Warnf("%s", msg.Text)
	default:
		logger.Infof("%s", msg.Text)
	}
	a.lastMessage = &msg
	if a.opts.Notifier != nil {
		a.opts.Notifier.Notify(msg)
	}
}

func (a *App) viewportResize(w, h int) {
	a.viewportW, a.viewportH = w, h
	if a.size.Mode == preview.BestFit {
		a.size = preview.Fit(w, h)
		a.Post(RefreshPreview{Size: a.size})
	}
}

func (a *App) refreshPreview(size preview.Size) {
	if img := a.images.CurrentImage(); img != nil && img.HasBuffers() {
		img.CreatePreviewBuffer(size)
	}
	a.previewVersion++
}

func (a *App) changePreviewSize(size preview.Size) {
	if size.Mode == preview.BestFit {
		size = preview.Fit(a.viewportW, a.viewportH)
	}
	a.size = size
	a.selection = nil
	a.Post(RefreshPreview{Size: size})
}

func (a *App) stepPreview(size preview.Size, ok bool) {
	if ok {
		a.Post(ChangePreviewSize{Size: size})
	}
}

func (a *App) imageEdit(op operation.Operation) {
	img := a.images.CurrentImage()
	if img == nil {
		return
	}
	if !img.ApplyOperation(op) {
		logger.Debugf("Operation %s cannot be applied", op)
	}
	a.Post(RefreshPreview{Size: a.size})
}

func (a *App) toggleCrop() {
	a.selection = nil
	if a.images.CurrentImage() == nil {
		a.cropMode = false
		return
	}
	a.cropMode = !a.cropMode
}

func (a *App) startSelection(p image.Point) {
	if !a.cropMode || a.images.CurrentImage() == nil {
		return
	}
	a.selection = &Selection{Start: p, End: p}
}

func (a *App) dragSelection(p image.Point) {
	if !a.cropMode || a.selection == nil {
		return
	}
	img := a.images.CurrentImage()
	if img == nil {
		return
	}
	w, h, ok := img.PreviewSize()
	if !ok || p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h {
		return
	}
	a.selection.End = p
}

func (a *App) endSelection() {
	if !a.cropMode {
		return
	}
	sel := a.selection
	a.selection = nil
	if sel == nil {
		return
	}
	img := a.images.CurrentImage()
	if img == nil {
		return
	}
	if start, end, ok := img.PreviewCoordsToImageCoords(sel.Start, sel.End); ok {
		a.Post(ImageEdit{Op: operation.Crop(start, end)})
	}
	a.cropMode = false
}

func (a *App) refreshFileList() {
	if err := a.files.Refresh(); err != nil {
		a.errorf("%v", err)
		return
	}
	a.postLoadCurrent(true)
}

func (a *App) saveCurrentImage(path string) {
	if err := a.images.SaveCurrentImage(path); err != nil {
		a.errorf("%v", err)
		return
	}
	if path != "" {
		a.infof("Image saved as %s", filepath.Base(path))
	}
	if !a.files.IsWatched() {
		a.refreshFileList()
	}
}

func (a *App) deleteCurrentImage() {
	if a.opts.Trash == nil {
		a.errorf("Deleting is not available")
		return
	}
	name, err := a.images.DeleteCurrentImage(a.opts.Trash)
	if err != nil {
		a.errorf("%v", err)
		return
	}
	a.infof("Image %s was moved to trash", name)
	a.Post(RefreshPreview{Size: a.size})
	if !a.files.IsWatched() {
		a.refreshFileList()
	}
}

func (a *App) print() {
	img := a.images.CurrentImage()
	if img == nil || a.opts.Printer == nil {
		return
	}
	buf := img.CreatePrintBuffer(a.opts.PrintWidth, a.opts.PrintHeight)
	if buf == nil {
		return
	}
	if err := a.opts.Printer.Print(buf, a.opts.PrintWidth, a.opts.PrintHeight); err != nil {
		a.errorf("Couldn't print current image: %v", err)
	}
}

func (a *App) copyCurrentImage() {
	if a.opts.Clipboard == nil {
		a.errorf("Clipboard is not available")
		return
	}
	if err := a.images.CopyCurrentImage(a.opts.Clipboard); err != nil {
		a.errorf("Couldn't copy current image: %v", err)
		return
	}
	a.infof("Image copied to clipboard")
}

func (a *App) updateControls() {
	c := Controls{
		Navigate: a.files.Len() > 1,
		Smaller:  a.size.CanBeSmaller(),
		Larger:   a.size.CanBeLarger(),
	}
	if img := a.images.CurrentImage(); img != nil {
		c.Edit = true
		c.Undo = img.CanUndoOperation()
		c.Redo = img.CanRedoOperation()
		c.Save = img.HasUnsavedEdits()
	}
	a.controls = c
}

// Controls returns the action availability after the last handled event.
func (a *App) Controls() Controls {
	return a.controls
}

// PreviewImage returns the buffer to draw, or nil when there is nothing to show.
func (a *App) PreviewImage() *image.NRGBA {
	img := a.images.CurrentImage()
	if img == nil {
		return nil
	}
	return img.PreviewBuffer()
}

// PreviewVersion changes every time the preview buffer may have changed.
func (a *App) PreviewVersion() uint64 {
	return a.previewVersion
}

// PreviewSize returns the active zoom mode.
func (a *App) PreviewSize() preview.Size {
	return a.size
}

// CurrentImage returns the entity being shown, or nil.
func (a *App) CurrentImage() *photo.Image {
	return a.images.CurrentImage()
}

// CurrentPath returns the path of the image being shown.
func (a *App) CurrentPath() (string, bool) {
	if a.images.CurrentImage() == nil {
		return "", false
	}
	return a.images.CurrentPath()
}

// CurrentFile returns the file selected in the directory listing, which may
// differ from CurrentPath when that file failed to load.
func (a *App) CurrentFile() (string, bool) {
	return a.files.CurrentFilePath()
}

// Position returns the 1-based index of the current file and the file count.
func (a *App) Position() (int, int) {
	return a.files.CurrentIndex() + 1, a.files.Len()
}

func (a *App) CropMode() bool {
	return a.cropMode
}

// Selection returns the rectangle being dragged in preview coordinates.
func (a *App) Selection() (Selection, bool) {
	if a.selection == nil {
		return Selection{}, false
	}
	return *a.selection, true
}

// LastMessage returns the most recent message shown to the user.
func (a *App) LastMessage() (Message, bool) {
	if a.lastMessage == nil {
		return Message{}, false
	}
	return *a.lastMessage, true
}

// Watched reports whether the current directory is watched for changes.
func (a *App) Watched() bool {
	return a.files.IsWatched()
}
