package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	xdraw "golang.org/x/image/draw"

	"imageroll/internal/codec"
	"imageroll/internal/logger"
)

// pagePrinter renders print jobs as PNG pages in a spool directory.
// There is no system print dialog; the page file is the print output.
type pagePrinter struct {
	dir string
	now func() time.Time
}

func newPagePrinter(dir string) *pagePrinter {
	if dir == "" {
		dir = os.TempDir()
	}
	return &pagePrinter{dir: dir, now: time.Now}
}

// Print places img in the middle of a white canvas and writes the page.
func (p *pagePrinter) Print(img image.Image, canvasWidth, canvasHeight int) error {
	page := composePage(img, canvasWidth, canvasHeight)
	path := filepath.Join(p.dir, fmt.Sprintf("imageroll-print-%s.png", p.now().Format("20060102-150405.000")))
	if err := codec.Save(path, page); err != nil {
		return fmt.Errorf("failed to print: %w", err)
	}
	logger.Infof("Printed page to %s", path)
	return nil
}

// composePage centers img on a white canvasWidth x canvasHeight page. An image
// larger than the page is clipped, callers fit it beforehand.
func composePage(img image.Image, canvasWidth, canvasHeight int) *image.NRGBA {
	page := image.NewNRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	xdraw.Draw(page, page.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)

	b := img.Bounds()
	x := (canvasWidth - b.Dx()) / 2
	y := (canvasHeight - b.Dy()) / 2
	dst := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	xdraw.Draw(page, dst, img, b.Min, xdraw.Over)
	return page
}
