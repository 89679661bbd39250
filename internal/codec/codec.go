// Package codec decodes image files into NRGBA buffers and encodes buffers
// back to disk, choosing the encoder from the file extension.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"imageroll/internal/ico"
)

// ErrNoExtension is returned when a save path has no extension at all.
var ErrNoExtension = errors.New("File path doesn't have file extension")

// Format is an encoding family.
type Format int

const (
	PNG Format = iota
	JPEG
	TIFF
	ICO
	BMP
)

func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case TIFF:
		return "tiff"
	case ICO:
		return "ico"
	case BMP:
		return "bmp"
	default:
		return "png"
	}
}

var formatsByExtension = map[string]Format{
	"png":  PNG,
	"jpg":  JPEG,
	"jpeg": JPEG,
	"tif":  TIFF,
	"tiff": TIFF,
	"ico":  ICO,
	"bmp":  BMP,
}

// FormatFor maps a path's extension, case-insensitively, to an encoder.
// Unknown extensions encode as PNG; a path without any extension is an error.
// A leading dot alone, as in ".png", does not make an extension.
func FormatFor(path string) (Format, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return PNG, ErrNoExtension
	}
	if f, ok := formatsByExtension[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return f, nil
	}
	return PNG, nil
}

// Decode reads the image at path into a zero-origin NRGBA buffer.
func Decode(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	return ToNRGBA(img), nil
}

// ToNRGBA returns img as an NRGBA buffer with its origin at (0, 0),
// converting only when necessary.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Encode writes img to w using the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case TIFF:
		return tiff.Encode(w, img, nil)
	case ICO:
		return ico.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	default:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	}
}

// Save encodes img to path. The file is written next to its destination and
// renamed into place, so a failed encode never truncates an existing file.
func Save(path string, img image.Image) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := Encode(bw, img, format); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	tmpName = ""
	return nil
}
