// Package ico reads and writes Windows icon files. Encoding always produces a
// single PNG-compressed entry; decoding accepts PNG and uncompressed 24/32 bit
// DIB entries and returns the largest one.
package ico

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

const (
	headerSize = 6
	entrySize  = 16

	// MaxDimension is the largest width or height an icon entry can describe.
	MaxDimension = 256
)

var (
	ErrTooLarge  = errors.New("ico: image larger than 256x256")
	ErrNoEntries = errors.New("ico: no image entries")
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func init() {
	image.RegisterFormat("ico", "\x00\x00\x01\x00", Decode, DecodeConfig)
}

type header struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type entry struct {
	Width    uint8
	Height   uint8
	Colors   uint8
	Reserved uint8
	Planes   uint16
	BitCount uint16
	Size     uint32
	Offset   uint32
}

func (e entry) width() int {
	if e.Width == 0 {
		return MaxDimension
	}
	return int(e.Width)
}

func (e entry) height() int {
	if e.Height == 0 {
		return MaxDimension
	}
	return int(e.Height)
}

// Encode writes m as a single-entry icon with PNG payload.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		return ErrTooLarge
	}
	if b.Empty() {
		return fmt.Errorf("ico: empty image")
	}

	var payload bytes.Buffer
	if err := png.Encode(&payload, m); err != nil {
		return fmt.Errorf("ico: encoding png payload: %w", err)
	}

	e := entry{
		Width:    uint8(b.Dx() % MaxDimension),
		Height:   uint8(b.Dy() % MaxDimension),
		Planes:   1,
		BitCount: 32,
		Size:     uint32(payload.Len()),
		Offset:   headerSize + entrySize,
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, header{Type: 1, Count: 1}); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, e); err != nil {
		return err
	}
	if _, err := bw.Write(payload.Bytes()); err != nil {
		return err
	}
	return bw.Flush()
}

func readDirectory(data []byte) ([]entry, error) {
	r := bytes.NewReader(data)
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("ico: reading header: %w", err)
	}
	if h.Reserved != 0 || h.Type != 1 {
		return nil, fmt.Errorf("ico: not an icon file")
	}
	if h.Count == 0 {
		return nil, ErrNoEntries
	}
	entries := make([]entry, h.Count)
	if err := binary.Read(r, binary.LittleEndian, entries); err != nil {
		return nil, fmt.Errorf("ico: reading directory: %w", err)
	}
	return entries, nil
}

func largest(entries []entry) entry {
	best := entries[0]
	for _, e := range entries[1:] {
		if e.width()*e.height() > best.width()*best.height() ||
			(e.width()*e.height() == best.width()*best.height() && e.BitCount > best.BitCount) {
			best = e
		}
	}
	return best
}

func payloadOf(data []byte, e entry) ([]byte, error) {
	end := uint64(e.Offset) + uint64(e.Size)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("ico: entry data out of range")
	}
	return data[e.Offset:end], nil
}

// Decode reads the largest entry of an icon file.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	entries, err := readDirectory(data)
	if err != nil {
		return nil, err
	}
	e := largest(entries)
	payload, err := payloadOf(data, e)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(payload, pngMagic) {
		return png.Decode(bytes.NewReader(payload))
	}
	return decodeDIB(payload)
}

// DecodeConfig reports the dimensions of the largest entry.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	entries, err := readDirectory(data)
	if err != nil {
		return image.Config{}, err
	}
	e := largest(entries)
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      e.width(),
		Height:     e.height(),
	}, nil
}

// bitmapInfoHeader is the BITMAPINFOHEADER at the start of a DIB entry.
type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	ImageSize     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// decodeDIB handles uncompressed 24 and 32 bit entries. The stored height
// covers both the color bitmap and the 1 bit AND mask.
func decodeDIB(payload []byte) (image.Image, error) {
	var bih bitmapInfoHeader
	if err := binary.Read(bytes.NewReader(payload), binary.LittleEndian, &bih); err != nil {
		return nil, fmt.Errorf("ico: reading bitmap header: %w", err)
	}
	if bih.Compression != 0 {
		return nil, fmt.Errorf("ico: unsupported bitmap compression %d", bih.Compression)
	}
	if bih.BitCount != 24 && bih.BitCount != 32 {
		return nil, fmt.Errorf("ico: unsupported bit depth %d", bih.BitCount)
	}

	w := int(bih.Width)
	h := int(bih.Height) / 2
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("ico: invalid bitmap size %dx%d", w, h)
	}

	bpp := int(bih.BitCount) / 8
	stride := (w*bpp + 3) &^ 3
	maskStride := ((w + 31) / 32) * 4
	if int(bih.Size) > len(payload) {
		return nil, fmt.Errorf("ico: truncated bitmap header")
	}
	pixels := payload[bih.Size:]
	if len(pixels) < stride*h {
		return nil, fmt.Errorf("ico: truncated bitmap data")
	}
	mask := pixels[stride*h:]
	hasMask := bih.BitCount == 24 && len(mask) >= maskStride*h

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for row := 0; row < h; row++ {
		y := h - 1 - row
		src := pixels[row*stride:]
		for x := 0; x < w; x++ {
			p := src[x*bpp:]
			c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 255}
			if bpp == 4 {
				c.A = p[3]
			} else if hasMask && mask[row*maskStride+x/8]&(0x80>>(x%8)) != 0 {
				c.A = 0
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}
