package ico

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 7), uint8(y * 5), 200, 255})
		}
	}
	return img
}

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"Small", 16, 16},
		{"Non square", 48, 20},
		{"Maximum", 256, 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := gradient(tt.w, tt.h)
			var buf bytes.Buffer
			if err := Encode(&buf, src); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			cfg, format, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("DecodeConfig failed: %v", err)
			}
			if format != "ico" {
				t.Errorf("Expected format ico, got %s", format)
			}
			if cfg.Width != tt.w || cfg.Height != tt.h {
				t.Errorf("Expected %dx%d, got %dx%d", tt.w, tt.h, cfg.Width, cfg.Height)
			}

			decoded, _, err := image.Decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			for _, p := range []image.Point{{0, 0}, {tt.w - 1, tt.h - 1}, {tt.w / 2, tt.h / 3}} {
				got := color.NRGBAModel.Convert(decoded.At(p.X, p.Y))
				if got != src.NRGBAAt(p.X, p.Y) {
					t.Errorf("pixel %v: expected %v, got %v", p, src.NRGBAAt(p.X, p.Y), got)
				}
			}
		})
	}
}

func TestEncodeTooLarge(t *testing.T) {
	err := Encode(&bytes.Buffer{}, gradient(257, 10))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}

func TestEncodeWritesZeroForMaxDimension(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, gradient(256, 32)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	data := buf.Bytes()
	if data[headerSize] != 0 || data[headerSize+1] != 32 {
		t.Errorf("Expected width byte 0 and height byte 32, got %d and %d", data[headerSize], data[headerSize+1])
	}
	if off := binary.LittleEndian.Uint32(data[headerSize+12:]); off != headerSize+entrySize {
		t.Errorf("Expected data offset %d, got %d", headerSize+entrySize, off)
	}
}

// buildDIBIcon assembles a single-entry icon holding an uncompressed bitmap.
func buildDIBIcon(t *testing.T, w, h int, bitCount uint16, pixel func(x, y int) []byte, masked func(x, y int) bool) []byte {
	t.Helper()
	bpp := int(bitCount) / 8
	stride := (w*bpp + 3) &^ 3
	maskStride := ((w + 31) / 32) * 4

	var dib bytes.Buffer
	bih := bitmapInfoHeader{Size: 40, Width: int32(w), Height: int32(h * 2), Planes: 1, BitCount: bitCount}
	if err := binary.Write(&dib, binary.LittleEndian, bih); err != nil {
		t.Fatal(err)
	}
	for row := 0; row < h; row++ {
		y := h - 1 - row
		line := make([]byte, stride)
		for x := 0; x < w; x++ {
			copy(line[x*bpp:], pixel(x, y))
		}
		dib.Write(line)
	}
	for row := 0; row < h; row++ {
		y := h - 1 - row
		line := make([]byte, maskStride)
		for x := 0; x < w; x++ {
			if masked != nil && masked(x, y) {
				line[x/8] |= 0x80 >> (x % 8)
			}
		}
		dib.Write(line)
	}

	var out bytes.Buffer
	_ = binary.Write(&out, binary.LittleEndian, header{Type: 1, Count: 1})
	_ = binary.Write(&out, binary.LittleEndian, entry{
		Width: uint8(w), Height: uint8(h), Planes: 1, BitCount: bitCount,
		Size: uint32(dib.Len()), Offset: headerSize + entrySize,
	})
	out.Write(dib.Bytes())
	return out.Bytes()
}

func TestDecodeDIB(t *testing.T) {
	t.Run("32 bit", func(t *testing.T) {
		data := buildDIBIcon(t, 4, 3, 32, func(x, y int) []byte {
			return []byte{byte(x), byte(y), 10, 128}
		}, nil)
		img, err := Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		got := img.(*image.NRGBA).NRGBAAt(3, 2)
		expected := color.NRGBA{R: 10, G: 2, B: 3, A: 128}
		if got != expected {
			t.Errorf("Expected %v, got %v", expected, got)
		}
	})

	t.Run("24 bit with mask", func(t *testing.T) {
		data := buildDIBIcon(t, 5, 2, 24, func(x, y int) []byte {
			return []byte{1, 2, 3}
		}, func(x, y int) bool { return x == 4 && y == 0 })
		img, err := Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		nrgba := img.(*image.NRGBA)
		if a := nrgba.NRGBAAt(4, 0).A; a != 0 {
			t.Errorf("Expected masked pixel to be transparent, alpha %d", a)
		}
		if c := nrgba.NRGBAAt(0, 1); c != (color.NRGBA{R: 3, G: 2, B: 1, A: 255}) {
			t.Errorf("Unexpected pixel %v", c)
		}
	})
}

func TestDecodePicksLargestEntry(t *testing.T) {
	small := buildDIBIcon(t, 2, 2, 32, func(x, y int) []byte { return []byte{0, 0, 0, 255} }, nil)
	var large bytes.Buffer
	if err := Encode(&large, gradient(8, 8)); err != nil {
		t.Fatal(err)
	}

	smallPayload := small[headerSize+entrySize:]
	largePayload := large.Bytes()[headerSize+entrySize:]

	var out bytes.Buffer
	_ = binary.Write(&out, binary.LittleEndian, header{Type: 1, Count: 2})
	offset := uint32(headerSize + 2*entrySize)
	_ = binary.Write(&out, binary.LittleEndian, entry{Width: 2, Height: 2, Planes: 1, BitCount: 32, Size: uint32(len(smallPayload)), Offset: offset})
	_ = binary.Write(&out, binary.LittleEndian, entry{Width: 8, Height: 8, Planes: 1, BitCount: 32, Size: uint32(len(largePayload)), Offset: offset + uint32(len(smallPayload))})
	out.Write(smallPayload)
	out.Write(largePayload)

	img, err := Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("Expected the 8x8 entry, got %v", img.Bounds())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"Wrong type", []byte{0, 0, 2, 0, 1, 0}},
		{"No entries", []byte{0, 0, 1, 0, 0, 0}},
		{"Truncated directory", []byte{0, 0, 1, 0, 1, 0, 16}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(bytes.NewReader(tt.data)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
