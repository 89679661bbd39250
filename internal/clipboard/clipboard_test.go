package clipboard

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestCopyImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(2, 1, color.NRGBA{10, 20, 30, 255})

	var written string
	s := &System{write: func(text string) error {
		written = text
		return nil
	}}
	if err := s.CopyImage(src); err != nil {
		t.Fatalf("CopyImage failed: %v", err)
	}
	if !strings.HasPrefix(written, "data:image/png;base64,") {
		t.Fatalf("Unexpected clipboard text %q", written)
	}

	decoded, err := DecodeDataURI(written)
	if err != nil {
		t.Fatalf("DecodeDataURI failed: %v", err)
	}
	if decoded.Bounds() != src.Bounds() {
		t.Errorf("Expected %v, got %v", src.Bounds(), decoded.Bounds())
	}
	if got := color.NRGBAModel.Convert(decoded.At(2, 1)); got != src.NRGBAAt(2, 1) {
		t.Errorf("Expected %v, got %v", src.NRGBAAt(2, 1), got)
	}
}

func TestCopyImageWriteError(t *testing.T) {
	s := &System{write: func(string) error { return errors.New("no xclip") }}
	if err := s.CopyImage(image.NewNRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("Expected write error to surface")
	}
}

func TestDecodeDataURIRejectsText(t *testing.T) {
	if _, err := DecodeDataURI("hello"); err == nil {
		t.Error("Expected error for plain text")
	}
}
