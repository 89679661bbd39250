// Package clipboard puts images on the system clipboard. The clipboard only
// carries text here, so images travel as PNG data URIs.
package clipboard

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/atotto/clipboard"
)

const dataURIPrefix = "data:image/png;base64,"

// System writes to the desktop clipboard.
type System struct {
	write func(string) error
}

func New() *System {
	return &System{write: clipboard.WriteAll}
}

// Unsupported reports whether no clipboard utility is available.
func Unsupported() bool {
	return clipboard.Unsupported
}

// CopyImage encodes img as PNG and stores it as a data URI.
func (s *System) CopyImage(img image.Image) error {
	text, err := DataURI(img)
	if err != nil {
		return err
	}
	if err := s.write(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// DataURI returns img as a base64 PNG data URI.
func DataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURI reverses DataURI.
func DecodeDataURI(text string) (image.Image, error) {
	payload, ok := bytes.CutPrefix([]byte(text), []byte(dataURIPrefix))
	if !ok {
		return nil, fmt.Errorf("not a png data uri")
	}
	data, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(data))
}
