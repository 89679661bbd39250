package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"imageroll/internal/operation"
	"imageroll/internal/photo"
)

// WidthForHeight returns the width that keeps img's aspect ratio at height h.
func WidthForHeight(img *photo.Image, h int) (int, bool) {
	if img == nil {
		return 0, false
	}
	ratio, ok := img.AspectRatio()
	if !ok {
		return 0, false
	}
	return max(int(math.Round(float64(h)*ratio)), 1), true
}

// HeightForWidth returns the height that keeps img's aspect ratio at width w.
func HeightForWidth(img *photo.Image, w int) (int, bool) {
	if img == nil {
		return 0, false
	}
	ratio, ok := img.AspectRatio()
	if !ok {
		return 0, false
	}
	return max(int(math.Round(float64(w)/ratio)), 1), true
}

// ParseResize reads "W", "xH" or "WxH". A missing side follows the aspect
// ratio of img.
func ParseResize(img *photo.Image, input string) (operation.Operation, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return operation.Operation{}, fmt.Errorf("empty size")
	}

	ws, hs, hasX := strings.Cut(input, "x")
	var w, h int
	var err error
	if ws != "" {
		if w, err = strconv.Atoi(ws); err != nil || w <= 0 {
			return operation.Operation{}, fmt.Errorf("invalid width %q", ws)
		}
	}
	if hasX && hs != "" {
		if h, err = strconv.Atoi(hs); err != nil || h <= 0 {
			return operation.Operation{}, fmt.Errorf("invalid height %q", hs)
		}
	}

	var ok bool
	switch {
	case w > 0 && h > 0:
		ok = true
	case w > 0:
		h, ok = HeightForWidth(img, w)
	case h > 0:
		w, ok = WidthForHeight(img, h)
	default:
		return operation.Operation{}, fmt.Errorf("invalid size %q", input)
	}
	if !ok {
		return operation.Operation{}, fmt.Errorf("no image to take the aspect ratio from")
	}
	return operation.Resize(w, h), nil
}
