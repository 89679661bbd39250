// Package preview models the zoom level an image is displayed at: fit to the
// viewport, actual pixels, or an explicit percentage.
package preview

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects how a preview is derived from the current buffer.
type Mode int

const (
	BestFit Mode = iota
	OriginalSize
	Resized
)

const (
	// MinPercent and MaxPercent bound every Resized value.
	MinPercent = 5
	MaxPercent = 500

	FitScreenLabel = "Fit screen"
)

// Ladder holds the discrete zoom steps used by Smaller and Larger.
// 100 is represented by OriginalSize.
var Ladder = []int{5, 10, 25, 33, 50, 66, 75, 100, 133, 150, 200, 500}

// Size is one preview mode. Width and Height are only meaningful for BestFit,
// Percent only for Resized.
type Size struct {
	Mode    Mode
	Width   int
	Height  int
	Percent int
}

// Fit returns a BestFit size for a viewport.
func Fit(width, height int) Size {
	return Size{Mode: BestFit, Width: width, Height: height}
}

// Original returns the 100% size.
func Original() Size {
	return Size{Mode: OriginalSize}
}

// Percent returns Resized(p), normalizing 100 to OriginalSize.
func Percent(p int) Size {
	if p == 100 {
		return Original()
	}
	return Size{Mode: Resized, Percent: p}
}

// FromPercent clamps p into [MinPercent, MaxPercent] before building a size.
func FromPercent(p int) Size {
	if p < MinPercent {
		p = MinPercent
	}
	if p > MaxPercent {
		p = MaxPercent
	}
	return Percent(p)
}

// Value returns the magnification in percent, or 0 for BestFit.
func (s Size) Value() int {
	switch s.Mode {
	case OriginalSize:
		return 100
	case Resized:
		return s.Percent
	default:
		return 0
	}
}

// WithViewport replaces BestFit dimensions; other modes are returned as is.
func (s Size) WithViewport(width, height int) Size {
	if s.Mode != BestFit {
		return s
	}
	return Fit(width, height)
}

// Smaller moves one rung down the ladder. BestFit enters the ladder at
// OriginalSize. The second result is false at the bottom.
func (s Size) Smaller() (Size, bool) {
	if s.Mode == BestFit {
		return Original(), true
	}
	v := s.Value()
	for i := len(Ladder) - 1; i >= 0; i-- {
		if Ladder[i] < v {
			return Percent(Ladder[i]), true
		}
	}
	return s, false
}

// Larger moves one rung up the ladder. BestFit enters the ladder at
// OriginalSize. The second result is false at the top.
func (s Size) Larger() (Size, bool) {
	if s.Mode == BestFit {
		return Original(), true
	}
	v := s.Value()
	for _, rung := range Ladder {
		if rung > v {
			return Percent(rung), true
		}
	}
	return s, false
}

// SmallerBy subtracts delta percent. Results below MinPercent are rejected.
func (s Size) SmallerBy(delta int) (Size, bool) {
	if s.Mode == BestFit {
		return Original(), true
	}
	v := s.Value() - delta
	if v < MinPercent {
		return s, false
	}
	return Percent(v), true
}

// LargerBy adds delta percent. Results above MaxPercent are rejected.
func (s Size) LargerBy(delta int) (Size, bool) {
	if s.Mode == BestFit {
		return Original(), true
	}
	v := s.Value() + delta
	if v > MaxPercent {
		return s, false
	}
	return Percent(v), true
}

func (s Size) CanBeSmaller() bool {
	return !(s.Mode == Resized && s.Percent <= MinPercent)
}

func (s Size) CanBeLarger() bool {
	return !(s.Mode == Resized && s.Percent >= MaxPercent)
}

// Scaled applies a pinch factor to the size the gesture started from.
// Fit and 100% both start from 100%. The result is clamped to the valid range.
func (s Size) Scaled(factor float64) Size {
	base := 100.0
	if s.Mode == Resized {
		base = float64(s.Percent)
	}
	return FromPercent(int(base * factor))
}

// String returns the display label: "Fit screen", "100%" or "N%".
func (s Size) String() string {
	switch s.Mode {
	case BestFit:
		return FitScreenLabel
	case OriginalSize:
		return "100%"
	default:
		return fmt.Sprintf("%d%%", s.Percent)
	}
}

// Parse reads a display label back. "Fit screen" yields BestFit(0, 0); the
// caller supplies the viewport later via WithViewport.
func Parse(label string) (Size, error) {
	label = strings.TrimSpace(label)
	if strings.EqualFold(label, FitScreenLabel) {
		return Fit(0, 0), nil
	}
	num, ok := strings.CutSuffix(label, "%")
	if !ok {
		return Size{}, fmt.Errorf("invalid preview size %q", label)
	}
	p, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return Size{}, fmt.Errorf("invalid preview size %q: %w", label, err)
	}
	if p < MinPercent || p > MaxPercent {
		return Size{}, fmt.Errorf("preview size %d%% out of range %d-%d", p, MinPercent, MaxPercent)
	}
	return Percent(p), nil
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Size) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
