// Package operation defines the fixed set of geometric edits and how each is
// applied to a pixel buffer. Every function here is pure: buffers are never
// modified in place, a new one is returned instead.
package operation

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// Kind identifies which edit an Operation carries.
type Kind int

const (
	KindRotate Kind = iota
	KindCrop
	KindResize
)

// Direction of a 90 degree rotation.
type Direction int

const (
	Clockwise Direction = iota
	Counterclockwise
)

func (d Direction) String() string {
	if d == Counterclockwise {
		return "ccw"
	}
	return "cw"
}

// Operation is one edit. Only the fields belonging to Kind are meaningful;
// use the constructors rather than building the struct by hand.
type Operation struct {
	Kind      Kind
	Direction Direction
	Start     image.Point
	End       image.Point
	Width     int
	Height    int
}

// Rotate returns a 90 degree rotation in the given direction.
func Rotate(d Direction) Operation {
	return Operation{Kind: KindRotate, Direction: d}
}

// Crop returns a crop to the rectangle spanned by two corners, in either order.
func Crop(start, end image.Point) Operation {
	return Operation{Kind: KindCrop, Start: start, End: end}
}

// Resize returns a resample to exactly width x height pixels.
func Resize(width, height int) Operation {
	return Operation{Kind: KindResize, Width: width, Height: height}
}

// CropRect normalizes the two crop corners into a rectangle.
func (op Operation) CropRect() image.Rectangle {
	return image.Rect(op.Start.X, op.Start.Y, op.End.X, op.End.Y).Canon()
}

func (op Operation) String() string {
	switch op.Kind {
	case KindRotate:
		return "rotate:" + op.Direction.String()
	case KindCrop:
		return fmt.Sprintf("crop:%d,%d,%d,%d", op.Start.X, op.Start.Y, op.End.X, op.End.Y)
	case KindResize:
		return fmt.Sprintf("resize:%dx%d", op.Width, op.Height)
	default:
		return fmt.Sprintf("operation(%d)", int(op.Kind))
	}
}

// Parse reads the textual form produced by String:
// "rotate:cw", "rotate:ccw", "crop:x1,y1,x2,y2" and "resize:WxH".
func Parse(s string) (Operation, error) {
	name, args, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Operation{}, fmt.Errorf("invalid operation %q: expected name:arguments", s)
	}

	switch strings.ToLower(name) {
	case "rotate":
		switch strings.ToLower(args) {
		case "cw", "clockwise", "right":
			return Rotate(Clockwise), nil
		case "ccw", "counterclockwise", "left":
			return Rotate(Counterclockwise), nil
		}
		return Operation{}, fmt.Errorf("invalid rotation %q: expected cw or ccw", args)

	case "crop":
		parts := strings.Split(args, ",")
		if len(parts) != 4 {
			return Operation{}, fmt.Errorf("invalid crop %q: expected x1,y1,x2,y2", args)
		}
		var v [4]int
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return Operation{}, fmt.Errorf("invalid crop coordinate %q: %w", p, err)
			}
			v[i] = n
		}
		return Crop(image.Pt(v[0], v[1]), image.Pt(v[2], v[3])), nil

	case "resize":
		w, h, err := ParseDimensions(args)
		if err != nil {
			return Operation{}, err
		}
		return Resize(w, h), nil
	}

	return Operation{}, fmt.Errorf("unknown operation %q", name)
}

// ParseDimensions reads "WxH" into two positive integers.
func ParseDimensions(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid dimensions %q: expected WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q: %w", ws, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q: %w", hs, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid dimensions %dx%d: must be positive", w, h)
	}
	return w, h, nil
}

// Apply runs op against src. The second result is false when the operation
// cannot be applied to a buffer of this size; the caller keeps src then.
func Apply(src *image.NRGBA, op Operation) (*image.NRGBA, bool) {
	if src == nil {
		return nil, false
	}
	switch op.Kind {
	case KindRotate:
		return rotate(src, op.Direction), true
	case KindCrop:
		return crop(src, op.CropRect())
	case KindResize:
		return resize(src, op.Width, op.Height)
	default:
		return nil, false
	}
}

// Fold applies ops in order, skipping any that cannot be applied.
func Fold(src *image.NRGBA, ops []Operation) *image.NRGBA {
	buf := src
	for _, op := range ops {
		if next, ok := Apply(buf, op); ok {
			buf = next
		}
	}
	return buf
}

func rotate(src *image.NRGBA, d Direction) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))

	for y := 0; y < h; y++ {
		srcRow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			var dx, dy int
			if d == Counterclockwise {
				dx, dy = y, w-1-x
			} else {
				dx, dy = h-1-y, x
			}
			i := dst.PixOffset(dx, dy)
			copy(dst.Pix[i:i+4], srcRow[x*4:x*4+4])
		}
	}
	return dst
}

func crop(src *image.NRGBA, r image.Rectangle) (*image.NRGBA, bool) {
	if r.Empty() {
		return nil, false
	}
	b := src.Bounds()
	r = r.Add(b.Min)
	if !r.In(b) {
		return nil, false
	}

	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	rowLen := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		s := src.PixOffset(r.Min.X, r.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], src.Pix[s:s+rowLen])
	}
	return dst, true
}

func resize(src *image.NRGBA, width, height int) (*image.NRGBA, bool) {
	if width <= 0 || height <= 0 {
		return nil, false
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst, true
}
