package sunset

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color represents an RGBA color with 8-bit components. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A uint8
}

// ColorWhite is the default tint.
var ColorWhite = Color{255, 255, 255, 255}

// NRGBA converts c to the standard library's non-premultiplied color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// String formats c as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// ParseColor parses "#RRGGBB" (opaque) or "#AARRGGBB".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("parse color %q: %w", s, ErrInvalidColor)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, ErrInvalidColor)
	}
	if len(hex) == 6 {
		v |= 0xFF000000
	}
	return Color{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Bottom returns the Y coordinate of the rectangle's lower edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// IsZero reports whether r is the zero rectangle, i.e. never measured.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// ValueKind distinguishes the two shapes a Value can take.
type ValueKind uint8

const (
	KindScalar ValueKind = iota // a single float64 (position, scale, opacity)
	KindColor                   // a 4-channel Color
)

// String returns the kind name.
func (k ValueKind) String() string {
	if k == KindColor {
		return "color"
	}
	return "scalar"
}

// Value is either a scalar or a color. The zero Value is the scalar 0.
type Value struct {
	kind   ValueKind
	scalar float64
	color  Color
}

// Scalar returns a scalar Value.
func Scalar(f float64) Value {
	return Value{kind: KindScalar, scalar: f}
}

// ColorValue returns a color Value.
func ColorValue(c Color) Value {
	return Value{kind: KindColor, color: c}
}

// Kind reports whether v holds a scalar or a color.
func (v Value) Kind() ValueKind { return v.kind }

// Float returns the scalar payload. Color values return 0.
func (v Value) Float() float64 { return v.scalar }

// Color returns the color payload. Scalar values return the zero Color.
func (v Value) Color() Color { return v.color }

// String formats the payload.
func (v Value) String() string {
	if v.kind == KindColor {
		return v.color.String()
	}
	return strconv.FormatFloat(v.scalar, 'g', -1, 64)
}
