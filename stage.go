package sunset

import (
	"image"
	"image/color"
	"log/slog"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// Shape selects how a target is drawn.
type Shape uint8

const (
	ShapeRect Shape = iota // solid rectangle filling the layout rect
	ShapeDisc              // solid disc inscribed in the layout rect
)

// Target is a drawable element of a Stage. Its layout rect is the measured
// home position; Y, scale, alpha and color are the animated properties.
type Target struct {
	Name  string
	Shape Shape

	// Layout is the measured rectangle. Zero until the stage is laid out.
	Layout Rect

	Y      float64
	ScaleX float64
	ScaleY float64
	Alpha  float64
	Color  Color

	// Clip names another target whose layout rect clips this one.
	Clip    string
	ZIndex  int
	Visible bool

	order int // insertion order, for stable z sorting
}

// Rect returns the target's current on-screen rectangle. Scaling pivots
// around the center of the layout rect.
func (t *Target) Rect() Rect {
	w := t.Layout.Width * t.ScaleX
	h := t.Layout.Height * t.ScaleY
	return Rect{
		X:      t.Layout.X + (t.Layout.Width-w)/2,
		Y:      t.Y + (t.Layout.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

// Stage is a small retained set of named targets. It is the render boundary
// for a Director: it receives property values, reports geometry, and draws
// itself with Ebitengine.
type Stage struct {
	targets map[string]*Target
	sorted  []*Target

	debug   bool
	log     *slog.Logger
	applied int // property writes since the last Draw

	whitePixel *ebiten.Image
	discImage  *ebiten.Image
}

const discImageSize = 128

// NewStage creates an empty stage.
func NewStage() *Stage {
	return &Stage{
		targets: make(map[string]*Target),
		log:     NewNopLogger(),
	}
}

// Add creates a visible, unscaled, opaque target. Adding an existing name
// returns the existing target unchanged.
func (s *Stage) Add(name string, shape Shape, c Color, z int) *Target {
	if t, ok := s.targets[name]; ok {
		return t
	}
	t := &Target{
		Name:    name,
		Shape:   shape,
		ScaleX:  1,
		ScaleY:  1,
		Alpha:   1,
		Color:   c,
		ZIndex:  z,
		Visible: true,
		order:   len(s.sorted),
	}
	s.targets[name] = t
	s.sorted = append(s.sorted, t)
	sort.SliceStable(s.sorted, func(i, j int) bool {
		if s.sorted[i].ZIndex != s.sorted[j].ZIndex {
			return s.sorted[i].ZIndex < s.sorted[j].ZIndex
		}
		return s.sorted[i].order < s.sorted[j].order
	})
	return t
}

// Target returns the named target, or nil.
func (s *Stage) Target(name string) *Target {
	return s.targets[name]
}

// Targets returns all targets in draw order. The returned slice MUST NOT be
// mutated.
func (s *Stage) Targets() []*Target {
	return s.sorted
}

// Measure records a target's layout rect. The first measurement places the
// target at its home position; later ones keep a target resting at home on
// the new home and shift a moved target by the change in layout.
func (s *Stage) Measure(name string, r Rect) {
	t := s.targets[name]
	if t == nil {
		return
	}
	old := t.Layout
	t.Layout = r
	if old.IsZero() || t.Y == old.Y {
		t.Y = r.Y
		return
	}
	t.Y += r.Y - old.Y
}

// SetDebugMode enables or disables debug logging of property writes.
func (s *Stage) SetDebugMode(enabled bool, log *slog.Logger) {
	s.debug = enabled
	if log != nil {
		s.log = log
	}
}

// Bounds implements Geometry.
func (s *Stage) Bounds(target string) Rect {
	t := s.targets[target]
	if t == nil {
		return Rect{}
	}
	return t.Layout
}

// Property implements Geometry.
func (s *Stage) Property(target, property string) (Value, bool) {
	t := s.targets[target]
	if t == nil {
		return Value{}, false
	}
	switch property {
	case PropY:
		return Scalar(t.Y), true
	case PropScaleX:
		return Scalar(t.ScaleX), true
	case PropScaleY:
		return Scalar(t.ScaleY), true
	case PropAlpha:
		return Scalar(t.Alpha), true
	case PropColor:
		return ColorValue(t.Color), true
	}
	return Value{}, false
}

// SetProperty implements PropertySink. Unknown targets and properties, and
// values of the wrong kind, are ignored.
func (s *Stage) SetProperty(target, property string, v Value) {
	t := s.targets[target]
	if t == nil {
		if s.debug {
			s.log.Debug("property for unknown target", "target", target, "property", property)
		}
		return
	}
	if property == PropColor {
		if v.Kind() != KindColor {
			return
		}
		t.Color = v.Color()
		s.applied++
		return
	}
	if v.Kind() != KindScalar {
		return
	}
	switch property {
	case PropY:
		t.Y = v.Float()
	case PropScaleX:
		t.ScaleX = v.Float()
	case PropScaleY:
		t.ScaleY = v.Float()
	case PropAlpha:
		t.Alpha = clamp01(v.Float())
	default:
		return
	}
	s.applied++
}

// Draw renders every visible target in z order onto screen.
func (s *Stage) Draw(screen *ebiten.Image) {
	if s.whitePixel == nil {
		s.whitePixel = ebiten.NewImage(1, 1)
		s.whitePixel.Fill(color.White)
		s.discImage = ebiten.NewImageFromImage(newDiscImage(discImageSize))
	}

	drawn := 0
	for _, t := range s.sorted {
		if !t.Visible || t.Alpha <= 0 || t.Layout.IsZero() {
			continue
		}
		r := t.Rect()
		if r.Width <= 0 || r.Height <= 0 {
			continue
		}

		img := s.whitePixel
		if t.Shape == ShapeDisc {
			img = s.discImage
		}
		bw, bh := img.Bounds().Dx(), img.Bounds().Dy()

		var op ebiten.DrawImageOptions
		op.GeoM.Scale(r.Width/float64(bw), r.Height/float64(bh))
		op.GeoM.Translate(r.X, r.Y)
		op.ColorScale.ScaleWithColor(t.Color.NRGBA())
		op.ColorScale.ScaleAlpha(float32(t.Alpha))
		op.Filter = ebiten.FilterLinear

		dst := screen
		if clip := s.targets[t.Clip]; clip != nil && !clip.Layout.IsZero() {
			cr := clip.Layout
			// SubImage keeps the parent's coordinate space, so no re-translation.
			dst = screen.SubImage(image.Rect(
				int(cr.X), int(cr.Y),
				int(cr.X+cr.Width), int(cr.Y+cr.Height),
			)).(*ebiten.Image)
		}
		dst.DrawImage(img, &op)
		drawn++
	}

	if s.debug {
		s.log.Debug("stage frame", "targets", drawn, "properties", s.applied)
	}
	s.applied = 0
}

// newDiscImage rasterizes an anti-aliased white disc.
func newDiscImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			d := r - math.Sqrt(dx*dx+dy*dy)
			var a uint8
			switch {
			case d >= 1:
				a = 255
			case d > 0:
				a = uint8(d * 255)
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: a})
		}
	}
	return img
}
