package sunset

// Scene proportions, relative to the stage size.
const (
	skyFraction        = 0.61
	sunFraction        = 0.16
	sunHeightFraction  = 0.45
	reflectionAspect   = 0.4
	reflectionMargin   = 8
	reflectionAlpha    = 0.6
	glowSmallFactor    = 1.4
	glowMiddleFactor   = 2.0
	glowLargeFactor    = 2.8
	defaultGlowOpacity = 0
)

// NewSceneStage creates the day/night scene's targets, colored from p, in
// draw order. The stage is unmeasured until LayoutScene is called.
func NewSceneStage(p Palette) *Stage {
	if p == nil {
		p = DefaultPalette()
	}
	s := NewStage()
	s.Add(TargetSky, ShapeRect, p[ColorBlueSky], 0)
	for _, name := range []string{TargetGlowLarge, TargetGlowMiddle, TargetGlowSmall} {
		g := s.Add(name, ShapeDisc, p[ColorGlow], 1)
		g.Alpha = defaultGlowOpacity
	}
	s.Add(TargetSun, ShapeDisc, p[ColorSun], 2)
	s.Add(TargetSea, ShapeRect, p[ColorDaySea], 3)
	refl := s.Add(TargetReflection, ShapeDisc, p[ColorSun], 4)
	refl.Alpha = reflectionAlpha
	refl.ScaleY = 0.8
	refl.Clip = TargetSea
	return s
}

// LayoutScene measures every scene target for a stage of the given size.
// The sky fills the top of the stage and the sea the rest; the sun and its
// glows sit centered in the sky, the reflection just below the horizon.
//
// Re-laying out a measured stage keeps the sun and its reflection at the same
// point of their path between home and the horizon, so a resize never
// changes whether the scene counts as descended.
func LayoutScene(s *Stage, width, height float64) {
	sun, refl := s.Target(TargetSun), s.Target(TargetReflection)
	relayout := sun != nil && refl != nil && !sun.Layout.IsZero() && !refl.Layout.IsZero()
	var sunPos, reflPos float64
	if relayout {
		sunPos = travel(sun.Y, sun.Layout.Y, s.Bounds(TargetSky).Bottom())
		reflPos = travel(refl.Y, refl.Layout.Y, s.Bounds(TargetSea).Y-refl.Layout.Height)
	}

	skyH := height * skyFraction
	size := sunFraction * min(width, height)
	cx, cy := width/2, skyH*sunHeightFraction

	s.Measure(TargetSky, Rect{X: 0, Y: 0, Width: width, Height: skyH})
	s.Measure(TargetSea, Rect{X: 0, Y: skyH, Width: width, Height: height - skyH})
	s.Measure(TargetSun, centered(cx, cy, size))
	s.Measure(TargetGlowSmall, centered(cx, cy, size*glowSmallFactor))
	s.Measure(TargetGlowMiddle, centered(cx, cy, size*glowMiddleFactor))
	s.Measure(TargetGlowLarge, centered(cx, cy, size*glowLargeFactor))
	s.Measure(TargetReflection, Rect{
		X:      cx - size/2,
		Y:      skyH + reflectionMargin,
		Width:  size,
		Height: size * reflectionAspect,
	})

	if relayout {
		sun.Y = along(sun.Layout.Y, s.Bounds(TargetSky).Bottom(), sunPos)
		refl.Y = along(refl.Layout.Y, s.Bounds(TargetSea).Y-refl.Layout.Height, reflPos)
	}
}

// travel returns how far y is along the path from home to down, 0 at home
// and 1 at down.
func travel(y, home, down float64) float64 {
	if down == home {
		return 0
	}
	return (y - home) / (down - home)
}

// along is the inverse of travel. The endpoints are returned exactly.
func along(home, down, f float64) float64 {
	switch f {
	case 0:
		return home
	case 1:
		return down
	}
	return home + (down-home)*f
}

func centered(cx, cy, size float64) Rect {
	return Rect{X: cx - size/2, Y: cy - size/2, Width: size, Height: size}
}
