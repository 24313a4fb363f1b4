package sunset

import (
	"fmt"
	"math"
	"strings"

	"github.com/tanema/gween/ease"
)

// Named easing curves. The first four are the curves the scene uses; the
// rest are exposed for configuration. Every curve is a gween ease function.
var (
	EaseLinear               ease.TweenFunc = ease.Linear
	EaseAccelerate           ease.TweenFunc = ease.InQuad
	EaseDecelerate           ease.TweenFunc = ease.OutQuad
	EaseAccelerateDecelerate ease.TweenFunc = ease.InOutSine
)

var easings = map[string]ease.TweenFunc{
	"linear":                EaseLinear,
	"accelerate":            EaseAccelerate,
	"decelerate":            EaseDecelerate,
	"accelerate-decelerate": EaseAccelerateDecelerate,

	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
	"in-expo":      ease.InExpo,
	"out-expo":     ease.OutExpo,
	"in-out-expo":  ease.InOutExpo,
	"in-back":      ease.InBack,
	"out-back":     ease.OutBack,
	"out-bounce":   ease.OutBounce,
}

// EasingByName looks up a curve by its configuration name. The empty name
// resolves to linear.
func EasingByName(name string) (ease.TweenFunc, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return EaseLinear, nil
	}
	fn, ok := easings[key]
	if !ok {
		return nil, fmt.Errorf("easing %q: %w", name, ErrUnknownEasing)
	}
	return fn, nil
}

func clamp01(p float64) float64 {
	if p < 0 || math.IsNaN(p) {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// EaseProgress clamps p to [0, 1] and reparameterizes it through fn.
// A nil fn is linear.
func EaseProgress(fn ease.TweenFunc, p float64) float64 {
	p = clamp01(p)
	if fn == nil {
		return p
	}
	// Pin the endpoints: some curves land a few ulps off at t == d in float32.
	switch p {
	case 0:
		return 0
	case 1:
		return 1
	}
	return float64(fn(float32(p), 0, 1, 1))
}

// Interpolate returns the value between from and to at the given progress.
// Scalars use start + (end-start)*ease(progress). Colors interpolate each
// channel the same way, rounding and clamping to [0, 255]. The result has
// from's kind.
func Interpolate(from, to Value, progress float64, fn ease.TweenFunc) Value {
	e := EaseProgress(fn, progress)
	return lerp(from, to, e)
}

// lerp interpolates at an already eased fraction. Curves such as out-back
// may push e past [0, 1]; scalars follow, color channels clamp.
func lerp(from, to Value, e float64) Value {
	if from.kind == KindColor {
		a, b := from.color, to.color
		return ColorValue(Color{
			R: lerpChannel(a.R, b.R, e),
			G: lerpChannel(a.G, b.G, e),
			B: lerpChannel(a.B, b.B, e),
			A: lerpChannel(a.A, b.A, e),
		})
	}
	return Scalar(from.scalar + (to.scalar-from.scalar)*e)
}

func lerpChannel(a, b uint8, e float64) uint8 {
	v := math.Round(float64(a) + (float64(b)-float64(a))*e)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
