package sunset

import (
	"fmt"
	"math"
	"time"

	"github.com/tanema/gween/ease"
)

// Transition is a timed change of one property of one target. It is an
// immutable descriptor: evaluating it never changes it, so the same
// Transition may be shared between timelines.
//
// A Transition holds two or more keyframes spread evenly over its duration.
// The easing curve reparameterizes overall progress before the keyframe
// segment is chosen.
type Transition struct {
	target   string
	property string
	values   []Value
	duration time.Duration
	easing   ease.TweenFunc
}

// NewTransition creates a two-keyframe transition from one value to another.
// A nil easing is linear.
func NewTransition(target, property string, from, to Value, d time.Duration, fn ease.TweenFunc) (*Transition, error) {
	return NewKeyframeTransition(target, property, d, fn, from, to)
}

// NewKeyframeTransition creates a transition through the given values.
// At least two values of the same kind are required and d must be positive.
func NewKeyframeTransition(target, property string, d time.Duration, fn ease.TweenFunc, values ...Value) (*Transition, error) {
	if d <= 0 {
		return nil, fmt.Errorf("transition %s.%s: duration %v: %w", target, property, d, ErrInvalidDuration)
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("transition %s.%s: %d keyframes: %w", target, property, len(values), ErrMismatchedValues)
	}
	kind := values[0].Kind()
	for _, v := range values[1:] {
		if v.Kind() != kind {
			return nil, fmt.Errorf("transition %s.%s: %s keyframe among %s: %w",
				target, property, v.Kind(), kind, ErrMismatchedValues)
		}
	}
	if fn == nil {
		fn = EaseLinear
	}
	vals := make([]Value, len(values))
	copy(vals, values)
	return &Transition{
		target:   target,
		property: property,
		values:   vals,
		duration: d,
		easing:   fn,
	}, nil
}

// Target returns the identifier of the animated target.
func (t *Transition) Target() string { return t.target }

// Property returns the name of the animated property.
func (t *Transition) Property() string { return t.property }

// Duration returns the length of the transition.
func (t *Transition) Duration() time.Duration { return t.duration }

// Kind reports whether the transition animates a scalar or a color.
func (t *Transition) Kind() ValueKind { return t.values[0].Kind() }

// StartValue returns the first keyframe.
func (t *Transition) StartValue() Value { return t.values[0] }

// EndValue returns the last keyframe.
func (t *Transition) EndValue() Value { return t.values[len(t.values)-1] }

// ValueAt evaluates the transition at local time within its own window.
// Times before the window hold the start value, times after hold the end.
func (t *Transition) ValueAt(local time.Duration) Value {
	if local <= 0 {
		return t.StartValue()
	}
	if local >= t.duration {
		return t.EndValue()
	}
	return t.valueAtFraction(float64(local) / float64(t.duration))
}

func (t *Transition) valueAtFraction(p float64) Value {
	e := EaseProgress(t.easing, p)
	segments := len(t.values) - 1
	pos := e * float64(segments)
	i := int(math.Floor(pos))
	if i < 0 {
		i = 0
	}
	if i > segments-1 {
		i = segments - 1
	}
	return lerp(t.values[i], t.values[i+1], pos-float64(i))
}

// String describes the transition for logs.
func (t *Transition) String() string {
	return fmt.Sprintf("%s.%s %v→%v over %v", t.target, t.property, t.StartValue(), t.EndValue(), t.duration)
}
