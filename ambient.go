package sunset

import (
	"fmt"
	"time"

	"github.com/tanema/gween"
)

// ambientTrack is one looping scalar property. Each keyframe segment is a
// gween tween sampled with Set; segments share the track's easing.
type ambientTrack struct {
	target   string
	property string
	segments []*gween.Tween
	segLen   time.Duration
	duration time.Duration
	last     float64
}

// sample returns the track value at local time t within [0, duration].
func (tr *ambientTrack) sample(t time.Duration) float64 {
	if t >= tr.duration {
		t = tr.duration
	}
	i := int(t / tr.segLen)
	if i >= len(tr.segments) {
		i = len(tr.segments) - 1
	}
	local := t - time.Duration(i)*tr.segLen
	v, _ := tr.segments[i].Set(float32(local.Seconds()))
	return float64(v)
}

// AmbientEffect loops a group of scalar transitions forever. The tracks start
// together and the loop restarts at offset 0 once the longest track has
// completed; it never ends on its own.
//
// Stop freezes every property at the last value written, it does not reset.
// Start begins a fresh loop from t=0.
type AmbientEffect struct {
	Name string

	sink    PropertySink
	tracks  []*ambientTrack
	period  time.Duration
	elapsed time.Duration
	running bool
}

// NewAmbientEffect builds a stopped effect from scalar transitions. Color
// transitions are rejected with ErrUnsupportedValue.
func NewAmbientEffect(name string, sink PropertySink, transitions ...*Transition) (*AmbientEffect, error) {
	if len(transitions) == 0 {
		return nil, fmt.Errorf("ambient %s: no transitions: %w", name, ErrUnresolvedGraph)
	}
	if sink == nil {
		sink = discardSink{}
	}
	a := &AmbientEffect{Name: name, sink: sink}
	for _, t := range transitions {
		if t.Kind() != KindScalar {
			return nil, fmt.Errorf("ambient %s: %s: %w", name, t, ErrUnsupportedValue)
		}
		n := len(t.values) - 1
		if t.Duration() < time.Duration(n) {
			return nil, fmt.Errorf("ambient %s: %s: %d segments: %w", name, t, n, ErrInvalidDuration)
		}
		tr := &ambientTrack{
			target:   t.Target(),
			property: t.Property(),
			segLen:   t.Duration() / time.Duration(n),
			duration: t.Duration(),
			last:     t.StartValue().Float(),
		}
		segSeconds := float32(tr.segLen.Seconds())
		for i := 0; i < n; i++ {
			from, to := float32(t.values[i].Float()), float32(t.values[i+1].Float())
			tr.segments = append(tr.segments, gween.New(from, to, segSeconds, t.easing))
		}
		a.tracks = append(a.tracks, tr)
		if t.Duration() > a.period {
			a.period = t.Duration()
		}
	}
	return a, nil
}

// Running reports whether the loop is active.
func (a *AmbientEffect) Running() bool { return a.running }

// Period returns the loop length.
func (a *AmbientEffect) Period() time.Duration { return a.period }

// Start begins a fresh loop from t=0 and writes the first frame.
func (a *AmbientEffect) Start() {
	a.running = true
	a.elapsed = 0
	a.apply()
}

// Stop ends the loop, leaving every property at its current value.
func (a *AmbientEffect) Stop() {
	a.running = false
}

// Update advances the loop by dt and writes the new frame. No-op when stopped.
func (a *AmbientEffect) Update(dt time.Duration) {
	if !a.running || dt < 0 {
		return
	}
	a.elapsed = (a.elapsed + dt) % a.period
	a.apply()
}

// Value returns the last value written for the given property.
func (a *AmbientEffect) Value(target, property string) (float64, bool) {
	for _, tr := range a.tracks {
		if tr.target == target && tr.property == property {
			return tr.last, true
		}
	}
	return 0, false
}

func (a *AmbientEffect) apply() {
	for _, tr := range a.tracks {
		tr.last = tr.sample(a.elapsed)
		a.sink.SetProperty(tr.target, tr.property, Scalar(tr.last))
	}
}
