package sunset

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/tanema/gween/ease"
)

// Scene target identifiers.
const (
	TargetSky        = "sky"
	TargetSea        = "sea"
	TargetSun        = "sun"
	TargetReflection = "sun_reflection"
	TargetGlowSmall  = "sun_glow_small"
	TargetGlowMiddle = "sun_glow_middle"
	TargetGlowLarge  = "sun_glow_large"
)

// Animatable property names.
const (
	PropY      = "y"
	PropScaleX = "scaleX"
	PropScaleY = "scaleY"
	PropAlpha  = "alpha"
	PropColor  = "color"
)

// Geometry reports what the render boundary has measured and currently shows.
type Geometry interface {
	// Bounds returns the laid-out rectangle of a target. The zero Rect means
	// the target has not been measured yet.
	Bounds(target string) Rect
	// Property returns the currently rendered value of a target's property.
	Property(target, property string) (Value, bool)
}

// Boundary is the full render boundary the Director talks to.
type Boundary interface {
	PropertySink
	Geometry
}

// Direction is the way the main timeline moves the sun.
type Direction uint8

const (
	DirectionNone    Direction = iota // nothing built yet
	DirectionSunset                   // forward: sun descends, sky darkens
	DirectionSunrise                  // reverse: sky brightens, sun ascends
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionSunset:
		return "sunset"
	case DirectionSunrise:
		return "sunrise"
	default:
		return "none"
	}
}

// Action is what a Trigger did.
type Action uint8

const (
	ActionStarted Action = iota // built and started a new timeline
	ActionPaused                // paused the running timeline
	ActionResumed               // resumed the paused timeline
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionPaused:
		return "paused"
	case ActionResumed:
		return "resumed"
	default:
		return "started"
	}
}

// DirectorConfig configures a Director. Boundary is required; zero values
// elsewhere select the defaults.
type DirectorConfig struct {
	Boundary Boundary
	Palette  Palette
	Scene    SceneConfig
	Logger   *slog.Logger
}

// Director decides, on every trigger, whether to pause, resume or build a new
// main timeline, and in which direction. It keeps the ambient effects quiet
// while the main timeline runs.
type Director struct {
	boundary Boundary
	palette  Palette
	cfg      SceneConfig
	log      *slog.Logger

	seq       *Sequencer
	ambient   []*AmbientEffect
	direction Direction
}

var requiredColors = []string{
	ColorBlueSky, ColorSunsetSky, ColorNightSky,
	ColorDaySea, ColorSunsetSea, ColorNightSea,
}

// NewDirector creates a Director and starts the ambient effects, as the scene
// opens in daylight.
func NewDirector(cfg DirectorConfig) (*Director, error) {
	if cfg.Boundary == nil {
		return nil, fmt.Errorf("new director: nil boundary")
	}
	if cfg.Palette == nil {
		cfg.Palette = DefaultPalette()
	}
	for _, name := range requiredColors {
		if _, err := cfg.Palette.Color(name); err != nil {
			return nil, fmt.Errorf("new director: %w", err)
		}
	}
	if cfg.Scene.MainDuration == 0 {
		cfg.Scene = DefaultSceneConfig()
	}
	if err := cfg.Scene.Validate(); err != nil {
		return nil, fmt.Errorf("new director: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = NewNopLogger()
	}

	d := &Director{
		boundary: cfg.Boundary,
		palette:  cfg.Palette,
		cfg:      cfg.Scene,
		log:      cfg.Logger,
		seq:      NewSequencer(cfg.Boundary),
	}
	d.seq.OnStart(d.handleStart)
	d.seq.OnEnd(d.handleEnd)
	d.seq.OnCancel(d.handleCancel)

	if err := d.buildAmbient(); err != nil {
		return nil, fmt.Errorf("new director: %w", err)
	}
	d.startAmbient()
	return d, nil
}

// Sequencer returns the sequencer running the main timeline.
func (d *Director) Sequencer() *Sequencer { return d.seq }

// Ambient returns the coordinated ambient effects. The returned slice MUST
// NOT be mutated.
func (d *Director) Ambient() []*AmbientEffect { return d.ambient }

// Direction returns the direction of the most recently built timeline.
func (d *Director) Direction() Direction { return d.direction }

// Trigger handles one activation. A paused timeline resumes, a running one
// pauses, otherwise a new timeline is built for the direction implied by the
// sun's current position and started.
func (d *Director) Trigger() (Action, error) {
	switch d.seq.State() {
	case StatePaused:
		if err := d.seq.Resume(); err != nil {
			d.log.Error("resume timeline", "direction", d.direction, "error", err)
			return ActionResumed, err
		}
		d.log.Debug("timeline resumed", "direction", d.direction, "elapsed", d.seq.Elapsed())
		return ActionResumed, nil
	case StateRunning:
		if err := d.seq.Pause(); err != nil {
			d.log.Error("pause timeline", "direction", d.direction, "error", err)
			return ActionPaused, err
		}
		d.log.Debug("timeline paused", "direction", d.direction, "elapsed", d.seq.Elapsed())
		return ActionPaused, nil
	}

	dir := DirectionSunset
	if d.Descended() {
		dir = DirectionSunrise
	}
	tl, err := d.Build(dir)
	if err != nil {
		d.log.Error("build timeline", "direction", dir, "error", err)
		return ActionStarted, fmt.Errorf("trigger: %w", err)
	}
	d.direction = dir
	d.log.Info("building timeline", "direction", dir, "duration", tl.Duration())
	if err := d.seq.Replace(tl); err != nil {
		d.log.Error("start timeline", "direction", dir, "error", err)
		return ActionStarted, fmt.Errorf("trigger: %w", err)
	}
	return ActionStarted, nil
}

// Update advances the main timeline and the ambient effects by dt.
func (d *Director) Update(dt time.Duration) {
	d.seq.Tick(dt)
	for _, a := range d.ambient {
		a.Update(dt)
	}
}

// Measured reports whether the boundary has laid out the sky and the sun.
func (d *Director) Measured() bool {
	return !d.boundary.Bounds(TargetSky).IsZero() && !d.boundary.Bounds(TargetSun).IsZero()
}

// Descended reports whether the sun currently sits on the sky's lower edge,
// within the configured epsilon. Unmeasured geometry is never descended.
func (d *Director) Descended() bool {
	if !d.Measured() {
		return false
	}
	down := d.boundary.Bounds(TargetSky).Bottom()
	y := d.scalar(TargetSun, PropY, d.boundary.Bounds(TargetSun).Y)
	return math.Abs(y-down) <= d.cfg.BoundaryEpsilon
}

func (d *Director) scalar(target, property string, fallback float64) float64 {
	v, ok := d.boundary.Property(target, property)
	if !ok || v.Kind() != KindScalar {
		return fallback
	}
	return v.Float()
}

// Build resolves the main timeline for dir from the current geometry.
func (d *Director) Build(dir Direction) (*Timeline, error) {
	n, err := d.BuildGraph(dir)
	if err != nil {
		return nil, err
	}
	return Resolve(n)
}

// BuildGraph assembles the unresolved graph for dir. The sunset graph moves
// the sun down together with the reflection and the first color stage, then
// runs the night color stage. The sunrise graph runs the night stage in
// reverse first, then lifts the sun.
//
// Unmeasured geometry still builds: the movement transitions degenerate to
// constant values.
func (d *Director) BuildGraph(dir Direction) (*TimelineNode, error) {
	if !d.Measured() {
		d.log.Warn("geometry not measured, movement transitions are degenerate", "direction", dir)
	}
	var b graphBuilder
	var (
		sky     = d.boundary.Bounds(TargetSky)
		sun     = d.boundary.Bounds(TargetSun)
		sea     = d.boundary.Bounds(TargetSea)
		refl    = d.boundary.Bounds(TargetReflection)
		sunY    = d.scalar(TargetSun, PropY, sun.Y)
		reflY   = d.scalar(TargetReflection, PropY, refl.Y)
		reflSY  = d.scalar(TargetReflection, PropScaleY, 1)
		main    = d.cfg.MainDuration
		night   = d.cfg.NightDuration
		sunEase = d.cfg.sunEasing()
		colEase = d.cfg.colorEasing()
	)
	blueSky, sunsetSky, nightSky := d.palette[ColorBlueSky], d.palette[ColorSunsetSky], d.palette[ColorNightSky]
	daySea, sunsetSea, nightSea := d.palette[ColorDaySea], d.palette[ColorSunsetSea], d.palette[ColorNightSea]

	shimmer := b.keyframes(TargetSea, PropColor, main, colEase,
		ColorValue(daySea), ColorValue(sunsetSea), ColorValue(daySea))

	switch dir {
	case DirectionSunset:
		height := b.scalar(TargetSun, PropY, sunY, sky.Bottom(), main, sunEase)
		reflHeight := b.scalar(TargetReflection, PropY, reflY, sea.Y-refl.Height, main, sunEase)
		reflScale := b.scalar(TargetReflection, PropScaleY, reflSY, d.cfg.ReflectionScaleSet, main, sunEase)
		skyColor := b.color(TargetSky, blueSky, sunsetSky, main, colEase)
		nightSkyColor := b.color(TargetSky, sunsetSky, nightSky, night, colEase)
		nightSeaColor := b.color(TargetSea, daySea, nightSea, night, colEase)
		if b.err != nil {
			return nil, b.err
		}
		return Play(height).
			With(reflHeight).
			With(reflScale).
			With(skyColor).
			With(shimmer).
			Before(nightSkyColor).
			With(nightSeaColor).
			Node(), nil

	case DirectionSunrise:
		nightSkyColor := b.color(TargetSky, nightSky, sunsetSky, night, colEase)
		nightSeaColor := b.color(TargetSea, nightSea, daySea, night, colEase)
		skyColor := b.color(TargetSky, sunsetSky, blueSky, main, colEase)
		height := b.scalar(TargetSun, PropY, sunY, sun.Y, main, sunEase)
		reflHeight := b.scalar(TargetReflection, PropY, reflY, refl.Y, main, sunEase)
		reflScale := b.scalar(TargetReflection, PropScaleY, reflSY, d.cfg.ReflectionScaleRise, main, sunEase)
		if b.err != nil {
			return nil, b.err
		}
		return Play(nightSkyColor).
			With(nightSeaColor).
			Before(skyColor).
			With(height).
			With(reflHeight).
			With(reflScale).
			With(shimmer).
			Node(), nil
	}
	return nil, fmt.Errorf("build graph: direction %s: %w", dir, ErrUnresolvedGraph)
}

// graphBuilder collects the first construction error so BuildGraph reads as
// a flat list of transitions.
type graphBuilder struct {
	err error
}

func (b *graphBuilder) keyframes(target, property string, dur time.Duration, fn ease.TweenFunc, values ...Value) *Transition {
	if b.err != nil {
		return nil
	}
	t, err := NewKeyframeTransition(target, property, dur, fn, values...)
	if err != nil {
		b.err = err
	}
	return t
}

func (b *graphBuilder) scalar(target, property string, from, to float64, dur time.Duration, fn ease.TweenFunc) *Transition {
	return b.keyframes(target, property, dur, fn, Scalar(from), Scalar(to))
}

func (b *graphBuilder) color(target string, from, to Color, dur time.Duration, fn ease.TweenFunc) *Transition {
	return b.keyframes(target, PropColor, dur, fn, ColorValue(from), ColorValue(to))
}

// --- Lifecycle coordination ---

func (d *Director) handleStart(tl *Timeline) {
	d.log.Info("timeline started", "direction", d.direction, "duration", tl.Duration())
	d.stopAmbient()
}

func (d *Director) handleEnd(tl *Timeline) {
	descended := d.Descended()
	d.log.Info("timeline ended", "direction", d.direction, "descended", descended)
	if !descended {
		d.startAmbient()
	}
}

func (d *Director) handleCancel(tl *Timeline) {
	d.log.Info("timeline cancelled", "direction", d.direction, "elapsed", d.seq.Elapsed())
}

// --- Ambient effects ---

func (d *Director) buildAmbient() error {
	p, g := d.cfg.Pulse, d.cfg.Glow
	reflAlpha := d.scalar(TargetReflection, PropAlpha, p.ReflectionAlpha)

	sunPulse, err := NewKeyframeTransition(TargetSun, PropAlpha, p.SunDuration, EaseLinear,
		Scalar(p.SunMinAlpha), Scalar(p.SunMaxAlpha), Scalar(p.SunMinAlpha))
	if err != nil {
		return err
	}
	reflPulse, err := NewKeyframeTransition(TargetReflection, PropAlpha, p.ReflectionDuration, EaseLinear,
		Scalar(reflAlpha), Scalar(reflAlpha+p.ReflectionBoost), Scalar(reflAlpha))
	if err != nil {
		return err
	}
	pulse, err := NewAmbientEffect("pulse", d.boundary, sunPulse, reflPulse)
	if err != nil {
		return err
	}
	d.ambient = append(d.ambient, pulse)

	for _, target := range []string{TargetGlowMiddle, TargetGlowLarge} {
		alpha, err := NewTransition(target, PropAlpha, Scalar(g.AlphaFrom), Scalar(g.AlphaTo), g.Duration, EaseLinear)
		if err != nil {
			return err
		}
		sx, err := NewTransition(target, PropScaleX, Scalar(g.ScaleFrom), Scalar(g.ScaleTo), g.Duration, EaseLinear)
		if err != nil {
			return err
		}
		sy, err := NewTransition(target, PropScaleY, Scalar(g.ScaleFrom), Scalar(g.ScaleTo), g.Duration, EaseLinear)
		if err != nil {
			return err
		}
		glow, err := NewAmbientEffect(target, d.boundary, alpha, sx, sy)
		if err != nil {
			return err
		}
		d.ambient = append(d.ambient, glow)
	}
	return nil
}

func (d *Director) startAmbient() {
	d.boundary.SetProperty(TargetGlowSmall, PropAlpha, Scalar(d.cfg.Glow.SmallAlpha))
	for _, a := range d.ambient {
		a.Start()
	}
	d.log.Debug("ambient effects started", "count", len(d.ambient))
}

func (d *Director) stopAmbient() {
	d.boundary.SetProperty(TargetGlowSmall, PropAlpha, Scalar(0))
	for _, a := range d.ambient {
		a.Stop()
	}
	d.log.Debug("ambient effects stopped", "count", len(d.ambient))
}
