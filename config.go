package sunset

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// Palette color names the Director reads.
const (
	ColorBlueSky   = "blue_sky"
	ColorSunsetSky = "sunset_sky"
	ColorNightSky  = "night_sky"
	ColorDaySea    = "sea"
	ColorSunsetSea = "sunset_sea"
	ColorNightSea  = "night_sea"
	ColorSun       = "sun"
	ColorGlow      = "sun_glow"
)

// Palette is a fixed set of named colors supplied at initialization.
type Palette map[string]Color

// DefaultPalette returns the stock day/night colors.
func DefaultPalette() Palette {
	return Palette{
		ColorBlueSky:   {R: 0x1E, G: 0x7A, B: 0xC7, A: 0xFF},
		ColorSunsetSky: {R: 0xEC, G: 0x81, B: 0x00, A: 0xFF},
		ColorNightSky:  {R: 0x05, G: 0x19, B: 0x2E, A: 0xFF},
		ColorDaySea:    {R: 0x22, G: 0x48, B: 0x69, A: 0xFF},
		ColorSunsetSea: {R: 0x2F, G: 0x63, B: 0x90, A: 0xFF},
		ColorNightSea:  {R: 0x0B, G: 0x1B, B: 0x2E, A: 0xFF},
		ColorSun:       {R: 0xFC, G: 0xFC, B: 0xB7, A: 0xFF},
		ColorGlow:      {R: 0xFF, G: 0xF7, B: 0xC9, A: 0xFF},
	}
}

// Color returns the named color.
func (p Palette) Color(name string) (Color, error) {
	c, ok := p[name]
	if !ok {
		return Color{}, fmt.Errorf("palette: %q: %w", name, ErrUnknownColor)
	}
	return c, nil
}

// Names returns the color names in sorted order.
func (p Palette) Names() []string {
	names := make([]string, 0, len(p))
	for n := range p {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// paletteFile is the YAML layout of a palette document:
//
//	colors:
//	  blue_sky: "#1E7AC7"
//	  night_sky: "#FF05192E"
type paletteFile struct {
	Colors map[string]string `yaml:"colors"`
}

// LoadPalette decodes a YAML palette. Colors it names override the defaults;
// colors it omits keep their default value.
func LoadPalette(data []byte) (Palette, error) {
	var f paletteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse palette: %w", err)
	}
	p := DefaultPalette()
	for name, hex := range f.Colors {
		c, err := ParseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("parse palette: %s: %w", name, err)
		}
		p[name] = c
	}
	return p, nil
}

// LoadPaletteFile reads and decodes a YAML palette file.
func LoadPaletteFile(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}
	return LoadPalette(data)
}

// SceneConfig holds the timing and shape parameters of the day/night scene.
// Durations are written as Go duration strings ("3s", "1500ms").
type SceneConfig struct {
	// MainDuration is the length of the sun movement stage.
	MainDuration time.Duration `yaml:"main_duration"`
	// NightDuration is the length of the night color stage.
	NightDuration time.Duration `yaml:"night_duration"`
	// SunEasing names the curve used for the sun and reflection movement.
	SunEasing string `yaml:"sun_easing"`
	// ColorEasing names the curve used for sky and sea colors.
	ColorEasing string `yaml:"color_easing"`

	ReflectionScaleSet  float64 `yaml:"reflection_scale_set"`
	ReflectionScaleRise float64 `yaml:"reflection_scale_rise"`

	// BoundaryEpsilon is the distance, in pixels, within which the sun counts
	// as fully descended.
	BoundaryEpsilon float64 `yaml:"boundary_epsilon"`

	Pulse PulseConfig `yaml:"pulse"`
	Glow  GlowConfig  `yaml:"glow"`
}

// PulseConfig shapes the slow opacity pulses of the sun and its reflection.
type PulseConfig struct {
	SunDuration        time.Duration `yaml:"sun_duration"`
	SunMinAlpha        float64       `yaml:"sun_min_alpha"`
	SunMaxAlpha        float64       `yaml:"sun_max_alpha"`
	ReflectionDuration time.Duration `yaml:"reflection_duration"`
	ReflectionAlpha    float64       `yaml:"reflection_alpha"`
	ReflectionBoost    float64       `yaml:"reflection_boost"`
}

// GlowConfig shapes the expanding glow rings around the sun.
type GlowConfig struct {
	Duration   time.Duration `yaml:"duration"`
	AlphaFrom  float64       `yaml:"alpha_from"`
	AlphaTo    float64       `yaml:"alpha_to"`
	ScaleFrom  float64       `yaml:"scale_from"`
	ScaleTo    float64       `yaml:"scale_to"`
	SmallAlpha float64       `yaml:"small_alpha"`
}

// DefaultSceneConfig returns the stock scene timing.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		MainDuration:        3000 * time.Millisecond,
		NightDuration:       1500 * time.Millisecond,
		SunEasing:           "accelerate-decelerate",
		ColorEasing:         "linear",
		ReflectionScaleSet:  1,
		ReflectionScaleRise: 0.8,
		BoundaryEpsilon:     0.5,
		Pulse: PulseConfig{
			SunDuration:        2000 * time.Millisecond,
			SunMinAlpha:        0.95,
			SunMaxAlpha:        1,
			ReflectionDuration: 4000 * time.Millisecond,
			ReflectionAlpha:    0.6,
			ReflectionBoost:    0.1,
		},
		Glow: GlowConfig{
			Duration:   4000 * time.Millisecond,
			AlphaFrom:  0.9,
			AlphaTo:    0,
			ScaleFrom:  0.7,
			ScaleTo:    1,
			SmallAlpha: 0.1,
		},
	}
}

// LoadSceneConfig decodes a YAML scene config on top of the defaults and
// validates it.
func LoadSceneConfig(data []byte) (SceneConfig, error) {
	cfg := DefaultSceneConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SceneConfig{}, fmt.Errorf("parse scene config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return SceneConfig{}, err
	}
	return cfg, nil
}

// LoadSceneConfigFile reads and decodes a YAML scene config file.
func LoadSceneConfigFile(path string) (SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SceneConfig{}, fmt.Errorf("read scene config: %w", err)
	}
	return LoadSceneConfig(data)
}

// Validate checks durations and easing names.
func (c SceneConfig) Validate() error {
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"main_duration", c.MainDuration},
		{"night_duration", c.NightDuration},
		{"pulse.sun_duration", c.Pulse.SunDuration},
		{"pulse.reflection_duration", c.Pulse.ReflectionDuration},
		{"glow.duration", c.Glow.Duration},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("scene config: %s %v: %w", d.name, d.d, ErrInvalidDuration)
		}
	}
	if _, err := EasingByName(c.SunEasing); err != nil {
		return fmt.Errorf("scene config: sun_easing: %w", err)
	}
	if _, err := EasingByName(c.ColorEasing); err != nil {
		return fmt.Errorf("scene config: color_easing: %w", err)
	}
	if c.BoundaryEpsilon < 0 {
		return fmt.Errorf("scene config: boundary_epsilon %v is negative", c.BoundaryEpsilon)
	}
	return nil
}

func (c SceneConfig) sunEasing() ease.TweenFunc {
	fn, _ := EasingByName(c.SunEasing)
	return fn
}

func (c SceneConfig) colorEasing() ease.TweenFunc {
	fn, _ := EasingByName(c.ColorEasing)
	return fn
}
