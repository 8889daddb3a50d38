// Package config provides configuration loading and access for the sketch.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is returned (wrapped) by Validate for degenerate configurations.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all sketch configuration parameters.
type Config struct {
	Preset    string          `yaml:"preset"`
	Screen    ScreenConfig    `yaml:"screen"`
	Canvas    CanvasConfig    `yaml:"canvas"`
	Viewport  ViewportConfig  `yaml:"viewport"`
	Grid      GridConfig      `yaml:"grid"`
	Noise     NoiseConfig     `yaml:"noise"`
	Particles ParticlesConfig `yaml:"particles"`
	Curve     CurveConfig     `yaml:"curve"`
	Tube      TubeConfig      `yaml:"tube"`
	Material  MaterialConfig  `yaml:"material"`
	Camera    CameraConfig    `yaml:"camera"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// CanvasConfig is the logical extent the flow field is built over.
type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ViewportConfig is the extent particles spawn in and are bounded by.
// Zero values fall back to the canvas extent.
type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// GridConfig holds flow field resolution.
type GridConfig struct {
	Rows     int    `yaml:"rows"`
	Cols     int    `yaml:"cols"`
	RowIndex string `yaml:"row_index"` // geometric | legacy
}

// NoiseConfig holds noise sampler parameters.
type NoiseConfig struct {
	Kind       string  `yaml:"kind"` // simplex | perlin
	Seed       int64   `yaml:"seed"`
	AngleTurns float64 `yaml:"angle_turns"` // Angle range in full turns
	UseDepth   bool    `yaml:"use_depth"`   // Sample 3D noise at Depth
	Depth      float64 `yaml:"depth"`
}

// ParticlesConfig holds particle spawn parameters.
type ParticlesConfig struct {
	Count    int     `yaml:"count"`
	MaxSpeed float64 `yaml:"max_speed"`
	MaxForce float64 `yaml:"max_force"`
}

// CurveConfig holds trajectory generation parameters.
type CurveConfig struct {
	Steps      int     `yaml:"steps"`
	Boundary   string  `yaml:"boundary"` // axis | stop
	Depth      string  `yaml:"depth"`    // speed | flat
	DepthScale float64 `yaml:"depth_scale"`
}

// TubeConfig holds tube extrusion parameters.
type TubeConfig struct {
	Segments       int     `yaml:"segments"`
	Radius         float64 `yaml:"radius"`
	RadialSegments int     `yaml:"radial_segments"`
	Closed         bool    `yaml:"closed"`
}

// MaterialConfig holds strand material parameters.
type MaterialConfig struct {
	Kind       string  `yaml:"kind"`    // basic | shader
	Palette    string  `yaml:"palette"` // mono | spectrum
	Saturation float64 `yaml:"saturation"`
	Value      float64 `yaml:"value"`
	SpeedMin   float64 `yaml:"speed_min"` // Shader speed multiplier range
	SpeedMax   float64 `yaml:"speed_max"`
}

// CameraConfig holds 3D camera framing parameters.
type CameraConfig struct {
	FovY           float64 `yaml:"fov_y"`
	DistanceFactor float64 `yaml:"distance_factor"` // Multiplier on the distance that fits the canvas
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ViewportW  float64 // Effective viewport width
	ViewportH  float64 // Effective viewport height
	AngleRange float64 // Noise.AngleTurns in radians
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// A non-empty preset overrides the preset named in the files.
// Must be called before Cfg().
func Init(path, preset string) error {
	cfg, err := Load(path, preset)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path, preset string) {
	if err := Init(path, preset); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// The selected preset is applied between the defaults and the user file,
// so keys present in the user file always win.
func Load(path, preset string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	var user []byte
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		user = data

		// Peek at the preset name only; the full merge happens after the preset.
		var head struct {
			Preset string `yaml:"preset"`
		}
		if err := yaml.Unmarshal(user, &head); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		if head.Preset != "" {
			cfg.Preset = head.Preset
		}
	}
	if preset != "" {
		cfg.Preset = preset
	}

	if err := cfg.ApplyPreset(cfg.Preset); err != nil {
		return nil, err
	}

	if user != nil {
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(user, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		if preset != "" {
			cfg.Preset = preset
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ViewportW = c.Viewport.Width
	if c.Derived.ViewportW == 0 {
		c.Derived.ViewportW = c.Canvas.Width
	}
	c.Derived.ViewportH = c.Viewport.Height
	if c.Derived.ViewportH == 0 {
		c.Derived.ViewportH = c.Canvas.Height
	}
	c.Derived.AngleRange = c.Noise.AngleTurns * 2 * math.Pi
}

// SetViewport overrides the viewport extent, as a host does on resize.
func (c *Config) SetViewport(width, height float64) {
	c.Viewport.Width = width
	c.Viewport.Height = height
	c.computeDerived()
}

// Validate reports degenerate configurations that would otherwise surface as
// division-by-zero artifacts during the build.
func (c *Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return fmt.Errorf("%w: canvas must be positive, got %gx%g", ErrInvalidConfig, c.Canvas.Width, c.Canvas.Height)
	case c.Viewport.Width < 0 || c.Viewport.Height < 0:
		return fmt.Errorf("%w: viewport must not be negative, got %gx%g", ErrInvalidConfig, c.Viewport.Width, c.Viewport.Height)
	case c.Grid.Rows < 1 || c.Grid.Cols < 1:
		return fmt.Errorf("%w: grid needs at least one row and column, got %dx%d", ErrInvalidConfig, c.Grid.Rows, c.Grid.Cols)
	case c.Particles.Count < 0:
		return fmt.Errorf("%w: particle count %d", ErrInvalidConfig, c.Particles.Count)
	case c.Particles.MaxSpeed <= 0 || c.Particles.MaxForce <= 0:
		return fmt.Errorf("%w: max_speed and max_force must be positive", ErrInvalidConfig)
	case c.Curve.Steps < 2:
		return fmt.Errorf("%w: curve needs at least 2 steps, got %d", ErrInvalidConfig, c.Curve.Steps)
	case c.Tube.Segments < 1 || c.Tube.RadialSegments < 3 || c.Tube.Radius <= 0:
		return fmt.Errorf("%w: tube segments=%d radial_segments=%d radius=%g", ErrInvalidConfig,
			c.Tube.Segments, c.Tube.RadialSegments, c.Tube.Radius)
	case c.Material.SpeedMax < c.Material.SpeedMin:
		return fmt.Errorf("%w: material speed range [%g, %g]", ErrInvalidConfig, c.Material.SpeedMin, c.Material.SpeedMax)
	}

	if err := oneOf("grid.row_index", c.Grid.RowIndex, "geometric", "legacy"); err != nil {
		return err
	}
	if err := oneOf("noise.kind", c.Noise.Kind, "simplex", "perlin"); err != nil {
		return err
	}
	if err := oneOf("curve.boundary", c.Curve.Boundary, "axis", "stop"); err != nil {
		return err
	}
	if err := oneOf("curve.depth", c.Curve.Depth, "speed", "flat"); err != nil {
		return err
	}
	if err := oneOf("material.kind", c.Material.Kind, "basic", "shader"); err != nil {
		return err
	}
	return oneOf("material.palette", c.Material.Palette, "mono", "spectrum")
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must be one of %v, got %q", ErrInvalidConfig, field, allowed, value)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
