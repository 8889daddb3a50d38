package config

import (
	"fmt"
	"sort"
)

// Preset names.
const (
	PresetFilament = "filament"
	PresetRibbon   = "ribbon"
)

// presets maps a preset name to the values it seeds.
// Each preset is a complete profile; they are not variations of a shared default.
var presets = map[string]func(c *Config){
	// Thin white filaments: 3D noise at a fixed depth, depth from speed,
	// the crossing axis freezes at the canvas edge.
	PresetFilament: func(c *Config) {
		c.Canvas = CanvasConfig{Width: 20, Height: 20}
		c.Viewport = ViewportConfig{}
		c.Grid.Rows, c.Grid.Cols = 50, 50
		c.Noise.AngleTurns = 4
		c.Noise.UseDepth = true
		c.Noise.Depth = 123
		c.Particles = ParticlesConfig{Count: 500, MaxSpeed: 0.1, MaxForce: 0.01}
		c.Curve = CurveConfig{Steps: 250, Boundary: "axis", Depth: "speed", DepthScale: 5}
		c.Tube = TubeConfig{Segments: 250, Radius: 0.01, RadialSegments: 8}
		c.Material.Kind = "basic"
		c.Material.Palette = "mono"
	},
	// Dense flat ribbons over a viewport that differs from the field canvas,
	// animated by the strand shader; a strand stops dead at the edge.
	PresetRibbon: func(c *Config) {
		c.Canvas = CanvasConfig{Width: 20, Height: 20}
		c.Viewport = ViewportConfig{Width: 16, Height: 10}
		c.Grid.Rows, c.Grid.Cols = 50, 50
		c.Noise.AngleTurns = 0.25
		c.Noise.UseDepth = false
		c.Noise.Depth = 0
		c.Particles = ParticlesConfig{Count: 2500, MaxSpeed: 0.1, MaxForce: 0.025}
		c.Curve = CurveConfig{Steps: 200, Boundary: "stop", Depth: "flat", DepthScale: 0}
		c.Tube = TubeConfig{Segments: 200, Radius: 0.005, RadialSegments: 6}
		c.Material.Kind = "shader"
		c.Material.Palette = "spectrum"
	},
}

// Presets returns the known preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset overwrites the profile fields with the named preset.
// An empty name leaves the config untouched.
func (c *Config) ApplyPreset(name string) error {
	if name == "" {
		return nil
	}
	apply, ok := presets[name]
	if !ok {
		return fmt.Errorf("%w: unknown preset %q (known: %v)", ErrInvalidConfig, name, Presets())
	}
	apply(c)
	c.Preset = name
	c.computeDerived()
	return nil
}
