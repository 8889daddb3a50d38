// Package components defines ECS components for strands.
package components

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flowlines/geometry"
)

// Strand holds one particle's recorded trajectory and the curve fitted through it.
type Strand struct {
	Index  int                  // Spawn order within the scene
	Points []r3.Vec             // Recorded positions, one per step
	Curve  *geometry.CatmullRom // Fitted through Points
}

// Mesh holds the tube extruded along a strand's curve.
type Mesh struct {
	Tube *geometry.Tube
}

// Uniforms are the per-strand shader inputs.
type Uniforms struct {
	Time  float32 // Seconds, advanced every frame
	Phase float32 // Per-strand offset, fixed at build time
	Speed float32 // Per-strand multiplier, fixed at build time
}

// Material describes how a strand is shaded.
type Material struct {
	Kind     MaterialKind
	Color    color.RGBA
	Uniforms Uniforms
}

// Tick sets the time uniform. It touches nothing else, so it is safe to
// call every frame without disturbing the generated geometry.
func (m *Material) Tick(t float64) {
	m.Uniforms.Time = float32(t)
}

// Animated reports whether the material reads the time uniform.
func (m *Material) Animated() bool {
	return m.Kind == MaterialShader
}
