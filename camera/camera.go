// Package camera provides an orbit camera framing the strand canvas in 3D.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// pitchLimit keeps the orbit off the poles where the up vector degenerates.
const pitchLimit = math.Pi/2 - 0.05

// Orbit circles a target point at a fixed distance.
// At zero yaw and pitch it looks along +Z with canvas Y pointing down the
// screen, so the canvas reads the same way as a 2D sketch of it.
type Orbit struct {
	// Target is the point the camera looks at, in canvas coordinates
	Target r3.Vec

	// Distance from target
	Distance float64

	// Yaw turns around the canvas Y axis, Pitch tilts toward it (radians)
	Yaw, Pitch float64

	// FovY is the vertical field of view in degrees
	FovY float64

	// Distance constraints
	MinDistance, MaxDistance float64

	// baseDistance is the framing distance restored by Reset
	baseDistance float64
}

// NewOrbit frames a canvas of the given extent. The distance fits the
// canvas diagonal inside the vertical field of view, scaled by factor.
func NewOrbit(canvasW, canvasH, fovY, factor float64) *Orbit {
	o := &Orbit{FovY: fovY}
	o.Fit(canvasW, canvasH, factor)
	return o
}

// Fit recentres the camera on a canvas and recomputes distance limits.
// Yaw and pitch are reset.
func (o *Orbit) Fit(canvasW, canvasH, factor float64) {
	if factor <= 0 {
		factor = 1
	}
	halfDiag := math.Hypot(canvasW, canvasH) / 2
	halfFov := o.FovY * math.Pi / 360

	o.Target = r3.Vec{X: canvasW / 2, Y: canvasH / 2}
	o.baseDistance = factor * halfDiag / math.Tan(halfFov)
	o.MinDistance = o.baseDistance * 0.1
	o.MaxDistance = o.baseDistance * 10
	o.Reset()
}

// Reset returns to the framing view.
func (o *Orbit) Reset() {
	o.Distance = o.baseDistance
	o.Yaw = 0
	o.Pitch = 0
}

// Forward returns the unit view direction.
func (o *Orbit) Forward() r3.Vec {
	return r3.Scale(-1, o.offsetDir())
}

// Up returns the camera up vector. Canvas Y grows down the screen.
func (o *Orbit) Up() r3.Vec {
	return r3.Vec{Y: -1}
}

// Position returns the camera position.
func (o *Orbit) Position() r3.Vec {
	return r3.Add(o.Target, r3.Scale(o.Distance, o.offsetDir()))
}

// offsetDir is the unit vector from target to camera.
func (o *Orbit) offsetDir() r3.Vec {
	sy, cy := math.Sincos(o.Yaw)
	sp, cp := math.Sincos(o.Pitch)
	return r3.Vec{X: cp * sy, Y: -sp, Z: -cp * cy}
}

// Rotate turns the orbit. Yaw wraps around; pitch is clamped short of the poles.
func (o *Orbit) Rotate(dYaw, dPitch float64) {
	o.Yaw = math.Mod(o.Yaw+dYaw, 2*math.Pi)
	o.Pitch = clamp(o.Pitch+dPitch, -pitchLimit, pitchLimit)
}

// Zoom multiplies the distance by factor, clamped to the distance limits.
func (o *Orbit) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	o.Distance = clamp(o.Distance*factor, o.MinDistance, o.MaxDistance)
}

// Pan moves the target within the view plane by canvas units.
func (o *Orbit) Pan(dx, dy float64) {
	right := r3.Cross(o.Forward(), o.Up())
	if n := r3.Norm(right); n > 0 {
		right = r3.Scale(1/n, right)
	}
	up := r3.Cross(right, o.Forward())
	o.Target = r3.Add(o.Target, r3.Add(r3.Scale(dx, right), r3.Scale(dy, up)))
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
