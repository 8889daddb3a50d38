package systems

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is the kinematic state of one strand's tracer.
// It is a value type: each curve generation pass owns its own copy.
type Particle struct {
	Position     r2.Vec
	Velocity     r2.Vec
	Acceleration r2.Vec // Reset every step
	MaxSpeed     float64
	MaxForce     float64
}

// Bounds is the viewport extent particles spawn in and are checked against.
type Bounds struct {
	Width, Height float64
}

// CellSize returns the viewport cell size for a rows x cols grid.
// This can differ from the field's own cell size when the viewport and
// the canvas are configured independently.
func (b Bounds) CellSize(rows, cols int) (cellW, cellH float64) {
	return b.Width / float64(cols), b.Height / float64(rows)
}

// BoundaryPolicy decides what happens to velocity once a particle leaves the bounds.
type BoundaryPolicy uint8

const (
	// BoundaryAxis zeroes velocity only on the axis that is out of bounds.
	BoundaryAxis BoundaryPolicy = iota
	// BoundaryStop zeroes the whole velocity.
	BoundaryStop
)

// ParseBoundaryPolicy maps a config string to a BoundaryPolicy.
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	switch s {
	case "", "axis":
		return BoundaryAxis, nil
	case "stop":
		return BoundaryStop, nil
	}
	return 0, fmt.Errorf("unknown boundary policy %q", s)
}

// RandomParticle spawns a particle uniformly over bounds with a random unit
// velocity and zero acceleration.
func RandomParticle(rng *rand.Rand, bounds Bounds, maxSpeed, maxForce float64) Particle {
	heading := rng.Float64() * 2 * math.Pi
	sin, cos := math.Sincos(heading)
	return Particle{
		Position: r2.Vec{X: rng.Float64() * bounds.Width, Y: rng.Float64() * bounds.Height},
		Velocity: r2.Vec{X: cos, Y: sin},
		MaxSpeed: maxSpeed,
		MaxForce: maxForce,
	}
}

// ApplyForce accumulates force into acceleration.
func (p *Particle) ApplyForce(force r2.Vec) {
	p.Acceleration = r2.Add(p.Acceleration, force)
}

// Follow steers the particle along the field vector of its current cell.
// cellW and cellH are the viewport cell size; a cell outside the field
// contributes no force.
func (p *Particle) Follow(field *FlowField, cellW, cellH float64) {
	force := field.Lookup(p.Position.X, p.Position.Y, cellW, cellH)
	p.ApplyForce(setLength(force, p.MaxForce))
}

// Integrate adds acceleration to velocity, renormalizes velocity to exactly
// MaxSpeed, clears acceleration and advances the position.
func (p *Particle) Integrate() {
	p.Velocity = setLength(r2.Add(p.Velocity, p.Acceleration), p.MaxSpeed)
	p.Acceleration = r2.Vec{}
	p.Position = r2.Add(p.Position, p.Velocity)
}

// CheckEdges zeroes velocity once the position is outside [0, bounds].
// Position itself is never clamped.
func (p *Particle) CheckEdges(bounds Bounds, policy BoundaryPolicy) {
	outX := p.Position.X > bounds.Width || p.Position.X < 0
	outY := p.Position.Y > bounds.Height || p.Position.Y < 0

	if policy == BoundaryStop {
		if outX || outY {
			p.Velocity = r2.Vec{}
		}
		return
	}
	if outX {
		p.Velocity.X = 0
	}
	if outY {
		p.Velocity.Y = 0
	}
}

// Step runs one follow, integrate, boundary cycle.
func (p *Particle) Step(field *FlowField, bounds Bounds, policy BoundaryPolicy) {
	g := field.Grid()
	cellW, cellH := bounds.CellSize(g.Rows, g.Cols)
	p.Follow(field, cellW, cellH)
	p.Integrate()
	p.CheckEdges(bounds, policy)
}

// Speed returns the velocity magnitude.
func (p *Particle) Speed() float64 {
	return r2.Norm(p.Velocity)
}
