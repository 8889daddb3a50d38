package systems

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flowlines/geometry"
)

// DepthMode selects the z coordinate recorded for each trajectory point.
type DepthMode uint8

const (
	// DepthFlat records z = 0.
	DepthFlat DepthMode = iota
	// DepthSpeed records z = |velocity| * DepthScale, so a strand dips
	// wherever the boundary has frozen part of its motion.
	DepthSpeed
)

// ParseDepthMode maps a config string to a DepthMode.
func ParseDepthMode(s string) (DepthMode, error) {
	switch s {
	case "", "flat":
		return DepthFlat, nil
	case "speed":
		return DepthSpeed, nil
	}
	return 0, fmt.Errorf("unknown depth mode %q", s)
}

// CurveOptions controls trajectory generation.
type CurveOptions struct {
	Steps      int
	Boundary   BoundaryPolicy
	Depth      DepthMode
	DepthScale float64
}

// Trace steps a copy of p through the field opts.Steps times and records a
// point after every step. It always returns exactly opts.Steps points.
func Trace(p Particle, field *FlowField, bounds Bounds, opts CurveOptions) []r3.Vec {
	if opts.Steps <= 0 {
		return nil
	}

	points := make([]r3.Vec, opts.Steps)
	for i := range points {
		p.Step(field, bounds, opts.Boundary)

		var z float64
		if opts.Depth == DepthSpeed {
			z = p.Speed() * opts.DepthScale
		}
		points[i] = r3.Vec{X: p.Position.X, Y: p.Position.Y, Z: z}
	}
	return points
}

// GenerateCurve traces p and fits a Catmull-Rom spline through the points.
func GenerateCurve(p Particle, field *FlowField, bounds Bounds, opts CurveOptions) ([]r3.Vec, *geometry.CatmullRom) {
	points := Trace(p, field, bounds, opts)
	return points, geometry.NewCatmullRom(points, false)
}
