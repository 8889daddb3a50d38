package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Frames holds a moving frame per sample along a curve.
type Frames struct {
	Tangents  []r3.Vec
	Normals   []r3.Vec
	Binormals []r3.Vec
}

// ComputeFrenetFrames samples segments+1 frames along c by arc length using
// parallel transport, so the normals twist as little as possible.
// For closed curves the accumulated twist is spread evenly so the last
// frame matches the first.
func ComputeFrenetFrames(c Curve, segments int, closed bool) Frames {
	n := segments + 1
	f := Frames{
		Tangents:  make([]r3.Vec, n),
		Normals:   make([]r3.Vec, n),
		Binormals: make([]r3.Vec, n),
	}

	for i := 0; i < n; i++ {
		f.Tangents[i] = c.TangentAt(float64(i) / float64(segments))
	}

	// Initial normal: the axis the first tangent is least aligned with.
	t0 := f.Tangents[0]
	minComp := math.MaxFloat64
	var normal r3.Vec
	if tx := math.Abs(t0.X); tx <= minComp {
		minComp = tx
		normal = r3.Vec{X: 1}
	}
	if ty := math.Abs(t0.Y); ty <= minComp {
		minComp = ty
		normal = r3.Vec{Y: 1}
	}
	if tz := math.Abs(t0.Z); tz <= minComp {
		normal = r3.Vec{Z: 1}
	}

	vec := unitOrZero(r3.Cross(t0, normal))
	f.Normals[0] = r3.Cross(t0, vec)
	f.Binormals[0] = r3.Cross(t0, f.Normals[0])

	for i := 1; i < n; i++ {
		f.Normals[i] = f.Normals[i-1]

		axis := r3.Cross(f.Tangents[i-1], f.Tangents[i])
		if r3.Norm(axis) > 1e-12 {
			axis = unitOrZero(axis)
			theta := math.Acos(clamp(r3.Dot(f.Tangents[i-1], f.Tangents[i]), -1, 1))
			f.Normals[i] = r3.Rotate(f.Normals[i], theta, axis)
		}

		f.Binormals[i] = r3.Cross(f.Tangents[i], f.Normals[i])
	}

	if closed {
		theta := math.Acos(clamp(r3.Dot(f.Normals[0], f.Normals[segments]), -1, 1)) / float64(segments)
		if r3.Dot(f.Tangents[0], r3.Cross(f.Normals[0], f.Normals[segments])) > 0 {
			theta = -theta
		}
		for i := 1; i < n; i++ {
			if r3.Norm(f.Tangents[i]) == 0 {
				continue
			}
			f.Normals[i] = r3.Rotate(f.Normals[i], theta*float64(i), f.Tangents[i])
			f.Binormals[i] = r3.Cross(f.Tangents[i], f.Normals[i])
		}
	}

	return f
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
