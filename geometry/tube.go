package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidTube is returned for tube options that cannot form a surface.
var ErrInvalidTube = errors.New("invalid tube options")

// TubeOptions controls tube extrusion resolution.
type TubeOptions struct {
	Segments       int     // Samples along the curve
	Radius         float64 // Cross-section radius
	RadialSegments int     // Samples around the cross-section
	Closed         bool
}

// Tube is an indexed triangle surface swept along a curve.
// Vertices are laid out ring by ring: (Segments+1) rings of (RadialSegments+1) vertices.
type Tube struct {
	Options   TubeOptions
	Positions []r3.Vec
	Normals   []r3.Vec
	UVs       [][2]float64
	Indices   []int
	Frames    Frames
}

// NewTube sweeps a circle of opts.Radius along c.
func NewTube(c Curve, opts TubeOptions) (*Tube, error) {
	if opts.Segments < 1 || opts.RadialSegments < 3 || !(opts.Radius > 0) {
		return nil, fmt.Errorf("%w: segments=%d radial=%d radius=%g",
			ErrInvalidTube, opts.Segments, opts.RadialSegments, opts.Radius)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: nil curve", ErrInvalidTube)
	}

	frames := ComputeFrenetFrames(c, opts.Segments, opts.Closed)
	ring := opts.RadialSegments + 1
	count := (opts.Segments + 1) * ring

	t := &Tube{
		Options:   opts,
		Positions: make([]r3.Vec, 0, count),
		Normals:   make([]r3.Vec, 0, count),
		UVs:       make([][2]float64, 0, count),
		Indices:   make([]int, 0, opts.Segments*opts.RadialSegments*6),
		Frames:    frames,
	}

	for i := 0; i < opts.Segments; i++ {
		t.addRing(c, frames, i)
	}
	// A closed tube repeats the first ring so the seam lines up.
	last := opts.Segments
	if opts.Closed {
		last = 0
	}
	t.addRing(c, frames, last)

	for i := 0; i <= opts.Segments; i++ {
		for j := 0; j <= opts.RadialSegments; j++ {
			t.UVs = append(t.UVs, [2]float64{
				float64(i) / float64(opts.Segments),
				float64(j) / float64(opts.RadialSegments),
			})
		}
	}

	for j := 1; j <= opts.Segments; j++ {
		for i := 1; i <= opts.RadialSegments; i++ {
			a := ring*(j-1) + (i - 1)
			b := ring*j + (i - 1)
			cc := ring*j + i
			d := ring*(j-1) + i
			t.Indices = append(t.Indices, a, b, d, b, cc, d)
		}
	}

	return t, nil
}

// addRing appends the cross-section at sample i.
func (t *Tube) addRing(c Curve, frames Frames, i int) {
	center := c.PointAt(float64(i) / float64(t.Options.Segments))
	n := frames.Normals[i]
	b := frames.Binormals[i]

	for j := 0; j <= t.Options.RadialSegments; j++ {
		v := float64(j) / float64(t.Options.RadialSegments) * 2 * math.Pi
		sin := math.Sin(v)
		cos := -math.Cos(v)

		normal := unitOrZero(r3.Add(r3.Scale(cos, n), r3.Scale(sin, b)))
		t.Normals = append(t.Normals, normal)
		t.Positions = append(t.Positions, r3.Add(center, r3.Scale(t.Options.Radius, normal)))
	}
}

// VertexCount returns the number of vertices.
func (t *Tube) VertexCount() int { return len(t.Positions) }

// TriangleCount returns the number of triangles.
func (t *Tube) TriangleCount() int { return len(t.Indices) / 3 }

// Bounds returns the axis-aligned bounding box of the vertices.
func (t *Tube) Bounds() r3.Box {
	if len(t.Positions) == 0 {
		return r3.Box{}
	}
	box := r3.Box{Min: t.Positions[0], Max: t.Positions[0]}
	for _, p := range t.Positions[1:] {
		box.Min = r3.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y), Z: math.Min(box.Min.Z, p.Z)}
		box.Max = r3.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y), Z: math.Max(box.Max.Z, p.Z)}
	}
	return box
}
