// Package geometry fits curves through sampled points and extrudes tubes along them.
package geometry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// ArcLengthDivisions is the number of samples used to tabulate arc length.
const ArcLengthDivisions = 200

// tangentDelta is the parameter step used for finite-difference tangents.
const tangentDelta = 0.0001

// Curve is a parametric 3D curve over t in [0, 1].
type Curve interface {
	Point(t float64) r3.Vec
	PointAt(u float64) r3.Vec
	TangentAt(u float64) r3.Vec
}

// CatmullRom is a centripetal Catmull-Rom spline through a fixed point sequence.
type CatmullRom struct {
	points []r3.Vec
	closed bool

	// arcLengths[i] is the length from t=0 to t=i/ArcLengthDivisions.
	arcLengths []float64
}

// NewCatmullRom fits a curve through points. The points are copied.
// Fewer than two points produce a degenerate curve that stays at the
// single point (or the origin when empty).
func NewCatmullRom(points []r3.Vec, closed bool) *CatmullRom {
	c := &CatmullRom{
		points: append([]r3.Vec(nil), points...),
		closed: closed,
	}
	c.arcLengths = c.computeLengths(ArcLengthDivisions)
	return c
}

// Points returns a copy of the control points.
func (c *CatmullRom) Points() []r3.Vec {
	return append([]r3.Vec(nil), c.points...)
}

// Length returns the tabulated arc length.
func (c *CatmullRom) Length() float64 {
	return c.arcLengths[len(c.arcLengths)-1]
}

// Point returns the curve position at parameter t in [0, 1].
func (c *CatmullRom) Point(t float64) r3.Vec {
	l := len(c.points)
	switch l {
	case 0:
		return r3.Vec{}
	case 1:
		return c.points[0]
	}

	span := l - 1
	if c.closed {
		span = l
	}
	p := float64(span) * t
	intPoint := int(math.Floor(p))
	weight := p - float64(intPoint)

	if c.closed {
		if intPoint <= 0 {
			intPoint += (int(math.Floor(math.Abs(float64(intPoint))/float64(l))) + 1) * l
		}
	} else if weight == 0 && intPoint == l-1 {
		intPoint = l - 2
		weight = 1
	}

	var p0, p3 r3.Vec
	if c.closed || intPoint > 0 {
		p0 = c.points[(intPoint-1)%l]
	} else {
		// Extrapolate the first control point.
		p0 = r3.Sub(r3.Scale(2, c.points[0]), c.points[1])
	}
	p1 := c.points[intPoint%l]
	p2 := c.points[(intPoint+1)%l]
	if c.closed || intPoint+2 < l {
		p3 = c.points[(intPoint+2)%l]
	} else {
		// Extrapolate the last control point.
		p3 = r3.Sub(r3.Scale(2, c.points[l-1]), c.points[l-2])
	}

	// Centripetal parameterization: knot spacing is sqrt of chord length.
	dt0 := math.Pow(r3.Norm2(r3.Sub(p1, p0)), 0.25)
	dt1 := math.Pow(r3.Norm2(r3.Sub(p2, p1)), 0.25)
	dt2 := math.Pow(r3.Norm2(r3.Sub(p3, p2)), 0.25)

	// Repeated points would divide by zero.
	if dt1 < 1e-4 {
		dt1 = 1
	}
	if dt0 < 1e-4 {
		dt0 = dt1
	}
	if dt2 < 1e-4 {
		dt2 = dt1
	}

	return r3.Vec{
		X: nonuniformCubic(p0.X, p1.X, p2.X, p3.X, dt0, dt1, dt2, weight),
		Y: nonuniformCubic(p0.Y, p1.Y, p2.Y, p3.Y, dt0, dt1, dt2, weight),
		Z: nonuniformCubic(p0.Z, p1.Z, p2.Z, p3.Z, dt0, dt1, dt2, weight),
	}
}

// nonuniformCubic evaluates the Hermite segment between x1 and x2 whose
// tangents come from a non-uniform Catmull-Rom knot sequence.
func nonuniformCubic(x0, x1, x2, x3, dt0, dt1, dt2, t float64) float64 {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	t1 *= dt1
	t2 *= dt1

	c0 := x1
	c1 := t1
	c2 := -3*x1 + 3*x2 - 2*t1 - t2
	c3 := 2*x1 - 2*x2 + t1 + t2

	t2sq := t * t
	return c0 + c1*t + c2*t2sq + c3*t2sq*t
}

func (c *CatmullRom) computeLengths(divisions int) []float64 {
	lengths := make([]float64, divisions+1)
	last := c.Point(0)
	var sum float64
	for i := 1; i <= divisions; i++ {
		cur := c.Point(float64(i) / float64(divisions))
		sum += r3.Norm(r3.Sub(cur, last))
		lengths[i] = sum
		last = cur
	}
	return lengths
}

// ParamAt maps an arc-length fraction u in [0, 1] to the curve parameter t.
func (c *CatmullRom) ParamAt(u float64) float64 {
	lengths := c.arcLengths
	il := len(lengths)
	total := lengths[il-1]
	if total == 0 {
		return u
	}
	target := u * total

	// First tabulated length >= target.
	i := sort.SearchFloat64s(lengths, target)
	if i >= il {
		return 1
	}
	if lengths[i] == target {
		return float64(i) / float64(il-1)
	}
	if i == 0 {
		return 0
	}
	i--

	before := lengths[i]
	segment := lengths[i+1] - before
	fraction := (target - before) / segment
	return (float64(i) + fraction) / float64(il-1)
}

// PointAt returns the position at arc-length fraction u.
func (c *CatmullRom) PointAt(u float64) r3.Vec {
	return c.Point(c.ParamAt(u))
}

// Tangent returns the unit tangent at parameter t by central differences.
// A degenerate curve returns the zero vector.
func (c *CatmullRom) Tangent(t float64) r3.Vec {
	t1 := math.Max(t-tangentDelta, 0)
	t2 := math.Min(t+tangentDelta, 1)
	return unitOrZero(r3.Sub(c.Point(t2), c.Point(t1)))
}

// TangentAt returns the unit tangent at arc-length fraction u.
func (c *CatmullRom) TangentAt(u float64) r3.Vec {
	return c.Tangent(c.ParamAt(u))
}

// unitOrZero normalizes v, leaving the zero vector unchanged.
func unitOrZero(v r3.Vec) r3.Vec {
	if n := r3.Norm(v); n > 0 {
		return r3.Scale(1/n, v)
	}
	return r3.Vec{}
}
