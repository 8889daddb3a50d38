package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// clampUnit clamps v to the [-1, 1] range.
func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// setLength returns v rescaled to length n.
// The zero vector stays zero rather than becoming NaN.
func setLength(v r2.Vec, n float64) r2.Vec {
	l := r2.Norm(v)
	if l == 0 {
		return r2.Vec{}
	}
	return r2.Scale(n/l, v)
}

// cellOf returns the grid cell coordinate containing x for the given cell size.
func cellOf(x, size float64) int {
	return int(math.Floor(x / size))
}
