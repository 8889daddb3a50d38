package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// CurveStats summarizes the strands of one scene build.
type CurveStats struct {
	Build     int `csv:"build"`
	Strands   int `csv:"strands"`
	Points    int `csv:"points"`
	Vertices  int `csv:"vertices"`
	Triangles int `csv:"triangles"`

	// Arc length distribution
	LengthMean float64 `csv:"length_mean"`
	LengthStd  float64 `csv:"length_std"`
	LengthP10  float64 `csv:"length_p10"`
	LengthP50  float64 `csv:"length_p50"`
	LengthP90  float64 `csv:"length_p90"`

	// Fraction of trajectory points outside the particle bounds
	OutOfBounds float64 `csv:"out_of_bounds"`
	DepthMax    float64 `csv:"depth_max"`
}

// CurveAccumulator gathers per-strand measurements for CurveStats.
type CurveAccumulator struct {
	width, height float64
	lengths       []float64
	points        int
	outside       int
	vertices      int
	triangles     int
	depthMax      float64
}

// NewCurveAccumulator creates an accumulator for particles confined to
// [0,width] x [0,height].
func NewCurveAccumulator(width, height float64) *CurveAccumulator {
	return &CurveAccumulator{width: width, height: height}
}

// Add records one strand.
func (a *CurveAccumulator) Add(points []r3.Vec, length float64, vertices, triangles int) {
	a.lengths = append(a.lengths, length)
	a.vertices += vertices
	a.triangles += triangles
	for _, p := range points {
		a.points++
		if p.X < 0 || p.X > a.width || p.Y < 0 || p.Y > a.height {
			a.outside++
		}
		a.depthMax = math.Max(a.depthMax, p.Z)
	}
}

// Stats computes the summary. Build is left for the caller to set.
func (a *CurveAccumulator) Stats() CurveStats {
	s := CurveStats{
		Strands:   len(a.lengths),
		Points:    a.points,
		Vertices:  a.vertices,
		Triangles: a.triangles,
		DepthMax:  a.depthMax,
	}
	if a.points > 0 {
		s.OutOfBounds = float64(a.outside) / float64(a.points)
	}
	s.LengthMean, s.LengthStd, s.LengthP10, s.LengthP50, s.LengthP90 = ComputeLengthStats(a.lengths)
	return s
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeLengthStats returns the population mean and standard deviation and
// the 10th, 50th and 90th percentiles of values.
func ComputeLengthStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s CurveStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("build", s.Build),
		slog.Int("strands", s.Strands),
		slog.Int("points", s.Points),
		slog.Int("vertices", s.Vertices),
		slog.Int("triangles", s.Triangles),
		slog.Float64("length_mean", s.LengthMean),
		slog.Float64("length_std", s.LengthStd),
		slog.Float64("length_p10", s.LengthP10),
		slog.Float64("length_p50", s.LengthP50),
		slog.Float64("length_p90", s.LengthP90),
		slog.Float64("out_of_bounds", s.OutOfBounds),
		slog.Float64("depth_max", s.DepthMax),
	)
}

// LogStats logs the curve stats as a single grouped attribute.
func (s CurveStats) LogStats() {
	slog.Info("curve stats", "stats", s)
}
