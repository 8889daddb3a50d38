package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeLengthStats(t *testing.T) {
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}
	mean, std, p10, p50, p90 := ComputeLengthStats(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	// Population std of 0.1..1.0
	if math.Abs(std-0.2872) > 0.001 {
		t.Errorf("std = %v, want ~0.2872", std)
	}
	if math.Abs(p10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", p10)
	}
	if math.Abs(p50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", p50)
	}
	if math.Abs(p90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", p90)
	}
}

func TestComputeLengthStatsEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeLengthStats(nil)

	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCurveAccumulator(t *testing.T) {
	acc := NewCurveAccumulator(10, 10)

	acc.Add([]r3.Vec{{X: 1, Y: 1}, {X: 2, Y: 2, Z: 0.5}, {X: 11, Y: 2}, {X: 3, Y: -1}}, 4, 90, 160)
	acc.Add([]r3.Vec{{X: 5, Y: 5, Z: 0.25}, {X: 6, Y: 5}}, 2, 90, 160)

	s := acc.Stats()
	if s.Strands != 2 || s.Points != 6 {
		t.Errorf("strands/points = %d/%d, want 2/6", s.Strands, s.Points)
	}
	if s.Vertices != 180 || s.Triangles != 320 {
		t.Errorf("vertices/triangles = %d/%d, want 180/320", s.Vertices, s.Triangles)
	}
	if math.Abs(s.OutOfBounds-2.0/6.0) > 1e-12 {
		t.Errorf("OutOfBounds = %v, want 1/3", s.OutOfBounds)
	}
	if s.LengthMean != 3 {
		t.Errorf("LengthMean = %v, want 3", s.LengthMean)
	}
	if s.DepthMax != 0.5 {
		t.Errorf("DepthMax = %v, want 0.5", s.DepthMax)
	}
}

func TestCurveAccumulatorEmpty(t *testing.T) {
	s := NewCurveAccumulator(1, 1).Stats()
	if s.Strands != 0 || s.OutOfBounds != 0 || s.LengthMean != 0 {
		t.Errorf("empty stats = %+v, want zero", s)
	}
}
