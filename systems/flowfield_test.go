package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestFlowFieldUnitVectors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	noise := NewSimplexNoise(9)

	for trial := 0; trial < 25; trial++ {
		grid := GridConfig{
			Width:  0.5 + rng.Float64()*50,
			Height: 0.5 + rng.Float64()*50,
			Rows:   1 + rng.Intn(40),
			Cols:   1 + rng.Intn(40),
		}
		opts := FieldOptions{AngleRange: 8 * math.Pi, UseDepth: trial%2 == 0, Depth: 123}

		field, err := BuildFlowField(grid, noise, opts)
		if err != nil {
			t.Fatalf("BuildFlowField(%+v) failed: %v", grid, err)
		}
		if field.Len() != grid.Rows*grid.Cols {
			t.Fatalf("Len = %d, want %d", field.Len(), grid.Rows*grid.Cols)
		}
		for i, v := range field.Vectors() {
			if math.IsNaN(v.X) || math.IsNaN(v.Y) {
				t.Fatalf("grid %+v cell %d is NaN", grid, i)
			}
			if math.Abs(r2.Norm(v)-1) > 1e-12 {
				t.Fatalf("grid %+v cell %d length %v, want 1", grid, i, r2.Norm(v))
			}
		}
	}
}

func TestFlowFieldDeterministic(t *testing.T) {
	grid := GridConfig{Width: 20, Height: 20, Rows: 50, Cols: 50}
	opts := FieldOptions{AngleRange: 8 * math.Pi, UseDepth: true, Depth: 123}

	a, err := BuildFlowField(grid, NewSimplexNoise(5), opts)
	if err != nil {
		t.Fatalf("BuildFlowField failed: %v", err)
	}
	b, err := BuildFlowField(grid, NewSimplexNoise(5), opts)
	if err != nil {
		t.Fatalf("BuildFlowField failed: %v", err)
	}

	av, bv := a.Vectors(), b.Vectors()
	for i := range av {
		if av[i] != bv[i] {
			t.Fatalf("cell %d differs: %v vs %v", i, av[i], bv[i])
		}
	}
}

func TestFlowFieldRejectsDegenerateGrid(t *testing.T) {
	tests := []struct {
		name string
		grid GridConfig
	}{
		{"zero rows", GridConfig{Width: 1, Height: 1, Rows: 0, Cols: 1}},
		{"zero cols", GridConfig{Width: 1, Height: 1, Rows: 1, Cols: 0}},
		{"zero width", GridConfig{Width: 0, Height: 1, Rows: 1, Cols: 1}},
		{"zero height", GridConfig{Width: 1, Height: 0, Rows: 1, Cols: 1}},
		{"nan width", GridConfig{Width: math.NaN(), Height: 1, Rows: 1, Cols: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildFlowField(tt.grid, NewSimplexNoise(1), FieldOptions{AngleRange: 1})
			if !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("error = %v, want ErrInvalidGrid", err)
			}
		})
	}
}

// recordingNoise records every coordinate it is sampled at.
type recordingNoise struct {
	us, vs []float64
}

func (r *recordingNoise) Noise2D(u, v float64) float64 {
	r.us = append(r.us, u)
	r.vs = append(r.vs, v)
	return 0
}

func (r *recordingNoise) Noise3D(u, v, _ float64) float64 { return r.Noise2D(u, v) }

func TestFlowFieldRowIndexModes(t *testing.T) {
	grid := GridConfig{Width: 4, Height: 2, Rows: 2, Cols: 4}

	tests := []struct {
		mode  RowIndexMode
		wantV []float64
	}{
		// Cell i sits in row i/4: two rows of four.
		{RowIndexGeometric, []float64{0, 0, 0, 0, 0.5, 0.5, 0.5, 0.5}},
		// The legacy form divides by rows, so v climbs every two cells.
		{RowIndexLegacy, []float64{0, 0, 0.5, 0.5, 1, 1, 1.5, 1.5}},
	}

	for _, tt := range tests {
		rec := &recordingNoise{}
		if _, err := BuildFlowField(grid, rec, FieldOptions{AngleRange: 1, RowIndex: tt.mode}); err != nil {
			t.Fatalf("BuildFlowField failed: %v", err)
		}
		wantU := []float64{0, 0.25, 0.5, 0.75, 0, 0.25, 0.5, 0.75}
		for i := range wantU {
			if math.Abs(rec.us[i]-wantU[i]) > 1e-12 || math.Abs(rec.vs[i]-tt.wantV[i]) > 1e-12 {
				t.Errorf("mode %d cell %d sampled (%v, %v), want (%v, %v)",
					tt.mode, i, rec.us[i], rec.vs[i], wantU[i], tt.wantV[i])
			}
		}
	}
}

// constantNoise returns the same sample everywhere.
type constantNoise float64

func (c constantNoise) Noise2D(_, _ float64) float64    { return float64(c) }
func (c constantNoise) Noise3D(_, _, _ float64) float64 { return float64(c) }

func TestFlowFieldSignedAngles(t *testing.T) {
	grid := GridConfig{Width: 1, Height: 1, Rows: 1, Cols: 1}
	tests := []struct {
		sample float64
		want   r2.Vec
	}{
		{-0.5, r2.Vec{X: 0, Y: -1}},
		{0.5, r2.Vec{X: 0, Y: 1}},
		{-1, r2.Vec{X: -1, Y: 0}},
	}

	for _, tt := range tests {
		field, err := BuildFlowField(grid, constantNoise(tt.sample), FieldOptions{AngleRange: math.Pi})
		if err != nil {
			t.Fatalf("BuildFlowField failed: %v", err)
		}
		if got := field.At(0); r2.Norm(r2.Sub(got, tt.want)) > 1e-12 {
			t.Errorf("sample %v: vector = %v, want %v", tt.sample, got, tt.want)
		}
	}
}

func TestFlowFieldLookup(t *testing.T) {
	grid := GridConfig{Width: 10, Height: 10, Rows: 5, Cols: 5}
	field, err := BuildFlowField(grid, NewSimplexNoise(2), FieldOptions{AngleRange: 2 * math.Pi})
	if err != nil {
		t.Fatalf("BuildFlowField failed: %v", err)
	}
	cw, ch := grid.CellWidth(), grid.CellHeight()

	if got, want := field.Lookup(3, 5, cw, ch), field.At(1+2*5); got != want {
		t.Errorf("Lookup(3,5) = %v, want cell 11 %v", got, want)
	}

	zero := r2.Vec{}
	for _, pos := range []r2.Vec{{X: 5, Y: -0.1}, {X: 5, Y: 10.5}, {X: -0.1, Y: 0}} {
		if got := field.Lookup(pos.X, pos.Y, cw, ch); got != zero {
			t.Errorf("Lookup(%v) = %v, want zero vector", pos, got)
		}
	}

	// Past the right edge the index spills into the next row.
	if got, want := field.Lookup(10.5, 0, cw, ch), field.At(5); got != want {
		t.Errorf("Lookup(10.5, 0) = %v, want spill into cell 5 %v", got, want)
	}
}
