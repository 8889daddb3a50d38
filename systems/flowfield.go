package systems

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidGrid is returned when a grid cannot produce positive cell sizes.
var ErrInvalidGrid = errors.New("invalid grid")

// GridConfig describes the logical canvas a flow field spans and its resolution.
type GridConfig struct {
	Width, Height float64
	Rows, Cols    int
}

// Validate reports grids with empty dimensions or non-positive cells.
func (g GridConfig) Validate() error {
	if g.Rows < 1 || g.Cols < 1 {
		return fmt.Errorf("%w: rows=%d cols=%d", ErrInvalidGrid, g.Rows, g.Cols)
	}
	if !(g.Width > 0) || !(g.Height > 0) || math.IsInf(g.Width, 0) || math.IsInf(g.Height, 0) {
		return fmt.Errorf("%w: width=%g height=%g", ErrInvalidGrid, g.Width, g.Height)
	}
	return nil
}

// CellWidth returns Width/Cols.
func (g GridConfig) CellWidth() float64 { return g.Width / float64(g.Cols) }

// CellHeight returns Height/Rows.
func (g GridConfig) CellHeight() float64 { return g.Height / float64(g.Rows) }

// Cells returns Rows*Cols.
func (g GridConfig) Cells() int { return g.Rows * g.Cols }

// RowIndexMode selects how a flat cell index maps to the v noise coordinate.
type RowIndexMode uint8

const (
	// RowIndexGeometric uses floor(i/cols), the true row of cell i.
	RowIndexGeometric RowIndexMode = iota
	// RowIndexLegacy uses floor(i/rows), matching renders made before the
	// geometric mode existed. Identical to geometric when rows == cols.
	RowIndexLegacy
)

// ParseRowIndexMode maps a config string to a RowIndexMode.
func ParseRowIndexMode(s string) (RowIndexMode, error) {
	switch s {
	case "", "geometric":
		return RowIndexGeometric, nil
	case "legacy":
		return RowIndexLegacy, nil
	}
	return 0, fmt.Errorf("unknown row index mode %q", s)
}

// FieldOptions controls how noise samples become directions.
type FieldOptions struct {
	// AngleRange scales a noise sample into an angle. Samples are signed,
	// so angles span [-AngleRange, AngleRange].
	AngleRange float64
	// UseDepth samples 3D noise at (u, v, Depth) instead of 2D noise.
	UseDepth bool
	Depth    float64
	RowIndex RowIndexMode
}

// FlowField is an immutable row-major grid of unit direction vectors.
type FlowField struct {
	grid    GridConfig
	vectors []r2.Vec
}

// BuildFlowField samples the noise once per cell of grid.
// The whole field is built before it is returned; there is no partial result.
func BuildFlowField(grid GridConfig, noise NoiseSampler, opts FieldOptions) (*FlowField, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if noise == nil {
		return nil, errors.New("flow field: nil noise sampler")
	}

	n := grid.Cells()
	cellW := grid.CellWidth()
	cellH := grid.CellHeight()
	rowDiv := grid.Cols
	if opts.RowIndex == RowIndexLegacy {
		rowDiv = grid.Rows
	}

	vectors := make([]r2.Vec, n)
	for i := range vectors {
		u := float64(i%grid.Cols) * cellW / grid.Width
		v := float64(i/rowDiv) * cellH / grid.Height

		var sample float64
		if opts.UseDepth {
			sample = noise.Noise3D(u, v, opts.Depth)
		} else {
			sample = noise.Noise2D(u, v)
		}

		angle := sample * opts.AngleRange
		sin, cos := math.Sincos(angle)
		vectors[i] = r2.Vec{X: cos, Y: sin}
	}

	return &FlowField{grid: grid, vectors: vectors}, nil
}

// Grid returns the grid the field was built over.
func (f *FlowField) Grid() GridConfig { return f.grid }

// Len returns the number of cells.
func (f *FlowField) Len() int { return len(f.vectors) }

// At returns the vector at flat index i, or the zero vector outside [0, Len).
func (f *FlowField) At(i int) r2.Vec {
	if i < 0 || i >= len(f.vectors) {
		return r2.Vec{}
	}
	return f.vectors[i]
}

// Index returns the flat index for a position given a cell size.
// The result is not range checked: positions past the right edge spill into
// the next row, exactly like the lookup formula they come from.
func (f *FlowField) Index(x, y, cellW, cellH float64) int {
	return cellOf(x, cellW) + cellOf(y, cellH)*f.grid.Cols
}

// Lookup returns the field vector under (x, y) for the given cell size.
// Positions that index outside the field yield the zero vector.
func (f *FlowField) Lookup(x, y, cellW, cellH float64) r2.Vec {
	return f.At(f.Index(x, y, cellW, cellH))
}

// Vectors returns a copy of the field in row-major order.
func (f *FlowField) Vectors() []r2.Vec {
	out := make([]r2.Vec, len(f.vectors))
	copy(out, f.vectors)
	return out
}
