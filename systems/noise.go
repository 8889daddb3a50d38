package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"
)

// NoiseSampler produces deterministic, continuous gradient noise in [-1, 1].
type NoiseSampler interface {
	Noise2D(u, v float64) float64
	Noise3D(u, v, w float64) float64
}

// NewNoiseSampler returns a seeded sampler of the given kind ("simplex" or "perlin").
func NewNoiseSampler(kind string, seed int64) (NoiseSampler, error) {
	switch kind {
	case "", "simplex":
		return NewSimplexNoise(seed), nil
	case "perlin":
		return NewPerlinNoise(seed), nil
	default:
		return nil, fmt.Errorf("unknown noise kind %q", kind)
	}
}

// SimplexNoise wraps OpenSimplex noise.
type SimplexNoise struct {
	noise opensimplex.Noise
}

// NewSimplexNoise creates a simplex noise generator for seed.
func NewSimplexNoise(seed int64) *SimplexNoise {
	return &SimplexNoise{
		noise: opensimplex.New(seed),
	}
}

// Noise2D returns a noise value for 2D coordinates.
func (s *SimplexNoise) Noise2D(u, v float64) float64 {
	return clampUnit(s.noise.Eval2(u, v))
}

// Noise3D returns a noise value for 3D coordinates.
func (s *SimplexNoise) Noise3D(u, v, w float64) float64 {
	return clampUnit(s.noise.Eval3(u, v, w))
}

// PerlinNoise is improved Perlin gradient noise over a seeded permutation.
type PerlinNoise struct {
	perm [512]uint8
}

// perlinGradients are the twelve cube-edge directions, padded to sixteen
// so a hash selects one with hash&15.
var perlinGradients = [16]r3.Vec{
	{X: 1, Y: 1}, {X: -1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: -1},
	{X: 1, Z: 1}, {X: -1, Z: 1}, {X: 1, Z: -1}, {X: -1, Z: -1},
	{Y: 1, Z: 1}, {Y: -1, Z: 1}, {Y: 1, Z: -1}, {Y: -1, Z: -1},
	{X: 1, Y: 1}, {Y: -1, Z: 1}, {X: -1, Y: 1}, {Y: -1, Z: -1},
}

// NewPerlinNoise creates a Perlin noise generator for seed.
func NewPerlinNoise(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	for i, v := range rand.New(rand.NewSource(seed)).Perm(256) {
		p.perm[i] = uint8(v)
		p.perm[i+256] = uint8(v)
	}
	return p
}

// Noise2D samples the z = 0 slice of the 3D noise.
func (p *PerlinNoise) Noise2D(x, y float64) float64 {
	return p.Noise3D(x, y, 0)
}

// Noise3D blends the gradient contributions of the eight corners of the
// lattice cell containing (x, y, z).
func (p *PerlinNoise) Noise3D(x, y, z float64) float64 {
	xi, xf := lattice(x)
	yi, yf := lattice(y)
	zi, zf := lattice(z)
	local := r3.Vec{X: xf, Y: yf, Z: zf}

	var c [8]float64
	for corner := range c {
		dx, dy, dz := corner&1, corner>>1&1, corner>>2&1
		h := p.hash(xi+dx, yi+dy, zi+dz)
		offset := r3.Sub(local, r3.Vec{X: float64(dx), Y: float64(dy), Z: float64(dz)})
		c[corner] = r3.Dot(perlinGradients[h&15], offset)
	}

	u, v, w := fade(xf), fade(yf), fade(zf)
	y0 := lerp(v, lerp(u, c[0], c[1]), lerp(u, c[2], c[3]))
	y1 := lerp(v, lerp(u, c[4], c[5]), lerp(u, c[6], c[7]))
	return clampUnit(lerp(w, y0, y1))
}

// hash maps a lattice point to a permutation entry. Coordinates wrap every 256 cells.
func (p *PerlinNoise) hash(x, y, z int) uint8 {
	h := p.perm[x&255]
	h = p.perm[int(h)+y&255]
	return p.perm[int(h)+z&255]
}

// lattice splits x into its wrapped cell index and the offset inside the cell.
func lattice(x float64) (int, float64) {
	f := math.Floor(x)
	return int(f) & 255, x - f
}

// fade is the quintic ease curve 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}
