package systems

import (
	"math"
	"testing"
)

func TestNoiseSamplerKinds(t *testing.T) {
	for _, kind := range []string{"simplex", "perlin", ""} {
		t.Run(kind, func(t *testing.T) {
			n, err := NewNoiseSampler(kind, 7)
			if err != nil {
				t.Fatalf("NewNoiseSampler(%q) failed: %v", kind, err)
			}
			for i := 0; i < 200; i++ {
				u := float64(i) * 0.173
				v := float64(i) * 0.091
				for _, s := range []float64{n.Noise2D(u, v), n.Noise3D(u, v, 123)} {
					if math.IsNaN(s) || s < -1 || s > 1 {
						t.Fatalf("sample %v outside [-1, 1]", s)
					}
				}
			}
		})
	}

	if _, err := NewNoiseSampler("value", 1); err == nil {
		t.Error("expected error for unknown noise kind")
	}
}

func TestNoiseDeterministic(t *testing.T) {
	a := NewSimplexNoise(42)
	b := NewSimplexNoise(42)
	c := NewSimplexNoise(43)

	differs := false
	for i := 0; i < 50; i++ {
		u, v := float64(i)*0.37, float64(i)*0.11
		if a.Noise3D(u, v, 123) != b.Noise3D(u, v, 123) {
			t.Fatalf("same seed produced different samples at (%v, %v)", u, v)
		}
		if a.Noise2D(u, v) != c.Noise2D(u, v) {
			differs = true
		}
	}
	if !differs {
		t.Error("different seeds produced identical samples")
	}
}

func TestNoiseContinuous(t *testing.T) {
	samplers := map[string]NoiseSampler{
		"simplex": NewSimplexNoise(3),
		"perlin":  NewPerlinNoise(3),
	}

	for name, n := range samplers {
		t.Run(name, func(t *testing.T) {
			const h = 1e-5
			for i := 0; i < 100; i++ {
				u, v := float64(i)*0.05, 0.3
				if d := math.Abs(n.Noise2D(u+h, v) - n.Noise2D(u, v)); d > 1e-3 {
					t.Fatalf("jump of %v at u=%v", d, u)
				}
			}
		})
	}
}

func TestPerlinZeroAtLattice(t *testing.T) {
	a := NewPerlinNoise(4)
	b := NewPerlinNoise(5)

	differs := false
	for i := -3; i <= 3; i++ {
		for j := -3; j <= 3; j++ {
			x, y, z := float64(i), float64(j), float64(i*j)
			if got := a.Noise3D(x, y, z); got != 0 {
				t.Fatalf("Noise3D(%v, %v, %v) = %v, want 0 on the lattice", x, y, z, got)
			}
			if a.Noise2D(x+0.37, y+0.61) != b.Noise2D(x+0.37, y+0.61) {
				differs = true
			}
		}
	}
	if !differs {
		t.Error("different seeds produced identical samples")
	}
}
