package renderer

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flowlines/geometry"
)

func TestFlattenTube(t *testing.T) {
	curve := geometry.NewCatmullRom([]r3.Vec{{X: 0}, {X: 1, Y: 0.5}, {X: 2}, {X: 3, Y: -0.5}}, false)
	tube, err := geometry.NewTube(curve, geometry.TubeOptions{Segments: 12, Radius: 0.1, RadialSegments: 6})
	if err != nil {
		t.Fatalf("NewTube failed: %v", err)
	}

	md, err := FlattenTube(tube)
	if err != nil {
		t.Fatalf("FlattenTube failed: %v", err)
	}

	n := tube.VertexCount()
	if len(md.Vertices) != n*3 || len(md.Normals) != n*3 || len(md.Texcoords) != n*2 {
		t.Errorf("array sizes %d/%d/%d, want %d/%d/%d",
			len(md.Vertices), len(md.Normals), len(md.Texcoords), n*3, n*3, n*2)
	}
	if len(md.Indices) != tube.TriangleCount()*3 {
		t.Errorf("index count = %d, want %d", len(md.Indices), tube.TriangleCount()*3)
	}
	for i, idx := range tube.Indices {
		if int(md.Indices[i]) != idx {
			t.Fatalf("index %d = %d, want %d", i, md.Indices[i], idx)
		}
	}

	last := tube.Positions[n-1]
	got := md.Vertices[(n-1)*3 : n*3]
	if got[0] != float32(last.X) || got[1] != float32(last.Y) || got[2] != float32(last.Z) {
		t.Errorf("last vertex = %v, want %v", got, last)
	}
}

func TestFlattenTubeRejectsOversizedMesh(t *testing.T) {
	tube := &geometry.Tube{Positions: make([]r3.Vec, 70000)}

	if _, err := FlattenTube(tube); !errors.Is(err, ErrMeshTooLarge) {
		t.Errorf("error = %v, want ErrMeshTooLarge", err)
	}
}
