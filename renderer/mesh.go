package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/flowlines/geometry"
)

// ErrMeshTooLarge is returned when a tube has more vertices than 16-bit
// indices can address.
var ErrMeshTooLarge = errors.New("mesh exceeds 16-bit index range")

// MeshData is a tube flattened into the interleaved-free arrays raylib uploads.
type MeshData struct {
	Vertices  []float32 // xyz per vertex
	Normals   []float32 // xyz per vertex
	Texcoords []float32 // uv per vertex
	Indices   []uint16  // three per triangle
}

// FlattenTube converts a tube to raylib's vertex layout.
func FlattenTube(t *geometry.Tube) (MeshData, error) {
	n := t.VertexCount()
	if n > math.MaxUint16+1 {
		return MeshData{}, fmt.Errorf("%w: %d vertices", ErrMeshTooLarge, n)
	}

	md := MeshData{
		Vertices:  make([]float32, 0, n*3),
		Normals:   make([]float32, 0, n*3),
		Texcoords: make([]float32, 0, n*2),
		Indices:   make([]uint16, len(t.Indices)),
	}
	for i, p := range t.Positions {
		nv := t.Normals[i]
		uv := t.UVs[i]
		md.Vertices = append(md.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
		md.Normals = append(md.Normals, float32(nv.X), float32(nv.Y), float32(nv.Z))
		md.Texcoords = append(md.Texcoords, float32(uv[0]), float32(uv[1]))
	}
	for i, idx := range t.Indices {
		md.Indices[i] = uint16(idx)
	}
	return md, nil
}
