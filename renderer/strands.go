// Package renderer draws scene strands with raylib.
package renderer

import (
	_ "embed"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowlines/camera"
	"github.com/pthm-cable/flowlines/components"
	"github.com/pthm-cable/flowlines/scene"
)

//go:embed shaders/strand.vs
var strandVS string

//go:embed shaders/strand.fs
var strandFS string

// gpuStrand is one uploaded tube. The Go slices back the mesh pointers.
type gpuStrand struct {
	mesh rl.Mesh
	data MeshData
}

// StrandRenderer uploads scene tubes to the GPU and draws them with either
// the flat default material or the animated strand shader.
type StrandRenderer struct {
	basic    rl.Material
	shaded   rl.Material
	timeLoc  int32
	phaseLoc int32
	speedLoc int32

	strands []gpuStrand

	// Upload tracking
	key    scene.Key
	builds int
	loaded bool
}

// NewStrandRenderer loads the materials. Requires an open window.
func NewStrandRenderer() *StrandRenderer {
	r := &StrandRenderer{
		basic:  rl.LoadMaterialDefault(),
		shaded: rl.LoadMaterialDefault(),
	}

	shader := rl.LoadShaderFromMemory(strandVS, strandFS)
	r.timeLoc = rl.GetShaderLocation(shader, "time")
	r.phaseLoc = rl.GetShaderLocation(shader, "phase")
	r.speedLoc = rl.GetShaderLocation(shader, "speed")
	r.shaded.Shader = shader

	return r
}

// Sync re-uploads meshes when the scene has been rebuilt since the last upload.
// It reports whether an upload happened.
func (r *StrandRenderer) Sync(s *scene.Scene) (bool, error) {
	if r.loaded && s.Key() == r.key && s.Builds() == r.builds {
		return false, nil
	}
	r.unloadMeshes()

	strands := make([]gpuStrand, s.Len())
	var uploadErr error
	s.Each(func(strand *components.Strand, _ *components.Spawn, mesh *components.Mesh, _ *components.Material) {
		if uploadErr != nil {
			return
		}
		data, err := FlattenTube(mesh.Tube)
		if err != nil {
			uploadErr = fmt.Errorf("strand %d: %w", strand.Index, err)
			return
		}
		strands[strand.Index] = gpuStrand{data: data}
	})
	if uploadErr != nil {
		return false, uploadErr
	}

	for i := range strands {
		g := &strands[i]
		g.mesh = rl.Mesh{
			VertexCount:   int32(len(g.data.Vertices) / 3),
			TriangleCount: int32(len(g.data.Indices) / 3),
			Vertices:      &g.data.Vertices[0],
			Normals:       &g.data.Normals[0],
			Texcoords:     &g.data.Texcoords[0],
			Indices:       &g.data.Indices[0],
		}
		rl.UploadMesh(&g.mesh, false)
	}

	r.strands = strands
	r.key = s.Key()
	r.builds = s.Builds()
	r.loaded = true
	return true, nil
}

// Draw renders every strand from the orbit camera's point of view.
func (r *StrandRenderer) Draw(s *scene.Scene, cam *camera.Orbit) {
	if !r.loaded {
		return
	}

	rl.BeginMode3D(Camera3D(cam))
	identity := rl.MatrixIdentity()
	s.Each(func(strand *components.Strand, _ *components.Spawn, _ *components.Mesh, mat *components.Material) {
		if strand.Index >= len(r.strands) {
			return
		}
		material := r.basic
		if mat.Animated() {
			material = r.shaded
			u := mat.Uniforms
			rl.SetShaderValue(material.Shader, r.timeLoc, []float32{u.Time}, rl.ShaderUniformFloat)
			rl.SetShaderValue(material.Shader, r.phaseLoc, []float32{u.Phase}, rl.ShaderUniformFloat)
			rl.SetShaderValue(material.Shader, r.speedLoc, []float32{u.Speed}, rl.ShaderUniformFloat)
		}
		material.GetMap(rl.MapDiffuse).Color = mat.Color
		rl.DrawMesh(r.strands[strand.Index].mesh, material, identity)
	})
	rl.EndMode3D()
}

// Camera3D converts an orbit camera to raylib's perspective camera.
func Camera3D(o *camera.Orbit) rl.Camera3D {
	pos := o.Position()
	up := o.Up()
	return rl.Camera3D{
		Position:   rl.NewVector3(float32(pos.X), float32(pos.Y), float32(pos.Z)),
		Target:     rl.NewVector3(float32(o.Target.X), float32(o.Target.Y), float32(o.Target.Z)),
		Up:         rl.NewVector3(float32(up.X), float32(up.Y), float32(up.Z)),
		Fovy:       float32(o.FovY),
		Projection: rl.CameraPerspective,
	}
}

func (r *StrandRenderer) unloadMeshes() {
	for i := range r.strands {
		if r.strands[i].mesh.VaoID != 0 {
			rl.UnloadMesh(&r.strands[i].mesh)
		}
	}
	r.strands = nil
	r.loaded = false
}

// Unload releases GPU resources.
func (r *StrandRenderer) Unload() {
	r.unloadMeshes()
	rl.UnloadMaterial(r.shaded)
	rl.UnloadMaterial(r.basic)
}
