// Package scene composes flow-field strands into a renderable set of entities.
package scene

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flowlines/components"
	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/geometry"
	"github.com/pthm-cable/flowlines/systems"
	"github.com/pthm-cable/flowlines/telemetry"
)

// Params holds every config section that shapes generated geometry
// beyond the grid, bounds and seed.
type Params struct {
	Noise     config.NoiseConfig
	RowIndex  string
	Particles config.ParticlesConfig
	Curve     config.CurveConfig
	Tube      config.TubeConfig
	Material  config.MaterialConfig
}

// Key identifies a built scene. Two builds with equal keys produce
// identical strands.
type Key struct {
	Grid   systems.GridConfig
	Bounds systems.Bounds
	Seed   int64
	Preset string
	Params Params
}

// KeyFor derives the scene key from a configuration.
func KeyFor(cfg *config.Config) Key {
	return Key{
		Grid: systems.GridConfig{
			Width:  cfg.Canvas.Width,
			Height: cfg.Canvas.Height,
			Rows:   cfg.Grid.Rows,
			Cols:   cfg.Grid.Cols,
		},
		Bounds: systems.Bounds{Width: cfg.Derived.ViewportW, Height: cfg.Derived.ViewportH},
		Seed:   cfg.Noise.Seed,
		Preset: cfg.Preset,
		Params: Params{
			Noise:     cfg.Noise,
			RowIndex:  cfg.Grid.RowIndex,
			Particles: cfg.Particles,
			Curve:     cfg.Curve,
			Tube:      cfg.Tube,
			Material:  cfg.Material,
		},
	}
}

// fieldKey is the subset of Key the flow field depends on.
type fieldKey struct {
	grid     systems.GridConfig
	noise    config.NoiseConfig
	rowIndex string
}

// Scene owns one ark world holding a strand entity per particle.
type Scene struct {
	cfg config.Config

	world        *ecs.World
	strandMapper *ecs.Map4[components.Strand, components.Spawn, components.Mesh, components.Material]
	strandFilter *ecs.Filter4[components.Strand, components.Spawn, components.Mesh, components.Material]
	materials    *ecs.Filter1[components.Material]

	field    *systems.FlowField
	fieldKey fieldKey

	key      Key
	built    bool
	builds   int
	count    int
	vertices int

	perf      *telemetry.PerfCollector
	lastBuild time.Duration
}

// New creates an empty scene for a copy of cfg. Nothing is generated until Build.
func New(cfg *config.Config) *Scene {
	return &Scene{cfg: *cfg}
}

// SetPerf attaches a collector that times each build's phases.
func (s *Scene) SetPerf(p *telemetry.PerfCollector) {
	s.perf = p
}

// Config returns the scene's configuration copy.
func (s *Scene) Config() *config.Config {
	return &s.cfg
}

// Key returns the key of the current build.
func (s *Scene) Key() Key {
	return s.key
}

// Built reports whether the scene holds a completed build.
func (s *Scene) Built() bool {
	return s.built
}

// Builds returns how many times the scene has been (re)generated.
func (s *Scene) Builds() int {
	return s.builds
}

// Len returns the number of strands.
func (s *Scene) Len() int {
	return s.count
}

// Vertices returns the total tube vertex count across all strands.
func (s *Scene) Vertices() int {
	return s.vertices
}

// LastBuild returns the wall time of the most recent build.
func (s *Scene) LastBuild() time.Duration {
	return s.lastBuild
}

// Field returns the flow field of the current build, or nil before the first build.
func (s *Scene) Field() *systems.FlowField {
	return s.field
}

// Build generates the scene if its key differs from the current build.
// It reports whether anything was regenerated. On error the previous
// build, if any, is left in place.
func (s *Scene) Build() (bool, error) {
	key := KeyFor(&s.cfg)
	if s.built && key == s.key {
		return false, nil
	}
	if err := s.cfg.Validate(); err != nil {
		return false, fmt.Errorf("building scene: %w", err)
	}
	if err := s.rebuild(key); err != nil {
		return false, err
	}
	return true, nil
}

// Rebuild discards the current build and regenerates it unconditionally.
func (s *Scene) Rebuild() error {
	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("building scene: %w", err)
	}
	return s.rebuild(KeyFor(&s.cfg))
}

// Resize sets the viewport extent and rebuilds if that changed the key.
func (s *Scene) Resize(width, height float64) (bool, error) {
	s.cfg.SetViewport(width, height)
	return s.Build()
}

// SetSeed changes the noise seed and rebuilds.
func (s *Scene) SetSeed(seed int64) (bool, error) {
	s.cfg.Noise.Seed = seed
	return s.Build()
}

func (s *Scene) rebuild(key Key) error {
	start := time.Now()
	if s.perf != nil {
		s.perf.StartTick()
		s.perf.StartPhase(telemetry.PhaseFlowField)
	}

	field, fk, err := s.flowField(key)
	if err != nil {
		return err
	}

	boundary, err := systems.ParseBoundaryPolicy(key.Params.Curve.Boundary)
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}
	depth, err := systems.ParseDepthMode(key.Params.Curve.Depth)
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}
	kind, err := components.ParseMaterialKind(key.Params.Material.Kind)
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}

	curveOpts := systems.CurveOptions{
		Steps:      key.Params.Curve.Steps,
		Boundary:   boundary,
		Depth:      depth,
		DepthScale: key.Params.Curve.DepthScale,
	}
	tubeOpts := geometry.TubeOptions{
		Segments:       key.Params.Tube.Segments,
		Radius:         key.Params.Tube.Radius,
		RadialSegments: key.Params.Tube.RadialSegments,
		Closed:         key.Params.Tube.Closed,
	}

	n := key.Params.Particles.Count
	rng := rand.New(rand.NewSource(key.Seed))
	spawns := make([]systems.Particle, n)
	looks := make([]components.Material, n)
	for i := range spawns {
		spawns[i] = systems.RandomParticle(rng, key.Bounds, key.Params.Particles.MaxSpeed, key.Params.Particles.MaxForce)
		looks[i] = strandMaterial(rng, kind, key.Params.Material, i, n)
	}

	if s.perf != nil {
		s.perf.StartPhase(telemetry.PhaseCurves)
	}
	strands := make([]components.Strand, n)
	for i, p := range spawns {
		points, curve := systems.GenerateCurve(p, field, key.Bounds, curveOpts)
		strands[i] = components.Strand{Index: i, Points: points, Curve: curve}
	}

	if s.perf != nil {
		s.perf.StartPhase(telemetry.PhaseMeshes)
	}
	meshes := make([]components.Mesh, n)
	vertices := 0
	for i := range strands {
		tube, err := geometry.NewTube(strands[i].Curve, tubeOpts)
		if err != nil {
			return fmt.Errorf("building strand %d: %w", i, err)
		}
		meshes[i] = components.Mesh{Tube: tube}
		vertices += tube.VertexCount()
	}

	if s.perf != nil {
		s.perf.StartPhase(telemetry.PhaseCompose)
	}
	s.resetWorld()
	for i := range strands {
		spawn := components.Spawn{Position: spawns[i].Position, Velocity: spawns[i].Velocity}
		s.strandMapper.NewEntity(&strands[i], &spawn, &meshes[i], &looks[i])
	}
	if s.perf != nil {
		s.perf.EndTick()
	}

	s.field = field
	s.fieldKey = fk
	s.key = key
	s.built = true
	s.builds++
	s.count = n
	s.vertices = vertices
	s.lastBuild = time.Since(start)

	slog.Info("scene built",
		"preset", key.Preset,
		"seed", key.Seed,
		"strands", n,
		"vertices", vertices,
		"duration_ms", s.lastBuild.Milliseconds(),
	)
	return nil
}

// flowField returns the cached field when only particle-side parameters
// changed. A newly built field is returned with its key; the caller caches
// it once the whole build has succeeded.
func (s *Scene) flowField(key Key) (*systems.FlowField, fieldKey, error) {
	fk := fieldKey{grid: key.Grid, noise: key.Params.Noise, rowIndex: key.Params.RowIndex}
	if s.field != nil && fk == s.fieldKey {
		return s.field, fk, nil
	}

	noise, err := systems.NewNoiseSampler(fk.noise.Kind, fk.noise.Seed)
	if err != nil {
		return nil, fk, fmt.Errorf("building flow field: %w", err)
	}
	rowIndex, err := systems.ParseRowIndexMode(fk.rowIndex)
	if err != nil {
		return nil, fk, fmt.Errorf("building flow field: %w", err)
	}

	field, err := systems.BuildFlowField(fk.grid, noise, systems.FieldOptions{
		AngleRange: fk.noise.AngleTurns * 2 * math.Pi,
		UseDepth:   fk.noise.UseDepth,
		Depth:      fk.noise.Depth,
		RowIndex:   rowIndex,
	})
	if err != nil {
		return nil, fk, fmt.Errorf("building flow field: %w", err)
	}

	slog.Info("flow field built", "rows", fk.grid.Rows, "cols", fk.grid.Cols, "noise", fk.noise.Kind)
	return field, fk, nil
}

// resetWorld drops every entity of the previous build.
func (s *Scene) resetWorld() {
	world := ecs.NewWorld()
	s.world = world
	s.strandMapper = ecs.NewMap4[components.Strand, components.Spawn, components.Mesh, components.Material](world)
	s.strandFilter = ecs.NewFilter4[components.Strand, components.Spawn, components.Mesh, components.Material](world)
	s.materials = ecs.NewFilter1[components.Material](world)
}

// strandMaterial draws the material for strand i of n. It always consumes
// the same amount of randomness so the material kind never shifts the
// particles that follow.
func strandMaterial(rng *rand.Rand, kind components.MaterialKind, mc config.MaterialConfig, i, n int) components.Material {
	phase := rng.Float64() * 2 * math.Pi
	speed := mc.SpeedMin + rng.Float64()*(mc.SpeedMax-mc.SpeedMin)

	return components.Material{
		Kind:  kind,
		Color: strandColor(mc, i, n),
		Uniforms: components.Uniforms{
			Phase: float32(phase),
			Speed: float32(speed),
		},
	}
}

// strandColor returns white for the mono palette, or an evenly spread hue
// for the spectrum palette.
func strandColor(mc config.MaterialConfig, i, n int) color.RGBA {
	if mc.Palette != "spectrum" || n == 0 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	hue := 360 * float64(i) / float64(n)
	r, g, b := colorful.Hsv(hue, mc.Saturation, mc.Value).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Tick advances the time uniform of every strand material. Geometry is untouched.
func (s *Scene) Tick(t float64) {
	if s.world == nil {
		return
	}
	query := s.materials.Query()
	for query.Next() {
		query.Get().Tick(t)
	}
}

// Each calls fn for every strand in spawn order.
func (s *Scene) Each(fn func(strand *components.Strand, spawn *components.Spawn, mesh *components.Mesh, mat *components.Material)) {
	if s.world == nil {
		return
	}
	query := s.strandFilter.Query()
	for query.Next() {
		fn(query.Get())
	}
}
