package sketch

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/flowlines/components"
	"github.com/pthm-cable/flowlines/telemetry"
)

// curveStats summarizes the current build.
func (s *Sketch) curveStats() telemetry.CurveStats {
	bounds := s.scene.Key().Bounds
	acc := telemetry.NewCurveAccumulator(bounds.Width, bounds.Height)
	s.scene.Each(func(strand *components.Strand, _ *components.Spawn, mesh *components.Mesh, _ *components.Material) {
		acc.Add(strand.Points, strand.Curve.Length(), mesh.Tube.VertexCount(), mesh.Tube.TriangleCount())
	})
	stats := acc.Stats()
	stats.Build = s.scene.Builds()
	return stats
}

// Export writes the current build's strands and trajectory points.
// A build is written at most once; without an output directory Export does nothing.
func (s *Sketch) Export() error {
	if s.output == nil {
		slog.Warn("export skipped, no output directory")
		return nil
	}
	build := s.scene.Builds()
	if build == s.exported {
		return nil
	}

	strands, points := s.records(build)
	if err := s.output.WriteStrands(strands); err != nil {
		return fmt.Errorf("exporting strands: %w", err)
	}
	if err := s.output.WritePoints(points); err != nil {
		return fmt.Errorf("exporting points: %w", err)
	}
	s.exported = build

	slog.Info("scene exported", "build", build, "strands", len(strands), "points", len(points), "dir", s.output.Dir())
	return nil
}

// records flattens the scene into CSV rows.
func (s *Sketch) records(build int) ([]telemetry.StrandRecord, []telemetry.PointRecord) {
	strands := make([]telemetry.StrandRecord, 0, s.scene.Len())
	var points []telemetry.PointRecord

	s.scene.Each(func(strand *components.Strand, spawn *components.Spawn, mesh *components.Mesh, mat *components.Material) {
		strands = append(strands, telemetry.StrandRecord{
			Build:    build,
			Index:    strand.Index,
			StartX:   spawn.Position.X,
			StartY:   spawn.Position.Y,
			Length:   strand.Curve.Length(),
			Points:   len(strand.Points),
			Vertices: mesh.Tube.VertexCount(),
			Material: mat.Kind.String(),
			Color:    hexColor(mat.Color),
			Phase:    mat.Uniforms.Phase,
			Speed:    mat.Uniforms.Speed,
		})
		for step, p := range strand.Points {
			points = append(points, telemetry.PointRecord{
				Build:  build,
				Strand: strand.Index,
				Step:   step,
				X:      p.X,
				Y:      p.Y,
				Z:      p.Z,
			})
		}
	})
	return strands, points
}

// hexColor formats c as #rrggbb. A fully transparent colour has no
// recoverable RGB and yields an empty string.
func hexColor(c color.RGBA) string {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	return cc.Hex()
}
