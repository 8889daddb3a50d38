package sketch

import (
	"bytes"
	"image/color"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/flowlines/components"
	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/telemetry"
)

const smallYAML = `
particles:
  count: 8
curve:
  steps: 30
tube:
  segments: 20
`

// initConfig installs a shrunken global config for preset.
func initConfig(t *testing.T, preset string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(smallYAML), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if err := config.Init(path, preset); err != nil {
		t.Fatalf("config.Init failed: %v", err)
	}
	SetLogWriter(io.Discard)
}

func TestHeadlessUpdateAdvancesTime(t *testing.T) {
	initConfig(t, config.PresetRibbon)
	s, err := New(Options{Headless: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Unload()

	for i := 0; i < 30; i++ {
		s.Update()
		s.Draw()
	}

	if s.Frame() != 30 {
		t.Errorf("Frame = %d, want 30", s.Frame())
	}
	if math.Abs(s.Time()-0.5) > 1e-9 {
		t.Errorf("Time = %v, want 0.5", s.Time())
	}
	s.Scene().Each(func(strand *components.Strand, _ *components.Spawn, _ *components.Mesh, mat *components.Material) {
		if math.Abs(float64(mat.Uniforms.Time)-0.5) > 1e-6 {
			t.Errorf("strand %d time uniform = %v, want 0.5", strand.Index, mat.Uniforms.Time)
		}
	})
	if s.Scene().Builds() != 1 {
		t.Errorf("updates rebuilt the scene: Builds = %d", s.Scene().Builds())
	}
}

func TestSeedOption(t *testing.T) {
	initConfig(t, config.PresetFilament)
	s, err := New(Options{Headless: true, Seed: 77})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Unload()

	if s.Scene().Key().Seed != 77 {
		t.Errorf("seed = %d, want 77", s.Scene().Key().Seed)
	}
	if config.Cfg().Noise.Seed == 77 {
		t.Error("seed option leaked into the global config")
	}
}

func TestExportWritesEachBuildOnce(t *testing.T) {
	initConfig(t, config.PresetFilament)
	dir := t.TempDir()
	s, err := New(Options{Headless: true, OutputDir: dir})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := s.Export(); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if err := s.Export(); err != nil {
		t.Fatalf("second Export failed: %v", err)
	}
	if err := s.Reseed(5); err != nil {
		t.Fatalf("Reseed failed: %v", err)
	}
	if err := s.Export(); err != nil {
		t.Fatalf("Export after reseed failed: %v", err)
	}
	s.Unload()

	var strands []telemetry.StrandRecord
	readCSV(t, filepath.Join(dir, "strands.csv"), &strands)
	if len(strands) != 16 {
		t.Fatalf("strands.csv has %d rows, want 16 (two builds of 8)", len(strands))
	}
	if strands[0].Build != 1 || strands[15].Build != 2 {
		t.Errorf("build columns = %d..%d, want 1..2", strands[0].Build, strands[15].Build)
	}
	if strands[0].Points != 30 || strands[0].Color != "#ffffff" {
		t.Errorf("first strand = %+v", strands[0])
	}

	var points []telemetry.PointRecord
	readCSV(t, filepath.Join(dir, "points.csv"), &points)
	if len(points) != 2*8*30 {
		t.Errorf("points.csv has %d rows, want %d", len(points), 2*8*30)
	}

	var curves []telemetry.CurveStats
	readCSV(t, filepath.Join(dir, "curves.csv"), &curves)
	if len(curves) != 2 {
		t.Errorf("curves.csv has %d rows, want one per build", len(curves))
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}

func TestExportWithoutOutputDir(t *testing.T) {
	initConfig(t, config.PresetFilament)
	s, err := New(Options{Headless: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Unload()

	if err := s.Export(); err != nil {
		t.Errorf("Export without output = %v, want nil", err)
	}
}

func TestResizeFollowsViewport(t *testing.T) {
	tests := []struct {
		name        string
		preset      string
		wantRebuild bool
		wantW       float64
		wantH       float64
	}{
		// Ribbon keeps its 10-unit viewport height and widens with the window.
		{"ribbon", config.PresetRibbon, true, 20, 10},
		// Filament bounds stay on the canvas.
		{"filament", config.PresetFilament, false, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initConfig(t, tt.preset)
			s, err := New(Options{Headless: true})
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer s.Unload()

			if err := s.Resize(1600, 800); err != nil {
				t.Fatalf("Resize failed: %v", err)
			}
			rebuilt := s.Scene().Builds() > 1
			if rebuilt != tt.wantRebuild {
				t.Errorf("rebuilt = %v, want %v", rebuilt, tt.wantRebuild)
			}
			b := s.Scene().Key().Bounds
			if math.Abs(b.Width-tt.wantW) > 1e-9 || math.Abs(b.Height-tt.wantH) > 1e-9 {
				t.Errorf("bounds = %+v, want %vx%v", b, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestViewportFor(t *testing.T) {
	tests := []struct {
		name         string
		base         config.ViewportConfig
		w, h         int32
		wantW, wantH float64
	}{
		{"coupled", config.ViewportConfig{}, 1280, 800, 0, 0},
		{"square window", config.ViewportConfig{Width: 16, Height: 10}, 800, 800, 10, 10},
		{"wide window", config.ViewportConfig{Width: 16, Height: 10}, 1600, 800, 20, 10},
		{"zero window", config.ViewportConfig{Width: 16, Height: 10}, 0, 800, 16, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := viewportFor(tt.base, tt.w, tt.h)
			if math.Abs(w-tt.wantW) > 1e-9 || math.Abs(h-tt.wantH) > 1e-9 {
				t.Errorf("viewportFor = %vx%v, want %vx%v", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func readCSV(t *testing.T, path string, out interface{}) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if err := gocsv.UnmarshalBytes(data, out); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
		want string
	}{
		{"white", color.RGBA{R: 255, G: 255, B: 255, A: 255}, "#ffffff"},
		{"red", color.RGBA{R: 255, A: 255}, "#ff0000"},
		{"transparent", color.RGBA{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hexColor(tt.c); got != tt.want {
				t.Errorf("hexColor(%+v) = %q, want %q", tt.c, got, tt.want)
			}
		})
	}
}

func TestBuildAndRunAreLogged(t *testing.T) {
	initConfig(t, config.PresetFilament)
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	s, err := New(Options{Headless: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.Update()
	s.Unload()

	logs := buf.String()
	for _, want := range []string{
		`"msg":"curve stats"`,
		`"stats":{"build":1,`,
		`"length_mean":`,
		`"msg":"build perf"`,
		`"msg":"run finished"`,
		`"frame_perf":{"avg_tick_us":`,
	} {
		if !strings.Contains(logs, want) {
			t.Errorf("log output missing %s", want)
		}
	}
}

func TestPanDeltaFollowsDrag(t *testing.T) {
	initConfig(t, config.PresetFilament)
	s, err := New(Options{Headless: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Unload()

	start := s.camera.Target
	s.camera.Pan(panDelta(100, 0, s.camera.Distance))
	if s.camera.Target.X >= start.X {
		t.Errorf("dragging right moved target X %v -> %v, want it to decrease", start.X, s.camera.Target.X)
	}

	start = s.camera.Target
	s.camera.Pan(panDelta(0, 100, s.camera.Distance))
	// Canvas Y grows down the screen, so the target moves toward -Y.
	if s.camera.Target.Y >= start.Y {
		t.Errorf("dragging down moved target Y %v -> %v, want it to decrease", start.Y, s.camera.Target.Y)
	}
}
