// Package sketch runs the flow-line scene: it owns the scene, camera,
// renderer, HUD and telemetry, and drives them once per frame.
package sketch

import (
	"fmt"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowlines/camera"
	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/renderer"
	"github.com/pthm-cable/flowlines/scene"
	"github.com/pthm-cable/flowlines/telemetry"
	"github.com/pthm-cable/flowlines/ui"
)

// headlessDT is the time step used when no window supplies frame times.
const headlessDT = 1.0 / 60.0

// perfLogInterval is how many frames pass between perf log lines.
const perfLogInterval = 600

// Options configures a sketch run.
type Options struct {
	Seed      int64  // Noise and spawn seed; 0 keeps the config value
	Headless  bool   // Skip all raylib calls
	OutputDir string // CSV/YAML output directory; empty disables output
	LogPerf   bool   // Periodic human-readable perf lines
}

// Sketch holds the complete run state.
type Sketch struct {
	cfg    *config.Config
	scene  *scene.Scene
	camera *camera.Orbit
	rng    *rand.Rand

	// Rendering, nil when headless
	strands   *renderer.StrandRenderer
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	perfPanel *ui.PerfPanel

	// Telemetry
	buildPerf *telemetry.PerfCollector
	framePerf *telemetry.PerfCollector
	output    *telemetry.OutputManager
	exported  int // build number last written to output

	// Base viewport from config, scaled by window aspect on resize
	baseViewport config.ViewportConfig

	// State
	headless     bool
	logPerf      bool
	paused       bool
	showPerf     bool
	time         float64
	frame        int
	screenWidth  int32
	screenHeight int32
}

// New builds the scene and, unless headless, loads GPU resources.
// Requires config.Init and, in graphical mode, an open window.
func New(opts Options) (*Sketch, error) {
	cfg := *config.Cfg()
	if opts.Seed != 0 {
		cfg.Noise.Seed = opts.Seed
	}

	s := &Sketch{
		cfg:          &cfg,
		rng:          rand.New(rand.NewSource(cfg.Noise.Seed)),
		buildPerf:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		framePerf:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		baseViewport: cfg.Viewport,
		headless:     opts.Headless,
		logPerf:      opts.LogPerf,
		screenWidth:  int32(cfg.Screen.Width),
		screenHeight: int32(cfg.Screen.Height),
	}

	s.scene = scene.New(&cfg)
	s.scene.SetPerf(s.buildPerf)
	if _, err := s.scene.Build(); err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.output = output
	if err := s.output.WriteConfig(s.scene.Config()); err != nil {
		s.output.Close()
		return nil, err
	}

	s.camera = camera.NewOrbit(cfg.Canvas.Width, cfg.Canvas.Height, cfg.Camera.FovY, cfg.Camera.DistanceFactor)

	if !s.headless {
		s.strands = renderer.NewStrandRenderer()
		if _, err := s.strands.Sync(s.scene); err != nil {
			s.Unload()
			return nil, err
		}
		s.hud = ui.NewHUD()
		s.controls = ui.NewControlsPanel(s.screenWidth-250, 10, 240)
		s.perfPanel = ui.NewPerfPanel(s.screenWidth-250, 170, 240)
	}

	s.logBuild()
	return s, nil
}

// Scene returns the composed scene.
func (s *Sketch) Scene() *scene.Scene {
	return s.scene
}

// Time returns the value last written to the time uniform.
func (s *Sketch) Time() float64 {
	return s.time
}

// Frame returns the number of updates run.
func (s *Sketch) Frame() int {
	return s.frame
}

// Update handles input, advances time and refreshes GPU state.
func (s *Sketch) Update() {
	s.framePerf.StartTick()

	dt := headlessDT
	if !s.headless {
		s.handleInput()
		dt = float64(rl.GetFrameTime())
	}

	s.framePerf.StartPhase(telemetry.PhaseUniforms)
	if !s.paused {
		s.time += dt
	}
	s.scene.Tick(s.time)

	if !s.headless {
		s.framePerf.StartPhase(telemetry.PhaseUpload)
		if _, err := s.strands.Sync(s.scene); err != nil {
			slog.Error("uploading strands", "error", err)
		}
	}

	s.frame++
	if s.headless {
		s.endFrame()
	}
}

// Draw renders the frame. A no-op when headless.
func (s *Sketch) Draw() {
	if s.headless {
		return
	}
	s.framePerf.StartPhase(telemetry.PhaseDraw)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	s.strands.Draw(s.scene, s.camera)

	s.hud.Draw(ui.HUDData{
		Title:        "Flow Lines",
		Preset:       s.cfg.Preset,
		Seed:         s.scene.Key().Seed,
		Strands:      s.scene.Len(),
		Vertices:     s.scene.Vertices(),
		Material:     s.scene.Config().Material.Kind,
		BuildTime:    s.scene.LastBuild(),
		Builds:       s.scene.Builds(),
		FPS:          rl.GetFPS(),
		Time:         s.time,
		Paused:       s.paused,
		ScreenWidth:  s.screenWidth,
		ScreenHeight: s.screenHeight,
	})
	s.hud.DrawControls(s.screenHeight, "[Space] pause  [N] new seed  [R] rebuild  [E] export  [Tab] panel  [P] perf  [C] camera  right-drag orbit  middle-drag pan  scroll zoom")

	s.handleControls(s.controls.Draw(s.scene.Key().Seed))
	if s.showPerf {
		s.perfPanel.Draw("Build phases", s.buildPerf.Stats().PhaseAvg)
	}

	rl.EndDrawing()
	s.endFrame()
}

func (s *Sketch) endFrame() {
	s.framePerf.EndTick()
	s.framePerf.RecordFrame()

	if s.frame%perfLogInterval == 0 {
		if s.logPerf {
			s.logPerfStats()
		}
		if err := s.output.WritePerf(s.framePerf.Stats(), "frame", s.frame); err != nil {
			slog.Error("writing perf", "error", err)
		}
	}
}

// Resize applies a new window size. When the viewport is decoupled from
// the canvas it takes the window aspect and the scene rebuilds.
func (s *Sketch) Resize(width, height int32) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	s.screenWidth, s.screenHeight = width, height

	vw, vh := viewportFor(s.baseViewport, width, height)
	rebuilt, err := s.scene.Resize(vw, vh)
	if err != nil {
		return fmt.Errorf("resizing scene: %w", err)
	}
	if rebuilt {
		s.logBuild()
	}

	if s.controls != nil {
		s.controls.SetPosition(width-250, 10)
		s.perfPanel.SetPosition(width-250, 170)
	}
	return nil
}

// viewportFor scales the configured viewport to a window's aspect ratio,
// keeping its height. A zero viewport stays coupled to the canvas.
func viewportFor(base config.ViewportConfig, width, height int32) (float64, float64) {
	if base.Width == 0 || base.Height == 0 || width <= 0 || height <= 0 {
		return base.Width, base.Height
	}
	return base.Height * float64(width) / float64(height), base.Height
}

// Reseed switches to a new seed and rebuilds.
func (s *Sketch) Reseed(seed int64) error {
	rebuilt, err := s.scene.SetSeed(seed)
	if err != nil {
		return fmt.Errorf("reseeding scene: %w", err)
	}
	if rebuilt {
		s.logBuild()
	}
	return nil
}

// Rebuild regenerates the scene with the current key.
func (s *Sketch) Rebuild() error {
	if err := s.scene.Rebuild(); err != nil {
		return fmt.Errorf("rebuilding scene: %w", err)
	}
	s.logBuild()
	return nil
}

// logBuild records curve statistics and build timing for the current build.
func (s *Sketch) logBuild() {
	stats := s.curveStats()
	stats.LogStats()
	s.buildPerf.Stats().LogStats("build perf")
	if err := s.output.WriteCurveStats(stats); err != nil {
		slog.Error("writing curve stats", "error", err)
	}
	if err := s.output.WritePerf(s.buildPerf.Stats(), "build", s.scene.Builds()); err != nil {
		slog.Error("writing perf", "error", err)
	}
}

// Unload releases resources and closes output files.
func (s *Sketch) Unload() {
	if s.strands != nil {
		s.strands.Unload()
		s.strands = nil
	}
	slog.Info("run finished", "frames", s.frame, "frame_perf", s.framePerf.Stats())
	if err := s.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
	if s.output != nil {
		slog.Info("output written", "dir", s.output.Dir())
	}
	s.output = nil
}
