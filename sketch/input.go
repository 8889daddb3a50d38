package sketch

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowlines/ui"
)

// Orbit sensitivity in radians per pixel, zoom per wheel notch and pan
// distance per pixel as a fraction of the orbit distance.
const (
	orbitSpeed = 0.005
	zoomStep   = 0.9
	panSpeed   = 0.001
)

// handleInput processes keyboard and mouse input.
func (s *Sketch) handleInput() {
	s.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		s.paused = !s.paused
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		s.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		s.showPerf = !s.showPerf
	}
	if rl.IsKeyPressed(rl.KeyC) {
		s.camera.Reset()
	}

	s.handleControls(ui.ControlActions{
		Seed:      s.scene.Key().Seed,
		Randomize: rl.IsKeyPressed(rl.KeyN),
		Rebuild:   rl.IsKeyPressed(rl.KeyR),
		Export:    rl.IsKeyPressed(rl.KeyE),
	})

	s.handleCameraInput()
}

// handleCameraInput orbits on right drag, pans on middle drag and zooms on the wheel.
func (s *Sketch) handleCameraInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		s.camera.Rotate(float64(d.X)*orbitSpeed, float64(d.Y)*orbitSpeed)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		s.camera.Pan(panDelta(float64(d.X), float64(d.Y), s.camera.Distance))
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		factor := zoomStep
		if wheel < 0 {
			factor = 1 / zoomStep
		}
		s.camera.Zoom(factor)
	}
}

// handleControls applies actions from the keyboard or the controls panel.
func (s *Sketch) handleControls(a ui.ControlActions) {
	switch {
	case a.SeedChanged:
		s.reseedOrLog(a.Seed)
	case a.Randomize:
		s.reseedOrLog(s.rng.Int63n(100000))
	case a.Rebuild:
		if err := s.Rebuild(); err != nil {
			slog.Error("rebuild failed", "error", err)
		}
	}
	if a.Export {
		if err := s.Export(); err != nil {
			slog.Error("export failed", "error", err)
		}
	}
}

func (s *Sketch) reseedOrLog(seed int64) {
	if err := s.Reseed(seed); err != nil {
		slog.Error("reseed failed", "seed", seed, "error", err)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (s *Sketch) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == s.screenWidth && h == s.screenHeight {
		return
	}
	if err := s.Resize(w, h); err != nil {
		slog.Error("resize failed", "width", w, "height", h, "error", err)
	}
}

// panDelta converts a mouse drag into a pan that keeps the canvas under the
// cursor moving with it: dragging right moves the target left.
func panDelta(dx, dy, distance float64) (float64, float64) {
	scale := distance * panSpeed
	return -dx * scale, dy * scale
}
