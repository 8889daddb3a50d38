package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Preset       string
	Seed         int64
	Strands      int
	Vertices     int
	Material     string
	BuildTime    time.Duration
	Builds       int
	FPS          int32
	Time         float64
	Paused       bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the title, scene counters and the status bar.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Preset: %s | Seed: %d | Material: %s", data.Preset, data.Seed, data.Material),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Strands: %d | Vertices: %d | FPS: %d", data.Strands, data.Vertices, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}

	bar := rl.Rectangle{X: 0, Y: float32(data.ScreenHeight - 24), Width: float32(data.ScreenWidth), Height: 24}
	gui.StatusBar(bar, StatusText(data))
}

// DrawControls renders the key legend above the status bar.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-44, 14, rl.Gray)
}

// StatusText formats the status bar line.
func StatusText(data HUDData) string {
	state := "running"
	if data.Paused {
		state = "paused"
	}
	return fmt.Sprintf("%s | build #%d in %s | t=%.1fs",
		state, data.Builds, data.BuildTime.Round(time.Millisecond), data.Time)
}
