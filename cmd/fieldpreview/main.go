// Flow field preview tool - draws the field's direction vectors with sliders
// for the noise parameters.
//
// Usage: go run ./cmd/fieldpreview [-config file.yaml] [-preset name]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/systems"
	"github.com/pthm-cable/flowlines/ui"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file (empty = use defaults)")
	preset := flag.String("preset", "", "Preset to start from")
	flag.Parse()

	cfg, err := config.Load(*configPath, *preset)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	initial := *cfg

	rl.InitWindow(windowWidth, windowHeight, "Flow Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	var field *systems.FlowField
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			f, err := buildField(cfg)
			if err != nil {
				slog.Warn("building flow field", "error", err)
			} else {
				field = f
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		if field != nil {
			drawField(field, 10, 10, previewSize)
		}

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Grid: %dx%d  Noise: %s  Rows: %s",
			cfg.Grid.Cols, cfg.Grid.Rows, cfg.Noise.Kind, cfg.Grid.RowIndex), 15, statsY, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Flow Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		var changed bool
		cfg.Noise.AngleTurns, changed = slider(panelX, &panelY, "Angle range (turns)", "%.2f", cfg.Noise.AngleTurns, 0.25, 8)
		needsRegen = needsRegen || changed

		cfg.Noise.Depth, changed = slider(panelX, &panelY, "Depth (3D noise slice)", "%.1f", cfg.Noise.Depth, 0, 500)
		needsRegen = needsRegen || changed

		rows, changed := slider(panelX, &panelY, "Rows", "%.0f", float64(cfg.Grid.Rows), 1, 100)
		cfg.Grid.Rows = int(rows)
		needsRegen = needsRegen || changed

		cols, changed := slider(panelX, &panelY, "Cols", "%.0f", float64(cfg.Grid.Cols), 1, 100)
		cfg.Grid.Cols = int(cols)
		needsRegen = needsRegen || changed

		seed, changed := slider(panelX, &panelY, "Seed", "%.0f", float64(cfg.Noise.Seed), 0, 99999)
		cfg.Noise.Seed = int64(seed)
		needsRegen = needsRegen || changed

		panelY += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(cfg.Noise.Kind == "simplex", "Perlin", "Simplex")) {
			cfg.Noise.Kind = toggleText(cfg.Noise.Kind == "simplex", "perlin", "simplex")
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(cfg.Noise.UseDepth, "2D Noise", "3D Noise")) {
			cfg.Noise.UseDepth = !cfg.Noise.UseDepth
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			cfg.Noise.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			*cfg = initial
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 250, Height: 30}, toggleText(cfg.Grid.RowIndex == "legacy", "Geometric Rows", "Legacy Rows")) {
			cfg.Grid.RowIndex = toggleText(cfg.Grid.RowIndex == "legacy", "geometric", "legacy")
			needsRegen = true
		}
		panelY += 55

		snippet, err := fieldYAML(cfg)
		if err != nil {
			snippet = err.Error()
		}
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(snippet, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) && err == nil {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled raygui slider and advances y past it.
func slider(x float32, y *float32, label, format string, value, lo, hi float64) (float64, bool) {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35

	if !ui.SliderMoved(value, next, lo, hi) {
		return value, false
	}
	return float64(next), true
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// drawField draws one short line per cell, from the cell centre along its vector.
func drawField(field *systems.FlowField, x0, y0, size float32) {
	grid := field.Grid()
	cellW := size / float32(grid.Cols)
	cellH := size / float32(grid.Rows)
	arm := 0.45 * float32(math.Min(float64(cellW), float64(cellH)))

	for i := 0; i < field.Len(); i++ {
		row, col := i/grid.Cols, i%grid.Cols
		cx := x0 + (float32(col)+0.5)*cellW
		cy := y0 + (float32(row)+0.5)*cellH
		v := field.At(i)

		end := rl.Vector2{X: cx + float32(v.X)*arm, Y: cy + float32(v.Y)*arm}
		rl.DrawLineV(rl.Vector2{X: cx, Y: cy}, end, rl.DarkBlue)
		rl.DrawCircleV(end, 1.5, rl.Maroon)
	}
}
