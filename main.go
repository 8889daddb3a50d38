package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/sketch"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	preset := flag.String("preset", "", "Named preset: filament or ribbon (empty = from config)")
	seed := flag.Int64("seed", 0, "Noise and spawn seed (0 = from config, -1 = time-based)")
	headless := flag.Bool("headless", false, "Build and export without opening a window")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	frames := flag.Int("frames", 0, "Stop after N frames (0 = unlimited, headless defaults to 1)")
	logPerf := flag.Bool("log-perf", false, "Print periodic perf breakdowns")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath, *preset); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed < 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := sketch.Options{
		Seed:      rngSeed,
		Headless:  *headless,
		OutputDir: *outputDir,
		LogPerf:   *logPerf,
	}

	if *headless {
		// Headless mode - build, export and tick uniforms, no raylib needed
		s, err := sketch.New(opts)
		if err != nil {
			slog.Error("failed to build sketch", "error", err)
			os.Exit(1)
		}
		defer s.Unload()

		n := *frames
		if n <= 0 {
			n = 1
		}
		slog.Info("starting headless run",
			"preset", cfg.Preset,
			"seed", s.Scene().Key().Seed,
			"frames", n,
			"output_dir", *outputDir,
		)

		if err := s.Export(); err != nil {
			slog.Error("export failed", "error", err)
			s.Unload()
			os.Exit(1)
		}
		for s.Frame() < n {
			s.Update()
		}
		slog.Info("headless run complete", "frames", s.Frame(), "time", s.Time())
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Flow Lines")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	s, err := sketch.New(opts)
	if err != nil {
		slog.Error("failed to build sketch", "error", err)
		os.Exit(1)
	}
	defer s.Unload()

	for !rl.WindowShouldClose() {
		s.Update()
		s.Draw()

		if *frames > 0 && s.Frame() >= *frames {
			break
		}
	}
}
