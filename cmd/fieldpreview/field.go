package main

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/systems"
)

// buildField builds the flow field for the grid and noise sections of cfg.
func buildField(cfg *config.Config) (*systems.FlowField, error) {
	noise, err := systems.NewNoiseSampler(cfg.Noise.Kind, cfg.Noise.Seed)
	if err != nil {
		return nil, err
	}
	rowIndex, err := systems.ParseRowIndexMode(cfg.Grid.RowIndex)
	if err != nil {
		return nil, err
	}

	grid := systems.GridConfig{
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
		Rows:   cfg.Grid.Rows,
		Cols:   cfg.Grid.Cols,
	}
	return systems.BuildFlowField(grid, noise, systems.FieldOptions{
		AngleRange: cfg.Noise.AngleTurns * 2 * math.Pi,
		UseDepth:   cfg.Noise.UseDepth,
		Depth:      cfg.Noise.Depth,
		RowIndex:   rowIndex,
	})
}

// fieldYAML renders the grid and noise sections as a config fragment
// that can be pasted into a user config file.
func fieldYAML(cfg *config.Config) (string, error) {
	fragment := struct {
		Grid  config.GridConfig  `yaml:"grid"`
		Noise config.NoiseConfig `yaml:"noise"`
	}{cfg.Grid, cfg.Noise}

	out, err := yaml.Marshal(fragment)
	if err != nil {
		return "", fmt.Errorf("encoding field config: %w", err)
	}
	return string(out), nil
}
