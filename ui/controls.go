package ui

import (
	"fmt"
	"math"
	"sort"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlActions reports what the user asked for this frame.
type ControlActions struct {
	Seed        int64
	SeedChanged bool
	Randomize   bool
	Rebuild     bool
	Export      bool
}

// ControlsPanel renders the right-side panel with seed and build controls.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
	maxSeed  float32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
		maxSeed:  99999,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the requested actions.
func (c *ControlsPanel) Draw(seed int64) ControlActions {
	actions := ControlActions{Seed: seed}
	if !c.visible {
		return actions
	}

	r := c.renderer
	padding := r.Theme.Padding
	x := float32(c.x + padding)
	inner := float32(c.width - padding*2)

	r.DrawPanel(c.x, c.y, c.width, 150)
	y := r.DrawSectionHeader(c.x+padding, c.y+padding, "Scene")

	rl.DrawText(fmt.Sprintf("Seed %d", seed), int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
	y += 16
	newSeed := gui.SliderBar(
		rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 20},
		"", "",
		float32(seed), 0, c.maxSeed,
	)
	if SliderMoved(float64(seed), newSeed, 0, float64(c.maxSeed)) {
		actions.Seed = int64(newSeed)
		actions.SeedChanged = true
	}
	y += 30

	half := (inner - 10) / 2
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 28}, "Random Seed") {
		actions.Randomize = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: float32(y), Width: half, Height: 28}, "Rebuild") {
		actions.Rebuild = true
	}
	y += 36

	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 28}, "Export CSV") {
		actions.Export = true
	}

	return actions
}

// SliderMoved reports whether the user moved a raygui slider. raygui draws a
// value outside [lo, hi] clamped to the range, so only a move away from the
// clamped position counts; an out-of-range value left alone is kept.
func SliderMoved(current float64, next float32, lo, hi float64) bool {
	shown := math.Min(math.Max(current, lo), hi)
	return next != float32(shown)
}

// PerfPanel renders average phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders one line per phase, slowest first.
func (p *PerfPanel) Draw(title string, phases map[string]time.Duration) {
	r := p.renderer
	padding := r.Theme.Padding

	names := SortedPhases(phases)
	height := int32(len(names)+1)*r.Theme.LineHeight + padding*2 + 2
	r.DrawPanel(p.x, p.y, p.width, height)

	y := r.DrawSectionHeader(p.x+padding, p.y+padding, title)
	for _, name := range names {
		y = r.DrawLabelValue(p.x+padding, y, name, phases[name].Round(time.Microsecond).String())
	}
}

// SortedPhases orders phase names by descending duration, then by name.
func SortedPhases(phases map[string]time.Duration) []string {
	names := make([]string, 0, len(phases))
	for name := range phases {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if phases[names[i]] != phases[names[j]] {
			return phases[names[i]] > phases[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
