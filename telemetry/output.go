package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/flowlines/config"
)

// StrandRecord is one row of strands.csv.
type StrandRecord struct {
	Build    int     `csv:"build"`
	Index    int     `csv:"index"`
	StartX   float64 `csv:"start_x"`
	StartY   float64 `csv:"start_y"`
	Length   float64 `csv:"length"`
	Points   int     `csv:"points"`
	Vertices int     `csv:"vertices"`
	Material string  `csv:"material"`
	Color    string  `csv:"color"`
	Phase    float32 `csv:"phase"`
	Speed    float32 `csv:"speed"`
}

// PointRecord is one trajectory point in points.csv.
type PointRecord struct {
	Build  int     `csv:"build"`
	Strand int     `csv:"strand"`
	Step   int     `csv:"step"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
	Z      float64 `csv:"z"`
}

// csvFile appends gocsv rows, writing the header only once.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func (c *csvFile) append(records any, name string) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, c.f); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// OutputManager handles structured run output with CSV logging.
// A nil manager accepts every write and does nothing.
type OutputManager struct {
	dir     string
	strands csvFile
	points  csvFile
	curves  csvFile
	perf    csvFile
}

var outputFiles = []string{"strands.csv", "points.csv", "curves.csv", "perf.csv"}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	targets := []*csvFile{&om.strands, &om.points, &om.curves, &om.perf}
	for i, name := range outputFiles {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		targets[i].f = f
	}

	return om, nil
}

// WriteConfig saves the resolved configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStrands appends strand records to strands.csv.
func (om *OutputManager) WriteStrands(records []StrandRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	return om.strands.append(records, "strands")
}

// WritePoints appends trajectory points to points.csv.
func (om *OutputManager) WritePoints(records []PointRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	return om.points.append(records, "points")
}

// WriteCurveStats appends a build summary to curves.csv.
func (om *OutputManager) WriteCurveStats(stats CurveStats) error {
	if om == nil {
		return nil
	}
	return om.curves.append([]CurveStats{stats}, "curves")
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, kind string, tick int) error {
	if om == nil {
		return nil
	}
	return om.perf.append([]PerfStatsCSV{stats.ToCSV(kind, tick)}, "perf")
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{&om.strands, &om.points, &om.curves, &om.perf} {
		if c.f == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.f = nil
	}
	return firstErr
}
