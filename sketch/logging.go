package sketch

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/flowlines/telemetry"
	"github.com/pthm-cable/flowlines/ui"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerfStats logs the build and frame timing breakdowns.
func (s *Sketch) logPerfStats() {
	frame := s.framePerf.Stats()
	Logf("=== Perf @ Frame %d | FPS: %.0f ===", s.frame, frame.FPS)
	logPhases("frame", frame)

	build := s.buildPerf.Stats()
	Logf("Last build #%d: %s", s.scene.Builds(), s.scene.LastBuild().Round(time.Microsecond))
	logPhases("build", build)
	Logf("")
}

func logPhases(label string, stats telemetry.PerfStats) {
	Logf("  %s avg %s", label, stats.AvgTickDuration.Round(time.Microsecond))
	for _, name := range ui.SortedPhases(stats.PhaseAvg) {
		Logf("    %-12s %10s  %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), stats.PhasePct[name])
	}
}
