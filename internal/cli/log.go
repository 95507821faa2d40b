// Package cli implements the swapmapper command-line interface.
//
// The commands are thin wrappers around [pipeline.Runner]:
//   - route: route a circuit and print the result as QASM or JSON
//   - layers: show the layer decomposition a routing run would use
//   - inspect: step through the swaps of a routing run
//   - coupling: describe or draw a coupling graph
//   - cache: manage the local result cache
//   - serve: run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Status lines
// go to stdout through the helpers in ui.go; log records go to stderr.
//
// [pipeline.Runner]: github.com/matzehuels/swapmapper/pkg/pipeline
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created,
// e.g. "Routed bell.qasm (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
