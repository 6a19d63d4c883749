// Package cli implements the kintree command-line interface.
//
// Commands operate on family documents (JSON, TOML or YAML; see pkg/graph)
// and run the kinship and layout engines through a cached pipeline.Runner.
//
// # Commands
//
//   - init: Write a starter document
//   - relate: Print every person's relationship to the reference person
//   - layout: Compute canvas positions, optionally writing them back
//   - validate: Report structural problems in a document
//   - connect, add, edit, remove: Edit a document
//   - convert: Re-encode a document in another format
//   - serve: Run the HTTP API
//   - watch: Recompute whenever a document changes on disk
//   - cache: Manage the result cache
//   - completion: Print a shell completion script
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
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

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Recomputed family.json (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
