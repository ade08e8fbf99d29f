// Package cli implements the gridkit command-line interface.
//
// This package provides commands for laying out listings, rendering and
// querying the resulting layouts, browsing them in a terminal preview and
// serving them over HTTP. The CLI is built using cobra and logs through
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a layout file from a listing
//   - render: Generate SVG, JSON, DOT, flow SVG, PNG or PDF output
//   - query: Look up elements by rectangle or index
//   - preview: Browse a layout interactively
//   - serve: Run the HTTP API
//   - cache: Manage the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Configuration
//
// Defaults come from an optional TOML file (see pkg/config); flags the
// user sets win over it.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the CLI logger. Timestamps read "HH:MM:SS.cc".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	l.SetReportCaller(level <= log.DebugLevel)
	return l
}

// stopwatch logs the stages of one command. Laps go to debug with the
// time since the previous lap; done goes to info with the total.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newStopwatch(l *log.Logger) *stopwatch {
	now := time.Now()
	return &stopwatch{logger: l, start: now, last: now}
}

func (s *stopwatch) lap(msg string, keyvals ...any) {
	now := time.Now()
	s.logger.Debug(msg, append(keyvals, "took", now.Sub(s.last).Round(time.Microsecond))...)
	s.last = now
}

// done logs e.g. "wrote layout path=photos.layout.json elapsed=12ms".
func (s *stopwatch) done(msg string, keyvals ...any) {
	s.logger.Info(msg, append(keyvals, "elapsed", time.Since(s.start).Round(time.Millisecond))...)
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or one
// that discards everything.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return discardLogger
}

var discardLogger = log.New(io.Discard)
